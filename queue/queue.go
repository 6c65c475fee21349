// Package queue abstracts the transport approved leads are published on.
// Bindings from sub-packages compose into concrete publishers and
// subscribers.
package queue

import (
	"errors"
	"fmt"
	"io"
	"runtime"
)

// Server must be implemented by a queue server which can bind to an address.
type Server interface {
	io.Closer

	// Bind starts the server listening on the given URI.
	Bind(string) error
}

// Client must be implemented by a queue client which can connect to an
// address.
type Client interface {
	io.Closer

	// Connect attaches the Client to a Server on the given URI.
	Connect(string) error
}

// Publisher must be implemented by a queue server which can bind to an
// address, accept clients, and send messages.
type Publisher interface {
	Server

	// Channel returns a handle for the user to send messages on.
	Channel() chan []byte
}

// Subscriber must be implemented by a queue client which can connect to an
// address and receive messages.
type Subscriber interface {
	Client

	// Channel returns a channel which messages can be received on.
	Channel() chan []byte
}

// PubBinding is a method which takes a Publisher and returns a Publisher and
// any setup error.  PubBindings should be implemented by sub-packages.
type PubBinding func(Publisher) (Publisher, error)

// SubBinding is a method which takes a Subscriber and returns a Subscriber
// and any setup error.  SubBindings should be implemented by sub-packages.
type SubBinding func(Subscriber) (Subscriber, error)

// PubChannel wraps a channel with its Publisher.  Close will be called when
// it is garbage collected, if it has not already been called.
type PubChannel struct {
	p Publisher

	// C is the channel which messages can be published on.
	C chan<- []byte
}

// Close tears the publisher down.
func (p *PubChannel) Close() error {
	runtime.SetFinalizer(p, nil)
	return p.p.Close()
}

// SubChannel wraps a channel with its Subscriber.  Close will be called when
// it is garbage collected, if it has not already been called.
type SubChannel struct {
	s Subscriber

	// C is the channel which subscribed messages will arrive on.
	C <-chan []byte
}

// Close tears the subscriber down.
func (s *SubChannel) Close() error {
	runtime.SetFinalizer(s, nil)
	return s.s.Close()
}

// Publish sets up a Publisher with the given PubBindings and Binds it on the
// given path. The returned PubChannel keeps the Publisher alive until Close
// is called.
func Publish(path string, bindings ...PubBinding) (*PubChannel, error) {
	if path == "" {
		return nil, errors.New("no path provided")
	}
	if len(bindings) < 1 {
		return nil, errors.New("no bindings provided")
	}

	p, err := newPublisher(bindings...)
	if err != nil {
		return nil, fmt.Errorf("bad publisher binding: %s", err.Error())
	}

	if err = p.Bind(path); err != nil {
		p.Close()
		return nil, fmt.Errorf("publisher failed to bind: %s", err.Error())
	}

	pChan := &PubChannel{p: p, C: p.Channel()}
	runtime.SetFinalizer(pChan, func(pc *PubChannel) { pc.Close() })
	return pChan, nil
}

// Subscribe sets up a Subscriber with the given SubBindings and Connects it
// on the given path. The returned SubChannel keeps the Subscriber alive
// until Close is called.
func Subscribe(path string, bindings ...SubBinding) (*SubChannel, error) {
	if path == "" {
		return nil, errors.New("no path provided")
	}
	if len(bindings) < 1 {
		return nil, errors.New("no bindings provided")
	}

	s, err := newSubscriber(bindings...)
	if err != nil {
		return nil, fmt.Errorf("bad subscriber binding: %s", err.Error())
	}

	if err = s.Connect(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("subscriber failed to connect: %s", err.Error())
	}

	sChan := &SubChannel{s: s, C: s.Channel()}
	runtime.SetFinalizer(sChan, func(sc *SubChannel) { sc.Close() })
	return sChan, nil
}

func newPublisher(bindings ...PubBinding) (Publisher, error) {
	var p Publisher
	var err error
	for _, binding := range bindings {
		p, err = binding(p)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newSubscriber(bindings ...SubBinding) (Subscriber, error) {
	var s Subscriber
	var err error
	for _, binding := range bindings {
		s, err = binding(s)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
