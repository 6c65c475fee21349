// Package channel implements queue pub/sub over in-process channels. It is
// the development transport; production relays run the mangos transport.
package channel

import (
	"fmt"

	"leadfilter/queue"
)

var _ = queue.Publisher(&Publisher{})
var _ = queue.Subscriber(&Subscriber{})

const (
	commandPub = iota
	commandSub
	commandClosePub
	commandCloseSub
)

type command struct {
	cmd  int
	path string
	comm chan []byte
	err  chan error
}

var cmdChan = make(chan command, 8)

func init() {
	go func() {
		publishers := make(map[string]chan command)
		for cmd := range cmdChan {
			switch cmd.cmd {
			case commandPub:
				if _, has := publishers[cmd.path]; has {
					cmd.err <- fmt.Errorf("publisher for path '%v' already exists", cmd.path)
					break
				}
				pubCmdChan := make(chan command, 8)
				publishers[cmd.path] = pubCmdChan
				go publisher(pubCmdChan, cmd.comm)
				cmd.err <- nil
			case commandSub, commandCloseSub:
				if pub, ok := publishers[cmd.path]; ok {
					pub <- cmd
					cmd.err <- nil
				} else {
					cmd.err <- fmt.Errorf("publisher for path '%v' doesn't exist", cmd.path)
				}
			case commandClosePub:
				if pub, ok := publishers[cmd.path]; ok {
					pub <- cmd
					delete(publishers, cmd.path)
					cmd.err <- nil
				} else {
					cmd.err <- fmt.Errorf("publisher for path '%v' doesn't exist", cmd.path)
				}
			}
		}
	}()
}

func publisher(cmdChan chan command, comm chan []byte) {
	var subscribers []chan []byte
	for {
		select {
		case cmd := <-cmdChan:
			switch cmd.cmd {
			case commandSub:
				subscribers = append(subscribers, cmd.comm)
			case commandClosePub:
				close(comm)
				for _, subscriber := range subscribers {
					if subscriber != nil {
						close(subscriber)
					}
				}
				return
			case commandCloseSub:
				for k, v := range subscribers {
					if v == cmd.comm {
						subscribers[k] = nil
						close(v)
						break
					}
				}
			}
		case message := <-comm:
			for s, subscriber := range subscribers {
				if subscriber != nil {
					send := func() {
						defer func() {
							if r := recover(); r != nil {
								subscribers[s] = nil
							}
						}()
						subscriber <- message
					}
					send()
				}
			}
		}
	}
}

// Server is the broker side of an in-process pub path.
type Server struct {
	path string
	comm chan []byte
}

// Bind registers the path with the broker.
func (s *Server) Bind(path string) error {
	cmd := command{
		cmd:  commandPub,
		path: path,
		comm: s.comm,
		err:  make(chan error, 1),
	}
	cmdChan <- cmd
	if err := <-cmd.err; err != nil {
		return err
	}
	s.path = path
	return nil
}

// Close unregisters the path and closes all subscriber channels.
func (s *Server) Close() error {
	if s.path == "" {
		return fmt.Errorf("the publisher isn't bound")
	}

	cmd := command{
		cmd:  commandClosePub,
		path: s.path,
		err:  make(chan error, 1),
	}
	cmdChan <- cmd
	return <-cmd.err
}

// Publisher implements queue.Publisher over the in-process broker.
type Publisher struct {
	Server
}

// Channel returns the channel messages are published on.
func (p *Publisher) Channel() chan []byte {
	return p.comm
}

// Publish is a queue.PubBinding which creates a new in-process Publisher.
func Publish(p queue.Publisher) (queue.Publisher, error) {
	if p != nil {
		return nil, fmt.Errorf("channel.Publish expects nil Publisher, got %T", p)
	}
	publisher := &Publisher{}
	publisher.comm = make(chan []byte, 8)
	return publisher, nil
}

// Client is the consumer side of an in-process pub path.
type Client struct {
	path string
	comm chan []byte
}

// Connect attaches the client's channel to the broker path.
func (c *Client) Connect(path string) error {
	cmd := command{
		cmd:  commandSub,
		path: path,
		comm: c.comm,
		err:  make(chan error, 1),
	}
	cmdChan <- cmd
	if err := <-cmd.err; err != nil {
		return err
	}
	c.path = path
	return nil
}

// Close detaches the client from the broker.
func (c *Client) Close() error {
	if c.path == "" {
		return fmt.Errorf("the subscriber isn't connected")
	}

	cmd := command{
		cmd:  commandCloseSub,
		path: c.path,
		comm: c.comm,
		err:  make(chan error, 1),
	}
	cmdChan <- cmd
	return <-cmd.err
}

// Subscriber implements queue.Subscriber over the in-process broker.
type Subscriber struct {
	Client
}

// Channel returns the channel subscribed messages arrive on.
func (s *Subscriber) Channel() chan []byte {
	return s.comm
}

// Subscribe is a queue.SubBinding which creates a new in-process Subscriber.
func Subscribe(s queue.Subscriber) (queue.Subscriber, error) {
	if s != nil {
		return nil, fmt.Errorf("channel.Subscribe expects nil Subscriber, got %T", s)
	}
	subscriber := &Subscriber{}
	subscriber.comm = make(chan []byte, 8)
	return subscriber, nil
}
