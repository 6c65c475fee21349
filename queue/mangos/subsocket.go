package mangos

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"leadfilter/queue"

	"nanomsg.org/go-mangos"
	"nanomsg.org/go-mangos/protocol/sub"
	"nanomsg.org/go-mangos/transport/ipc"
	"nanomsg.org/go-mangos/transport/tcp"
)

var _ = queue.Subscriber(&SubSocket{})

// SubSocket implements queue.Subscriber.
type SubSocket struct {
	s       mangos.Socket
	c       chan []byte
	e       chan error
	control chan signal
	done    chan signal

	filter []byte
}

// Connect is part of queue.Client.
func (s *SubSocket) Connect(path string) error {
	sock := s.s

	if sock == nil {
		return fmt.Errorf("SubSocket couldn't Connect to %s: nil socket", path)
	}

	if err := sock.SetOption(mangos.OptionSubscribe, s.filter); err != nil {
		return err
	}
	if err := sock.SetOption(mangos.OptionMaxReconnectTime, 5*time.Minute); err != nil {
		return fmt.Errorf("mangos SubSocket dial couldn't set MaxReconnectTime option: %s", err.Error())
	}
	if err := sock.Dial(path); err != nil {
		return err
	}

	control := make(chan signal)
	done := make(chan signal)
	c := make(chan []byte, channelSize)
	e := make(chan error, channelSize)

	s.c = c
	s.e = e
	s.control = control
	s.done = done

	go receiveLoop(sock, c, e, control, done)

	return nil
}

func receiveLoop(
	sock mangos.Socket,
	c chan []byte,
	e chan error,
	control chan signal,
	done chan signal,
) {
	var msg []byte
	var err error
	for {
		select {
		case <-control:
			close(c)
			close(e)
			close(done)
			return
		default:
			if msg, err = sock.Recv(); err != nil {
				e <- err
			} else {
				c <- msg
			}
		}
	}
}

// Close is part of queue.Client.
func (s *SubSocket) Close() (e error) {
	if s.control != nil {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					e = err
				}
				e = fmt.Errorf("unexpected panic: %v", e)
			}
		}()
		close(s.control)
	}

	if s.s != nil {
		if err := s.s.Close(); err != nil {
			return err
		}
	}

	// If nil, Connect was never called and we can cleanly close.
	// Otherwise, wait for it to clean up.
	if s.done != nil {
		select {
		case <-s.done:
			// Everything is fine
		case <-time.After(Timeout):
			msg := "SubSocket failed to clean up"
			if s.s != nil {
				if err := s.s.Close(); err != nil {
					msg += fmt.Sprintf(", Socket close error: %v", err)
				}
			}
			return errors.New(msg)
		}
	}

	return nil
}

// Channel is part of queue.Subscriber.
func (s *SubSocket) Channel() chan []byte {
	return s.c
}

// Errors returns the channel receive errors arrive on.
func (s *SubSocket) Errors() <-chan error {
	return s.e
}

// Sub is a queue.SubBinding which creates a new mangos SubSocket.
func Sub(s queue.Subscriber) (queue.Subscriber, error) {
	if s != nil {
		return nil, fmt.Errorf("Sub expects nil Subscriber, got %T", s)
	}

	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("Sub failed to make Mangos Socket: %s", err.Error())
	}

	return &SubSocket{s: sock, filter: []byte("")}, nil
}

// SubTCP is a queue.SubBinding which adds a TCP binding to the SubSocket.
func SubTCP(s queue.Subscriber) (queue.Subscriber, error) {
	sock, err := getSubSocket(s)
	switch {
	case err != nil:
		return nil, fmt.Errorf("SubTCP failed: %s", err)
	case sock == nil:
		return nil, errors.New("SubTCP requires a non-nil Socket, use Sub first")
	}

	sock.AddTransport(tcp.NewTransport())

	return s, nil
}

// SubIPC is a queue.SubBinding which adds a IPC binding to the SubSocket.
func SubIPC(s queue.Subscriber) (queue.Subscriber, error) {
	// https://github.com/go-mangos/mangos/issues/2
	switch runtime.GOOS {
	case "linux", "darwin":
		// Unix domain sockets are supported on Linux and Darwin
	default:
		return nil, fmt.Errorf("SubIPC failed: IPC transport not supported on OS %q", runtime.GOOS)
	}

	sock, err := getSubSocket(s)
	switch {
	case err != nil:
		return nil, fmt.Errorf("SubIPC failed: %s", err)
	case sock == nil:
		return nil, errors.New("SubIPC requires a non-nil Socket, use Sub first")
	}

	sock.AddTransport(ipc.NewTransport())

	return s, nil
}

// Filter is a queue.SubBinding which limits delivery to messages with the
// given prefix.
func Filter(prefix string) queue.SubBinding {
	return func(s queue.Subscriber) (queue.Subscriber, error) {
		sock, ok := s.(*SubSocket)
		if !ok {
			return nil, fmt.Errorf("Filter expects *mangos.SubSocket, got %T", s)
		}
		sock.filter = []byte(prefix)
		return s, nil
	}
}

// getSubSocket gets a Mangos sub.Socket from a queue.Subscriber containing
// a Mangos Socket.
func getSubSocket(s queue.Subscriber) (mangos.Socket, error) {
	if tS, ok := s.(*SubSocket); ok {
		return tS.s, nil
	}

	return nil, fmt.Errorf("getSubSocket expects *mangos.SubSocket, got %T", s)
}
