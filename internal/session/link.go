package session

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

const (
	readChunkSize  = 1024
	readQueueSize  = 64
	writeQueueSize = 64
)

type readResult struct {
	data []byte
	err  error
}

// link wraps one live connection and its reader and writer goroutines. The
// reader pushes chunks onto reads and the writer drains writes, so neither
// Session.Receive nor Session.Send ever waits on the peer.
type link struct {
	conn         net.Conn
	reads        chan readResult
	writes       chan []byte
	writeErr     chan error
	writeTimeout time.Duration
	quit         chan struct{}
	once         sync.Once
}

func newLink(conn net.Conn, writeTimeout time.Duration) *link {
	l := &link{
		conn:         conn,
		reads:        make(chan readResult, readQueueSize),
		writes:       make(chan []byte, writeQueueSize),
		writeErr:     make(chan error, 1),
		writeTimeout: writeTimeout,
		quit:         make(chan struct{}),
	}
	go l.readLoop()
	go l.writeLoop()
	return l
}

func (l *link) readLoop() {
	defer close(l.reads)
	for {
		buf := make([]byte, readChunkSize)
		n, err := l.conn.Read(buf)
		if n > 0 {
			select {
			case l.reads <- readResult{data: buf[:n]}:
			case <-l.quit:
				return
			}
		}
		if err != nil {
			select {
			case l.reads <- readResult{err: err}:
			case <-l.quit:
			}
			return
		}
	}
}

// writeLoop sends queued payloads in order. The first failure is parked on
// writeErr and ends the loop; later payloads are never written.
func (l *link) writeLoop() {
	for {
		select {
		case <-l.quit:
			return
		case p := <-l.writes:
			if err := l.write(p); err != nil {
				l.writeErr <- err
				return
			}
		}
	}
}

func (l *link) write(p []byte) error {
	if l.writeTimeout > 0 {
		if err := l.conn.SetWriteDeadline(time.Now().Add(l.writeTimeout)); err != nil {
			return err
		}
	}
	n, err := l.conn.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}

// enqueue hands p to the writer without waiting. It reports false when the
// queue is full.
func (l *link) enqueue(p []byte) bool {
	select {
	case l.writes <- p:
		return true
	default:
		return false
	}
}

// failure returns the writer's error, if it has stopped on one.
func (l *link) failure() error {
	select {
	case err := <-l.writeErr:
		return err
	default:
		return nil
	}
}

// shutdown half-closes the write side when the transport supports it, then
// releases the connection. Safe to call more than once.
func (l *link) shutdown() error {
	var err error
	l.once.Do(func() {
		close(l.quit)
		if cw, ok := l.conn.(interface{ CloseWrite() error }); ok {
			err = cw.CloseWrite()
		}
		if cerr := l.conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
	})
	return err
}

// release closes the connection without the orderly half-close. Used when the
// link has already failed.
func (l *link) release() {
	l.once.Do(func() {
		close(l.quit)
		_ = l.conn.Close()
	})
}
