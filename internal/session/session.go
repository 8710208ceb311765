// Package session owns the single TCP link to a debug target and the state
// machine around it. A Session is driven from one goroutine (the UI update
// loop); its dial, read and write workers only talk back through channels
// that Poll, Receive and Send touch without blocking.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"github.com/lovebrew/nestdbg/internal/registry"
)

const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

var (
	ErrPrecondition = errors.New("session precondition violated")
	ErrNotConnected = errors.New("not connected")
	ErrClosed       = errors.New("connection closed")
	ErrQueueFull    = errors.New("send queue full")
)

// Dialer opens the transport. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Port         uint16
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Dialer       Dialer
}

// TransitionKind names the outcome Poll reports.
type TransitionKind int

const (
	TransitionConnected TransitionKind = iota + 1
	TransitionFailed
	// TransitionLost reports a live link dropped after a failed write.
	TransitionLost
)

// Transition describes a state change applied by Poll.
type Transition struct {
	Kind   TransitionKind
	Target string
	Peer   string
	Err    error
}

type dialResult struct {
	conn net.Conn
	err  error
}

type attempt struct {
	id       string
	target   registry.Target
	endpoint string
	cancel   context.CancelFunc
	result   chan dialResult
}

// Session is not safe for concurrent use.
type Session struct {
	port         uint16
	dialTimeout  time.Duration
	writeTimeout time.Duration
	dialer       Dialer

	state   State
	pending *attempt
}

func New(opts Options) *Session {
	s := &Session{
		port:         opts.Port,
		dialTimeout:  opts.DialTimeout,
		writeTimeout: opts.WriteTimeout,
		dialer:       opts.Dialer,
		state:        Disconnected{},
	}
	if s.port == 0 {
		s.port = registry.DefaultPort
	}
	if s.dialTimeout <= 0 {
		s.dialTimeout = DefaultDialTimeout
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = DefaultWriteTimeout
	}
	if s.dialer == nil {
		s.dialer = &net.Dialer{}
	}
	return s
}

// State returns the current state value.
func (s *Session) State() State {
	return s.state
}

func (s *Session) IsConnected() bool {
	_, ok := s.state.(Connected)
	return ok
}

// Connect starts a background dial to target and moves to Connecting. It is
// only valid from Disconnected or Failed. tick is the caller's animation tick
// and becomes the spinner phase origin.
func (s *Session) Connect(target registry.Target, tick uint64) error {
	switch s.state.(type) {
	case Disconnected, Failed:
	default:
		return fmt.Errorf("connect %s while %s: %w", target.Name, Name(s.state), ErrPrecondition)
	}

	endpoint, err := target.Endpoint(s.port)
	if err != nil {
		s.state = Failed{Reason: err.Error()}
		events.Session.Failed("", target.Name, err.Error())
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.dialTimeout)
	a := &attempt{
		id:       uuid.NewString(),
		target:   target,
		endpoint: endpoint.String(),
		cancel:   cancel,
		result:   make(chan dialResult, 1),
	}
	s.pending = a
	s.state = Connecting{TargetName: target.Name, StartedAt: tick}
	events.Session.Connect(a.id, target.Name, a.endpoint)

	dialer := s.dialer
	go func() {
		conn, err := dialer.DialContext(ctx, "tcp", a.endpoint)
		a.result <- dialResult{conn: conn, err: err}
	}()
	return nil
}

// Poll applies a finished dial or a failed write, if any. It never blocks.
func (s *Session) Poll() (Transition, bool) {
	if c, ok := s.state.(Connected); ok {
		if err := s.checkWriter(c); err != nil {
			return Transition{Kind: TransitionLost, Target: c.TargetName, Err: err}, true
		}
		return Transition{}, false
	}
	a := s.pending
	if a == nil {
		return Transition{}, false
	}
	var res dialResult
	select {
	case res = <-a.result:
	default:
		return Transition{}, false
	}
	s.pending = nil
	a.cancel()

	if res.err != nil {
		reason := res.err.Error()
		s.state = Failed{Reason: reason}
		events.Session.Failed(a.id, a.target.Name, reason)
		return Transition{Kind: TransitionFailed, Target: a.target.Name, Err: res.err}, true
	}

	peer := a.target.Address
	if addr, ok := res.conn.RemoteAddr().(*net.TCPAddr); ok {
		peer = addr.IP.String()
	}
	s.state = Connected{TargetName: a.target.Name, PeerAddress: peer, link: newLink(res.conn, s.writeTimeout)}
	events.Session.Connected(a.id, a.target.Name, peer)
	return Transition{Kind: TransitionConnected, Target: a.target.Name, Peer: peer}, true
}

// Send queues a copy of p for the link's writer and returns without waiting
// on the peer. A full queue yields ErrQueueFull and leaves the link up. Write
// failures surface on a later Poll, Receive or Send, which drop the link and
// move the session to Failed.
func (s *Session) Send(p []byte) error {
	c, ok := s.state.(Connected)
	if !ok {
		return fmt.Errorf("send: %w", ErrNotConnected)
	}
	if err := s.checkWriter(c); err != nil {
		return err
	}
	if !c.link.enqueue(append([]byte(nil), p...)) {
		return fmt.Errorf("send: %w", ErrQueueFull)
	}
	events.Session.Send(c.TargetName, len(p))
	return nil
}

// checkWriter fails the link if its writer has stopped on an error.
func (s *Session) checkWriter(c Connected) error {
	err := c.link.failure()
	if err == nil {
		return nil
	}
	return s.failLink(c, fmt.Errorf("send: %w", err))
}

func (s *Session) failLink(c Connected, err error) error {
	c.link.release()
	s.state = Failed{Reason: err.Error()}
	events.Session.Closed(c.TargetName, err.Error())
	return err
}

// Receive returns the next chunk read from the peer, or nil when nothing is
// buffered. End of stream or a read error yields ErrClosed and the session
// returns to Disconnected. A pending write failure is reported first, as in
// Send.
func (s *Session) Receive() ([]byte, error) {
	c, ok := s.state.(Connected)
	if !ok {
		return nil, fmt.Errorf("receive: %w", ErrNotConnected)
	}
	if err := s.checkWriter(c); err != nil {
		return nil, err
	}
	select {
	case res, open := <-c.link.reads:
		if open && res.err == nil {
			events.Session.Receive(c.TargetName, len(res.data))
			return res.data, nil
		}
		cause := io.EOF
		if open {
			cause = res.err
		}
		c.link.release()
		s.state = Disconnected{}
		events.Session.Closed(c.TargetName, cause.Error())
		return nil, fmt.Errorf("%w: %v", ErrClosed, cause)
	default:
		return nil, nil
	}
}

// Disconnect closes the live link or abandons an in-flight dial. It always
// leaves the session Disconnected and is a no-op when there is nothing to
// release.
func (s *Session) Disconnect() error {
	var err error
	switch st := s.state.(type) {
	case Connected:
		err = st.link.shutdown()
		events.Session.Disconnect(st.TargetName)
	case Connecting:
		s.abandon()
	}
	s.state = Disconnected{}
	return err
}

func (s *Session) abandon() {
	a := s.pending
	if a == nil {
		return
	}
	s.pending = nil
	a.cancel()
	events.Session.Abandon(a.id, a.target.Name)
	go func() {
		if res := <-a.result; res.conn != nil {
			_ = res.conn.Close()
		}
	}()
}

// hasLink reports whether a transport handle is reachable from the current state.
func (s *Session) hasLink() bool {
	c, ok := s.state.(Connected)
	return ok && c.link != nil
}
