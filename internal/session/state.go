package session

// State is the connection state of a Session. The concrete types are
// Disconnected, Connecting, Connected and Failed; no other package can add one.
type State interface {
	stateName() string
}

// Disconnected is the initial state and the state after an orderly close.
type Disconnected struct{}

// Connecting means a dial is in flight. StartedAt is the UI tick at which the
// attempt began and anchors the spinner phase.
type Connecting struct {
	TargetName string
	StartedAt  uint64
}

// Connected carries the live link. The link is unexported so the transport
// is only reachable through a Session that is in this state.
type Connected struct {
	TargetName  string
	PeerAddress string

	link *link
}

// Failed records why the last attempt or the live link broke.
type Failed struct {
	Reason string
}

func (Disconnected) stateName() string { return "disconnected" }
func (Connecting) stateName() string   { return "connecting" }
func (Connected) stateName() string    { return "connected" }
func (Failed) stateName() string       { return "failed" }

// Name returns the lower-case label of a state, for logs and errors.
func Name(s State) string {
	if s == nil {
		return "disconnected"
	}
	return s.stateName()
}
