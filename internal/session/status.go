package session

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
)

var spinnerFrames = spinner.MiniDot.Frames

// StatusText renders the one-line connection status for tick.
func (s *Session) StatusText(tick uint64) string {
	return StatusText(s.state, tick)
}

// StatusText is the pure form of Session.StatusText. The spinner advances one
// frame per tick starting from the attempt's StartedAt.
func StatusText(state State, tick uint64) string {
	switch st := state.(type) {
	case Connecting:
		phase := tick
		if tick >= st.StartedAt {
			phase = tick - st.StartedAt
		}
		frame := spinnerFrames[phase%uint64(len(spinnerFrames))]
		return fmt.Sprintf("%s Connecting to %s...", frame, st.TargetName)
	case Connected:
		return fmt.Sprintf("%s / %s", st.TargetName, st.PeerAddress)
	default:
		return "Disconnected"
	}
}
