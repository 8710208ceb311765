package events

import "github.com/lovebrew/nestdbg/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Connect(attempt, target, endpoint string) {
	logging.Trace("session.connect", map[string]interface{}{"attempt": attempt, "target": target, "endpoint": endpoint})
}

func (SessionTracer) Connected(attempt, target, peer string) {
	logging.Trace("session.connected", map[string]interface{}{"attempt": attempt, "target": target, "peer": peer})
}

func (SessionTracer) Failed(attempt, target, reason string) {
	logging.Trace("session.failed", map[string]interface{}{"attempt": attempt, "target": target, "reason": reason})
}

func (SessionTracer) Abandon(attempt, target string) {
	logging.Trace("session.abandon", map[string]interface{}{"attempt": attempt, "target": target})
}

func (SessionTracer) Closed(target, reason string) {
	logging.Trace("session.closed", map[string]interface{}{"target": target, "reason": reason})
}

func (SessionTracer) Disconnect(target string) {
	logging.Trace("session.disconnect", map[string]interface{}{"target": target})
}

func (SessionTracer) Send(target string, size int) {
	logging.Trace("session.send", map[string]interface{}{"target": target, "bytes": size})
}

func (SessionTracer) Receive(target string, size int) {
	logging.Trace("session.receive", map[string]interface{}{"target": target, "bytes": size})
}
