package dispatcher

import (
	"github.com/lovebrew/nestdbg/internal/backend"
	"github.com/lovebrew/nestdbg/internal/registry"
)

// TargetStore receives reloaded connection lists. *registry.Registry
// satisfies it.
type TargetStore interface {
	SetTargets([]registry.Target)
	Len() int
}

type Result struct {
	RegistryUpdated bool
	Count           int
}

type Dispatcher struct {
	targets TargetStore
}

func New(targets TargetStore) *Dispatcher {
	return &Dispatcher{targets: targets}
}

// Handle applies evt to the stores it concerns. Events carrying an error
// change nothing.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil || d.targets == nil {
		return res
	}
	switch evt.Kind {
	case backend.KindRegistry:
		if targets, ok := evt.Data.([]registry.Target); ok {
			d.targets.SetTargets(targets)
			res.RegistryUpdated = true
			res.Count = d.targets.Len()
		}
	}
	return res
}
