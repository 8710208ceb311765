package events

import "github.com/lovebrew/nestdbg/internal/logging"

type RegistryTracer struct{}

var Registry = RegistryTracer{}

func (RegistryTracer) Load(path string, entries int) {
	logging.Trace("registry.load", map[string]interface{}{"path": path, "entries": entries})
}

func (RegistryTracer) Save(path string, entries int) {
	logging.Trace("registry.save", map[string]interface{}{"path": path, "entries": entries})
}

func (RegistryTracer) Add(name, address string) {
	logging.Trace("registry.add", map[string]interface{}{"name": name, "address": address})
}

func (RegistryTracer) Remove(name string) {
	logging.Trace("registry.remove", map[string]interface{}{"name": name})
}

func (RegistryTracer) Reload(path string, entries int, err error) {
	payload := map[string]interface{}{"path": path, "entries": entries}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("registry.reload", payload)
}
