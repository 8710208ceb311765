package events

import "github.com/lovebrew/nestdbg/internal/logging"

type UITracer struct{}

type PickerTracer struct{}

type InputTracer struct{}

var (
	UI     = UITracer{}
	Picker = PickerTracer{}
	Input  = InputTracer{}
)

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) BackendError(err error) {
	if err == nil {
		return
	}
	logging.Trace("ui.backend.error", map[string]interface{}{"error": err.Error()})
}

func (PickerTracer) Toggle(visible bool, entries int) {
	logging.Trace("picker.toggle", map[string]interface{}{"visible": visible, "entries": entries})
}

func (PickerTracer) Move(delta, selected int) {
	logging.Trace("picker.move", map[string]interface{}{"delta": delta, "selected": selected})
}

func (PickerTracer) Confirm(selected int, target string) {
	logging.Trace("picker.confirm", map[string]interface{}{"selected": selected, "target": target})
}

func (PickerTracer) Close() {
	logging.Trace("picker.close", nil)
}

func (InputTracer) Submit(line string, sent bool) {
	logging.Trace("input.submit", map[string]interface{}{"line": line, "sent": sent})
}

func (InputTracer) Quit() {
	logging.Trace("input.quit", nil)
}
