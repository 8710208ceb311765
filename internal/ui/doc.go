// Package ui contains the Bubble Tea program for the debugger console.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Every call is
//     one loop iteration and advances the animation tick.
//   - Key presses are converted to a RawEvent and decoded into exactly one
//     Intent (plus an optional edit of the input line). The reducer applies
//     the intent to the model and the session.
//   - A tea.Tick message is the bounded wait. On each tick the model polls the
//     session for a finished dial and drains whatever the target sent, so the
//     screen keeps animating and receiving with no key pressed.
//
// State ownership:
//   - The model owns the input line, the log, the picker and the tick
//     counter. The connection state lives in internal/session and is only
//     mutated from Update.
//   - Saved connections come from internal/registry. A backend.Watcher
//     reloads them when the file changes on disk and the picker selection is
//     clamped to the new length.
//
// Rendering:
//   - View builds a Frame from the model and hands it to the surface, which
//     draws the status bar, the Log and Globals panes, the input line and the
//     picker overlay. Rendering never changes connection state.
package ui
