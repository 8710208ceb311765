package events

import "github.com/lovebrew/nestdbg/internal/logging"

type SymbolsTracer struct{}

var Symbols = SymbolsTracer{}

func (SymbolsTracer) Resolve(file, tool string, addresses []string) {
	logging.Trace("symbols.resolve", map[string]interface{}{"file": file, "tool": tool, "addresses": addresses})
}
