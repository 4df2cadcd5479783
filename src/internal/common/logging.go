package common

import (
	"github.com/tliron/commonlog"
)

// Named loggers shared across the codebase. Output goes to stderr (or a
// file) via the backend configured in main; stdout stays clean for the
// editor transport.
var (
	SymbolsLogger = commonlog.GetLogger("spyglass.symbols")
	ServerLogger  = commonlog.GetLogger("spyglass.server")
	CLILogger     = commonlog.GetLogger("spyglass.cli")
)

// ConfigureLogging sets global verbosity and an optional log file path.
// Must be called once, before any logger writes.
func ConfigureLogging(verbosity int, path *string) {
	commonlog.Configure(verbosity, path)
}
