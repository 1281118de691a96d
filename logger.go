package flowsim

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel re-exports zerolog's level type so callers configuring this
// package's ambient logging never need to import zerolog directly.
type LogLevel = zerolog.Level

const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
	LevelNone  = zerolog.Disabled
)

// SetLogLevel adjusts the global log level of compiler/simulation's ambient
// zerolog logger (§2 logging stack). Until it is called, zerolog's own
// default global level (Debug) applies, so the debug messages are written.
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(level)
}

// UseConsoleLogger swaps the global logger for zerolog's human-readable
// console writer, writing to w. Intended for examples and local debugging;
// production callers typically leave the default structured JSON writer in
// place.
func UseConsoleLogger(w io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: false})
}

// UseDefaultConsoleLogger is UseConsoleLogger writing to stderr.
func UseDefaultConsoleLogger() {
	UseConsoleLogger(os.Stderr)
}
