package vault

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the package logger. The core prefers logged no-ops over errors
// for not-found conditions, so the log stream is the only place those show
// up; applications that care should install their own logger.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Str("component", "vault").Logger()

// SetLogger replaces the package logger. Pass a disabled logger to silence
// the vault entirely:
//
//	vault.SetLogger(zerolog.Nop())
func SetLogger(l zerolog.Logger) {
	logger = l
}
