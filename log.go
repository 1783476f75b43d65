package regbridge

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	pkgLogger = zerolog.Nop()
	loggerMu  sync.RWMutex
)

// SetLogger sets the logger used by every later Compile call that does not
// pass WithLogger. Only debug events are written: translation restarts,
// strategy selection and backend compilation. Matching never logs.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	pkgLogger = l
}

func currentLogger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return pkgLogger
}
