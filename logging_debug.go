//go:build shm_debug

package interprocess

import (
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLogger = logrus.New()

func init() {
	defaultLogger.SetOutput(os.Stderr)
	defaultLogger.SetLevel(logrus.DebugLevel)
}

// SetLogger replaces the package's logger. Has no effect in release
// builds (built without the shm_debug tag), but the signature matches so
// caller code compiles either way.
func SetLogger(l *logrus.Logger) {
	defaultLogger = l
}

func logger() *logrus.Logger {
	return defaultLogger
}
