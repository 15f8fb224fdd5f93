//go:build !shm_debug

package interprocess

import "github.com/sirupsen/logrus"

// noopLogger discards everything it is given. Debug entries are dropped
// by logrus's default Info level; Info and above are still formatted
// before the writer discards them.
var noopLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}()

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// SetLogger is a no-op in release builds; see logging_debug.go.
func SetLogger(l *logrus.Logger) {}

func logger() *logrus.Logger {
	return noopLogger
}
