package badger

import (
	"fmt"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// zapBadgerLogger routes badger's internal printf-style logging through the
// store's zap logger, tagged so baseline-store noise is attributable.
// Badger terminates its messages with a newline; zap does not want one.
type zapBadgerLogger struct {
	logger *zap.Logger
}

var _ badgerdb.Logger = (*zapBadgerLogger)(nil)

func newZapBadgerLogger(logger *zap.Logger) *zapBadgerLogger {
	return &zapBadgerLogger{logger: logger.Named("badger")}
}

func (l *zapBadgerLogger) msg(format string, args ...any) string {
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}

func (l *zapBadgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(l.msg(format, args...))
}

func (l *zapBadgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(l.msg(format, args...))
}

func (l *zapBadgerLogger) Infof(format string, args ...any) {
	l.logger.Info(l.msg(format, args...))
}

func (l *zapBadgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(l.msg(format, args...))
}
