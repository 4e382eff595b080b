package billing

import (
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v81"
)

// LeveledLogger routes stripe-go's diagnostics into slog.
type LeveledLogger struct {
	logger *slog.Logger
}

var _ stripe.LeveledLoggerInterface = (*LeveledLogger)(nil)

// NewLeveledLogger wraps logger, tagging every record with component=stripe.
func NewLeveledLogger(logger *slog.Logger) *LeveledLogger {
	return &LeveledLogger{logger: logger.With("component", "stripe")}
}

func (l *LeveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *LeveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *LeveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *LeveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
