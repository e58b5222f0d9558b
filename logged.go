package canbits

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogOption is a bitmask for selecting which directions to log.
type LogOption uint8

const (
	LogNone    LogOption = 0
	LogDrive   LogOption = 1 << iota
	LogMonitor
	LogAll = LogDrive | LogMonitor
)

// NewLoggedTransport wraps the given Transport and logs selected directions at
// the given level. Errors are always logged at error level.
func NewLoggedTransport(inner Transport, logger *slog.Logger, level slog.Level, opts LogOption) Transport {
	return &loggedTransport{
		inner:  inner,
		logger: logger,
		level:  level,
		opts:   opts,
	}
}

// loggedTransport is a Transport decorator that logs exchanges using a
// slog.Logger. Every exchange gets a fresh UUID so the drive and monitor
// records of one test step can be correlated.
type loggedTransport struct {
	inner  Transport
	logger *slog.Logger
	level  slog.Level
	opts   LogOption
}

// Exchange logs the driven trace, then the monitored trace or the error.
func (l *loggedTransport) Exchange(ctx context.Context, drive Trace) (Trace, error) {
	id := uuid.New()
	if l.opts&LogDrive != 0 {
		l.logger.Log(ctx, l.level, "canbits exchange",
			"exchange", id.String(),
			"cycles", drive.Len(),
			"segments", len(drive),
		)
	}
	got, err := l.inner.Exchange(ctx, drive)
	if err != nil {
		l.logger.Log(ctx, slog.LevelError, "canbits exchange error",
			"exchange", id.String(),
			"error", err,
		)
		return got, err
	}
	if l.opts&LogMonitor != 0 {
		l.logger.Log(ctx, l.level, "canbits monitor",
			"exchange", id.String(),
			"cycles", got.Len(),
			"segments", len(got),
		)
	}
	return got, nil
}

// Close forwards to the inner Transport without logging.
func (l *loggedTransport) Close() error {
	return l.inner.Close()
}
