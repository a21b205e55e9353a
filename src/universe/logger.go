package universe

import (
	"context"
	"log/slog"
	"sync/atomic"
)

//nopHandler discards every record, Enabled returns false so nothing is formatted
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

//SetLogger sets the logger shared by the universe, simulation and view packages
//nil restores the default silent logger
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

//Logger returns the current logger, safe for concurrent use
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
