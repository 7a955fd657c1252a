// Package logger wraps log/slog with the two things the app needs
// everywhere: an environment-appropriate base logger, and per-request
// correlation via WithCtx.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("payment captured", "amount", "45.49")
//	// → time=... level=INFO msg="payment captured" request_id=a1b2c3d4 amount=45.49
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/rishavanand/bazario/config"
)

// L is the process-wide base logger.
var L *slog.Logger

func init() {
	Use(slog.New(baseHandler()))
}

// baseHandler picks JSON at info level for production aggregators, text at
// debug level for a developer terminal.
func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Use replaces the base logger, e.g. to fan out to the Mongo handler:
//
//	mh := logger.NewMongoHandler(database.Collection("logs"))
//	logger.Use(slog.New(logger.NewMultiHandler(logger.L.Handler(), mh)))
func Use(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

type ctxKey struct{}

// Inject plants a request-scoped logger in ctx. The Logger middleware is
// the only expected caller.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// WithCtx returns the logger Inject stored in ctx, falling back to the
// base logger outside a request.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Level shorthands on the base logger.

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
