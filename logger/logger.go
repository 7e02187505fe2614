// Package logger keeps a request-scoped logrus entry in the context.
package logger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type for the context keys
type contextKeyRequestLoggerType struct{}

var contextKeyRequestLogger = &contextKeyRequestLoggerType{}

const (
	requestIDLoggerKey string = "requestID"
	identityLoggerKey  string = "identity"
)

// Init sets up the text formatter with full timestamps and the level named by level.
func Init(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)
	logrus.SetLevel(lvl)
	return nil
}

// Default returns a logger without a request ID.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// Printf logs at info level. It matches the printf-style hooks taken by the engine.
func Printf(format string, args ...any) {
	logrus.Infof(format, args...)
}

// Middleware gives every request its own logger and logs the request once it completes.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := ContextWithLogger(r.Context())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		FromContext(ctx).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start).String(),
		}).Info("www: request")
	})
}

// ContextWithLogger returns a new context with a logger if the given context has no logger yet. If
// the context already has a logger the given context will be returned.
func ContextWithLogger(ctx context.Context) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	} else {
		rlog := loggerFromContext(ctx)
		if rlog != nil {
			return ctx, rlog
		}
	}
	rlog := logrus.WithField(requestIDLoggerKey, uuid.NewString())
	return context.WithValue(ctx, contextKeyRequestLogger, rlog), rlog
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	rlog, ok := ctx.Value(contextKeyRequestLogger).(*logrus.Entry)
	if !ok {
		return nil
	}
	return rlog
}

// FromContext returns the logger from the context. If the context does not have a logger
// a new logger is returned.
func FromContext(ctx context.Context) *logrus.Entry {
	rlog := loggerFromContext(ctx)
	if rlog == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return rlog
}

// ContextWithLoggerIdentity returns a new context with a logger and identity.
func ContextWithLoggerIdentity(ctx context.Context, identity string) (context.Context, *logrus.Entry) {
	var rlog *logrus.Entry
	ctx, rlog = ContextWithLogger(ctx)
	rlog = rlog.WithField(identityLoggerKey, identity)
	ctx = context.WithValue(ctx, contextKeyRequestLogger, rlog)
	return ctx, rlog
}

// RequestIDFromContext returns the request id for the given context.
func RequestIDFromContext(ctx context.Context) string {
	return fieldFromContext(ctx, requestIDLoggerKey)
}

// IdentityFromContext returns the identity attached to the context logger, if any.
func IdentityFromContext(ctx context.Context) string {
	return fieldFromContext(ctx, identityLoggerKey)
}

func fieldFromContext(ctx context.Context, key string) string {
	rlog := loggerFromContext(ctx)
	if rlog == nil {
		return ""
	}
	s, _ := rlog.Data[key].(string)
	return s
}
