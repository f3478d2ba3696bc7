package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the error response for a recovered panic
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery recovers handler panics, logs them and hands the response to
// handler. Once a WebSocket upgrade has taken over the connection there is
// no response left to write, so only the log entry is produced.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				hijacked := isHijacked(w)
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("hijacked", hijacked),
				)
				if !hijacked {
					handler(w, r, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func isHijacked(w http.ResponseWriter) bool {
	h, ok := w.(interface{ Hijacked() bool })
	return ok && h.Hijacked()
}

// DefaultPanicHandler returns a plain 500
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
