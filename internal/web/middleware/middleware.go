package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/minesboomer/internal/middleware"
)

const panicPage = `<!DOCTYPE html>
<html>
<head><title>minesboomer: error</title></head>
<body>
<h1>Something blew up</h1>
<p>The status page could not be rendered. Games in progress are not affected.</p>
<p><a href="/">Reload</a></p>
</body>
</html>`

// Recovery renders an HTML error page when the status page panics
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(panicPage))
	})
}

// Logging logs each page request
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "web")))
}
