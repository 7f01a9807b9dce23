package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/subjectlink/internal/logging"
)

// HTTPLoggingMiddleware logs each request once it completes. Requests on
// /api/subjects/{name} carry the subject, so they show up in per-subject log
// streams.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	method := ctx.Method()
	status := ctx.Status()
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", ctx.URL().Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	}
	if query := ctx.URL().RawQuery; query != "" {
		attrs = append(attrs, slog.String("query", redactAuth(query)))
	}
	if agent := ctx.Header("User-Agent"); agent != "" {
		attrs = append(attrs, slog.String("user_agent", agent))
	}
	if subject := subjectParam(ctx); subject != "" {
		attrs = append(attrs, slog.String(logging.SubjectKey, subject))
	}

	logging.GetLogger("http").LogAttrs(ctx.Context(), requestLevel(method, status), "HTTP request completed", attrs...)
}

// requestLevel logs preflights at debug, client errors at warn and server
// errors at error.
func requestLevel(method string, status int) slog.Level {
	switch {
	case method == http.MethodOptions:
		return slog.LevelDebug
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func subjectParam(ctx huma.Context) string {
	op := ctx.Operation()
	if op == nil || !strings.HasPrefix(op.Path, "/api/subjects/{name}") {
		return ""
	}
	return ctx.Param("name")
}

// redactAuth hides the credentials SSE clients pass as ?auth=.
func redactAuth(query string) string {
	parts := strings.Split(query, "&")
	for i, part := range parts {
		if strings.HasPrefix(part, "auth=") {
			parts[i] = "auth=REDACTED"
		}
	}
	return strings.Join(parts, "&")
}
