package api

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/metrics"
)

// accessLog writes one structured record per request.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("remote_ip", clientIP(r.RemoteAddr)),
			)
		})
	}
}

// rateLimitAuth guards credential endpoints per client IP.
// chi's RealIP middleware has already folded proxy headers into RemoteAddr.
func (s *Server) rateLimitAuth(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())

	if !s.authRateLimiter.Allow(key) {
		path := ctx.Operation().Path
		metrics.RecordRateLimitHit(path)
		s.logger.Warn("rate limit exceeded", "ip", key, "path", path)

		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests,
			"Too many requests. Please try again later.",
			domainerrors.RateLimited("Too many requests. Please try again later."),
		)
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
