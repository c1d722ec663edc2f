// internal/resolver/middleware.go
//
// Chi middleware applying tenant resolution to each request.
//
// Context
// -------
// Runs first in the gateway chain, before request-info enrichment and any
// route matching.  On a rewrite it mutates r.URL.Path in place so the
// router only ever sees tenant-scoped paths; in every case the resolved
// Identity is stored in the request context for downstream handlers and
// the API client.
//
// Notes
// -----
// • Resolution has no failure states, so the middleware never rejects.
// • Oxford commas, two spaces after periods.

package resolver

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/craftflow/storefront/internal/metrics"
)

// Middleware returns a handler wrapper bound to cfg.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := cfg.Resolve(r.Context(), stripPort(r.Host), r.URL.Path)

			metrics.ResolverRewritesTotal.WithLabelValues(string(res.Identity.Kind)).Inc()

			if res.Rewritten {
				zap.L().Debug("tenant rewrite",
					zap.String("host", res.Identity.Host),
					zap.String("slug", res.Identity.Slug),
					zap.String("from", r.URL.Path),
					zap.String("to", res.Path))
				r.URL.Path = res.Path
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.Identity)))
		})
	}
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
