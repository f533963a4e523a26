package staticfile

import (
	"net/http"
	"time"

	"gitlab.com/gitlab-org/appfiles/internal/logging"
	"gitlab.com/gitlab-org/appfiles/metrics"
)

// NewMiddleware serves requests carrying both app and key cookies from the
// matching tree through sink. Any other request is passed to handler.
func NewMiddleware(handler http.Handler, sink Sink, opts ...Option) http.Handler {
	resolver := NewResolver(opts...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app, fullPath, outcome := resolver.resolve(r)
		metrics.StaticRequests.WithLabelValues(outcome.String()).Inc()

		if outcome == Delegated {
			handler.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		defer func() {
			metrics.ServingTime.Observe(time.Since(start).Seconds())
		}()

		logging.LogKeyedRequest(r, app, fullPath).Trace("serving keyed file")

		sink.SendFile(w, r, fullPath)
	})
}
