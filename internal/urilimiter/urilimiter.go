package urilimiter

import (
	"net/http"

	"gitlab.com/gitlab-org/appfiles/internal/httperrors"
	"gitlab.com/gitlab-org/appfiles/internal/logging"
	"gitlab.com/gitlab-org/appfiles/metrics"
)

// NewMiddleware answers requests whose URI is longer than limit with a 414
// before any cookie or file system work is done. A limit of 0 or less
// disables the check.
func NewMiddleware(handler http.Handler, limit int) http.Handler {
	if limit <= 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if length := uriLength(r); length > limit {
			metrics.RejectedRequests.WithLabelValues("uri_length").Inc()
			logging.LogRequest(r).WithField("uri_length", length).Debug("URI too long")
			httperrors.Serve414(w)

			return
		}

		handler.ServeHTTP(w, r)
	})
}

// RequestURI is only set on requests read from a connection
func uriLength(r *http.Request) int {
	if r.RequestURI != "" {
		return len(r.RequestURI)
	}

	return len(r.URL.RequestURI())
}
