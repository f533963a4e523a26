package rejectmethods

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/appfiles/metrics"
)

func TestNewMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK\n")
	})

	middleware := NewMiddleware(handler)

	acceptedMethods := []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "CONNECT", "OPTIONS", "TRACE"}
	for _, method := range acceptedMethods {
		t.Run(method, func(t *testing.T) {
			require.HTTPStatusCode(t, middleware.ServeHTTP, method, "/", nil, http.StatusOK)
		})
	}

	t.Run("UNKNOWN", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.RejectedRequests.WithLabelValues("method"))

		require.HTTPStatusCode(t, middleware.ServeHTTP, "UNKNOWN", "/", nil, http.StatusMethodNotAllowed)
		require.Equal(t, before+1, testutil.ToFloat64(metrics.RejectedRequests.WithLabelValues("method")))
	})
}
