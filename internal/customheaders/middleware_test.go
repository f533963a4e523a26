package customheaders_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/appfiles/internal/customheaders"
)

func TestParseHeaderString(t *testing.T) {
	tests := []struct {
		name        string
		headers     []string
		expected    http.Header
		expectedErr error
	}{
		{
			name:     "single_header",
			headers:  []string{"X-Frame-Options: DENY"},
			expected: http.Header{"X-Frame-Options": []string{"DENY"}},
		},
		{
			name:     "canonicalises_names",
			headers:  []string{"content-security-policy: default-src 'self'"},
			expected: http.Header{"Content-Security-Policy": []string{"default-src 'self'"}},
		},
		{
			name:     "repeated_header",
			headers:  []string{"Link: </app.css>; rel=preload", "link: </app.js>; rel=preload"},
			expected: http.Header{"Link": []string{"</app.css>; rel=preload", "</app.js>; rel=preload"}},
		},
		{
			name:     "surrounding_whitespace",
			headers:  []string{"  X-Test:   value  "},
			expected: http.Header{"X-Test": []string{"value"}},
		},
		{
			name:        "missing_colon",
			headers:     []string{"X-Test value"},
			expectedErr: customheaders.ErrInvalidHeaderParameter,
		},
		{
			name:     "no_headers",
			expected: http.Header{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := customheaders.ParseHeaderString(tt.headers)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, headers)
		})
	}
}

func TestNewMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
	})

	headers, err := customheaders.ParseHeaderString([]string{"X-Frame-Options: DENY", "Tk: N"})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	customheaders.NewMiddleware(handler, headers).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"DENY"}, rr.Result().Header["X-Frame-Options"])
	require.Equal(t, []string{"N"}, rr.Result().Header["Tk"])
	require.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
}

func TestNewMiddlewareWithoutHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	middleware := customheaders.NewMiddleware(handler, http.Header{})

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Empty(t, rr.Header())
}
