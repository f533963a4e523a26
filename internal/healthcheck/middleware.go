package healthcheck

import (
	"errors"
	"io"
	"net/http"
	"os"

	"gitlab.com/gitlab-org/appfiles/internal/logging"
)

// NewMiddleware answers statusPath with 200 while filesRoot is a readable
// directory and with 503 otherwise. An empty statusPath disables it.
func NewMiddleware(handler http.Handler, statusPath, filesRoot string) http.Handler {
	if statusPath == "" {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			handler.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if err := checkRoot(filesRoot); err != nil {
			logging.LogRequest(r).WithError(err).Warn("files root unavailable")
			w.WriteHeader(http.StatusServiceUnavailable)
			writeBody(w, r, "files root unavailable\n")

			return
		}

		writeBody(w, r, "success\n")
	})
}

func checkRoot(root string) error {
	dir, err := os.Open(root)
	if err != nil {
		return err
	}
	defer dir.Close()

	// a directory that can not be listed can not serve keyed trees either
	_, err = dir.Readdirnames(1)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func writeBody(w http.ResponseWriter, r *http.Request, body string) {
	if r.Method == http.MethodHead {
		return
	}

	w.Write([]byte(body))
}
