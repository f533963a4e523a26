package disk

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/gitlab-org/appfiles/internal/httperrors"
	"gitlab.com/gitlab-org/appfiles/internal/logging"
	"gitlab.com/gitlab-org/appfiles/metrics"
)

// Reader is a disk access driver that only serves files below its root
type Reader struct {
	root           string
	fileSizeMetric prometheus.Histogram
	operations     *prometheus.CounterVec
}

// New returns a Reader serving files found below root
func New(root string) *Reader {
	return &Reader{
		root:           root,
		fileSizeMetric: metrics.DiskServingFileSize,
		operations:     metrics.DiskOperations,
	}
}

// SendFile writes the file at fullPath to w. Paths that do not resolve to a
// regular file inside the root are answered with a 404.
func (reader *Reader) SendFile(w http.ResponseWriter, r *http.Request, fullPath string) {
	resolved, err := reader.resolvePath(fullPath)
	if err == nil {
		err = reader.serveFile(w, r, resolved)
	}

	if err != nil {
		reader.handleError(w, r, fullPath, err)
	}
}

// ServeHTTP serves the request path relative to the root
func (reader *Reader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subPath := filepath.FromSlash(path.Clean("/" + r.URL.Path))

	reader.SendFile(w, r, filepath.Join(reader.root, subPath))
}

func (reader *Reader) handleError(w http.ResponseWriter, r *http.Request, fullPath string, err error) {
	w.Header().Del("Content-Encoding")
	w.Header().Del("Vary")

	if isNotFound(err) {
		logging.LogRequest(r).WithError(err).WithField("file", fullPath).Debug("file not served")
		httperrors.Serve404(w)
		return
	}

	httperrors.Serve500WithRequest(w, r, "failed to serve file", err)
}

// Resolve fullPath to a regular file on disk, making sure neither the path
// itself nor any symlink along it leaves the root.
func (reader *Reader) resolvePath(fullPath string) (string, error) {
	root, err := reader.evalAbs(reader.root)
	if err != nil {
		return "", err
	}

	resolved, err := reader.evalAbs(fullPath)
	if err != nil {
		return "", err
	}

	if !withinRoot(root, resolved) {
		return "", errOutsideRoot
	}

	fi, err := os.Lstat(resolved)
	reader.observe("lstat", err)
	if err != nil {
		return "", err
	}

	if fi.IsDir() {
		return "", errIsDirectory
	}

	// The file exists, but is not a supported type to serve. Perhaps a block
	// special device or something else that may be a security risk.
	if !fi.Mode().IsRegular() {
		return "", errNotRegularFile
	}

	return resolved, nil
}

func (reader *Reader) evalAbs(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	reader.observe("evalsymlinks", err)

	return resolved, err
}

func (reader *Reader) serveFile(w http.ResponseWriter, r *http.Request, origPath string) error {
	fullPath := handleCompression(w, r, origPath)

	file, err := openNoFollow(fullPath)
	reader.observe("open", err)
	if err != nil {
		return err
	}

	defer file.Close()

	fi, err := file.Stat()
	reader.observe("stat", err)
	if err != nil {
		return err
	}

	contentType, err := detectContentType(origPath)
	if err != nil {
		return err
	}

	// Set caching headers
	w.Header().Set("Cache-Control", "max-age=600")
	w.Header().Set("Expires", time.Now().Add(10*time.Minute).Format(time.RFC1123))
	w.Header().Set("Content-Type", contentType)

	reader.fileSizeMetric.Observe(float64(fi.Size()))

	http.ServeContent(w, r, origPath, fi.ModTime(), file)

	return nil
}

func (reader *Reader) observe(operation string, err error) {
	reader.operations.WithLabelValues(operation, strconv.FormatBool(err == nil)).Inc()
}
