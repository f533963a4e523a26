package disk

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/feistel/go-contentencoding/encoding"
	"golang.org/x/sys/unix"
)

// compressedExtensions maps a content encoding to the suffix of the
// pre-compressed sibling file
var compressedExtensions = map[string]string{
	encoding.Brotli: ".br",
	encoding.Gzip:   ".gz",
}

// serverPreference breaks ties between encodings the client weighs equally
var serverPreference = encoding.Preference{
	encoding.Brotli:   1.0,
	encoding.Gzip:     0.9,
	encoding.Identity: 0.1,
}

func openNoFollow(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY|unix.O_NOFOLLOW, 0)
}

// Detect file's content-type either by extension or mime-sniffing.
// Implementation is adapted from Golang's `http.serveContent()`
// See https://github.com/golang/go/blob/902fc114272978a40d2e65c2510a18e870077559/src/net/http/fs.go#L194
func detectContentType(path string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(path))

	if contentType == "" {
		var buf [512]byte

		file, err := openNoFollow(path)
		if err != nil {
			return "", err
		}

		defer file.Close()

		// Using `io.ReadFull()` because `file.Read()` may be chunked.
		// Ignoring errors because we don't care if the 512 bytes cannot be read.
		n, _ := io.ReadFull(file, buf[:])
		contentType = http.DetectContentType(buf[:n])
	}

	return contentType, nil
}

// handleCompression picks the most preferred pre-compressed sibling of
// fullPath the client accepts, moving on to the next accepted encoding when a
// sibling is missing. Range requests and unparsable Accept-Encoding headers
// get the uncompressed file.
func handleCompression(w http.ResponseWriter, r *http.Request, fullPath string) string {
	if r.Header.Get("Range") != "" {
		return fullPath
	}

	accepted, err := serverPreference.Negotiate(r.Header.Get("Accept-Encoding"), encoding.UseServerPref)
	if err != nil {
		return fullPath
	}

	for _, enc := range accepted {
		ext, ok := compressedExtensions[enc]
		if !ok {
			// identity ranks above any remaining compressed encoding
			return fullPath
		}

		compressedPath := fullPath + ext

		// Ensure the compressed file is not a symlink
		if fi, err := os.Lstat(compressedPath); err == nil && fi.Mode().IsRegular() {
			w.Header().Set("Content-Encoding", enc)
			w.Header().Add("Vary", "Accept-Encoding")
			return compressedPath
		}
	}

	return fullPath
}

// withinRoot reports whether path is root itself or below it. Both paths must
// be absolute and free of symlinks.
func withinRoot(root, path string) bool {
	if path == root {
		return true
	}

	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}
