package disk

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenNoFollow(t *testing.T) {
	dir := t.TempDir()

	orig := filepath.Join(dir, "link-test")
	writeFile(t, orig, "content")
	softLink := orig + ".link"

	source, err := openNoFollow(orig)
	require.NoError(t, err)
	require.NotNil(t, source)
	defer source.Close()

	err = os.Symlink(orig, softLink)
	require.NoError(t, err)

	link, err := openNoFollow(softLink)
	require.Error(t, err)
	require.Nil(t, link)
}

func TestDetectContentType(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		name     string
		content  string
		expected string
	}{
		"by_extension":      {name: "file.html", content: "plain words", expected: "text/html; charset=utf-8"},
		"sniffed_html":      {name: "noext", content: "<html><body>hi</body></html>", expected: "text/html; charset=utf-8"},
		"sniffed_plaintext": {name: "noext-text", content: "just some text", expected: "text/plain; charset=utf-8"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeFile(t, path, tt.content)

			contentType, err := detectContentType(path)
			require.NoError(t, err)
			require.Equal(t, tt.expected, contentType)
		})
	}
}

func TestHandleCompressionIgnoresSymlinkedSiblings(t *testing.T) {
	dir := t.TempDir()

	orig := filepath.Join(dir, "file.css")
	writeFile(t, orig, "plain")
	writeFile(t, filepath.Join(dir, "other.gz"), "gzipped")
	require.NoError(t, os.Symlink(filepath.Join(dir, "other.gz"), orig+".gz"))

	r := httptest.NewRequest("GET", "/file.css", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	require.Equal(t, orig, handleCompression(rr, r, orig))
	require.Empty(t, rr.Header().Get("Content-Encoding"))
}

func TestWithinRoot(t *testing.T) {
	require.True(t, withinRoot("/srv/files", "/srv/files"))
	require.True(t, withinRoot("/srv/files", "/srv/files/app/key/a.html"))
	require.True(t, withinRoot("/", "/etc/passwd"))
	require.False(t, withinRoot("/srv/files", "/srv/files-other/a.html"))
	require.False(t, withinRoot("/srv/files", "/srv"))
}
