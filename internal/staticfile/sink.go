package staticfile

import "net/http"

//go:generate mockgen -source=sink.go -destination=mock/sink_mock.go -package=mock

// Sink sends the file found at path as the response to r. Failures such as
// a missing or unreadable file are answered by the Sink itself.
type Sink interface {
	SendFile(w http.ResponseWriter, r *http.Request, path string)
}

// SinkFunc adapts an ordinary function to the Sink interface
type SinkFunc func(w http.ResponseWriter, r *http.Request, path string)

// SendFile calls f(w, r, path)
func (f SinkFunc) SendFile(w http.ResponseWriter, r *http.Request, path string) {
	f(w, r, path)
}
