package request

import (
	"net"
	"net/http"
)

const (
	// SchemeHTTP name for the HTTP scheme
	SchemeHTTP = "http"
	// SchemeHTTPS name for the HTTPS scheme
	SchemeHTTPS = "https"
)

// IsHTTPS reports whether the request reached us over TLS, either directly
// or through a proxy listener that rewrote the URL scheme
func IsHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == SchemeHTTPS
}

// GetRemoteAddrWithoutPort strips the port from r.RemoteAddr. The address is
// returned unchanged when it carries no port.
func GetRemoteAddrWithoutPort(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
