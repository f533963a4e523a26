package customheaders

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"
)

// ErrInvalidHeaderParameter is returned for header flags not in "Name: value" form
var ErrInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

// NewMiddleware returns middleware which inject custom headers into the response
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, headers)

		handler.ServeHTTP(w, r)
	})
}

// AddCustomHeaders adds a map of Headers to a Response
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		for _, value := range v {
			w.Header().Add(k, value)
		}
	}
}

// ParseHeaderString parses "Name: value" strings into canonical headers
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}

	for _, keyValueString := range customHeaders {
		if !strings.Contains(keyValueString, ":") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeaderParameter, keyValueString)
		}

		tp := textproto.NewReader(bufio.NewReader(strings.NewReader(strings.TrimSpace(keyValueString) + "\n\n")))
		keyValue, err := tp.ReadMIMEHeader()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeaderParameter, keyValueString)
		}

		for k, v := range keyValue {
			k = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
			headers[k] = append(headers[k], v...)
		}
	}

	return headers, nil
}
