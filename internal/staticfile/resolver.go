package staticfile

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/securecookie"

	"gitlab.com/gitlab-org/appfiles/internal/logging"
	"gitlab.com/gitlab-org/appfiles/metrics"
)

var (
	errEmptyCookie = errors.New("cookie is empty")
	errNotASegment = errors.New("value is not a single path segment")
)

type invalidCookieError struct {
	name string
	err  error
}

func (e *invalidCookieError) Error() string {
	return fmt.Sprintf("invalid %s cookie: %v", e.name, e.err)
}

func (e *invalidCookieError) Unwrap() error {
	return e.err
}

const (
	// AppCookie names the cookie selecting the application tree
	AppCookie = "app"
	// KeyCookie names the cookie selecting the tree inside an application
	KeyCookie = "key"
	// DefaultRoot is the base directory of every application tree
	DefaultRoot = "files"
)

// Outcome tells whether a request is served from a keyed tree or passed on
type Outcome int

const (
	// Delegated requests are handed to the next handler
	Delegated Outcome = iota
	// Handled requests are answered with a file from a keyed tree
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}

	return "delegated"
}

// Resolver maps a request to a file below the files root using its app and
// key cookies
type Resolver struct {
	root  string
	codec *securecookie.SecureCookie
}

// Option configures a Resolver
type Option func(*Resolver)

// WithRoot replaces DefaultRoot
func WithRoot(root string) Option {
	return func(res *Resolver) {
		if root != "" {
			res.root = root
		}
	}
}

// WithCookieSecret makes the Resolver accept only app and key values signed
// with securecookie using hashKey. An empty hashKey leaves cookies unsigned.
func WithCookieSecret(hashKey []byte) Option {
	return func(res *Resolver) {
		if len(hashKey) == 0 {
			res.codec = nil
			return
		}

		res.codec = securecookie.New(hashKey, nil)
	}
}

// NewResolver returns a Resolver rooted at DefaultRoot unless told otherwise
func NewResolver(opts ...Option) *Resolver {
	res := &Resolver{root: DefaultRoot}

	for _, opt := range opts {
		opt(res)
	}

	return res
}

// Root is the directory application trees are looked up in
func (res *Resolver) Root() string {
	return res.root
}

// Identity returns the app and key values carried by r. ok is false when
// either one is missing, empty or invalid.
func (res *Resolver) Identity(r *http.Request) (app, key string, ok bool) {
	app, key, err := res.identity(r)

	return app, key, err == nil
}

// Resolve returns the path of the file r asks for. The outcome is Delegated,
// with an empty path, when r does not carry both cookies.
func (res *Resolver) Resolve(r *http.Request) (string, Outcome) {
	_, fullPath, outcome := res.resolve(r)

	return fullPath, outcome
}

func (res *Resolver) resolve(r *http.Request) (app, fullPath string, outcome Outcome) {
	app, key, err := res.identity(r)
	if err != nil {
		var invalid *invalidCookieError
		if errors.As(err, &invalid) {
			metrics.InvalidCookies.WithLabelValues(invalid.name).Inc()
			logging.LogRequest(r).WithError(err).Debug("ignoring request cookies")
		}

		return "", "", Delegated
	}

	// Cleaning as a rooted path keeps ".." segments inside the key tree
	subPath := path.Clean("/" + r.URL.Path)

	return app, filepath.Join(res.root, app, key, filepath.FromSlash(subPath)), Handled
}

func (res *Resolver) identity(r *http.Request) (app, key string, err error) {
	if app, err = res.cookieValue(r, AppCookie); err != nil {
		return "", "", err
	}

	if key, err = res.cookieValue(r, KeyCookie); err != nil {
		return "", "", err
	}

	return app, key, nil
}

func (res *Resolver) cookieValue(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}

	if cookie.Value == "" {
		return "", errEmptyCookie
	}

	value := cookie.Value

	if res.codec != nil {
		var decoded string
		if err := res.codec.Decode(name, cookie.Value, &decoded); err != nil {
			return "", &invalidCookieError{name: name, err: err}
		}

		value = decoded
	}

	if !validSegment(value) {
		return "", &invalidCookieError{name: name, err: errNotASegment}
	}

	return value, nil
}

// validSegment reports whether value can be used as a single directory name
func validSegment(value string) bool {
	if value == "" || value == "." || value == ".." {
		return false
	}

	return !strings.ContainsAny(value, "/\\\x00")
}
