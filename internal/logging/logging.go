package logging

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"

	"gitlab.com/gitlab-org/appfiles/internal/request"
)

// Identity reports the app a request selects and whether it carries a valid
// app and key pair. The key itself is never logged.
type Identity func(r *http.Request) (app string, keyed bool)

// ConfigureLogging will initialize the system logger.
func ConfigureLogging(format string, verbose bool) error {
	if format == "" {
		format = "json"
	}

	_, err := log.Initialize(
		log.WithFormatter(format),
		log.WithLogLevel(logLevel(verbose)),
	)
	return err
}

// verbose logging includes the per file trace lines of keyed requests
func logLevel(verbose bool) string {
	if verbose {
		return "trace"
	}

	return "info"
}

// getAccessLogger returns the default logger, except for the text format
// where access lines use the combined HTTP log format.
func getAccessLogger(format string) (*logrus.Logger, error) {
	if format != "text" && format != "" {
		return logrus.StandardLogger(), nil
	}

	accessLogger := log.New()
	_, err := log.Initialize(
		log.WithLogger(accessLogger),
		log.WithFormatter("combined"),
	)
	if err != nil {
		return nil, err
	}

	return accessLogger, nil
}

// BasicAccessLogger logs every request passing through handler, tagged with
// the app identity reports for it
func BasicAccessLogger(handler http.Handler, format string, identity Identity) (http.Handler, error) {
	accessLogger, err := getAccessLogger(format)
	if err != nil {
		return nil, err
	}

	return log.AccessLogger(handler,
		log.WithExtraFields(accessLogFields(identity)),
		log.WithAccessLogger(accessLogger),
		log.WithXFFAllowed(func(sip string) bool { return false }),
	), nil
}

func accessLogFields(identity Identity) log.ExtraFieldsGeneratorFunc {
	return func(r *http.Request) log.Fields {
		fields := log.Fields{
			"correlation_id": correlation.ExtractFromContext(r.Context()),
			"appfiles_https": request.IsHTTPS(r),
			"appfiles_host":  r.Host,
			"appfiles_keyed": false,
		}

		if identity == nil {
			return fields
		}

		if app, keyed := identity(r); keyed {
			fields["appfiles_keyed"] = true
			fields["appfiles_app"] = app
		}

		return fields
	}
}

// LogRequest will inject request host, method and path to the logged messages
func LogRequest(r *http.Request) *logrus.Entry {
	return log.WithFields(log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"host":           r.Host,
		"method":         r.Method,
		"path":           r.URL.Path,
	})
}

// LogKeyedRequest extends LogRequest with the selected app and the file the
// request resolved to
func LogKeyedRequest(r *http.Request, app, file string) *logrus.Entry {
	return LogRequest(r).WithFields(log.Fields{
		"app":  app,
		"file": file,
	})
}
