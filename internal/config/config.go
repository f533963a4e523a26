package config

import (
	"fmt"
	"os"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/appfiles/internal/config/tls"
	"gitlab.com/gitlab-org/appfiles/internal/validateargs"
)

// Config stores all the config options relevant to appfiles.
type Config struct {
	General   General
	Cookies   Cookies
	Listeners Listeners
	Log       Log
	RateLimit RateLimit
	Sentry    Sentry
	Server    Server
	TLS       TLS

	// These fields contain the raw strings passed for the listen-* settings.
	// appMain turns them into net.Listeners.
	ListenHTTPStrings         MultiStringFlag
	ListenHTTPSStrings        MultiStringFlag
	ListenProxyStrings        MultiStringFlag
	ListenHTTPSProxyv2Strings MultiStringFlag
}

// General groups settings that are general to appfiles and can not
// be categorized under other head.
type General struct {
	FilesRoot       string
	FallbackRoot    string
	MetricsAddress  string
	StatusPath      string
	MaxConns        int
	MaxURILength    int
	RootCertificate []byte
	RootKey         []byte

	DisableCrossOriginRequests bool
	InsecureCiphers            bool
	PropagateCorrelationID     bool

	ShowVersion bool

	CustomHeaders []string
}

// Cookies groups settings related to the app/key selection cookies
type Cookies struct {
	// Secret, when set, is the input the securecookie hash key for app and
	// key cookies is derived from
	Secret string
}

// Listeners groups the listeners opened by appMain
// (HTTP, HTTPS, Proxy, HTTPSProxyv2)
type Listeners struct {
	HTTP         []string
	HTTPS        []string
	Proxy        []string
	HTTPSProxyv2 []string
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// RateLimit groups settings of the per source IP rate limiter
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// Server groups settings of the http.Server instances
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ListenKeepAlive   time.Duration
	ShutdownTimeout   time.Duration
}

// TLS groups settings related to configuring TLS
type TLS struct {
	MinVersion uint16
	MaxVersion uint16

	// raw tls-min-version and tls-max-version values, checked by Validate
	MinVersionString string
	MaxVersionString string
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			FilesRoot:                  *filesRoot,
			FallbackRoot:               *fallbackRoot,
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			InsecureCiphers:            *insecureCiphers,
			PropagateCorrelationID:     *propagateCorrelationID,
			ShowVersion:                *showVersion,
			CustomHeaders:              header.Split(),
		},
		Cookies: Cookies{
			Secret: *cookieSecret,
		},
		Listeners: Listeners{
			HTTP:         listenHTTP.Split(),
			HTTPS:        listenHTTPS.Split(),
			Proxy:        listenProxy.Split(),
			HTTPSProxyv2: listenHTTPSProxyv2.Split(),
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			ListenKeepAlive:   *serverKeepAlive,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		TLS: TLS{
			MinVersion: tls.AllTLSVersions[*tlsMinVersion],
			MaxVersion: tls.AllTLSVersions[*tlsMaxVersion],

			MinVersionString: *tlsMinVersion,
			MaxVersionString: *tlsMaxVersion,
		},

		ListenHTTPStrings:         listenHTTP,
		ListenHTTPSStrings:        listenHTTPS,
		ListenProxyStrings:        listenProxy,
		ListenHTTPSProxyv2Strings: listenHTTPSProxyv2,
	}

	if config.General.ShowVersion {
		return config, nil
	}

	if err := readKeyPair(config, *rootCert, *rootKey); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func readKeyPair(config *Config, certPath, keyPath string) error {
	for _, file := range []struct {
		contents *[]byte
		path     string
	}{
		{&config.General.RootCertificate, certPath},
		{&config.General.RootKey, keyPath},
	} {
		if file.path == "" {
			continue
		}

		contents, err := os.ReadFile(file.path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", file.path, err)
		}

		*file.contents = contents
	}

	return nil
}

// LogConfig prints the effective configuration at debug level. Secrets are
// reported by presence only.
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"fallback-root":                 config.General.FallbackRoot,
		"files-root":                    config.General.FilesRoot,
		"insecure-ciphers":              config.General.InsecureCiphers,
		"listen-http":                   config.Listeners.HTTP,
		"listen-https":                  config.Listeners.HTTPS,
		"listen-proxy":                  config.Listeners.Proxy,
		"listen-https-proxyv2":          config.Listeners.HTTPSProxyv2,
		"log-format":                    config.Log.Format,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
		"root-cert":                     *rootCert,
		"root-key":                      *rootKey,
		"signed-cookies":                config.Cookies.Secret != "",
		"status-path":                   config.General.StatusPath,
		"tls-min-version":               *tlsMinVersion,
		"tls-max-version":               *tlsMaxVersion,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
	}).Debug("Start daemon with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments,
// environment variables or via config file, and populates a Config object
// with those values
func LoadConfig() (*Config, error) {
	if err := validateargs.NotAllowed(os.Args[1:]); err != nil {
		return nil, err
	}

	initFlags()

	return loadConfig()
}
