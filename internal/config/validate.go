package config

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/appfiles/internal/config/tls"
	"gitlab.com/gitlab-org/appfiles/internal/customheaders"
)

const minCookieSecretLength = 32

var (
	ErrNoListener              = errors.New("no listener defined, please specify at least one --listen-* flag")
	ErrNoFilesRoot             = errors.New("files-root must not be empty")
	ErrHTTPSNoCertificate      = errors.New("root-cert must be defined when an HTTPS listener is configured")
	ErrHTTPSNoKey              = errors.New("root-key must be defined when an HTTPS listener is configured")
	ErrCookieSecretTooShort    = errors.New("cookie-secret must be at least 32 bytes long")
	ErrInvalidRateLimitBurst   = errors.New("rate-limit-source-ip-burst must be greater than 0 when rate limiting is enabled")
	ErrNegativeRateLimitSource = errors.New("rate-limit-source-ip must not be negative")
)

// Validate checks config for every problem at once and returns them
// aggregated, each one reachable with errors.Is
func Validate(config *Config) error {
	var result *multierror.Error

	result = multierror.Append(result,
		validateListeners(config),
		validateCookies(config),
		validateRateLimit(config),
		tls.ValidateTLSVersions(config.TLS.MinVersionString, config.TLS.MaxVersionString),
	)

	if config.General.FilesRoot == "" {
		result = multierror.Append(result, ErrNoFilesRoot)
	}

	if _, err := customheaders.ParseHeaderString(config.General.CustomHeaders); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func validateListeners(config *Config) error {
	if config.ListenHTTPStrings.Len() == 0 &&
		config.ListenHTTPSStrings.Len() == 0 &&
		config.ListenProxyStrings.Len() == 0 &&
		config.ListenHTTPSProxyv2Strings.Len() == 0 {
		return ErrNoListener
	}

	if config.ListenHTTPSStrings.Len() == 0 && config.ListenHTTPSProxyv2Strings.Len() == 0 {
		return nil
	}

	var result *multierror.Error
	if len(config.General.RootCertificate) == 0 {
		result = multierror.Append(result, ErrHTTPSNoCertificate)
	}
	if len(config.General.RootKey) == 0 {
		result = multierror.Append(result, ErrHTTPSNoKey)
	}

	return result.ErrorOrNil()
}

func validateCookies(config *Config) error {
	if config.Cookies.Secret == "" {
		return nil
	}

	if len(config.Cookies.Secret) < minCookieSecretLength {
		return ErrCookieSecretTooShort
	}

	return nil
}

func validateRateLimit(config *Config) error {
	if config.RateLimit.SourceIPLimitPerSecond < 0 {
		return ErrNegativeRateLimitSource
	}

	if config.RateLimit.SourceIPLimitPerSecond > 0 && config.RateLimit.SourceIPBurst <= 0 {
		return ErrInvalidRateLimitBurst
	}

	return nil
}
