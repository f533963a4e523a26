package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidMinVersion is returned for an unknown tls-min-version
	ErrInvalidMinVersion = errors.New("invalid minimum TLS version")
	// ErrInvalidMaxVersion is returned for an unknown tls-max-version or one
	// below the minimum
	ErrInvalidMaxVersion = errors.New("invalid maximum TLS version")
)

var (
	preferredCipherSuites = []uint16{
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	}

	// AllTLSVersions maps flag values to tls.Config versions
	AllTLSVersions = map[string]uint16{
		"":       0, // Default value in tls.Config
		"tls1.2": tls.VersionTLS12,
		"tls1.3": tls.VersionTLS13,
	}
)

// FlagUsage returns the help text of the tls-min-version and tls-max-version flags
func FlagUsage(minOrMax string) string {
	versions := make([]string, 0, len(AllTLSVersions))

	for version := range AllTLSVersions {
		if version != "" {
			versions = append(versions, fmt.Sprintf("%q", version))
		}
	}
	sort.Strings(versions)

	return fmt.Sprintf("Specifies the "+minOrMax+"imum SSL/TLS version, supported values are %s", strings.Join(versions, ", "))
}

// Create builds the tls.Config shared by every HTTPS listener
func Create(cert, key []byte, insecureCiphers bool, minVersion, maxVersion uint16) (*tls.Config, error) {
	certificate, err := tls.X509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("loading key pair: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   minVersion,
		MaxVersion:   maxVersion,
		NextProtos:   []string{"h2", "http/1.1"},
	}

	if !insecureCiphers {
		tlsConfig.CipherSuites = preferredCipherSuites
	}

	return tlsConfig, nil
}

// ValidateTLSVersions returns an error if the provided TLS versions are unknown
// or in the wrong order
func ValidateTLSVersions(min, max string) error {
	tlsMin, tlsMinOk := AllTLSVersions[min]
	tlsMax, tlsMaxOk := AllTLSVersions[max]

	if !tlsMinOk {
		return fmt.Errorf("%w: %s", ErrInvalidMinVersion, min)
	}
	if !tlsMaxOk {
		return fmt.Errorf("%w: %s", ErrInvalidMaxVersion, max)
	}
	if tlsMin > tlsMax && tlsMax > 0 {
		return fmt.Errorf("%w: %s; should be at least %s", ErrInvalidMaxVersion, max, min)
	}

	return nil
}
