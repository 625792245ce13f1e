package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
	"sort"

	"ingredient-scout/scout/pkg/config"
)

// NewServerConfig builds the listener configuration for cfg. Certificates
// are served from reloader, which must have been started.
func NewServerConfig(cfg config.TLSConfig, reloader *CertificateReloader) (*tls.Config, error) {
	if reloader == nil {
		return nil, errors.New("certificate reloader is required")
	}

	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}
	suites, err := ParseCipherSuites(cfg.CipherSuites)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is validated above (TLS 1.0/1.1 rejected)
	return &tls.Config{
		MinVersion:     minVersion,
		CipherSuites:   suites,
		GetCertificate: reloader.GetCertificateFunc(),
		NextProtos:     []string{"h2", "http/1.1"},
	}, nil
}

// ParseVersion converts "1.2" or "1.3" to a tls version constant. Empty
// selects TLS 1.3.
func ParseVersion(v string) (uint16, error) {
	switch v {
	case "1.3", "":
		return tls.VersionTLS13, nil
	case "1.2":
		return tls.VersionTLS12, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q (want 1.2 or 1.3)", v)
	}
}

// ParseCipherSuites converts cipher suite names to their ids. An empty list
// returns nil so Go's defaults apply.
func ParseCipherSuites(names []string) ([]uint16, error) {
	if len(names) == 0 {
		return nil, nil
	}

	suites := make([]uint16, 0, len(names))
	for _, name := range names {
		id, ok := cipherSuiteMap[name]
		if !ok {
			return nil, fmt.Errorf("unknown cipher suite %q (known: %v)", name, CipherSuiteNames())
		}
		suites = append(suites, id)
	}
	return suites, nil
}

// CipherSuiteNames lists the accepted cipher suite names, sorted.
func CipherSuiteNames() []string {
	names := make([]string, 0, len(cipherSuiteMap))
	for name := range cipherSuiteMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cipherSuiteMap holds the secure suites only. TLS 1.3 suites are always
// enabled by Go and are listed so configs naming them are accepted.
var cipherSuiteMap = map[string]uint16{
	"TLS_AES_128_GCM_SHA256":       tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":       tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256": tls.TLS_CHACHA20_POLY1305_SHA256,

	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305":    tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305":  tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}
