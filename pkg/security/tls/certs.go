package tls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"
)

// ExpiryWarningDays is how close to expiry a certificate starts logging
// warnings.
const ExpiryWarningDays = 30

// ValidateCertificate checks that the leaf of cert is currently valid.
func ValidateCertificate(cert *tls.Certificate) error {
	if cert == nil {
		return errors.New("certificate is nil")
	}
	if len(cert.Certificate) == 0 {
		return errors.New("certificate chain is empty")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	return ValidateX509Certificate(leaf)
}

// ValidateX509Certificate rejects certificates outside their validity
// window.
func ValidateX509Certificate(cert *x509.Certificate) error {
	now := time.Now()

	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// CheckCertificateExpiration returns the whole days until cert expires and
// a warning when that is under ExpiryWarningDays.
func CheckCertificateExpiration(cert *x509.Certificate) (daysUntilExpiry int, warning string) {
	daysUntilExpiry = int(time.Until(cert.NotAfter).Hours() / 24)

	if daysUntilExpiry < ExpiryWarningDays {
		warning = fmt.Sprintf("certificate expires in %d days (on %s)",
			daysUntilExpiry, cert.NotAfter.Format("2006-01-02"))
	}
	return daysUntilExpiry, warning
}

// CertificateInfo is the human-readable summary of a certificate.
type CertificateInfo struct {
	Subject            string
	Issuer             string
	SerialNumber       string
	NotBefore          time.Time
	NotAfter           time.Time
	DNSNames           []string
	IPAddresses        []string
	SignatureAlgorithm string
	PublicKeyAlgorithm string
}

// ExtractCertificateInfo summarizes cert.
func ExtractCertificateInfo(cert *x509.Certificate) *CertificateInfo {
	info := &CertificateInfo{
		Subject:            cert.Subject.String(),
		Issuer:             cert.Issuer.String(),
		SerialNumber:       fmt.Sprintf("%x", cert.SerialNumber),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		DNSNames:           cert.DNSNames,
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
	}
	for _, ip := range cert.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}
	return info
}

// LoadCertificateInfo reads the first PEM certificate in certFile and
// summarizes it. The certificate is validated too, so an expired file
// returns its info together with the error.
func LoadCertificateInfo(certFile string) (*CertificateInfo, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("no PEM certificate found in %s", certFile)
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		return ExtractCertificateInfo(cert), ValidateX509Certificate(cert)
	}
}
