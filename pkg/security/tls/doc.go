/*
Package tls provides the HTTPS configuration for the scout server.

# Server Configuration

Build a crypto/tls config from the server.tls section:

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	tlsConfig, err := tls.NewServerConfig(cfg, reloader)
	if err != nil {
		return err
	}

Only TLS 1.2 and 1.3 are accepted. Cipher suites are given by their Go
constant names; an unknown name is an error. An empty list keeps Go's
defaults.

# Certificate Auto-Reload

The reloader polls the certificate and key modification times every
reload interval and swaps in the new pair when either changes. A pair that
fails to load or has expired is logged and the previous certificate keeps
serving. A zero interval loads once and never polls.
*/
package tls
