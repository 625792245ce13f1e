// Package security groups transport and access security for the scout
// server. The tls subpackage builds the HTTPS listener configuration and
// keeps the serving certificate fresh; the auth subpackage guards the
// operator endpoints with API keys.
package security
