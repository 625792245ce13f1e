package auth

import "context"

// KeyInfo is one accepted API key.
type KeyInfo struct {
	// Name identifies the key in logs.
	Name    string
	Key     string
	Enabled bool
}

// KeyStore validates presented keys.
type KeyStore interface {
	Validate(key string) (*KeyInfo, error)
}

// KeySource says where a request carries its key.
type KeySource struct {
	// Header is the header name.
	Header string

	// Scheme is the required value prefix, e.g. "Bearer". Empty takes the
	// whole header value.
	Scheme string
}

// DefaultSources accepts "Authorization: Bearer <key>" and "X-API-Key".
var DefaultSources = []KeySource{
	{Header: "Authorization", Scheme: "Bearer"},
	{Header: "X-API-Key"},
}

type contextKey struct{}

// KeyName returns the name of the key that authenticated ctx's request.
func KeyName(ctx context.Context) (string, bool) {
	info, ok := ctx.Value(contextKey{}).(*KeyInfo)
	if !ok {
		return "", false
	}
	return info.Name, true
}
