package gitsource

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"ingredient-scout/scout/pkg/config"
)

// Auth types accepted in engine.git.auth.type.
const (
	AuthNone  = "none"
	AuthToken = "token"
	AuthSSH   = "ssh"
)

// AuthProvider resolves transport credentials for clone and pull.
type AuthProvider interface {
	// Method returns the go-git auth method. A nil method means anonymous.
	Method() (transport.AuthMethod, error)

	// Type returns the configured auth type for logging.
	Type() string
}

type noAuth struct{}

func (noAuth) Method() (transport.AuthMethod, error) { return nil, nil }
func (noAuth) Type() string                          { return AuthNone }

// tokenAuth sends a personal access token as the HTTP basic password. Hosts
// ignore the username for token auth.
type tokenAuth struct {
	token string
}

func (a tokenAuth) Method() (transport.AuthMethod, error) {
	if a.token == "" {
		return nil, errors.New("token cannot be empty")
	}
	return &http.BasicAuth{Username: "git", Password: a.token}, nil
}

func (tokenAuth) Type() string { return AuthToken }

type sshAuth struct {
	keyPath    string
	passphrase string
}

// Method loads the private key on every call so a rotated key is picked up
// by the next pull.
func (a sshAuth) Method() (transport.AuthMethod, error) {
	if a.keyPath == "" {
		return nil, errors.New("ssh key path cannot be empty")
	}

	info, err := os.Stat(a.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	keys, err := ssh.NewPublicKeysFromFile("git", a.keyPath, a.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return keys, nil
}

func (sshAuth) Type() string { return AuthSSH }

// NewAuthProvider builds the provider named by cfg.Type. An empty type means
// anonymous access.
func NewAuthProvider(cfg config.GitAuthConfig) (AuthProvider, error) {
	switch cfg.Type {
	case AuthNone, "":
		return noAuth{}, nil
	case AuthToken:
		if cfg.Token == "" {
			return nil, errors.New("token auth requires non-empty token")
		}
		return tokenAuth{token: cfg.Token}, nil
	case AuthSSH:
		if cfg.SSHKeyPath == "" {
			return nil, errors.New("ssh auth requires ssh_key_path")
		}
		return sshAuth{keyPath: cfg.SSHKeyPath, passphrase: cfg.SSHKeyPassphrase}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}
