// Package gateway - Credential resolution
package gateway

import (
	"context"
	"os"
)

// CredentialProvider yields an infrastructure API credential. Providers
// are queried in the order they were registered; the first non-empty value
// wins. An inbound request's own token is consulted only after every
// configured provider came up empty.
type CredentialProvider interface {
	// Credential returns the credential, or "" if this source has none
	Credential(ctx context.Context) string
}

// StaticCredential always returns the same token.
type StaticCredential string

// Credential implements CredentialProvider.
func (s StaticCredential) Credential(_ context.Context) string {
	return string(s)
}

// EnvCredential reads the credential from an environment variable on
// every resolution, so a deployment can rotate tokens without restarts.
type EnvCredential struct {
	name string
}

// NewEnvCredential creates a provider backed by the named variable.
func NewEnvCredential(name string) *EnvCredential {
	return &EnvCredential{name: name}
}

// Credential implements CredentialProvider.
func (e *EnvCredential) Credential(_ context.Context) string {
	return os.Getenv(e.name)
}

// EnvChain builds one provider per variable name, preserving order. This
// is how the server wires the primary/secondary credential precedence.
func EnvChain(names ...string) []CredentialProvider {
	providers := make([]CredentialProvider, 0, len(names))
	for _, name := range names {
		providers = append(providers, NewEnvCredential(name))
	}
	return providers
}
