// Package auth provides access token providers for the backup platform
// API. A static token from the config file takes precedence; otherwise a
// service account authenticates via the OAuth2 client credentials grant.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/castellan-labs/m365vault-cli/internal/adapters/driven/config/file"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
)

// ErrNoCredentials is returned when neither a token nor client credentials
// are configured.
var ErrNoCredentials = errors.New("auth: no credentials configured, run 'm365vault config set-token' or configure a service account")

// StaticProvider serves a fixed token.
type StaticProvider struct {
	token string
}

var _ driven.TokenProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider around a pre-issued API token.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// GetToken returns the configured token.
func (p *StaticProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", ErrNoCredentials
	}
	return p.token, nil
}

// ClientCredentialsProvider obtains and refreshes tokens through the OAuth2
// client credentials grant.
type ClientCredentialsProvider struct {
	conf *clientcredentials.Config
}

var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// NewClientCredentialsProvider creates a provider for a service account.
func NewClientCredentialsProvider(clientID, clientSecret, tokenURL string) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
	}
}

// GetToken returns a valid access token, fetching a fresh one when needed.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	tok, err := p.conf.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	return tok.AccessToken, nil
}

// NewProviderFromConfig selects a provider based on the configuration.
// With no credentials configured it still returns a provider; that provider
// fails at call time so commands like 'config init' keep working.
func NewProviderFromConfig(cfg *file.Config) driven.TokenProvider {
	if cfg.Token != "" {
		return NewStaticProvider(cfg.Token)
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TokenURL != "" {
		return NewClientCredentialsProvider(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL)
	}
	return NewStaticProvider("")
}
