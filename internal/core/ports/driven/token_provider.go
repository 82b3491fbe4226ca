package driven

import "context"

// TokenProvider supplies a bearer token for backend API calls. Token
// lifecycle (refresh, expiry) is the provider's concern; consumers only
// read the current token.
type TokenProvider interface {
	// GetToken returns a valid access token.
	GetToken(ctx context.Context) (string, error)
}
