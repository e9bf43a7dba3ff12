package login

import (
	"context"

	"github.com/lvyanru/actctl/internal/cli/session"
	"github.com/lvyanru/actctl/internal/cli/types"
)

// TokenVerifier checks the stored token with the server
type TokenVerifier interface {
	VerifyToken(ctx context.Context) types.Result
}

// Verifier decides at startup whether protected content can load or must
// wait for login
type Verifier struct {
	tokens session.Store
	api    TokenVerifier
	prompt func()
}

// NewVerifier creates a verifier; prompt is called when no token is stored
func NewVerifier(tokens session.Store, api TokenVerifier, prompt func()) *Verifier {
	return &Verifier{tokens: tokens, api: api, prompt: prompt}
}

// Verify reports whether the session is valid. Without a stored token it
// requests the login prompt and makes no call.
func (v *Verifier) Verify(ctx context.Context) bool {
	if !v.tokens.Has() {
		if v.prompt != nil {
			v.prompt()
		}
		return false
	}
	return v.api.VerifyToken(ctx).Success
}
