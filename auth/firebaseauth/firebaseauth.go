// Package firebaseauth resolves the current user from Firebase ID tokens.
package firebaseauth

import (
	"context"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"github.com/bergwerk/iceberg-data/auth"
)

// Provider verifies Firebase ID tokens and remembers the resulting session
// until SignOut. It satisfies auth.Provider.
type Provider struct {
	client *fbauth.Client

	mu      sync.RWMutex
	current auth.User
	signed  bool
}

var _ auth.Provider = (*Provider)(nil)

// New builds a Provider from an initialized Firebase app (the same app the
// Firestore store adapter holds).
func New(ctx context.Context, app *firebase.App) (*Provider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}
	return &Provider{client: client}, nil
}

// SignIn verifies the ID token, loads the user record behind it, and makes
// that user current.
func (p *Provider) SignIn(ctx context.Context, idToken string) (auth.User, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return auth.User{}, fmt.Errorf("verifying id token: %w", err)
	}

	record, err := p.client.GetUser(ctx, token.UID)
	if err != nil {
		return auth.User{}, fmt.Errorf("loading user %s: %w", token.UID, err)
	}

	user := auth.User{UID: record.UID, Email: record.Email}

	p.mu.Lock()
	p.current = user
	p.signed = true
	p.mu.Unlock()

	return user, nil
}

// SignOut clears the current session.
func (p *Provider) SignOut() {
	p.mu.Lock()
	p.current = auth.User{}
	p.signed = false
	p.mu.Unlock()
}

func (p *Provider) CurrentUser() (auth.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.signed
}
