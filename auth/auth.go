// Package auth abstracts the external authentication provider. The data
// layer only ever needs a stable current-user id and email; obtaining and
// refreshing credentials is the embedding app's concern.
package auth

// User identifies the authenticated principal.
type User struct {
	UID   string
	Email string
}

// Provider reports the currently signed-in user, if any.
type Provider interface {
	CurrentUser() (User, bool)
}

// StaticProvider is a fixed Provider for tests and for apps that resolve
// the session themselves. A zero UID means no one is signed in.
type StaticProvider struct {
	User User
}

func Static(uid, email string) *StaticProvider {
	return &StaticProvider{User: User{UID: uid, Email: email}}
}

// Anonymous is a provider with nobody signed in.
func Anonymous() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) CurrentUser() (User, bool) {
	if p == nil || p.User.UID == "" {
		return User{}, false
	}
	return p.User, true
}
