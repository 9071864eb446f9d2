// Package auth carries per-request database credentials through the request
// context. The HTTP transport's Basic Auth middleware stores them; the
// per-call configuration loader reads them back as overrides for
// MYSQL_USER/MYSQL_PASSWORD. In stdio mode the context never carries
// credentials and the environment alone applies.
package auth

import "context"

type contextKey struct{}

// credentials travel together; storing the pair under one key means a user
// can never appear without its password.
type credentials struct {
	user string
	pass string
}

var credentialsKey contextKey

// WithBasicAuth returns a context carrying the credential pair.
func WithBasicAuth(ctx context.Context, user, pass string) context.Context {
	return context.WithValue(ctx, credentialsKey, credentials{user: user, pass: pass})
}

// GetBasicAuthCredentials reports the credential pair stored on the context.
func GetBasicAuthCredentials(ctx context.Context) (user, pass string, ok bool) {
	c, ok := ctx.Value(credentialsKey).(credentials)
	return c.user, c.pass, ok
}
