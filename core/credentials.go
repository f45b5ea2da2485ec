package core

import "time"

// CredentialProvider supplies the Authorization header value for every request.
// Implementations must be safe for concurrent use.
type CredentialProvider interface {
	AuthorizationHeader() string
}

// APIKey authenticates with a service account API key.
type APIKey struct {
	key Secret
}

// NewAPIKey creates an API key credential.
func NewAPIKey(key string) *APIKey {
	return &APIKey{key: NewSecret(key)}
}

// AuthorizationHeader returns "Api-Key <key>".
func (k *APIKey) AuthorizationHeader() string {
	return "Api-Key " + k.key.Expose()
}

// IAMToken authenticates with a pre-issued IAM token. Refreshing the token is
// the caller's responsibility.
type IAMToken struct {
	token     Secret
	expiresAt time.Time
}

// NewIAMToken creates an IAM token credential. expiresAt may be zero when unknown.
func NewIAMToken(token string, expiresAt time.Time) *IAMToken {
	return &IAMToken{token: NewSecret(token), expiresAt: expiresAt}
}

// AuthorizationHeader returns "Bearer <token>".
func (t *IAMToken) AuthorizationHeader() string {
	return "Bearer " + t.token.Expose()
}

// ExpiresAt returns the token expiry, or the zero time if unknown.
func (t *IAMToken) ExpiresAt() time.Time {
	return t.expiresAt
}

// Expired reports whether the token expiry is known and not after now.
func (t *IAMToken) Expired(now time.Time) bool {
	return !t.expiresAt.IsZero() && !now.Before(t.expiresAt)
}

// Compile-time checks.
var (
	_ CredentialProvider = (*APIKey)(nil)
	_ CredentialProvider = (*IAMToken)(nil)
)
