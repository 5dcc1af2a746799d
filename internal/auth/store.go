package auth

import "context"

// CredentialStore persists login credentials. Emails are unique; credentials
// are never deleted.
type CredentialStore interface {
	CreateCredential(ctx context.Context, cred *Credential) error
	FindCredentialByEmail(ctx context.Context, email string) (*Credential, error)
}
