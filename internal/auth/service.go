package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campushub.org/internal/ids"
)

// Service registers credentials and exchanges them for bearer tokens.
type Service struct {
	store  CredentialStore
	tokens *TokenService
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given credential store and token
// service.
func NewService(store CredentialStore, tokens *TokenService, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: credential store is required", ErrInvalidInput)
	}
	if tokens == nil {
		return nil, fmt.Errorf("%w: token service is required", ErrInvalidInput)
	}
	svc := &Service{store: store, tokens: tokens, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates a credential. Duplicate emails yield ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password, role, refID string) (*Credential, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	// bcrypt only reads the first 72 bytes; reject instead of truncating.
	if len(password) > 72 {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	role = strings.TrimSpace(strings.ToLower(role))
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be admin, teacher or student", ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	cred := &Credential{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		RefID:        strings.TrimSpace(refID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateCredential(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and password mismatch both collapse into ErrInvalidCredentials; store
// failures pass through so the caller can tell an outage from a bad login.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Credential, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}
	cred, err := s.store.FindCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find credential: %w", err)
	}
	if err := VerifyPassword(cred.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(cred.Email, cred.Role, cred.RefID, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, cred, nil
}

// ResolveToken verifies a bearer token and returns the identity it encodes.
func (s *Service) ResolveToken(token string) (Identity, error) {
	claims, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Email: claims.Subject,
		Role:  claims.Role,
		RefID: claims.RefID,
	}, nil
}
