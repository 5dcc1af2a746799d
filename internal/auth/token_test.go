package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := svc.Issue("a@x.com", "Teacher", "t-1", issued)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token, issued.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != "teacher" {
		t.Fatalf("role not normalized: %s", claims.Role)
	}
	if claims.RefID != "t-1" {
		t.Fatalf("unexpected ref_id: %s", claims.RefID)
	}
}

func TestTokenExpiryWindow(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := svc.Issue("a@x.com", "student", "", issued)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"at issuance", issued, true},
		{"mid window", issued.Add(12 * time.Hour), true},
		{"just before expiry", issued.Add(24*time.Hour - time.Second), true},
		{"at expiry", issued.Add(24 * time.Hour), false},
		{"after expiry", issued.Add(25 * time.Hour), false},
	}
	for _, tc := range cases {
		_, err := svc.Verify(token, tc.at)
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("%s: expected invalid token", tc.name)
		}
	}
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Now().UTC()

	token, err := svc.Issue("a@x.com", "admin", "", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	corrupted := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]
	if _, err := svc.Verify(corrupted, now); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}

	other, err := NewTokenService("a-different-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if _, err := other.Verify(token, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenVerifyGarbage(t *testing.T) {
	svc := newTestTokenService(t)
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b", "a.b.c"} {
		if _, err := svc.Verify(token, time.Now()); err == nil {
			t.Fatalf("expected %q to be invalid", token)
		}
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenService("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestTokenCustomTTL(t *testing.T) {
	svc, err := NewTokenService("test-secret", WithTTL(time.Hour))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := svc.Issue("a@x.com", "student", "", issued)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token, issued.Add(59*time.Minute)); err != nil {
		t.Fatalf("expected valid inside custom ttl: %v", err)
	}
	if _, err := svc.Verify(token, issued.Add(61*time.Minute)); err == nil {
		t.Fatal("expected invalid after custom ttl")
	}
}
