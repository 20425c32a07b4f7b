package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/infrastructure/crypto"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func newKeyStore(t *testing.T) *crypto.KeyStore {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	ks, err := crypto.NewAESKeyStore(1, map[int][]byte{1: key})
	if err != nil {
		t.Fatalf("NewAESKeyStore: %v", err)
	}
	return ks
}

func newTestService(t *testing.T) (*Service, *TokenIssuer, *MemoryRevocationList) {
	t.Helper()
	hash, err := HashPassword("password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	accounts := NewAccounts([]config.AccountConfig{{Email: "Bot@Mail.com", PasswordHash: hash}})
	issuer := NewTokenIssuer(newKeyStore(t), time.Hour)
	revoked := NewMemoryRevocationList()
	return NewService(accounts, issuer, revoked, logger.Noop()), issuer, revoked
}

func TestService_LoginAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	token, claims, err := svc.Login(ctx, "bot@mail.com", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || claims.Subject != "bot@mail.com" {
		t.Fatalf("Login returned token=%q claims=%+v", token, claims)
	}

	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != claims.ID || got.Subject != claims.Subject {
		t.Errorf("Authenticate claims = %+v, want %+v", got, claims)
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "bot@mail.com", "nope"},
		{"unknown email", "someone@mail.com", "password"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
			}
			if !IsUnauthorized(err) {
				t.Errorf("IsUnauthorized(%v) = false", err)
			}
		})
	}
}

func TestService_AuthenticateErrors(t *testing.T) {
	svc, issuer, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("empty token error = %v, want ErrTokenNotFound", err)
	}
	if _, err := svc.Authenticate(ctx, "v1.garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := issuer.Issue("bot@mail.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	issuer.now = time.Now
	if _, err := svc.Authenticate(ctx, stale); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired token error = %v, want ErrExpiredToken", err)
	}
}

func TestService_Revoke(t *testing.T) {
	svc, _, revoked := newTestService(t)
	ctx := context.Background()

	token, claims, err := svc.Login(ctx, "bot@mail.com", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Revoke(ctx, claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("revoked token error = %v, want ErrRevokedToken", err)
	}
	if revoked.Len() != 1 {
		t.Errorf("revocation list has %d entries, want 1", revoked.Len())
	}

	other, _, err := svc.Login(ctx, "bot@mail.com", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Authenticate(ctx, other); err != nil {
		t.Errorf("fresh token rejected after revoking another: %v", err)
	}
}

func TestMemoryRevocationList_Purge(t *testing.T) {
	l := NewMemoryRevocationList()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_ = l.Revoke(ctx, "expired", now.Add(-time.Second))
	_ = l.Revoke(ctx, "live", now.Add(time.Hour))

	if ok, _ := l.IsRevoked(ctx, "expired"); ok {
		t.Error("entry past its expiry reported as revoked")
	}
	if ok, _ := l.IsRevoked(ctx, "live"); !ok {
		t.Error("live entry not reported as revoked")
	}

	if n := l.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after purge, want 1", l.Len())
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer   v1.xyz ", "v1.xyz"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
