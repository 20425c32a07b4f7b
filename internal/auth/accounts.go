package auth

import (
	"fmt"
	"strings"

	"github.com/VladKovDev/tguser-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so that both
// branches cost one bcrypt comparison.
var dummyHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8.ZfJtH1VQ9YXbC6sFd6WQBH3S8S6a")

type Accounts struct {
	hashes map[string][]byte
}

func NewAccounts(accounts []config.AccountConfig) *Accounts {
	a := &Accounts{hashes: make(map[string][]byte, len(accounts))}
	for _, acc := range accounts {
		a.hashes[normalizeEmail(acc.Email)] = []byte(acc.PasswordHash)
	}
	return a
}

// Verify returns the canonical email on success and ErrInvalidCredentials otherwise.
func (a *Accounts) Verify(email, password string) (string, error) {
	email = normalizeEmail(email)
	hash, ok := a.hashes[email]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return email, nil
}

// HashPassword returns a bcrypt hash suitable for auth.accounts.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
