package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Claims is the payload sealed inside a bearer token.
type Claims struct {
	Subject   string    `json:"sub"`
	ID        string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Sealer is the subset of crypto.KeyStore the issuer needs.
type Sealer interface {
	Seal(plainText []byte) (string, error)
	Open(envelope string) ([]byte, error)
}

type TokenIssuer struct {
	sealer Sealer
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(sealer Sealer, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{sealer: sealer, ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(subject string) (string, *Claims, error) {
	now := i.now().UTC()
	claims := &Claims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode claims: %w", err)
	}
	token, err := i.sealer.Seal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to seal token: %w", err)
	}
	return token, claims, nil
}

func (i *TokenIssuer) Parse(token string) (*Claims, error) {
	payload, err := i.sealer.Open(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if !i.now().Before(claims.ExpiresAt) {
		return nil, ErrExpiredToken
	}
	return &claims, nil
}
