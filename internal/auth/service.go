package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/VladKovDev/tguser-api/pkg/logger"
	"go.uber.org/zap"
)

// Service issues, checks and revokes bearer tokens for configured accounts.
type Service struct {
	accounts *Accounts
	issuer   *TokenIssuer
	revoked  RevocationList
	logger   logger.Logger
}

func NewService(accounts *Accounts, issuer *TokenIssuer, revoked RevocationList, logger logger.Logger) *Service {
	return &Service{
		accounts: accounts,
		issuer:   issuer,
		revoked:  revoked,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *Claims, error) {
	subject, err := s.accounts.Verify(email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", email))
		return "", nil, err
	}
	token, claims, err := s.issuer.Issue(subject)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("token issued", zap.String("sub", claims.Subject), zap.String("jti", claims.ID))
	return token, claims, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info("token revoked", zap.String("sub", claims.Subject), zap.String("jti", claims.ID))
	return nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
