package api

import (
	"context"
	"strings"

	"github.com/keepupapp/keepup-server/internal/domain"
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the
// user the token was issued to.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("Not authenticated")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, domainerrors.Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	return user, nil
}
