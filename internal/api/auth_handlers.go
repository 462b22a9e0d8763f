package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepupapp/keepup-server/internal/api/dto"
	"github.com/keepupapp/keepup-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/register",
		Summary:     "Register new user",
		Description: "Creates an account. Credentials may be sent as query parameters or a JSON body.",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "User login",
		Description: "Verifies credentials and returns a bearer access token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Current user",
		Description: "Returns the user the bearer token was issued to",
		Tags:        []string{"Authentication"},
		Security:    bearerSecurity,
	}, s.handleGetCurrentUser)
}

// AuthInput carries the bearer token header.
type AuthInput struct {
	Authorization string `header:"Authorization"`
}

func (s *Server) handleRegister(ctx context.Context, input *dto.CredentialsInput) (*dto.MessageOutput, error) {
	username, password := input.Resolve()

	if _, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: username,
		Password: password,
	}); err != nil {
		return nil, err
	}

	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "User registered successfully"}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *dto.CredentialsInput) (*dto.TokenOutput, error) {
	username, password := input.Resolve()

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenOutput{
		Body: dto.TokenResponse{
			AccessToken: resp.AccessToken,
			TokenType:   resp.TokenType,
			ExpiresIn:   resp.ExpiresIn,
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthInput) (*dto.MeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &dto.MeOutput{Body: dto.MeResponse{ID: user.ID, Username: user.Username}}, nil
}
