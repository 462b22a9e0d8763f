package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepupapp/keepup-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
		Description: "Returns the global tag dictionary ordered by name",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleListTags)
}

// TagListOutput wraps the tag dictionary for Huma.
type TagListOutput struct {
	Body []*domain.Tag
}

func (s *Server) handleListTags(ctx context.Context, input *AuthInput) (*TagListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.List(ctx)
	if err != nil {
		return nil, err
	}

	return &TagListOutput{Body: tags}, nil
}
