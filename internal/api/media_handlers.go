package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepupapp/keepup-server/internal/api/dto"
	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/service"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createMedia",
		Method:      http.MethodPost,
		Path:        "/media",
		Summary:     "Create media",
		Description: "Creates a tracked media record with optional tags",
		Tags:        []string{"Media"},
		Security:    bearerSecurity,
	}, s.handleCreateMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMedia",
		Method:      http.MethodGet,
		Path:        "/media",
		Summary:     "List media",
		Description: "Returns the caller's media with tags, optionally filtered by category and status",
		Tags:        []string{"Media"},
		Security:    bearerSecurity,
	}, s.handleListMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMedia",
		Method:      http.MethodGet,
		Path:        "/media/{id}",
		Summary:     "Get media",
		Description: "Returns one of the caller's media records with tags",
		Tags:        []string{"Media"},
		Security:    bearerSecurity,
	}, s.handleGetMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMedia",
		Method:      http.MethodPut,
		Path:        "/media/{id}",
		Summary:     "Update media",
		Description: "Replaces the mutable fields. Tags are replaced only when the body carries a tags array.",
		Tags:        []string{"Media"},
		Security:    bearerSecurity,
	}, s.handleUpdateMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMedia",
		Method:      http.MethodDelete,
		Path:        "/media/{id}",
		Summary:     "Delete media",
		Description: "Deletes one of the caller's media records. Its tags stay in the dictionary.",
		Tags:        []string{"Media"},
		Security:    bearerSecurity,
	}, s.handleDeleteMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "setMediaTags",
		Method:      http.MethodPut,
		Path:        "/media/{id}/tags",
		Summary:     "Replace media tags",
		Description: "Rebinds the media to exactly the given tag names",
		Tags:        []string{"Media", "Tags"},
		Security:    bearerSecurity,
	}, s.handleSetMediaTags)
}

// === DTOs ===

// TagRef names a tag in a request body. Clients may echo whole tag objects.
type TagRef struct {
	_    struct{} `json:"-" additionalProperties:"true"`
	Name string   `json:"name" doc:"Tag name; normalised to lower case"`
}

// MediaBody is the request body for creating or replacing a media record.
type MediaBody struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Name     string   `json:"name" doc:"Title"`
	Category string   `json:"category" doc:"Free-text category, e.g. anime or book"`
	Status   string   `json:"status" doc:"Free-text status, e.g. watching or completed"`
	Progress int      `json:"progress,omitempty" doc:"Progress counter (episodes, chapters)"`
	Rating   *int     `json:"rating,omitempty" nullable:"true" doc:"Rating from 0 to 20"`
	Tags     []TagRef `json:"tags,omitempty" doc:"Tags; omit to keep the current set on update"`
}

func (b MediaBody) tagInputs() []service.TagInput {
	if b.Tags == nil {
		return nil
	}
	out := make([]service.TagInput, len(b.Tags))
	for i, t := range b.Tags {
		out[i] = service.TagInput{Name: t.Name}
	}
	return out
}

// CreateMediaInput wraps the create media request for Huma.
type CreateMediaInput struct {
	Authorization string `header:"Authorization"`
	Body          MediaBody
}

// ListMediaInput contains the optional list filters.
type ListMediaInput struct {
	Authorization string `header:"Authorization"`
	Category      string `query:"category" doc:"Exact category to match"`
	Status        string `query:"status" doc:"Exact status to match"`
}

// MediaIDInput addresses a single media record.
type MediaIDInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
}

// UpdateMediaInput wraps the update media request for Huma.
type UpdateMediaInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body MediaBody
}

// MediaTagsBody is the request body for a tag-only rebind.
type MediaTagsBody struct {
	_    struct{} `json:"-" additionalProperties:"true"`
	Tags []TagRef `json:"tags" doc:"Complete new tag set; empty clears"`
}

// SetMediaTagsInput wraps the tag rebind request for Huma.
type SetMediaTagsInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body MediaTagsBody
}

// MediaOutput wraps a media record for Huma.
type MediaOutput struct {
	Body *domain.Media
}

// MediaListOutput wraps a media list for Huma.
type MediaListOutput struct {
	Body []*domain.Media
}

// === Handlers ===

func (s *Server) handleCreateMedia(ctx context.Context, input *CreateMediaInput) (*MediaOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Media.Create(ctx, user.ID, service.CreateMediaRequest{
		Name:     input.Body.Name,
		Category: input.Body.Category,
		Status:   input.Body.Status,
		Progress: input.Body.Progress,
		Rating:   input.Body.Rating,
		Tags:     input.Body.tagInputs(),
	})
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: m}, nil
}

func (s *Server) handleListMedia(ctx context.Context, input *ListMediaInput) (*MediaListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	media, err := s.services.Media.List(ctx, user.ID, domain.MediaFilter{
		Category: input.Category,
		Status:   input.Status,
	})
	if err != nil {
		return nil, err
	}

	return &MediaListOutput{Body: media}, nil
}

func (s *Server) handleGetMedia(ctx context.Context, input *MediaIDInput) (*MediaOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Media.Get(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: m}, nil
}

func (s *Server) handleUpdateMedia(ctx context.Context, input *UpdateMediaInput) (*MediaOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Media.Update(ctx, user.ID, input.ID, service.UpdateMediaRequest{
		Name:     input.Body.Name,
		Category: input.Body.Category,
		Status:   input.Body.Status,
		Progress: input.Body.Progress,
		Rating:   input.Body.Rating,
		Tags:     input.Body.tagInputs(),
	})
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: m}, nil
}

func (s *Server) handleDeleteMedia(ctx context.Context, input *MediaIDInput) (*dto.OKOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Media.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &dto.OKOutput{Body: dto.OKResponse{OK: true}}, nil
}

func (s *Server) handleSetMediaTags(ctx context.Context, input *SetMediaTagsInput) (*MediaOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(input.Body.Tags))
	for i, t := range input.Body.Tags {
		names[i] = t.Name
	}

	m, err := s.services.Media.SetTags(ctx, user.ID, input.ID, names)
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: m}, nil
}
