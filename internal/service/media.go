package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keepupapp/keepup-server/internal/domain"
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/validation"
)

// MediaService manages owner-scoped media records and their tag bindings.
type MediaService struct {
	store     store.Store
	tags      *TagService
	validator *validation.Validator
	policy    OwnershipPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// NewMediaService creates a new media service.
func NewMediaService(
	store store.Store,
	tags *TagService,
	validator *validation.Validator,
	policy OwnershipPolicy,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		store:     store,
		tags:      tags,
		validator: validator,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// TagInput is a tag reference in a request body. Only the name matters.
type TagInput struct {
	Name string `json:"name" validate:"required,max=256,tagname,tagmaxlen"`
}

// CreateMediaRequest contains the fields for a new media record.
type CreateMediaRequest struct {
	Name     string     `json:"name" validate:"required,max=500"`
	Category string     `json:"category" validate:"required,max=100"`
	Status   string     `json:"status" validate:"required,max=100"`
	Progress int        `json:"progress" validate:"gte=0"`
	Rating   *int       `json:"rating,omitempty"`
	Tags     []TagInput `json:"tags,omitempty" validate:"dive"`
}

// UpdateMediaRequest replaces the mutable fields. Tags is optional: nil
// keeps the current set, an empty slice removes every tag.
type UpdateMediaRequest struct {
	Name     string     `json:"name" validate:"required,max=500"`
	Category string     `json:"category" validate:"required,max=100"`
	Status   string     `json:"status" validate:"required,max=100"`
	Progress int        `json:"progress" validate:"gte=0"`
	Rating   *int       `json:"rating,omitempty"`
	Tags     []TagInput `json:"tags,omitempty" validate:"dive"`
}

func tagInputNames(in []TagInput) []string {
	names := make([]string, len(in))
	for i, t := range in {
		names[i] = t.Name
	}
	return names
}

func validateRating(rating *int) error {
	if err := domain.ValidateRating(rating); err != nil {
		return domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"rating": fmt.Sprintf("must be between %d and %d", domain.RatingMin, domain.RatingMax),
		})
	}
	return nil
}

// Create stores a media record for ownerID, resolving its tags first.
func (s *MediaService) Create(ctx context.Context, ownerID int64, req CreateMediaRequest) (*domain.Media, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	tags, err := s.tags.ResolveAll(ctx, tagInputNames(req.Tags))
	if err != nil {
		return nil, err
	}

	m := &domain.Media{
		Name:       req.Name,
		Category:   req.Category,
		Status:     req.Status,
		Progress:   req.Progress,
		Rating:     req.Rating,
		LastEdited: s.now(),
		OwnerID:    ownerID,
		Tags:       tags,
	}

	if err := s.store.CreateMedia(ctx, m); err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}

	s.logger.Info("media created",
		"user_id", ownerID,
		"media_id", m.ID,
		"tags", len(m.Tags),
	)
	return m, nil
}

// List returns the caller's media, optionally narrowed by category and status.
func (s *MediaService) List(ctx context.Context, ownerID int64, filter domain.MediaFilter) ([]*domain.Media, error) {
	return s.store.ListMediaByOwner(ctx, ownerID, filter)
}

// Get returns one of the caller's media records with tags.
func (s *MediaService) Get(ctx context.Context, ownerID, mediaID int64) (*domain.Media, error) {
	return s.load(ctx, ownerID, mediaID)
}

// Update replaces the mutable fields of a media record. last_edited only
// moves when progress changes.
func (s *MediaService) Update(ctx context.Context, ownerID, mediaID int64, req UpdateMediaRequest) (*domain.Media, error) {
	m, err := s.load(ctx, ownerID, mediaID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	replaceTags := req.Tags != nil
	if replaceTags {
		m.Tags, err = s.tags.ResolveAll(ctx, tagInputNames(req.Tags))
		if err != nil {
			return nil, err
		}
	}

	progressChanged := m.Apply(domain.MediaChanges{
		Name:     req.Name,
		Category: req.Category,
		Status:   req.Status,
		Progress: req.Progress,
		Rating:   req.Rating,
	}, s.now())

	if err := s.store.UpdateMedia(ctx, m, replaceTags); err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return nil, s.policy.check(false, 0, ownerID, "Media")
		}
		return nil, fmt.Errorf("update media: %w", err)
	}

	s.logger.Info("media updated",
		"user_id", ownerID,
		"media_id", m.ID,
		"progress_changed", progressChanged,
		"tags_replaced", replaceTags,
	)
	return m, nil
}

// SetTags replaces the media's tags with exactly names. Progress and
// last_edited are untouched.
func (s *MediaService) SetTags(ctx context.Context, ownerID, mediaID int64, names []string) (*domain.Media, error) {
	m, err := s.load(ctx, ownerID, mediaID)
	if err != nil {
		return nil, err
	}

	m.Tags, err = s.tags.Rebind(ctx, mediaID, names)
	if err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return nil, s.policy.check(false, 0, ownerID, "Media")
		}
		return nil, err
	}

	s.logger.Info("media tags replaced", "user_id", ownerID, "media_id", mediaID, "tags", len(m.Tags))
	return m, nil
}

// Delete removes one of the caller's media records and its tag links. The
// tags themselves stay in the dictionary.
func (s *MediaService) Delete(ctx context.Context, ownerID, mediaID int64) error {
	if _, err := s.load(ctx, ownerID, mediaID); err != nil {
		return err
	}

	if err := s.store.DeleteMedia(ctx, mediaID); err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return s.policy.check(false, 0, ownerID, "Media")
		}
		return fmt.Errorf("delete media: %w", err)
	}

	s.logger.Info("media deleted", "user_id", ownerID, "media_id", mediaID)
	return nil
}

func (s *MediaService) load(ctx context.Context, callerID, mediaID int64) (*domain.Media, error) {
	m, err := s.store.GetMedia(ctx, mediaID)
	if err != nil && !errors.Is(err, store.ErrMediaNotFound) {
		return nil, fmt.Errorf("get media: %w", err)
	}

	var ownerID int64
	if m != nil {
		ownerID = m.OwnerID
	}
	if err := s.policy.check(m != nil, ownerID, callerID, "Media"); err != nil {
		return nil, err
	}
	return m, nil
}
