package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keepupapp/keepup-server/internal/domain"
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/metrics"
	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/util"
)

// TagService maintains the global tag dictionary. Tags have no owner and
// are never deleted; every path that turns user input into a tag goes
// through util.NormalizeTagName.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// List returns the whole dictionary ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// ResolveOrCreate normalises raw and returns the matching tag, creating it
// on first use. The bool reports whether a new tag was made.
func (s *TagService) ResolveOrCreate(ctx context.Context, raw string) (*domain.Tag, bool, error) {
	name := util.NormalizeTagName(raw)
	if name == "" {
		return nil, false, domainerrors.Validationf("tag name %q is empty after normalization", raw)
	}
	if util.TagNameTooLong(name) {
		return nil, false, domainerrors.Validationf("tag name exceeds %d characters", util.MaxTagNameLength)
	}

	tag, created, err := s.store.FindOrCreateTag(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("find or create tag: %w", err)
	}

	metrics.RecordTagResolution(created)
	if created {
		s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)
	}

	return tag, created, nil
}

// ResolveAll resolves every name, dropping names that normalise to a tag
// already in the result. First-seen order is kept.
func (s *TagService) ResolveAll(ctx context.Context, names []string) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(names))
	seen := make(map[int64]struct{}, len(names))

	for _, raw := range names {
		tag, _, err := s.ResolveOrCreate(ctx, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		tags = append(tags, tag)
	}

	return tags, nil
}

// Rebind replaces the media's tag set with exactly the resolved names.
// Tags that lose their last reference stay in the dictionary.
func (s *TagService) Rebind(ctx context.Context, mediaID int64, names []string) ([]*domain.Tag, error) {
	tags, err := s.ResolveAll(ctx, names)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}

	if err := s.store.SetMediaTags(ctx, mediaID, ids); err != nil {
		return nil, fmt.Errorf("set media tags: %w", err)
	}

	s.logger.Debug("media tags rebound", "media_id", mediaID, "tags", len(tags))
	return tags, nil
}
