package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name`

func scanTag(row scanner) (*domain.Tag, error) {
	var t domain.Tag
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a tag and sets its ID.
// Returns store.ErrAlreadyExists on a duplicate name.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	err := s.queryRow(ctx, s.db,
		`INSERT INTO tag (name) VALUES (?) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		if s.isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetTagByName retrieves a tag by its canonical name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	t, err := scanTag(s.queryRow(ctx, s.db,
		`SELECT `+tagColumns+` FROM tag WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+tagColumns+` FROM tag ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindOrCreateTag finds a tag by canonical name or creates it.
// Returns (tag, created, error) where created is true if a new tag was made.
// The name must already be normalised.
func (s *Store) FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, bool, error) {
	existing, err := s.GetTagByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, false, err
	}

	t := &domain.Tag{Name: name}
	if err := s.CreateTag(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race against a concurrent insert of the same name.
			s.logger.Debug("tag insert raced, retrying lookup", "name", name)
			existing, err := s.GetTagByName(ctx, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return t, true, nil
}

// SetMediaTags replaces all tags for a media record in a single transaction.
// The order of tagIDs is preserved on read.
func (s *Store) SetMediaTags(ctx context.Context, mediaID int64, tagIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := s.queryRow(ctx, tx, `SELECT 1 FROM media WHERE id = ?`, mediaID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrMediaNotFound
		}
		if err != nil {
			return fmt.Errorf("check media: %w", err)
		}

		if _, err := s.exec(ctx, tx, `DELETE FROM mediatag_link WHERE media_id = ?`, mediaID); err != nil {
			return fmt.Errorf("clear media tags: %w", err)
		}
		return s.insertMediaTags(ctx, tx, mediaID, tagIDs)
	})
}

// GetMediaTags returns the tags bound to a media record, in bind order.
func (s *Store) GetMediaTags(ctx context.Context, mediaID int64) ([]*domain.Tag, error) {
	return s.mediaTags(ctx, s.db, mediaID)
}

func (s *Store) mediaTags(ctx context.Context, q querier, mediaID int64) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, q, `
		SELECT t.id, t.name
		FROM mediatag_link l
		JOIN tag t ON t.id = l.tag_id
		WHERE l.media_id = ?
		ORDER BY l.position`, mediaID)
	if err != nil {
		return nil, fmt.Errorf("query media tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// insertMediaTags links tags to a media record. Duplicate IDs are skipped so
// the primary key never trips.
func (s *Store) insertMediaTags(ctx context.Context, tx *sql.Tx, mediaID int64, tagIDs []int64) error {
	seen := make(map[int64]struct{}, len(tagIDs))
	position := 0
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}

		_, err := s.exec(ctx, tx, `
			INSERT INTO mediatag_link (media_id, tag_id, position)
			VALUES (?, ?, ?)`,
			mediaID, tagID, position)
		if err != nil {
			return fmt.Errorf("insert media tag: %w", err)
		}
		position++
	}
	return nil
}
