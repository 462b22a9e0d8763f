package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
)

// mediaColumns must match the scan order in scanMedia.
const mediaColumns = `id, name, category, status, progress, rating, last_edited, user_id`

func scanMedia(row scanner) (*domain.Media, error) {
	var (
		m      domain.Media
		rating sql.NullInt64
	)
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Category,
		&m.Status,
		&m.Progress,
		&rating,
		timeValue{&m.LastEdited},
		&m.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	m.Rating = intPtr(rating)
	m.Tags = []*domain.Tag{}
	return &m, nil
}

// CreateMedia inserts a media row and links m.Tags in one transaction.
// The tags must already exist.
func (s *Store) CreateMedia(ctx context.Context, m *domain.Media) error {
	m.LastEdited = normalizeTime(m.LastEdited)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := s.queryRow(ctx, tx, `
			INSERT INTO media (name, category, status, progress, rating, last_edited, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			m.Name,
			m.Category,
			m.Status,
			m.Progress,
			nullableInt(m.Rating),
			s.timeArg(m.LastEdited),
			m.OwnerID,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}

		return s.insertMediaTags(ctx, tx, m.ID, tagIDs(m.Tags))
	})
}

// GetMedia retrieves a media record with its tags, regardless of owner.
func (s *Store) GetMedia(ctx context.Context, id int64) (*domain.Media, error) {
	m, err := scanMedia(s.queryRow(ctx, s.db,
		`SELECT `+mediaColumns+` FROM media WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}

	m.Tags, err = s.mediaTags(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMediaByOwner returns a user's media in insertion order, each with its
// tags. Empty filter fields match everything.
func (s *Store) ListMediaByOwner(ctx context.Context, ownerID int64, filter domain.MediaFilter) ([]*domain.Media, error) {
	where := []string{"user_id = ?"}
	args := []any{ownerID}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	rows, err := s.query(ctx, s.db,
		`SELECT `+mediaColumns+` FROM media WHERE `+strings.Join(where, " AND ")+` ORDER BY id ASC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items := []*domain.Media{}
	byID := make(map[int64]*domain.Media)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	// One query for every tag of this owner's media.
	tagRows, err := s.query(ctx, s.db, `
		SELECT l.media_id, t.id, t.name
		FROM mediatag_link l
		JOIN tag t ON t.id = l.tag_id
		JOIN media m ON m.id = l.media_id
		WHERE m.user_id = ?
		ORDER BY l.media_id, l.position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list media tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var (
			mediaID int64
			t       domain.Tag
		)
		if err := tagRows.Scan(&mediaID, &t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan media tag: %w", err)
		}
		// Filtered-out media are not in the map.
		if m, ok := byID[mediaID]; ok {
			m.Tags = append(m.Tags, &t)
		}
	}
	return items, tagRows.Err()
}

// UpdateMedia writes the mutable media fields. When replaceTags is true the
// tag links are replaced with m.Tags in the same transaction.
func (s *Store) UpdateMedia(ctx context.Context, m *domain.Media, replaceTags bool) error {
	m.LastEdited = normalizeTime(m.LastEdited)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `
			UPDATE media
			SET name = ?, category = ?, status = ?, progress = ?, rating = ?, last_edited = ?
			WHERE id = ?`,
			m.Name,
			m.Category,
			m.Status,
			m.Progress,
			nullableInt(m.Rating),
			s.timeArg(m.LastEdited),
			m.ID,
		)
		if err != nil {
			return fmt.Errorf("update media: %w", err)
		}
		if err := expectOneRow(res, store.ErrMediaNotFound); err != nil {
			return err
		}

		if !replaceTags {
			return nil
		}
		if _, err := s.exec(ctx, tx, `DELETE FROM mediatag_link WHERE media_id = ?`, m.ID); err != nil {
			return fmt.Errorf("clear media tags: %w", err)
		}
		return s.insertMediaTags(ctx, tx, m.ID, tagIDs(m.Tags))
	})
}

// DeleteMedia removes a media record and its tag links. Tags themselves stay.
func (s *Store) DeleteMedia(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, `DELETE FROM mediatag_link WHERE media_id = ?`, id); err != nil {
			return fmt.Errorf("delete media tags: %w", err)
		}
		res, err := s.exec(ctx, tx, `DELETE FROM media WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		return expectOneRow(res, store.ErrMediaNotFound)
	})
}

func tagIDs(tags []*domain.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
