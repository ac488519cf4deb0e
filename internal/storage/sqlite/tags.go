package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateTag persists a new expense category.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tags (id, event_id, name, color) VALUES (?, ?, ?, ?)",
		tag.ID, tag.EventID, tag.Name, tag.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag; expenses filed under it become untagged.
func (s *SQLiteStore) DeleteTag(ctx context.Context, eventID, tagID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ? AND event_id = ?", tagID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return expectRow(res, "tag", tagID)
}

func (s *SQLiteStore) listTags(ctx context.Context, eventID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_id, name, color FROM tags WHERE event_id = ? ORDER BY name, id",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}
