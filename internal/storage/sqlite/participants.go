package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// AddParticipant persists a new participant.
func (s *SQLiteStore) AddParticipant(ctx context.Context, p *models.Participant) error {
	exists, err := s.eventExists(ctx, p.EventID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: event %s", storage.ErrNotFound, p.EventID)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO participants (id, event_id, name) VALUES (?, ?, ?)",
		p.ID, p.EventID, p.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// UpdateParticipant renames a participant.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ? WHERE id = ? AND event_id = ?",
		p.Name, p.ID, p.EventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return expectRow(res, "participant", p.ID)
}

// RemoveParticipant deletes a participant that no expense or transaction
// references.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, eventID, participantID string) error {
	var refs int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM expenses WHERE author_id = ?) +
			(SELECT COUNT(*) FROM expense_participants WHERE participant_id = ?) +
			(SELECT COUNT(*) FROM transactions WHERE giver_id = ? OR receiver_id = ?)`,
		participantID, participantID, participantID, participantID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count participant references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: participant %s is referenced by %d expenses or transactions", storage.ErrConflict, participantID, refs)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND event_id = ?",
		participantID, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return expectRow(res, "participant", participantID)
}

func (s *SQLiteStore) listParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_id, name FROM participants WHERE event_id = ? ORDER BY name, id",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
