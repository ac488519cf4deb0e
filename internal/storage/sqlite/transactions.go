package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateTransaction persists a new settlement to the database.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	// Generate ID if not set
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC().Truncate(time.Second)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, event_id, giver_id, receiver_id, amount, currency, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.EventID, t.GiverID, t.ReceiverID, t.Amount, t.Currency, t.Date.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactions retrieves all settlements for an event, oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, eventID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, giver_id, receiver_id, amount, currency, date
		 FROM transactions WHERE event_id = ? ORDER BY date, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			t    models.Transaction
			date int64
		)
		if err := rows.Scan(&t.ID, &t.EventID, &t.GiverID, &t.ReceiverID, &t.Amount, &t.Currency, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = time.Unix(date, 0).UTC()
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// DeleteTransaction removes a settlement by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, eventID, transactionID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND event_id = ?",
		transactionID, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectRow(res, "transaction", transactionID)
}
