package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateExpense persists a new expense and its sharing set.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, author_id, purpose, amount, currency, date, tag_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.AuthorID, expense.Purpose,
		expense.Amount, expense.Currency, expense.Date.Unix(), nullable(expense.TagID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSharers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces an existing expense and its sharing set.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET author_id = ?, purpose = ?, amount = ?, currency = ?, date = ?, tag_id = ?
		 WHERE id = ? AND event_id = ?`,
		expense.AuthorID, expense.Purpose, expense.Amount, expense.Currency,
		expense.Date.Unix(), nullable(expense.TagID), expense.ID, expense.EventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := expectRow(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense participants: %w", err)
	}
	if err := insertSharers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, eventID, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND event_id = ?", expenseID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return expectRow(res, "expense", expenseID)
}

func insertSharers(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, participantID := range expense.ParticipantIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, participant_id, position) VALUES (?, ?, ?)",
			expense.ID, participantID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, eventID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, author_id, purpose, amount, currency, date, tag_id
		 FROM expenses WHERE event_id = ? ORDER BY date, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var (
			e     models.Expense
			date  int64
			tagID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.AuthorID, &e.Purpose, &e.Amount, &e.Currency, &date, &tagID); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date = time.Unix(date, 0).UTC()
		if tagID.Valid {
			e.TagID = tagID.String
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Load all sharing sets of the event in one query
	shareRows, err := s.db.QueryContext(ctx,
		`SELECT ep.expense_id, ep.participant_id
		 FROM expense_participants ep JOIN expenses e ON e.id = ep.expense_id
		 WHERE e.event_id = ? ORDER BY ep.expense_id, ep.position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, participantID string
		if err := shareRows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan expense participant: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].ParticipantIDs = append(expenses[i].ParticipantIDs, participantID)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense participants: %w", err)
	}

	return expenses, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
