// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const (
	inviteCodeLength   = 5
	inviteCodeAttempts = 10
)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN
	// rather than a one-off PRAGMA.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event with a freshly generated invite code,
// together with any participants already listed on it. Either the event and
// all of its participants are written or nothing is.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := allocateInviteCode(ctx, tx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO events (id, title, created_at) VALUES (?, ?, ?)",
		code, event.Title, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	participants := make([]models.Participant, len(event.Participants))
	for i, p := range event.Participants {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.EventID = code
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (id, event_id, name) VALUES (?, ?, ?)",
			p.ID, p.EventID, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %q: %w", p.Name, err)
		}
		participants[i] = p
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}
	event.ID = code
	event.Participants = participants
	return nil
}

// allocateInviteCode picks an invite code no existing event uses.
func allocateInviteCode(ctx context.Context, tx *sql.Tx) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code := generateInviteCode()
		var taken int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", code).Scan(&taken)
		if err == sql.ErrNoRows {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to allocate an invite code after %d attempts", inviteCodeAttempts)
}

// GetEvent retrieves an event by its invite code, including participants,
// tags, expenses and transactions.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Title, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: event %s", storage.ErrNotFound, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.Participants, err = s.listParticipants(ctx, eventID); err != nil {
		return nil, err
	}
	if event.Tags, err = s.listTags(ctx, eventID); err != nil {
		return nil, err
	}
	if event.Expenses, err = s.listExpenses(ctx, eventID); err != nil {
		return nil, err
	}
	if event.Transactions, err = s.ListTransactions(ctx, eventID); err != nil {
		return nil, err
	}

	return event, nil
}

// RenameEvent changes an event's title.
func (s *SQLiteStore) RenameEvent(ctx context.Context, eventID, title string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE events SET title = ? WHERE id = ?", title, eventID)
	if err != nil {
		return fmt.Errorf("failed to rename event: %w", err)
	}
	return expectRow(res, "event", eventID)
}

// DeleteEvent removes an event; participants, expenses, transactions and
// tags are removed with it.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectRow(res, "event", eventID)
}

func (s *SQLiteStore) eventExists(ctx context.Context, eventID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", eventID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return true, nil
}

// expectRow turns a write that touched no rows into storage.ErrNotFound.
func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, kind, id)
	}
	return nil
}

// generateInviteCode returns a random code of upper-case letters.
func generateInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		code[i] = byte('A' + rand.IntN(26))
	}
	return string(code)
}
