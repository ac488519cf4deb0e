// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would break a reference, e.g.
	// removing a participant that still has expenses.
	ErrConflict = errors.New("conflict")
)

// Store defines the interface for event storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateEvent persists a new event and the participants listed on it in
	// a single transaction. The store assigns the invite code (event.ID),
	// CreatedAt and any missing participant IDs.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event with all its participants, expenses,
	// transactions and tags.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// RenameEvent changes the title of an event.
	RenameEvent(ctx context.Context, eventID, title string) error

	// DeleteEvent removes an event and everything it owns.
	DeleteEvent(ctx context.Context, eventID string) error

	// AddParticipant persists a new participant. participant.ID is assigned
	// by the store when empty.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// UpdateParticipant changes the display name of a participant.
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant deletes a participant. It fails with ErrConflict
	// while expenses or transactions still reference them.
	RemoveParticipant(ctx context.Context, eventID, participantID string) error

	// CreateExpense persists a new expense with its sharing set.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense replaces an existing expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense.
	DeleteExpense(ctx context.Context, eventID, expenseID string) error

	// CreateTransaction records a settlement payment.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a recorded settlement.
	DeleteTransaction(ctx context.Context, eventID, transactionID string) error

	// ListTransactions returns the recorded settlements of an event,
	// oldest first.
	ListTransactions(ctx context.Context, eventID string) ([]models.Transaction, error)

	// CreateTag persists a new expense category.
	CreateTag(ctx context.Context, tag *models.Tag) error

	// DeleteTag removes a tag. Expenses filed under it become untagged.
	DeleteTag(ctx context.Context, eventID, tagID string) error

	// Close releases any resources held by the store.
	Close() error
}
