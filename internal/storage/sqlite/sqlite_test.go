package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedEvent creates an event with the given participant names.
func seedEvent(t *testing.T, store *SQLiteStore, names ...string) (*models.Event, []models.Participant) {
	t.Helper()
	ctx := context.Background()

	event := &models.Event{Title: "Ski trip"}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	var participants []models.Participant
	for _, name := range names {
		p := &models.Participant{EventID: event.ID, Name: name}
		if err := store.AddParticipant(ctx, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		participants = append(participants, *p)
	}
	return event, participants
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateEvent generates invite code", func(t *testing.T) {
		event := &models.Event{Title: "Dinner"}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if len(event.ID) != inviteCodeLength {
			t.Errorf("Expected %d letter invite code, got %q", inviteCodeLength, event.ID)
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateEvent stores initial participants", func(t *testing.T) {
		event := &models.Event{
			Title:        "Road trip",
			Participants: []models.Participant{{Name: "Carol"}, {Name: "Dan"}},
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		for _, p := range event.Participants {
			if p.ID == "" || p.EventID != event.ID {
				t.Errorf("Expected participant %q to get an ID and event %s, got %+v", p.Name, event.ID, p)
			}
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if len(got.Participants) != 2 {
			t.Fatalf("Expected 2 participants, got %d", len(got.Participants))
		}
		if got.Participants[0].Name != "Carol" || got.Participants[1].Name != "Dan" {
			t.Errorf("Unexpected participants: %+v", got.Participants)
		}
	})

	t.Run("CreateEvent writes nothing when a participant fails", func(t *testing.T) {
		event := &models.Event{
			Title:        "Half written",
			Participants: []models.Participant{{ID: "same-id", Name: "Erin"}, {ID: "same-id", Name: "Frank"}},
		}
		if err := store.CreateEvent(ctx, event); err == nil {
			t.Fatal("Expected duplicate participant IDs to fail")
		}
		if event.ID != "" {
			t.Errorf("Expected no invite code on failure, got %q", event.ID)
		}

		var events, participants int
		if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE title = ?", "Half written").Scan(&events); err != nil {
			t.Fatalf("count events: %v", err)
		}
		if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participants WHERE id = ?", "same-id").Scan(&participants); err != nil {
			t.Fatalf("count participants: %v", err)
		}
		if events != 0 || participants != 0 {
			t.Errorf("Expected rollback, found %d events and %d participants", events, participants)
		}
	})

	t.Run("GetEvent retrieves complete event", func(t *testing.T) {
		event, people := seedEvent(t, store, "Bob", "Alice")
		alice, bob := people[1], people[0]

		tag := &models.Tag{EventID: event.ID, Name: "food", Color: "#ff8800"}
		if err := store.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag failed: %v", err)
		}

		expense := &models.Expense{
			EventID:        event.ID,
			AuthorID:       alice.ID,
			Purpose:        "Groceries",
			Amount:         decimal.RequireFromString("42.10"),
			Currency:       "EUR",
			Date:           date,
			ParticipantIDs: []string{bob.ID, alice.ID},
			TagID:          tag.ID,
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		settlement := &models.Transaction{
			EventID:    event.ID,
			GiverID:    bob.ID,
			ReceiverID: alice.ID,
			Amount:     decimal.RequireFromString("21.05"),
			Currency:   "EUR",
			Date:       date.Add(time.Hour),
		}
		if err := store.CreateTransaction(ctx, settlement); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}

		if got.Title != "Ski trip" {
			t.Errorf("Title mismatch: got %s", got.Title)
		}
		if len(got.Participants) != 2 || got.Participants[0].Name != "Alice" {
			t.Errorf("Expected participants ordered by name, got %+v", got.Participants)
		}
		if len(got.Tags) != 1 || got.Tags[0].Color != "#ff8800" {
			t.Errorf("Unexpected tags: %+v", got.Tags)
		}
		if len(got.Expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(got.Expenses))
		}
		e := got.Expenses[0]
		if !e.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", e.Amount, expense.Amount)
		}
		if !e.Date.Equal(date) {
			t.Errorf("Date mismatch: got %v, want %v", e.Date, date)
		}
		if len(e.ParticipantIDs) != 2 || e.ParticipantIDs[0] != bob.ID {
			t.Errorf("Expected sharing set order to be preserved, got %v", e.ParticipantIDs)
		}
		if e.TagID != tag.ID {
			t.Errorf("TagID mismatch: got %s, want %s", e.TagID, tag.ID)
		}
		if len(got.Transactions) != 1 || !got.Transactions[0].Amount.Equal(settlement.Amount) {
			t.Errorf("Unexpected transactions: %+v", got.Transactions)
		}
	})

	t.Run("GetEvent returns ErrNotFound for nonexistent event", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "NOPE0")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateExpense replaces sharing set", func(t *testing.T) {
		event, people := seedEvent(t, store, "Alice", "Bob", "Carol")
		expense := &models.Expense{
			EventID:        event.ID,
			AuthorID:       people[0].ID,
			Purpose:        "Taxi",
			Amount:         decimal.NewFromInt(30),
			Currency:       "EUR",
			Date:           date,
			ParticipantIDs: []string{people[0].ID, people[1].ID},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expense.ParticipantIDs = []string{people[1].ID, people[2].ID}
		expense.Amount = decimal.NewFromInt(45)
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		e := got.Expenses[0]
		if !e.Amount.Equal(decimal.NewFromInt(45)) {
			t.Errorf("Amount not updated: %s", e.Amount)
		}
		if len(e.ParticipantIDs) != 2 || e.ParticipantIDs[0] != people[1].ID || e.ParticipantIDs[1] != people[2].ID {
			t.Errorf("Sharing set not replaced: %v", e.ParticipantIDs)
		}
	})

	t.Run("RemoveParticipant refuses referenced participant", func(t *testing.T) {
		event, people := seedEvent(t, store, "Alice", "Bob", "Dave")
		expense := &models.Expense{
			EventID:        event.ID,
			AuthorID:       people[0].ID,
			Purpose:        "Lunch",
			Amount:         decimal.NewFromInt(10),
			Currency:       "EUR",
			Date:           date,
			ParticipantIDs: []string{people[1].ID},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.RemoveParticipant(ctx, event.ID, people[1].ID); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
		if err := store.RemoveParticipant(ctx, event.ID, people[2].ID); err != nil {
			t.Errorf("RemoveParticipant failed: %v", err)
		}
	})

	t.Run("DeleteTag untags expenses", func(t *testing.T) {
		event, people := seedEvent(t, store, "Alice")
		tag := &models.Tag{EventID: event.ID, Name: "travel", Color: "#00ff00"}
		if err := store.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag failed: %v", err)
		}
		expense := &models.Expense{
			EventID:        event.ID,
			AuthorID:       people[0].ID,
			Purpose:        "Train",
			Amount:         decimal.NewFromInt(12),
			Currency:       "EUR",
			Date:           date,
			ParticipantIDs: []string{people[0].ID},
			TagID:          tag.ID,
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteTag(ctx, event.ID, tag.ID); err != nil {
			t.Fatalf("DeleteTag failed: %v", err)
		}
		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Expenses[0].TagID != "" {
			t.Errorf("Expected expense to be untagged, got %q", got.Expenses[0].TagID)
		}
	})

	t.Run("DeleteEvent cascades", func(t *testing.T) {
		event, people := seedEvent(t, store, "Alice", "Bob")
		expense := &models.Expense{
			EventID:        event.ID,
			AuthorID:       people[0].ID,
			Purpose:        "Hotel",
			Amount:         decimal.NewFromInt(200),
			Currency:       "EUR",
			Date:           date,
			ParticipantIDs: []string{people[0].ID, people[1].ID},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.CreateTransaction(ctx, &models.Transaction{
			EventID: event.ID, GiverID: people[1].ID, ReceiverID: people[0].ID,
			Amount: decimal.NewFromInt(100), Currency: "EUR", Date: date,
		}); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		if err := store.DeleteEvent(ctx, event.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if _, err := store.GetEvent(ctx, event.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		txs, err := store.ListTransactions(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("Expected transactions to be deleted, got %d", len(txs))
		}
	})

	t.Run("DeleteTransaction returns ErrNotFound for unknown ID", func(t *testing.T) {
		event, _ := seedEvent(t, store)
		if err := store.DeleteTransaction(ctx, event.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RenameEvent", func(t *testing.T) {
		event, _ := seedEvent(t, store)
		if err := store.RenameEvent(ctx, event.ID, "Beach trip"); err != nil {
			t.Fatalf("RenameEvent failed: %v", err)
		}
		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Title != "Beach trip" {
			t.Errorf("Title not updated: %s", got.Title)
		}
	})
}

func TestGenerateInviteCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateInviteCode()
		if len(code) != inviteCodeLength {
			t.Fatalf("generateInviteCode() = %q, want %d letters", code, inviteCodeLength)
		}
		for _, c := range code {
			if c < 'A' || c > 'Z' {
				t.Fatalf("generateInviteCode() = %q contains %q", code, c)
			}
		}
	}
}
