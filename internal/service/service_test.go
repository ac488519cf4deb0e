package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/debts"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// testClients bundles the clients of a running test server.
type testClients struct {
	events apiconnect.EventServiceClient
	debts  apiconnect.DebtServiceClient
}

// setupTestServer starts both services against a temp database. Expenses
// can be in EUR or USD (1 USD = 0.5 EUR); other currencies have no rate.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	bus := notify.NewBus()
	conv := currency.NewConverter(currency.FixedSource{"USD>EUR": 0.5}, time.Hour)
	engine := debts.Engine{Converter: conv, DisplayCurrency: "EUR"}
	registry := debts.NewRegistry(bus, store, engine, debts.WithTimeout(5*time.Second))

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(nil))
	eventPath, eventHandler := apiconnect.NewEventServiceHandler(NewEventService(store, bus), interceptors)
	debtPath, debtHandler := apiconnect.NewDebtServiceHandler(NewDebtService(store, bus, registry), interceptors)

	mux := http.NewServeMux()
	mux.Handle(eventPath, eventHandler)
	mux.Handle(debtPath, debtHandler)

	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return testClients{
		events: apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		debts:  apiconnect.NewDebtServiceClient(http.DefaultClient, server.URL),
	}
}

// createEvent creates an event and returns it with participant IDs by name.
func createEvent(t *testing.T, c testClients, names ...string) (*api.Event, map[string]string) {
	t.Helper()

	resp, err := c.events.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Title:        "Ski trip",
		Participants: names,
	}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	ids := make(map[string]string, len(names))
	for _, p := range resp.Msg.Event.Participants {
		ids[p.Name] = p.Id
	}
	return resp.Msg.Event, ids
}

func addExpense(t *testing.T, c testClients, eventID, authorID, amount, code string, sharers ...string) *api.Expense {
	t.Helper()

	resp, err := c.events.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventId:        eventID,
		AuthorId:       authorID,
		Purpose:        "Groceries",
		Amount:         amount,
		Currency:       code,
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix(),
		ParticipantIds: sharers,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 0.01 && d > -0.01
}
