package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// EventService implements the Connect EventService
type EventService struct {
	store storage.Store
	bus   *notify.Bus
}

// NewEventService creates a new EventService. Every successful write is
// published on bus after it has been stored.
func NewEventService(store storage.Store, bus *notify.Bus) *EventService {
	return &EventService{store: store, bus: bus}
}

// publish notifies subscribers of a stored change. Subscribers run to
// completion even if the request is cancelled meanwhile.
func (s *EventService) publish(ctx context.Context, eventID string, kind notify.Kind, entityID string) {
	s.bus.Publish(context.WithoutCancel(ctx), notify.Change{EventID: eventID, Kind: kind, EntityID: entityID})
}

// loadEvent fetches an event, mapping errors to Connect codes.
func loadEvent(ctx context.Context, store storage.Store, eventID string) (*models.Event, error) {
	if eventID == "" {
		return nil, invalidArgument("event_id required")
	}
	ev, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return ev, nil
}

// CreateEvent creates an event with its initial participants.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	slog.Info("CreateEvent request received",
		"title", req.Msg.Title,
		"participants_count", len(req.Msg.Participants),
	)

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, invalidArgument("title required")
	}
	for _, name := range req.Msg.Participants {
		if strings.TrimSpace(name) == "" {
			return nil, invalidArgument("participant names must not be empty")
		}
	}

	event := &models.Event{Title: title}
	for _, name := range req.Msg.Participants {
		event.Participants = append(event.Participants, models.Participant{Name: strings.TrimSpace(name)})
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "participants", len(event.Participants), "error", err)
		return nil, toConnectError(err)
	}

	created, err := loadEvent(ctx, s.store, event.ID)
	if err != nil {
		slog.Error("Failed to fetch created event", "event_id", event.ID, "error", err)
		return nil, err
	}

	slog.Info("Event created", "event_id", created.ID, "participants_count", len(created.Participants))

	return connect.NewResponse(&api.CreateEventResponse{Event: toAPIEvent(created)}), nil
}

// GetEvent retrieves an event with everything it owns.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	slog.Info("GetEvent request received", "event_id", req.Msg.EventId)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventId, "error", err)
		return nil, err
	}

	slog.Info("GetEvent successful",
		"event_id", ev.ID,
		"expenses_count", len(ev.Expenses),
		"transactions_count", len(ev.Transactions),
	)

	return connect.NewResponse(&api.GetEventResponse{Event: toAPIEvent(ev)}), nil
}

// RenameEvent changes the title of an event.
func (s *EventService) RenameEvent(ctx context.Context, req *connect.Request[api.RenameEventRequest]) (*connect.Response[api.RenameEventResponse], error) {
	slog.Info("RenameEvent request received", "event_id", req.Msg.EventId, "title", req.Msg.Title)

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, invalidArgument("title required")
	}

	if err := s.store.RenameEvent(ctx, req.Msg.EventId, title); err != nil {
		slog.Error("RenameEvent failed", "event_id", req.Msg.EventId, "error", err)
		return nil, toConnectError(err)
	}

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}

	slog.Info("Event renamed", "event_id", ev.ID)

	return connect.NewResponse(&api.RenameEventResponse{Event: toAPIEvent(ev)}), nil
}

// DeleteEvent removes an event and everything it owns.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	slog.Info("DeleteEvent request received", "event_id", req.Msg.EventId)

	if err := s.store.DeleteEvent(ctx, req.Msg.EventId); err != nil {
		slog.Error("DeleteEvent failed", "event_id", req.Msg.EventId, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, req.Msg.EventId, notify.EventDeleted, req.Msg.EventId)

	slog.Info("Event deleted", "event_id", req.Msg.EventId)

	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// AddParticipant adds a participant to an event.
func (s *EventService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "event_id", req.Msg.EventId, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	p := &models.Participant{EventID: req.Msg.EventId, Name: name}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		slog.Error("AddParticipant failed", "event_id", req.Msg.EventId, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, p.EventID, notify.ParticipantAdded, p.ID)

	slog.Info("Participant added", "event_id", p.EventID, "participant_id", p.ID)

	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(*p)}), nil
}

// UpdateParticipant renames a participant.
func (s *EventService) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	slog.Info("UpdateParticipant request received",
		"event_id", req.Msg.EventId,
		"participant_id", req.Msg.ParticipantId,
		"name", req.Msg.Name,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	p := &models.Participant{ID: req.Msg.ParticipantId, EventID: req.Msg.EventId, Name: name}
	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		slog.Error("UpdateParticipant failed", "participant_id", p.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, p.EventID, notify.ParticipantUpdated, p.ID)

	slog.Info("Participant updated", "event_id", p.EventID, "participant_id", p.ID)

	return connect.NewResponse(&api.UpdateParticipantResponse{Participant: toAPIParticipant(*p)}), nil
}

// RemoveParticipant removes a participant nobody's expenses or settlements
// refer to.
func (s *EventService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"event_id", req.Msg.EventId,
		"participant_id", req.Msg.ParticipantId,
	)

	if err := s.store.RemoveParticipant(ctx, req.Msg.EventId, req.Msg.ParticipantId); err != nil {
		slog.Warn("RemoveParticipant failed", "participant_id", req.Msg.ParticipantId, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, req.Msg.EventId, notify.ParticipantRemoved, req.Msg.ParticipantId)

	slog.Info("Participant removed", "event_id", req.Msg.EventId, "participant_id", req.Msg.ParticipantId)

	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// AddExpense records money spent by one participant for others.
func (s *EventService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"event_id", req.Msg.EventId,
		"author_id", req.Msg.AuthorId,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
		"participants_count", len(req.Msg.ParticipantIds),
	)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(ev, expenseInput{
		AuthorID:       req.Msg.AuthorId,
		Purpose:        req.Msg.Purpose,
		Amount:         req.Msg.Amount,
		Currency:       req.Msg.Currency,
		Date:           req.Msg.Date,
		ParticipantIDs: req.Msg.ParticipantIds,
		TagID:          req.Msg.TagId,
	})
	if err != nil {
		slog.Warn("AddExpense rejected", "event_id", ev.ID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, ev.ID, notify.ExpenseAdded, expense.ID)

	slog.Info("Expense added", "event_id", ev.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(*expense)}), nil
}

// UpdateExpense replaces an expense.
func (s *EventService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"event_id", req.Msg.EventId,
		"expense_id", req.Msg.ExpenseId,
	)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}
	if !hasExpense(ev, req.Msg.ExpenseId) {
		return nil, toConnectError(storage.ErrNotFound)
	}

	expense, err := buildExpense(ev, expenseInput{
		AuthorID:       req.Msg.AuthorId,
		Purpose:        req.Msg.Purpose,
		Amount:         req.Msg.Amount,
		Currency:       req.Msg.Currency,
		Date:           req.Msg.Date,
		ParticipantIDs: req.Msg.ParticipantIds,
		TagID:          req.Msg.TagId,
	})
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", req.Msg.ExpenseId, "error", err)
		return nil, err
	}
	expense.ID = req.Msg.ExpenseId

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, ev.ID, notify.ExpenseUpdated, expense.ID)

	slog.Info("Expense updated", "event_id", ev.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(*expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *EventService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "event_id", req.Msg.EventId, "expense_id", req.Msg.ExpenseId)

	if err := s.store.DeleteExpense(ctx, req.Msg.EventId, req.Msg.ExpenseId); err != nil {
		slog.Error("RemoveExpense failed", "expense_id", req.Msg.ExpenseId, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, req.Msg.EventId, notify.ExpenseRemoved, req.Msg.ExpenseId)

	slog.Info("Expense removed", "event_id", req.Msg.EventId, "expense_id", req.Msg.ExpenseId)

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// AddTag creates an expense category.
func (s *EventService) AddTag(ctx context.Context, req *connect.Request[api.AddTagRequest]) (*connect.Response[api.AddTagResponse], error) {
	slog.Info("AddTag request received", "event_id", req.Msg.EventId, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	if _, err := loadEvent(ctx, s.store, req.Msg.EventId); err != nil {
		return nil, err
	}

	tag := &models.Tag{EventID: req.Msg.EventId, Name: name, Color: req.Msg.Color}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		slog.Error("AddTag failed", "event_id", tag.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Tag added", "event_id", tag.EventID, "tag_id", tag.ID)

	return connect.NewResponse(&api.AddTagResponse{Tag: toAPITag(*tag)}), nil
}

// RemoveTag deletes a tag. Its expenses become untagged.
func (s *EventService) RemoveTag(ctx context.Context, req *connect.Request[api.RemoveTagRequest]) (*connect.Response[api.RemoveTagResponse], error) {
	slog.Info("RemoveTag request received", "event_id", req.Msg.EventId, "tag_id", req.Msg.TagId)

	if err := s.store.DeleteTag(ctx, req.Msg.EventId, req.Msg.TagId); err != nil {
		slog.Error("RemoveTag failed", "tag_id", req.Msg.TagId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Tag removed", "event_id", req.Msg.EventId, "tag_id", req.Msg.TagId)

	return connect.NewResponse(&api.RemoveTagResponse{}), nil
}
