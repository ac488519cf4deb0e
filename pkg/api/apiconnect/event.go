package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService.
const EventServiceName = "settleup.v1.EventService"

// Procedure paths of the EventService.
const (
	EventServiceCreateEventProcedure       = "/settleup.v1.EventService/CreateEvent"
	EventServiceGetEventProcedure          = "/settleup.v1.EventService/GetEvent"
	EventServiceRenameEventProcedure       = "/settleup.v1.EventService/RenameEvent"
	EventServiceDeleteEventProcedure       = "/settleup.v1.EventService/DeleteEvent"
	EventServiceAddParticipantProcedure    = "/settleup.v1.EventService/AddParticipant"
	EventServiceUpdateParticipantProcedure = "/settleup.v1.EventService/UpdateParticipant"
	EventServiceRemoveParticipantProcedure = "/settleup.v1.EventService/RemoveParticipant"
	EventServiceAddExpenseProcedure        = "/settleup.v1.EventService/AddExpense"
	EventServiceUpdateExpenseProcedure     = "/settleup.v1.EventService/UpdateExpense"
	EventServiceRemoveExpenseProcedure     = "/settleup.v1.EventService/RemoveExpense"
	EventServiceAddTagProcedure            = "/settleup.v1.EventService/AddTag"
	EventServiceRemoveTagProcedure         = "/settleup.v1.EventService/RemoveTag"
)

// EventServiceHandler is implemented by the server side of the EventService, which
// manages events and what they own.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	RenameEvent(context.Context, *connect.Request[api.RenameEventRequest]) (*connect.Response[api.RenameEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	AddTag(context.Context, *connect.Request[api.AddTagRequest]) (*connect.Response[api.AddTagResponse], error)
	RemoveTag(context.Context, *connect.Request[api.RemoveTagRequest]) (*connect.Response[api.RemoveTagResponse], error)
}

// NewEventServiceHandler builds an HTTP handler serving every EventService procedure.
// It returns the path prefix to mount it on.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	createEvent := connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...)
	getEvent := connect.NewUnaryHandler(EventServiceGetEventProcedure, svc.GetEvent, opts...)
	renameEvent := connect.NewUnaryHandler(EventServiceRenameEventProcedure, svc.RenameEvent, opts...)
	deleteEvent := connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...)
	addParticipant := connect.NewUnaryHandler(EventServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	updateParticipant := connect.NewUnaryHandler(EventServiceUpdateParticipantProcedure, svc.UpdateParticipant, opts...)
	removeParticipant := connect.NewUnaryHandler(EventServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...)
	addExpense := connect.NewUnaryHandler(EventServiceAddExpenseProcedure, svc.AddExpense, opts...)
	updateExpense := connect.NewUnaryHandler(EventServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	removeExpense := connect.NewUnaryHandler(EventServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...)
	addTag := connect.NewUnaryHandler(EventServiceAddTagProcedure, svc.AddTag, opts...)
	removeTag := connect.NewUnaryHandler(EventServiceRemoveTagProcedure, svc.RemoveTag, opts...)

	return "/settleup.v1.EventService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EventServiceCreateEventProcedure:
			createEvent.ServeHTTP(w, r)
		case EventServiceGetEventProcedure:
			getEvent.ServeHTTP(w, r)
		case EventServiceRenameEventProcedure:
			renameEvent.ServeHTTP(w, r)
		case EventServiceDeleteEventProcedure:
			deleteEvent.ServeHTTP(w, r)
		case EventServiceAddParticipantProcedure:
			addParticipant.ServeHTTP(w, r)
		case EventServiceUpdateParticipantProcedure:
			updateParticipant.ServeHTTP(w, r)
		case EventServiceRemoveParticipantProcedure:
			removeParticipant.ServeHTTP(w, r)
		case EventServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case EventServiceUpdateExpenseProcedure:
			updateExpense.ServeHTTP(w, r)
		case EventServiceRemoveExpenseProcedure:
			removeExpense.ServeHTTP(w, r)
		case EventServiceAddTagProcedure:
			addTag.ServeHTTP(w, r)
		case EventServiceRemoveTagProcedure:
			removeTag.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// EventServiceClient is a client for the EventService.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	RenameEvent(context.Context, *connect.Request[api.RenameEventRequest]) (*connect.Response[api.RenameEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	AddTag(context.Context, *connect.Request[api.AddTagRequest]) (*connect.Response[api.AddTagResponse], error)
	RemoveTag(context.Context, *connect.Request[api.RemoveTagRequest]) (*connect.Response[api.RemoveTagResponse], error)
}

// NewEventServiceClient creates a client for the EventService at baseURL, e.g.
// "http://localhost:8080".
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &eventServiceClient{
		createEvent:       connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		getEvent:          connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+EventServiceGetEventProcedure, opts...),
		renameEvent:       connect.NewClient[api.RenameEventRequest, api.RenameEventResponse](httpClient, baseURL+EventServiceRenameEventProcedure, opts...),
		deleteEvent:       connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+EventServiceAddParticipantProcedure, opts...),
		updateParticipant: connect.NewClient[api.UpdateParticipantRequest, api.UpdateParticipantResponse](httpClient, baseURL+EventServiceUpdateParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+EventServiceRemoveParticipantProcedure, opts...),
		addExpense:        connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+EventServiceAddExpenseProcedure, opts...),
		updateExpense:     connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+EventServiceUpdateExpenseProcedure, opts...),
		removeExpense:     connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](httpClient, baseURL+EventServiceRemoveExpenseProcedure, opts...),
		addTag:            connect.NewClient[api.AddTagRequest, api.AddTagResponse](httpClient, baseURL+EventServiceAddTagProcedure, opts...),
		removeTag:         connect.NewClient[api.RemoveTagRequest, api.RemoveTagResponse](httpClient, baseURL+EventServiceRemoveTagProcedure, opts...),
	}
}

type eventServiceClient struct {
	createEvent       *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent          *connect.Client[api.GetEventRequest, api.GetEventResponse]
	renameEvent       *connect.Client[api.RenameEventRequest, api.RenameEventResponse]
	deleteEvent       *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	updateParticipant *connect.Client[api.UpdateParticipantRequest, api.UpdateParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	updateExpense     *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	removeExpense     *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	addTag            *connect.Client[api.AddTagRequest, api.AddTagResponse]
	removeTag         *connect.Client[api.RemoveTagRequest, api.RemoveTagResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) RenameEvent(ctx context.Context, req *connect.Request[api.RenameEventRequest]) (*connect.Response[api.RenameEventResponse], error) {
	return c.renameEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	return c.updateParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *eventServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddTag(ctx context.Context, req *connect.Request[api.AddTagRequest]) (*connect.Response[api.AddTagResponse], error) {
	return c.addTag.CallUnary(ctx, req)
}

func (c *eventServiceClient) RemoveTag(ctx context.Context, req *connect.Request[api.RemoveTagRequest]) (*connect.Response[api.RemoveTagResponse], error) {
	return c.removeTag.CallUnary(ctx, req)
}
