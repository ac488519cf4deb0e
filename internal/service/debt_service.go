package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/debts"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// DebtService implements the Connect DebtService
type DebtService struct {
	store    storage.Store
	bus      *notify.Bus
	registry *debts.Registry
	engine   debts.Engine
}

// NewDebtService creates a new DebtService. Views are served from registry;
// settlements recorded here are published on bus.
func NewDebtService(store storage.Store, bus *notify.Bus, registry *debts.Registry) *DebtService {
	return &DebtService{
		store:    store,
		bus:      bus,
		registry: registry,
		engine:   registry.Engine(),
	}
}

func (s *DebtService) publish(ctx context.Context, eventID string, kind notify.Kind, entityID string) {
	s.bus.Publish(context.WithoutCancel(ctx), notify.Change{EventID: eventID, Kind: kind, EntityID: entityID})
}

// ComputeOpenDebts runs the settlement engine on the current state of an
// event without touching its debt view.
func (s *DebtService) ComputeOpenDebts(ctx context.Context, req *connect.Request[api.ComputeOpenDebtsRequest]) (*connect.Response[api.ComputeOpenDebtsResponse], error) {
	slog.Info("ComputeOpenDebts request received", "event_id", req.Msg.EventId)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.ComputeOpenDebts(ctx, ev)
	if err != nil {
		slog.Error("ComputeOpenDebts failed - calculation error", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ComputeOpenDebts successful",
		"event_id", ev.ID,
		"expenses_count", len(ev.Expenses),
		"transactions_count", len(ev.Transactions),
		"transfers_count", len(res.Plan),
	)

	return connect.NewResponse(&api.ComputeOpenDebtsResponse{
		Currency: s.engine.DisplayCurrency,
		Total:    cents(res.Total),
		Plan:     toAPIPlan(res.Plan),
		Balances: toAPIBalances(res.Balances),
		Matrix:   toAPIMatrix(res.Netted),
	}), nil
}

// GetSettledHistory lists the recorded settlements of an event, oldest first.
func (s *DebtService) GetSettledHistory(ctx context.Context, req *connect.Request[api.GetSettledHistoryRequest]) (*connect.Response[api.GetSettledHistoryResponse], error) {
	slog.Info("GetSettledHistory request received", "event_id", req.Msg.EventId)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}

	history := debts.SettledHistory(ev)

	slog.Info("GetSettledHistory successful", "event_id", ev.ID, "count", len(history))

	return connect.NewResponse(&api.GetSettledHistoryResponse{
		Transactions: toAPITransactions(history),
	}), nil
}

// GetDebtView returns what the debts page of an event shows, computing it on
// first access.
func (s *DebtService) GetDebtView(ctx context.Context, req *connect.Request[api.GetDebtViewRequest]) (*connect.Response[api.GetDebtViewResponse], error) {
	slog.Info("GetDebtView request received", "event_id", req.Msg.EventId)

	if _, err := loadEvent(ctx, s.store, req.Msg.EventId); err != nil {
		return nil, err
	}

	snap, err := s.registry.Board(req.Msg.EventId).Current(ctx)
	if err != nil {
		slog.Error("GetDebtView failed", "event_id", req.Msg.EventId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetDebtViewResponse{View: s.toAPIView(snap)}), nil
}

// SwitchView selects the open or settled view of an event.
func (s *DebtService) SwitchView(ctx context.Context, req *connect.Request[api.SwitchViewRequest]) (*connect.Response[api.SwitchViewResponse], error) {
	slog.Info("SwitchView request received", "event_id", req.Msg.EventId, "view", req.Msg.View)

	view, err := debts.ParseView(req.Msg.View)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	if _, err := loadEvent(ctx, s.store, req.Msg.EventId); err != nil {
		return nil, err
	}

	snap, err := s.registry.Board(req.Msg.EventId).Switch(ctx, view)
	if err != nil {
		slog.Error("SwitchView failed", "event_id", req.Msg.EventId, "view", view, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("View switched", "event_id", req.Msg.EventId, "view", snap.View)

	return connect.NewResponse(&api.SwitchViewResponse{View: s.toAPIView(snap)}), nil
}

// SettleDebt records a transfer of the current plan as paid, in the display
// currency.
func (s *DebtService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	slog.Info("SettleDebt request received",
		"event_id", req.Msg.EventId,
		"giver_id", req.Msg.GiverId,
		"receiver_id", req.Msg.ReceiverId,
		"amount", req.Msg.Amount,
	)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}
	if err := checkTransfer(ev, req.Msg.GiverId, req.Msg.ReceiverId); err != nil {
		return nil, err
	}

	res, err := s.engine.ComputeOpenDebts(ctx, ev)
	if err != nil {
		slog.Error("SettleDebt failed - calculation error", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}

	var planned *calculator.Transfer
	for i, t := range res.Plan {
		if t.GiverID == req.Msg.GiverId && t.ReceiverID == req.Msg.ReceiverId {
			planned = &res.Plan[i]
			break
		}
	}
	if planned == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("no open debt %s", describeTransfer(req.Msg.GiverId, req.Msg.ReceiverId)))
	}

	amount := decimal.NewFromFloat(planned.Amount).Round(2)
	if req.Msg.Amount != "" {
		requested, err := parseAmount(req.Msg.Amount)
		if err != nil {
			return nil, err
		}
		if requested.InexactFloat64() > planned.Amount+calculator.Epsilon {
			return nil, invalidArgument("amount %s exceeds the open debt of %s", requested, amount)
		}
		amount = requested
	}

	tx := &models.Transaction{
		EventID:    ev.ID,
		GiverID:    planned.GiverID,
		ReceiverID: planned.ReceiverID,
		Amount:     amount,
		Currency:   s.engine.DisplayCurrency,
		Date:       parseDate(0),
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("SettleDebt failed", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, ev.ID, notify.TransactionAdded, tx.ID)

	slog.Info("Debt settled", "event_id", ev.ID, "transaction_id", tx.ID, "amount", tx.Amount)

	return connect.NewResponse(&api.SettleDebtResponse{Transaction: toAPITransaction(*tx)}), nil
}

// AddTransaction records a custom settlement payment.
func (s *DebtService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	slog.Info("AddTransaction request received",
		"event_id", req.Msg.EventId,
		"giver_id", req.Msg.GiverId,
		"receiver_id", req.Msg.ReceiverId,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
	)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}
	if err := checkTransfer(ev, req.Msg.GiverId, req.Msg.ReceiverId); err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	code, err := parseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		EventID:    ev.ID,
		GiverID:    req.Msg.GiverId,
		ReceiverID: req.Msg.ReceiverId,
		Amount:     amount,
		Currency:   code,
		Date:       parseDate(req.Msg.Date),
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("AddTransaction failed", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, ev.ID, notify.TransactionAdded, tx.ID)

	slog.Info("Transaction added", "event_id", ev.ID, "transaction_id", tx.ID)

	return connect.NewResponse(&api.AddTransactionResponse{Transaction: toAPITransaction(*tx)}), nil
}

// CancelTransaction deletes a recorded settlement.
func (s *DebtService) CancelTransaction(ctx context.Context, req *connect.Request[api.CancelTransactionRequest]) (*connect.Response[api.CancelTransactionResponse], error) {
	slog.Info("CancelTransaction request received",
		"event_id", req.Msg.EventId,
		"transaction_id", req.Msg.TransactionId,
	)

	if err := s.store.DeleteTransaction(ctx, req.Msg.EventId, req.Msg.TransactionId); err != nil {
		slog.Error("CancelTransaction failed", "transaction_id", req.Msg.TransactionId, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, req.Msg.EventId, notify.TransactionRemoved, req.Msg.TransactionId)

	slog.Info("Transaction cancelled", "event_id", req.Msg.EventId, "transaction_id", req.Msg.TransactionId)

	return connect.NewResponse(&api.CancelTransactionResponse{}), nil
}

// GetStatistics summarizes the spending of an event.
func (s *DebtService) GetStatistics(ctx context.Context, req *connect.Request[api.GetStatisticsRequest]) (*connect.Response[api.GetStatisticsResponse], error) {
	slog.Info("GetStatistics request received", "event_id", req.Msg.EventId)

	ev, err := loadEvent(ctx, s.store, req.Msg.EventId)
	if err != nil {
		return nil, err
	}

	stats, err := s.engine.Statistics(ctx, ev)
	if err != nil {
		slog.Error("GetStatistics failed", "event_id", ev.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetStatisticsResponse{
		Currency: s.engine.DisplayCurrency,
		Total:    cents(stats.Total),
	}
	for _, t := range stats.Tags {
		resp.Tags = append(resp.Tags, &api.TagTotal{
			TagId:  t.TagID,
			Name:   t.Name,
			Color:  t.Color,
			Amount: cents(t.Amount),
		})
	}
	for _, sh := range stats.Shares {
		resp.Shares = append(resp.Shares, &api.ParticipantShare{
			ParticipantId: sh.ParticipantID,
			Name:          sh.Name,
			Amount:        cents(sh.Amount),
		})
	}

	return connect.NewResponse(resp), nil
}

func (s *DebtService) toAPIView(snap debts.Snapshot) *api.DebtView {
	view := &api.DebtView{
		EventId:  snap.EventID,
		View:     snap.View.String(),
		Currency: s.engine.DisplayCurrency,
	}
	if !snap.UpdatedAt.IsZero() {
		view.UpdatedAt = snap.UpdatedAt.Unix()
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	if snap.Result != nil {
		view.Plan = toAPIPlan(snap.Result.Plan)
		view.Balances = toAPIBalances(snap.Result.Balances)
	}
	if snap.View == debts.Settled {
		view.Transactions = toAPITransactions(snap.History)
	}
	return view
}
