package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// DebtServiceName is the fully-qualified name of the DebtService.
const DebtServiceName = "settleup.v1.DebtService"

// Procedure paths of the DebtService.
const (
	DebtServiceComputeOpenDebtsProcedure  = "/settleup.v1.DebtService/ComputeOpenDebts"
	DebtServiceGetSettledHistoryProcedure = "/settleup.v1.DebtService/GetSettledHistory"
	DebtServiceGetDebtViewProcedure       = "/settleup.v1.DebtService/GetDebtView"
	DebtServiceSwitchViewProcedure        = "/settleup.v1.DebtService/SwitchView"
	DebtServiceSettleDebtProcedure        = "/settleup.v1.DebtService/SettleDebt"
	DebtServiceAddTransactionProcedure    = "/settleup.v1.DebtService/AddTransaction"
	DebtServiceCancelTransactionProcedure = "/settleup.v1.DebtService/CancelTransaction"
	DebtServiceGetStatisticsProcedure     = "/settleup.v1.DebtService/GetStatistics"
)

// DebtServiceHandler is implemented by the server side of the DebtService, which
// computes and settles debts.
type DebtServiceHandler interface {
	ComputeOpenDebts(context.Context, *connect.Request[api.ComputeOpenDebtsRequest]) (*connect.Response[api.ComputeOpenDebtsResponse], error)
	GetSettledHistory(context.Context, *connect.Request[api.GetSettledHistoryRequest]) (*connect.Response[api.GetSettledHistoryResponse], error)
	GetDebtView(context.Context, *connect.Request[api.GetDebtViewRequest]) (*connect.Response[api.GetDebtViewResponse], error)
	SwitchView(context.Context, *connect.Request[api.SwitchViewRequest]) (*connect.Response[api.SwitchViewResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	CancelTransaction(context.Context, *connect.Request[api.CancelTransactionRequest]) (*connect.Response[api.CancelTransactionResponse], error)
	GetStatistics(context.Context, *connect.Request[api.GetStatisticsRequest]) (*connect.Response[api.GetStatisticsResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler serving every DebtService procedure.
// It returns the path prefix to mount it on.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	computeOpenDebts := connect.NewUnaryHandler(DebtServiceComputeOpenDebtsProcedure, svc.ComputeOpenDebts, opts...)
	getSettledHistory := connect.NewUnaryHandler(DebtServiceGetSettledHistoryProcedure, svc.GetSettledHistory, opts...)
	getDebtView := connect.NewUnaryHandler(DebtServiceGetDebtViewProcedure, svc.GetDebtView, opts...)
	switchView := connect.NewUnaryHandler(DebtServiceSwitchViewProcedure, svc.SwitchView, opts...)
	settleDebt := connect.NewUnaryHandler(DebtServiceSettleDebtProcedure, svc.SettleDebt, opts...)
	addTransaction := connect.NewUnaryHandler(DebtServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	cancelTransaction := connect.NewUnaryHandler(DebtServiceCancelTransactionProcedure, svc.CancelTransaction, opts...)
	getStatistics := connect.NewUnaryHandler(DebtServiceGetStatisticsProcedure, svc.GetStatistics, opts...)

	return "/settleup.v1.DebtService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DebtServiceComputeOpenDebtsProcedure:
			computeOpenDebts.ServeHTTP(w, r)
		case DebtServiceGetSettledHistoryProcedure:
			getSettledHistory.ServeHTTP(w, r)
		case DebtServiceGetDebtViewProcedure:
			getDebtView.ServeHTTP(w, r)
		case DebtServiceSwitchViewProcedure:
			switchView.ServeHTTP(w, r)
		case DebtServiceSettleDebtProcedure:
			settleDebt.ServeHTTP(w, r)
		case DebtServiceAddTransactionProcedure:
			addTransaction.ServeHTTP(w, r)
		case DebtServiceCancelTransactionProcedure:
			cancelTransaction.ServeHTTP(w, r)
		case DebtServiceGetStatisticsProcedure:
			getStatistics.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// DebtServiceClient is a client for the DebtService.
type DebtServiceClient interface {
	ComputeOpenDebts(context.Context, *connect.Request[api.ComputeOpenDebtsRequest]) (*connect.Response[api.ComputeOpenDebtsResponse], error)
	GetSettledHistory(context.Context, *connect.Request[api.GetSettledHistoryRequest]) (*connect.Response[api.GetSettledHistoryResponse], error)
	GetDebtView(context.Context, *connect.Request[api.GetDebtViewRequest]) (*connect.Response[api.GetDebtViewResponse], error)
	SwitchView(context.Context, *connect.Request[api.SwitchViewRequest]) (*connect.Response[api.SwitchViewResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	CancelTransaction(context.Context, *connect.Request[api.CancelTransactionRequest]) (*connect.Response[api.CancelTransactionResponse], error)
	GetStatistics(context.Context, *connect.Request[api.GetStatisticsRequest]) (*connect.Response[api.GetStatisticsResponse], error)
}

// NewDebtServiceClient creates a client for the DebtService at baseURL, e.g.
// "http://localhost:8080".
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DebtServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &debtServiceClient{
		computeOpenDebts:  connect.NewClient[api.ComputeOpenDebtsRequest, api.ComputeOpenDebtsResponse](httpClient, baseURL+DebtServiceComputeOpenDebtsProcedure, opts...),
		getSettledHistory: connect.NewClient[api.GetSettledHistoryRequest, api.GetSettledHistoryResponse](httpClient, baseURL+DebtServiceGetSettledHistoryProcedure, opts...),
		getDebtView:       connect.NewClient[api.GetDebtViewRequest, api.GetDebtViewResponse](httpClient, baseURL+DebtServiceGetDebtViewProcedure, opts...),
		switchView:        connect.NewClient[api.SwitchViewRequest, api.SwitchViewResponse](httpClient, baseURL+DebtServiceSwitchViewProcedure, opts...),
		settleDebt:        connect.NewClient[api.SettleDebtRequest, api.SettleDebtResponse](httpClient, baseURL+DebtServiceSettleDebtProcedure, opts...),
		addTransaction:    connect.NewClient[api.AddTransactionRequest, api.AddTransactionResponse](httpClient, baseURL+DebtServiceAddTransactionProcedure, opts...),
		cancelTransaction: connect.NewClient[api.CancelTransactionRequest, api.CancelTransactionResponse](httpClient, baseURL+DebtServiceCancelTransactionProcedure, opts...),
		getStatistics:     connect.NewClient[api.GetStatisticsRequest, api.GetStatisticsResponse](httpClient, baseURL+DebtServiceGetStatisticsProcedure, opts...),
	}
}

type debtServiceClient struct {
	computeOpenDebts  *connect.Client[api.ComputeOpenDebtsRequest, api.ComputeOpenDebtsResponse]
	getSettledHistory *connect.Client[api.GetSettledHistoryRequest, api.GetSettledHistoryResponse]
	getDebtView       *connect.Client[api.GetDebtViewRequest, api.GetDebtViewResponse]
	switchView        *connect.Client[api.SwitchViewRequest, api.SwitchViewResponse]
	settleDebt        *connect.Client[api.SettleDebtRequest, api.SettleDebtResponse]
	addTransaction    *connect.Client[api.AddTransactionRequest, api.AddTransactionResponse]
	cancelTransaction *connect.Client[api.CancelTransactionRequest, api.CancelTransactionResponse]
	getStatistics     *connect.Client[api.GetStatisticsRequest, api.GetStatisticsResponse]
}

func (c *debtServiceClient) ComputeOpenDebts(ctx context.Context, req *connect.Request[api.ComputeOpenDebtsRequest]) (*connect.Response[api.ComputeOpenDebtsResponse], error) {
	return c.computeOpenDebts.CallUnary(ctx, req)
}

func (c *debtServiceClient) GetSettledHistory(ctx context.Context, req *connect.Request[api.GetSettledHistoryRequest]) (*connect.Response[api.GetSettledHistoryResponse], error) {
	return c.getSettledHistory.CallUnary(ctx, req)
}

func (c *debtServiceClient) GetDebtView(ctx context.Context, req *connect.Request[api.GetDebtViewRequest]) (*connect.Response[api.GetDebtViewResponse], error) {
	return c.getDebtView.CallUnary(ctx, req)
}

func (c *debtServiceClient) SwitchView(ctx context.Context, req *connect.Request[api.SwitchViewRequest]) (*connect.Response[api.SwitchViewResponse], error) {
	return c.switchView.CallUnary(ctx, req)
}

func (c *debtServiceClient) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *debtServiceClient) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *debtServiceClient) CancelTransaction(ctx context.Context, req *connect.Request[api.CancelTransactionRequest]) (*connect.Response[api.CancelTransactionResponse], error) {
	return c.cancelTransaction.CallUnary(ctx, req)
}

func (c *debtServiceClient) GetStatistics(ctx context.Context, req *connect.Request[api.GetStatisticsRequest]) (*connect.Response[api.GetStatisticsResponse], error) {
	return c.getStatistics.CallUnary(ctx, req)
}
