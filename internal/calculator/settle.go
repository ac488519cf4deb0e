package calculator

import (
	"context"
)

// Input is everything needed to compute open debts for one event.
type Input struct {
	// Participants is the stable participant order used for tie-breaks.
	Participants    []string
	Expenses        []ExpenseForBalance
	Transactions    []TransactionForBalance
	DisplayCurrency string
	Converter       Converter
}

// Result is the full output of one settlement run.
type Result struct {
	*Aggregation

	// Netted is the debt matrix after recorded settlements.
	Netted   DebtMatrix
	Balances NetBalances
	Plan     Plan
}

// Settle runs the whole pipeline: aggregate expenses, net settlements,
// collapse into balances and resolve the minimum cash flow.
func Settle(ctx context.Context, in Input) (*Result, error) {
	agg, err := Aggregate(ctx, in.Expenses, in.Participants, in.DisplayCurrency, in.Converter)
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, agg, in)
}

// Resolve runs the pipeline from an existing aggregation.
func Resolve(ctx context.Context, agg *Aggregation, in Input) (*Result, error) {
	netted, err := Net(ctx, agg.Matrix, in.Transactions, in.Participants, in.DisplayCurrency, in.Converter)
	if err != nil {
		return nil, err
	}

	balances := ComputeNetBalances(netted, in.Participants)
	plan, err := MinCashFlow(balances)
	if err != nil {
		return nil, err
	}

	return &Result{
		Aggregation: agg,
		Netted:      netted,
		Balances:    balances,
		Plan:        plan,
	}, nil
}
