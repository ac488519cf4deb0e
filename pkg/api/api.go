// Package api defines the request and response messages of the settleup
// Connect services. Messages are plain structs sent as JSON.
//
// Stored amounts travel as decimal strings ("12.50") in their own
// currency. Computed amounts (plans, balances, statistics) are numbers in
// the server's display currency. Dates are Unix timestamps in seconds.
package api

// Event is an event with everything it owns.
type Event struct {
	Id           string         `json:"id"`
	Title        string         `json:"title"`
	Participants []*Participant `json:"participants,omitempty"`
	Expenses     []*Expense     `json:"expenses,omitempty"`
	Transactions []*Transaction `json:"transactions,omitempty"`
	Tags         []*Tag         `json:"tags,omitempty"`
	CreatedAt    int64          `json:"createdAt"`
}

type Participant struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Expense struct {
	Id             string   `json:"id"`
	AuthorId       string   `json:"authorId"`
	Purpose        string   `json:"purpose,omitempty"`
	Amount         string   `json:"amount"`
	Currency       string   `json:"currency"`
	Date           int64    `json:"date"`
	ParticipantIds []string `json:"participantIds"`
	TagId          string   `json:"tagId,omitempty"`
}

// Transaction is a recorded settlement.
type Transaction struct {
	Id         string `json:"id"`
	GiverId    string `json:"giverId"`
	ReceiverId string `json:"receiverId"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Date       int64  `json:"date"`
}

type Tag struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Transfer is one step of a settlement plan.
type Transfer struct {
	GiverId    string  `json:"giverId"`
	ReceiverId string  `json:"receiverId"`
	Amount     float64 `json:"amount"`
}

// Balance is a net balance. Positive means the participant is owed money.
type Balance struct {
	ParticipantId string  `json:"participantId"`
	Amount        float64 `json:"amount"`
}

// DebtEdge is one cell of the pairwise debt matrix: From owes To.
type DebtEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type TagTotal struct {
	TagId  string  `json:"tagId,omitempty"`
	Name   string  `json:"name,omitempty"`
	Color  string  `json:"color,omitempty"`
	Amount float64 `json:"amount"`
}

type ParticipantShare struct {
	ParticipantId string  `json:"participantId"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
}

// DebtView is what the debts page of an event currently shows.
type DebtView struct {
	EventId string `json:"eventId"`
	// View is "open" or "settled".
	View     string     `json:"view"`
	Currency string     `json:"currency"`
	Plan     []*Transfer `json:"plan,omitempty"`
	Balances []*Balance  `json:"balances,omitempty"`
	// Transactions is the settled history, filled in the settled view.
	Transactions []*Transaction `json:"transactions,omitempty"`
	UpdatedAt    int64          `json:"updatedAt,omitempty"`
	// Error is set when the latest recompute failed and the view shows the
	// result from before it.
	Error string `json:"error,omitempty"`
}

// EventService messages.

type CreateEventRequest struct {
	Title string `json:"title"`
	// Participants are the names of the initial participants.
	Participants []string `json:"participants,omitempty"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventId string `json:"eventId"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

type RenameEventRequest struct {
	EventId string `json:"eventId"`
	Title   string `json:"title"`
}

type RenameEventResponse struct {
	Event *Event `json:"event"`
}

type DeleteEventRequest struct {
	EventId string `json:"eventId"`
}

type DeleteEventResponse struct{}

type AddParticipantRequest struct {
	EventId string `json:"eventId"`
	Name    string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type UpdateParticipantRequest struct {
	EventId       string `json:"eventId"`
	ParticipantId string `json:"participantId"`
	Name          string `json:"name"`
}

type UpdateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	EventId       string `json:"eventId"`
	ParticipantId string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	EventId  string `json:"eventId"`
	AuthorId string `json:"authorId"`
	Purpose  string `json:"purpose,omitempty"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	// Date defaults to now.
	Date           int64    `json:"date,omitempty"`
	ParticipantIds []string `json:"participantIds"`
	TagId          string   `json:"tagId,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	EventId        string   `json:"eventId"`
	ExpenseId      string   `json:"expenseId"`
	AuthorId       string   `json:"authorId"`
	Purpose        string   `json:"purpose,omitempty"`
	Amount         string   `json:"amount"`
	Currency       string   `json:"currency"`
	Date           int64    `json:"date,omitempty"`
	ParticipantIds []string `json:"participantIds"`
	TagId          string   `json:"tagId,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	EventId   string `json:"eventId"`
	ExpenseId string `json:"expenseId"`
}

type RemoveExpenseResponse struct{}

type AddTagRequest struct {
	EventId string `json:"eventId"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

type AddTagResponse struct {
	Tag *Tag `json:"tag"`
}

type RemoveTagRequest struct {
	EventId string `json:"eventId"`
	TagId   string `json:"tagId"`
}

type RemoveTagResponse struct{}

// DebtService messages.

type ComputeOpenDebtsRequest struct {
	EventId string `json:"eventId"`
}

type ComputeOpenDebtsResponse struct {
	Currency string      `json:"currency"`
	Total    float64     `json:"total"`
	Plan     []*Transfer `json:"plan,omitempty"`
	Balances []*Balance  `json:"balances,omitempty"`
	// Matrix is the pairwise debt matrix after recorded settlements.
	Matrix []*DebtEdge `json:"matrix,omitempty"`
}

type GetSettledHistoryRequest struct {
	EventId string `json:"eventId"`
}

type GetSettledHistoryResponse struct {
	Transactions []*Transaction `json:"transactions,omitempty"`
}

type GetDebtViewRequest struct {
	EventId string `json:"eventId"`
}

type GetDebtViewResponse struct {
	View *DebtView `json:"view"`
}

type SwitchViewRequest struct {
	EventId string `json:"eventId"`
	View    string `json:"view"`
}

type SwitchViewResponse struct {
	View *DebtView `json:"view"`
}

// SettleDebtRequest records a transfer of the current plan as paid.
type SettleDebtRequest struct {
	EventId    string `json:"eventId"`
	GiverId    string `json:"giverId"`
	ReceiverId string `json:"receiverId"`
	// Amount defaults to the planned amount. It must not exceed it.
	Amount string `json:"amount,omitempty"`
}

type SettleDebtResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type AddTransactionRequest struct {
	EventId    string `json:"eventId"`
	GiverId    string `json:"giverId"`
	ReceiverId string `json:"receiverId"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Date       int64  `json:"date,omitempty"`
}

type AddTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type CancelTransactionRequest struct {
	EventId       string `json:"eventId"`
	TransactionId string `json:"transactionId"`
}

type CancelTransactionResponse struct{}

type GetStatisticsRequest struct {
	EventId string `json:"eventId"`
}

type GetStatisticsResponse struct {
	Currency string              `json:"currency"`
	Total    float64             `json:"total"`
	Tags     []*TagTotal         `json:"tags,omitempty"`
	Shares   []*ParticipantShare `json:"shares,omitempty"`
}
