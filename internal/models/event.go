package models

// Event groups participants, their expenses and the settlements between them.
type Event struct {
	// ID is the invite code of the event (5 upper-case letters, e.g. "KXQAB").
	ID string

	// Title is the display name of the event.
	Title string

	// Participants are the people taking part, ordered by name.
	Participants []Participant

	// Expenses are ordered by date.
	Expenses []Expense

	// Transactions are the recorded settlements, ordered by date.
	Transactions []Transaction

	// Tags are the expense categories defined for the event.
	Tags []Tag

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// ParticipantIDs returns the participant IDs in event order.
func (e *Event) ParticipantIDs() []string {
	ids := make([]string, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = p.ID
	}
	return ids
}

// Participant looks up a participant by ID.
func (e *Event) Participant(id string) (Participant, bool) {
	for _, p := range e.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Participant is a person taking part in an event.
// Participants are immutable once created apart from their display name.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// EventID is the event this participant belongs to.
	EventID string

	// Name is the display name. Two participants may share a name.
	Name string
}

// Tag is an expense category such as "food" or "travel".
type Tag struct {
	// ID is the unique identifier for the tag (UUID format).
	ID string

	// EventID is the event this tag belongs to.
	EventID string

	// Name is the display name of the tag.
	Name string

	// Color is a web color string (e.g. "#ff8800").
	Color string
}
