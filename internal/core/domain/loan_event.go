package domain

import "time"

// LoanAction names a lending transition.
type LoanAction string

const (
	LoanActionTake LoanAction = "take"
	LoanActionFree LoanAction = "free"
)

// LoanEvent is one entry of a book's lending history.
type LoanEvent struct {
	ID         string     `json:"id"`
	BookID     int64      `json:"book_id"`
	PersonID   *int64     `json:"person_id,omitempty"` // borrower; nil when freed
	Action     LoanAction `json:"action"`
	Actor      string     `json:"actor"`
	OccurredAt time.Time  `json:"occurred_at"`
}
