package domain

import (
	"errors"
	"time"
)

// LoanPeriod is how long a book may stay with a borrower before it counts as overdue.
const LoanPeriod = 10 * 24 * time.Hour

var ErrBookNotFound = errors.New("book not found")

// LoanState is the ownership state of a book.
type LoanState string

const (
	LoanFree  LoanState = "free"
	LoanOwned LoanState = "owned"
)

// Book is a catalog record. OwnerID and TakenAt are either both set or both nil.
type Book struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"              validate:"required,max=50"`
	Author           string     `json:"author"             validate:"required,max=50"`
	YearOfProduction int        `json:"year_of_production" validate:"min=1699,max=2023"`
	TakenAt          *time.Time `json:"taken_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	UpdatedBy        string     `json:"updated_by,omitempty"`
	OwnerID          *int64     `json:"owner_id,omitempty"`

	// Overdue is derived and never persisted.
	Overdue bool `json:"overdue"`
}

// State reports whether the book is on loan.
func (b *Book) State() LoanState {
	if b.OwnerID == nil {
		return LoanFree
	}
	return LoanOwned
}

// Take assigns the book to personID, overwriting any current borrower.
func (b *Book) Take(personID int64, at time.Time) {
	owner := personID
	taken := at.UTC()
	b.OwnerID = &owner
	b.TakenAt = &taken
}

// Free clears the borrower and the loan timestamp.
func (b *Book) Free() {
	b.OwnerID = nil
	b.TakenAt = nil
}

// IsOverdueAt reports whether the current loan has lasted at least LoanPeriod at now.
// The boundary is inclusive.
func (b *Book) IsOverdueAt(now time.Time) bool {
	if b.TakenAt == nil {
		return false
	}
	return now.Sub(*b.TakenAt) >= LoanPeriod
}

// MarkOverdue recomputes the derived Overdue flag.
func (b *Book) MarkOverdue(now time.Time) {
	b.Overdue = b.IsOverdueAt(now)
}
