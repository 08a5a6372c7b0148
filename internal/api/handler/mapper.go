package handler

import (
	"time"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

func toBookInput(req bookRequest) ports.BookInput {
	return ports.BookInput{
		Title:            req.Title,
		Author:           req.Author,
		YearOfProduction: req.YearOfProduction,
	}
}

// toPersonInput expects a request that already passed validation.
func toPersonInput(req personRequest) ports.PersonInput {
	in := ports.PersonInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}
	if req.DateOfBirth != "" {
		if dob, err := time.Parse(dateLayout, req.DateOfBirth); err == nil {
			in.DateOfBirth = &dob
		}
	}
	return in
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		YearOfProduction: b.YearOfProduction,
		TakenAt:          formatTime(b.TakenAt),
		UpdatedAt:        formatTime(b.UpdatedAt),
		UpdatedBy:        b.UpdatedBy,
		OwnerID:          b.OwnerID,
		Overdue:          b.Overdue,
	}
}

func toBookResponses(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toPersonResponse(p *domain.Person) personResponse {
	resp := personResponse{
		ID:       p.ID,
		Name:     p.Name,
		Username: p.Username,
		Role:     string(p.Role),
	}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format(dateLayout)
	}
	return resp
}

func toPersonResponses(people []*domain.Person) []personResponse {
	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	return out
}

func toLoanEventResponses(events []*domain.LoanEvent) []loanEventResponse {
	out := make([]loanEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, loanEventResponse{
			ID:         e.ID,
			BookID:     e.BookID,
			PersonID:   e.PersonID,
			Action:     string(e.Action),
			Actor:      e.Actor,
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
