package handler

// --- Request types ---

type bookRequest struct {
	Title            string `json:"title"              validate:"required,max=50"`
	Author           string `json:"author"             validate:"required,max=50"`
	YearOfProduction int    `json:"year_of_production" validate:"min=1699,max=2023"`
}

type takeRequest struct {
	PersonID int64 `json:"person_id" validate:"required,gt=0"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// --- Response types ---

type bookResponse struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	YearOfProduction int    `json:"year_of_production"`
	TakenAt          string `json:"taken_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
	UpdatedBy        string `json:"updated_by,omitempty"`
	OwnerID          *int64 `json:"owner_id,omitempty"`
	Overdue          bool   `json:"overdue"`
}

// bookDetailResponse backs GET /books/{id}. People is filled only for an
// admin looking at a free book, as the list of possible borrowers.
type bookDetailResponse struct {
	Book   bookResponse     `json:"book"`
	Owner  *personResponse  `json:"owner,omitempty"`
	People []personResponse `json:"people,omitempty"`
}

type loanEventResponse struct {
	ID         string `json:"id"`
	BookID     int64  `json:"book_id"`
	PersonID   *int64 `json:"person_id,omitempty"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurred_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
