package handler

// dateLayout is the dd/mm/yyyy form used for dates of birth.
const dateLayout = "02/01/2006"

type personRequest struct {
	Name        string `json:"name"          validate:"required,min=2,max=100"`
	Username    string `json:"username"      validate:"required,min=2,max=100"`
	Password    string `json:"password"      validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=02/01/2006"`
	Role        string `json:"role,omitempty"`
}

type personResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Role        string `json:"role"`
}

// personDetailResponse backs GET /people/{id}. Books is present only when
// the caller looks at their own record.
type personDetailResponse struct {
	Person personResponse `json:"person"`
	Books  []bookResponse `json:"books,omitempty"`
}
