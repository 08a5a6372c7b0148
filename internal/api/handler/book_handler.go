package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/api/metrics"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	catalog   ports.CatalogService
	directory ports.DirectoryService
}

func NewBookHandler(catalog ports.CatalogService, directory ports.DirectoryService) *BookHandler {
	return &BookHandler{catalog: catalog, directory: directory}
}

// List handles GET /books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page            query     int   false  "0-based page, used together with books_per_page"
// @Param        books_per_page  query     int   false  "Page size, used together with page"
// @Param        sort_by_year    query     bool  false  "Order by year of production"
// @Success      200             {array}   bookResponse
// @Failure      400             {object}  errorResponse
// @Failure      422             {object}  errorResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	opts, err := listOptions(c, "books_per_page")
	if err != nil {
		return err
	}

	books, err := h.catalog.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Show handles GET /books/:id.
//
// @Summary      Get a book with its current owner
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  bookDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Show(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	book, err := h.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrBookNotFound
	}

	resp := bookDetailResponse{Book: toBookResponse(book)}

	owner, err := h.catalog.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != nil {
		o := toPersonResponse(owner)
		resp.Owner = &o
	} else if caller.IsAdmin() {
		people, err := h.directory.List(ctx, caller, ports.ListOptions{})
		if err != nil {
			return err
		}
		resp.People = toPersonResponses(people)
	}

	return c.JSON(http.StatusOK, resp)
}

// Edit handles GET /books/:id/edit and returns the record to prefill a form.
//
// @Summary      Get a book for editing
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id}/edit [get]
func (h *BookHandler) Edit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	book, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrBookNotFound
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Create handles POST /books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	book, err := h.catalog.Create(c.Request().Context(), caller, toBookInput(req))
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("book", "create").Inc()
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Update handles PATCH /books/:id.
//
// @Summary      Replace the editable fields of a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Book ID"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  bookResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books/{id} [patch]
func (h *BookHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	book, err := h.catalog.Update(c.Request().Context(), caller, id, toBookInput(req))
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("book", "update").Inc()
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /books/:id.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  int  true  "Book ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.catalog.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("book", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET and POST /books/search.
//
// @Summary      Search books by title
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Title substring"
// @Success      200  {array}   bookResponse
// @Router       /books/search [get]
func (h *BookHandler) Search(c echo.Context) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}

	books, err := h.catalog.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Take handles PATCH /books/:id/take.
//
// @Summary      Lend a book to a person
// @Tags         lending
// @Accept       json
// @Security     BearerAuth
// @Param        id               path    int          true   "Book ID"
// @Param        Idempotency-Key  header  string       false  "Replay protection key"
// @Param        body             body    takeRequest  true   "Borrower"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /books/{id}/take [patch]
func (h *BookHandler) Take(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req takeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	outcome, err := h.catalog.TakeBook(c.Request().Context(), caller, ports.LoanRequest{
		BookID:         id,
		PersonID:       req.PersonID,
		IdempotencyKey: c.Request().Header.Get(idempotencyHeader),
	})
	if err != nil {
		return err
	}

	countLoan(domain.LoanActionTake, outcome)
	return c.NoContent(http.StatusNoContent)
}

// Free handles PATCH /books/:id/free.
//
// @Summary      Return a book
// @Tags         lending
// @Security     BearerAuth
// @Param        id               path    int     true   "Book ID"
// @Param        Idempotency-Key  header  string  false  "Replay protection key"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /books/{id}/free [patch]
func (h *BookHandler) Free(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	outcome, err := h.catalog.FreeBook(c.Request().Context(), caller, ports.LoanRequest{
		BookID:         id,
		IdempotencyKey: c.Request().Header.Get(idempotencyHeader),
	})
	if err != nil {
		return err
	}

	countLoan(domain.LoanActionFree, outcome)
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /books/:id/history.
//
// @Summary      Lending history of a book, newest first
// @Tags         lending
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book ID"
// @Success      200  {array}   loanEventResponse
// @Failure      403  {object}  errorResponse
// @Router       /books/{id}/history [get]
func (h *BookHandler) History(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	events, err := h.catalog.History(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLoanEventResponses(events))
}

func countLoan(action domain.LoanAction, outcome ports.LoanOutcome) {
	switch outcome {
	case ports.LoanApplied:
		metrics.LoansTotal.WithLabelValues(string(action)).Inc()
	case ports.LoanReplayed:
		metrics.ReplayedLoanRequestsTotal.WithLabelValues(string(action)).Inc()
	}
}
