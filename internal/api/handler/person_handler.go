package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/api/metrics"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

// PersonHandler handles HTTP requests for the person directory.
type PersonHandler struct {
	directory ports.DirectoryService
}

func NewPersonHandler(directory ports.DirectoryService) *PersonHandler {
	return &PersonHandler{directory: directory}
}

// List handles GET /people.
//
// @Summary      List people
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        page             query     int   false  "0-based page, used together with people_per_page"
// @Param        people_per_page  query     int   false  "Page size, used together with page"
// @Param        sort_by_year     query     bool  false  "Order by date of birth"
// @Success      200              {array}   personResponse
// @Failure      403              {object}  errorResponse
// @Router       /people [get]
func (h *PersonHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	opts, err := listOptions(c, "people_per_page")
	if err != nil {
		return err
	}

	people, err := h.directory.List(c.Request().Context(), caller, opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPersonResponses(people))
}

// Show handles GET /people/:id. Owned books are listed only for the person
// themselves.
//
// @Summary      Get a person
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Person ID"
// @Success      200  {object}  personDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /people/{id} [get]
func (h *PersonHandler) Show(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	person, err := h.directory.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if person == nil {
		return domain.ErrPersonNotFound
	}

	resp := personDetailResponse{Person: toPersonResponse(person)}
	if caller.PersonID == id {
		books, err := h.directory.Books(ctx, caller, id)
		if err != nil {
			return err
		}
		resp.Books = toBookResponses(books)
		for _, b := range books {
			if b.Overdue {
				metrics.OverdueBooksServed.Inc()
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// Edit handles GET /people/:id/edit.
//
// @Summary      Get a person for editing
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Person ID"
// @Success      200  {object}  personResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /people/{id}/edit [get]
func (h *PersonHandler) Edit(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	person, err := h.directory.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	if person == nil {
		return domain.ErrPersonNotFound
	}
	return c.JSON(http.StatusOK, toPersonResponse(person))
}

// Create handles POST /people.
//
// @Summary      Create a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      personRequest  true  "Person"
// @Success      201   {object}  personResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /people [post]
func (h *PersonHandler) Create(c echo.Context) error {
	var req personRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	person, err := h.directory.Create(c.Request().Context(), toPersonInput(req))
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("person", "create").Inc()
	return c.JSON(http.StatusCreated, toPersonResponse(person))
}

// Update handles PATCH /people/:id. The stored role is always reset to user.
//
// @Summary      Replace a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Person ID"
// @Param        body  body      personRequest  true  "Person"
// @Success      200   {object}  personResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /people/{id} [patch]
func (h *PersonHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req personRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	person, err := h.directory.Update(c.Request().Context(), caller, id, toPersonInput(req))
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("person", "update").Inc()
	return c.JSON(http.StatusOK, toPersonResponse(person))
}

// Delete handles DELETE /people/:id.
//
// @Summary      Delete a person
// @Tags         people
// @Security     BearerAuth
// @Param        id  path  int  true  "Person ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /people/{id} [delete]
func (h *PersonHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.directory.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("person", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET and POST /people/search.
//
// @Summary      Search people by name
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Name substring"
// @Success      200  {array}   personResponse
// @Failure      403  {object}  errorResponse
// @Router       /people/search [get]
func (h *PersonHandler) Search(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	q, err := searchQuery(c)
	if err != nil {
		return err
	}

	people, err := h.directory.Search(c.Request().Context(), caller, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPersonResponses(people))
}
