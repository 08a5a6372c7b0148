package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/api/middleware"
	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

// ctxCaller returns the caller resolved by the Auth middleware. A missing
// caller means the route was mounted without Auth; reject with 401.
func ctxCaller(c echo.Context) (access.Caller, error) {
	caller := middleware.CallerFrom(c)
	if !caller.Authenticated() {
		return access.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// listOptions reads sort_by_year and the paging pair. The listing is paged
// only when both page and perPageParam are present.
func listOptions(c echo.Context, perPageParam string) (ports.ListOptions, error) {
	var opts ports.ListOptions

	if raw := c.QueryParam("sort_by_year"); raw != "" {
		sorted, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "sort_by_year must be a boolean")
		}
		opts.Sorted = sorted
	}

	rawPage, rawSize := c.QueryParam("page"), c.QueryParam(perPageParam)
	if rawPage == "" || rawSize == "" {
		return opts, nil
	}

	page, err := strconv.Atoi(rawPage)
	if err != nil {
		return opts, echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
	}
	size, err := strconv.Atoi(rawSize)
	if err != nil {
		return opts, echo.NewHTTPError(http.StatusBadRequest, perPageParam+" must be an integer")
	}
	opts.Page = &ports.PageRequest{Page: page, PageSize: size}
	return opts, nil
}

// searchQuery takes ?q= first and falls back to a {"query": "..."} body.
func searchQuery(c echo.Context) (string, error) {
	if q := c.QueryParam("q"); q != "" {
		return q, nil
	}
	if c.Request().Method != http.MethodPost {
		return "", nil
	}
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return req.Query, nil
}
