package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/core/ports"
)

// BookHandler handles the per-tenant book catalog.
type BookHandler struct {
	bookService ports.BookService
}

func NewBookHandler(bookService ports.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

type createBookRequest struct {
	Title       string `json:"title"       validate:"required,max=500"`
	Author      string `json:"author"      validate:"required,max=255"`
	ISBN        string `json:"isbn"        validate:"required,min=10,max=17"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"    validate:"omitempty,min=0"`
}

type updateBookRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,max=500"`
	Author      *string `json:"author,omitempty"      validate:"omitempty,max=255"`
	ISBN        *string `json:"isbn,omitempty"        validate:"omitempty,min=10,max=17"`
	Description *string `json:"description,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"    validate:"omitempty,min=0"`
}

// List returns the tenant's catalog, paged and optionally filtered.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        skip    query     int     false  "Records to skip"
// @Param        limit   query     int     false  "Records to return (max 100)"
// @Param        search  query     string  false  "Match against title or author"
// @Success      200     {array}   domain.Book
// @Failure      401     {object}  map[string]string
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	books, err := h.bookService.List(c.Request().Context(), principal, ports.ListBooksInput{
		Search: c.QueryParam("search"),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Get returns one book by id, scoped to the principal's tenant.
//
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        id  path  string  true  "Book ID"
// @Success      200  {object}  domain.Book
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Create adds a book to the catalog. Librarian or Admin.
//
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        body  body      createBookRequest  true  "Book details"
// @Success      201   {object}  domain.Book
// @Failure      409   {object}  map[string]string
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookService.Create(c.Request().Context(), principal, ports.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

// Update changes book fields. Librarian or Admin.
//
// @Summary      Update book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Book ID"
// @Param        body  body      updateBookRequest  true  "Fields to update"
// @Success      200   {object}  domain.Book
// @Failure      404   {object}  map[string]string
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookService.Update(c.Request().Context(), principal, c.Param("id"), ports.BookUpdateInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Delete removes a book from the catalog. Admin only.
//
// @Summary      Delete book
// @Tags         books
// @Param        id  path  string  true  "Book ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.bookService.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
