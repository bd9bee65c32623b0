package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// UserHandler handles user management within the principal's tenant.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100,alphanum_underscore"`
	Password string `json:"password" validate:"required,strongpassword"`
	Role     string `json:"role"     validate:"required,oneof=admin librarian member"`
}

type updateUserRequest struct {
	Role     *string `json:"role,omitempty"      validate:"omitempty,oneof=admin librarian member"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// List returns all users in the principal's tenant. Admin only.
//
// @Summary      List tenant users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), principal, principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a user to the principal's tenant. Admin only.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	user, err := h.userService.Create(c.Request().Context(), principal, ports.CreateUserInput{
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update changes a user's role or active flag. Admin only.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UserUpdateInput{IsActive: req.IsActive}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		input.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), principal, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user from the tenant. Admin only.
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
