package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

// TenantHandler handles organization signup and self management.
type TenantHandler struct {
	tenantService ports.TenantService
}

func NewTenantHandler(tenantService ports.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

type registerTenantRequest struct {
	Name      string `json:"name"      validate:"required,min=3,max=255"`
	Subdomain string `json:"subdomain" validate:"required,subdomain"`
}

type updateTenantRequest struct {
	Name     *string `json:"name,omitempty"      validate:"omitempty,min=3,max=255"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type tenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

func (h *TenantHandler) toResponse(t *domain.Tenant) tenantResponse {
	return tenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subdomain: t.Subdomain,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		URL:       h.tenantService.URL(t),
	}
}

// Register signs up a new organization and its bootstrap admin user. Public.
//
// @Summary      Register a new tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body      registerTenantRequest  true  "Organization details"
// @Success      201   {object}  tenantResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /tenants/register [post]
func (h *TenantHandler) Register(c echo.Context) error {
	var req registerTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.Register(c.Request().Context(), ports.RegisterTenantInput{
		Name:      req.Name,
		Subdomain: req.Subdomain,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, h.toResponse(tenant))
}

// Me returns the authenticated principal's tenant.
//
// @Summary      Current tenant
// @Tags         tenants
// @Produce      json
// @Success      200  {object}  tenantResponse
// @Failure      401  {object}  map[string]string
// @Router       /tenants/me [get]
func (h *TenantHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	tenant, err := h.tenantService.GetByID(c.Request().Context(), principal.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(tenant))
}

// UpdateMe updates the principal's tenant. Admin only (enforced by the
// router's role gate).
//
// @Summary      Update current tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body      updateTenantRequest  true  "Fields to update"
// @Success      200   {object}  tenantResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /tenants/me [put]
func (h *TenantHandler) UpdateMe(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.Update(c.Request().Context(), principal.TenantID, ports.TenantUpdateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(tenant))
}
