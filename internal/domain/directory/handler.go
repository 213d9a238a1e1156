package directory

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindwell/mindwell/internal/platform/auth"
	"github.com/mindwell/mindwell/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/providers", h.ListProviders)
	api.GET("/providers/:id", h.GetProvider)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/providers", h.CreateProvider)
	admin.PUT("/providers/:id/approval", h.SetApproval)

	owner := api.Group("", auth.RequireRole(auth.RoleProvider))
	owner.PUT("/providers/:id", h.UpdateProvider)
	owner.PUT("/providers/:id/schedule", h.SetSchedule)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateProvider(c echo.Context) error {
	var p Provider
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProvider(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProvider(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProvider(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProviders(c echo.Context) error {
	pg := pagination.FromContext(c)

	// Non-admin callers only see approved providers.
	approvedOnly := auth.RoleFromContext(c.Request().Context()) != auth.RoleAdmin

	items, total, err := h.svc.ListProviders(c.Request().Context(), approvedOnly, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// UpdateProvider lets a provider edit their own profile; admins can edit any.
func (h *Handler) UpdateProvider(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.authorizeOwner(c, id); err != nil {
		return err
	}

	var p Provider
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProvider(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SetSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.authorizeOwner(c, id); err != nil {
		return err
	}

	var schedule WeeklySchedule
	if err := c.Bind(&schedule); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	normalized, err := h.svc.SetSchedule(c.Request().Context(), id, schedule)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, normalized)
}

func (h *Handler) SetApproval(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Approved bool `json:"approved"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetApproved(c.Request().Context(), id, body.Approved); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"id": id, "approved": body.Approved})
}

// authorizeOwner allows admins through and checks that a provider caller owns
// the targeted provider record.
func (h *Handler) authorizeOwner(c echo.Context, id uuid.UUID) error {
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == auth.RoleAdmin {
		return nil
	}
	p, err := h.svc.GetProvider(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if p.UserID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "not your provider profile")
	}
	return nil
}
