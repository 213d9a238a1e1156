package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindwell/mindwell/internal/platform/auth"
	"github.com/mindwell/mindwell/pkg/civil"
	"github.com/mindwell/mindwell/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/providers/:id/available-dates", h.AvailableDates)
	api.GET("/providers/:id/slots", h.ListSlots)

	api.POST("/bookings", h.Book, auth.RequireRole(auth.RoleClient))
	api.GET("/bookings", h.List)
	api.GET("/bookings/:id", h.Get)
	api.POST("/bookings/:id/cancel", h.Cancel)
	api.POST("/bookings/:id/complete", h.Complete, auth.RequireRole(auth.RoleProvider))
	api.POST("/bookings/:id/no-show", h.MarkNoShow, auth.RequireRole(auth.RoleProvider))
	api.POST("/bookings/:id/reschedule", h.Reschedule)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProviderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPastDate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrProviderUnapproved):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrSlotConflict),
		errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func actorFrom(c echo.Context) Actor {
	ctx := c.Request().Context()
	return Actor{
		ID:   auth.UserIDFromContext(ctx),
		Role: auth.RoleFromContext(ctx),
	}
}

func (h *Handler) AvailableDates(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid provider id")
	}
	dates, err := h.svc.AvailableDates(c.Request().Context(), providerID)
	if err != nil {
		return httpError(err)
	}
	if dates == nil {
		dates = []civil.Date{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"dates": dates})
}

func (h *Handler) ListSlots(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid provider id")
	}
	date, err := civil.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	slots, err := h.svc.ListSlots(c.Request().Context(), providerID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"date": date, "slots": slots})
}

func (h *Handler) Book(c echo.Context) error {
	var body struct {
		ProviderID  uuid.UUID       `json:"provider_id"`
		Date        civil.Date      `json:"date"`
		Start       civil.TimeOfDay `json:"start_time"`
		Duration    int             `json:"duration_minutes"`
		Notes       *string         `json:"notes"`
		MeetingMode *string         `json:"meeting_mode"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.Book(c.Request().Context(), BookInput{
		ProviderID:  body.ProviderID,
		ClientID:    actorFrom(c).ID,
		Date:        body.Date,
		Start:       body.Start,
		Duration:    body.Duration,
		Notes:       body.Notes,
		MeetingMode: body.MeetingMode,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)

	var providerID uuid.UUID
	if p := c.QueryParam("provider_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid provider id")
		}
		providerID = id
	}

	f := ListFilter{Status: c.QueryParam("status")}
	if v := c.QueryParam("from"); v != "" {
		d, err := civil.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		f.From = d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := civil.ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		f.To = d
	}

	items, total, err := h.svc.ListForActor(c.Request().Context(), actorFrom(c), providerID, f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.Cancel(c.Request().Context(), actorFrom(c), id, body.Reason)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Complete(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) MarkNoShow(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.MarkNoShow(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Date  civil.Date      `json:"date"`
		Start civil.TimeOfDay `json:"start_time"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.Reschedule(c.Request().Context(), actorFrom(c), id, body.Date, body.Start)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}
