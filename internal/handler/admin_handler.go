package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"appointment-tracker/internal/middleware"
	"appointment-tracker/internal/model"
	"appointment-tracker/internal/store"
)

type statusPage struct {
	Appointment *model.Appointment
	Next        string
	Statuses    []string
}

type userListPage struct {
	Users []model.User
}

func statuses() []string {
	return []string{model.StatusPlanned, model.StatusDone, model.StatusCanceled}
}

func (h *Handler) StatusForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	appt, err := h.store.AppointmentByID(c.Request().Context(), id)
	if err != nil {
		log.Errorf("fetch appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if appt == nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	return h.render(c, "Change status", "status", &statusPage{
		Appointment: appt,
		Next:        sanitizeNext(c.QueryParam("next")),
		Statuses:    statuses(),
	})
}

func (h *Handler) SetAppointmentStatus(c echo.Context) error {
	next := sanitizeNext(c.FormValue("next"))

	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", next)
	}

	admin := middleware.CurrentUser(c)
	rows, err := h.store.SetAppointmentStatus(c.Request().Context(),
		id, c.FormValue("status"), admin.ID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidStatus) {
			return flashRedirect(c, "Invalid status", next)
		}
		log.Errorf("set status on appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if rows == 0 {
		return flashRedirect(c, "Appointment not found", next)
	}
	return c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) AdminUsers(c echo.Context) error {
	users, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		log.Errorf("list users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return h.render(c, "Users", "admin_users", &userListPage{Users: users})
}

func (h *Handler) AdminUserAppointments(c echo.Context) error {
	targetID, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "User not found", "/admin/users")
	}

	target, err := h.store.UserByID(c.Request().Context(), targetID)
	if err != nil {
		log.Errorf("fetch user %d: %v", targetID, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if target == nil {
		return flashRedirect(c, "User not found", "/admin/users")
	}

	appts, err := h.store.AppointmentsByOwner(c.Request().Context(), target.ID)
	if err != nil {
		log.Errorf("list appointments for user %d: %v", target.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	admin := middleware.CurrentUser(c)
	return h.render(c, "Appointments of "+target.Email, "output", &appointmentListPage{
		Appointments: appts,
		// content edits stay owner-scoped: the admin may edit only
		// their own rows from this view
		CanEdit: target.ID == admin.ID,
		Next:    fmt.Sprintf("/admin/users/%d/appointments", target.ID),
	})
}
