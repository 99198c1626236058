package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"appointment-tracker/internal/middleware"
	"appointment-tracker/internal/model"
	"appointment-tracker/internal/web"
)

type createForm struct {
	Title    string `form:"title" validate:"required"`
	Date     string `form:"date" validate:"required"`
	Time     string `form:"time" validate:"required"`
	Location string `form:"location"`
	Notes    string `form:"notes"`
}

type editForm struct {
	Title    string `form:"title" validate:"required"`
	TimeText string `form:"time_text" validate:"required"`
	Location string `form:"location"`
	Notes    string `form:"notes"`
}

type appointmentListPage struct {
	Appointments []model.Appointment
	CanEdit      bool
	Next         string
}

func (h *Handler) NewAppointmentForm(c echo.Context) error {
	return h.render(c, "New appointment", "input", nil)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var f createForm
	if err := c.Bind(&f); err != nil {
		return flashRedirect(c, "Title, date and time are required", "/input")
	}
	web.TrimFields(&f)
	if err := h.validate.Struct(&f); err != nil {
		return flashRedirect(c, "Title, date and time are required", "/input")
	}

	owner := middleware.CurrentUser(c)
	_, err := h.store.CreateAppointment(c.Request().Context(),
		owner.ID, f.Title, f.Date, f.Time, f.Location, f.Notes)
	if err != nil {
		log.Errorf("create appointment for user %d: %v", owner.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Redirect(http.StatusSeeOther, "/output")
}

func (h *Handler) ListAppointments(c echo.Context) error {
	u := middleware.CurrentUser(c)
	appts, err := h.store.AppointmentsByOwner(c.Request().Context(), u.ID)
	if err != nil {
		log.Errorf("list appointments for user %d: %v", u.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return h.render(c, "My appointments", "output", &appointmentListPage{
		Appointments: appts,
		CanEdit:      true,
		Next:         "/output",
	})
}

func (h *Handler) EditAppointmentForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	u := middleware.CurrentUser(c)
	appt, err := h.store.AppointmentByIDForOwner(c.Request().Context(), id, u.ID)
	if err != nil {
		log.Errorf("fetch appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if appt == nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}
	return h.render(c, "Edit appointment", "edit", appt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	var f editForm
	if err := c.Bind(&f); err != nil {
		return flashRedirect(c, "Title and time are required", "/output")
	}
	web.TrimFields(&f)
	if err := h.validate.Struct(&f); err != nil {
		return flashRedirect(c, "Title and time are required", "/output")
	}

	u := middleware.CurrentUser(c)
	rows, err := h.store.UpdateAppointmentContent(c.Request().Context(),
		id, u.ID, f.Title, f.TimeText, f.Location, f.Notes)
	if err != nil {
		log.Errorf("update appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if rows == 0 {
		return flashRedirect(c, "Could not update appointment", "/output")
	}
	return c.Redirect(http.StatusSeeOther, "/output")
}

func (h *Handler) CompleteAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	u := middleware.CurrentUser(c)
	rows, err := h.store.CompleteAppointment(c.Request().Context(), id, u.ID)
	if err != nil {
		log.Errorf("complete appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if rows == 0 {
		return flashRedirect(c, "Could not complete appointment", "/output")
	}
	return c.Redirect(http.StatusSeeOther, "/output")
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return flashRedirect(c, "Appointment not found", "/output")
	}

	u := middleware.CurrentUser(c)
	rows, err := h.store.DeleteAppointment(c.Request().Context(), id, u.ID)
	if err != nil {
		log.Errorf("delete appointment %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if rows == 0 {
		return flashRedirect(c, "Could not delete appointment", "/output")
	}
	return c.Redirect(http.StatusSeeOther, "/output")
}
