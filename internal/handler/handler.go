package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"appointment-tracker/internal/middleware"
	"appointment-tracker/internal/store"
	"appointment-tracker/internal/web"
)

type Handler struct {
	store    *store.Store
	validate *validator.Validate
	secret   string
}

func New(st *store.Store, validate *validator.Validate, secret string) *Handler {
	return &Handler{store: st, validate: validate, secret: secret}
}

// Home sends visitors to the appointment form, or to login when no
// session resolves.
func (h *Handler) Home(c echo.Context) error {
	if middleware.CurrentUser(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Redirect(http.StatusSeeOther, "/input")
}

func (h *Handler) render(c echo.Context, title, name string, data any) error {
	return c.Render(http.StatusOK, name, &web.Page{
		Title: title,
		User:  middleware.CurrentUser(c),
		Flash: web.TakeFlash(c),
		Data:  data,
	})
}

func flashRedirect(c echo.Context, msg, to string) error {
	web.SetFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
