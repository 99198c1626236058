package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"appointment-tracker/internal/auth"
	"appointment-tracker/internal/middleware"
	"appointment-tracker/internal/store"
	"appointment-tracker/internal/web"
)

type registerForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	IsAdmin  string `form:"is_admin"` // checkbox: non-empty when checked
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return h.render(c, "Register", "register", nil)
}

func (h *Handler) Register(c echo.Context) error {
	var f registerForm
	if err := c.Bind(&f); err != nil {
		return flashRedirect(c, "Email and password are required", "/register")
	}
	web.TrimFields(&f)
	if err := h.validate.Struct(&f); err != nil {
		return flashRedirect(c, "Email and password are required", "/register")
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		log.Errorf("hash password: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	if _, err := h.store.CreateUser(c.Request().Context(), f.Email, hash, f.IsAdmin != ""); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return flashRedirect(c, "This email is already registered", "/register")
		}
		log.Errorf("create user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return flashRedirect(c, "Registration successful, please log in", "/login")
}

func (h *Handler) LoginForm(c echo.Context) error {
	return h.render(c, "Log in", "login", nil)
}

func (h *Handler) Login(c echo.Context) error {
	var f loginForm
	if err := c.Bind(&f); err != nil {
		return flashRedirect(c, "Invalid email or password", "/login")
	}
	web.TrimFields(&f)

	u, err := h.store.UserByEmail(c.Request().Context(), f.Email)
	if err != nil {
		log.Errorf("login lookup: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	// one generic message whether the account is missing or the
	// password is wrong
	if u == nil || f.Password == "" || !auth.CheckPassword(u.PasswordHash, f.Password) {
		return flashRedirect(c, "Invalid email or password", "/login")
	}

	tok, err := auth.MakeSessionToken(u.ID, h.secret)
	if err != nil {
		log.Errorf("make session token: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	c.SetCookie(middleware.NewSessionCookie(tok))
	return c.Redirect(http.StatusSeeOther, "/output")
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(middleware.ExpiredSessionCookie())
	return c.Redirect(http.StatusSeeOther, "/login")
}
