package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"appointment-tracker/internal/config"
	"appointment-tracker/internal/handler"
	appmw "appointment-tracker/internal/middleware"
	"appointment-tracker/internal/store"
	"appointment-tracker/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	st := store.New(pool)
	if err := st.InitSchema(context.Background()); err != nil {
		log.Fatalf("schema init: %v", err)
	}
	log.Info("connected to postgres, schema ready")

	h := handler.New(st, validator.New(), cfg.SessionSecret)
	rl := appmw.NewRateLimiter(5, 10)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = web.NewRenderer()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(appmw.LoadUser(st, cfg.SessionSecret))

	e.GET("/", h.Home)
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register, rl.Limit)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, rl.Limit)
	e.POST("/logout", h.Logout, appmw.RequireUser)

	e.GET("/input", h.NewAppointmentForm, appmw.RequireUser)
	e.POST("/input", h.CreateAppointment, appmw.RequireUser)
	e.GET("/output", h.ListAppointments, appmw.RequireUser)
	e.POST("/delete/:id", h.DeleteAppointment, appmw.RequireUser)
	e.POST("/complete/:id", h.CompleteAppointment, appmw.RequireUser)
	e.GET("/edit/:id", h.EditAppointmentForm, appmw.RequireUser)
	e.POST("/edit/:id", h.UpdateAppointment, appmw.RequireUser)

	e.GET("/status/:id", h.StatusForm, appmw.RequireAdmin)
	e.POST("/status/:id", h.SetAppointmentStatus, appmw.RequireAdmin)
	e.GET("/admin/users", h.AdminUsers, appmw.RequireAdmin)
	e.GET("/admin/users/:id/appointments", h.AdminUserAppointments, appmw.RequireAdmin)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
