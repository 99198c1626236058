package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Session cookie signing key
	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	// Network
	Port string `envconfig:"PORT" default:"8080"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
