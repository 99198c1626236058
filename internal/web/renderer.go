package web

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"appointment-tracker/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the envelope every template receives.
type Page struct {
	Title string
	User  *model.User // current user, nil when logged out
	Flash string
	Data  any
}

type Renderer struct {
	templates *template.Template
}

var funcs = template.FuncMap{
	// timestamp renders a nullable audit timestamp, empty when unset.
	"timestamp": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
}

func NewRenderer() *Renderer {
	return &Renderer{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
