package frontend

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Template adapts html/template to Echo's Renderer interface.
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
