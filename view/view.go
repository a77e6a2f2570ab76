// Package view renders HTML pages from the templates embedded in the binary.
package view

import (
	"embed"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unrolled/render"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Renderer adapts unrolled/render to echo. Template names are file names
// under templates/ without the extension, e.g. "product-index".
type Renderer struct {
	render *render.Render
}

type Options struct {
	// Reload recompiles templates on every render.
	Reload bool
}

func New(opts Options) *Renderer {
	return &Renderer{
		render: render.New(render.Options{
			Directory:     "templates",
			FileSystem:    &render.EmbedFileSystem{FS: templates},
			Extensions:    []string{".tmpl"},
			IsDevelopment: opts.Reload,
		}),
	}
}

// Render implements echo.Renderer. Status and headers are set by echo once the
// body has been rendered without error.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.render.HTML(w, http.StatusOK, name, data)
}
