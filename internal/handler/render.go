package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS serves the stylesheet and other assets under /static.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

const layoutTemplate = "layout.html"

// Renderer parses every page together with the shared layout and serves
// them through gin's HTMLRender hook.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"roleLabel": func(r model.Role) string { return r.Label() },
	"band":      func(score float64) string { return string(view.BandFor(score)) },
	"score": func(score float64) string {
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", score), "0"), ".")
	},
	"roles": func() []model.Role { return model.AllRoles },
	"statuses": func() []model.AttendanceStatus {
		return model.AttendanceStatuses
	},
}

// NewRenderer loads the embedded templates.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := path.Base(name)
		if base == layoutTemplate {
			continue
		}
		t, err := template.New(base).Funcs(templateFuncs).ParseFS(fsys, "templates/"+layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		r.pages[base] = t
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic("handler: unknown template " + name)
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}
