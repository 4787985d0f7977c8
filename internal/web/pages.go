package web

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
)

var pageNames = []string{
	"home.html",
	"sign_in.html",
	"sign_up.html",
	"dashboard.html",
	"create_iac.html",
	"config.html",
	"error.html",
}

// pages holds the parsed templates and the pre-rendered landing content.
type pages struct {
	templates map[string]*pongo2.Template
	landing   string
}

func loadPages(assets fs.FS) (*pages, error) {
	dir, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	set := pongo2.NewSet("automize", pongo2.NewFSLoader(dir))

	p := &pages{templates: make(map[string]*pongo2.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := set.FromFile(name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}

	md, err := fs.ReadFile(assets, "content/landing.md")
	if err != nil {
		return nil, fmt.Errorf("reading landing content: %w", err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("converting landing content: %w", err)
	}
	p.landing = buf.String()
	return p, nil
}

// render executes the named page into a buffer and writes it with status,
// so a template failure still yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pongo2.Context) {
	tmpl, ok := s.pages.templates[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}
	ctx := pongo2.Context{}
	if mgr, ok := SessionFromContext(r.Context()); ok {
		if st := mgr.State(); st.User != nil {
			ctx["user"] = st.User
		}
	}
	ctx = ctx.Update(data)

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error.html", pongo2.Context{
		"status":  fmt.Sprintf("%d %s", status, http.StatusText(status)),
		"message": message,
	})
}
