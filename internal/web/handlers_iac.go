package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/flosch/pongo2/v6"
	"github.com/rs/zerolog"
)

// fieldView is one row of the create-IaC form.
type fieldView struct {
	Name      string
	Label     string
	Selected  bool
	Value     string
	Multiline bool
}

func fieldViews(f *iac.Form) []fieldView {
	fields := f.Fields()
	out := make([]fieldView, len(fields))
	for i, fld := range fields {
		out[i] = fieldView{
			Name:      fld.Key.String(),
			Label:     fld.Label,
			Selected:  fld.Selected,
			Value:     fld.Value,
			Multiline: fld.Key.Multiline(),
		}
	}
	return out
}

// currentUser returns the authenticated profile; requireAuth guarantees one.
func currentUser(r *http.Request) *authapi.Profile {
	mgr, _ := SessionFromContext(r.Context())
	return mgr.State().User
}

func owner(r *http.Request) string { return currentUser(r).ID.String() }

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	configs, err := s.lib.List(r.Context(), owner(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("listing configurations")
		s.renderError(w, r, http.StatusInternalServerError, "Saved configurations are unavailable.")
		return
	}
	s.render(w, r, http.StatusOK, "dashboard.html", pongo2.Context{"configs": configs})
}

// editorState is what the create-IaC page shows.
type editorState struct {
	id, name, notice, err string
	form                  *iac.Form
}

func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request, status int, st editorState) {
	s.metrics.documents.WithLabelValues("preview").Inc()
	s.render(w, r, status, "create_iac.html", pongo2.Context{
		"config_id": st.id,
		"name":      st.name,
		"notice":    st.notice,
		"error":     st.err,
		"fields":    fieldViews(st.form),
		"document":  st.form.Render(),
	})
}

func (s *Server) handleCreateIaCPage(w http.ResponseWriter, r *http.Request) {
	st := editorState{form: iac.EmptyForm()}
	if id := r.URL.Query().Get("config"); id != "" {
		cfg, err := s.lib.Get(r.Context(), owner(r), id)
		if err != nil {
			s.libraryError(w, r, err)
			return
		}
		st.id, st.name, st.form = cfg.ID, cfg.Name, cfg.Form
		if r.URL.Query().Get("saved") != "" {
			st.notice = "Configuration saved."
		}
	}
	s.renderEditor(w, r, http.StatusOK, st)
}

func (s *Server) handleCreateIaC(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	st := editorState{
		id:   r.PostForm.Get("config"),
		name: strings.TrimSpace(r.PostForm.Get("name")),
	}
	form, err := formFromValues(r.PostForm)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	st.form = form

	switch r.PostForm.Get("action") {
	case "clear":
		st.form.Clear()
		s.renderEditor(w, r, http.StatusOK, st)

	case "download":
		s.metrics.documents.WithLabelValues("download").Inc()
		w.Header().Set("Content-Type", iac.ExportMIMEType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", iac.ExportFileName))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(form.Render()))

	case "save":
		cfg := &library.Config{ID: st.id, Owner: owner(r), Name: st.name, Form: form}
		if err := s.lib.Save(r.Context(), cfg); err != nil {
			if errors.Is(err, library.ErrNotFound) {
				s.libraryError(w, r, err)
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("saving configuration")
			st.err = "The configuration could not be saved."
			s.renderEditor(w, r, http.StatusInternalServerError, st)
			return
		}
		http.Redirect(w, r, "/dashboard/create-iac?config="+url.QueryEscape(cfg.ID)+"&saved=1", http.StatusSeeOther)

	default:
		s.renderEditor(w, r, http.StatusOK, st)
	}
}

// formFromValues reads "selected" checkboxes and "value.<field>" inputs.
func formFromValues(v url.Values) (*iac.Form, error) {
	values := make(map[string]string)
	for k, vs := range v {
		if name, ok := strings.CutPrefix(k, "value."); ok && len(vs) > 0 {
			values[name] = strings.ReplaceAll(vs[0], "\r\n", "\n")
		}
	}
	return iac.NewForm(v["selected"], values)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.lib.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.libraryError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "config.html", pongo2.Context{
		"config":   cfg,
		"document": cfg.Document(),
	})
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.lib.Delete(r.Context(), owner(r), r.PathValue("id")); err != nil {
		s.libraryError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) libraryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, library.ErrNotFound) {
		s.renderError(w, r, http.StatusNotFound, "No such configuration.")
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("library")
	s.renderError(w, r, http.StatusInternalServerError, "Saved configurations are unavailable.")
}

// RenderRequest is the body of POST /api/iac/render.
type RenderRequest struct {
	Selected []string          `json:"selected"`
	Values   map[string]string `json:"values"`
}

// RenderResponse is the reply of POST /api/iac/render.
type RenderResponse struct {
	Document string `json:"document"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	form, err := iac.NewForm(req.Selected, req.Values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.documents.WithLabelValues("api").Inc()
	writeJSON(w, http.StatusOK, RenderResponse{Document: form.Render()})
}
