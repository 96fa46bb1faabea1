package http

import (
	"net/http"
	"time"

	"fairdash/internal/charts"
	"fairdash/internal/core"
	"fairdash/internal/log"
)

type pageData struct {
	FairName       string
	FairTitle      string
	LogoURL        string
	Theme          string
	Palette        core.Palette
	Countdown      core.CountdownState
	EventStart     string
	EventEnd       string
	RefreshSeconds int
}

type dashboardResponse struct {
	Theme       string                `json:"theme"`
	Palette     core.Palette          `json:"palette"`
	GeneratedAt time.Time             `json:"generated_at"`
	Highlights  []core.Highlight      `json:"highlights"`
	Columns     [2][]core.LabelledRow `json:"columns"`
	Charts      core.Charts           `json:"charts"`
	Figures     []charts.Figure       `json:"figures"`
}

type countdownResponse struct {
	core.CountdownState
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// handleIndex renders the full page. The dashboard itself is loaded by htmx.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	theme := s.resolveTheme(r)
	data := pageData{
		FairName:       s.opts.FairName,
		FairTitle:      s.opts.FairTitle,
		LogoURL:        s.opts.LogoURL,
		Theme:          theme.String(),
		Palette:        core.PaletteFor(theme),
		Countdown:      core.Countdown(s.now(), s.opts.EventStart, s.opts.EventEnd),
		EventStart:     s.opts.EventStart.Format(time.RFC3339),
		EventEnd:       s.opts.EventEnd.Format(time.RFC3339),
		RefreshSeconds: refreshSeconds(s.opts.RefreshInterval),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err,
			"template", "index.html")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleDashboardPartial runs one tick and renders the dashboard fragment.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	render := s.dashboard.Tick(r.Context(), s.resolveTheme(r))
	s.tracer.CountTick()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", render); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard template execution failed",
			log.FieldError, err,
			log.FieldTheme, render.Theme.String(),
			"template", "dashboard.html")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleDashboardJSON runs one tick and returns it as JSON.
func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	render := s.dashboard.Tick(r.Context(), s.resolveTheme(r))
	s.tracer.CountTick()

	resp := dashboardResponse{
		Theme:       render.Theme.String(),
		Palette:     render.Palette,
		GeneratedAt: render.GeneratedAt,
		Highlights:  render.Dashboard.Highlights,
		Columns:     render.Dashboard.Columns,
		Charts:      render.Dashboard.Charts,
		Figures:     render.Figures,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write dashboard JSON", log.FieldError, err)
	}
}

// handleCountdown returns the event clock for the configured window.
func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	resp := countdownResponse{
		CountdownState: core.Countdown(s.now(), s.opts.EventStart, s.opts.EventEnd),
		Start:          s.opts.EventStart,
		End:            s.opts.EventEnd,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write countdown JSON", log.FieldError, err)
	}
}

// handleTheme stores the chosen theme in a cookie. Without a theme field it
// flips the current one.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}

	theme, ok := core.ParseTheme(r.PostForm.Get(themeParam))
	if raw := r.PostForm.Get(themeParam); raw != "" && !ok {
		BadRequestError("unknown theme " + raw).Write(w)
		return
	}
	if !ok {
		theme = s.resolveTheme(r).Toggle()
	}

	http.SetCookie(w, themeCookie(theme, r.TLS != nil))
	log.FromContext(r.Context()).DebugContext(r.Context(), "Theme changed", log.FieldTheme, theme.String())

	NewHTMXResponse().
		TriggerThemeChanged(theme.String()).
		Write(w)
}
