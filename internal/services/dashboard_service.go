package services

import (
	"context"
	"time"

	"fairdash/internal/charts"
	"fairdash/internal/core"
	"fairdash/internal/log"
)

// RowFetcher returns the latest raw row, never failing.
type RowFetcher interface {
	FetchLatest(ctx context.Context) core.RawRow
}

// ChartRenderer draws the chart inputs of one dashboard.
type ChartRenderer interface {
	Render(c core.Charts, p core.Palette) []charts.Figure
}

// Render is the result of one tick.
type Render struct {
	Theme       core.Theme
	Palette     core.Palette
	Dashboard   core.Dashboard
	Figures     []charts.Figure
	GeneratedAt time.Time
}

// DashboardService runs ticks. It keeps no state between them.
type DashboardService struct {
	fetcher  RowFetcher
	renderer ChartRenderer
	logger   *log.Logger
	now      func() time.Time
}

func NewDashboardService(fetcher RowFetcher, renderer ChartRenderer, logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DashboardService{
		fetcher:  fetcher,
		renderer: renderer,
		logger:   logger.WithComponent(log.ComponentDashboard),
		now:      time.Now,
	}
}

// Tick fetches the latest row, maps it and renders the figures for theme.
func (s *DashboardService) Tick(ctx context.Context, theme core.Theme) Render {
	start := s.now()

	row := s.fetcher.FetchLatest(ctx)
	dash := core.Map(row)
	palette := core.PaletteFor(theme)
	figures := s.renderer.Render(dash.Charts, palette)

	s.logger.DebugContext(ctx, "Dashboard tick complete",
		log.FieldTheme, theme.String(),
		log.FieldDuration, s.now().Sub(start).Milliseconds())

	return Render{
		Theme:       theme,
		Palette:     palette,
		Dashboard:   dash,
		Figures:     figures,
		GeneratedAt: start,
	}
}
