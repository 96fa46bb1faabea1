// Package charts draws the dashboard figures as inline SVG.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fairdash/internal/core"
	"fairdash/internal/log"
)

const (
	figureWidth  = 320
	figureHeight = 160
	barWidth     = 42
)

// Figure names in display order.
const (
	NameUserFlow     = "user_flow"
	NameRevenueShare = "revenue_share"
	NameEngagement   = "engagement"
	NameUniqueReach  = "unique_reach"
	NameFeeRatio     = "fee_ratio"
	NameProGrowth    = "pro_growth"
	NameTraction     = "traction"
	NameGoalTrack    = "goal_track"
	NameConversion   = "conversion"
)

var errNoData = errors.New("no data to draw")

// Renderer turns chart inputs into figures. It is safe for concurrent use.
type Renderer struct {
	logger   *log.Logger
	provider chart.RendererProvider
}

// NewRenderer creates an SVG renderer.
func NewRenderer(logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Renderer{
		logger:   logger.WithComponent(log.ComponentCharts),
		provider: chart.SVG,
	}
}

// Render returns the nine dashboard figures in display order. It never
// fails: a chart that cannot be drawn becomes a placeholder.
func (r *Renderer) Render(c core.Charts, p core.Palette) []Figure {
	s := newStyler(p)

	return []Figure{
		r.bars(NameUserFlow, "USER FLOW", KindBar, c.UserFlow, s),
		r.donut(NameRevenueShare, "REVENUE SHARE", c.RevenueShare, s),
		gauge(NameEngagement, "ENGAGEMENT", KindGauge, c.Engagement, core.FormatCount(c.Engagement.Value)),
		r.bars(NameUniqueReach, "UNIQUE REACH", KindBar, c.UniqueReach, s),
		r.donut(NameFeeRatio, "FEE RATIO", c.FeeRatio, s),
		delta(NameProGrowth, "PRO GROWTH", c.ProGrowth),
		r.area(NameTraction, "TRACTION", c.Traction, s),
		gauge(NameGoalTrack, "GOAL TRACK", KindBullet, c.GoalTrack, core.FormatTaka(c.GoalTrack.Value)),
		r.bars(NameConversion, "CONVERSION", KindFunnel, c.Conversion, s),
	}
}

func (r *Renderer) bars(name, title, kind string, series core.Series, s styler) Figure {
	fig := Figure{Name: name, Title: title, Kind: kind}

	bars := make([]chart.Value, len(series.Values))
	for i, v := range series.Values {
		bars[i] = chart.Value{
			Label: series.Labels[i],
			Value: float64(v),
			Style: chart.Style{FillColor: s.accent, StrokeColor: s.accent, StrokeWidth: 1},
		}
	}

	bc := chart.BarChart{
		Width:      figureWidth,
		Height:     figureHeight,
		BarWidth:   barWidth,
		Background: s.background(),
		Canvas:     s.background(),
		XAxis:      s.labels(),
		YAxis: chart.YAxis{
			Style:          s.labels(),
			Range:          pinnedRange(series.Max()),
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	return r.draw(fig, func(buf *bytes.Buffer) error {
		if len(bars) == 0 {
			return errNoData
		}
		return bc.Render(r.provider, buf)
	})
}

func (r *Renderer) donut(name, title string, series core.Series, s styler) Figure {
	fig := Figure{Name: name, Title: title, Kind: KindDonut}
	if series.Total() <= 0 {
		fig.Placeholder = true
		return fig
	}

	fills := []drawing.Color{s.accent, s.alt}
	values := make([]chart.Value, 0, len(series.Values))
	for i, v := range series.Values {
		if v <= 0 {
			continue
		}
		fill := fills[i%len(fills)]
		values = append(values, chart.Value{
			Label: series.Labels[i],
			Value: float64(v),
			Style: chart.Style{FillColor: fill, StrokeColor: s.clear, FontColor: s.text},
		})
	}

	dc := chart.DonutChart{
		Width:      figureWidth,
		Height:     figureHeight,
		Background: s.background(),
		Canvas:     s.background(),
		SliceStyle: chart.Style{StrokeColor: s.clear, FontColor: s.text},
		Values:     values,
	}
	return r.draw(fig, func(buf *bytes.Buffer) error {
		return dc.Render(r.provider, buf)
	})
}

func (r *Renderer) area(name, title string, series core.Series, s styler) Figure {
	fig := Figure{Name: name, Title: title, Kind: KindArea}

	xs := make([]float64, len(series.Values))
	ys := make([]float64, len(series.Values))
	ticks := make([]chart.Tick, len(series.Values))
	for i, v := range series.Values {
		xs[i] = float64(i)
		ys[i] = float64(v)
		ticks[i] = chart.Tick{Value: float64(i), Label: series.Labels[i]}
	}

	ch := chart.Chart{
		Width:      figureWidth,
		Height:     figureHeight,
		Background: s.background(),
		Canvas:     s.background(),
		XAxis:      chart.XAxis{Style: s.labels(), Ticks: ticks},
		YAxis: chart.YAxis{
			Style:          s.labels(),
			Range:          pinnedRange(series.Max()),
			ValueFormatter: countFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: s.accent,
					StrokeWidth: 2,
					FillColor:   s.accent.WithAlpha(64),
				},
			},
		},
	}
	return r.draw(fig, func(buf *bytes.Buffer) error {
		// a line needs two points
		if len(xs) < 2 {
			return errNoData
		}
		return ch.Render(r.provider, buf)
	})
}

func (r *Renderer) draw(fig Figure, render func(*bytes.Buffer) error) Figure {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		r.logger.Warn("Chart render failed, showing placeholder",
			log.FieldChart, fig.Name,
			log.FieldError, err)
		fig.Placeholder = true
		return fig
	}
	fig.SVG = template.HTML(buf.String())
	return fig
}

func gauge(name, title, kind string, g core.Gauge, display string) Figure {
	return Figure{
		Name:    name,
		Title:   title,
		Kind:    kind,
		Value:   g.Value,
		Display: display,
		Max:     g.Max,
		Percent: g.Percent(),
	}
}

func delta(name, title string, d core.Delta) Figure {
	return Figure{
		Name:      name,
		Title:     title,
		Kind:      KindDelta,
		Value:     d.Value,
		Display:   core.FormatCount(d.Value),
		Reference: d.Reference,
		Change:    d.Change(),
	}
}

// pinnedRange keeps the y axis at least [0, 1] so all-zero series still draw.
func pinnedRange(top int64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: 0, Max: float64(max(top, 1))}
}

func countFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return fmt.Sprint(v)
}

func formatInt(n int64) string {
	return humanize.Comma(n)
}

type styler struct {
	accent drawing.Color
	alt    drawing.Color
	text   drawing.Color
	grid   drawing.Color
	clear  drawing.Color
}

func newStyler(p core.Palette) styler {
	return styler{
		accent: paletteColor(p.Accent, drawing.ColorBlue),
		alt:    paletteColor(p.Alt, drawing.ColorFromHex("334155")),
		text:   paletteColor(p.Text, drawing.ColorBlack),
		grid:   paletteColor(p.Grid, drawing.ColorTransparent),
		clear:  drawing.ColorTransparent,
	}
}

// paletteColor reads a CSS color token, or returns fallback when it is empty or unknown.
func paletteColor(token string, fallback drawing.Color) drawing.Color {
	if c := drawing.ParseColor(token); !c.IsZero() {
		return c
	}
	return fallback
}

func (s styler) background() chart.Style {
	return chart.Style{FillColor: s.clear, StrokeColor: s.clear}
}

func (s styler) labels() chart.Style {
	return chart.Style{FontColor: s.text, StrokeColor: s.grid, FontSize: 9}
}
