package charts

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fairdash/internal/core"
	"fairdash/internal/log"
)

func demoCharts() core.Charts {
	return core.BuildCharts(core.Normalize(core.RawRow{
		"total_registered":   500,
		"visitors":           300,
		"applied_to_job":     120,
		"application":        400,
		"unique_applicant":   250,
		"total_companies":    10,
		"direct_payment":     1000,
		"paid_by_applicants": 500,
		"pro_users_today":    20,
		"amount_pro_users":   2000,
		"total_revenue":      50000,
		"pro_seeker_total":   80,
	}))
}

func names(figs []Figure) []string {
	out := make([]string, len(figs))
	for i, f := range figs {
		out[i] = f.Title
	}
	return out
}

func TestRenderer_OrderAndKinds(t *testing.T) {
	r := NewRenderer(log.Discard())
	figs := r.Render(demoCharts(), core.PaletteFor(core.Dark))

	require.Len(t, figs, 9)
	assert.Equal(t, []string{
		"USER FLOW", "REVENUE SHARE", "ENGAGEMENT", "UNIQUE REACH", "FEE RATIO",
		"PRO GROWTH", "TRACTION", "GOAL TRACK", "CONVERSION",
	}, names(figs))

	kinds := map[string]string{}
	for _, f := range figs {
		kinds[f.Name] = f.Kind
	}
	assert.Equal(t, KindBar, kinds[NameUserFlow])
	assert.Equal(t, KindDonut, kinds[NameRevenueShare])
	assert.Equal(t, KindGauge, kinds[NameEngagement])
	assert.Equal(t, KindDelta, kinds[NameProGrowth])
	assert.Equal(t, KindArea, kinds[NameTraction])
	assert.Equal(t, KindBullet, kinds[NameGoalTrack])
	assert.Equal(t, KindFunnel, kinds[NameConversion])
}

func TestRenderer_DrawsSVG(t *testing.T) {
	r := NewRenderer(log.Discard())
	figs := r.Render(demoCharts(), core.PaletteFor(core.Light))

	for _, i := range []int{0, 1, 3, 4, 6, 8} {
		f := figs[i]
		assert.Falsef(t, f.Placeholder, "%s should not be a placeholder", f.Title)
		assert.Truef(t, strings.HasPrefix(strings.TrimSpace(string(f.SVG)), "<svg"), "%s should carry svg markup", f.Title)
		assert.True(t, f.HasSVG())
	}
}

func TestRenderer_Indicators(t *testing.T) {
	figs := NewRenderer(log.Discard()).Render(demoCharts(), core.PaletteFor(core.Dark))

	engagement := figs[2]
	assert.Equal(t, int64(40), engagement.Value)
	assert.Equal(t, int64(core.EngagementCeiling), engagement.Max)
	assert.InDelta(t, 8.0, engagement.Percent, 0.001)
	assert.Empty(t, engagement.SVG)

	growth := figs[5]
	assert.Equal(t, int64(20), growth.Value)
	assert.Equal(t, int64(-80), growth.Change)
	assert.Equal(t, "-80", growth.ChangeDisplay())
	assert.False(t, growth.Rising())

	goal := figs[7]
	assert.Equal(t, "৳50,000", goal.Display)
	assert.InDelta(t, 50.0, goal.Percent, 0.001)
}

func TestRenderer_AllZeroRowNeverFails(t *testing.T) {
	c := core.BuildCharts(core.Normalize(core.FallbackRow()))
	figs := NewRenderer(log.Discard()).Render(c, core.PaletteFor(core.Dark))

	require.Len(t, figs, 9)
	assert.True(t, figs[1].Placeholder, "revenue donut with zero total")
	assert.True(t, figs[4].Placeholder, "fee donut with zero total")
	assert.Empty(t, figs[1].SVG)

	for _, i := range []int{0, 3, 6, 8} {
		assert.Falsef(t, figs[i].Placeholder, "%s should still draw", figs[i].Title)
		assert.NotEmpty(t, figs[i].SVG)
	}
}

func TestRenderer_HugeDonutStillDraws(t *testing.T) {
	c := core.BuildCharts(core.Counters{DirectPayment: math.MaxInt64, AmountProUsers: math.MaxInt64})
	figs := NewRenderer(log.Discard()).Render(c, core.PaletteFor(core.Light))

	require.Len(t, figs, 9)
	assert.Equal(t, NameRevenueShare, figs[1].Name)
	assert.False(t, figs[1].Placeholder, "full revenue series must not look empty")
}

func TestRenderer_RenderErrorBecomesPlaceholder(t *testing.T) {
	r := NewRenderer(log.Discard())
	r.provider = func(int, int) (chart.Renderer, error) {
		return nil, errors.New("renderer unavailable")
	}

	figs := r.Render(demoCharts(), core.PaletteFor(core.Dark))
	require.Len(t, figs, 9)
	for _, f := range figs {
		assert.Empty(t, f.SVG)
	}
	assert.True(t, figs[0].Placeholder)
	assert.True(t, figs[1].Placeholder)
	assert.True(t, figs[6].Placeholder)
	assert.False(t, figs[2].Placeholder, "indicators do not depend on the renderer")
}

func TestPinnedRange(t *testing.T) {
	assert.Equal(t, 1.0, pinnedRange(0).Max)
	assert.Equal(t, 0.0, pinnedRange(0).Min)
	assert.Equal(t, 300.0, pinnedRange(300).Max)
}

func TestFigure_ChangeDisplay(t *testing.T) {
	assert.Equal(t, "+1,200", Figure{Change: 1200}.ChangeDisplay())
	assert.Equal(t, "0", Figure{}.ChangeDisplay())
	assert.True(t, Figure{}.Rising())
}

func TestPaletteColor(t *testing.T) {
	fallback := drawing.ColorRed
	tests := []struct {
		in   string
		want drawing.Color
	}{
		{"#00d2ff", drawing.Color{R: 0, G: 210, B: 255, A: 255}},
		{"#003366", drawing.Color{R: 0, G: 51, B: 102, A: 255}},
		{"rgba(0,210,255,0.1)", drawing.Color{R: 0, G: 210, B: 255, A: 26}},
		{"", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, paletteColor(tt.in, fallback))
		})
	}
}

func TestNewStyler_Palettes(t *testing.T) {
	for _, theme := range []core.Theme{core.Light, core.Dark} {
		s := newStyler(core.PaletteFor(theme))
		assert.NotEqual(t, drawing.ColorBlue, s.accent, theme.String())
		assert.Equal(t, uint8(255), s.accent.A, theme.String())
		assert.Equal(t, uint8(255), s.text.A, theme.String())
		assert.Less(t, s.grid.A, uint8(64), theme.String())
	}
}
