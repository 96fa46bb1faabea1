package charts

import "html/template"

// Kinds of figure. Only bar, donut and area carry SVG; the rest are drawn
// from their indicator fields by the page.
const (
	KindBar    = "bar"
	KindDonut  = "donut"
	KindArea   = "area"
	KindGauge  = "gauge"
	KindDelta  = "delta"
	KindBullet = "bullet"
	KindFunnel = "funnel"
)

// Figure is one rendered dashboard chart.
type Figure struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Kind  string `json:"kind"`

	// SVG is the chart markup produced by go-chart. Empty for indicators and placeholders.
	SVG template.HTML `json:"-"`
	// Placeholder is set when there was nothing to draw or drawing failed.
	Placeholder bool `json:"placeholder"`

	// Indicator data for gauge, delta and bullet figures.
	Value     int64   `json:"value"`
	Display   string  `json:"display,omitempty"`
	Max       int64   `json:"max,omitempty"`
	Percent   float64 `json:"percent,omitempty"`
	Reference int64   `json:"reference,omitempty"`
	Change    int64   `json:"change,omitempty"`
}

// HasSVG reports whether the figure should be drawn from its SVG markup.
func (f Figure) HasSVG() bool {
	return !f.Placeholder && f.SVG != ""
}

// ChangeDisplay renders the delta change with an explicit sign.
func (f Figure) ChangeDisplay() string {
	if f.Change > 0 {
		return "+" + formatInt(f.Change)
	}
	return formatInt(f.Change)
}

// Rising reports whether a delta figure is at or above its reference.
func (f Figure) Rising() bool {
	return f.Change >= 0
}
