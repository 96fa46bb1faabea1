package core

import "math"

const (
	// EngagementCeiling is the upper bound of the engagement gauge axis.
	EngagementCeiling = 500
	// ProGrowthReference is the baseline the pro-growth delta is measured against.
	ProGrowthReference = 100
	// RevenueGoal is the upper bound of the revenue goal bullet.
	RevenueGoal = 100000
)

// LabelledRow is one line of the statistics table.
type LabelledRow struct {
	Key     Key    `json:"key"`
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

// Highlight is one of the headline cards above the table.
type Highlight struct {
	Title   string `json:"title"`
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

// Series is a labelled list of values for bar, donut, area and funnel charts.
type Series struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// Total sums the series values, saturating at math.MaxInt64.
func (s Series) Total() int64 {
	var t int64
	for _, v := range s.Values {
		if v > 0 && t > math.MaxInt64-v {
			return math.MaxInt64
		}
		t += v
	}
	return t
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() int64 {
	var m int64
	for _, v := range s.Values {
		m = max(m, v)
	}
	return m
}

// Gauge is a single value on a [0, Max] axis.
type Gauge struct {
	Value int64 `json:"value"`
	Max   int64 `json:"max"`
}

// Percent returns how far along the axis Value sits, clamped to [0, 100].
func (g Gauge) Percent() float64 {
	if g.Max <= 0 {
		return 0
	}
	p := float64(g.Value) / float64(g.Max) * 100
	return min(max(p, 0), 100)
}

// Delta is a value compared against a fixed reference.
type Delta struct {
	Value     int64 `json:"value"`
	Reference int64 `json:"reference"`
}

// Change returns Value minus Reference.
func (d Delta) Change() int64 {
	return d.Value - d.Reference
}

// Charts holds the inputs of the nine dashboard figures.
type Charts struct {
	UserFlow     Series `json:"user_flow"`
	RevenueShare Series `json:"revenue_share"`
	Engagement   Gauge  `json:"engagement"`
	UniqueReach  Series `json:"unique_reach"`
	FeeRatio     Series `json:"fee_ratio"`
	ProGrowth    Delta  `json:"pro_growth"`
	Traction     Series `json:"traction"`
	GoalTrack    Gauge  `json:"goal_track"`
	Conversion   Series `json:"conversion"`
}

// Dashboard is everything a single refresh shows.
type Dashboard struct {
	Counters   Counters         `json:"counters"`
	Rows       []LabelledRow    `json:"rows"`
	Columns    [2][]LabelledRow `json:"columns"`
	Highlights []Highlight      `json:"highlights"`
	Charts     Charts           `json:"charts"`
}

// Map turns a raw source row into the dashboard view model. It is pure: the
// same row always yields the same dashboard, and row is never modified.
func Map(row RawRow) Dashboard {
	return MapCounters(Normalize(row))
}

// MapCounters builds the view model from already normalized counters.
func MapCounters(c Counters) Dashboard {
	rows := make([]LabelledRow, 0, len(Keys))
	for _, k := range Keys {
		v := c.Value(k)
		rows = append(rows, LabelledRow{
			Key:     k,
			Label:   Label(string(k)),
			Value:   v,
			Display: FormatValue(k, v),
		})
	}

	half := len(rows) / 2
	return Dashboard{
		Counters: c,
		Rows:     rows,
		Columns:  [2][]LabelledRow{rows[:half:half], rows[half:]},
		Highlights: []Highlight{
			{Title: "FAIR REACH", Value: c.TotalRegistered, Display: FormatCount(c.TotalRegistered)},
			{Title: "TOTAL APPS", Value: c.Application, Display: FormatCount(c.Application)},
			{Title: "NET REVENUE", Value: c.TotalRevenue, Display: FormatTaka(c.TotalRevenue)},
		},
		Charts: BuildCharts(c),
	}
}

// AllRows returns both table columns concatenated.
func (d Dashboard) AllRows() []LabelledRow {
	out := make([]LabelledRow, 0, len(d.Columns[0])+len(d.Columns[1]))
	out = append(out, d.Columns[0]...)
	return append(out, d.Columns[1]...)
}

// BuildCharts derives the nine chart inputs from the counters.
func BuildCharts(c Counters) Charts {
	return Charts{
		UserFlow: Series{
			Labels: []string{"Reg", "Vis", "Apps"},
			Values: []int64{c.TotalRegistered, c.Visitors, c.AppliedToJob},
		},
		RevenueShare: Series{
			Labels: []string{"Direct", "Pro"},
			Values: []int64{c.DirectPayment, c.AmountProUsers},
		},
		Engagement: Gauge{Value: EngagementMetric(c), Max: EngagementCeiling},
		UniqueReach: Series{
			Labels: []string{"Uni", "Tot"},
			Values: []int64{c.UniqueApplicant, c.Application},
		},
		FeeRatio: Series{
			Labels: []string{"Dir", "Fee"},
			Values: []int64{c.DirectPayment, c.PaidByApplicants},
		},
		ProGrowth: Delta{Value: c.ProUsersToday, Reference: ProGrowthReference},
		Traction: Series{
			Labels: []string{"D-2", "D-1", "Live"},
			Values: []int64{0, 0, c.TotalCompanies},
		},
		GoalTrack: Gauge{Value: c.TotalRevenue, Max: RevenueGoal},
		Conversion: Series{
			Labels: []string{"Visitors", "Applicants"},
			Values: []int64{c.Visitors, c.UniqueApplicant},
		},
	}
}

// EngagementMetric is applications per participating company, truncated.
// It is 0 when no companies are registered.
func EngagementMetric(c Counters) int64 {
	if c.TotalCompanies == 0 {
		return 0
	}
	return c.Application / c.TotalCompanies
}
