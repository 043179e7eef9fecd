package domain

import "time"

// WeeklyRecord is a single week of observed deaths as read from the source report.
type WeeklyRecord struct {
	Label       string // "2024-01-07", "Week 45"
	TotalDeaths int
}

// Source markers used in report metadata.
const (
	SourceFallback = "fallback:baseline"
)

// ReportMeta describes where and when a report was produced
type ReportMeta struct {
	UpdatedAt time.Time
	Source    string
	Note      string
}

// NationalSeries holds the week-aligned national totals and their cause split
type NationalSeries struct {
	Weeks       []string
	TotalDeaths []int
	Natural     []int
	Unnatural   []int
}

// Demographics holds whole-period totals split by gender and race
type Demographics struct {
	Gender map[string]int
	Race   map[string]int
}

// ProvinceSeries holds the week-aligned estimate for a single province
type ProvinceSeries struct {
	Deaths    []int
	Natural   []int
	Unnatural []int
}

// Breakdown is everything derived from the weekly records; it carries no metadata.
type Breakdown struct {
	National     NationalSeries
	Demographics Demographics
	Provinces    map[string]ProvinceSeries
}

// AggregateReport is the complete document handed to the dashboard.
type AggregateReport struct {
	Meta ReportMeta
	Breakdown
}

// IsFallback reports whether the report was built from the static baseline.
func (r AggregateReport) IsFallback() bool {
	return r.Meta.Source == SourceFallback
}
