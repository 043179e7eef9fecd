package adapters

import (
	"fmt"
	"sort"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
)

// MapAggregateReportToTerminal flattens a report into titled sections for the
// terminal reporter.
func MapAggregateReportToTerminal(r domain.AggregateReport) *domain.Report {
	res := &domain.Report{
		Title:     "Weekly Deaths Report",
		UpdatedAt: r.Meta.UpdatedAt,
		Source:    r.Meta.Source,
		Note:      r.Meta.Note,
	}

	national := domain.ReportSection{
		Title: "National",
		Summary: map[string]interface{}{
			"Weeks":        len(r.National.Weeks),
			"Total Deaths": sumInts(r.National.TotalDeaths),
		},
	}
	for i, week := range r.National.Weeks {
		national.Details = append(national.Details, domain.ReportDetail{
			Name:        week,
			Value:       valueAt(r.National.TotalDeaths, i),
			Unit:        "deaths",
			Description: formatSplit(valueAt(r.National.Natural, i), valueAt(r.National.Unnatural, i)),
		})
	}
	res.Sections = append(res.Sections, national)

	res.Sections = append(res.Sections,
		countsSection("Gender (estimated)", r.Demographics.Gender),
		countsSection("Race (estimated)", r.Demographics.Race),
	)

	provinces := domain.ReportSection{
		Title:   "Provinces (estimated)",
		Summary: map[string]interface{}{"Provinces": len(r.Provinces)},
	}
	for _, name := range sortedKeys(r.Provinces) {
		p := r.Provinces[name]
		provinces.Details = append(provinces.Details, domain.ReportDetail{
			Name:        name,
			Value:       sumInts(p.Deaths),
			Unit:        "deaths",
			Description: formatSplit(sumInts(p.Natural), sumInts(p.Unnatural)),
		})
	}
	res.Sections = append(res.Sections, provinces)

	return res
}

func countsSection(title string, counts map[string]int) domain.ReportSection {
	section := domain.ReportSection{
		Title:   title,
		Summary: map[string]interface{}{},
	}
	total := 0
	for _, name := range sortedKeys(counts) {
		total += counts[name]
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  name,
			Value: counts[name],
			Unit:  "deaths",
		})
	}
	section.Summary["Total"] = total
	return section
}

func formatSplit(natural, unnatural int) string {
	return fmt.Sprintf("natural %d / unnatural %d", natural, unnatural)
}

func valueAt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MapRatiosToTerminal renders the effective ratio tables. A validation failure
// is carried in the report note.
func MapRatiosToTerminal(r domain.Ratios) *domain.Report {
	res := &domain.Report{
		Title: "Estimation Ratios",
		Note:  "valid",
	}
	if err := r.Validate(); err != nil {
		res.Note = "invalid: " + err.Error()
	}

	tables := []struct {
		title string
		table domain.RatioTable
	}{
		{"Cause", r.Cause},
		{"Gender", r.Gender},
		{"Race", r.Race},
		{"Provinces", r.Provinces},
	}
	for _, t := range tables {
		section := domain.ReportSection{
			Title:   t.title,
			Summary: map[string]interface{}{"Sum": fmt.Sprintf("%.3f", t.table.Sum())},
		}
		for _, k := range t.table.Keys() {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:  k,
				Value: fmt.Sprintf("%.3f", t.table[k]),
			})
		}
		res.Sections = append(res.Sections, section)
	}
	return res
}
