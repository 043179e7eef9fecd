package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/api"
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

func MapMortalityReportDomainToApi(r domain.AggregateReport) api.MortalityReport {
	res := api.MortalityReport{
		Meta: api.Meta{
			UpdatedAt: r.Meta.UpdatedAt.Format(dateLayout),
			Source:    r.Meta.Source,
			Note:      r.Meta.Note,
		},
		National: api.National{
			Weeks:       copyStrings(r.National.Weeks),
			TotalDeaths: copyInts(r.National.TotalDeaths),
			Natural:     copyInts(r.National.Natural),
			Unnatural:   copyInts(r.National.Unnatural),
		},
		Demographics: api.Demographics{
			Gender: copyCounts(r.Demographics.Gender),
			Race:   copyCounts(r.Demographics.Race),
		},
		Provinces: make(map[string]api.Province, len(r.Provinces)),
	}
	for name, p := range r.Provinces {
		res.Provinces[name] = api.Province{
			Deaths:    copyInts(p.Deaths),
			Natural:   copyInts(p.Natural),
			Unnatural: copyInts(p.Unnatural),
		}
	}
	return res
}

func MapMortalityReportApiToDomain(r api.MortalityReport) (domain.AggregateReport, error) {
	updated, err := time.Parse(dateLayout, r.Meta.UpdatedAt)
	if err != nil {
		return domain.AggregateReport{}, fmt.Errorf("invalid updated_at %q: %w", r.Meta.UpdatedAt, err)
	}

	res := domain.AggregateReport{
		Meta: domain.ReportMeta{
			UpdatedAt: updated,
			Source:    r.Meta.Source,
			Note:      r.Meta.Note,
		},
	}
	res.National = domain.NationalSeries{
		Weeks:       copyStrings(r.National.Weeks),
		TotalDeaths: copyInts(r.National.TotalDeaths),
		Natural:     copyInts(r.National.Natural),
		Unnatural:   copyInts(r.National.Unnatural),
	}
	res.Demographics = domain.Demographics{
		Gender: copyCounts(r.Demographics.Gender),
		Race:   copyCounts(r.Demographics.Race),
	}
	res.Provinces = make(map[string]domain.ProvinceSeries, len(r.Provinces))
	for name, p := range r.Provinces {
		res.Provinces[name] = domain.ProvinceSeries{
			Deaths:    copyInts(p.Deaths),
			Natural:   copyInts(p.Natural),
			Unnatural: copyInts(p.Unnatural),
		}
	}
	return res, nil
}

// copy helpers never return nil so that empty series encode as [] rather than null

func copyInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
