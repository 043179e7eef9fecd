// Package synth derives national, demographic and provincial estimates from
// weekly totals. All splits truncate toward zero; they are approximations
// and never measured data.
package synth

import "github.com/de-tools/mortality-atlas/pkg/models/domain"

type Synthesizer struct {
	ratios domain.Ratios
}

// New returns a synthesizer over a private copy of ratios.
func New(ratios domain.Ratios) *Synthesizer {
	return &Synthesizer{ratios: ratios.Clone()}
}

func (s *Synthesizer) Ratios() domain.Ratios {
	return s.ratios.Clone()
}

// Synthesize is a pure function of records and the configured ratios.
func (s *Synthesizer) Synthesize(records []domain.WeeklyRecord) domain.Breakdown {
	totals := make([]int, len(records))
	weeks := make([]string, len(records))
	sum := 0
	for i, r := range records {
		weeks[i] = r.Label
		totals[i] = r.TotalDeaths
		sum += r.TotalDeaths
	}

	natural, unnatural := s.causeSplit(totals)

	provinces := make(map[string]domain.ProvinceSeries, len(s.ratios.Provinces))
	for name, weight := range s.ratios.Provinces {
		deaths := scale(totals, weight)
		pn, pu := s.causeSplit(deaths)
		provinces[name] = domain.ProvinceSeries{
			Deaths:    deaths,
			Natural:   pn,
			Unnatural: pu,
		}
	}

	return domain.Breakdown{
		National: domain.NationalSeries{
			Weeks:       weeks,
			TotalDeaths: totals,
			Natural:     natural,
			Unnatural:   unnatural,
		},
		Demographics: domain.Demographics{
			Gender: split(sum, s.ratios.Gender),
			Race:   split(sum, s.ratios.Race),
		},
		Provinces: provinces,
	}
}

func (s *Synthesizer) causeSplit(values []int) ([]int, []int) {
	return scale(values, s.ratios.Cause[domain.CauseNatural]),
		scale(values, s.ratios.Cause[domain.CauseUnnatural])
}

func scale(values []int, ratio float64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = truncate(v, ratio)
	}
	return out
}

func split(total int, table domain.RatioTable) map[string]int {
	out := make(map[string]int, len(table))
	for k, ratio := range table {
		out[k] = truncate(total, ratio)
	}
	return out
}

func truncate(v int, ratio float64) int {
	return int(float64(v) * ratio)
}
