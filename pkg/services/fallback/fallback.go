package fallback

import (
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
)

// DefaultBaseline is a recent six week trend used when live data is unavailable.
func DefaultBaseline() []domain.WeeklyRecord {
	return []domain.WeeklyRecord{
		{Label: "Week 40", TotalDeaths: 9200},
		{Label: "Week 41", TotalDeaths: 9450},
		{Label: "Week 42", TotalDeaths: 9300},
		{Label: "Week 43", TotalDeaths: 9800},
		{Label: "Week 44", TotalDeaths: 10120},
		{Label: "Week 45", TotalDeaths: 9950},
	}
}

// Generator produces a complete report from the baseline through the same
// assembler as the live path.
type Generator struct {
	baseline  []domain.WeeklyRecord
	assembler *report.Assembler
}

func NewGenerator(baseline []domain.WeeklyRecord, assembler *report.Assembler) *Generator {
	if len(baseline) == 0 {
		baseline = DefaultBaseline()
	}
	own := make([]domain.WeeklyRecord, len(baseline))
	copy(own, baseline)
	return &Generator{baseline: own, assembler: assembler}
}

func (g *Generator) Generate() domain.AggregateReport {
	return g.assembler.Assemble(g.baseline, domain.SourceFallback)
}
