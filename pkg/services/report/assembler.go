package report

import (
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/synth"
)

const (
	LiveNote = "Weekly totals are reported figures. Natural/unnatural, gender, race and provincial " +
		"figures are estimates projected from Stats SA P0309.3 annual ratios applied to the weekly totals."
	FallbackNote = "Live data was unavailable. All figures are a static baseline projection; natural/unnatural, " +
		"gender, race and provincial figures are estimates derived from Stats SA P0309.3 annual ratios."
)

// Clock returns the current time.
type Clock func() time.Time

// Assembler stamps metadata on top of the synthesized breakdown. It is the only
// part of the pipeline that reads the clock.
type Assembler struct {
	synth *synth.Synthesizer
	clock Clock
}

func NewAssembler(s *synth.Synthesizer, clock Clock) *Assembler {
	if clock == nil {
		clock = time.Now
	}
	return &Assembler{synth: s, clock: clock}
}

// Assemble builds the report for records read from source. Passing
// domain.SourceFallback marks the report as a baseline projection.
func (a *Assembler) Assemble(records []domain.WeeklyRecord, source string) domain.AggregateReport {
	note := LiveNote
	if source == domain.SourceFallback {
		note = FallbackNote
	}

	now := a.clock().UTC()
	return domain.AggregateReport{
		Meta: domain.ReportMeta{
			UpdatedAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			Source:    source,
			Note:      note,
		},
		Breakdown: a.synth.Synthesize(records),
	}
}
