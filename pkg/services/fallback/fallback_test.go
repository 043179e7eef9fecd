package fallback

import (
	"sort"
	"testing"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
	"github.com/de-tools/mortality-atlas/pkg/services/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssembler() *report.Assembler {
	return report.NewAssembler(synth.New(domain.DefaultRatios()), func() time.Time {
		return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	})
}

func TestGenerate_UsesBaseline(t *testing.T) {
	out := NewGenerator(nil, newAssembler()).Generate()

	assert.Equal(t, domain.SourceFallback, out.Meta.Source)
	assert.Equal(t, report.FallbackNote, out.Meta.Note)
	assert.Equal(t, []int{9200, 9450, 9300, 9800, 10120, 9950}, out.National.TotalDeaths)
	assert.Equal(t, "Week 45", out.National.Weeks[5])
}

func TestGenerate_SameShapeAsLive(t *testing.T) {
	assembler := newAssembler()
	live := assembler.Assemble([]domain.WeeklyRecord{
		{Label: "2024-01-07", TotalDeaths: 9200},
		{Label: "2024-01-14", TotalDeaths: 9450},
	}, "https://example.org/d.xlsx")

	fb := NewGenerator(nil, assembler).Generate()

	assert.Equal(t, sortedKeys(live.Demographics.Gender), sortedKeys(fb.Demographics.Gender))
	assert.Equal(t, sortedKeys(live.Demographics.Race), sortedKeys(fb.Demographics.Race))
	assert.Equal(t, sortedKeys(live.Provinces), sortedKeys(fb.Provinces))

	n := len(fb.National.Weeks)
	assert.Len(t, fb.National.TotalDeaths, n)
	assert.Len(t, fb.National.Natural, n)
	assert.Len(t, fb.National.Unnatural, n)
	for name, p := range fb.Provinces {
		require.Len(t, p.Deaths, n, name)
		require.Len(t, p.Natural, n, name)
		require.Len(t, p.Unnatural, n, name)
	}
}

func TestGenerate_CustomBaselineIsCopied(t *testing.T) {
	baseline := []domain.WeeklyRecord{{Label: "Week 1", TotalDeaths: 100}}
	g := NewGenerator(baseline, newAssembler())

	baseline[0].TotalDeaths = 1

	assert.Equal(t, []int{100}, g.Generate().National.TotalDeaths)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
