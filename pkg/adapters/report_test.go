package adapters

import (
	"testing"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRatiosToTerminal_Defaults(t *testing.T) {
	report := MapRatiosToTerminal(domain.DefaultRatios())

	assert.Equal(t, "valid", report.Note)
	require.Len(t, report.Sections, 4)

	cause := report.Sections[0]
	assert.Equal(t, "Cause", cause.Title)
	assert.Equal(t, "1.000", cause.Summary["Sum"])
	require.Len(t, cause.Details, 2)
	assert.Equal(t, "natural", cause.Details[0].Name)
	assert.Equal(t, "0.880", cause.Details[0].Value)

	assert.Len(t, report.Sections[3].Details, 9)
}

func TestMapRatiosToTerminal_Invalid(t *testing.T) {
	// Given a cause table that does not partition the total
	ratios := domain.DefaultRatios()
	ratios.Cause[domain.CauseNatural] = 0.5

	// When
	report := MapRatiosToTerminal(ratios)

	// Then
	assert.Contains(t, report.Note, "invalid:")
}
