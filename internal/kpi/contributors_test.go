package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/types"
)

func overviewOf(rows ...OverviewRow) Overview {
	return Overview{Month: "2025-06", PrevMonth: "2025-05", Rows: rows}
}

func portfolioRow(name string) OverviewRow {
	return OverviewRow{Group: map[string]string{types.DimPortfolio: name}}
}

func TestTopContributorsByLevel(t *testing.T) {
	t.Parallel()

	a := portfolioRow("A")
	a.Complaints = 5
	b := portfolioRow("B")
	b.Complaints = 12
	c := portfolioRow("C")
	c.Complaints = 9

	rows, err := TopContributors(overviewOf(a, b, c), MetricComplaints, ModeLevel, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Group[types.DimPortfolio])
	assert.Equal(t, 12.0, rows[0].Value)
	assert.Equal(t, "C", rows[1].Group[types.DimPortfolio])
}

func TestTopContributorsByDelta(t *testing.T) {
	t.Parallel()

	a := portfolioRow("A")
	a.DeltaComplaintsPer1000 = types.Float(30)
	b := portfolioRow("B")
	b.DeltaComplaintsPer1000 = types.Float(-10)

	rows, err := TopContributors(overviewOf(a, b), MetricComplaintsPer1000, ModeDelta, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Group[types.DimPortfolio])
	assert.Equal(t, 30.0, rows[0].Value)
}

func TestTopContributorsExcludesUndefinedValues(t *testing.T) {
	t.Parallel()

	defined := portfolioRow("Defined")
	defined.ComplaintsPer1000 = types.Float(80)
	undefinedRate := portfolioRow("NoRate") // nil rate must not rank as zero

	rows, err := TopContributors(overviewOf(defined, undefinedRate), MetricComplaintsPer1000, ModeLevel, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Defined", rows[0].Group[types.DimPortfolio])
}

func TestTopContributorsValidation(t *testing.T) {
	t.Parallel()

	_, err := TopContributors(overviewOf(), "cycle_time", ModeLevel, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle_time")

	_, err = TopContributors(overviewOf(), MetricNPS, "sideways", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")

	_, err = TopContributors(overviewOf(), MetricNPS, ModeLevel, 0)
	require.Error(t, err)
}

func TestTopContributorsStableOnTies(t *testing.T) {
	t.Parallel()

	a := portfolioRow("First")
	a.Complaints = 7
	b := portfolioRow("Second")
	b.Complaints = 7

	rows, err := TopContributors(overviewOf(a, b), MetricComplaints, ModeLevel, 2)
	require.NoError(t, err)
	assert.Equal(t, "First", rows[0].Group[types.DimPortfolio])
	assert.Equal(t, "Second", rows[1].Group[types.DimPortfolio])
}
