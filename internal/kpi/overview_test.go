package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/types"
)

func overviewFixture() ([]types.CaseRecord, []types.ComplaintRecord, []types.FPARecord, []types.SurveyRecord) {
	cases := []types.CaseRecord{
		{CaseID: "A1", Month: "2025-06", Portfolio: "London"},
		{CaseID: "A2", Month: "2025-06", Portfolio: "London"},
		{CaseID: "A3", Month: "2025-05", Portfolio: "London"},
		{CaseID: "A4", Month: "2025-05", Portfolio: "London"},
	}
	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "London"},
		{Month: "2025-06", Portfolio: "London"},
		{Month: "2025-05", Portfolio: "London"},
	}
	fpa := []types.FPARecord{
		{Month: "2025-06", Portfolio: "London", Failed: true},
		{Month: "2025-06", Portfolio: "London", Failed: false},
		{Month: "2025-05", Portfolio: "London", Failed: false},
	}
	survey := []types.SurveyRecord{
		{Month: "2025-06", Portfolio: "London", NPSScore: types.Float(10)},
		{Month: "2025-05", Portfolio: "London", NPSScore: types.Float(0)},
	}
	return cases, complaints, fpa, survey
}

func TestMonthOverMonthDeltas(t *testing.T) {
	t.Parallel()

	cases, complaints, fpa, survey := overviewFixture()
	ov, err := MonthOverMonth(cases, complaints, fpa, survey, nil, OverviewParams{
		Month:   "2025-06",
		GroupBy: []string{types.DimPortfolio},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06", ov.Month)
	assert.Equal(t, "2025-05", ov.PrevMonth)
	require.Len(t, ov.Rows, 1)

	row := ov.Rows[0]
	assert.Equal(t, "London", row.Group[types.DimPortfolio])
	assert.Equal(t, 2, row.UniqueCases)
	assert.Equal(t, 2, row.PrevUniqueCases)
	assert.Equal(t, 1, row.DeltaComplaints)

	// per-1000: 1000 now vs 500 before
	require.NotNil(t, row.DeltaComplaintsPer1000)
	assert.Equal(t, 500.0, *row.DeltaComplaintsPer1000)

	// fail rate: 50.0 now vs 0.0 before
	require.NotNil(t, row.DeltaFPAFailRate)
	assert.Equal(t, 50.0, *row.DeltaFPAFailRate)

	// NPS: 100 now vs -100 before
	require.NotNil(t, row.DeltaNPS)
	assert.Equal(t, 200.0, *row.DeltaNPS)
}

func TestMonthOverMonthSingleSidedGroups(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{
		{CaseID: "A", Month: "2025-06", Portfolio: "NewIntake"},
		{CaseID: "B", Month: "2025-05", Portfolio: "WoundDown"},
	}
	ov, err := MonthOverMonth(cases, nil, nil, nil, nil, OverviewParams{
		Month:   "2025-06",
		GroupBy: []string{types.DimPortfolio},
	})
	require.NoError(t, err)
	require.Len(t, ov.Rows, 2)

	byPortfolio := map[string]OverviewRow{}
	for _, r := range ov.Rows {
		byPortfolio[r.Group[types.DimPortfolio]] = r
	}

	fresh := byPortfolio["NewIntake"]
	assert.Equal(t, 1, fresh.UniqueCases)
	assert.Equal(t, 0, fresh.PrevUniqueCases)
	// previous-period rate missing means the delta stays undefined
	assert.Nil(t, fresh.DeltaComplaintsPer1000)

	gone := byPortfolio["WoundDown"]
	assert.Equal(t, 0, gone.UniqueCases)
	assert.Equal(t, 1, gone.PrevUniqueCases)
}

func TestMonthOverMonthRejectsBadMonth(t *testing.T) {
	t.Parallel()

	_, err := MonthOverMonth(nil, nil, nil, nil, nil, OverviewParams{Month: "June 2025"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "June 2025")
}

func TestMonthOverMonthUnknownDimension(t *testing.T) {
	t.Parallel()

	_, err := MonthOverMonth(nil, nil, nil, nil, nil, OverviewParams{
		Month:   "2025-06",
		GroupBy: []string{"starsign"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starsign")
}

func TestMonthOverMonthSurveyAttachesOnPortfolioOnly(t *testing.T) {
	t.Parallel()

	// grouping includes process, which surveys do not carry; NPS attaches
	// at the portfolio projection so every process row under the portfolio
	// shares it
	cases := []types.CaseRecord{
		{CaseID: "A", Month: "2025-06", Portfolio: "London", Process: "Payments"},
		{CaseID: "B", Month: "2025-06", Portfolio: "London", Process: "Transfers"},
	}
	survey := []types.SurveyRecord{
		{Month: "2025-06", Portfolio: "London", NPSScore: types.Float(10)},
	}
	ov, err := MonthOverMonth(cases, nil, nil, survey, nil, OverviewParams{
		Month:   "2025-06",
		GroupBy: []string{types.DimPortfolio, types.DimProcess},
	})
	require.NoError(t, err)
	require.Len(t, ov.Rows, 2)
	for _, row := range ov.Rows {
		require.NotNil(t, row.NPS, "process %s", row.Group[types.DimProcess])
		assert.Equal(t, 100.0, *row.NPS)
	}
}
