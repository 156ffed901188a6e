package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/types"
)

func TestFPAFailRate(t *testing.T) {
	t.Parallel()

	recs := []types.FPARecord{
		{Month: "2025-06", Portfolio: "London", Failed: true},
		{Month: "2025-06", Portfolio: "London", Failed: false},
		{Month: "2025-06", Portfolio: "London", Failed: false},
		{Month: "2025-06", Portfolio: "Edinburgh", Failed: true},
	}
	rows, err := FPAFailRate(recs, Params{GroupBy: []string{types.DimPortfolio}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Edinburgh", rows[0].Group[types.DimPortfolio])
	require.NotNil(t, rows[0].FailRatePct)
	assert.Equal(t, 100.0, *rows[0].FailRatePct)

	ldn := rows[1]
	assert.Equal(t, 3, ldn.Reviews)
	assert.Equal(t, 1, ldn.Fails)
	require.NotNil(t, ldn.FailRatePct)
	assert.Equal(t, 33.3, *ldn.FailRatePct)
}

func TestFPAFailReasons(t *testing.T) {
	t.Parallel()

	recs := []types.FPARecord{
		{Month: "2025-06", Failed: true, PrimaryFailReason: "Incorrect Calculation"},
		{Month: "2025-06", Failed: true, PrimaryFailReason: "Incorrect Calculation"},
		{Month: "2025-06", Failed: true, PrimaryFailReason: "System Error"},
		{Month: "2025-06", Failed: false, PrimaryFailReason: "Incorrect Calculation"}, // passes never contribute
	}
	rows, err := FPAFailReasons(recs, Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Incorrect Calculation", rows[0].Reason)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "System Error", rows[1].Reason)
	assert.Equal(t, 1, rows[1].Count)
}

func TestFPAFailRateEmpty(t *testing.T) {
	t.Parallel()

	rows, err := FPAFailRate(nil, Params{GroupBy: []string{types.DimPortfolio}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
