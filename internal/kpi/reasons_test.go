package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/labeller"
	"quality-insights-go/internal/types"
)

func reasonRules() []labeller.Rule {
	return labeller.Compile([]labeller.RuleSpec{
		{Category: "Delay", Patterns: []string{`(?i)\bdelay`}},
		{Category: "Payment", Patterns: []string{`(?i)payment`}},
	})
}

func TestReasonMixCounts(t *testing.T) {
	t.Parallel()

	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "London", RCASourceText: "delayed response"},
		{Month: "2025-06", Portfolio: "London", RCASourceText: "delay again"},
		{Month: "2025-06", Portfolio: "London", RCASourceText: "payment wrong"},
		{Month: "2025-06", Portfolio: "London", RCASourceText: "no idea"},
	}
	res, err := ReasonMix(complaints, reasonRules(), ReasonMixParams{
		Params: Params{GroupBy: []string{types.DimPortfolio}},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	// sorted by count descending within the group
	assert.Equal(t, "Delay", res.Rows[0].Reason)
	assert.Equal(t, 2, res.Rows[0].Count)
	assert.Nil(t, res.Rows[0].Share) // count mode carries no share

	reasons := []string{res.Rows[0].Reason, res.Rows[1].Reason, res.Rows[2].Reason}
	assert.Contains(t, reasons, labeller.CategoryUnknown)
}

func TestReasonMixExcludeUnknown(t *testing.T) {
	t.Parallel()

	complaints := []types.ComplaintRecord{
		{Month: "2025-06", RCASourceText: "delay"},
		{Month: "2025-06", RCASourceText: "gibberish"},
	}
	res, err := ReasonMix(complaints, reasonRules(), ReasonMixParams{ExcludeUnknown: true})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Delay", res.Rows[0].Reason)
}

func TestReasonMixRowShare(t *testing.T) {
	t.Parallel()

	complaints := []types.ComplaintRecord{
		{Month: "2025-06", RCASourceText: "delay"},
		{Month: "2025-06", RCASourceText: "delay"},
		{Month: "2025-06", RCASourceText: "delay"},
		{Month: "2025-06", RCASourceText: "payment"},
	}
	res, err := ReasonMix(complaints, reasonRules(), ReasonMixParams{Normalize: NormRowShare})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.NotNil(t, res.Rows[0].Share)
	assert.Equal(t, 75.0, *res.Rows[0].Share)
	require.NotNil(t, res.Rows[1].Share)
	assert.Equal(t, 25.0, *res.Rows[1].Share)
}

func TestReasonMixColumnShare(t *testing.T) {
	t.Parallel()

	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "London", RCASourceText: "delay"},
		{Month: "2025-06", Portfolio: "London", RCASourceText: "delay"},
		{Month: "2025-06", Portfolio: "Edinburgh", RCASourceText: "delay"},
		{Month: "2025-06", Portfolio: "Edinburgh", RCASourceText: "delay"},
	}
	res, err := ReasonMix(complaints, reasonRules(), ReasonMixParams{
		Params:    Params{GroupBy: []string{types.DimPortfolio}},
		Normalize: NormColShare,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		require.NotNil(t, row.Share)
		assert.Equal(t, 50.0, *row.Share) // each portfolio holds half the reason total
	}
}

func TestReasonMixSourcePriority(t *testing.T) {
	t.Parallel()

	complaints := []types.ComplaintRecord{
		{Month: "2025-06", RCASourceText: "delay", ReasonText: "payment"},
		{Month: "2025-06", ReasonText: "payment"}, // falls through to the second source
	}
	res, err := ReasonMix(complaints, reasonRules(), ReasonMixParams{
		SourceColumns: []string{SourceRCAText, SourceReasonText},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	reasons := map[string]int{}
	for _, r := range res.Rows {
		reasons[r.Reason] = r.Count
	}
	assert.Equal(t, 1, reasons["Delay"])
	assert.Equal(t, 1, reasons["Payment"])
}

func TestReasonMixValidation(t *testing.T) {
	t.Parallel()

	_, err := ReasonMix(nil, reasonRules(), ReasonMixParams{Normalize: "percentish"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "percentish")

	_, err = ReasonMix(nil, reasonRules(), ReasonMixParams{SourceColumns: []string{"notes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes")
}

func TestReasonMixReportsSourcesUsed(t *testing.T) {
	t.Parallel()

	res, err := ReasonMix(nil, reasonRules(), ReasonMixParams{})
	require.NoError(t, err)
	assert.Equal(t, defaultReasonSources, res.SourceColumns)
}
