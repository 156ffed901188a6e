package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/types"
)

func caseRow(id, month, portfolio, process string, cycle *float64) types.CaseRecord {
	return types.CaseRecord{CaseID: id, Month: month, Portfolio: portfolio, Process: process, CycleTimeDays: cycle}
}

func TestMonthlyRatePer1000(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{
		caseRow("A", "2025-06", "London", "Payments", types.Float(4)),
		caseRow("B", "2025-06", "London", "Payments", types.Float(6)),
		caseRow("A", "2025-06", "London", "Payments", nil), // duplicate id counts once
	}
	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "London", Process: "Payments"},
	}

	rows := Monthly(cases, complaints, nil)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2, row.UniqueCases)
	assert.Equal(t, 1, row.Complaints)
	require.NotNil(t, row.ComplaintsPer1000)
	assert.Equal(t, 500.0, *row.ComplaintsPer1000)
	require.NotNil(t, row.AvgCycleDays)
	assert.Equal(t, 5.0, *row.AvgCycleDays)
}

func TestMonthlyOuterJoin(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{caseRow("A", "2025-06", "London", "Payments", nil)}
	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "Edinburgh", Process: "Transfers"},
	}

	rows := Monthly(cases, complaints, nil)
	require.Len(t, rows, 2)

	// complaint-only key: zero cases, rate stays undefined rather than infinite
	edi := rows[0]
	assert.Equal(t, "Edinburgh", edi.Portfolio)
	assert.Equal(t, 0, edi.UniqueCases)
	assert.Equal(t, 1, edi.Complaints)
	assert.Nil(t, edi.ComplaintsPer1000)

	// case-only key: zero complaints is a real zero rate
	ldn := rows[1]
	assert.Equal(t, "London", ldn.Portfolio)
	assert.Equal(t, 0, ldn.Complaints)
	require.NotNil(t, ldn.ComplaintsPer1000)
	assert.Equal(t, 0.0, *ldn.ComplaintsPer1000)
}

func TestMonthlyBlankCaseIDsEachCount(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{
		caseRow("", "2025-06", "London", "Payments", nil),
		caseRow("", "2025-06", "London", "Payments", nil),
	}
	rows := Monthly(cases, nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].UniqueCases)
}

func TestMonthlySortedDeterministically(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{
		caseRow("C", "2025-07", "London", "Payments", nil),
		caseRow("A", "2025-06", "London", "Transfers", nil),
		caseRow("B", "2025-06", "London", "Payments", nil),
	}
	rows := Monthly(cases, nil, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-06", rows[0].Month)
	assert.Equal(t, "Payments", rows[0].Process)
	assert.Equal(t, "Transfers", rows[1].Process)
	assert.Equal(t, "2025-07", rows[2].Month)
}

func TestMonthlyRemapsComplaintProcess(t *testing.T) {
	t.Parallel()

	cases := []types.CaseRecord{caseRow("A", "2025-06", "London", "Payments", nil)}
	complaints := []types.ComplaintRecord{
		{Month: "2025-06", Portfolio: "London", Process: "Payment Query"},
	}
	procMap := map[string]string{"Payment Query": "Payments"}

	rows := Monthly(cases, complaints, procMap)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Complaints)
}

func TestRemapProcess(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Payments", RemapProcess("Payments", nil))
	assert.Equal(t, "Payments", RemapProcess("Payment Query", map[string]string{"Payment Query": "Payments"}))
	assert.Equal(t, "Unmapped", RemapProcess("Unmapped", map[string]string{"Payment Query": "Payments"}))
}
