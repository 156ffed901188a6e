package join

import (
	"sort"

	"quality-insights-go/internal/types"
)

type key struct {
	Month     string
	Portfolio string
	Process   string
}

// Monthly aligns case and complaint records on (month, portfolio, process),
// aggregates each side independently and outer-joins them: a key present on
// only one side appears with a zero count on the other, never dropped. The
// per-1000 rate divides safely (a zero case count leaves the rate nil) and
// the output is sorted by key so reports and snapshots reproduce.
func Monthly(cases []types.CaseRecord, complaints []types.ComplaintRecord, procMap map[string]string) []types.JoinedMetricsRow {
	type caseAgg struct {
		ids      map[string]struct{}
		blank    int // rows with no case id still count once each
		cycleSum float64
		cycleN   int
	}
	caseSide := map[key]*caseAgg{}
	for _, c := range cases {
		k := key{c.Month, c.Portfolio, c.Process}
		a, ok := caseSide[k]
		if !ok {
			a = &caseAgg{ids: map[string]struct{}{}}
			caseSide[k] = a
		}
		if c.CaseID == "" {
			a.blank++
		} else {
			a.ids[c.CaseID] = struct{}{}
		}
		if c.CycleTimeDays != nil {
			a.cycleSum += *c.CycleTimeDays
			a.cycleN++
		}
	}

	complaintSide := map[key]int{}
	for _, c := range complaints {
		k := key{c.Month, c.Portfolio, RemapProcess(c.Process, procMap)}
		complaintSide[k]++
	}

	keys := map[key]struct{}{}
	for k := range caseSide {
		keys[k] = struct{}{}
	}
	for k := range complaintSide {
		keys[k] = struct{}{}
	}

	rows := make([]types.JoinedMetricsRow, 0, len(keys))
	for k := range keys {
		row := types.JoinedMetricsRow{
			Month:      k.Month,
			Portfolio:  k.Portfolio,
			Process:    k.Process,
			Complaints: complaintSide[k],
		}
		if a, ok := caseSide[k]; ok {
			row.UniqueCases = len(a.ids) + a.blank
			if a.cycleN > 0 {
				row.AvgCycleDays = types.Float(types.RoundTo(a.cycleSum/float64(a.cycleN), 2))
			}
		}
		if row.UniqueCases > 0 {
			rate := float64(row.Complaints) * 1000 / float64(row.UniqueCases)
			row.ComplaintsPer1000 = types.Float(types.RoundTo(rate, 2))
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		if rows[i].Portfolio != rows[j].Portfolio {
			return rows[i].Portfolio < rows[j].Portfolio
		}
		return rows[i].Process < rows[j].Process
	})
	return rows
}

// RemapProcess routes a complaint's parent-case-type derived process
// through the optional mapping table. A nil map or unmapped value passes
// through as-is.
func RemapProcess(process string, procMap map[string]string) string {
	if procMap == nil {
		return process
	}
	if mapped, ok := procMap[process]; ok {
		return mapped
	}
	return process
}
