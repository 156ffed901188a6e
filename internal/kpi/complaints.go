package kpi

import (
	"quality-insights-go/internal/join"
	"quality-insights-go/internal/types"
)

// ComplaintsRateRow is one group with numerator/denominator semantics:
// complaint count over unique case count, expressed per 1,000 cases. The
// rate is nil whenever the group has no cases.
type ComplaintsRateRow struct {
	Group             map[string]string `json:"group"`
	UniqueCases       int               `json:"unique_cases"`
	Complaints        int               `json:"complaints"`
	ComplaintsPer1000 *float64          `json:"complaints_per_1000,omitempty"`
}

// ComplaintsPer1000 aggregates both sides independently on the requested
// grouping dimensions and outer-joins them, so a group with complaints but
// no cases still appears (with a nil rate) and a group with cases but no
// complaints appears with a zero count. Grouping uses only dimensions both
// record types carry.
func ComplaintsPer1000(cases []types.CaseRecord, complaints []types.ComplaintRecord, procMap map[string]string, p Params) ([]ComplaintsRateRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	caseDims := presentDims[types.CaseRecord](p.GroupBy)
	dims := presentDims[types.ComplaintRecord](caseDims)

	type caseAgg struct {
		ids   map[string]struct{}
		blank int
	}
	caseSide := map[string]*caseAgg{}
	for _, c := range filterRecords(cases, p) {
		k := groupKeyOf(c, dims)
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
	}

	complaintSide := map[string]int{}
	for _, c := range filterRecords(complaints, p) {
		c.Process = join.RemapProcess(c.Process, procMap)
		complaintSide[groupKeyOf(c, dims)]++
	}

	keys := map[string]struct{}{}
	for k := range caseSide {
		keys[k] = struct{}{}
	}
	for k := range complaintSide {
		keys[k] = struct{}{}
	}

	rows := make([]ComplaintsRateRow, 0, len(keys))
	for _, k := range sortedKeys(keys) {
		row := ComplaintsRateRow{
			Group:      groupFromKey(k, dims),
			Complaints: complaintSide[k],
		}
		if a, ok := caseSide[k]; ok {
			row.UniqueCases = len(a.ids) + a.blank
		}
		if row.UniqueCases > 0 {
			rate := float64(row.Complaints) * 1000 / float64(row.UniqueCases)
			row.ComplaintsPer1000 = types.Float(types.RoundTo(rate, 2))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ComplaintCountRow is a plain grouped complaint count.
type ComplaintCountRow struct {
	Group map[string]string `json:"group"`
	Count int               `json:"count"`
}

// ComplaintCounts counts complaints per group, sorted by group key.
func ComplaintCounts(complaints []types.ComplaintRecord, p Params) ([]ComplaintCountRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dims := presentDims[types.ComplaintRecord](p.GroupBy)

	counts := map[string]int{}
	for _, c := range filterRecords(complaints, p) {
		counts[groupKeyOf(c, dims)]++
	}

	rows := make([]ComplaintCountRow, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		rows = append(rows, ComplaintCountRow{Group: groupFromKey(k, dims), Count: counts[k]})
	}
	return rows, nil
}
