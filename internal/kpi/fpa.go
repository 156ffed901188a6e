package kpi

import (
	"quality-insights-go/internal/types"
)

// FPAFailRateRow is first-pass-accuracy fails over reviews per group,
// as a percentage. The rate is nil when the group holds no reviews.
type FPAFailRateRow struct {
	Group       map[string]string `json:"group"`
	Reviews     int               `json:"reviews"`
	Fails       int               `json:"fails"`
	FailRatePct *float64          `json:"fail_rate_pct,omitempty"`
}

// FPAFailRate computes the grouped fail rate, rounded to 1dp.
func FPAFailRate(recs []types.FPARecord, p Params) ([]FPAFailRateRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dims := presentDims[types.FPARecord](p.GroupBy)

	type agg struct{ reviews, fails int }
	groups := map[string]*agg{}
	for _, r := range filterRecords(recs, p) {
		k := groupKeyOf(r, dims)
		a, ok := groups[k]
		if !ok {
			a = &agg{}
			groups[k] = a
		}
		a.reviews++
		if r.Failed {
			a.fails++
		}
	}

	rows := make([]FPAFailRateRow, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		a := groups[k]
		row := FPAFailRateRow{Group: groupFromKey(k, dims), Reviews: a.reviews, Fails: a.fails}
		if a.reviews > 0 {
			row.FailRatePct = types.Float(types.RoundTo(float64(a.fails)/float64(a.reviews)*100, 1))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FPAFailReasonRow counts failed reviews by primary fail reason per group.
type FPAFailReasonRow struct {
	Group  map[string]string `json:"group"`
	Reason string            `json:"reason"`
	Count  int               `json:"count"`
}

// FPAFailReasons breaks failed reviews down by their primary fail-reason
// tag. Non-failed rows never contribute; untagged fails count under their
// "Unclassified" sentinel.
func FPAFailReasons(recs []types.FPARecord, p Params) ([]FPAFailReasonRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dims := presentDims[types.FPARecord](p.GroupBy)

	counts := map[string]map[string]int{}
	for _, r := range filterRecords(recs, p) {
		if !r.Failed || r.PrimaryFailReason == "" {
			continue
		}
		k := groupKeyOf(r, dims)
		if counts[k] == nil {
			counts[k] = map[string]int{}
		}
		counts[k][r.PrimaryFailReason]++
	}

	var rows []FPAFailReasonRow
	for _, k := range sortedKeys(counts) {
		group := groupFromKey(k, dims)
		for _, reason := range sortedKeys(counts[k]) {
			rows = append(rows, FPAFailReasonRow{Group: group, Reason: reason, Count: counts[k][reason]})
		}
	}
	return rows, nil
}
