package types

import "math"

// --------------------------------------------
// Joined metrics spine
// --------------------------------------------

// JoinedMetricsRow is one (month, portfolio, process) key after the outer
// join of case and complaint aggregates. ComplaintsPer1000 is nil whenever
// UniqueCases is zero; it is never a computed zero or an infinity.
type JoinedMetricsRow struct {
	Month             string   `json:"month"`
	Portfolio         string   `json:"portfolio"`
	Process           string   `json:"process"`
	UniqueCases       int      `json:"unique_cases"`
	AvgCycleDays      *float64 `json:"avg_cycle_days,omitempty"`
	Complaints        int      `json:"complaints"`
	ComplaintsPer1000 *float64 `json:"complaints_per_1000,omitempty"`
}

// --------------------------------------------
// Nullable helpers
// --------------------------------------------

func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

// RoundTo rounds to dp decimal places for display-stable output.
func RoundTo(v float64, dp int) float64 {
	scale := math.Pow10(dp)
	return math.Round(v*scale) / scale
}

// FloatEqual reports whether two nullable floats carry the same value.
func FloatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
