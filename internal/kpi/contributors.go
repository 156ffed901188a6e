package kpi

import (
	"fmt"
	"sort"
)

// ContributorMode selects ranking by absolute level or by period-over-
// period movement.
type ContributorMode string

const (
	ModeLevel ContributorMode = "level"
	ModeDelta ContributorMode = "delta"
)

// Metrics rankable by TopContributors. Counts zero-fill a missing period;
// rate-like metrics keep a nil side nil so a group appearing in one period
// never fakes a collapse to zero.
const (
	MetricComplaints        = "complaints"
	MetricComplaintsPer1000 = "complaints_per_1000"
	MetricFPAFailRate       = "fpa_fail_rate"
	MetricNPS               = "nps"
)

// ContributorRow is one ranked group with the value it ranked on.
type ContributorRow struct {
	Group map[string]string `json:"group"`
	Value float64           `json:"value"`
}

// TopContributors ranks an overview's groups on one metric and returns the
// top n rows, descending. Groups whose ranking value is undefined (a nil
// rate, or a nil delta) are left out rather than treated as zero.
func TopContributors(ov Overview, metric string, mode ContributorMode, n int) ([]ContributorRow, error) {
	switch metric {
	case MetricComplaints, MetricComplaintsPer1000, MetricFPAFailRate, MetricNPS:
	default:
		return nil, fmt.Errorf("unknown contributor metric %q", metric)
	}
	if mode != ModeLevel && mode != ModeDelta {
		return nil, fmt.Errorf("unknown contributor mode %q", mode)
	}
	if n <= 0 {
		return nil, fmt.Errorf("top n must be positive, got %d", n)
	}

	var rows []ContributorRow
	for _, r := range ov.Rows {
		v, ok := contributorValue(r, metric, mode)
		if !ok {
			continue
		}
		rows = append(rows, ContributorRow{Group: r.Group, Value: v})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func contributorValue(r OverviewRow, metric string, mode ContributorMode) (float64, bool) {
	switch metric {
	case MetricComplaints:
		if mode == ModeDelta {
			return float64(r.DeltaComplaints), true
		}
		return float64(r.Complaints), true
	case MetricComplaintsPer1000:
		return nullableValue(r.ComplaintsPer1000, r.DeltaComplaintsPer1000, mode)
	case MetricFPAFailRate:
		return nullableValue(r.FPAFailRate, r.DeltaFPAFailRate, mode)
	case MetricNPS:
		return nullableValue(r.NPS, r.DeltaNPS, mode)
	}
	return 0, false
}

func nullableValue(level, delta *float64, mode ContributorMode) (float64, bool) {
	v := level
	if mode == ModeDelta {
		v = delta
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
