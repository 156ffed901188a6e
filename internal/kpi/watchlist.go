package kpi

import (
	"math"
	"sort"

	"quality-insights-go/internal/types"
)

// Watchlist statuses, most severe first.
const (
	StatusCritical = "critical"
	StatusWarning  = "warning"
	StatusHealthy  = "healthy"
)

// Flag labels raised by the watchlist. Each carries a fixed severity
// weight; level and spike flags force critical status on their own.
const (
	FlagHighRate     = "High complaints/1k"
	FlagRateSpike    = "Complaints/1k spike"
	FlagRateOutlier  = "Rate outlier"
	FlagDeltaOutlier = "Rate delta outlier"
	FlagNPSDrop      = "NPS drop"
)

var flagWeights = map[string]float64{
	FlagHighRate:     3,
	FlagRateSpike:    3,
	FlagRateOutlier:  2,
	FlagDeltaOutlier: 2,
	FlagNPSDrop:      2,
}

const experienceDropWeight = 1

// WatchlistThresholds hold the alerting cut-offs. Zero values disable
// nothing; use DefaultWatchlistThresholds as the starting point.
type WatchlistThresholds struct {
	RateLevel      float64 `json:"rate_level"`      // absolute complaints/1k
	RateSpike      float64 `json:"rate_spike"`      // month-over-month rate delta
	ZOutlier       float64 `json:"z_outlier"`       // |z| across groups, rate and delta separately
	NPSDrop        float64 `json:"nps_drop"`        // NPS fall vs previous month
	ExperienceDrop float64 `json:"experience_drop"` // per-metric agreement fall
	SecondaryScore float64 `json:"secondary_score"` // weighted score for warning status
}

func DefaultWatchlistThresholds() WatchlistThresholds {
	return WatchlistThresholds{
		RateLevel:      200,
		RateSpike:      50,
		ZOutlier:       2,
		NPSDrop:        10,
		ExperienceDrop: 5,
		SecondaryScore: 3,
	}
}

// WatchlistRow is one group with its raised flags, weighted severity score
// and bucketed status.
type WatchlistRow struct {
	Group             map[string]string `json:"group"`
	ComplaintsPer1000 *float64          `json:"complaints_per_1000,omitempty"`
	RateDelta         *float64          `json:"rate_delta,omitempty"`
	RateZ             *float64          `json:"rate_z,omitempty"`
	DeltaZ            *float64          `json:"delta_z,omitempty"`
	Flags             []string          `json:"flags,omitempty"`
	Score             float64           `json:"score"`
	Status            string            `json:"status"`
}

// Watchlist flags month-over-month rows that need attention. Z-scores are
// population statistics across the overview's groups (divide by N). Status
// is critical whenever a level or spike flag fired, warning when the
// weighted score crosses the secondary threshold, healthy otherwise.
// Output sorts by status severity, then score, then rate delta, descending.
func Watchlist(ov Overview, th WatchlistThresholds) []WatchlistRow {
	var rates, deltas []float64
	for _, r := range ov.Rows {
		if r.ComplaintsPer1000 != nil {
			rates = append(rates, *r.ComplaintsPer1000)
		}
		if r.DeltaComplaintsPer1000 != nil {
			deltas = append(deltas, *r.DeltaComplaintsPer1000)
		}
	}
	rateMean, rateStd := popStats(rates)
	deltaMean, deltaStd := popStats(deltas)

	rows := make([]WatchlistRow, 0, len(ov.Rows))
	for _, r := range ov.Rows {
		row := WatchlistRow{
			Group:             r.Group,
			ComplaintsPer1000: r.ComplaintsPer1000,
			RateDelta:         r.DeltaComplaintsPer1000,
		}

		critical := false
		addFlag := func(flag string) {
			row.Flags = append(row.Flags, flag)
			row.Score += flagWeights[flag]
			if flag == FlagHighRate || flag == FlagRateSpike {
				critical = true
			}
		}

		if r.ComplaintsPer1000 != nil {
			if *r.ComplaintsPer1000 >= th.RateLevel {
				addFlag(FlagHighRate)
			}
			row.RateZ = zScore(*r.ComplaintsPer1000, rateMean, rateStd)
			if row.RateZ != nil && math.Abs(*row.RateZ) >= th.ZOutlier {
				addFlag(FlagRateOutlier)
			}
		}
		if r.DeltaComplaintsPer1000 != nil {
			if *r.DeltaComplaintsPer1000 >= th.RateSpike {
				addFlag(FlagRateSpike)
			}
			row.DeltaZ = zScore(*r.DeltaComplaintsPer1000, deltaMean, deltaStd)
			if row.DeltaZ != nil && math.Abs(*row.DeltaZ) >= th.ZOutlier {
				addFlag(FlagDeltaOutlier)
			}
		}
		if r.DeltaNPS != nil && -*r.DeltaNPS >= th.NPSDrop {
			addFlag(FlagNPSDrop)
		}
		for _, m := range ExperienceMetrics {
			d := r.DeltaExperience[m]
			if d != nil && -*d >= th.ExperienceDrop {
				row.Flags = append(row.Flags, "Experience drop: "+m)
				row.Score += experienceDropWeight
			}
		}

		switch {
		case critical:
			row.Status = StatusCritical
		case row.Score >= th.SecondaryScore:
			row.Status = StatusWarning
		default:
			row.Status = StatusHealthy
		}
		rows = append(rows, row)
	}

	rank := map[string]int{StatusCritical: 0, StatusWarning: 1, StatusHealthy: 2}
	sort.SliceStable(rows, func(i, j int) bool {
		if rank[rows[i].Status] != rank[rows[j].Status] {
			return rank[rows[i].Status] < rank[rows[j].Status]
		}
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		di, dj := rows[i].RateDelta, rows[j].RateDelta
		switch {
		case di == nil && dj == nil:
			return false
		case dj == nil:
			return true
		case di == nil:
			return false
		}
		return *di > *dj
	})
	return rows
}

// popStats is mean and population standard deviation (divide by N).
func popStats(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(vals)))
}

func zScore(v, mean, std float64) *float64 {
	if std == 0 {
		return types.Float(0)
	}
	return types.Float(types.RoundTo((v-mean)/std, 2))
}
