package kpi

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"quality-insights-go/internal/types"
)

// Duration units for the SLA calculator.
const (
	UnitHours        = "hours"
	UnitDays         = "days"
	UnitBusinessDays = "business_days"
)

var startFieldGuesses = []string{"created", "start", "received", "logged"}
var endFieldGuesses = []string{"closed", "end", "completed", "resolved"}

// SLAParams extends the uniform params for the breach calculator. Target
// uses the compact "<number>[h|d]" grammar, unit defaulting to hours; it
// is converted into the configured duration unit before comparison.
type SLAParams struct {
	Params
	StartField string `json:"start_field,omitempty"` // "" = guess
	EndField   string `json:"end_field,omitempty"`   // "" = guess
	Unit       string `json:"unit,omitempty"`        // default hours
	Target     string `json:"target"`
	MinSamples int    `json:"min_samples,omitempty"`
}

type SLARow struct {
	Group         map[string]string `json:"group"`
	Samples       int               `json:"samples"`
	Breaches      int               `json:"breaches"`
	BreachRatePct *float64          `json:"breach_rate_pct,omitempty"`
	MeanDuration  *float64          `json:"mean_duration,omitempty"`
	P90Duration   *float64          `json:"p90_duration,omitempty"`
}

// SLABreach computes per-group breach rate plus mean and 90th-percentile
// duration in the configured unit. Rows with an unparseable or negative
// duration drop out of the denominator; groups under MinSamples are
// suppressed. Bad field names, units or targets are configuration errors.
func SLABreach(cases []types.CaseRecord, p SLAParams) ([]SLARow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	unit := p.Unit
	if unit == "" {
		unit = UnitHours
	}
	switch unit {
	case UnitHours, UnitDays, UnitBusinessDays:
	default:
		return nil, fmt.Errorf("unknown duration unit %q", unit)
	}
	target, err := parseTarget(p.Target, unit)
	if err != nil {
		return nil, err
	}
	startFields, err := fieldCandidates(p.StartField, startFieldGuesses)
	if err != nil {
		return nil, err
	}
	endFields, err := fieldCandidates(p.EndField, endFieldGuesses)
	if err != nil {
		return nil, err
	}

	dims := presentDims[types.CaseRecord](p.GroupBy)

	type agg struct {
		durations []float64
		breaches  int
	}
	groups := map[string]*agg{}
	for _, c := range filterRecords(cases, p.Params) {
		start, ok := resolveTime(c, startFields)
		if !ok {
			continue
		}
		end, ok := resolveTime(c, endFields)
		if !ok {
			continue
		}
		d, ok := durationIn(start, end, unit)
		if !ok {
			continue
		}
		k := groupKeyOf(c, dims)
		a, found := groups[k]
		if !found {
			a = &agg{}
			groups[k] = a
		}
		a.durations = append(a.durations, d)
		if d > target {
			a.breaches++
		}
	}

	rows := make([]SLARow, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		a := groups[k]
		n := len(a.durations)
		if n < p.MinSamples {
			continue
		}
		row := SLARow{Group: groupFromKey(k, dims), Samples: n, Breaches: a.breaches}
		row.BreachRatePct = types.Float(types.RoundTo(float64(a.breaches)/float64(n)*100, 1))
		row.MeanDuration = types.Float(types.RoundTo(mean(a.durations), 2))
		row.P90Duration = types.Float(types.RoundTo(percentile(a.durations, 0.9), 2))
		rows = append(rows, row)
	}
	return rows, nil
}

var targetRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([hd]?)$`)

// parseTarget reads "<number>[h|d]" and converts it into the duration unit
// the calculator runs in. For business days an hour-denominated target is
// converted at 24h per day; a day target passes through as whole days.
func parseTarget(raw, unit string) (float64, error) {
	m := targetRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("invalid SLA target %q (want e.g. \"48h\" or \"5d\")", raw)
	}
	var v float64
	fmt.Sscanf(m[1], "%f", &v)
	inDays := m[2] == "d"

	switch unit {
	case UnitHours:
		if inDays {
			v *= 24
		}
	case UnitDays, UnitBusinessDays:
		if !inDays {
			v /= 24
		}
	}
	return v, nil
}

var validTimeFields = map[string]bool{
	"created": true, "start": true, "received": true, "logged": true,
	"closed": true, "end": true, "completed": true, "resolved": true,
}

func fieldCandidates(explicit string, guesses []string) ([]string, error) {
	if explicit == "" {
		return guesses, nil
	}
	if !validTimeFields[explicit] {
		return nil, fmt.Errorf("unknown datetime field %q", explicit)
	}
	return []string{explicit}, nil
}

func resolveTime(c types.CaseRecord, fields []string) (time.Time, bool) {
	for _, f := range fields {
		if t, ok := c.TimeField(f); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func durationIn(start, end time.Time, unit string) (float64, bool) {
	if end.Before(start) {
		return 0, false
	}
	switch unit {
	case UnitHours:
		return end.Sub(start).Hours(), true
	case UnitDays:
		return end.Sub(start).Hours() / 24, true
	case UnitBusinessDays:
		return float64(businessDaysBetween(start, end)), true
	}
	return 0, false
}

// businessDaysBetween counts weekdays elapsed from start to end, weekends
// excluded. Same-day spans count zero.
func businessDaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := 0
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func percentile(vals []float64, q float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted))*q+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
