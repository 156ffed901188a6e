package kpi

import (
	"fmt"
	"sort"
	"strings"

	"quality-insights-go/internal/labeller"
	"quality-insights-go/internal/types"
)

// Normalization selects how reason counts are expressed. Modes are
// mutually exclusive per call.
type Normalization string

const (
	NormCount      Normalization = "count"
	NormRowShare   Normalization = "row_share"    // share of the group's total
	NormColShare   Normalization = "column_share" // share of the reason's total
	NormTotalShare Normalization = "total_share"  // share of the grand total
)

// Complaint free-text source columns selectable for reason mapping.
const (
	SourceRCAText    = "rca_source"
	SourceReasonText = "reason"
	SourceRCA1       = "rca1"
)

var defaultReasonSources = []string{SourceRCAText, SourceReasonText, SourceRCA1}

// ReasonMixParams extends the uniform params with the reason-specific
// knobs. SourceColumns is a priority list: the first non-empty value per
// row feeds the rule set.
type ReasonMixParams struct {
	Params
	SourceColumns  []string      `json:"source_columns,omitempty"`
	Normalize      Normalization `json:"normalize,omitempty"`
	ExcludeUnknown bool          `json:"exclude_unknown,omitempty"`
}

type ReasonMixRow struct {
	Group  map[string]string `json:"group"`
	Reason string            `json:"reason"`
	Count  int               `json:"count"`
	Share  *float64          `json:"share,omitempty"` // percent, nil in count mode
}

// ReasonMixResult carries the rows plus the source columns actually used,
// so callers can show where the text came from.
type ReasonMixResult struct {
	Rows          []ReasonMixRow `json:"rows"`
	SourceColumns []string       `json:"source_columns"`
}

// ReasonMix aggregates complaints into group x canonical-reason counts
// through the shared rule set (same first-match-wins semantics as the RCA
// labeller), then normalizes as requested. Text no rule matches lands on
// the "Unknown" sentinel unless excluded.
func ReasonMix(complaints []types.ComplaintRecord, rules []labeller.Rule, p ReasonMixParams) (ReasonMixResult, error) {
	if err := p.Validate(); err != nil {
		return ReasonMixResult{}, err
	}
	if p.Normalize == "" {
		p.Normalize = NormCount
	}
	switch p.Normalize {
	case NormCount, NormRowShare, NormColShare, NormTotalShare:
	default:
		return ReasonMixResult{}, fmt.Errorf("unknown normalization mode %q", p.Normalize)
	}
	sources := p.SourceColumns
	if len(sources) == 0 {
		sources = defaultReasonSources
	}
	for _, s := range sources {
		if !validReasonSource(s) {
			return ReasonMixResult{}, fmt.Errorf("unknown reason source column %q", s)
		}
	}

	dims := presentDims[types.ComplaintRecord](p.GroupBy)

	counts := map[string]map[string]int{}
	colTotals := map[string]int{}
	grand := 0
	for _, c := range filterRecords(complaints, p.Params) {
		text := firstNonEmptySource(c, sources)
		reason, ok := labeller.Match(text, rules)
		if !ok {
			if p.ExcludeUnknown {
				continue
			}
			reason = labeller.CategoryUnknown
		}
		k := groupKeyOf(c, dims)
		if counts[k] == nil {
			counts[k] = map[string]int{}
		}
		counts[k][reason]++
		colTotals[reason]++
		grand++
	}

	res := ReasonMixResult{SourceColumns: sources}
	for _, k := range sortedKeys(counts) {
		group := groupFromKey(k, dims)
		rowTotal := 0
		for _, n := range counts[k] {
			rowTotal += n
		}

		reasons := sortedKeys(counts[k])
		sort.SliceStable(reasons, func(i, j int) bool {
			return counts[k][reasons[i]] > counts[k][reasons[j]]
		})
		for _, reason := range reasons {
			row := ReasonMixRow{Group: group, Reason: reason, Count: counts[k][reason]}
			row.Share = shareOf(row.Count, p.Normalize, rowTotal, colTotals[reason], grand)
			res.Rows = append(res.Rows, row)
		}
	}
	return res, nil
}

func shareOf(count int, mode Normalization, rowTotal, colTotal, grand int) *float64 {
	var denom int
	switch mode {
	case NormRowShare:
		denom = rowTotal
	case NormColShare:
		denom = colTotal
	case NormTotalShare:
		denom = grand
	default:
		return nil
	}
	if denom == 0 {
		return nil
	}
	return types.Float(types.RoundTo(float64(count)/float64(denom)*100, 1))
}

func validReasonSource(s string) bool {
	switch s {
	case SourceRCAText, SourceReasonText, SourceRCA1:
		return true
	}
	return false
}

func firstNonEmptySource(c types.ComplaintRecord, sources []string) string {
	for _, s := range sources {
		var v string
		switch s {
		case SourceRCAText:
			v = c.RCASourceText
		case SourceReasonText:
			v = c.ReasonText
		case SourceRCA1:
			v = c.RCA1
		}
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
