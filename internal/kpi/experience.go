package kpi

import (
	"strings"

	"quality-insights-go/internal/types"
)

// ExperienceMetrics are the tracked agreement-scale survey questions, in
// reporting order.
var ExperienceMetrics = []string{"clarity", "timescale", "handling"}

// ExperienceRow is one group x metric: the share of non-null responses
// that agreed, as a percentage.
type ExperienceRow struct {
	Group        map[string]string `json:"group"`
	Metric       string            `json:"metric"`
	Responses    int               `json:"responses"`
	Agreed       int               `json:"agreed"`
	AgreementPct *float64          `json:"agreement_pct,omitempty"`
}

// ExperienceAgreement computes agreement % per group and metric. "agree"
// and "strongly agree" count; "somewhat agree" counts only when
// includeSomewhat is set. A group is suppressed only when every tracked
// metric is under minResponses; one healthy metric keeps the whole group
// reported.
func ExperienceAgreement(recs []types.SurveyRecord, p Params, minResponses int, includeSomewhat bool) ([]ExperienceRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dims := presentDims[types.SurveyRecord](p.GroupBy)

	type metricAgg struct{ responses, agreed int }
	groups := map[string]map[string]*metricAgg{}
	for _, r := range filterRecords(recs, p) {
		k := groupKeyOf(r, dims)
		if groups[k] == nil {
			groups[k] = map[string]*metricAgg{}
			for _, m := range ExperienceMetrics {
				groups[k][m] = &metricAgg{}
			}
		}
		for _, m := range ExperienceMetrics {
			v := experienceValue(r, m)
			if strings.TrimSpace(v) == "" {
				continue
			}
			a := groups[k][m]
			a.responses++
			if isAgreement(v, includeSomewhat) {
				a.agreed++
			}
		}
	}

	var rows []ExperienceRow
	for _, k := range sortedKeys(groups) {
		metrics := groups[k]
		allBelow := true
		for _, m := range ExperienceMetrics {
			if metrics[m].responses >= minResponses && metrics[m].responses > 0 {
				allBelow = false
				break
			}
		}
		if allBelow {
			continue
		}
		group := groupFromKey(k, dims)
		for _, m := range ExperienceMetrics {
			a := metrics[m]
			row := ExperienceRow{Group: group, Metric: m, Responses: a.responses, Agreed: a.agreed}
			if a.responses > 0 {
				row.AgreementPct = types.Float(types.RoundTo(float64(a.agreed)/float64(a.responses)*100, 1))
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func experienceValue(r types.SurveyRecord, metric string) string {
	switch metric {
	case "clarity":
		return r.Clarity
	case "timescale":
		return r.Timescale
	case "handling":
		return r.Handling
	}
	return ""
}

func isAgreement(v string, includeSomewhat bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "agree", "strongly agree":
		return true
	case "somewhat agree":
		return includeSomewhat
	}
	return false
}
