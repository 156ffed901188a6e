package kpi

import (
	"quality-insights-go/internal/types"
)

// NPSRow is one group's Net Promoter Score. Bucketing is boundary-exact:
// 9 and 10 are promoters, 7 and 8 passives, 6 and below detractors.
type NPSRow struct {
	Group      map[string]string `json:"group"`
	Responses  int               `json:"responses"`
	Promoters  int               `json:"promoters"`
	Passives   int               `json:"passives"`
	Detractors int               `json:"detractors"`
	NPS        *float64          `json:"nps,omitempty"`
}

// NPSByGroup computes NPS per group. Respondent-level rows are bucketed;
// groups fed only by pre-aggregated rows average the derived values
// instead. Groups under minResponses are suppressed entirely.
func NPSByGroup(recs []types.SurveyRecord, p Params, minResponses int) ([]NPSRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dims := presentDims[types.SurveyRecord](p.GroupBy)

	type agg struct {
		prom, pas, det int
		respondents    int
		aggSum         float64
		aggN           int
	}
	groups := map[string]*agg{}
	for _, r := range filterRecords(recs, p) {
		if r.NPSScore == nil {
			continue
		}
		k := groupKeyOf(r, dims)
		a, ok := groups[k]
		if !ok {
			a = &agg{}
			groups[k] = a
		}
		if r.Aggregated {
			a.aggSum += *r.NPSScore
			a.aggN++
			continue
		}
		a.respondents++
		switch score := *r.NPSScore; {
		case score >= 9:
			a.prom++
		case score >= 7:
			a.pas++
		default:
			a.det++
		}
	}

	rows := make([]NPSRow, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		a := groups[k]
		row := NPSRow{
			Group:      groupFromKey(k, dims),
			Responses:  a.respondents + a.aggN,
			Promoters:  a.prom,
			Passives:   a.pas,
			Detractors: a.det,
		}
		if row.Responses < minResponses || row.Responses == 0 {
			continue
		}
		if a.respondents > 0 {
			nps := float64(a.prom-a.det) / float64(a.respondents) * 100
			row.NPS = types.Float(types.RoundTo(nps, 1))
		} else {
			row.NPS = types.Float(types.RoundTo(a.aggSum/float64(a.aggN), 1))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
