package kpi

import (
	"fmt"
	"strings"

	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// OverviewParams drives the month-over-month overview. Month is the target
// YYYY-MM; the previous period is one calendar month earlier, not "30 days
// before".
type OverviewParams struct {
	Month                string              `json:"month"`
	GroupBy              []string            `json:"group_by,omitempty"`
	Filters              map[string][]string `json:"filters,omitempty"`
	MinResponses         int                 `json:"min_responses,omitempty"`
	IncludeSomewhatAgree bool                `json:"include_somewhat_agree,omitempty"`
}

// OverviewRow is one group with every KPI for the target month, the
// previous month, and current-minus-previous deltas. Rate-like deltas are
// nil whenever either side is nil; plain counts zero-fill naturally.
type OverviewRow struct {
	Group map[string]string `json:"group"`

	UniqueCases     int `json:"unique_cases"`
	PrevUniqueCases int `json:"prev_unique_cases"`
	Complaints      int `json:"complaints"`
	PrevComplaints  int `json:"prev_complaints"`
	DeltaComplaints int `json:"delta_complaints"`

	ComplaintsPer1000      *float64 `json:"complaints_per_1000,omitempty"`
	PrevComplaintsPer1000  *float64 `json:"prev_complaints_per_1000,omitempty"`
	DeltaComplaintsPer1000 *float64 `json:"delta_complaints_per_1000,omitempty"`

	FPAFailRate      *float64 `json:"fpa_fail_rate,omitempty"`
	PrevFPAFailRate  *float64 `json:"prev_fpa_fail_rate,omitempty"`
	DeltaFPAFailRate *float64 `json:"delta_fpa_fail_rate,omitempty"`

	NPS      *float64 `json:"nps,omitempty"`
	PrevNPS  *float64 `json:"prev_nps,omitempty"`
	DeltaNPS *float64 `json:"delta_nps,omitempty"`

	Experience      map[string]*float64 `json:"experience,omitempty"`
	PrevExperience  map[string]*float64 `json:"prev_experience,omitempty"`
	DeltaExperience map[string]*float64 `json:"delta_experience,omitempty"`
}

// Overview is the month-over-month result plus the resolved period labels.
type Overview struct {
	Month     string        `json:"month"`
	PrevMonth string        `json:"prev_month"`
	Rows      []OverviewRow `json:"rows"`
}

// MonthOverMonth computes every KPI for the target month and the calendar
// month before it, outer-joined on the grouping keys so a group seen in
// only one period still appears. The join spine is the case/complaint key
// space; FPA and survey metrics attach at whichever subset of the grouping
// dimensions their records carry.
func MonthOverMonth(
	cases []types.CaseRecord,
	complaints []types.ComplaintRecord,
	fpa []types.FPARecord,
	survey []types.SurveyRecord,
	procMap map[string]string,
	p OverviewParams,
) (Overview, error) {
	prev := schema.PrevMonth(p.Month)
	if prev == "" {
		return Overview{}, fmt.Errorf("invalid target month %q (want YYYY-MM)", p.Month)
	}
	base := Params{GroupBy: p.GroupBy, Filters: p.Filters}
	if err := base.Validate(); err != nil {
		return Overview{}, err
	}

	caseDims := presentDims[types.CaseRecord](p.GroupBy)
	spineDims := presentDims[types.ComplaintRecord](caseDims)
	fpaDims := presentDims[types.FPARecord](spineDims)
	surveyDims := presentDims[types.SurveyRecord](spineDims)

	cur, err := periodMetrics(cases, complaints, fpa, survey, procMap, p, p.Month, spineDims, fpaDims, surveyDims)
	if err != nil {
		return Overview{}, err
	}
	pre, err := periodMetrics(cases, complaints, fpa, survey, procMap, p, prev, spineDims, fpaDims, surveyDims)
	if err != nil {
		return Overview{}, err
	}

	keys := map[string]struct{}{}
	for k := range cur.rates {
		keys[k] = struct{}{}
	}
	for k := range pre.rates {
		keys[k] = struct{}{}
	}

	ov := Overview{Month: p.Month, PrevMonth: prev}
	for _, k := range sortedKeys(keys) {
		row := OverviewRow{Group: groupFromKey(k, spineDims)}

		if r, ok := cur.rates[k]; ok {
			row.UniqueCases = r.UniqueCases
			row.Complaints = r.Complaints
			row.ComplaintsPer1000 = r.ComplaintsPer1000
		}
		if r, ok := pre.rates[k]; ok {
			row.PrevUniqueCases = r.UniqueCases
			row.PrevComplaints = r.Complaints
			row.PrevComplaintsPer1000 = r.ComplaintsPer1000
		}
		row.DeltaComplaints = row.Complaints - row.PrevComplaints
		row.DeltaComplaintsPer1000 = deltaOf(row.ComplaintsPer1000, row.PrevComplaintsPer1000)

		fk := projectKey(row.Group, fpaDims)
		row.FPAFailRate = cur.fpaRates[fk]
		row.PrevFPAFailRate = pre.fpaRates[fk]
		row.DeltaFPAFailRate = deltaOf(row.FPAFailRate, row.PrevFPAFailRate)

		sk := projectKey(row.Group, surveyDims)
		row.NPS = cur.nps[sk]
		row.PrevNPS = pre.nps[sk]
		row.DeltaNPS = deltaOf(row.NPS, row.PrevNPS)

		row.Experience = cur.experience[sk]
		row.PrevExperience = pre.experience[sk]
		row.DeltaExperience = map[string]*float64{}
		for _, m := range ExperienceMetrics {
			row.DeltaExperience[m] = deltaOf(row.Experience[m], row.PrevExperience[m])
		}

		ov.Rows = append(ov.Rows, row)
	}
	return ov, nil
}

type periodResult struct {
	rates      map[string]ComplaintsRateRow
	fpaRates   map[string]*float64
	nps        map[string]*float64
	experience map[string]map[string]*float64
}

func periodMetrics(
	cases []types.CaseRecord,
	complaints []types.ComplaintRecord,
	fpa []types.FPARecord,
	survey []types.SurveyRecord,
	procMap map[string]string,
	p OverviewParams,
	month string,
	spineDims, fpaDims, surveyDims []string,
) (periodResult, error) {
	params := Params{Window: SingleMonth(month), GroupBy: spineDims, Filters: p.Filters}

	res := periodResult{
		rates:      map[string]ComplaintsRateRow{},
		fpaRates:   map[string]*float64{},
		nps:        map[string]*float64{},
		experience: map[string]map[string]*float64{},
	}

	rateRows, err := ComplaintsPer1000(cases, complaints, procMap, params)
	if err != nil {
		return periodResult{}, err
	}
	for _, r := range rateRows {
		res.rates[projectKey(r.Group, spineDims)] = r
	}

	fpaRows, err := FPAFailRate(fpa, Params{Window: SingleMonth(month), GroupBy: fpaDims, Filters: p.Filters})
	if err != nil {
		return periodResult{}, err
	}
	for _, r := range fpaRows {
		res.fpaRates[projectKey(r.Group, fpaDims)] = r.FailRatePct
	}

	surveyParams := Params{Window: SingleMonth(month), GroupBy: surveyDims, Filters: p.Filters}
	npsRows, err := NPSByGroup(survey, surveyParams, p.MinResponses)
	if err != nil {
		return periodResult{}, err
	}
	for _, r := range npsRows {
		res.nps[projectKey(r.Group, surveyDims)] = r.NPS
	}

	expRows, err := ExperienceAgreement(survey, surveyParams, p.MinResponses, p.IncludeSomewhatAgree)
	if err != nil {
		return periodResult{}, err
	}
	for _, r := range expRows {
		k := projectKey(r.Group, surveyDims)
		if res.experience[k] == nil {
			res.experience[k] = map[string]*float64{}
		}
		res.experience[k][r.Metric] = r.AgreementPct
	}

	return res, nil
}

func projectKey(group map[string]string, dims []string) string {
	vals := make([]string, len(dims))
	for i, d := range dims {
		vals[i] = group[d]
	}
	return strings.Join(vals, groupKeySep)
}

// deltaOf is current minus previous, nil when either side is nil.
func deltaOf(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return types.Float(types.RoundTo(*cur-*prev, 2))
}
