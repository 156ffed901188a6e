package dataset

import (
	"sort"

	"github.com/spf13/cast"

	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// LoadSurvey reads survey/NPS exports. Files either carry a direct 0-10
// score per respondent or pre-aggregated promoter/passive/detractor counts;
// the latter are derived into an NPS value per row and then averaged where
// several files overlap the same (month, portfolio).
func LoadSurvey(dir string, log *logger.Logger) ([]types.SurveyRecord, error) {
	blog := log.WithBatch("survey").WithField("dir", dir)

	paths, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		blog.Info("no survey files found")
		return nil, nil
	}

	var out []types.SurveyRecord
	for _, path := range paths {
		flog := blog.WithField("file", path)
		t, err := ReadTable(path)
		if err != nil {
			flog.WithField("error", err.Error()).Warn("skipping unreadable survey file")
			continue
		}
		recs := parseSurveyTable(t)
		flog.WithField("rows", len(recs)).Info("survey file loaded")
		out = append(out, recs...)
	}

	out = mergeAggregatedSurvey(out)
	blog.WithField("total_responses", len(out)).Info("survey load complete")
	return out, nil
}

func parseSurveyTable(t *Table) []types.SurveyRecord {
	idx := resolveFields(t.Headers, surveyAliases, surveyHints)
	hasDirect := idx["nps"] >= 0
	hasCounts := idx["promoters"] >= 0 && idx["detractors"] >= 0

	recs := make([]types.SurveyRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.SurveyRecord{
			Portfolio:  schema.CanonPortfolio(schema.Value(row, idx["portfolio"])),
			Clarity:    schema.Value(row, idx["clarity"]),
			Timescale:  schema.Value(row, idx["timescale"]),
			Handling:   schema.Value(row, idx["handling"]),
			SourceFile: t.Path,
		}
		rec.Month = schema.MonthKey(schema.Value(row, idx["response_date"]))

		switch {
		case hasDirect:
			if raw := schema.Value(row, idx["nps"]); raw != "" {
				if v, err := cast.ToFloat64E(raw); err == nil {
					rec.NPSScore = types.Float(v)
				}
			}
		case hasCounts:
			prom, errP := cast.ToFloat64E(schema.Value(row, idx["promoters"]))
			det, errD := cast.ToFloat64E(schema.Value(row, idx["detractors"]))
			var pas float64
			if raw := schema.Value(row, idx["passives"]); raw != "" {
				pas, _ = cast.ToFloat64E(raw)
			}
			if errP == nil && errD == nil {
				total := prom + pas + det
				if total > 0 {
					rec.NPSScore = types.Float((prom - det) / total * 100)
					rec.Aggregated = true
				}
				// total 0 rows are excluded from NPS but may still carry
				// agreement-scale responses
			}
		}

		if rec.Month == "" && rec.Portfolio == "" && rec.NPSScore == nil &&
			rec.Clarity == "" && rec.Timescale == "" && rec.Handling == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// mergeAggregatedSurvey averages pre-aggregated NPS rows that land on the
// same (month, portfolio) from different files. Respondent-level rows pass
// through untouched.
func mergeAggregatedSurvey(recs []types.SurveyRecord) []types.SurveyRecord {
	type acc struct {
		sum float64
		n   int
		rec types.SurveyRecord
	}
	byKey := map[string]*acc{}
	var keys []string
	out := recs[:0]
	for _, rec := range recs {
		if !rec.Aggregated || rec.NPSScore == nil {
			out = append(out, rec)
			continue
		}
		k := rec.Month + "|" + rec.Portfolio
		a, ok := byKey[k]
		if !ok {
			a = &acc{rec: rec}
			byKey[k] = a
			keys = append(keys, k)
		}
		a.sum += *rec.NPSScore
		a.n++
	}
	sort.Strings(keys)
	for _, k := range keys {
		a := byKey[k]
		merged := a.rec
		merged.NPSScore = types.Float(a.sum / float64(a.n))
		out = append(out, merged)
	}
	return out
}
