package dataset

import (
	"strings"

	"github.com/spf13/cast"

	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// LoadCases reads every case export under dir into canonical case records.
// Unreadable files are skipped with a warning; an empty or missing
// directory yields an empty slice, not an error. Duplicate case ids keep
// the record with the latest creation date.
func LoadCases(dir string, log *logger.Logger) ([]types.CaseRecord, error) {
	blog := log.WithBatch("cases").WithField("dir", dir)

	paths, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		blog.Info("no case files found")
		return nil, nil
	}

	var out []types.CaseRecord
	for _, path := range paths {
		flog := blog.WithField("file", path)
		t, err := ReadTable(path)
		if err != nil {
			flog.WithField("error", err.Error()).Warn("skipping unreadable case file")
			continue
		}
		recs := parseCaseTable(t)
		flog.WithField("rows", len(recs)).Info("case file loaded")
		out = append(out, recs...)
	}

	out = dedupeCases(out)
	blog.WithField("total_cases", len(out)).Info("case load complete")
	return out, nil
}

func parseCaseTable(t *Table) []types.CaseRecord {
	idx := resolveFields(t.Headers, caseAliases, caseHints)

	recs := make([]types.CaseRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.CaseRecord{
			CaseID:     schema.Value(row, idx["case_id"]),
			Portfolio:  schema.CanonPortfolio(schema.Value(row, idx["portfolio"])),
			Process:    schema.CanonProcess(schema.Value(row, idx["process"])),
			Location:   schema.Value(row, idx["location"]),
			Scheme:     schema.Value(row, idx["scheme"]),
			Team:       schema.Value(row, idx["team"]),
			ShoreType:  schema.Value(row, idx["shore_type"]),
			WorkType:   schema.Value(row, idx["work_type"]),
			Consent:    schema.Value(row, idx["consent"]),
			Critical:   parseFlag(schema.Value(row, idx["critical"])),
			SourceFile: t.Path,
		}

		if raw := schema.Value(row, idx["created_date"]); raw != "" {
			if d, ok := schema.ParseDate(raw); ok {
				rec.CreatedDate = d
				rec.Month = schema.MonthOf(d)
			}
		}
		if raw := schema.Value(row, idx["closed_date"]); raw != "" {
			if d, ok := schema.ParseDate(raw); ok {
				rec.ClosedDate = d
			}
		}
		if raw := schema.Value(row, idx["sla_met"]); raw != "" {
			rec.SLAMet = types.Bool(parseFlag(raw))
		}
		if raw := schema.Value(row, idx["cycle_time"]); raw != "" {
			if v, err := cast.ToFloat64E(raw); err == nil {
				rec.CycleTimeDays = types.Float(v)
			}
		}
		// derive cycle time from the two dates when the column is absent
		if rec.CycleTimeDays == nil && !rec.CreatedDate.IsZero() && !rec.ClosedDate.IsZero() {
			days := rec.ClosedDate.Sub(rec.CreatedDate).Hours() / 24
			if days >= 0 {
				rec.CycleTimeDays = types.Float(days)
			}
		}

		if rec.CaseID == "" && rec.Month == "" && rec.Portfolio == "" {
			continue // fully blank padding row
		}
		recs = append(recs, rec)
	}
	return recs
}

// dedupeCases keeps at most one record per case id, latest creation date
// winning. Records without an id pass through untouched. First-seen order
// is preserved so loads stay reproducible.
func dedupeCases(recs []types.CaseRecord) []types.CaseRecord {
	pos := make(map[string]int, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		if rec.CaseID == "" {
			out = append(out, rec)
			continue
		}
		if i, seen := pos[rec.CaseID]; seen {
			if !rec.CreatedDate.Before(out[i].CreatedDate) {
				out[i] = rec
			}
			continue
		}
		pos[rec.CaseID] = len(out)
		out = append(out, rec)
	}
	return out
}

// resolveFields maps each canonical field to its column index, -1 if the
// file simply lacks the column.
func resolveFields(headers []string, aliases, hints map[string][]string) map[string]int {
	idx := make(map[string]int, len(aliases))
	for field, candidates := range aliases {
		if i, ok := schema.ResolveColumn(headers, candidates, hints[field]...); ok {
			idx[field] = i
		} else {
			idx[field] = -1
		}
	}
	return idx
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1", "critical":
		return true
	}
	return false
}
