package dataset

import (
	"strings"

	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// LoadFPA reads first-pass-accuracy review exports. The fail flag is a
// deterministic parse of the review-result text; fail-reason tags are
// filled in later by the labeller and only for failed rows.
func LoadFPA(dir string, log *logger.Logger) ([]types.FPARecord, error) {
	blog := log.WithBatch("fpa").WithField("dir", dir)

	paths, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		blog.Info("no fpa files found")
		return nil, nil
	}

	var out []types.FPARecord
	for _, path := range paths {
		flog := blog.WithField("file", path)
		t, err := ReadTable(path)
		if err != nil {
			flog.WithField("error", err.Error()).Warn("skipping unreadable fpa file")
			continue
		}
		recs := parseFPATable(t)
		flog.WithField("rows", len(recs)).Info("fpa file loaded")
		out = append(out, recs...)
	}

	blog.WithField("total_reviews", len(out)).Info("fpa load complete")
	return out, nil
}

func parseFPATable(t *Table) []types.FPARecord {
	idx := resolveFields(t.Headers, fpaAliases, fpaHints)

	recs := make([]types.FPARecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.FPARecord{
			Portfolio:    schema.CanonPortfolio(schema.Value(row, idx["portfolio"])),
			Process:      schema.CanonProcess(schema.Value(row, idx["process"])),
			ReviewResult: schema.Value(row, idx["review_result"]),
			CaseComment:  schema.Value(row, idx["case_comment"]),
			SourceFile:   t.Path,
		}
		rec.Month = schema.MonthKey(schema.Value(row, idx["review_date"]))
		rec.Failed = ParseReviewFailed(rec.ReviewResult)

		if rec.Month == "" && rec.Portfolio == "" && rec.ReviewResult == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// ParseReviewFailed maps heterogeneous review-result text to the fail flag.
// Anything that reads as a pass, or is blank, is not a fail.
func ParseReviewFailed(result string) bool {
	l := strings.ToLower(strings.TrimSpace(result))
	if l == "" {
		return false
	}
	if strings.Contains(l, "pass") && !strings.Contains(l, "not pass") {
		return false
	}
	switch l {
	case "f", "no", "n":
		return true
	}
	return strings.Contains(l, "fail") || strings.Contains(l, "not pass") || strings.Contains(l, "not met")
}
