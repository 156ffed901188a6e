package dataset

import (
	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/types"
)

// LoadComplaints reads every complaint export under dir. When a file has no
// explicit process column the parent case type stands in for it; the joiner
// may later remap that through the optional mapping file.
func LoadComplaints(dir string, log *logger.Logger) ([]types.ComplaintRecord, error) {
	blog := log.WithBatch("complaints").WithField("dir", dir)

	paths, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		blog.Info("no complaint files found")
		return nil, nil
	}

	var out []types.ComplaintRecord
	for _, path := range paths {
		flog := blog.WithField("file", path)
		t, err := ReadTable(path)
		if err != nil {
			flog.WithField("error", err.Error()).Warn("skipping unreadable complaint file")
			continue
		}
		recs := parseComplaintTable(t)
		flog.WithField("rows", len(recs)).Info("complaint file loaded")
		out = append(out, recs...)
	}

	blog.WithField("total_complaints", len(out)).Info("complaint load complete")
	return out, nil
}

func parseComplaintTable(t *Table) []types.ComplaintRecord {
	idx := resolveFields(t.Headers, complaintAliases, complaintHints)

	recs := make([]types.ComplaintRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.ComplaintRecord{
			Portfolio:     schema.CanonPortfolio(schema.Value(row, idx["portfolio"])),
			ReasonText:    schema.Value(row, idx["reason_text"]),
			RCASourceText: schema.Value(row, idx["rca_source"]),
			RCA1:          schema.Value(row, idx["rca1"]),
			RCA2:          schema.Value(row, idx["rca2"]),
			ReceiptMethod: schema.Value(row, idx["receipt_method"]),
			Team:          schema.Value(row, idx["team"]),
			Scheme:        schema.Value(row, idx["scheme"]),
			SourceFile:    t.Path,
		}

		// process column first, parent case type as the fallback
		if p := schema.Value(row, idx["process"]); p != "" {
			rec.Process = schema.CanonProcess(p)
		} else {
			rec.Process = schema.CanonProcess(schema.Value(row, idx["parent_type"]))
		}

		rec.Month = schema.MonthKey(schema.Value(row, idx["received_date"]))

		if rec.Month == "" && rec.Portfolio == "" && rec.ReasonText == "" && rec.RCASourceText == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}
