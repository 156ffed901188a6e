package join

import (
	"quality-insights-go/internal/dataset"
	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
)

// LoadProcessMap reads the optional two-column parent-case-type -> process
// mapping file. Absence is a valid state and returns a nil map; the raw
// process value then passes through untouched. Both sides are
// canonicalized so lookups match loader output.
func LoadProcessMap(path string, log *logger.Logger) map[string]string {
	if path == "" {
		return nil
	}
	mlog := log.WithField("component", "join.process_map").WithField("path", path)
	t, err := dataset.ReadTable(path)
	if err != nil {
		mlog.WithField("error", err.Error()).Warn("process mapping file unreadable, using raw values")
		return nil
	}
	if len(t.Headers) < 2 {
		mlog.Warn("process mapping file needs two columns, using raw values")
		return nil
	}
	m := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		from := schema.CanonProcess(schema.Value(row, 0))
		to := schema.CanonProcess(schema.Value(row, 1))
		if from == "" || to == "" {
			continue
		}
		m[from] = to
	}
	mlog.WithField("mappings", len(m)).Info("process mapping loaded")
	return m
}
