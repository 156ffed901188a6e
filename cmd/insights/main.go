package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"quality-insights-go/internal/dataset"
	"quality-insights-go/internal/join"
	"quality-insights-go/internal/kpi"
	"quality-insights-go/internal/labeller"
	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/schema"
	"quality-insights-go/internal/snapshot"
	"quality-insights-go/internal/types"
)

type report struct {
	Overview  kpi.Overview       `json:"overview"`
	Watchlist []kpi.WatchlistRow `json:"watchlist"`
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "quality-insights-go").Info("starting report run")

	dataDir := envOr("DATA_DIR", "data")
	snapshotPath := envOr("SNAPSHOT_PATH", "out/snapshot.db")
	rebuild := os.Getenv("REBUILD_SNAPSHOT") == "1"

	cfg := labeller.LoadConfig(os.Getenv("RULES_PATH"), log)
	reasonRules := labeller.Compile(cfg.Reasons)
	fpaRules := labeller.Compile(cfg.FPA)

	store, err := snapshot.Open(snapshotPath, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open snapshot store")
	}
	defer store.Close()

	cases, complaints, survey := loadTables(store, dataDir, reasonRules, rebuild, log)

	fpa, err := dataset.LoadFPA(filepath.Join(dataDir, "fpa"), log)
	if err != nil {
		log.WithError(err).Fatal("failed to load fpa reviews")
	}
	fpa = labeller.LabelFPA(fpa, fpaRules)

	procMap := join.LoadProcessMap(os.Getenv("PROCESS_MAP_PATH"), log)

	month := os.Getenv("REPORT_MONTH")
	if month == "" {
		month = latestMonth(cases, complaints)
	}
	if month == "" {
		log.Warn("no data in any source, nothing to report")
		return
	}

	groupBy := strings.Split(envOr("GROUP_BY", types.DimPortfolio), ",")
	ov, err := kpi.MonthOverMonth(cases, complaints, fpa, survey, procMap, kpi.OverviewParams{
		Month:        month,
		GroupBy:      groupBy,
		MinResponses: 5,
	})
	if err != nil {
		log.WithError(err).Fatal("overview failed")
	}
	log.WithField("month", month).WithField("groups", len(ov.Rows)).Info("overview computed")

	out := report{
		Overview:  ov,
		Watchlist: kpi.Watchlist(ov, kpi.DefaultWatchlistThresholds()),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.WithError(err).Fatal("failed to write report")
	}
}

// loadTables reads the snapshot when it has data, otherwise rebuilds it
// wholesale from the source directories.
func loadTables(store *snapshot.Store, dataDir string, reasonRules []labeller.Rule, rebuild bool, log *logger.Logger) ([]types.CaseRecord, []types.ComplaintRecord, []types.SurveyRecord) {
	if !rebuild {
		if has, err := store.HasData(); err == nil && has {
			cases, complaints, survey, err := store.ReadAll()
			if err == nil {
				log.WithField("cases", len(cases)).Info("loaded tables from snapshot")
				return cases, complaints, survey
			}
			log.WithError(err).Warn("snapshot unreadable, rebuilding")
		}
	}

	cases, err := dataset.LoadCases(filepath.Join(dataDir, "cases"), log)
	if err != nil {
		log.WithError(err).Fatal("failed to load cases")
	}
	complaints, err := dataset.LoadComplaints(filepath.Join(dataDir, "complaints"), log)
	if err != nil {
		log.WithError(err).Fatal("failed to load complaints")
	}
	complaints = labeller.LabelComplaints(complaints, reasonRules, log)
	survey, err := dataset.LoadSurvey(filepath.Join(dataDir, "survey"), log)
	if err != nil {
		log.WithError(err).Fatal("failed to load survey responses")
	}

	if err := store.WriteAll(cases, complaints, survey); err != nil {
		log.WithError(err).Warn("snapshot write failed, continuing without cache")
	}
	return cases, complaints, survey
}

func latestMonth(cases []types.CaseRecord, complaints []types.ComplaintRecord) string {
	months := make([]string, 0, len(cases)+len(complaints))
	for _, c := range cases {
		months = append(months, c.Month)
	}
	for _, c := range complaints {
		months = append(months, c.Month)
	}
	return schema.LatestMonth(months)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
