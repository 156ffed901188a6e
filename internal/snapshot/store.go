package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/types"
)

// Store is the on-disk snapshot cache of normalized tables. It is a plain
// memoization layer: rebuilt wholesale after every full load, read back at
// startup when non-empty, no versioning, single writer assumed.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

const createCasesSQL = `
CREATE TABLE IF NOT EXISTS cases (
	case_id TEXT NOT NULL,
	created_date TEXT NOT NULL,
	closed_date TEXT NOT NULL,
	month TEXT NOT NULL,
	portfolio TEXT NOT NULL,
	process TEXT NOT NULL,
	cycle_time_days REAL,
	location TEXT NOT NULL,
	scheme TEXT NOT NULL,
	team TEXT NOT NULL,
	shore_type TEXT NOT NULL,
	work_type TEXT NOT NULL,
	critical INTEGER NOT NULL,
	sla_met INTEGER,
	consent TEXT NOT NULL
)`

const createComplaintsSQL = `
CREATE TABLE IF NOT EXISTS complaints (
	month TEXT NOT NULL,
	portfolio TEXT NOT NULL,
	process TEXT NOT NULL,
	reason_text TEXT NOT NULL,
	rca_source_text TEXT NOT NULL,
	rca1 TEXT NOT NULL,
	rca2 TEXT NOT NULL,
	receipt_method TEXT NOT NULL,
	team TEXT NOT NULL,
	scheme TEXT NOT NULL
)`

const createSurveySQL = `
CREATE TABLE IF NOT EXISTS survey (
	month TEXT NOT NULL,
	portfolio TEXT NOT NULL,
	nps REAL,
	aggregated INTEGER NOT NULL,
	clarity TEXT NOT NULL,
	timescale TEXT NOT NULL,
	handling TEXT NOT NULL
)`

const insertCaseSQL = `
INSERT INTO cases (
	case_id, created_date, closed_date, month, portfolio, process,
	cycle_time_days, location, scheme, team, shore_type, work_type,
	critical, sla_met, consent
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertComplaintSQL = `
INSERT INTO complaints (
	month, portfolio, process, reason_text, rca_source_text,
	rca1, rca2, receipt_method, team, scheme
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertSurveySQL = `
INSERT INTO survey (
	month, portfolio, nps, aggregated, clarity, timescale, handling
) VALUES (?, ?, ?, ?, ?, ?, ?)`

// Open opens (creating if needed) the snapshot database at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %q: %w", path, err)
	}
	for _, stmt := range []string{createCasesSQL, createComplaintsSQL, createSurveySQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create snapshot schema: %w", err)
		}
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// HasData reports whether the snapshot holds anything worth reading back.
func (s *Store) HasData() (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT (SELECT COUNT(*) FROM cases) + (SELECT COUNT(*) FROM complaints) + (SELECT COUNT(*) FROM survey)`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count snapshot rows: %w", err)
	}
	return n > 0, nil
}

// WriteAll replaces the whole snapshot in one transaction.
func (s *Store) WriteAll(cases []types.CaseRecord, complaints []types.ComplaintRecord, survey []types.SurveyRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot write: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cases", "complaints", "survey"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, c := range cases {
		var slaMet any
		if c.SLAMet != nil {
			slaMet = boolInt(*c.SLAMet)
		}
		var cycle any
		if c.CycleTimeDays != nil {
			cycle = *c.CycleTimeDays
		}
		_, err := tx.Exec(insertCaseSQL,
			c.CaseID, timeText(c.CreatedDate), timeText(c.ClosedDate), c.Month,
			c.Portfolio, c.Process, cycle, c.Location, c.Scheme, c.Team,
			c.ShoreType, c.WorkType, boolInt(c.Critical), slaMet, c.Consent)
		if err != nil {
			return fmt.Errorf("insert case %q: %w", c.CaseID, err)
		}
	}
	for _, c := range complaints {
		_, err := tx.Exec(insertComplaintSQL,
			c.Month, c.Portfolio, c.Process, c.ReasonText, c.RCASourceText,
			c.RCA1, c.RCA2, c.ReceiptMethod, c.Team, c.Scheme)
		if err != nil {
			return fmt.Errorf("insert complaint: %w", err)
		}
	}
	for _, r := range survey {
		var nps any
		if r.NPSScore != nil {
			nps = *r.NPSScore
		}
		_, err := tx.Exec(insertSurveySQL,
			r.Month, r.Portfolio, nps, boolInt(r.Aggregated), r.Clarity, r.Timescale, r.Handling)
		if err != nil {
			return fmt.Errorf("insert survey row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	s.log.WithField("component", "snapshot").
		WithField("cases", len(cases)).
		WithField("complaints", len(complaints)).
		WithField("survey", len(survey)).
		Info("snapshot written")
	return nil
}

// ReadAll loads the three tables back into memory.
func (s *Store) ReadAll() ([]types.CaseRecord, []types.ComplaintRecord, []types.SurveyRecord, error) {
	cases, err := s.readCases()
	if err != nil {
		return nil, nil, nil, err
	}
	complaints, err := s.readComplaints()
	if err != nil {
		return nil, nil, nil, err
	}
	survey, err := s.readSurvey()
	if err != nil {
		return nil, nil, nil, err
	}
	return cases, complaints, survey, nil
}

func (s *Store) readCases() ([]types.CaseRecord, error) {
	rows, err := s.db.Query(`SELECT case_id, created_date, closed_date, month, portfolio, process,
		cycle_time_days, location, scheme, team, shore_type, work_type, critical, sla_met, consent
		FROM cases`)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	defer rows.Close()

	var out []types.CaseRecord
	for rows.Next() {
		var c types.CaseRecord
		var created, closed string
		var cycle sql.NullFloat64
		var critical int
		var slaMet sql.NullInt64
		if err := rows.Scan(&c.CaseID, &created, &closed, &c.Month, &c.Portfolio, &c.Process,
			&cycle, &c.Location, &c.Scheme, &c.Team, &c.ShoreType, &c.WorkType,
			&critical, &slaMet, &c.Consent); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.CreatedDate = parseTimeText(created)
		c.ClosedDate = parseTimeText(closed)
		if cycle.Valid {
			c.CycleTimeDays = types.Float(cycle.Float64)
		}
		c.Critical = critical != 0
		if slaMet.Valid {
			c.SLAMet = types.Bool(slaMet.Int64 != 0)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) readComplaints() ([]types.ComplaintRecord, error) {
	rows, err := s.db.Query(`SELECT month, portfolio, process, reason_text, rca_source_text,
		rca1, rca2, receipt_method, team, scheme FROM complaints`)
	if err != nil {
		return nil, fmt.Errorf("read complaints: %w", err)
	}
	defer rows.Close()

	var out []types.ComplaintRecord
	for rows.Next() {
		var c types.ComplaintRecord
		if err := rows.Scan(&c.Month, &c.Portfolio, &c.Process, &c.ReasonText, &c.RCASourceText,
			&c.RCA1, &c.RCA2, &c.ReceiptMethod, &c.Team, &c.Scheme); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) readSurvey() ([]types.SurveyRecord, error) {
	rows, err := s.db.Query(`SELECT month, portfolio, nps, aggregated, clarity, timescale, handling FROM survey`)
	if err != nil {
		return nil, fmt.Errorf("read survey: %w", err)
	}
	defer rows.Close()

	var out []types.SurveyRecord
	for rows.Next() {
		var r types.SurveyRecord
		var nps sql.NullFloat64
		var aggregated int
		if err := rows.Scan(&r.Month, &r.Portfolio, &nps, &aggregated, &r.Clarity, &r.Timescale, &r.Handling); err != nil {
			return nil, fmt.Errorf("scan survey row: %w", err)
		}
		if nps.Valid {
			r.NPSScore = types.Float(nps.Float64)
		}
		r.Aggregated = aggregated != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimeText(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
