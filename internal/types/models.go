package types

import "time"

// Dimension names accepted by KPI grouping and filter maps. Loaders emit
// canonical values for all of these; a record type that does not carry a
// dimension reports it as absent and the KPI layer drops it from grouping.
const (
	DimMonth         = "month"
	DimPortfolio     = "portfolio"
	DimProcess       = "process"
	DimLocation      = "location"
	DimScheme        = "scheme"
	DimTeam          = "team"
	DimShoreType     = "shore_type"
	DimWorkType      = "work_type"
	DimReceiptMethod = "receipt_method"
	DimRCA1          = "rca1"
)

// Dimensioned is implemented by every loaded record type so the KPI layer
// can group and filter without probing raw column names.
type Dimensioned interface {
	Dimension(name string) (string, bool)
	MonthKey() string
}

type CaseRecord struct {
	CaseID        string     `json:"case_id"`
	CreatedDate   time.Time  `json:"created_date,omitempty"`
	ClosedDate    time.Time  `json:"closed_date,omitempty"`
	Month         string     `json:"month"` // YYYY-MM, "" when the date never parsed
	Portfolio     string     `json:"portfolio"`
	Process       string     `json:"process"`
	CycleTimeDays *float64   `json:"cycle_time_days,omitempty"`
	Location      string     `json:"location,omitempty"`
	Scheme        string     `json:"scheme,omitempty"`
	Team          string     `json:"team,omitempty"`
	ShoreType     string     `json:"shore_type,omitempty"`
	WorkType      string     `json:"work_type,omitempty"`
	Critical      bool       `json:"critical,omitempty"`
	SLAMet        *bool      `json:"sla_met,omitempty"`
	Consent       string     `json:"consent,omitempty"`
	SourceFile    string     `json:"source_file,omitempty"`
}

func (c CaseRecord) MonthKey() string { return c.Month }

func (c CaseRecord) Dimension(name string) (string, bool) {
	switch name {
	case DimMonth:
		return c.Month, true
	case DimPortfolio:
		return c.Portfolio, true
	case DimProcess:
		return c.Process, true
	case DimLocation:
		return c.Location, true
	case DimScheme:
		return c.Scheme, true
	case DimTeam:
		return c.Team, true
	case DimShoreType:
		return c.ShoreType, true
	case DimWorkType:
		return c.WorkType, true
	}
	return "", false
}

// TimeField resolves a named datetime for duration KPIs. Accepted names
// cover the header-guessing vocabulary used by the SLA calculator.
func (c CaseRecord) TimeField(name string) (time.Time, bool) {
	switch name {
	case "created", "start", "received", "logged":
		return c.CreatedDate, !c.CreatedDate.IsZero()
	case "closed", "end", "completed", "resolved":
		return c.ClosedDate, !c.ClosedDate.IsZero()
	}
	return time.Time{}, false
}

type ComplaintRecord struct {
	Month         string `json:"month"`
	Portfolio     string `json:"portfolio"`
	Process       string `json:"process"` // parent case type when no process column exists
	ReasonText    string `json:"reason_text,omitempty"`
	RCASourceText string `json:"rca_source_text,omitempty"`
	RCA1          string `json:"rca1,omitempty"`
	RCA2          string `json:"rca2,omitempty"`
	ReceiptMethod string `json:"receipt_method,omitempty"`
	Team          string `json:"team,omitempty"`
	Scheme        string `json:"scheme,omitempty"`
	SourceFile    string `json:"source_file,omitempty"`
}

func (c ComplaintRecord) MonthKey() string { return c.Month }

func (c ComplaintRecord) Dimension(name string) (string, bool) {
	switch name {
	case DimMonth:
		return c.Month, true
	case DimPortfolio:
		return c.Portfolio, true
	case DimProcess:
		return c.Process, true
	case DimReceiptMethod:
		return c.ReceiptMethod, true
	case DimTeam:
		return c.Team, true
	case DimScheme:
		return c.Scheme, true
	case DimRCA1:
		return c.RCA1, true
	}
	return "", false
}

type FPARecord struct {
	Month             string   `json:"month"`
	Portfolio         string   `json:"portfolio"`
	Process           string   `json:"process"`
	ReviewResult      string   `json:"review_result"`
	Failed            bool     `json:"failed"`
	CaseComment       string   `json:"case_comment,omitempty"`
	PrimaryFailReason string   `json:"primary_fail_reason,omitempty"`
	AllFailReasons    []string `json:"all_fail_reasons,omitempty"`
	SourceFile        string   `json:"source_file,omitempty"`
}

func (f FPARecord) MonthKey() string { return f.Month }

func (f FPARecord) Dimension(name string) (string, bool) {
	switch name {
	case DimMonth:
		return f.Month, true
	case DimPortfolio:
		return f.Portfolio, true
	case DimProcess:
		return f.Process, true
	}
	return "", false
}

type SurveyRecord struct {
	Month      string   `json:"month"`
	Portfolio  string   `json:"portfolio"`
	NPSScore   *float64 `json:"nps_score,omitempty"` // 0-10 respondent score, or derived -100..100 when Aggregated
	Aggregated bool     `json:"aggregated,omitempty"` // true for rows derived from promoter/passive/detractor counts
	Clarity    string   `json:"clarity,omitempty"`
	Timescale  string   `json:"timescale,omitempty"`
	Handling   string   `json:"handling,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
}

func (s SurveyRecord) MonthKey() string { return s.Month }

func (s SurveyRecord) Dimension(name string) (string, bool) {
	switch name {
	case DimMonth:
		return s.Month, true
	case DimPortfolio:
		return s.Portfolio, true
	}
	return "", false
}
