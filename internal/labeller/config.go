package labeller

import (
	"os"

	"gopkg.in/yaml.v3"

	"quality-insights-go/internal/logger"
)

// Sentinel categories. Grouping downstream never sees an empty label.
const (
	CategoryOther        = "Other"
	CategoryUnclassified = "Unclassified"
	CategoryUnknown      = "Unknown"
)

// RuleSpec is one category with its regex patterns, as written in the yaml
// rules file. Order in the file is priority order.
type RuleSpec struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// Config carries the two rule sets: the shared reason taxonomy (RCA
// labelling and all reason-mix KPIs read the same list) and the FPA
// fail-reason taxonomy.
type Config struct {
	Reasons []RuleSpec `yaml:"reasons"`
	FPA     []RuleSpec `yaml:"fpa"`
}

// LoadConfig reads the rules file at path. An absent or malformed file
// falls back to the built-in defaults with a warning; an empty path means
// defaults without comment.
func LoadConfig(path string, log *logger.Logger) Config {
	if path == "" {
		return DefaultConfig()
	}
	clog := log.WithField("component", "labeller.config").WithField("path", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		clog.WithField("error", err.Error()).Warn("rules file unreadable, using built-in rules")
		return DefaultConfig()
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		clog.WithField("error", err.Error()).Warn("rules file malformed, using built-in rules")
		return DefaultConfig()
	}
	if len(cfg.Reasons) == 0 {
		cfg.Reasons = DefaultConfig().Reasons
	}
	if len(cfg.FPA) == 0 {
		cfg.FPA = DefaultConfig().FPA
	}
	clog.WithField("reason_categories", len(cfg.Reasons)).Info("labelling rules loaded")
	return cfg
}

// DefaultConfig is the built-in taxonomy. Category order is the designed
// tie-break: when several categories match, the earlier one wins.
func DefaultConfig() Config {
	return Config{
		Reasons: []RuleSpec{
			{Category: "System/Portal", Patterns: []string{
				`(?i)\bportal\b`, `(?i)system (was |is )?down`, `(?i)access (was )?denied`,
				`(?i)\bwebsite\b`, `(?i)log ?in`, `(?i)online account`, `(?i)\bit issue`,
			}},
			{Category: "Delay", Patterns: []string{
				`(?i)\bdelay`, `(?i)\blate\b`, `(?i)\bslow\b`, `(?i)waiting`,
				`(?i)took too long`, `(?i)overdue`, `(?i)still not received`,
			}},
			{Category: "Communication", Patterns: []string{
				`(?i)no (response|reply)`, `(?i)not (kept )?informed`, `(?i)communicat`,
				`(?i)unclear`, `(?i)confus`, `(?i)call ?back`, `(?i)never heard`,
			}},
			{Category: "Payment", Patterns: []string{
				`(?i)payment`, `(?i)overpaid`, `(?i)underpaid`, `(?i)wrong amount`,
				`(?i)\btax\b`, `(?i)refund`, `(?i)not been paid`,
			}},
			{Category: "Data Error", Patterns: []string{
				`(?i)incorrect (details?|records?|data|address)`, `(?i)wrong (details?|records?|data|address|name)`,
				`(?i)data (error|breach)`, `(?i)misquote`, `(?i)wrong member`,
			}},
			{Category: "Staff Conduct", Patterns: []string{
				`(?i)\brude\b`, `(?i)unhelpful`, `(?i)attitude`, `(?i)unprofessional`,
			}},
			{Category: "Process Failure", Patterns: []string{
				`(?i)process not followed`, `(?i)procedure`, `(?i)missed step`,
				`(?i)not actioned`, `(?i)error in (the )?process`,
			}},
		},
		FPA: []RuleSpec{
			{Category: "Incorrect Calculation", Patterns: []string{
				`(?i)calc`, `(?i)\bfigures?\b`, `(?i)wrong amount`, `(?i)incorrect value`,
			}},
			{Category: "Missed Information", Patterns: []string{
				`(?i)\bmissed\b`, `(?i)omitted`, `(?i)not included`, `(?i)missing (info|document)`,
			}},
			{Category: "Wrong Letter/Template", Patterns: []string{
				`(?i)\bletter\b`, `(?i)template`, `(?i)wording`, `(?i)typo`,
			}},
			{Category: "Process Not Followed", Patterns: []string{
				`(?i)process`, `(?i)procedure`, `(?i)checklist`, `(?i)authorisation`,
			}},
			{Category: "System Error", Patterns: []string{
				`(?i)system`, `(?i)portal`, `(?i)workflow error`,
			}},
		},
	}
}
