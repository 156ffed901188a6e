package labeller

import (
	"regexp"
	"sort"
	"strings"

	"quality-insights-go/internal/logger"
	"quality-insights-go/internal/types"
)

// Rule is one compiled category. Rules live in an ordered slice, never a
// map: first category with a matching pattern wins, and that priority is
// tested behavior, not an accident of iteration order.
type Rule struct {
	Category string
	Patterns []*regexp.Regexp
}

// Compile turns specs into rules, dropping invalid patterns and categories
// left with no valid pattern.
func Compile(specs []RuleSpec) []Rule {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		var pats []*regexp.Regexp
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				continue
			}
			pats = append(pats, re)
		}
		if len(pats) == 0 {
			continue
		}
		rules = append(rules, Rule{Category: spec.Category, Patterns: pats})
	}
	return rules
}

// Match returns the first category whose pattern list hits. The first
// matching pattern within a category is sufficient.
func Match(text string, rules []Rule) (string, bool) {
	i, ok := matchIndex(text, rules, "")
	if !ok {
		return "", false
	}
	return rules[i].Category, true
}

func matchIndex(text string, rules []Rule, skipCategory string) (int, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	for i, rule := range rules {
		if rule.Category == skipCategory {
			continue
		}
		for _, p := range rule.Patterns {
			if p.MatchString(text) {
				return i, true
			}
		}
	}
	return 0, false
}

// MatchPrimarySecondary derives RCA1 and RCA2. The secondary label reruns
// the match after stripping the primary category's matched text, so the
// same wording cannot win twice; no primary means no secondary.
func MatchPrimarySecondary(text string, rules []Rule) (string, string) {
	i, ok := matchIndex(text, rules, "")
	if !ok {
		return "", ""
	}
	stripped := text
	for _, p := range rules[i].Patterns {
		stripped = p.ReplaceAllString(stripped, " ")
	}
	j, ok := matchIndex(stripped, rules, rules[i].Category)
	if !ok {
		return rules[i].Category, ""
	}
	return rules[i].Category, rules[j].Category
}

// LabelComplaints fills RCA1/RCA2 on every record from its free text,
// preferring the RCA source field over the shorter reason field. Rows with
// an RCA1 already present are left untouched so re-ingestion is idempotent.
// Unmatched rows get the "Other" sentinel, never an empty label.
func LabelComplaints(recs []types.ComplaintRecord, rules []Rule, log *logger.Logger) []types.ComplaintRecord {
	llog := log.WithField("component", "labeller.rca")
	out := make([]types.ComplaintRecord, len(recs))
	var unmatched []string
	for i, rec := range recs {
		out[i] = rec
		if rec.RCA1 != "" {
			continue
		}
		text := rec.RCASourceText
		if strings.TrimSpace(text) == "" {
			text = rec.ReasonText
		}
		rca1, rca2 := MatchPrimarySecondary(text, rules)
		if rca1 == "" {
			out[i].RCA1 = CategoryOther
			if strings.TrimSpace(text) != "" {
				unmatched = append(unmatched, text)
			}
			continue
		}
		out[i].RCA1 = rca1
		out[i].RCA2 = rca2
	}
	if len(unmatched) > 0 {
		terms := TopUnmatchedTerms(unmatched, 5)
		llog.WithField("unmatched_rows", len(unmatched)).
			WithField("top_terms", terms).
			Debug("unmatched complaint text, consider extending the rules file")
	}
	return out
}

// LabelFPA tags failed reviews with fail reasons from the case comment.
// Non-failed rows carry no tags. AllFailReasons lists every matching
// category in rule order; the primary is the first of them.
func LabelFPA(recs []types.FPARecord, rules []Rule) []types.FPARecord {
	out := make([]types.FPARecord, len(recs))
	for i, rec := range recs {
		out[i] = rec
		if !rec.Failed || rec.PrimaryFailReason != "" {
			continue
		}
		var all []string
		for _, rule := range rules {
			for _, p := range rule.Patterns {
				if p.MatchString(rec.CaseComment) {
					all = append(all, rule.Category)
					break
				}
			}
		}
		if len(all) == 0 {
			out[i].PrimaryFailReason = CategoryUnclassified
			continue
		}
		out[i].PrimaryFailReason = all[0]
		out[i].AllFailReasons = all
	}
	return out
}

// TopUnmatchedTerms is the frequency-based fallback for text the rule set
// never matched: it surfaces the most common meaningful words so the
// taxonomy can be extended deliberately instead of rows silently pooling
// under "Other".
func TopUnmatchedTerms(texts []string, n int) []string {
	counts := map[string]int{}
	for _, t := range texts {
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,;:!?()\"'")
			if len(w) <= 3 || stopwords[w] {
				continue
			}
			counts[w]++
		}
	}
	terms := make([]string, 0, len(counts))
	for w := range counts {
		terms = append(terms, w)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "have": true, "been": true,
	"they": true, "their": true, "there": true, "about": true, "which": true,
	"from": true, "when": true, "were": true, "case": true, "member": true,
}
