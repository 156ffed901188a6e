package schema

import (
	"strings"
	"unicode"
)

// Alias tables map the lowercase collapsed form of known variants to the
// canonical display value. Every canonical value must be a fixed point of
// the canon pipeline so canonicalization stays idempotent.
var portfolioAliases = map[string]string{
	"ldn":            "London",
	"london ops":     "London",
	"greater london": "London",
	"edi":            "Edinburgh",
	"edinburgh ops":  "Edinburgh",
	"mcr":            "Manchester",
	"manchester ops": "Manchester",
	"bmh":            "Bournemouth",
	"b'mouth":        "Bournemouth",
	"notts":          "Nottingham",
}

var processAliases = map[string]string{
	"member enquiry - general": "Member Enquiry",
	"member enquiries":         "Member Enquiry",
	"enquiry":                  "Member Enquiry",
	"general enquiry":          "Member Enquiry",
	"bereavement case":         "Bereavement",
	"death case":               "Bereavement",
	"transfer out quote":       "Transfer Out",
	"transfer-out":             "Transfer Out",
	"transfer in":              "Transfer In",
	"transfer-in":              "Transfer In",
	"retirement quote":         "Retirement",
	"retirement settlement":    "Retirement",
	"divorce case":             "Divorce",
	"pension sharing order":    "Divorce",
}

// CanonPortfolio standardizes a raw portfolio/site string.
func CanonPortfolio(raw string) string { return canon(raw, portfolioAliases) }

// CanonProcess standardizes a raw process / case-type string.
func CanonProcess(raw string) string { return canon(raw, processAliases) }

func canon(raw string, aliases map[string]string) string {
	s := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if s == "" {
		return ""
	}
	if v, ok := aliases[s]; ok {
		return v
	}
	return titleCase(s)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
