package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonPortfolioAliases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "London", CanonPortfolio("LDN"))
	assert.Equal(t, "London", CanonPortfolio("  greater   london "))
	assert.Equal(t, "Edinburgh", CanonPortfolio("edinburgh ops"))
	assert.Equal(t, "Swindon", CanonPortfolio("swindon")) // unaliased, title-cased
	assert.Equal(t, "", CanonPortfolio("   "))
}

func TestCanonProcessAliases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Member Enquiry", CanonProcess("general enquiry"))
	assert.Equal(t, "Bereavement", CanonProcess("Death Case"))
	assert.Equal(t, "Transfer Out", CanonProcess("transfer-out"))
}

func TestCanonIsIdempotent(t *testing.T) {
	t.Parallel()

	samples := []string{
		"LDN", "london", "  greater   london ", "Member Enquiry",
		"general enquiry", "death case", "some brand new portfolio",
		"MIXED case Value", "", "transfer-out",
	}
	for _, s := range samples {
		once := CanonPortfolio(s)
		assert.Equal(t, once, CanonPortfolio(once), "portfolio canon not idempotent for %q", s)

		once = CanonProcess(s)
		assert.Equal(t, once, CanonProcess(once), "process canon not idempotent for %q", s)
	}
}
