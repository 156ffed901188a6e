package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/logger"
)

func TestParseReviewFailed(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"Pass":               false,
		"PASS":               false,
		"Pass with comments": false,
		"":                   false,
		"Fail":               true,
		"Failed":             true,
		"FAIL - rework":      true,
		"Not Passed":         true,
		"f":                  true,
		"no":                 true,
		"Standard Not Met":   true,
	}
	for result, want := range cases {
		assert.Equal(t, want, ParseReviewFailed(result), "result %q", result)
	}
}

func TestLoadFPA(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fpa.csv",
		"Review Date,Portfolio,Process,Review Result,Case Comment\n"+
			"03/06/2025,LDN,General Enquiry,Fail,wrong figures in the letter\n"+
			"03/06/2025,LDN,General Enquiry,Pass,\n")

	recs, err := LoadFPA(dir, logger.New())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].Failed)
	assert.Equal(t, "2025-06", recs[0].Month)
	assert.Equal(t, "London", recs[0].Portfolio)
	assert.Equal(t, "Member Enquiry", recs[0].Process)
	assert.False(t, recs[1].Failed)
	// tags are the labeller's job, never the loader's
	assert.Empty(t, recs[0].PrimaryFailReason)
}
