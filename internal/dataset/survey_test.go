package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/logger"
)

func TestLoadSurveyDirectScores(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "survey.csv",
		"Survey Date,Portfolio,NPS Score,Clarity\n"+
			"05/06/2025,London,9,Agree\n"+
			"06/06/2025,London,not a number,Disagree\n")

	recs, err := LoadSurvey(dir, logger.New())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.NotNil(t, recs[0].NPSScore)
	assert.Equal(t, 9.0, *recs[0].NPSScore)
	assert.False(t, recs[0].Aggregated)

	// bad numeric degrades to missing, the row survives
	assert.Nil(t, recs[1].NPSScore)
	assert.Equal(t, "Disagree", recs[1].Clarity)
}

func TestLoadSurveyDerivesNPSFromCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv",
		"Date,Portfolio,Promoters,Passives,Detractors\n"+
			"01/06/2025,LDN,6,2,2\n"+
			"01/06/2025,EDI,0,0,0\n")
	writeFile(t, dir, "b.csv",
		"Date,Portfolio,Promoters,Passives,Detractors\n"+
			"01/06/2025,london,2,0,0\n")

	recs, err := LoadSurvey(dir, logger.New())
	require.NoError(t, err)

	var london *float64
	var edinburghScored bool
	for _, r := range recs {
		switch r.Portfolio {
		case "London":
			require.True(t, r.Aggregated)
			london = r.NPSScore
		case "Edinburgh":
			edinburghScored = r.NPSScore != nil
		}
	}
	// file a: (6-2)/10*100 = 40; file b: (2-0)/2*100 = 100; averaged = 70
	require.NotNil(t, london)
	assert.Equal(t, 70.0, *london)
	// zero-total rows are excluded from NPS
	assert.False(t, edinburghScored)
}
