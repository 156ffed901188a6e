package join

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-insights-go/internal/logger"
)

func TestLoadProcessMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Complaint Type,Process\n"+
			"payment query,Payments\n"+
			"transfer-out,Transfer Out\n"), 0o644))

	m := LoadProcessMap(path, logger.New())
	require.NotNil(t, m)
	assert.Equal(t, "Payments", m["Payment Query"])
	assert.Equal(t, "Transfer Out", m["Transfer Out"])
}

func TestLoadProcessMapOptional(t *testing.T) {
	assert.Nil(t, LoadProcessMap("", logger.New()))
	assert.Nil(t, LoadProcessMap(filepath.Join(t.TempDir(), "missing.csv"), logger.New()))
}
