package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "api", cfg.Provider.Kind)
	assert.Equal(t, 4, cfg.Pipeline.BatchLimit)
}

func TestLoadOverridesDefaults(t *testing.T) {
	src := `
server:
  addr: ":9090"
provider:
  kind: scrape
  scrape_base_url: https://example.test
pipeline:
  batch_limit: 8
weights:
  pe_industry: 0.5
  pb_industry: 0.5
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "scrape", cfg.Provider.Kind)
	assert.Equal(t, 8, cfg.Pipeline.BatchLimit)
	assert.Equal(t, 0.5, cfg.Weights["pe_industry"])
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
