package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/xgx-io/stackerr/internal/schema"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
tier: alloc
suffix: _gen.go
stack_types: ["*query.Error"]
concurrency: 2
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, schema.TierAlloc, cfg.Tier)
	assert.Equal(t, "_gen.go", cfg.Suffix)
	assert.Equal(t, []string{"*query.Error"}, cfg.StackTypes)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_KeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("tier: minimal\n"))
	require.NoError(t, err)
	def := Default()
	assert.Equal(t, schema.TierMinimal, cfg.Tier)
	assert.Equal(t, def.Suffix, cfg.Suffix)
	assert.Equal(t, def.Concurrency, cfg.Concurrency)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("tier: huge\nsuffix: .txt\nconcurrency: 0\nlog_level: loud\n"))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
	assert.Contains(t, err.Error(), `invalid tier "huge"`)
	assert.Contains(t, err.Error(), `invalid suffix ".txt"`)
	assert.Contains(t, err.Error(), "invalid concurrency 0")
	assert.Contains(t, err.Error(), "invalid log_level")

	_, err = Parse([]byte("colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "no file means defaults")

	require.NoError(t, os.WriteFile(FileName, []byte("suffix: _errors.go\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "_errors.go", cfg.Suffix)
	assert.Equal(t, FileName, cfg.Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "an explicit path must exist")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
