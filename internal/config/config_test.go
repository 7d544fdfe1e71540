package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CENSUS_TRAIN_PATH", "CENSUS_HOLDOUT_PATH", "CENSUS_THRESHOLD", "CENSUS_TARGET", "LOG_LEVEL", "LOG_FORMAT", "CENSUS_DICTIONARY", "CENSUS_ENCODING"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, schema.Target, cfg.Target)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Equal(t, "text", cfg.LogFormat)
}

// unsetenv clears keys for the test; t.Setenv restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadEnvFile(t *testing.T) {
	unsetenv(t, "CENSUS_TARGET", "LOG_FORMAT")
	t.Setenv("CENSUS_THRESHOLD", "0.3")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CENSUS_TARGET=label\nCENSUS_THRESHOLD=0.9\nLOG_FORMAT=json\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "label", cfg.Target)
	assert.Equal(t, "json", cfg.LogFormat)
	// the process environment wins over the file
	assert.Equal(t, 0.3, cfg.Threshold)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("CENSUS_THRESHOLD", "1.5")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CENSUS_THRESHOLD", "half")
	_, err = Load()
	require.Error(t, err)
}

func TestCensusEncoderConfigMatchesDictionary(t *testing.T) {
	ec, err := CensusEncoderConfig()
	require.NoError(t, err)

	dict, err := schema.CensusDictionary()
	require.NoError(t, err)

	edu, ok := dict.Lookup("education")
	require.True(t, ok)
	assert.ElementsMatch(t, edu.Categories, ec.Ordered["education"])

	for _, name := range ec.Nominal {
		c, ok := dict.Lookup(name)
		require.True(t, ok, "nominal column %q not in dictionary", name)
		assert.Equal(t, schema.Categorical, c.Kind, name)
	}
	for _, name := range ec.Integer {
		_, ok := dict.Lookup(name)
		require.True(t, ok, "integer column %q not in dictionary", name)
	}
}

func TestLoadEncoderConfig(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("ordered:\n  size: [S, M, L]\nnominal: [color]\ninteger: [count]\n"), 0o644))
	ec, err := LoadEncoderConfig(good)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M", "L"}, ec.Ordered["size"])
	assert.Len(t, ec.Specs(), 3)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("ordinal:\n  size: [S]\n"), 0o644))
	_, err = LoadEncoderConfig(unknown)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("ordered:\n  size: []\n"), 0o644))
	_, err = LoadEncoderConfig(empty)
	require.Error(t, err)
}
