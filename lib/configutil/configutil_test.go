package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Term    string   `json:"term"`
	Rate    float64  `json:"rate"`
	Subject []string `json:"subjects"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "webreg.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, name, `{
		// comments are allowed
		term: "FA24",
		rate: 2,
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Term: "FA24", Rate: 2}, cfg)

	writeFile(t, filepath.Join(dir, "webreg.local.json5"), `{ term: "WI25" }`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Term: "WI25", Rate: 2}, cfg)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "webreg.json5")
	defaults := testConfig{Term: "SP24", Rate: 5}

	cfg, err := ReadConfigWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	writeFile(t, name, `{ subjects: ["CSE"] }`)
	cfg, err = ReadConfigWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{Term: "SP24", Rate: 5, Subject: []string{"CSE"}}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "webreg.json5")
	writeFile(t, name, `{ term: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
