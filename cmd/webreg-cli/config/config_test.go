package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"webweg/internal/watch"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv(EnvCookies, "")
	t.Setenv(EnvTerm, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "webreg.json5")
	envPath := filepath.Join(dir, ".env")

	cfg, err := Load(path, envPath)
	require.NoError(t, err)
	require.Equal(t, defaults(), cfg)

	err = os.WriteFile(path, []byte(`{
		// from the browser
		cookies: "jlinksessionidx=abc",
		term: "FA24",
		watch: {
			courses: [{ subject: "CSE", number: "100", sections: ["A01"] }],
		},
	}`), 0600)
	require.NoError(t, err)

	cfg, err = Load(path, envPath)
	require.NoError(t, err)
	require.Equal(t, "jlinksessionidx=abc", cfg.Cookies)
	require.Equal(t, "FA24", cfg.Term)
	require.Equal(t, 5.0, cfg.RequestsPerSecond)
	require.Equal(t, "1m", cfg.Watch.Interval)
	require.Equal(t, []watch.Course{{Subject: "CSE", Number: "100", Sections: []string{"A01"}}}, cfg.Watch.Courses)

	err = os.WriteFile(envPath, []byte("WEBREG_COOKIES=jlinksessionidx=fromenv\nWEBREG_TERM=WI25\n"), 0600)
	require.NoError(t, err)

	cfg, err = Load(path, envPath)
	require.NoError(t, err)
	require.Equal(t, "jlinksessionidx=fromenv", cfg.Cookies)
	require.Equal(t, "WI25", cfg.Term)

	t.Setenv(EnvTerm, "SP25")
	cfg, err = Load(path, envPath)
	require.NoError(t, err)
	require.Equal(t, "SP25", cfg.Term)
}

func TestWatchInterval(t *testing.T) {
	interval, err := WatchConfig{Interval: "90s"}.ParsedInterval()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, interval)

	_, err = WatchConfig{Interval: "1s"}.ParsedInterval()
	require.Error(t, err)

	_, err = WatchConfig{Interval: "soon"}.ParsedInterval()
	require.Error(t, err)
}
