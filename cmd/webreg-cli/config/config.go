package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	devenv "webweg/dev/env"
	"webweg/internal/watch"
	"webweg/lib/configutil"

	"github.com/joho/godotenv"
)

const (
	DefaultPath    = "<dev_state>/webreg.json5"
	DefaultEnvPath = "<dev_state>/.env"

	EnvCookies = "WEBREG_COOKIES"
	EnvTerm    = "WEBREG_TERM"
)

type WatchConfig struct {
	// a time.ParseDuration string, ex. "1m"
	Interval string         `json:"interval"`
	Courses  []watch.Course `json:"courses"`
}

func (c WatchConfig) ParsedInterval() (time.Duration, error) {
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("watch interval: %w", err)
	}
	if interval < 5*time.Second {
		return 0, fmt.Errorf("watch interval %s is too short, the minimum is 5s", interval)
	}
	return interval, nil
}

type Config struct {
	Cookies           string           `json:"cookies"`
	Term              string           `json:"term"`
	BaseUrl           string           `json:"base_url"`
	UserAgent         string           `json:"user_agent"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	CloudflareBypass  bool             `json:"cloudflare_bypass"`
	VerifyFailMarker  string           `json:"verify_fail_marker"`
	Watch             WatchConfig      `json:"watch"`
	Smtp              watch.SmtpConfig `json:"smtp"`
}

func defaults() Config {
	return Config{
		RequestsPerSecond: 5,
		Watch: WatchConfig{
			Interval: "1m",
		},
	}
}

// Load reads the json5 config at path (plus its .local override), then
// applies WEBREG_COOKIES and WEBREG_TERM from the dotenv file at envPath and
// finally from the process environment. Every file is optional.
func Load(path, envPath string) (Config, error) {
	path, err := devenv.ResolvePath(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := configutil.ReadConfigWithDefaults(path, defaults())
	if err != nil {
		return Config{}, err
	}

	envPath, err = devenv.ResolvePath(envPath)
	if err != nil {
		return Config{}, err
	}
	env, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envPath, err)
	}

	lookup := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return env[key]
	}
	if cookies := lookup(EnvCookies); cookies != "" {
		cfg.Cookies = cookies
	}
	if term := lookup(EnvTerm); term != "" {
		cfg.Term = term
	}
	return cfg, nil
}
