package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/spf13/viper"

	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
)

const defaultBaseURL = "http://localhost:8080"

// Credentials is an email/password pair for one of the well-known accounts.
type Credentials struct {
	Email    string
	Password string
	FullName string
}

// TestConfig holds all configuration for E2E tests
type TestConfig struct {
	BaseURL       string
	Timeout       time.Duration
	ExpectTimeout time.Duration
	Headless      bool
	SlowMo        int
	Screenshots   bool
	Videos        bool
	AdminEmail    string
	AdminPassword string

	// Accounts maps each role to the credentials the bootstrapper provisions
	// and the auth helper logs in with.
	Accounts map[fixtures.Role]Credentials

	AccountsFile           string
	BootstrapRetries       int
	SweepConcurrency       int
	SweepAfter             bool
	PlaywrightPreinstalled bool
}

// Credentials returns the configured credentials for role.
func (c *TestConfig) Credentials(role fixtures.Role) (Credentials, error) {
	creds, ok := c.Accounts[role]
	if !ok || creds.Email == "" {
		return Credentials{}, fmt.Errorf("no credentials configured for role %q", role)
	}
	return creds, nil
}

var (
	loadOnce sync.Once
	loaded   *TestConfig
)

// GetConfig returns the test configuration from .env and environment variables.
// The result is resolved once per process.
func GetConfig() *TestConfig {
	loadOnce.Do(func() {
		loaded = Load(".env")
	})
	return loaded
}

// Load resolves a fresh configuration. Values from envFile are used only when
// the corresponding environment variable is unset.
func Load(envFile string) *TestConfig {
	log := Logger("config")
	v := newViper()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.V(1).Info("ignoring env file", "path", envFile, "err", err.Error())
		}
	}
	setVerbosity(v)

	baseURL := v.GetString("BASE_URL")
	if forced := v.GetString("RAW_BASE_URL"); forced != "" { // explicit injection hook for tests
		baseURL = forced
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if v.GetBool("E2E_BASEURL_AUTODETECT") {
		baseURL = detectReachableBaseURL(log, baseURL)
	}
	log.Info("resolved base URL", "baseURL", baseURL, "rawBaseURL", v.GetString("RAW_BASE_URL"))

	accounts := map[fixtures.Role]Credentials{}
	for _, role := range fixtures.Roles() {
		key := strings.ToUpper(string(role))
		accounts[role] = Credentials{
			Email:    v.GetString("E2E_" + key + "_EMAIL"),
			Password: v.GetString("E2E_" + key + "_PASSWORD"),
			FullName: v.GetString("E2E_" + key + "_NAME"),
		}
	}
	admin := accounts[fixtures.RoleAdmin]

	return &TestConfig{
		BaseURL:                baseURL,
		Timeout:                millisOrDuration(v, "E2E_TIMEOUT"),
		ExpectTimeout:          millisOrDuration(v, "E2E_EXPECT_TIMEOUT"),
		Headless:               v.GetBool("HEADLESS"),
		SlowMo:                 v.GetInt("SLOW_MO"),
		Screenshots:            v.GetBool("SCREENSHOTS"),
		Videos:                 v.GetBool("VIDEOS"),
		AdminEmail:             admin.Email,
		AdminPassword:          admin.Password,
		Accounts:               accounts,
		AccountsFile:           v.GetString("E2E_ACCOUNTS_FILE"),
		BootstrapRetries:       v.GetInt("E2E_BOOTSTRAP_RETRIES"),
		SweepConcurrency:       v.GetInt("E2E_SWEEP_CONCURRENCY"),
		SweepAfter:             v.GetBool("E2E_SWEEP_AFTER"),
		PlaywrightPreinstalled: v.GetBool("PLAYWRIGHT_PREINSTALLED"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("BASE_URL", defaultBaseURL)
	v.SetDefault("E2E_BASEURL_AUTODETECT", true)
	v.SetDefault("HEADLESS", true)
	v.SetDefault("SLOW_MO", 0)
	v.SetDefault("SCREENSHOTS", true)
	v.SetDefault("VIDEOS", false)
	v.SetDefault("E2E_TIMEOUT", "30s")
	v.SetDefault("E2E_EXPECT_TIMEOUT", "5s")
	v.SetDefault("E2E_LOG_VERBOSITY", 0)
	v.SetDefault("PLAYWRIGHT_PREINSTALLED", false)
	v.SetDefault("E2E_BOOTSTRAP_RETRIES", 2)
	v.SetDefault("E2E_SWEEP_CONCURRENCY", 4)
	v.SetDefault("E2E_SWEEP_AFTER", false)

	v.SetDefault("E2E_ADMIN_EMAIL", "admin@test.com")
	v.SetDefault("E2E_ADMIN_PASSWORD", "password")
	v.SetDefault("E2E_ADMIN_NAME", "Test Admin")
	v.SetDefault("E2E_MANAGER_EMAIL", "manager@test.com")
	v.SetDefault("E2E_MANAGER_PASSWORD", "password")
	v.SetDefault("E2E_MANAGER_NAME", "Test Manager")
	v.SetDefault("E2E_AGENT_EMAIL", "agent@test.com")
	v.SetDefault("E2E_AGENT_PASSWORD", "password")
	v.SetDefault("E2E_AGENT_NAME", "Test Agent")
	return v
}

// WaitReachable blocks until baseURL answers or maxWait elapses.
func WaitReachable(ctx context.Context, baseURL string, maxWait time.Duration) error {
	log := Logger("config")
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxWait

	op := func() error {
		if reachable(baseURL) {
			return nil
		}
		return fmt.Errorf("%s not reachable", baseURL)
	}
	notify := func(err error, next time.Duration) {
		log.V(1).Info("waiting for backend", "baseURL", baseURL, "retryIn", next.String())
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("backend at %s did not become reachable within %s: %w", baseURL, maxWait, err)
	}
	return nil
}

// detectReachableBaseURL attempts to find a responsive backend if the provided baseURL is not reachable.
func detectReachableBaseURL(log logr.Logger, initial string) string {
	start := time.Now()
	if reachable(initial) {
		return initial
	}

	u, err := url.Parse(initial)
	if err != nil {
		return initial
	}
	port := u.Port()
	if port == "" {
		port = "8080"
	}
	candidates := []string{}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		candidates = append(candidates, u.Scheme+"://localhost:"+port, u.Scheme+"://127.0.0.1:"+port)
	}
	candidates = append(candidates, defaultBaseURL)

	seen := map[string]struct{}{initial: {}}
	tried := []string{initial}
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		tried = append(tried, c)
		if reachable(c) {
			log.Info("auto-detect switched base URL", "from", initial, "to", c, "elapsed", time.Since(start).String())
			return c
		}
	}
	log.V(1).Info("auto-detect kept unreachable base URL", "baseURL", initial, "tried", tried)
	return initial
}

func reachable(base string) bool {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	d := net.Dialer{Timeout: 250 * time.Millisecond}
	conn, err := d.Dial("tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 800 * time.Millisecond}
	for _, path := range []string{"/healthz", "/login"} {
		resp, err := client.Get(base + path)
		if err == nil {
			_ = resp.Body.Close()
			return true
		}
	}
	return false
}

// MaskedPassword is used when printing credentials.
func MaskedPassword(p string) string {
	if p == "" {
		return ""
	}
	return "[configured]"
}

// millisOrDuration reads key as a duration. A bare number is taken as
// milliseconds, the unit SLOW_MO and the playwright timeouts use.
func millisOrDuration(v *viper.Viper, key string) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return v.GetDuration(key)
}
