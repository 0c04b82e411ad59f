// Package bootstrap makes sure the well-known test accounts exist in the
// system under test before any scenario runs.
//
// Provisioning is best-effort: every account is attempted, an account that
// already exists counts as success, and a failure is recorded in the Summary
// rather than aborting the run.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/gotrs-io/console-e2e/tests/e2e/apiclient"
	"github.com/gotrs-io/console-e2e/tests/e2e/config"
	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
)

const RegisterPath = "/api/auth/register"

var ErrNoAccounts = errors.New("no accounts to bootstrap")

// Account is one entry of the roster.
type Account struct {
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	FullName string        `yaml:"full_name"`
	Role     fixtures.Role `yaml:"role"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// DefaultAccounts returns the admin, manager and agent accounts from cfg.
func DefaultAccounts(cfg *config.TestConfig) []Account {
	accounts := make([]Account, 0, len(fixtures.Roles()))
	for _, role := range fixtures.Roles() {
		creds, err := cfg.Credentials(role)
		if err != nil {
			continue
		}
		accounts = append(accounts, Account{
			Email:    creds.Email,
			Password: creds.Password,
			FullName: creds.FullName,
			Role:     role,
		})
	}
	return accounts
}

// LoadAccounts reads a YAML roster:
//
//	accounts:
//	  - email: admin@test.com
//	    password: password
//	    full_name: Test Admin
//	    role: admin
func LoadAccounts(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	if err := validateRoster(data); err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	var doc struct {
		Accounts []Account `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	for _, a := range doc.Accounts {
		if a.Role != "" && !a.Role.Valid() {
			return nil, fmt.Errorf("roster %s: account %s has unknown role %q", path, a.Email, a.Role)
		}
	}
	return doc.Accounts, nil
}

// Bootstrapper registers a roster of accounts.
type Bootstrapper struct {
	client   *apiclient.Client
	accounts []Account
	log      logr.Logger
}

func New(client *apiclient.Client, accounts []Account, log logr.Logger) *Bootstrapper {
	return &Bootstrapper{client: client, accounts: accounts, log: log}
}

// FromConfig builds a bootstrapper for cfg, using the roster file when one
// is configured.
func FromConfig(cfg *config.TestConfig) (*Bootstrapper, error) {
	log := config.Logger("bootstrap")
	accounts := DefaultAccounts(cfg)
	if cfg.AccountsFile != "" {
		var err error
		if accounts, err = LoadAccounts(cfg.AccountsFile); err != nil {
			return nil, err
		}
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Retries: cfg.BootstrapRetries,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	return New(client, accounts, log), nil
}

// Run registers every account. The returned error is non-nil only when
// there is nothing to do; per-account failures are reported in the Summary.
func (b *Bootstrapper) Run(ctx context.Context) (Summary, error) {
	if len(b.accounts) == 0 {
		return Summary{}, ErrNoAccounts
	}
	defer b.client.Close()

	b.log.Info("creating test users", "count", len(b.accounts), "baseURL", b.client.BaseURL())
	summary := Summary{Results: make([]Result, 0, len(b.accounts))}
	for _, acct := range b.accounts {
		res := b.register(ctx, acct)
		switch res.Outcome {
		case Created:
			b.log.Info("created user", "email", acct.Email)
		case AlreadyExists:
			b.log.Info("user already exists", "email", acct.Email)
		default:
			b.log.Error(res.Err, "could not create user", "email", acct.Email, "status", res.Status, "body", res.Detail)
		}
		summary.Results = append(summary.Results, res)
	}
	b.log.Info("bootstrap complete", "created", len(summary.Created()), "existing", len(summary.Existing()), "failed", len(summary.Failed()))
	return summary, nil
}

func (b *Bootstrapper) register(ctx context.Context, acct Account) Result {
	res := Result{Account: acct}
	resp, err := b.client.Do(ctx, http.MethodPost, RegisterPath, registerRequest{
		Email:    acct.Email,
		Password: acct.Password,
		FullName: acct.FullName,
	})
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}
	res.Status = resp.Status
	res.Outcome = Classify(resp.Status, resp.Text())
	if res.Outcome == Failed {
		res.Detail = resp.Text()
		res.Err = fmt.Errorf("unexpected status %d", resp.Status)
	}
	return res
}

// Classify maps a registration response to an Outcome.
func Classify(status int, body string) Outcome {
	if status >= 200 && status < 300 {
		return Created
	}
	lower := strings.ToLower(body)
	if status == http.StatusConflict || strings.Contains(lower, "already exists") || strings.Contains(lower, "duplicate") {
		return AlreadyExists
	}
	return Failed
}

var (
	onceMu      sync.Mutex
	onceDone    bool
	onceSummary Summary
	onceErr     error
)

// Once runs the bootstrapper for cfg the first time it is called in this
// process and returns the cached result afterwards.
func Once(ctx context.Context, cfg *config.TestConfig) (Summary, error) {
	onceMu.Lock()
	defer onceMu.Unlock()
	if onceDone {
		return onceSummary, onceErr
	}
	b, err := FromConfig(cfg)
	if err != nil {
		onceErr = err
	} else {
		onceSummary, onceErr = b.Run(ctx)
	}
	onceDone = true
	return onceSummary, onceErr
}
