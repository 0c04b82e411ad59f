// Package sweep removes entities left behind by scenario runs. Only names
// produced by fixtures.UniqueName are touched, so data created by people or
// by seed scripts survives a sweep.
package sweep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/gotrs-io/console-e2e/tests/e2e/apiclient"
	"github.com/gotrs-io/console-e2e/tests/e2e/config"
	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
)

const LoginPath = "/api/auth/login"

var ErrUnauthorized = errors.New("sweep login rejected")

// Resource is a listable, deletable collection of the console API.
type Resource struct {
	Name string
	Path string
	// Key is the field some list responses nest the array under.
	Key string
}

// Resources are the settings collections the scenario suite writes to.
var Resources = []Resource{
	{Name: "api-keys", Path: "/api/api-keys", Key: "api_keys"},
	{Name: "canned-responses", Path: "/api/canned-responses", Key: "canned_responses"},
	{Name: "custom-actions", Path: "/api/custom-actions", Key: "custom_actions"},
}

type Entity struct {
	ID   string
	Name string
}

type Options struct {
	Email       string
	Password    string
	Concurrency int
	DryRun      bool
	// Before limits the sweep to names stamped earlier than it. Zero sweeps
	// every generated name.
	Before    time.Time
	Resources []Resource
}

type Sweeper struct {
	client *apiclient.Client
	opts   Options
	log    logr.Logger
}

func New(client *apiclient.Client, opts Options, log logr.Logger) *Sweeper {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Resources == nil {
		opts.Resources = Resources
	}
	return &Sweeper{client: client, opts: opts, log: log}
}

// FromConfig builds a sweeper that logs in as the configured admin. Login
// and concurrency come from cfg; the rest of opts is kept.
func FromConfig(cfg *config.TestConfig, opts Options) (*Sweeper, error) {
	creds, err := cfg.Credentials(fixtures.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log := config.Logger("sweep")
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Retries: cfg.BootstrapRetries,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	opts.Email = creds.Email
	opts.Password = creds.Password
	opts.Concurrency = cfg.SweepConcurrency
	return New(client, opts, log), nil
}

// Run logs in and sweeps every resource. A resource that cannot be listed
// is recorded in the report and does not stop the others.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	defer s.client.Close()

	if err := s.login(ctx); err != nil {
		return Report{}, err
	}
	report := Report{DryRun: s.opts.DryRun}
	for _, res := range s.opts.Resources {
		rr := s.sweep(ctx, res)
		if rr.Err != nil {
			s.log.Error(rr.Err, "sweep failed", "resource", res.Name)
		} else {
			s.log.Info("swept", "resource", res.Name, "matched", len(rr.Matched), "deleted", len(rr.Deleted), "failed", len(rr.Failed), "kept", rr.Kept, "recent", rr.Recent)
		}
		report.Resources = append(report.Resources, rr)
	}
	return report, nil
}

func (s *Sweeper) login(ctx context.Context) error {
	resp, err := s.client.Do(ctx, http.MethodPost, LoginPath, map[string]string{
		"email":    s.opts.Email,
		"password": s.opts.Password,
	})
	if err != nil {
		return fmt.Errorf("sweep login: %w", err)
	}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		return fmt.Errorf("%w: %s (status %d)", ErrUnauthorized, s.opts.Email, resp.Status)
	}
	if !resp.OK() {
		return fmt.Errorf("sweep login: unexpected status %d: %s", resp.Status, resp.Text())
	}
	token, err := accessToken(resp.Body)
	if err != nil {
		return err
	}
	info, ok, err := inspectToken(token, time.Now())
	if err != nil {
		return fmt.Errorf("sweep login: %w", err)
	}
	if ok {
		s.log.V(1).Info("logged in", "subject", info.Subject, "expires", info.ExpiresAt)
	}
	s.client.SetToken(token)
	return nil
}

func (s *Sweeper) sweep(ctx context.Context, res Resource) ResourceReport {
	rr := ResourceReport{Resource: res.Name}
	entities, err := s.list(ctx, res)
	if err != nil {
		rr.Err = err
		return rr
	}
	for _, e := range entities {
		at, ok := fixtures.GeneratedAt(e.Name)
		switch {
		case !ok:
			rr.Kept++
		case !s.opts.Before.IsZero() && !at.Before(s.opts.Before):
			rr.Recent++
		default:
			rr.Matched = append(rr.Matched, e)
		}
	}
	if s.opts.DryRun || len(rr.Matched) == 0 {
		return rr
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, e := range rr.Matched {
		g.Go(func() error {
			err := s.delete(ctx, res, e)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rr.Failed = append(rr.Failed, Failure{Entity: e, Err: err})
			} else {
				rr.Deleted = append(rr.Deleted, e)
			}
			// A failed delete never cancels its siblings.
			return nil
		})
	}
	_ = g.Wait()
	return rr
}

func (s *Sweeper) list(ctx context.Context, res Resource) ([]Entity, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, res.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", res.Name, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("listing %s: unexpected status %d", res.Name, resp.Status)
	}
	return decodeList(resp.Body, res.Key)
}

func (s *Sweeper) delete(ctx context.Context, res Resource, e Entity) error {
	resp, err := s.client.Do(ctx, http.MethodDelete, res.Path+"/"+e.ID, nil)
	if err != nil {
		return err
	}
	// Someone else got there first.
	if resp.Status == http.StatusNotFound {
		s.log.V(1).Info("already gone", "resource", res.Name, "id", e.ID)
		return nil
	}
	if !resp.OK() {
		return fmt.Errorf("deleting %s %s: unexpected status %d", res.Name, e.ID, resp.Status)
	}
	s.log.V(1).Info("deleted", "resource", res.Name, "id", e.ID, "name", e.Name)
	return nil
}

func accessToken(body []byte) (string, error) {
	var doc struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
		Data        *struct {
			AccessToken string `json:"access_token"`
			Token       string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	for _, t := range []string{doc.AccessToken, doc.Token} {
		if t != "" {
			return t, nil
		}
	}
	if doc.Data != nil {
		for _, t := range []string{doc.Data.AccessToken, doc.Data.Token} {
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("login response carries no access token")
}

// decodeList accepts a bare array, or an array under "data", under key, or
// under key inside "data".
func decodeList(body []byte, key string) ([]Entity, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeEntities(trimmed)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	if raw, ok := obj[key]; ok {
		return decodeEntities(raw)
	}
	raw, ok := obj["data"]
	if !ok {
		return nil, fmt.Errorf("list response has neither %q nor %q", key, "data")
	}
	if inner := bytes.TrimSpace(raw); len(inner) > 0 && inner[0] == '{' {
		return decodeList(inner, key)
	}
	return decodeEntities(raw)
}

func decodeEntities(raw []byte) ([]Entity, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding entities: %w", err)
	}
	out := make([]Entity, 0, len(items))
	for _, it := range items {
		id, ok := it["id"]
		if !ok || id == nil {
			continue
		}
		name, _ := it["name"].(string)
		if name == "" {
			name, _ = it["title"].(string)
		}
		out = append(out, Entity{ID: fmt.Sprint(id), Name: name})
	}
	return out, nil
}
