// Package fixtures produces synthetic, collision-free input data for the
// console e2e suite.
//
// Every generated email and name carries a millisecond stamp taken from a
// process-wide monotonic clock, so two calls never produce the same value
// even when the wall clock has not advanced between them:
//
//	fixtures.UniqueEmail("user")    // user-1760870000123-3f9a1c2b@test.com
//	fixtures.UniqueName("Test Key") // Test Key 1760870000124-e2e
//
// Factories accept option functions that override the generated defaults:
//
//	u := fixtures.NewUser(fixtures.WithRole(fixtures.RoleManager))
//	a := fixtures.NewCustomAction(fixtures.WithActionType(fixtures.ActionJavaScript))
//
// Unset fields are derived fresh on every call; nothing is cached.
package fixtures

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultEmailPrefix = "test"
	defaultNamePrefix  = "Test"
	emailDomain        = "test.com"

	// MarkerTag follows the stamp in every UniqueName result. Sweeps match on
	// it, so entity names typed by people are never mistaken for fixtures.
	MarkerTag = "e2e"

	// DefaultPassword is the password given to generated identities.
	DefaultPassword = "Password123!"
)

var (
	stampMu   sync.Mutex
	lastStamp int64

	// now is swapped in tests to simulate a stalled clock.
	now = time.Now
)

// nextStamp returns the current epoch milliseconds, or the previous stamp
// plus one if the clock has not moved past it.
func nextStamp() int64 {
	stampMu.Lock()
	defer stampMu.Unlock()
	ms := now().UnixMilli()
	if ms <= lastStamp {
		ms = lastStamp + 1
	}
	lastStamp = ms
	return ms
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// UniqueEmail returns {prefix}-{epochMillis}-{randomToken}@test.com.
func UniqueEmail(prefix string) string {
	if prefix == "" {
		prefix = defaultEmailPrefix
	}
	return fmt.Sprintf("%s-%d-%s@%s", prefix, nextStamp(), randomToken(), emailDomain)
}

// UniqueName returns {prefix} {epochMillis}-e2e.
func UniqueName(prefix string) string {
	if prefix == "" {
		prefix = defaultNamePrefix
	}
	return fmt.Sprintf("%s %d-%s", prefix, nextStamp(), MarkerTag)
}

var generatedName = regexp.MustCompile(`^\S.* (\d{13})-` + MarkerTag + `$`)

// IsGenerated reports whether name is a UniqueName result. The sweep uses it
// to find entities left behind by earlier runs.
func IsGenerated(name string) bool {
	_, ok := GeneratedAt(name)
	return ok
}

// GeneratedAt returns the stamp carried by a UniqueName result.
func GeneratedAt(name string) (time.Time, bool) {
	m := generatedName.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
