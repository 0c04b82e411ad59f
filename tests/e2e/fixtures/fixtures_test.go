package fixtures

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stalledClock(t *testing.T) {
	t.Helper()
	frozen := time.Now()
	now = func() time.Time { return frozen }
	t.Cleanup(func() { now = time.Now })
}

func TestUniqueEmail(t *testing.T) {
	pattern := regexp.MustCompile(`^user-\d{13}-[0-9a-f]{8}@test\.com$`)

	t.Run("format", func(t *testing.T) {
		assert.Regexp(t, pattern, UniqueEmail("user"))
		assert.True(t, strings.HasPrefix(UniqueEmail(""), "test-"))
	})

	t.Run("never repeats under a stalled clock", func(t *testing.T) {
		stalledClock(t)
		seen := map[string]bool{}
		for i := 0; i < 500; i++ {
			e := UniqueEmail("user")
			require.False(t, seen[e], "duplicate email %s", e)
			seen[e] = true
		}
	})

	t.Run("never repeats across goroutines", func(t *testing.T) {
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			seen = map[string]bool{}
		)
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					e := UniqueEmail("par")
					mu.Lock()
					seen[e] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 800)
	})
}

func TestUniqueName(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		assert.Regexp(t, `^Team \d{13}-e2e$`, UniqueName("Team"))
		assert.Regexp(t, `^Test \d{13}-e2e$`, UniqueName(""))
	})

	t.Run("stamps strictly increase", func(t *testing.T) {
		stalledClock(t)
		stamp := func(name string) int64 {
			stamp := strings.TrimSuffix(name[strings.LastIndex(name, " ")+1:], "-"+MarkerTag)
			n, err := strconv.ParseInt(stamp, 10, 64)
			require.NoError(t, err)
			return n
		}
		prev := stamp(UniqueName("Key"))
		for i := 0; i < 50; i++ {
			cur := stamp(UniqueName("Key"))
			assert.Greater(t, cur, prev)
			prev = cur
		}
	})
}

func TestIsGenerated(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{UniqueName("Test Key"), true},
		{UniqueName("Delete Response"), true},
		{"Production Key", false},
		{"Key 123", false},
		{"1760870000123", false},
		{"Order 1234567890123", false},
		{"Support line 4155550123456", false},
		{"Escalation 2024010112000", false},
		{"Order 1234567890123-e2e extra", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenerated(tt.name))
		})
	}
}

func TestGeneratedAt(t *testing.T) {
	stalledClock(t)

	at, ok := GeneratedAt(UniqueName("Test Key"))
	require.True(t, ok)
	assert.GreaterOrEqual(t, at.UnixMilli(), now().UnixMilli())

	at, ok = GeneratedAt("Old Key 1700000000000-e2e")
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), at.UnixMilli())

	_, ok = GeneratedAt("Order 1234567890123")
	assert.False(t, ok)
}

func TestFactories(t *testing.T) {
	t.Run("defaults are fresh on every call", func(t *testing.T) {
		a, b := NewUser(), NewUser()
		assert.NotEqual(t, a.Email, b.Email)
		assert.NotEqual(t, a.FullName, b.FullName)
		assert.Equal(t, RoleAgent, a.Role)
		assert.Equal(t, DefaultPassword, a.Password)

		assert.NotEqual(t, NewTeam().Name, NewTeam().Name)
		assert.NotEqual(t, NewWebhook().Name, NewWebhook().Name)
	})

	t.Run("overrides win", func(t *testing.T) {
		u := NewUser(WithEmail("fixed@test.com"), WithRole(RoleManager))
		assert.Equal(t, "fixed@test.com", u.Email)
		assert.Equal(t, RoleManager, u.Role)
		assert.Regexp(t, `^User \d{13}-e2e$`, u.FullName)

		w := NewWebhook(func(w *Webhook) { w.Events = []string{"message.sent"} })
		assert.Equal(t, []string{"message.sent"}, w.Events)
		assert.Equal(t, "https://webhook.site/test-endpoint", w.URL)
	})

	t.Run("user presets", func(t *testing.T) {
		set := UserFixtures()
		assert.Equal(t, RoleAdmin, set["admin"].Role)
		assert.Equal(t, RoleManager, set["manager"].Role)
		assert.True(t, strings.HasPrefix(set["admin"].Email, "admin-"))
		assert.NotEqual(t, set["admin"].Email, UserFixtures()["admin"].Email)
	})

	t.Run("api key expiry input", func(t *testing.T) {
		assert.Empty(t, NewAPIKey().ExpiryInput())
		k := NewAPIKey(ExpiresIn(24 * time.Hour))
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`, k.ExpiryInput())
	})
}

func TestCustomActionTypes(t *testing.T) {
	tests := []struct {
		typ   ActionType
		label string
		field string
	}{
		{ActionWebhook, "Webhook", "url"},
		{ActionURL, "Open URL", "url"},
		{ActionJavaScript, "JavaScript", "code"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			a := NewCustomAction(WithActionType(tt.typ))
			assert.Equal(t, tt.label, tt.typ.Label())
			assert.Equal(t, tt.field, tt.typ.Field())
			assert.NoError(t, a.Validate())
			assert.NotEmpty(t, a.Input())
		})
	}

	t.Run("javascript default snippet", func(t *testing.T) {
		a := NewCustomAction(WithActionType(ActionJavaScript))
		assert.Equal(t, "return { clipboard: contact.phone_number }", a.Code)
		assert.Empty(t, a.URL)
	})

	t.Run("missing conditional field", func(t *testing.T) {
		a := NewCustomAction(WithActionType(ActionJavaScript), func(a *CustomAction) { a.Code = "" })
		assert.ErrorContains(t, a.Validate(), "code is required")

		b := NewCustomAction(func(a *CustomAction) { a.URL = "" })
		assert.ErrorContains(t, b.Validate(), "url is required")

		c := NewCustomAction(func(a *CustomAction) { a.Name = "" })
		assert.ErrorContains(t, c.Validate(), "name is required")
	})
}

func TestRoles(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("owner").Valid())
}
