package fixtures

import (
	"fmt"
	"time"
)

// Role is the console role of a synthetic identity.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// Roles lists every role in provisioning order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleAgent}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// ============================================================================
// Users
// ============================================================================

// User is a synthetic identity.
type User struct {
	Email    string
	FullName string
	Role     Role
	Password string
}

// NewUser returns an agent identity with a unique email and name.
func NewUser(opts ...func(*User)) User {
	u := User{
		Email:    UniqueEmail("user"),
		FullName: UniqueName("User"),
		Role:     RoleAgent,
		Password: DefaultPassword,
	}
	for _, fn := range opts {
		fn(&u)
	}
	return u
}

func WithEmail(email string) func(*User) { return func(u *User) { u.Email = email } }
func WithFullName(n string) func(*User) { return func(u *User) { u.FullName = n } }
func WithRole(r Role) func(*User) { return func(u *User) { u.Role = r } }
func WithPassword(p string) func(*User) { return func(u *User) { u.Password = p } }

// UserFixtures returns one fresh identity per role, keyed "valid", "admin"
// and "manager".
func UserFixtures() map[string]User {
	return map[string]User{
		"valid":   NewUser(WithFullName("Test User")),
		"admin":   NewUser(WithEmail(UniqueEmail("admin")), WithFullName("Test Admin"), WithRole(RoleAdmin)),
		"manager": NewUser(WithEmail(UniqueEmail("manager")), WithFullName("Test Manager"), WithRole(RoleManager)),
	}
}

// ============================================================================
// Teams, webhooks, contacts
// ============================================================================

type Team struct {
	Name        string
	Description string
}

func NewTeam(opts ...func(*Team)) Team {
	t := Team{
		Name:        UniqueName("Team"),
		Description: "Test team description",
	}
	for _, fn := range opts {
		fn(&t)
	}
	return t
}

type Webhook struct {
	Name   string
	URL    string
	Events []string
}

func NewWebhook(opts ...func(*Webhook)) Webhook {
	w := Webhook{
		Name:   UniqueName("Webhook"),
		URL:    "https://webhook.site/test-endpoint",
		Events: []string{"message.received"},
	}
	for _, fn := range opts {
		fn(&w)
	}
	return w
}

type Contact struct {
	Name        string
	PhoneNumber string
}

func NewContact(opts ...func(*Contact)) Contact {
	c := Contact{
		Name:        "Test Contact",
		PhoneNumber: "+1234567890",
	}
	for _, fn := range opts {
		fn(&c)
	}
	return c
}

// ============================================================================
// Settings entities
// ============================================================================

// APIKeyPrefix prefixes every token the console issues.
const APIKeyPrefix = "whm_"

type APIKey struct {
	Name string
	// ExpiresAt is zero for keys that never expire.
	ExpiresAt time.Time
}

func NewAPIKey(opts ...func(*APIKey)) APIKey {
	k := APIKey{Name: UniqueName("Test Key")}
	for _, fn := range opts {
		fn(&k)
	}
	return k
}

// ExpiresIn sets the expiry relative to now.
func ExpiresIn(d time.Duration) func(*APIKey) {
	return func(k *APIKey) { k.ExpiresAt = now().Add(d) }
}

// ExpiryInput formats the expiry for a datetime-local input (YYYY-MM-DDTHH:MM, UTC).
func (k APIKey) ExpiryInput() string {
	if k.ExpiresAt.IsZero() {
		return ""
	}
	return k.ExpiresAt.UTC().Format("2006-01-02T15:04")
}

type CannedResponse struct {
	Name     string
	Shortcut string
	Content  string
	Category string
}

func NewCannedResponse(opts ...func(*CannedResponse)) CannedResponse {
	c := CannedResponse{
		Name:    UniqueName("Test Response"),
		Content: "Hello! Thank you for contacting us.",
	}
	for _, fn := range opts {
		fn(&c)
	}
	return c
}

// ActionType selects how a custom action is executed.
type ActionType string

const (
	ActionWebhook    ActionType = "webhook"
	ActionURL        ActionType = "url"
	ActionJavaScript ActionType = "javascript"
)

// Label is the accessible name of the type's radio button.
func (a ActionType) Label() string {
	switch a {
	case ActionURL:
		return "Open URL"
	case ActionJavaScript:
		return "JavaScript"
	default:
		return "Webhook"
	}
}

// Field is the id of the conditional input the type requires.
func (a ActionType) Field() string {
	if a == ActionJavaScript {
		return "code"
	}
	return "url"
}

type CustomAction struct {
	Name string
	Type ActionType
	URL  string
	Code string
}

func NewCustomAction(opts ...func(*CustomAction)) CustomAction {
	a := CustomAction{
		Name: UniqueName("Webhook Action"),
		Type: ActionWebhook,
		URL:  "https://api.example.com/webhook",
	}
	for _, fn := range opts {
		fn(&a)
	}
	return a
}

// WithActionType switches the type and fills its conditional field with a
// default when empty.
func WithActionType(t ActionType) func(*CustomAction) {
	return func(a *CustomAction) {
		a.Type = t
		switch t {
		case ActionJavaScript:
			a.URL = ""
			if a.Code == "" {
				a.Code = "return { clipboard: contact.phone_number }"
			}
		case ActionURL:
			a.URL = "https://crm.example.com/contact"
		}
	}
}

// Validate reports the first missing required field.
func (a CustomAction) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch a.Type {
	case ActionWebhook, ActionURL:
		if a.URL == "" {
			return fmt.Errorf("%s action: url is required", a.Type)
		}
	case ActionJavaScript:
		if a.Code == "" {
			return fmt.Errorf("%s action: code is required", a.Type)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// Input returns the conditional field value for the action's type.
func (a CustomAction) Input() string {
	if a.Type == ActionJavaScript {
		return a.Code
	}
	return a.URL
}
