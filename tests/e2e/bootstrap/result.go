package bootstrap

import (
	"fmt"
	"strings"
)

// Outcome classifies a single registration attempt.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already-exists"
	default:
		return "failed"
	}
}

// Result is the outcome for one account.
type Result struct {
	Account Account
	Outcome Outcome
	// Status is zero when the request never got a response.
	Status int
	// Detail holds the response body of a failed registration.
	Detail string
	Err    error
}

// OK reports whether the account can be used.
func (r Result) OK() bool { return r.Outcome != Failed }

// Summary aggregates the results of a bootstrap run.
type Summary struct {
	Results []Result
}

func (s Summary) filter(o Outcome) []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Outcome == o {
			out = append(out, r)
		}
	}
	return out
}

func (s Summary) Created() []Result  { return s.filter(Created) }
func (s Summary) Existing() []Result { return s.filter(AlreadyExists) }
func (s Summary) Failed() []Result   { return s.filter(Failed) }

// OK reports whether every account is usable.
func (s Summary) OK() bool { return len(s.Failed()) == 0 }

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d created, %d already existed, %d failed",
		len(s.Created()), len(s.Existing()), len(s.Failed()))
	for _, r := range s.Failed() {
		fmt.Fprintf(&b, "\n  %s: %v", r.Account.Email, r.Err)
	}
	return b.String()
}
