package sweep

import (
	"errors"
	"fmt"
	"strings"
)

type Failure struct {
	Entity Entity
	Err    error
}

// ResourceReport is the outcome of sweeping one resource.
type ResourceReport struct {
	Resource string
	// Matched holds every fixture-named entity, deleted or not.
	Matched []Entity
	Deleted []Entity
	Failed  []Failure
	// Kept counts entities left alone because their names were not generated.
	Kept int
	// Recent counts generated names stamped at or after Options.Before.
	Recent int
	// Err is set when the resource could not be listed.
	Err error
}

type Report struct {
	DryRun    bool
	Resources []ResourceReport
}

func (r Report) Deleted() int {
	n := 0
	for _, rr := range r.Resources {
		n += len(rr.Deleted)
	}
	return n
}

func (r Report) Matched() int {
	n := 0
	for _, rr := range r.Resources {
		n += len(rr.Matched)
	}
	return n
}

// Err joins every listing and delete failure.
func (r Report) Err() error {
	var errs []error
	for _, rr := range r.Resources {
		if rr.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rr.Resource, rr.Err))
		}
		for _, f := range rr.Failed {
			errs = append(errs, fmt.Errorf("%s %q: %w", rr.Resource, f.Entity.Name, f.Err))
		}
	}
	return errors.Join(errs...)
}

func (r Report) String() string {
	var b strings.Builder
	for _, rr := range r.Resources {
		switch {
		case rr.Err != nil:
			fmt.Fprintf(&b, "%s: error: %v\n", rr.Resource, rr.Err)
		case r.DryRun:
			fmt.Fprintf(&b, "%s: %d would be deleted, %d kept, %d too recent\n", rr.Resource, len(rr.Matched), rr.Kept, rr.Recent)
			for _, e := range rr.Matched {
				fmt.Fprintf(&b, "  %s\t%s\n", e.ID, e.Name)
			}
		default:
			fmt.Fprintf(&b, "%s: %d deleted, %d failed, %d kept, %d too recent\n", rr.Resource, len(rr.Deleted), len(rr.Failed), rr.Kept, rr.Recent)
		}
	}
	return b.String()
}
