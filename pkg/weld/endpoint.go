package weld

import (
	"github.com/pkg/errors"
)

// Endpoint returns the canonical last step of a structure, used to anchor
// chained "after" references when zones are serialised.
//
// For a series it is the endpoint of the last child that has one. For a
// parallel block every member is an equally valid anchor, so the
// alphabetically smallest endpoint is chosen for reproducibility. Fails with
// ErrEmptyStructure when no step can be found.
func Endpoint(component Structure) (Step, error) {
	switch c := component.(type) {
	case Step:
		return c, nil
	case *Series:
		for i := len(c.items) - 1; i >= 0; i-- {
			endpoint, err := Endpoint(c.items[i])
			if err == nil {
				return endpoint, nil
			}
		}

		return "", errors.Wrap(ErrEmptyStructure, "no endpoint in series")
	case *Parallel:
		found := false
		best := Step("")

		for _, item := range c.items {
			endpoint, err := Endpoint(item)
			if err != nil {
				continue
			}

			if !found || endpoint < best {
				best = endpoint
			}

			found = true
		}

		if !found {
			return "", errors.Wrap(ErrEmptyStructure, "no endpoint in parallel block")
		}

		return best, nil
	case *DepGroup:
		return Endpoint(c.series)
	default:
		return "", errors.Wrapf(ErrUnknownStructure, "%T", component)
	}
}
