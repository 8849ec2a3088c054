package weld

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Candidate describes one prospective step placement for PlanEach.
type Candidate struct {
	Step             Step
	Prerequisites    []Step
	Postrequisites   []Step
	CompatibleGroups []string
}

func (c Candidate) options() []AddOption {
	return []AddOption{
		WithPrerequisites(c.Prerequisites...),
		WithPostrequisites(c.Postrequisites...),
		WithCompatibleGroups(c.CompatibleGroups...),
	}
}

// PlanOption configures a PlanEach call.
type PlanOption func(*planConfig)

type planConfig struct {
	concurrent int
}

// PlanConcurrency bounds how many candidates are evaluated at once. Values
// below 1 evaluate all candidates concurrently.
func PlanConcurrency(concurrent int) PlanOption {
	return func(cfg *planConfig) {
		cfg.concurrent = concurrent
	}
}

// PlanEach computes the placement of several independent candidate steps
// against the same base pipeline. Add is pure, so candidates are evaluated
// concurrently; results are returned in candidate order. This is the dry-run
// path for previewing what each tool's step would do to a pipeline without
// committing any of them.
//
// The first failing candidate aborts the remaining ones and its error is
// returned. Context cancellation does the same.
func PlanEach(ctx context.Context, pipeline *Series, candidates []Candidate, opts ...PlanOption) ([]*Result, error) {
	cfg := planConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.concurrent < 1 {
		cfg.concurrent = len(candidates)
	}

	results := make([]*Result, len(candidates))

	grp, dCtx := errgroup.WithContext(ctx)
	grp.SetLimit(cfg.concurrent)

	for idx, candidate := range candidates {
		idx, candidate := idx, candidate

		grp.Go(func() error {
			select {
			case <-dCtx.Done():
				return errors.Wrapf(dCtx.Err(), "candidate %q", string(candidate.Step))
			default:
			}

			result, err := Add(pipeline, candidate.Step, candidate.options()...)
			if err != nil {
				return errors.Wrapf(err, "candidate %q", string(candidate.Step))
			}

			results[idx] = result

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
