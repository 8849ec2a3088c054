package weld

import (
	"github.com/pkg/errors"
)

// Result is the outcome of an Add call. Solution is the normalised pipeline
// with the new step in place; Instructions is the minimal ordered list of
// edits a document adapter must replay to reach an equivalent structure.
type Result struct {
	Solution     *Series
	Instructions []Instruction
}

// AddOption configures a single Add call.
type AddOption func(*addConfig)

// WithPrerequisites names the steps the new step must run after. Names not
// present in the pipeline are ignored.
func WithPrerequisites(steps ...Step) AddOption {
	return func(cfg *addConfig) {
		for _, step := range steps {
			cfg.prerequisites[step] = struct{}{}
		}
	}
}

// WithPostrequisites names the steps the new step must run before. Names not
// present in the pipeline are ignored.
func WithPostrequisites(steps ...Step) AddOption {
	return func(cfg *addConfig) {
		for _, step := range steps {
			cfg.postrequisites[step] = struct{}{}
		}
	}
}

// WithCompatibleGroups names dependency-group labels the new step may join as
// a parallel sibling. A group not named here keeps the new step strictly
// outside it, before or after the whole group.
func WithCompatibleGroups(groups ...string) AddOption {
	return func(cfg *addConfig) {
		for _, group := range groups {
			cfg.compatibleGroups[group] = struct{}{}
		}
	}
}

func newAddConfig(opts []AddOption) addConfig {
	cfg := addConfig{
		prerequisites:    make(map[Step]struct{}),
		postrequisites:   make(map[Step]struct{}),
		compatibleGroups: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Add threads a new step into the pipeline, honouring the ordering
// constraints given as options. The input pipeline is left untouched; the
// returned solution may share unmodified subtrees with it.
//
// When no prerequisite is found anywhere in the pipeline the step is placed
// in parallel with the leading element, since no ordering constraint could be
// established. Duplicate step names are not detected here; callers are
// expected to check for existence first (see Graph).
func Add(pipeline *Series, step Step, opts ...AddOption) (*Result, error) {
	cfg := newAddConfig(opts)

	if pipeline.Len() == 0 {
		return &Result{
			Solution:     NewSeries(step),
			Instructions: []Instruction{InsertParallel{After: nil, Step: step}},
		}, nil
	}

	part, instructions, err := partitionComponent(pipeline, nil, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to partition pipeline")
	}

	rearranged, err := flattenPartition(part)
	if err != nil {
		return nil, errors.Wrap(err, "unable to flatten partition")
	}

	solution, newInstructions, found := insertStep(rearranged, step, cfg)
	if !found {
		// No prerequisite anchor anywhere: make the step concurrent with the
		// start of the pipeline, still ahead of any postrequisites.
		solution, newInstructions, _ = insertBeforePostrequisites(rearranged, -1, nil, step, cfg)
	}

	return &Result{
		Solution:     solution,
		Instructions: append(instructions, newInstructions...),
	}, nil
}
