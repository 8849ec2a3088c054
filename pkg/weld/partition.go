package weld

import (
	"github.com/pkg/errors"
)

// partition classifies the parts of one structure into three zones relative
// to the step being inserted: parts the step must follow (prerequisite),
// parts it must precede (postrequisite), and everything else (nondependent).
// Each zone holds nil or the structure that landed in it. The endpoint is a
// synthetic ordering key used to chain sibling partitions; see
// seriesMergePartitions and parallelMergePartitions.
//
// A partition only lives for the duration of one Add call.
type partition struct {
	prerequisite  Structure
	nondependent  Structure
	postrequisite Structure
	endpoint      Step
}

type addConfig struct {
	prerequisites    map[Step]struct{}
	postrequisites   map[Step]struct{}
	compatibleGroups map[string]struct{}
}

// partitionComponent recursively splits component into dependency zones. The
// predecessor is the endpoint of whatever causally precedes the component, or
// nil at the start of the pipeline; it anchors any instructions emitted when
// concurrent zones have to be serialised.
func partitionComponent(component Structure, predecessor *Step, cfg addConfig) (partition, []Instruction, error) {
	switch c := component.(type) {
	case Step:
		part := partition{endpoint: c}

		switch {
		case member(cfg.prerequisites, c):
			part.prerequisite = c
		case member(cfg.postrequisites, c):
			part.postrequisite = c
		default:
			part.nondependent = c
		}

		return part, nil, nil
	case *Series:
		return partitionSeries(c, predecessor, cfg)
	case *Parallel:
		return partitionParallel(c, predecessor, cfg)
	case *DepGroup:
		return partitionDepGroup(c, predecessor, cfg)
	default:
		return partition{}, nil, errors.Wrapf(ErrUnknownStructure, "%T", component)
	}
}

// partitionChildren partitions each child in order, threading every child's
// endpoint forward as the predecessor of the next. This is how causal
// chaining across a sequence is captured.
func partitionChildren(items []Structure, predecessor *Step, cfg addConfig) ([]partition, []Instruction, error) {
	partitions := make([]partition, 0, len(items))

	var instructions []Instruction

	for _, item := range items {
		part, childInstructions, err := partitionComponent(item, predecessor, cfg)
		if err != nil {
			return nil, nil, err
		}

		partitions = append(partitions, part)
		instructions = append(instructions, childInstructions...)

		endpoint := part.endpoint
		predecessor = &endpoint
	}

	return partitions, instructions, nil
}

func partitionSeries(component *Series, predecessor *Step, cfg addConfig) (partition, []Instruction, error) {
	if len(component.items) == 0 {
		return partition{}, nil, errors.Wrap(ErrEmptyStructure, "cannot partition empty series")
	}

	partitions, instructions, err := partitionChildren(component.items, predecessor, cfg)
	if err != nil {
		return partition{}, nil, err
	}

	if len(partitions) == 1 {
		// Preserve the "this was a series" shape around each zone.
		only := partitions[0]

		return partition{
			prerequisite:  wrapSeries(only.prerequisite),
			nondependent:  wrapSeries(only.nondependent),
			postrequisite: wrapSeries(only.postrequisite),
			endpoint:      only.endpoint,
		}, instructions, nil
	}

	merged := partitions[0]
	for _, next := range partitions[1:] {
		merged = seriesMergePartitions(merged, next)
	}

	return merged, instructions, nil
}

func partitionParallel(component *Parallel, predecessor *Step, cfg addConfig) (partition, []Instruction, error) {
	if len(component.items) == 0 {
		return partition{}, nil, errors.Wrap(ErrEmptyStructure, "cannot partition empty parallel block")
	}

	// Members are concurrent, so none causally precedes another: they all
	// share the same predecessor.
	partitions := make([]partition, 0, len(component.items))

	var instructions []Instruction

	for _, item := range component.items {
		part, childInstructions, err := partitionComponent(item, predecessor, cfg)
		if err != nil {
			return partition{}, nil, err
		}

		partitions = append(partitions, part)
		instructions = append(instructions, childInstructions...)
	}

	anyPrerequisite := false
	anyPostrequisite := false
	minEndpoint := partitions[0].endpoint

	for _, part := range partitions {
		anyPrerequisite = anyPrerequisite || part.prerequisite != nil
		anyPostrequisite = anyPostrequisite || part.postrequisite != nil

		if part.endpoint < minEndpoint {
			minEndpoint = part.endpoint
		}
	}

	if anyPrerequisite && anyPostrequisite {
		// Members disagree on zone classification, so the zones must be
		// serialised relative to each other. The merge re-emits the whole
		// block as instructions, superseding anything the members produced.
		return parallelMergePartitions(partitions, predecessor)
	}

	// Homogeneous members: the block stays intact inside its single zone.
	part := partition{endpoint: minEndpoint}

	switch {
	case anyPrerequisite:
		part.prerequisite = component
	case anyPostrequisite:
		part.postrequisite = component
	default:
		part.nondependent = component
	}

	return part, instructions, nil
}

// partitionDepGroup splits a dependency group the same way a series is
// split, then wraps every non-empty zone back into a group carrying the same
// label, so fragments remain identifiable as belonging together.
func partitionDepGroup(component *DepGroup, predecessor *Step, cfg addConfig) (partition, []Instruction, error) {
	if component.series.Len() == 0 {
		return partition{}, nil, errors.Wrap(ErrEmptyStructure, "cannot partition empty dependency group")
	}

	partitions, instructions, err := partitionChildren(component.series.items, predecessor, cfg)
	if err != nil {
		return partition{}, nil, err
	}

	merged := partitions[0]
	for _, next := range partitions[1:] {
		merged = seriesMergePartitions(merged, next)
	}

	return partition{
		prerequisite:  wrapDepGroup(merged.prerequisite, component.group),
		nondependent:  wrapDepGroup(merged.nondependent, component.group),
		postrequisite: wrapDepGroup(merged.postrequisite, component.group),
		endpoint:      merged.endpoint,
	}, instructions, nil
}

// seriesMergePartitions folds the partition of the next sibling into the
// accumulated partition of everything before it.
func seriesMergePartitions(acc, next partition) partition {
	if next.prerequisite != nil {
		// A later sibling is itself a prerequisite, so everything before it
		// is transitively a prerequisite too, whatever its own zone was.
		return partition{
			prerequisite:  concatSeries(acc.prerequisite, acc.nondependent, acc.postrequisite, next.prerequisite),
			nondependent:  next.nondependent,
			postrequisite: next.postrequisite,
			endpoint:      next.endpoint,
		}
	}

	if next.nondependent != nil && acc.postrequisite != nil {
		// Anything following an established postrequisite is transitively
		// after the insertion point as well.
		return partition{
			prerequisite:  concatSeries(acc.prerequisite, next.prerequisite),
			nondependent:  acc.nondependent,
			postrequisite: concatSeries(acc.postrequisite, next.nondependent, next.postrequisite),
			endpoint:      next.endpoint,
		}
	}

	return partition{
		prerequisite:  mergeZone(acc.prerequisite, next.prerequisite),
		nondependent:  mergeZone(acc.nondependent, next.nondependent),
		postrequisite: mergeZone(acc.postrequisite, next.postrequisite),
		endpoint:      next.endpoint,
	}
}

func mergeZone(a, b Structure) Structure {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return concatSeries(a, b)
	}
}

// parallelMergePartitions resolves sibling partitions whose members span both
// the prerequisite and postrequisite zones. Within each zone the members are
// unioned; across zones the result must become sequential (prerequisites,
// then nondependent, then postrequisites), which is the one place concurrent
// structure is converted into a concrete edit script.
func parallelMergePartitions(partitions []partition, predecessor *Step) (partition, []Instruction, error) {
	var prerequisites, nondependents, postrequisites []Structure

	for _, part := range partitions {
		if part.prerequisite != nil {
			prerequisites = append(prerequisites, part.prerequisite)
		}

		if part.nondependent != nil {
			nondependents = append(nondependents, part.nondependent)
		}

		if part.postrequisite != nil {
			postrequisites = append(postrequisites, part.postrequisite)
		}
	}

	prerequisite := collapseSingleton(unionParallel(prerequisites...))
	nondependent := collapseSingleton(unionParallel(nondependents...))
	postrequisite := collapseSingleton(unionParallel(postrequisites...))

	endpoint, err := topRankedEndpoint(partitions)
	if err != nil {
		return partition{}, nil, err
	}

	var instructions []Instruction

	after := predecessor
	for _, zone := range []Structure{prerequisite, nondependent, postrequisite} {
		if zone == nil {
			continue
		}

		zoneInstructions, _, err := instructionsForInsertion(zone, after)
		if err != nil {
			return partition{}, nil, err
		}

		instructions = append(instructions, zoneInstructions...)

		zoneEndpoint, err := Endpoint(zone)
		if err != nil {
			return partition{}, nil, err
		}

		after = &zoneEndpoint
	}

	return partition{
		prerequisite:  prerequisite,
		nondependent:  nondependent,
		postrequisite: postrequisite,
		endpoint:      endpoint,
	}, instructions, nil
}

// topRankedEndpoint picks the minimum endpoint among partitions that own a
// postrequisite zone, falling back to nondependent then prerequisite owners.
// The most causally downstream zone wins.
func topRankedEndpoint(partitions []partition) (Step, error) {
	for _, zone := range []func(partition) Structure{
		func(p partition) Structure { return p.postrequisite },
		func(p partition) Structure { return p.nondependent },
		func(p partition) Structure { return p.prerequisite },
	} {
		found := false
		best := Step("")

		for _, part := range partitions {
			if zone(part) == nil {
				continue
			}

			if !found || part.endpoint < best {
				best = part.endpoint
			}

			found = true
		}

		if found {
			return best, nil
		}
	}

	return "", errors.Wrap(ErrEmptyPartition, "no zone owners")
}

// flattenPartition resolves a partition back into one coherent series:
// prerequisite zone, then nondependent, then postrequisite.
func flattenPartition(part partition) (*Series, error) {
	component := concatSeries(part.prerequisite, part.nondependent, part.postrequisite)
	if component == nil {
		return nil, errors.Wrap(ErrEmptyPartition, "flatten failed")
	}

	return component.(*Series), nil
}

func wrapSeries(zone Structure) Structure {
	if zone == nil {
		return nil
	}

	return NewSeries(zone)
}

func wrapDepGroup(zone Structure, group string) Structure {
	if zone == nil {
		return nil
	}

	inner, ok := zone.(*Series)
	if !ok {
		inner = NewSeries(zone)
	}

	return &DepGroup{series: inner, group: group}
}

func collapseSingleton(zone Structure) Structure {
	if par, ok := zone.(*Parallel); ok && len(par.items) == 1 {
		return par.items[0]
	}

	return zone
}

func member(set map[Step]struct{}, step Step) bool {
	_, ok := set[step]

	return ok
}
