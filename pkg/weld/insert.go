package weld

// insertStep walks the top-level items of a flattened series from the end
// backwards, looking for the last occurring prerequisite of the new step. On
// a hit the step is threaded in right after it, interleaving with any
// postrequisites that immediately follow. Nested series and parallel blocks
// are searched recursively before the backward scan continues.
//
// Returns the rebuilt series, the emitted instructions, and whether a
// prerequisite was found anywhere. The input series is never modified.
func insertStep(component *Series, step Step, cfg addConfig) (*Series, []Instruction, bool) {
	for idx := len(component.items) - 1; idx >= 0; idx-- {
		switch sub := component.items[idx].(type) {
		case Step:
			if !member(cfg.prerequisites, sub) {
				continue
			}

			if idx+1 < len(component.items) {
				return insertBeforePostrequisites(component, idx, After(sub), step, cfg)
			}

			// No successor: append.
			return appendItem(component, step), []Instruction{InsertSuccessor{After: After(sub), Step: step}}, true
		case *Series:
			if rebuilt, instructions, ok := insertStep(sub, step, cfg); ok {
				return replaceItem(component, idx, rebuilt), instructions, true
			}
		case *Parallel:
			// Search members as if they were a flat series.
			rebuilt, instructions, ok := insertStep(&Series{items: sub.items}, step, cfg)
			if ok {
				return replaceItem(component, idx, NewParallel(rebuilt.items...)), instructions, true
			}
		case *DepGroup:
			if !containsAny(sub, cfg.prerequisites) {
				continue
			}

			// The prerequisite sits inside a contiguous group; the new step
			// cannot go inside it, so anchor after the whole group.
			endpoint, err := Endpoint(sub)
			if err != nil {
				continue
			}

			if idx+1 < len(component.items) {
				return insertBeforePostrequisites(component, idx, &endpoint, step, cfg)
			}

			return appendItem(component, step), []Instruction{InsertSuccessor{After: &endpoint, Step: step}}, true
		}
	}

	return component, nil, false
}

// insertBeforePostrequisites places the new step relative to the element
// following position idx (idx may be -1 to target the first element). When
// that successor contains a postrequisite the step must land strictly before
// it; otherwise the two can run concurrently and the successor is replaced by
// the union of itself and the step. A dependency group successor only admits
// the step as a parallel sibling when its group label is declared
// compatible.
func insertBeforePostrequisites(component *Series, idx int, predecessor *Step, step Step, cfg addConfig) (*Series, []Instruction, bool) {
	successor := component.items[idx+1]

	// A singleton parallel wrapper is spurious: decide based on its sole
	// member so the wrapper does not survive the edit. A nested series keeps
	// its wrapper; anything else either absorbs the step (in which case the
	// union subsumes the wrapper) or pushes it in front of the block.
	if par, ok := successor.(*Parallel); ok && len(par.items) == 1 {
		if soleSeries, isSeries := par.items[0].(*Series); isSeries {
			rebuilt, instructions, found := insertBeforePostrequisites(soleSeries, -1, predecessor, step, cfg)

			return replaceItem(component, idx+1, NewParallel(rebuilt)), instructions, found
		}

		successor = par.items[0]
	}

	switch suc := successor.(type) {
	case *Series:
		rebuilt, instructions, ok := insertBeforePostrequisites(suc, -1, predecessor, step, cfg)

		return replaceItem(component, idx+1, rebuilt), instructions, ok
	case *DepGroup:
		if containsAny(suc, cfg.postrequisites) || !groupCompatible(cfg, suc.group) {
			return insertAt(component, idx+1, step), []Instruction{InsertSuccessor{After: predecessor, Step: step}}, true
		}

		union := unionParallel(successor, step)

		return replaceItem(component, idx+1, union), []Instruction{InsertParallel{After: predecessor, Step: step}}, true
	default:
		if containsAny(suc, cfg.postrequisites) {
			return insertAt(component, idx+1, step), []Instruction{InsertSuccessor{After: predecessor, Step: step}}, true
		}

		union := unionParallel(successor, step)

		return replaceItem(component, idx+1, union), []Instruction{InsertParallel{After: predecessor, Step: step}}, true
	}
}

func groupCompatible(cfg addConfig, group string) bool {
	_, ok := cfg.compatibleGroups[group]

	return ok
}

func replaceItem(component *Series, idx int, item Structure) *Series {
	items := component.Items()
	items[idx] = item

	return &Series{items: items}
}

func insertAt(component *Series, idx int, step Step) *Series {
	items := component.Items()
	items = append(items[:idx], append([]Structure{step}, items[idx:]...)...)

	return &Series{items: items}
}

func appendItem(component *Series, step Step) *Series {
	items := component.Items()

	return &Series{items: append(items, step)}
}
