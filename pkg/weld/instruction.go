package weld

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Instruction is one atomic edit a document adapter must replay to mirror a
// computed placement. It is a closed union over InsertParallel and
// InsertSuccessor.
type Instruction interface {
	instruction()
}

// InsertParallel places Step as a new parallel sibling of whatever follows
// After. A nil After means the very start of the pipeline.
type InsertParallel struct {
	After *Step
	Step  Step
}

// InsertSuccessor places Step strictly after After in sequence. A nil After
// means the very start of the pipeline.
type InsertSuccessor struct {
	After *Step
	Step  Step
}

func (InsertParallel) instruction()  {}
func (InsertSuccessor) instruction() {}

func (i InsertParallel) String() string {
	return fmt.Sprintf("insert %q in parallel after %s", string(i.Step), afterLabel(i.After))
}

func (i InsertSuccessor) String() string {
	return fmt.Sprintf("insert %q as successor of %s", string(i.Step), afterLabel(i.After))
}

func afterLabel(after *Step) string {
	if after == nil {
		return "start"
	}

	return fmt.Sprintf("%q", string(*after))
}

// After is a convenience for building instruction literals with a non-nil
// anchor.
func After(step Step) *Step {
	return &step
}

// instructionsForInsertion emits the edit script that threads every step of
// component into a document, starting after the given anchor. It returns the
// endpoint of the inserted component for further chaining.
//
// Series members are chained left to right. Parallel members are ordered by
// endpoint; the first is chained as a successor and every later member is
// anchored in parallel off the same predecessor.
func instructionsForInsertion(component Structure, after *Step) ([]Instruction, Step, error) {
	switch c := component.(type) {
	case Step:
		return []Instruction{InsertSuccessor{After: after, Step: c}}, c, nil
	case *Series:
		if len(c.items) == 0 {
			return nil, "", errors.Wrap(ErrEmptyStructure, "cannot insert empty series")
		}

		var out []Instruction

		endpoint := Step("")
		for _, item := range c.items {
			instructions, itemEndpoint, err := instructionsForInsertion(item, after)
			if err != nil {
				return nil, "", err
			}

			out = append(out, instructions...)
			endpoint = itemEndpoint
			after = &itemEndpoint
		}

		return out, endpoint, nil
	case *Parallel:
		if len(c.items) == 0 {
			return nil, "", errors.Wrap(ErrEmptyStructure, "cannot insert empty parallel block")
		}

		members := c.Items()

		endpoints := make(map[int]Step, len(members))
		for i, member := range members {
			endpoint, err := Endpoint(member)
			if err != nil {
				return nil, "", err
			}

			endpoints[i] = endpoint
		}

		order := make([]int, len(members))
		for i := range order {
			order[i] = i
		}

		sort.SliceStable(order, func(i, j int) bool {
			return endpoints[order[i]] < endpoints[order[j]]
		})

		var out []Instruction

		for rank, idx := range order {
			instructions, _, err := instructionsForInsertion(members[idx], after)
			if err != nil {
				return nil, "", err
			}

			if rank > 0 && len(instructions) > 0 {
				// Later members start in parallel off the shared anchor.
				if succ, ok := instructions[0].(InsertSuccessor); ok {
					instructions[0] = InsertParallel{After: succ.After, Step: succ.Step}
				}
			}

			out = append(out, instructions...)
		}

		return out, endpoints[order[0]], nil
	case *DepGroup:
		return instructionsForInsertion(c.series, after)
	default:
		return nil, "", errors.Wrapf(ErrUnknownStructure, "%T", component)
	}
}
