package weld

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeweld/internal/store"
)

// Graph builds the precedence graph implied by a pipeline structure: one
// vertex per step, one edge from every terminal step of a series item to
// every initial step of the item that follows it. Parallel members and
// dependency groups contribute their internal edges recursively.
//
// Graph is also the duplicate-name check the engine itself does not perform:
// it fails with ErrDuplicateStep when a step name occurs twice.
func Graph(pipeline *Series) (graph.Graph[string, string], error) {
	gra := graph.NewWithStore(graph.StringHash, store.NewStepStore(), graph.Directed())

	if err := addVertices(gra, pipeline); err != nil {
		return nil, err
	}

	if err := addEdges(gra, pipeline); err != nil {
		return nil, err
	}

	return gra, nil
}

func addVertices(gra graph.Graph[string, string], component Structure) error {
	switch c := component.(type) {
	case Step:
		err := gra.AddVertex(string(c))
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrapf(ErrDuplicateStep, "%q", string(c))
		}

		return err
	case *Series:
		for _, item := range c.items {
			if err := addVertices(gra, item); err != nil {
				return err
			}
		}

		return nil
	case *Parallel:
		for _, item := range c.items {
			if err := addVertices(gra, item); err != nil {
				return err
			}
		}

		return nil
	case *DepGroup:
		return addVertices(gra, c.series)
	default:
		return errors.Wrapf(ErrUnknownStructure, "%T", component)
	}
}

func addEdges(gra graph.Graph[string, string], component Structure) error {
	switch c := component.(type) {
	case Step:
		return nil
	case *Series:
		for _, item := range c.items {
			if err := addEdges(gra, item); err != nil {
				return err
			}
		}

		for i := 0; i+1 < len(c.items); i++ {
			for _, from := range terminalSteps(c.items[i]) {
				for _, to := range initialSteps(c.items[i+1]) {
					err := gra.AddEdge(string(from), string(to))
					if err != nil {
						return errors.Wrapf(err, "unable to add edge from %s to %s", from, to)
					}
				}
			}
		}

		return nil
	case *Parallel:
		for _, item := range c.items {
			if err := addEdges(gra, item); err != nil {
				return err
			}
		}

		return nil
	case *DepGroup:
		return addEdges(gra, c.series)
	default:
		return errors.Wrapf(ErrUnknownStructure, "%T", component)
	}
}

// initialSteps returns the steps with no predecessor inside the component.
func initialSteps(component Structure) []Step {
	switch c := component.(type) {
	case Step:
		return []Step{c}
	case *Series:
		if len(c.items) == 0 {
			return nil
		}

		return initialSteps(c.items[0])
	case *Parallel:
		var out []Step
		for _, item := range c.items {
			out = append(out, initialSteps(item)...)
		}

		return out
	case *DepGroup:
		return initialSteps(c.series)
	default:
		panic(ErrUnknownStructure)
	}
}

// terminalSteps returns the steps with no successor inside the component.
func terminalSteps(component Structure) []Step {
	switch c := component.(type) {
	case Step:
		return []Step{c}
	case *Series:
		if len(c.items) == 0 {
			return nil
		}

		return terminalSteps(c.items[len(c.items)-1])
	case *Parallel:
		var out []Step
		for _, item := range c.items {
			out = append(out, terminalSteps(item)...)
		}

		return out
	case *DepGroup:
		return terminalSteps(c.series)
	default:
		panic(ErrUnknownStructure)
	}
}
