// Package store provides the in-memory backing store for step precedence
// graphs, keyed by step name.
package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
)

// StepStore is a graph.Store keyed by step name. Besides the plain store
// contract it supports in-place vertex property updates, which the drawer
// uses to attach dependency-zone colours after the graph is built.
type StepStore struct {
	lock             sync.RWMutex
	vertices         map[string]string
	vertexProperties map[string]*graph.VertexProperties

	// outEdges and inEdges store all outgoing and ingoing edges for all
	// steps. For O(1) access, these edges themselves are stored in maps
	// whose keys are the names of the target steps.
	outEdges map[string]map[string]graph.Edge[string] // source -> target
	inEdges  map[string]map[string]graph.Edge[string] // target -> source
}

// NewStepStore creates an empty step store.
func NewStepStore() *StepStore {
	return &StepStore{
		vertices:         make(map[string]string),
		vertexProperties: make(map[string]*graph.VertexProperties),
		outEdges:         make(map[string]map[string]graph.Edge[string]),
		inEdges:          make(map[string]map[string]graph.Edge[string]),
	}
}

func (s *StepStore) AddVertex(name, value string, properties graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.vertices[name] = value
	s.vertexProperties[name] = &properties

	return nil
}

func (s *StepStore) ListVertices() ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	names := make([]string, 0, len(s.vertices))
	for name := range s.vertices {
		names = append(names, name)
	}

	return names, nil
}

func (s *StepStore) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *StepStore) Vertex(name string) (string, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	value, ok := s.vertices[name]
	if !ok {
		return value, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	properties := s.vertexProperties[name]

	return value, *properties, nil
}

func (s *StepStore) RemoveVertex(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; !ok {
		return graph.ErrVertexNotFound
	}

	if edges, ok := s.inEdges[name]; ok {
		if len(edges) > 0 {
			return graph.ErrVertexHasEdges
		}

		delete(s.inEdges, name)
	}

	if edges, ok := s.outEdges[name]; ok {
		if len(edges) > 0 {
			return graph.ErrVertexHasEdges
		}

		delete(s.outEdges, name)
	}

	delete(s.vertices, name)
	delete(s.vertexProperties, name)

	return nil
}

// UpdateVertex applies property updates to a step in place.
func (s *StepStore) UpdateVertex(name string, options ...func(*graph.VertexProperties)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	properties, ok := s.vertexProperties[name]
	if !ok {
		return
	}

	for _, opt := range options {
		opt(properties)
	}
}

func (s *StepStore) AddEdge(source, target string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[source]; !ok {
		s.outEdges[source] = make(map[string]graph.Edge[string])
	}

	s.outEdges[source][target] = edge

	if _, ok := s.inEdges[target]; !ok {
		s.inEdges[target] = make(map[string]graph.Edge[string])
	}

	s.inEdges[target][source] = edge

	return nil
}

func (s *StepStore) UpdateEdge(source, target string, edge graph.Edge[string]) error {
	if _, err := s.Edge(source, target); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.outEdges[source][target] = edge
	s.inEdges[target][source] = edge

	return nil
}

func (s *StepStore) RemoveEdge(source, target string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[target], source)
	delete(s.outEdges[source], target)

	return nil
}

func (s *StepStore) Edge(source, target string) (graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sourceEdges, ok := s.outEdges[source]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	edge, ok := sourceEdges[target]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *StepStore) ListEdges() ([]graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[string], 0)
	for _, edges := range s.outEdges {
		for _, edge := range edges {
			res = append(res, edge)
		}
	}

	return res, nil
}

// CreatesCycle reports whether adding an edge from source to target would
// close a cycle. It walks inEdges directly instead of materialising a
// predecessor map, so it allocates nothing proportional to the graph.
func (s *StepStore) CreatesCycle(source, target string) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex %q: %w", source, err)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex %q: %w", target, err)
	}

	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := []string{source}
	visited := make(map[string]struct{})

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}

		// If we can reach the target walking backwards from the source, the
		// target is already an ancestor and the new edge would close a loop.
		if current == target {
			return true, nil
		}

		visited[current] = struct{}{}

		for adjacency := range s.inEdges[current] {
			stack = append(stack, adjacency)
		}
	}

	return false, nil
}
