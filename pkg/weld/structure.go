package weld

import (
	"sort"
	"strconv"
	"strings"
)

// Step is a single named unit of work in a pipeline. Names are opaque to the
// engine; equality is by value. A pipeline must not contain two steps with
// the same name (see Graph for a helper that enforces this).
type Step string

// Structure is one node of a pipeline description. It is a closed union over
// Step, *Series, *Parallel and *DepGroup; no other implementations exist.
type Structure interface {
	structure()
}

func (Step) structure()      {}
func (*Series) structure()   {}
func (*Parallel) structure() {}
func (*DepGroup) structure() {}

// Series is an ordered sequential composition. Earlier items complete before
// later items start.
type Series struct {
	items []Structure
}

// NewSeries builds a series from the given items, dropping nils and empty
// containers. Nested series are kept as-is; flattening only happens when
// zones are concatenated during partitioning.
func NewSeries(items ...Structure) *Series {
	return &Series{items: compact(items)}
}

// Items returns a copy of the series items in order.
func (s *Series) Items() []Structure {
	out := make([]Structure, len(s.items))
	copy(out, s.items)

	return out
}

// Len returns the number of items in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}

// Parallel is an unordered concurrent composition. Members are deduplicated
// by structural equality and held in a canonical order so that equal blocks
// compare equal regardless of construction order.
type Parallel struct {
	items []Structure
}

// NewParallel builds a parallel block from the given members, dropping nils
// and empty containers and deduplicating structurally equal members.
func NewParallel(items ...Structure) *Parallel {
	members := compact(items)

	sort.SliceStable(members, func(i, j int) bool {
		return structureKey(members[i]) < structureKey(members[j])
	})

	deduped := members[:0]
	for i, m := range members {
		if i > 0 && structureKey(m) == structureKey(members[i-1]) {
			continue
		}

		deduped = append(deduped, m)
	}

	return &Parallel{items: deduped}
}

// Items returns a copy of the members in canonical order.
func (p *Parallel) Items() []Structure {
	out := make([]Structure, len(p.items))
	copy(out, p.items)

	return out
}

// Len returns the number of members in the parallel block.
func (p *Parallel) Len() int {
	if p == nil {
		return 0
	}

	return len(p.items)
}

// DepGroup is a named contiguous sub-series. The group label ties the steps
// to a shared configuration in the rendered document; the engine keeps a
// group physically together unless a placement forces it to split, in which
// case every fragment keeps the label.
type DepGroup struct {
	series *Series
	group  string
}

// NewDepGroup builds a dependency group wrapping the given items as a series.
func NewDepGroup(group string, items ...Structure) *DepGroup {
	return &DepGroup{series: NewSeries(items...), group: group}
}

// Group returns the group label.
func (g *DepGroup) Group() string {
	return g.group
}

// Series returns the wrapped series.
func (g *DepGroup) Series() *Series {
	return g.series
}

// Equal reports deep structural equality. Series comparison is
// order-dependent, parallel comparison is order-independent.
func Equal(a, b Structure) bool {
	return structureKey(a) == structureKey(b)
}

// compact drops nil items and zero-length containers. Empty containers are
// meaningless and must never survive construction.
func compact(items []Structure) []Structure {
	out := make([]Structure, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case *Series:
			if v == nil || len(v.items) == 0 {
				continue
			}
		case *Parallel:
			if v == nil || len(v.items) == 0 {
				continue
			}
		case *DepGroup:
			if v == nil || v.series.Len() == 0 {
				continue
			}
		}

		out = append(out, item)
	}

	return out
}

// structureKey renders a canonical representation of a structure. Step names
// are quoted so that names containing delimiters cannot collide with the
// rendering of a container.
func structureKey(component Structure) string {
	switch c := component.(type) {
	case Step:
		return strconv.Quote(string(c))
	case *Series:
		keys := make([]string, len(c.items))
		for i, item := range c.items {
			keys[i] = structureKey(item)
		}

		return "s[" + strings.Join(keys, ",") + "]"
	case *Parallel:
		keys := make([]string, len(c.items))
		for i, item := range c.items {
			keys[i] = structureKey(item)
		}

		return "p[" + strings.Join(keys, ",") + "]"
	case *DepGroup:
		return "g" + strconv.Quote(c.group) + structureKey(c.series)
	default:
		panic(ErrUnknownStructure)
	}
}

// concatSeries concatenates components into a single series, skipping nils
// and splicing the items of any series argument directly into the result.
// This one-level flattening keeps nesting depth from growing across repeated
// partition and merge cycles. Parallel blocks and dependency groups are
// appended as single opaque items. Returns nil when every component is nil.
func concatSeries(components ...Structure) Structure {
	var items []Structure

	for _, component := range components {
		switch v := component.(type) {
		case nil:
			continue
		case *Series:
			items = append(items, v.items...)
		default:
			items = append(items, component)
		}
	}

	if len(items) == 0 {
		return nil
	}

	return &Series{items: items}
}

// unionParallel unions components into a single parallel block, skipping nils
// and splicing the members of any parallel argument directly into the result,
// mirroring concatSeries. Returns nil when every component is nil.
func unionParallel(components ...Structure) Structure {
	var items []Structure

	for _, component := range components {
		switch v := component.(type) {
		case nil:
			continue
		case *Parallel:
			items = append(items, v.items...)
		default:
			items = append(items, component)
		}
	}

	if len(items) == 0 {
		return nil
	}

	return NewParallel(items...)
}

// containsAny reports whether any descendant step of the component is in the
// given set.
func containsAny(component Structure, steps map[Step]struct{}) bool {
	switch c := component.(type) {
	case Step:
		_, ok := steps[c]

		return ok
	case *Series:
		for _, item := range c.items {
			if containsAny(item, steps) {
				return true
			}
		}

		return false
	case *Parallel:
		for _, item := range c.items {
			if containsAny(item, steps) {
				return true
			}
		}

		return false
	case *DepGroup:
		return containsAny(c.series, steps)
	default:
		panic(ErrUnknownStructure)
	}
}
