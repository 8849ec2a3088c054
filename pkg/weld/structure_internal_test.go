package weld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatSeries(t *testing.T) {
	t.Parallel()

	t.Run("splices series arguments one level", func(t *testing.T) {
		t.Parallel()

		got := concatSeries(
			NewSeries(Step("A"), Step("B")),
			Step("C"),
			NewParallel(Step("D"), Step("E")),
		)

		assert.Equal(t, NewSeries(
			Step("A"),
			Step("B"),
			Step("C"),
			NewParallel(Step("D"), Step("E")),
		), got)
	})

	t.Run("keeps deeper nesting intact", func(t *testing.T) {
		t.Parallel()

		inner := NewSeries(Step("B"), Step("C"))
		got := concatSeries(NewSeries(NewSeries(Step("A")), inner))

		assert.Equal(t, NewSeries(NewSeries(Step("A")), inner), got)
	})

	t.Run("all nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, concatSeries(nil, nil))
	})
}

func TestUnionParallel(t *testing.T) {
	t.Parallel()

	t.Run("splices parallel arguments one level", func(t *testing.T) {
		t.Parallel()

		got := unionParallel(NewParallel(Step("A"), Step("B")), Step("C"))

		assert.Equal(t, NewParallel(Step("A"), Step("B"), Step("C")), got)
	})

	t.Run("deduplicates members", func(t *testing.T) {
		t.Parallel()

		got := unionParallel(Step("A"), Step("A"))

		assert.Equal(t, NewParallel(Step("A")), got)
	})

	t.Run("all nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, unionParallel(nil))
	})
}

func TestCollapseSingleton(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Step("A"), collapseSingleton(NewParallel(Step("A"))))
	assert.Equal(t, NewParallel(Step("A"), Step("B")), collapseSingleton(NewParallel(Step("A"), Step("B"))))
	assert.Equal(t, NewSeries(Step("A")), collapseSingleton(NewSeries(Step("A"))))
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	component := NewSeries(
		Step("A"),
		NewParallel(Step("B"), NewDepGroup("x", Step("C"), Step("D"))),
	)

	assert.True(t, containsAny(component, map[Step]struct{}{"C": {}}))
	assert.True(t, containsAny(component, map[Step]struct{}{"A": {}}))
	assert.False(t, containsAny(component, map[Step]struct{}{"Z": {}}))
	assert.False(t, containsAny(component, nil))
}

func TestStructureKey(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		component Structure
		want      string
	}{
		"step": {
			component: Step("A"),
			want:      `"A"`,
		},
		"series": {
			component: NewSeries(Step("A"), Step("B")),
			want:      `s["A","B"]`,
		},
		"parallel is order insensitive": {
			component: NewParallel(Step("B"), Step("A")),
			want:      `p["A","B"]`,
		},
		"dependency group": {
			component: NewDepGroup("x", Step("A")),
			want:      `g"x"s["A"]`,
		},
		"step name cannot spoof a container": {
			component: Step(`s["A"]`),
			want:      `"s[\"A\"]"`,
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, structureKey(tc.component))
		})
	}
}
