package weld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionsForInsertion(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		component    Structure
		after        *Step
		want         []Instruction
		wantEndpoint Step
	}{
		"single step": {
			component: Step("A"),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
			},
			wantEndpoint: "A",
		},
		"series chains endpoints": {
			component: NewSeries(Step("A"), Step("B")),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
				InsertSuccessor{After: After("A"), Step: "B"},
			},
			wantEndpoint: "B",
		},
		"singleton parallel": {
			component: NewParallel(Step("A")),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
			},
			wantEndpoint: "A",
		},
		"parallel members anchored off the shared predecessor": {
			component: NewParallel(Step("C"), Step("A"), Step("B")),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
				InsertParallel{After: After("0"), Step: "B"},
				InsertParallel{After: After("0"), Step: "C"},
			},
			wantEndpoint: "A",
		},
		"parallel of series keeps inner chains": {
			component: NewParallel(NewSeries(Step("A"), Step("B")), NewSeries(Step("C"), Step("D"))),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
				InsertSuccessor{After: After("A"), Step: "B"},
				InsertParallel{After: After("0"), Step: "C"},
				InsertSuccessor{After: After("C"), Step: "D"},
			},
			wantEndpoint: "B",
		},
		"dependency group delegates to its series": {
			component: NewDepGroup("x", Step("A"), NewSeries(Step("B"), Step("C"))),
			after:     After("0"),
			want: []Instruction{
				InsertSuccessor{After: After("0"), Step: "A"},
				InsertSuccessor{After: After("A"), Step: "B"},
				InsertSuccessor{After: After("B"), Step: "C"},
			},
			wantEndpoint: "C",
		},
		"start of pipeline": {
			component: Step("A"),
			after:     nil,
			want: []Instruction{
				InsertSuccessor{After: nil, Step: "A"},
			},
			wantEndpoint: "A",
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			instructions, endpoint, err := instructionsForInsertion(tc.component, tc.after)
			require.NoError(t, err)

			assert.Equal(t, tc.want, instructions)
			assert.Equal(t, tc.wantEndpoint, endpoint)
		})
	}

	t.Run("empty series", func(t *testing.T) {
		t.Parallel()

		_, _, err := instructionsForInsertion(&Series{}, nil)
		assert.ErrorIs(t, err, ErrEmptyStructure)
	})
}

func TestInstructionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `insert "B" in parallel after "A"`, InsertParallel{After: After("A"), Step: "B"}.String())
	assert.Equal(t, `insert "A" as successor of start`, InsertSuccessor{After: nil, Step: "A"}.String())
}
