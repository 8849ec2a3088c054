package fixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeweld/internal/fixture"
	"github.com/askiada/go-pipeweld/pkg/weld"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc  string
		want *weld.Series
	}{
		"flat sequence": {
			doc: `
- A
- B
- C
`,
			want: weld.NewSeries(weld.Step("A"), weld.Step("B"), weld.Step("C")),
		},
		"parallel of series": {
			doc: `
- A
- parallel:
    - series: [B, D]
    - series: [C, E]
`,
			want: weld.NewSeries(
				weld.Step("A"),
				weld.NewParallel(
					weld.NewSeries(weld.Step("B"), weld.Step("D")),
					weld.NewSeries(weld.Step("C"), weld.Step("E")),
				),
			),
		},
		"stage": {
			doc: `
- A
- stage:
    group: x
    steps: [B, C]
`,
			want: weld.NewSeries(
				weld.Step("A"),
				weld.NewDepGroup("x", weld.Step("B"), weld.Step("C")),
			),
		},
		"nested series": {
			doc: `
- series:
    - series: [D, E, F]
`,
			want: weld.NewSeries(weld.NewSeries(weld.NewSeries(
				weld.Step("D"), weld.Step("E"), weld.Step("F"),
			))),
		},
		"single scalar": {
			doc:  `A`,
			want: weld.NewSeries(weld.Step("A")),
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := fixture.Parse([]byte(tc.doc))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc     string
		wantErr error
	}{
		"empty document": {
			doc:     ``,
			wantErr: fixture.ErrEmptyDocument,
		},
		"unknown container": {
			doc: `
- spiral:
    - A
`,
			wantErr: fixture.ErrBadNode,
		},
		"multi-key container": {
			doc: `
- series: [A]
  parallel: [B]
`,
			wantErr: fixture.ErrBadNode,
		},
		"unknown stage field": {
			doc: `
- stage:
    group: x
    tasks: [A]
`,
			wantErr: fixture.ErrBadNode,
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := fixture.Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
