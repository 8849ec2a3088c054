package drawer

import (
	"io"

	"github.com/askiada/go-pipeweld/pkg/weld"
)

// Drawer renders a pipeline's precedence graph.
type Drawer interface {
	// AddPipeline loads the pipeline whose graph should be rendered.
	AddPipeline(pipeline *weld.Series) error
	// SetZones tints steps by their dependency zone relative to a candidate
	// step: prerequisites, postrequisites, and everything else.
	SetZones(prerequisites, postrequisites []weld.Step) error
	// Render writes the drawing to the given writer.
	Render(wrt io.Writer) error
	// Draw writes the drawing to the configured file.
	Draw() error
}
