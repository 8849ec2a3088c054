// Package drawer renders pipeline precedence graphs to Graphviz DOT files,
// tinting steps by their dependency zone relative to a candidate step.
package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipeweld/pkg/weld"
)

const maxRGB = 240

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
type DOTDrawer struct {
	dotFileName string
	graph       graph.Graph[string, string]
}

// NewDOTDrawer creates a new DOT drawer writing to the given file.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	return &DOTDrawer{
		dotFileName: dotFileName,
	}
}

// AddPipeline builds the precedence graph for the pipeline. It fails on
// duplicate step names.
func (d *DOTDrawer) AddPipeline(pipeline *weld.Series) error {
	gra, err := weld.Graph(pipeline)
	if err != nil {
		return errors.Wrap(err, "unable to build pipeline graph")
	}

	d.graph = gra

	return nil
}

// SetZones tints the graph's steps: prerequisites shade red, postrequisites
// shade blue, everything else stays neutral.
func (d *DOTDrawer) SetZones(prerequisites, postrequisites []weld.Step) error {
	if d.graph == nil {
		return errors.New("no pipeline has been added")
	}

	prerequisiteHex, err := hexColor(maxRGB, 0, 0)
	if err != nil {
		return err
	}

	postrequisiteHex, err := hexColor(0, 0, maxRGB)
	if err != nil {
		return err
	}

	neutralHex, err := hexColor(200, 200, 200)
	if err != nil {
		return err
	}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return errors.Wrap(err, "unable to get adjacency map")
	}

	fill := make(map[string]string, len(adjacencyMap))
	for name := range adjacencyMap {
		fill[name] = neutralHex
	}

	for _, step := range prerequisites {
		if _, ok := fill[string(step)]; ok {
			fill[string(step)] = prerequisiteHex
		}
	}

	for _, step := range postrequisites {
		if _, ok := fill[string(step)]; ok {
			fill[string(step)] = postrequisiteHex
		}
	}

	for name, hex := range fill {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		properties.Attributes["style"] = "filled"
		properties.Attributes["fillcolor"] = hex
	}

	return nil
}

func hexColor(red, green, blue uint8) (string, error) {
	color, err := colors.RGB(red, green, blue) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return color.ToHEX().String(), nil
}

// Render writes the graph as DOT to the given writer.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	if d.graph == nil {
		return errors.New("no pipeline has been added")
	}

	return dot(d.graph, wrt)
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.dotFileName)
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(gra graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(gra, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the DOT rendering.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	// Map iteration order is random; sort vertices so the output is stable.
	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		adjacencies := adjacencyMap[vertex]

		targets := make([]string, 0, len(adjacencies))
		for target := range adjacencies {
			targets = append(targets, target)
		}

		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencies[target]

			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
