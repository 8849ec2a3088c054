// Package fixture parses compact YAML pipeline descriptions into weld
// structures, keeping deeply nested test cases readable.
//
// A scalar is a step. A sequence is a series. A mapping selects a container
// explicitly:
//
//	- A
//	- parallel:
//	    - series: [B, D]
//	    - series: [C, E]
//	- stage:
//	    group: x
//	    steps: [F, G]
package fixture

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-pipeweld/pkg/weld"
)

var (
	ErrEmptyDocument = errors.New("empty fixture document")
	ErrBadNode       = errors.New("unsupported fixture node")
)

// Parse decodes a YAML pipeline description into a series.
func Parse(data []byte) (*weld.Series, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unable to parse fixture")
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	component, err := decode(doc.Content[0])
	if err != nil {
		return nil, err
	}

	if series, ok := component.(*weld.Series); ok {
		return series, nil
	}

	return weld.NewSeries(component), nil
}

func decode(node *yaml.Node) (weld.Structure, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return weld.Step(node.Value), nil
	case yaml.SequenceNode:
		items, err := decodeAll(node.Content)
		if err != nil {
			return nil, err
		}

		return weld.NewSeries(items...), nil
	case yaml.MappingNode:
		return decodeMapping(node)
	case yaml.AliasNode:
		return decode(node.Alias)
	default:
		return nil, errors.Wrapf(ErrBadNode, "kind %d at line %d", node.Kind, node.Line)
	}
}

func decodeMapping(node *yaml.Node) (weld.Structure, error) {
	if len(node.Content) != 2 {
		return nil, errors.Wrapf(ErrBadNode, "container mapping at line %d must have exactly one key", node.Line)
	}

	key, value := node.Content[0], node.Content[1]

	switch key.Value {
	case "series":
		items, err := decodeAll(value.Content)
		if err != nil {
			return nil, err
		}

		return weld.NewSeries(items...), nil
	case "parallel":
		items, err := decodeAll(value.Content)
		if err != nil {
			return nil, err
		}

		return weld.NewParallel(items...), nil
	case "stage":
		return decodeStage(value)
	default:
		return nil, errors.Wrapf(ErrBadNode, "unknown container %q at line %d", key.Value, key.Line)
	}
}

func decodeStage(node *yaml.Node) (weld.Structure, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrBadNode, "stage body at line %d must be a mapping", node.Line)
	}

	var (
		group string
		items []weld.Structure
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch key.Value {
		case "group":
			group = value.Value
		case "steps":
			decoded, err := decodeAll(value.Content)
			if err != nil {
				return nil, err
			}

			items = decoded
		default:
			return nil, errors.Wrapf(ErrBadNode, "unknown stage field %q at line %d", key.Value, key.Line)
		}
	}

	return weld.NewDepGroup(group, items...), nil
}

func decodeAll(nodes []*yaml.Node) ([]weld.Structure, error) {
	items := make([]weld.Structure, 0, len(nodes))

	for _, node := range nodes {
		item, err := decode(node)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
