package weld

import (
	"github.com/pkg/errors"
)

var (
	// ErrEmptyStructure is returned when an endpoint is requested for a
	// series or parallel block that contains no steps. Such containers are
	// eliminated during construction, so hitting this indicates a malformed
	// input structure.
	ErrEmptyStructure = errors.New("structure contains no steps")

	// ErrUnknownStructure is returned when a Structure value is not one of
	// the recognised variants. It indicates a construction bug upstream.
	ErrUnknownStructure = errors.New("unknown pipeline structure")

	// ErrDuplicateStep is returned by Graph when the same step name occurs
	// more than once in a pipeline.
	ErrDuplicateStep = errors.New("duplicate step name")

	// ErrEmptyPartition is returned when a partition holds no components at
	// all, which cannot happen for a non-empty input pipeline.
	ErrEmptyPartition = errors.New("partition contains no components")
)
