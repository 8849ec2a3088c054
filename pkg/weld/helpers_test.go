package weld_test

import (
	"github.com/askiada/go-pipeweld/pkg/weld"
)

func series(items ...weld.Structure) *weld.Series {
	return weld.NewSeries(items...)
}

func parallel(items ...weld.Structure) *weld.Parallel {
	return weld.NewParallel(items...)
}

func stage(group string, items ...weld.Structure) *weld.DepGroup {
	return weld.NewDepGroup(group, items...)
}

const (
	stepA weld.Step = "A"
	stepB weld.Step = "B"
	stepC weld.Step = "C"
	stepD weld.Step = "D"
	stepE weld.Step = "E"
	stepF weld.Step = "F"
	stepG weld.Step = "G"
	stepH weld.Step = "H"
)
