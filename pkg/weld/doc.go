// Package weld computes where a new step belongs inside an existing CI
// pipeline and how to get it there.
//
// A pipeline is described compositionally: single steps, series (sequential
// composition), parallel blocks (concurrent composition) and dependency
// groups (named sub-series that must stay contiguous in the rendered
// document). Given such a structure plus the names of the steps the new step
// must run after (prerequisites) and before (postrequisites), Add returns a
// normalised structure with the new step threaded into a valid position, and
// an ordered list of edit instructions. The instructions are the contract
// with the document layer: replaying them one by one against a concrete
// representation (a YAML pipeline file, for example) reproduces the computed
// placement while leaving unrelated content untouched.
//
// The engine is purely functional. It never mutates the caller's pipeline,
// performs no I/O, and holds no state between calls; callers building up a
// pipeline incrementally thread each Result.Solution into the next Add call.
// Parallel blocks express ordering intent only - nothing in this package
// executes steps or spawns work on their behalf.
package weld
