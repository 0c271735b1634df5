// Package task implements a single bound invocation of a registered algorithm.
//
// A Task is constructed once, when its recipe is parsed: the algorithm is
// resolved from the registry, named options are bound to the types the
// algorithm's constructor declares (file references among them are decoded
// immediately) and the algorithm is instantiated. Positional inputs are bound
// to the types the Run method declares, but file references among them are
// only decoded when the Task runs. References to other Tasks are the edges of
// the dependency graph and are substituted with those Tasks' results at run
// time.
package task
