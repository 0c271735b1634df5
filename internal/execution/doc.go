// Package execution runs a parsed Recipe.
//
// An Execution runs only the Tasks its outputs transitively depend on, in
// declaration order, and drops a cached result as soon as every Task reading
// it has completed, unless it is an output. It is driven one Task per tick
// with RunOneTick, or by a pool of workers with RunParallel. Either way a
// single failure leaves the Execution aborted for good; build a new one from
// the same Recipe to retry.
package execution
