// Package recipe turns an HCL recipe into an ordered sequence of Tasks plus
// the designated output Tasks.
//
// A recipe is evaluated block by block in source order. Each compute block
// sees only the Tasks declared above it, so a Task can reference earlier
// Tasks only and declaration order is always a valid topological order.
package recipe
