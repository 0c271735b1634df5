// Package registry provides the central "glue" for the algorithm system.
//
// The Registry maps the (category, algorithm) names used in recipes to the
// compiled Go implementations, together with the schema each implementation
// declares: the typed named options its constructor accepts and the typed
// positional inputs its Run method accepts. Those declarations drive how file
// references are decoded before they reach an algorithm.
//
// The Registry also owns the value codecs (type→loader and type→writer), so a
// module registers its algorithms and the codecs of the values they produce in
// one place. Modules are registered once at process start and the registry is
// read-only afterwards.
package registry
