// Package app contains the core application logic. It wires the registry,
// storage backends and journal together, parses a recipe and executes it,
// decoupled from any specific entrypoint like a CLI.
package app
