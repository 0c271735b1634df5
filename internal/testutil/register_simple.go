package testutil

import "github.com/specialistvlad/recipegrid/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single algorithm.
type SimpleModule struct {
	Category  string
	Name      string
	Algorithm *registry.RegisteredAlgorithm
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Algorithm != nil {
		r.RegisterAlgorithm(m.Category, m.Name, m.Algorithm)
	}
}
