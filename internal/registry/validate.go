package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
)

// Validate performs a consistency check of every registered algorithm schema.
// Parameter types without a loader are legal (they accept raw values only)
// and are reported at debug level.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, key := range r.Keys() {
		a := r.algorithms[key]
		if a.New == nil {
			errs = append(errs, fmt.Sprintf("algorithm '%s': constructor is nil", key))
		}

		groups := []struct {
			kind   string
			params []Param
		}{{"option", a.Options}, {"input", a.Inputs}}

		for _, g := range groups {
			kind := g.kind
			seen := make(map[string]struct{}, len(g.params))
			for i, p := range g.params {
				if p.Name == "" {
					errs = append(errs, fmt.Sprintf("algorithm '%s': %s #%d has no name", key, kind, i))
					continue
				}
				if _, dup := seen[p.Name]; dup {
					errs = append(errs, fmt.Sprintf("algorithm '%s': %s '%s' declared twice", key, kind, p.Name))
				}
				seen[p.Name] = struct{}{}

				if p.Type == nil {
					logger.Debug("Algorithm parameter is untyped; file references cannot be decoded for it.", "algorithm", key.String(), kind, p.Name)
					continue
				}
				if _, err := r.codecs.Loader(p.Type); err != nil {
					logger.Debug("Algorithm parameter type has no loader; it accepts raw values only.", "algorithm", key.String(), kind, p.Name, "type", p.Type.String())
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
