// Package numeric registers the value types shared by the built-in
// algorithms and the codecs that read and write them.
package numeric

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/specialistvlad/recipegrid/internal/registry"
	"gopkg.in/yaml.v3"
)

// Series is an ordered sequence of samples.
type Series []float64

var (
	scalarType = reflect.TypeFor[float64]()
	seriesType = reflect.TypeFor[Series]()
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// LoadScalar reads a single number from a text file.
func LoadScalar(_ context.Context, r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid scalar: %w", err)
	}
	return f, nil
}

// SaveScalar writes v as a single line of text.
func SaveScalar(_ context.Context, w io.Writer, v any) error {
	_, err := fmt.Fprintln(w, strconv.FormatFloat(v.(float64), 'g', -1, 64))
	return err
}

// LoadSeries reads a YAML (or JSON) sequence of numbers.
func LoadSeries(_ context.Context, r io.Reader) (any, error) {
	var s Series
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return Series{}, nil
		}
		return nil, fmt.Errorf("invalid series: %w", err)
	}
	if s == nil {
		s = Series{}
	}
	return s, nil
}

// SaveSeries writes v as a YAML sequence.
func SaveSeries(_ context.Context, w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.(Series)); err != nil {
		return err
	}
	return enc.Close()
}

// Register registers the codecs with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterLoader(scalarType, LoadScalar)
	r.RegisterWriter(scalarType, SaveScalar)
	r.RegisterLoader(seriesType, LoadSeries)
	r.RegisterWriter(seriesType, SaveSeries)
}
