package task

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// bindRaw converts a raw recipe value to the declared type t. Values still in
// cty form are decoded with gocty; Go values must be assignable or
// numerically convertible to t. A nil t keeps the value's natural form.
func bindRaw(v any, t reflect.Type) (any, error) {
	if t == nil {
		return natural(v)
	}

	if cv, ok := v.(cty.Value); ok {
		if t.Kind() == reflect.Interface {
			nv, err := natural(cv)
			if err != nil {
				return nil, err
			}
			return assign(nv, t)
		}
		if cv.IsNull() {
			return nil, fmt.Errorf("null value cannot be used as %s", t)
		}
		if implied, err := gocty.ImpliedType(reflect.Zero(t).Interface()); err == nil {
			converted, err := convert.Convert(cv, implied)
			if err != nil {
				return nil, fmt.Errorf("cannot use %s value as %s: %w", cv.Type().FriendlyName(), t, err)
			}
			cv = converted
		}
		ptr := reflect.New(t)
		if err := gocty.FromCtyValue(cv, ptr.Interface()); err != nil {
			return nil, fmt.Errorf("cannot use %s value as %s: %w", cv.Type().FriendlyName(), t, err)
		}
		return ptr.Elem().Interface(), nil
	}

	return assign(v, t)
}

func assign(v any, t reflect.Type) (any, error) {
	if v == nil {
		if t.Kind() == reflect.Interface {
			return nil, nil
		}
		return nil, fmt.Errorf("nil value cannot be used as %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// natural converts a cty.Value into its most natural Go counterpart. Other
// values are returned unchanged.
func natural(v any) (any, error) {
	cv, ok := v.(cty.Value)
	if !ok {
		return v, nil
	}
	return ctyToNative(cv)
}

func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nv)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k.AsString(), err)
			}
			m[k.AsString()] = nv
		}
		return m, nil

	case ty.IsCapsuleType():
		return v.EncapsulatedValue(), nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
