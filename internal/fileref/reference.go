package fileref

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/recipegrid/internal/storage"
)

// Reference is an untyped reference to an external location.
type Reference struct {
	Location string
}

// String renders the reference the way it is written in a recipe.
func (r Reference) String() string {
	return fmt.Sprintf("file(%q)", r.Location)
}

// Typed is a Reference bound to the type it must decode into.
type Typed struct {
	Ref    Reference
	Type   reflect.Type
	codecs *Codecs
	store  storage.Storage
}

// Bind binds ref to the target type t. Nothing is read until Load is called.
func Bind(ref Reference, t reflect.Type, codecs *Codecs, store storage.Storage) *Typed {
	return &Typed{Ref: ref, Type: t, codecs: codecs, store: store}
}

// Load reads and decodes the referenced location. The decoded value is not
// retained; every call reads the location again.
func (t *Typed) Load(ctx context.Context) (any, error) {
	return t.codecs.Load(ctx, t.store, t.Ref.Location, t.Type)
}

// String implements fmt.Stringer.
func (t *Typed) String() string {
	return fmt.Sprintf("%s as %s", t.Ref, TypeName(t.Type))
}

// TypeName renders t for messages; a nil type is reported as untyped.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<untyped>"
	}
	return t.String()
}
