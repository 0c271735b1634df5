package recipe

import (
	"reflect"

	"github.com/specialistvlad/recipegrid/internal/fileref"
	"github.com/specialistvlad/recipegrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

var (
	taskType    = cty.Capsule("task", reflect.TypeFor[task.Task]())
	fileRefType = cty.Capsule("file_reference", reflect.TypeFor[fileref.Reference]())
)

func taskVal(t *task.Task) cty.Value {
	return cty.CapsuleVal(taskType, t)
}

func fileRefVal(location string) cty.Value {
	return cty.CapsuleVal(fileRefType, &fileref.Reference{Location: location})
}

// unwrap converts an evaluated argument into what task.Definition expects:
// *task.Task for task references, fileref.Reference for file references and
// the cty.Value itself for literals. References nested inside literals are
// rejected because nothing would ever resolve them.
func unwrap(v cty.Value) (any, bool) {
	if v.IsNull() || !v.IsKnown() {
		return v, true
	}
	switch ty := v.Type(); {
	case ty.Equals(taskType):
		return v.EncapsulatedValue().(*task.Task), true
	case ty.Equals(fileRefType):
		return *v.EncapsulatedValue().(*fileref.Reference), true
	}
	if containsReference(v) {
		return nil, false
	}
	return v, true
}

func containsReference(v cty.Value) bool {
	found := false
	_ = cty.Walk(v, func(_ cty.Path, ev cty.Value) (bool, error) {
		if ev.Type().IsCapsuleType() {
			found = true
			return false, nil
		}
		return !found, nil
	})
	return found
}
