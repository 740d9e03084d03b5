package shader

import (
	"fmt"
	"reflect"
	"strings"
)

// LayoutError reports the first place a host type disagrees with the
// shader's element layout.
type LayoutError struct {
	Program string
	GoType  string
	Field   string // empty when the mismatch is on the whole element
	Reason  string
}

func (e *LayoutError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("shader %s: host type %s: %s", e.Program, e.GoType, e.Reason)
	}
	return fmt.Sprintf("shader %s: host type %s field %s: %s", e.Program, e.GoType, e.Field, e.Reason)
}

// CheckLayoutOf is CheckLayout for the static type T.
func CheckLayoutOf[T any](iface *Interface) error {
	return CheckLayout(iface, reflect.TypeOf((*T)(nil)).Elem())
}

// CheckLayout verifies that one value of t occupies exactly one element of
// the shader's storage array, byte for byte. Struct fields are matched in
// declaration order against the WGSL members, by `wgsl:"name"` tag or the
// lower-cased Go field name.
func CheckLayout(iface *Interface, t reflect.Type) error {
	el := iface.Element
	fail := func(field, format string, args ...any) error {
		return &LayoutError{
			Program: iface.Program,
			GoType:  t.String(),
			Field:   field,
			Reason:  fmt.Sprintf(format, args...),
		}
	}

	if uint32(t.Size()) != el.Stride {
		return fail("", "size %d, shader array stride %d", t.Size(), el.Stride)
	}

	if len(el.Fields) == 0 {
		if k := kindOf(t); k != el.Kind {
			return fail("", "kind %s, shader element kind %s", k, el.Kind)
		}
		return nil
	}

	if t.Kind() != reflect.Struct {
		return fail("", "shader element is struct %s, host type is %s", el.Name, t.Kind())
	}
	if t.NumField() != len(el.Fields) {
		return fail("", "%d fields, shader struct %s has %d members", t.NumField(), el.Name, len(el.Fields))
	}

	for i, want := range el.Fields {
		f := t.Field(i)
		name := fieldName(f)
		if name != want.Name {
			return fail(f.Name, "position %d is %q, shader member is %q", i, name, want.Name)
		}
		if uint32(f.Offset) != want.Offset {
			return fail(f.Name, "offset %d, shader offset %d", f.Offset, want.Offset)
		}
		if uint32(f.Type.Size()) != want.Size {
			return fail(f.Name, "size %d, shader size %d", f.Type.Size(), want.Size)
		}
		if k := kindOf(f.Type); k != want.Kind {
			return fail(f.Name, "kind %s, shader kind %s", k, want.Kind)
		}
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("wgsl"); ok && tag != "" {
		return tag
	}
	return strings.ToLower(f.Name)
}

func kindOf(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Uint32:
		return KindUint
	case reflect.Int32:
		return KindSint
	case reflect.Float32:
		return KindFloat
	}
	return KindUnknown
}
