package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// ErrNoBinding means the shader declares no storage buffer at the requested
// group and binding.
var ErrNoBinding = errors.New("shader: no storage binding")

// Kind is the scalar kind of an element or member.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUint
	KindSint
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "u32"
	case KindSint:
		return "i32"
	case KindFloat:
		return "f32"
	}
	return "unknown"
}

// Field is one scalar member of a struct element.
type Field struct {
	Name   string
	Offset uint32
	Size   uint32
	Kind   Kind
}

// Element is the layout of one array element of a storage binding.
// Scalar elements have no Fields and a Kind; struct elements list Fields.
type Element struct {
	Name   string // struct name, empty for scalars
	Stride uint32
	Kind   Kind
	Fields []Field
}

// Interface is what the host needs to know about a compute program.
type Interface struct {
	Program    string
	EntryPoint string
	Workgroup  [3]uint32
	Group      uint32
	Binding    uint32
	Variable   string
	Element    Element
}

// Reflect parses, lowers and validates src and extracts its compute entry
// point and the runtime-sized storage array at (src.Group, src.Binding).
func Reflect(src Source) (*Interface, error) {
	module, err := lower(src)
	if err != nil {
		return nil, err
	}

	iface := &Interface{
		Program:    src.Name,
		EntryPoint: src.EntryPoint,
		Group:      src.Group,
		Binding:    src.Binding,
	}

	found := false
	for _, ep := range module.EntryPoints {
		if ep.Stage == ir.StageCompute && ep.Name == src.EntryPoint {
			iface.Workgroup = ep.Workgroup
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("shader %s: no compute entry point %q", src.Name, src.EntryPoint)
	}

	for _, gv := range module.GlobalVariables {
		if gv.Space != ir.SpaceStorage || gv.Binding == nil {
			continue
		}
		if gv.Binding.Group != src.Group || gv.Binding.Binding != src.Binding {
			continue
		}
		iface.Variable = gv.Name
		iface.Element, err = elementOf(module, gv.Type)
		if err != nil {
			return nil, fmt.Errorf("shader %s: binding %s: %w", src.Name, gv.Name, err)
		}
		return iface, nil
	}
	return nil, fmt.Errorf("shader %s: @group(%d) @binding(%d): %w", src.Name, src.Group, src.Binding, ErrNoBinding)
}

// CompileSPIRV compiles src to a SPIR-V 1.3 binary with validation enabled.
// debug keeps OpName/OpLine instructions in the output.
func CompileSPIRV(src Source, debug bool) ([]byte, error) {
	opts := naga.DefaultOptions()
	opts.SPIRVVersion = spirv.Version1_3
	opts.Debug = debug
	out, err := naga.CompileWithOptions(src.Code, opts)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", src.Name, err)
	}
	return out, nil
}

func lower(src Source) (*ir.Module, error) {
	ast, err := naga.Parse(src.Code)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", src.Name, err)
	}
	module, err := naga.LowerWithSource(ast, src.Code)
	if err != nil {
		return nil, fmt.Errorf("shader %s: lowering: %w", src.Name, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("shader %s: validation: %w", src.Name, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("shader %s: validation: %w", src.Name, verrs[0])
	}
	return module, nil
}

// elementOf resolves the element layout of a storage variable typed either
// array<T> or a struct whose last member is array<T>.
func elementOf(m *ir.Module, h ir.TypeHandle) (Element, error) {
	ty, err := typeAt(m, h)
	if err != nil {
		return Element{}, err
	}

	switch inner := ty.Inner.(type) {
	case ir.ArrayType:
		return arrayElement(m, inner)
	case ir.StructType:
		if len(inner.Members) == 0 {
			return Element{}, fmt.Errorf("empty struct %s", ty.Name)
		}
		last := inner.Members[len(inner.Members)-1]
		lt, err := typeAt(m, last.Type)
		if err != nil {
			return Element{}, err
		}
		arr, ok := lt.Inner.(ir.ArrayType)
		if !ok {
			return Element{}, fmt.Errorf("struct %s does not end in a runtime array", ty.Name)
		}
		return arrayElement(m, arr)
	}
	return Element{}, fmt.Errorf("unsupported storage type %T", ty.Inner)
}

func arrayElement(m *ir.Module, arr ir.ArrayType) (Element, error) {
	if arr.Size.Constant != nil {
		return Element{}, fmt.Errorf("array is fixed-size (%d), want runtime-sized", *arr.Size.Constant)
	}
	base, err := typeAt(m, arr.Base)
	if err != nil {
		return Element{}, err
	}

	el := Element{Stride: arr.Stride}
	switch inner := base.Inner.(type) {
	case ir.ScalarType:
		el.Kind = scalarKind(inner)
		if el.Stride == 0 {
			el.Stride = uint32(inner.Width)
		}
	case ir.StructType:
		el.Name = base.Name
		if el.Stride == 0 {
			el.Stride = inner.Span
		}
		for _, mem := range inner.Members {
			mt, err := typeAt(m, mem.Type)
			if err != nil {
				return Element{}, err
			}
			st, ok := mt.Inner.(ir.ScalarType)
			if !ok {
				return Element{}, fmt.Errorf("struct %s member %s: only scalar members are supported, got %T", base.Name, mem.Name, mt.Inner)
			}
			el.Fields = append(el.Fields, Field{
				Name:   mem.Name,
				Offset: mem.Offset,
				Size:   uint32(st.Width),
				Kind:   scalarKind(st),
			})
		}
	default:
		return Element{}, fmt.Errorf("unsupported element type %T", base.Inner)
	}
	return el, nil
}

func typeAt(m *ir.Module, h ir.TypeHandle) (ir.Type, error) {
	if int(h) >= len(m.Types) {
		return ir.Type{}, fmt.Errorf("type handle %d out of range", h)
	}
	return m.Types[h], nil
}

func scalarKind(s ir.ScalarType) Kind {
	switch s.Kind {
	case ir.ScalarUint:
		return KindUint
	case ir.ScalarSint:
		return KindSint
	case ir.ScalarFloat:
		return KindFloat
	}
	return KindUnknown
}
