// Package shader holds the WGSL programs the compute guide dispatches and
// checks them against the host-side types that fill their buffers.
//
// Each program is a separate .wgsl file with one read_write storage binding
// at group 0, binding 0. Reflect reads the binding layout and workgroup size
// straight from the source with naga, so the host never hard-codes them, and
// CheckLayout rejects a Go type whose memory layout differs from the
// shader's element type.
package shader

import (
	_ "embed"
	"fmt"
	"sort"
)

//go:embed multiply.wgsl
var multiplySrc string

//go:embed rects.wgsl
var rectsSrc string

// Source is one embedded WGSL program.
type Source struct {
	Name       string
	Code       string
	EntryPoint string
	Group      uint32
	Binding    uint32
}

var (
	// Multiply scales a flat u32 array by 12.
	Multiply = Source{Name: "multiply", Code: multiplySrc, EntryPoint: "main"}
	// Rects doubles pos_x of a Rect array.
	Rects = Source{Name: "rects", Code: rectsSrc, EntryPoint: "main"}
)

var byName = map[string]Source{
	Multiply.Name: Multiply,
	Rects.Name:    Rects,
}

// Lookup finds an embedded program by name.
func Lookup(name string) (Source, error) {
	s, ok := byName[name]
	if !ok {
		return Source{}, fmt.Errorf("shader: unknown program %q (have %v)", name, Names())
	}
	return s, nil
}

// Names lists the embedded programs in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
