package compute

import "fmt"

// MultiplyReference is what the numbers shader computes, on the CPU.
func MultiplyReference(in []uint32, factor uint32) []uint32 {
	out := make([]uint32, len(in))
	for i, v := range in {
		out[i] = v * factor
	}
	return out
}

// ScaleReference is what the rects shader computes, on the CPU.
func ScaleReference(in []Rect, factor uint32) []Rect {
	out := make([]Rect, len(in))
	for i, r := range in {
		r.PosX *= factor
		out[i] = r
	}
	return out
}

// MismatchError locates the first element where a readback differs from
// the CPU reference.
type MismatchError struct {
	Program string
	Index   int
	Got     any
	Want    any
}

func (e *MismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: got %v elements, want %v", e.Program, e.Got, e.Want)
	}
	return fmt.Sprintf("%s: element %d is %+v, want %+v", e.Program, e.Index, e.Got, e.Want)
}

func verify[T comparable](program string, got, want []T) error {
	if len(got) != len(want) {
		return &MismatchError{Program: program, Index: -1, Got: len(got), Want: len(want)}
	}
	for i := range got {
		if got[i] != want[i] {
			return &MismatchError{Program: program, Index: i, Got: got[i], Want: want[i]}
		}
	}
	return nil
}

// VerifyNumbers checks a numbers readback against 0..BufferLen scaled by
// Multiplier.
func VerifyNumbers(got []uint32) error {
	return verify("numbers", got, MultiplyReference(Sequence(BufferLen), Multiplier))
}

// VerifyRects checks a rects readback against the derived records with
// pos_x scaled by PosXScale.
func VerifyRects(got []Rect) error {
	return verify("rects", got, ScaleReference(Rects(BufferLen), PosXScale))
}
