// Package compute implements the two guide programs: multiplying a buffer
// of integers by a constant, and doubling one field of a packed struct
// array, each in a single GPU dispatch.
package compute

const (
	// BufferLen is the element count of both programs' buffers.
	BufferLen = 1024
	// Multiplier is what the numbers shader multiplies each element by.
	Multiplier = 12
	// PosXScale is what the rects shader multiplies pos_x by.
	PosXScale = 2
)

// Sequence returns 0, 1, ..., n-1.
func Sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// Rect is one record of the rects buffer. Field order and widths mirror the
// WGSL Rect struct exactly; the wgsl tags name the matching members.
type Rect struct {
	PosX   uint32 `wgsl:"pos_x" json:"pos_x"`
	PosY   uint32 `wgsl:"pos_y" json:"pos_y"`
	Width  uint32 `wgsl:"width" json:"width"`
	Height uint32 `wgsl:"height" json:"height"`
}

// Mix is the seeding step: ((n+7)*637) & 0x7F. Arithmetic wraps at 32
// bits; the mask keeps the result in [0, 128).
func Mix(n uint32) uint32 {
	return ((n + 7) * 637) & 0x7F
}

// RectFromNumber derives a Rect from n by chaining Mix through the fields.
func RectFromNumber(n uint32) Rect {
	posX := Mix(n)
	posY := Mix(posX)
	width := Mix(posY)
	height := Mix(width)
	return Rect{PosX: posX, PosY: posY, Width: width, Height: height}
}

// Rects derives n records from the indices 0..n-1.
func Rects(n int) []Rect {
	out := make([]Rect, n)
	for i := range out {
		out[i] = RectFromNumber(uint32(i))
	}
	return out
}
