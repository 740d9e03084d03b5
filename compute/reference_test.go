package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplyReference(t *testing.T) {
	out := MultiplyReference(Sequence(BufferLen), Multiplier)
	require.Len(t, out, BufferLen)
	assert.Equal(t, uint32(0), out[0])
	assert.Equal(t, uint32(12), out[1])
	assert.Equal(t, uint32(24), out[2])
	assert.Equal(t, uint32(12*1023), out[1023])
}

func TestScaleReference(t *testing.T) {
	in := Rects(BufferLen)
	out := ScaleReference(in, PosXScale)
	require.Len(t, out, BufferLen)
	for i := range in {
		assert.Equal(t, 2*in[i].PosX, out[i].PosX)
		assert.Equal(t, in[i].PosY, out[i].PosY)
		assert.Equal(t, in[i].Width, out[i].Width)
		assert.Equal(t, in[i].Height, out[i].Height)
	}
	// input is untouched
	assert.Equal(t, Rects(BufferLen), in)
}

func TestVerifyNumbers(t *testing.T) {
	good := MultiplyReference(Sequence(BufferLen), Multiplier)
	assert.NoError(t, VerifyNumbers(good))

	bad := append([]uint32(nil), good...)
	bad[500]++
	var me *MismatchError
	require.ErrorAs(t, VerifyNumbers(bad), &me)
	assert.Equal(t, 500, me.Index)

	require.ErrorAs(t, VerifyNumbers(good[:10]), &me)
	assert.Equal(t, -1, me.Index)
	assert.Contains(t, me.Error(), "got 10 elements, want 1024")

	// the unmultiplied seed must not pass
	assert.Error(t, VerifyNumbers(Sequence(BufferLen)))
}

func TestVerifyRects(t *testing.T) {
	good := ScaleReference(Rects(BufferLen), PosXScale)
	assert.NoError(t, VerifyRects(good))

	bad := append([]Rect(nil), good...)
	bad[3].Height++
	var me *MismatchError
	require.ErrorAs(t, VerifyRects(bad), &me)
	assert.Equal(t, 3, me.Index)

	assert.Error(t, VerifyRects(Rects(BufferLen)))
}
