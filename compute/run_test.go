package compute

import (
	"errors"
	"testing"

	"github.com/openfluke/computeguide/gpu"
	"github.com/openfluke/computeguide/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestContext(t *testing.T) *gpu.Context {
	t.Helper()
	c, err := gpu.NewContext(zaptest.NewLogger(t))
	if errors.Is(err, gpu.ErrNoAdapter) {
		t.Skip("no GPU adapter available")
	}
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

func TestRectMatchesShaderLayout(t *testing.T) {
	iface, err := shader.Reflect(shader.Rects)
	require.NoError(t, err)
	assert.NoError(t, shader.CheckLayoutOf[Rect](iface))
	assert.Equal(t, uint64(16), gpu.ElemSize[Rect]())
}

func TestRunNumbers(t *testing.T) {
	c := newTestContext(t)

	got, err := RunNumbers(c)
	require.NoError(t, err)
	require.Len(t, got, BufferLen)
	for i, v := range got {
		require.Equal(t, uint32(i*12), v, "index %d", i)
	}
}

func TestRunRects(t *testing.T) {
	c := newTestContext(t)

	got, err := RunRects(c)
	require.NoError(t, err)
	require.Len(t, got, BufferLen)
	for i, r := range got {
		want := RectFromNumber(uint32(i))
		require.Equal(t, 2*want.PosX, r.PosX, "index %d", i)
		require.Equal(t, want.PosY, r.PosY, "index %d", i)
		require.Equal(t, want.Width, r.Width, "index %d", i)
		require.Equal(t, want.Height, r.Height, "index %d", i)
	}
	assert.NoError(t, VerifyRects(got))
}
