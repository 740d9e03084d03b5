package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, _ := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSpirvToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rects.spv")

	_, err := execute(t, "spirv", "rects", "-o", path)
	require.NoError(t, err)

	bin, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(bin), 4)
	assert.Equal(t, uint32(0x07230203), binary.LittleEndian.Uint32(bin))
}

func TestSpirvToStdout(t *testing.T) {
	out, err := execute(t, "spirv", "multiply")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 4)
	assert.Equal(t, uint32(0x07230203), binary.LittleEndian.Uint32([]byte(out)))
}

func TestSpirvUnknownProgram(t *testing.T) {
	_, err := execute(t, "spirv", "sort")
	assert.ErrorContains(t, err, "unknown program")
}

func TestRejectsBadFormat(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "spirv", "rects")
	assert.ErrorContains(t, err, "unknown format")
}

func TestNumbersNeedsNoArgs(t *testing.T) {
	_, err := execute(t, "numbers", "extra")
	assert.Error(t, err)
}
