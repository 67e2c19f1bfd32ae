package uniform

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	offset uint64
	data   []byte
	err    error
	calls  int
}

func (w *recordingWriter) WriteBuffer(offset uint64, data []byte) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.offset = offset
	w.data = append([]byte(nil), data...)
	return nil
}

func TestCursorPush(t *testing.T) {
	c := NewCursor(64)
	assert.Equal(t, uint64(64), c.Capacity())
	assert.Equal(t, uint64(DefaultAlignment), c.Alignment())

	off, err := c.Push(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off)

	off, err = c.Push([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(16), off)
	assert.Equal(t, uint64(20), c.Offset())
}

func TestCursorOverflowLeavesStateUnchanged(t *testing.T) {
	c := NewCursor(64)
	_, err := c.Push(make([]byte, 48))
	require.NoError(t, err)

	_, err = c.Push(make([]byte, 17))
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, uint64(48), c.Offset())
	assert.Len(t, c.Bytes(), 48)

	// exactly filling the buffer is allowed
	_, err = c.Push(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, uint64(64), c.Offset())
}

func TestCursorAlignment(t *testing.T) {
	c := NewCursor(1024, WithAlignment(256))

	_, err := c.Push(make([]byte, 128))
	require.NoError(t, err)

	off, err := c.PushAligned(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, uint64(256), off)

	require.NoError(t, c.Align())
	assert.Equal(t, uint64(512), c.Offset())
	require.NoError(t, c.Align())
	assert.Equal(t, uint64(512), c.Offset())

	off, err = c.PushAligned(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, uint64(512), off)

	_, err = c.Push(make([]byte, 200))
	require.NoError(t, err)
	_, err = c.PushAligned(make([]byte, 64))
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, uint64(776), c.Offset())

	c2 := NewCursor(300, WithAlignment(256))
	_, _ = c2.Push(make([]byte, 10))
	assert.NoError(t, c2.Align())
	_, _ = c2.Push(make([]byte, 10))
	assert.ErrorIs(t, c2.Align(), ErrOverflow)
	assert.Equal(t, uint64(266), c2.Offset())
}

func TestCursorRewind(t *testing.T) {
	c := NewCursor(256, WithAlignment(64))
	_, _ = c.Push(make([]byte, 64))
	_, _ = c.Push(make([]byte, 64))

	require.NoError(t, c.Rewind(64))
	assert.Equal(t, uint64(64), c.Offset())
	assert.Len(t, c.Bytes(), 64)

	err := c.Rewind(65)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, uint64(64), c.Offset())

	require.NoError(t, c.Rewind(64))
	assert.Equal(t, uint64(0), c.Offset())
}

func TestCursorResetAndFlush(t *testing.T) {
	c := NewCursor(128)
	w := &recordingWriter{}

	require.NoError(t, c.Flush(w))
	assert.Equal(t, 0, w.calls, "nothing staged, nothing written")

	_, _ = c.Push([]byte{9, 8, 7})
	require.NoError(t, c.Flush(w))
	assert.Equal(t, uint64(0), w.offset)
	assert.Equal(t, []byte{9, 8, 7}, w.data)

	c.Reset()
	assert.Equal(t, uint64(0), c.Offset())
	assert.Empty(t, c.Bytes())

	w.err = errors.New("device lost")
	_, _ = c.Push([]byte{1})
	err := c.Flush(w)
	assert.ErrorIs(t, err, w.err)
}

func TestCursorDynamicSlots(t *testing.T) {
	// frame block, params, then one aligned slot per cube
	c := NewCursor(256*12, WithAlignment(256))
	_, err := c.Push(make([]byte, 128))
	require.NoError(t, err)
	_, err = c.PushAligned(make([]byte, 16))
	require.NoError(t, err)

	var offsets []uint64
	for range 10 {
		off, err := c.PushAligned(make([]byte, 64))
		require.NoError(t, err)
		offsets = append(offsets, off)
	}
	for i, off := range offsets {
		assert.Equal(t, uint64(256*(i+2)), off)
		assert.Zero(t, off%256)
	}
}

func sceneParamsBlock() shader.UniformBlock {
	return shader.UniformBlock{
		TypeName: "SceneParams",
		Size:     96,
		Fields: map[string]shader.FieldLayout{
			"mix_ratio":     {Offset: 0, Size: 4, TypeName: "f32"},
			"frame":         {Offset: 4, Size: 4, TypeName: "i32"},
			"texture_count": {Offset: 8, Size: 4, TypeName: "u32"},
			"flipped":       {Offset: 12, Size: 4, TypeName: "u32"},
			"tint":          {Offset: 16, Size: 64, TypeName: "mat4x4<f32>"},
			"broken":        {Offset: 94, Size: 4, TypeName: "f32"},
		},
	}
}

func TestParamsSetters(t *testing.T) {
	p := NewParams(sceneParamsBlock())
	require.NoError(t, p.SetFloat("mix_ratio", 0.2))
	require.NoError(t, p.SetInt("frame", -3))
	require.NoError(t, p.SetUint("texture_count", 2))
	require.NoError(t, p.SetBool("flipped", true))
	require.NoError(t, p.SetMat4("tint", mgl32.Ident4()))

	b := p.Bytes()
	require.Len(t, b, 96)
	assert.Equal(t, float32(0.2), math.Float32frombits(binary.LittleEndian.Uint32(b[0:])))
	assert.Equal(t, int32(-3), int32(binary.LittleEndian.Uint32(b[4:])))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(b[8:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[12:]))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[16:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[16+20:])))
	assert.Equal(t, "SceneParams", p.Block().TypeName)
}

func TestParamsErrors(t *testing.T) {
	p := NewParams(sceneParamsBlock())
	assert.ErrorIs(t, p.SetFloat("nope", 1), ErrUnknownField)
	assert.ErrorIs(t, p.SetInt("mix_ratio", 1), ErrFieldType)
	assert.ErrorIs(t, p.SetMat4("mix_ratio", mgl32.Ident4()), ErrFieldType)
	assert.ErrorIs(t, p.SetFloat("broken", 1), ErrOverflow)
}
