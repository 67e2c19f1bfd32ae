package buffer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexLayoutBuilder(t *testing.T) {
	layout, err := NewVertexLayoutBuilder().
		Attribute(3, AttributeFloat32).
		Attribute(2, AttributeFloat32).
		Build()
	require.NoError(t, err)

	assert.Equal(t, uint64(20), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, layout.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, layout.Attributes[1])
}

func TestVertexLayoutBuilderStride(t *testing.T) {
	layout, err := NewVertexLayoutBuilder().Attribute(3, AttributeFloat32).Stride(32).Build()
	require.NoError(t, err)
	assert.Equal(t, uint64(32), layout.ArrayStride)

	layout, err = NewVertexLayoutBuilder().Attribute(1, AttributeUint32).Attribute(4, AttributeSint32).Build()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexFormatUint32, layout.Attributes[0].Format)
	assert.Equal(t, wgpu.VertexFormatSint32x4, layout.Attributes[1].Format)
}

func TestVertexLayoutBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder VertexLayoutBuilder
		want    error
	}{
		{"empty", NewVertexLayoutBuilder(), ErrNoAttributes},
		{"zero components", NewVertexLayoutBuilder().Attribute(0, AttributeFloat32), ErrComponentCount},
		{"five components", NewVertexLayoutBuilder().Attribute(5, AttributeFloat32), ErrComponentCount},
		{"unknown kind", NewVertexLayoutBuilder().Attribute(2, AttributeKind(9)), ErrUnknownAttributeKind},
		{"stride too small", NewVertexLayoutBuilder().Attribute(3, AttributeFloat32).Stride(8), ErrStrideTooSmall},
		{"stride misaligned", NewVertexLayoutBuilder().Attribute(3, AttributeFloat32).Stride(14), ErrStrideMisaligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCubeLayout(t *testing.T) {
	layout := CubeLayout()
	assert.Equal(t, uint64(FloatsPerVertex*4), layout.ArrayStride)
	assert.Contains(t, GPUVertexInputSource, "@location(1) uv: vec2<f32>")
}

func TestPackShared(t *testing.T) {
	vertices := []float32{
		0, 0, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 1, 0, 0, 1,
	}
	indices := []uint32{0, 1, 2}

	mesh, err := PackShared(vertices, indices, WithVertexAlignment(16))
	require.NoError(t, err)

	assert.Equal(t, uint64(0), mesh.IndexOffset)
	assert.Equal(t, uint64(12), mesh.IndexSize)
	assert.Equal(t, uint32(3), mesh.IndexCount)
	assert.Equal(t, uint64(16), mesh.VertexOffset)
	assert.Equal(t, uint64(60), mesh.VertexSize)
	assert.Equal(t, uint32(3), mesh.VertexCount)
	require.Len(t, mesh.Data, 76)

	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(mesh.Data[8:]))
	// second vertex x
	x := math.Float32frombits(binary.LittleEndian.Uint32(mesh.Data[mesh.VertexOffset+20:]))
	assert.Equal(t, float32(1), x)
}

func TestPackSharedDefaultAlignment(t *testing.T) {
	mesh, err := PackShared([]float32{1, 2}, []uint32{0, 1, 0}, WithVertexStride(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(12), mesh.VertexOffset)
	assert.Equal(t, uint32(2), mesh.VertexCount)
}

func TestPackSharedErrors(t *testing.T) {
	_, err := PackShared(nil, []uint32{0})
	assert.ErrorIs(t, err, ErrEmptyVertices)

	_, err = PackShared([]float32{0, 0, 0, 0, 0}, nil)
	assert.ErrorIs(t, err, ErrEmptyIndices)

	_, err = PackShared([]float32{0, 0, 0, 0}, []uint32{0})
	assert.ErrorIs(t, err, ErrVertexStride)

	_, err = PackShared([]float32{0, 0, 0, 0, 0}, []uint32{0, 1})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
