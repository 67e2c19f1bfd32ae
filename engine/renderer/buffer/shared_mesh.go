package buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cubes/common"
)

// Shared mesh errors.
var (
	ErrEmptyVertices   = errors.New("mesh has no vertices")
	ErrEmptyIndices    = errors.New("mesh has no indices")
	ErrVertexStride    = errors.New("vertex data length is not a multiple of the vertex stride")
	ErrIndexOutOfRange = errors.New("index refers past the last vertex")
)

type sharedMeshConfig struct {
	vertexStride    int
	vertexAlignment uint64
}

// SharedMesh is an index array and an interleaved vertex array packed into one byte
// slice: indices first, then vertices starting at an aligned offset. The renderer
// uploads Data to a single GPU buffer and binds the two regions by offset.
type SharedMesh struct {
	Data []byte

	IndexOffset uint64
	IndexSize   uint64
	IndexCount  uint32

	VertexOffset uint64
	VertexSize   uint64
	VertexCount  uint32
}

// PackShared packs uint32 indices and float32 vertices into a SharedMesh.
//
// Parameters:
//   - vertices: interleaved vertex floats
//   - indices: triangle list indices into the vertex array
//   - options: WithVertexStride, WithVertexAlignment
//
// Returns:
//   - SharedMesh: the packed mesh
//   - error: ErrEmptyVertices, ErrEmptyIndices, ErrVertexStride or ErrIndexOutOfRange
func PackShared(vertices []float32, indices []uint32, options ...SharedMeshOption) (SharedMesh, error) {
	cfg := &sharedMeshConfig{
		vertexStride:    FloatsPerVertex,
		vertexAlignment: 4,
	}
	for _, option := range options {
		option(cfg)
	}

	if len(vertices) == 0 {
		return SharedMesh{}, ErrEmptyVertices
	}
	if len(indices) == 0 {
		return SharedMesh{}, ErrEmptyIndices
	}
	if len(vertices)%cfg.vertexStride != 0 {
		return SharedMesh{}, fmt.Errorf("%w: %d floats, stride %d", ErrVertexStride, len(vertices), cfg.vertexStride)
	}

	vertexCount := uint32(len(vertices) / cfg.vertexStride)
	for i, idx := range indices {
		if idx >= vertexCount {
			return SharedMesh{}, fmt.Errorf("%w: indices[%d] = %d, vertex count %d", ErrIndexOutOfRange, i, idx, vertexCount)
		}
	}

	indexBytes := common.Uint32sToBytes(indices)
	vertexBytes := common.Float32sToBytes(vertices)

	indexSize := uint64(len(indexBytes))
	vertexOffset := common.AlignUp(indexSize, cfg.vertexAlignment)
	vertexSize := uint64(len(vertexBytes))

	data := make([]byte, vertexOffset+vertexSize)
	copy(data, indexBytes)
	copy(data[vertexOffset:], vertexBytes)

	return SharedMesh{
		Data:         data,
		IndexOffset:  0,
		IndexSize:    indexSize,
		IndexCount:   uint32(len(indices)),
		VertexOffset: vertexOffset,
		VertexSize:   vertexSize,
		VertexCount:  vertexCount,
	}, nil
}
