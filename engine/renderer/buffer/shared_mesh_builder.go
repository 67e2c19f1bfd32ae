package buffer

// SharedMeshOption is a functional option applied to PackShared.
type SharedMeshOption func(*sharedMeshConfig)

// WithVertexStride sets the number of floats per vertex. Non-positive values are ignored.
//
// Parameters:
//   - floats: floats per interleaved vertex
//
// Returns:
//   - SharedMeshOption: a function that sets the vertex stride
func WithVertexStride(floats int) SharedMeshOption {
	return func(c *sharedMeshConfig) {
		if floats > 0 {
			c.vertexStride = floats
		}
	}
}

// WithVertexAlignment sets the byte alignment of the vertex region. Zero is ignored.
//
// Parameters:
//   - alignment: the vertex region alignment in bytes
//
// Returns:
//   - SharedMeshOption: a function that sets the vertex alignment
func WithVertexAlignment(alignment uint64) SharedMeshOption {
	return func(c *sharedMeshConfig) {
		if alignment > 0 {
			c.vertexAlignment = alignment
		}
	}
}
