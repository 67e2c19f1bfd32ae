package buffer

import _ "embed"

// GPUVertexInputSource is the canonical WGSL definition of the VertexInput struct.
// Matches the interleaved layout produced by CubeLayout (position vec3, uv vec2; 20 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexInputSource string

// FloatsPerVertex is the number of float32 values in one interleaved position+uv vertex.
const FloatsPerVertex = 5
