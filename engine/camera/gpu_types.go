package camera

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (128 bytes).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniformSize is the byte size of the FrameUniform struct.
const GPUFrameUniformSize = 128

// GPUFrameUniform is the per-frame block shared by every draw: the projection and view
// matrices, written once at the start of the uniform buffer each frame.
type GPUFrameUniform struct {
	Projection mgl32.Mat4 // offset  0: mat4x4<f32>
	View       mgl32.Mat4 // offset 64: mat4x4<f32>
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized 128-byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, 0, GPUFrameUniformSize)
	buf = append(buf, common.Mat4ToBytes(g.Projection)...)
	buf = append(buf, common.Mat4ToBytes(g.View)...)
	return buf
}
