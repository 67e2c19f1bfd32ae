package world

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUModelUniformSource is the canonical WGSL definition of the ModelUniform struct.
// Matches GPUModelUniform layout exactly (64 bytes).
//
//go:embed assets/model_uniform.wgsl
var GPUModelUniformSource string

// GPUSceneParamsSource is the canonical WGSL definition of the SceneParams struct (16 bytes).
// It is written field by field through a uniform.Params bound to the parsed block layout.
//
//go:embed assets/scene_params.wgsl
var GPUSceneParamsSource string

// GPUModelUniformSize is the byte size of the ModelUniform struct.
const GPUModelUniformSize = 64

// GPUModelUniform is the per-cube block, one aligned slot per cube per frame.
type GPUModelUniform struct {
	Model mgl32.Mat4 // offset 0: mat4x4<f32>
}

// Marshal serializes the GPUModelUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized 64-byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	return common.Mat4ToBytes(g.Model)
}
