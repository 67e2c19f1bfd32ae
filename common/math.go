package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DepthZeroToOne remaps clip-space depth from the OpenGL convention [-1, 1] to the
// WebGPU convention [0, 1]: z' = 0.5*z + 0.5*w. Column-major.
//
// Reference: https://www.w3.org/TR/webgpu/#coordinate-systems
var DepthZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective builds a right-handed perspective projection for WebGPU clip space.
//
// Parameters:
//   - fovYDeg: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix with depth in [0, 1]
func Perspective(fovYDeg, aspect, near, far float32) mgl32.Mat4 {
	return DepthZeroToOne.Mul4(mgl32.Perspective(mgl32.DegToRad(fovYDeg), aspect, near, far))
}
