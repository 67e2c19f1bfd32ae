package world

import "github.com/go-gl/mathgl/mgl32"

// CubeVertices is a unit cube centred on the origin as 16 interleaved vertices of
// position (xyz) and texture coordinate (uv). Faces share corners where their uvs agree.
var CubeVertices = []float32{
	0.5, 0.5, -0.5, 1.0, 1.0,
	0.5, -0.5, -0.5, 1.0, 0.0,
	-0.5, -0.5, -0.5, 0.0, 0.0,
	-0.5, 0.5, -0.5, 0.0, 1.0,

	-0.5, 0.5, 0.5, 1.0, 0.0,
	-0.5, 0.5, -0.5, 1.0, 1.0,
	-0.5, -0.5, -0.5, 0.0, 1.0,
	-0.5, -0.5, 0.5, 0.0, 0.0,

	0.5, -0.5, 0.5, 1.0, 0.0,
	0.5, 0.5, 0.5, 1.0, 1.0,
	-0.5, 0.5, 0.5, 0.0, 1.0,

	0.5, 0.5, 0.5, 1.0, 0.0,
	0.5, -0.5, -0.5, 0.0, 1.0,
	0.5, -0.5, 0.5, 0.0, 0.0,

	0.5, -0.5, -0.5, 1.0, 1.0,
	-0.5, 0.5, 0.5, 0.0, 0.0,
}

// CubeIndices draws the 12 triangles of the cube from CubeVertices.
var CubeIndices = []uint32{
	0, 1, 3, 1, 2, 3, // back
	4, 5, 6, 6, 7, 4, // left
	7, 8, 9, 9, 10, 7, // front
	11, 0, 12, 12, 13, 11, // right
	6, 14, 8, 8, 7, 6, // bottom
	3, 0, 11, 11, 15, 3, // top
}

// CubeBoundingRadius is the radius of the sphere enclosing a unit cube.
const CubeBoundingRadius = 0.8660254

// DefaultPositions are the world-space centres of the ten cubes.
var DefaultPositions = []mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}
