package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ input.Mover = NewCameraController()

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestControllerDefaults(t *testing.T) {
	fc := NewCameraController()

	assertVec3(t, mgl32.Vec3{0, 0, 3}, fc.Position())
	assertVec3(t, mgl32.Vec3{0, 0, -1}, fc.Front())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, fc.WorldUp())
	assert.Equal(t, float32(-90), fc.Yaw())
	assert.Equal(t, float32(0), fc.Pitch())
}

func TestControllerMovement(t *testing.T) {
	fc := NewCameraController()

	fc.Forward(1)
	assertVec3(t, mgl32.Vec3{0, 0, 2}, fc.Position())

	fc.Backward(2)
	assertVec3(t, mgl32.Vec3{0, 0, 4}, fc.Position())

	fc.Right(1)
	assertVec3(t, mgl32.Vec3{1, 0, 4}, fc.Position())

	fc.Left(2)
	assertVec3(t, mgl32.Vec3{-1, 0, 4}, fc.Position())

	fc.Up(0.5)
	fc.Down(0.25)
	assertVec3(t, mgl32.Vec3{-1, 0.25, 4}, fc.Position())
}

func TestControllerLookClampsPitch(t *testing.T) {
	fc := NewCameraController()

	fc.Look(0, 120)
	assert.Equal(t, float32(89), fc.Pitch())

	fc.Look(0, -500)
	assert.Equal(t, float32(-89), fc.Pitch())
}

func TestControllerLookDirection(t *testing.T) {
	fc := NewCameraController()

	fc.Look(90, 0)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, fc.Front())

	fc.Look(0, 45)
	s := float32(math.Sqrt2 / 2)
	assertVec3(t, mgl32.Vec3{s, s, 0}, fc.Front())
	assert.InDelta(t, 1, fc.Front().Len(), 1e-5)
}

func TestControllerOptions(t *testing.T) {
	fc := NewCameraController(
		WithPosition(1, 2, 3),
		WithYawPitch(0, 10),
		WithWorldUp(0, 2, 0),
		WithPitchLimit(95),
	)
	assertVec3(t, mgl32.Vec3{1, 2, 3}, fc.Position())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, fc.WorldUp())
	assert.Equal(t, float32(10), fc.Pitch())
	assertVec3(t, mgl32.Vec3{1, 2, 3}.Add(fc.Front()), fc.Target())
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	c := NewCamera()

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	assert.True(t, want.ApproxEqual(c.ViewMatrix()))

	c.Controller().Forward(1)
	assert.True(t, want.ApproxEqual(c.ViewMatrix()), "matrices only change on Update")

	c.Update()
	moved := mgl32.LookAtV(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	assert.True(t, moved.ApproxEqual(c.ViewMatrix()))
}

func TestCameraSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	proj := c.ProjectionMatrix()

	c.SetAspect(0)
	c.SetAspect(float32(math.NaN()))
	c.SetAspect(float32(math.Inf(1)))
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, proj, c.ProjectionMatrix())

	c.SetAspect(1)
	assert.NotEqual(t, proj, c.ProjectionMatrix())
}

func TestCameraOptions(t *testing.T) {
	c := NewCamera(WithFov(60), WithClipPlanes(1, 10), WithClipPlanes(5, 1))
	assert.Equal(t, float32(60), c.Fov())
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(10), c.Far())

	c.SetFov(200)
	assert.Equal(t, float32(60), c.Fov())
}

func TestCameraFrustumSeesOrigin(t *testing.T) {
	c := NewCamera()
	assert.True(t, c.Frustum().SphereVisible(mgl32.Vec3{}, 0.87))
	assert.False(t, c.Frustum().SphereVisible(mgl32.Vec3{0, 0, 10}, 0.87))
}

func TestFrameUniformMarshal(t *testing.T) {
	c := NewCamera()
	u := c.FrameUniform()
	buf := u.Marshal()
	require.Len(t, buf, GPUFrameUniformSize)
	assert.Equal(t, c.ProjectionMatrix(), u.Projection)
	assert.Contains(t, GPUFrameUniformSource, "struct FrameUniform")
}
