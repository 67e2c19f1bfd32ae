package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: lookAt(position, position + front, up)
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection with WebGPU [0, 1] depth.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns Projection * View.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the culling frustum of the current view-projection.
	//
	// Returns:
	//   - common.Frustum: the six normalized planes
	Frustum() common.Frustum

	// FrameUniform returns the per-frame GPU block built from the current matrices.
	//
	// Returns:
	//   - GPUFrameUniform: the projection and view matrices
	FrameUniform() GPUFrameUniform

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// Update reads position/target from the controller and recomputes matrices.
	// Should be called once per frame after input has been applied.
	Update()

	// SetFov sets the vertical field of view in degrees and recomputes matrices.
	// Values outside (0, 180) are ignored.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes matrices. Non-positive, NaN and
	// infinite values are ignored, which keeps the last good projection while the
	// framebuffer is zero-sized (minimized window).
	//
	// Parameters:
	//   - aspect: the aspect ratio to set
	SetAspect(aspect float32)

	// SetController replaces the attached controller.
	//
	// Parameters:
	//   - ctrl: the new controller, ignored if nil
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 45 degree field of view, a 0.1 to 100 depth
// range and a default fly controller, then applies the options.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		fov:        45,
		aspect:     1280.0 / 720.0,
		near:       0.1,
		far:        100,
		controller: NewCameraController(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

func (c *cameraImpl) FrameUniform() GPUFrameUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUFrameUniform{
		Projection: c.projectionMatrix,
		View:       c.viewMatrix,
	}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fov <= 0 || fov >= 180 {
		return
	}
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !validAspect(aspect) {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctrl == nil {
		return
	}
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices rebuilds view, projection and their product. Caller must hold mu.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.controller.WorldUp())
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

func validAspect(aspect float32) bool {
	a := float64(aspect)
	return a > 0 && !math.IsNaN(a) && !math.IsInf(a, 0)
}
