package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// flyController is the implementation of CameraController.
// It keeps a free-flying eye position and derives the look direction from yaw and pitch.
type flyController struct {
	mu *sync.Mutex

	position mgl32.Vec3
	front    mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw        float32 // degrees, -90 looks down -Z
	pitch      float32 // degrees
	pitchLimit float32
}

// CameraController moves the camera eye. It implements the movement half of the
// input.Mover contract plus mouse look, and supplies the position and target the
// Camera builds its view matrix from.
type CameraController interface {
	// Position returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition moves the eye to an absolute position.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl32.Vec3)

	// Front returns the normalized look direction.
	//
	// Returns:
	//   - mgl32.Vec3: the unit look direction
	Front() mgl32.Vec3

	// Target returns the point one unit in front of the eye.
	//
	// Returns:
	//   - mgl32.Vec3: Position() + Front()
	Target() mgl32.Vec3

	// WorldUp returns the up vector used for strafing and the view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the world up vector
	WorldUp() mgl32.Vec3

	// Yaw returns the horizontal look angle in degrees.
	Yaw() float32

	// Pitch returns the vertical look angle in degrees.
	Pitch() float32

	// Look rotates the view by the given offsets. Pitch is clamped to the pitch limit
	// (89 degrees by default) so the view never flips over the pole.
	//
	// Parameters:
	//   - yawOffset: degrees added to yaw
	//   - pitchOffset: degrees added to pitch
	Look(yawOffset, pitchOffset float64)

	// Forward moves the eye along the look direction.
	//
	// Parameters:
	//   - speed: distance to move
	Forward(speed float32)

	// Backward moves the eye against the look direction.
	//
	// Parameters:
	//   - speed: distance to move
	Backward(speed float32)

	// Left strafes along -normalize(front x up).
	//
	// Parameters:
	//   - speed: distance to move
	Left(speed float32)

	// Right strafes along normalize(front x up).
	//
	// Parameters:
	//   - speed: distance to move
	Right(speed float32)

	// Up moves the eye along the world up vector.
	//
	// Parameters:
	//   - speed: distance to move
	Up(speed float32)

	// Down moves the eye against the world up vector.
	//
	// Parameters:
	//   - speed: distance to move
	Down(speed float32)
}

// Compile-time interface compliance check
var _ CameraController = &flyController{}

// NewCameraController creates a fly controller at (0, 0, 3) looking down -Z
// (yaw -90, pitch 0) with +Y as world up.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	fc := &flyController{
		mu:         &sync.Mutex{},
		position:   mgl32.Vec3{0, 0, 3},
		front:      mgl32.Vec3{0, 0, -1},
		worldUp:    mgl32.Vec3{0, 1, 0},
		yaw:        -90,
		pitch:      0,
		pitchLimit: 89,
	}
	for _, opt := range options {
		opt(fc)
	}
	fc.updateFront()
	return fc
}

func (fc *flyController) Position() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position
}

func (fc *flyController) SetPosition(p mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = p
}

func (fc *flyController) Front() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.front
}

func (fc *flyController) Target() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position.Add(fc.front)
}

func (fc *flyController) WorldUp() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.worldUp
}

func (fc *flyController) Yaw() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.yaw
}

func (fc *flyController) Pitch() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.pitch
}

func (fc *flyController) Look(yawOffset, pitchOffset float64) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.yaw += float32(yawOffset)
	fc.pitch = common.Clamp(fc.pitch+float32(pitchOffset), -fc.pitchLimit, fc.pitchLimit)
	fc.updateFront()
}

func (fc *flyController) Forward(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Add(fc.front.Mul(speed))
}

func (fc *flyController) Backward(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Sub(fc.front.Mul(speed))
}

func (fc *flyController) Left(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Sub(fc.strafe().Mul(speed))
}

func (fc *flyController) Right(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Add(fc.strafe().Mul(speed))
}

func (fc *flyController) Up(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Add(fc.worldUp.Mul(speed))
}

func (fc *flyController) Down(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = fc.position.Sub(fc.worldUp.Mul(speed))
}

// strafe returns the unit right vector. Caller must hold mu.
func (fc *flyController) strafe() mgl32.Vec3 {
	return fc.front.Cross(fc.worldUp).Normalize()
}

// updateFront recomputes the look direction from yaw and pitch. Caller must hold mu.
func (fc *flyController) updateFront() {
	yaw := mgl32.DegToRad(fc.yaw)
	pitch := mgl32.DegToRad(fc.pitch)
	direction := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	fc.front = direction.Normalize()
}
