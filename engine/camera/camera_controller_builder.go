package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option applied to a fly controller during construction.
type CameraControllerOption func(*flyController)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - x, y, z: eye position components
//
// Returns:
//   - CameraControllerOption: a function that sets the eye position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.position = mgl32.Vec3{x, y, z}
	}
}

// WithYawPitch sets the initial look angles in degrees. Pitch is clamped on construction.
//
// Parameters:
//   - yaw: horizontal angle, -90 looks down -Z
//   - pitch: vertical angle
//
// Returns:
//   - CameraControllerOption: a function that sets the look angles
func WithYawPitch(yaw, pitch float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.yaw = yaw
		fc.pitch = math32.Max(-fc.pitchLimit, math32.Min(pitch, fc.pitchLimit))
	}
}

// WithWorldUp sets the world up vector. Zero vectors are ignored.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraControllerOption: a function that sets the world up vector
func WithWorldUp(x, y, z float32) CameraControllerOption {
	return func(fc *flyController) {
		up := mgl32.Vec3{x, y, z}
		if up.Len() == 0 {
			return
		}
		fc.worldUp = up.Normalize()
	}
}

// WithPitchLimit sets the absolute pitch bound in degrees. Values outside (0, 90) are ignored.
//
// Parameters:
//   - limit: the maximum absolute pitch
//
// Returns:
//   - CameraControllerOption: a function that sets the pitch limit
func WithPitchLimit(limit float32) CameraControllerOption {
	return func(fc *flyController) {
		if limit > 0 && limit < 90 {
			fc.pitchLimit = limit
		}
	}
}
