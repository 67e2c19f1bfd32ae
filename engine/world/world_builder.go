package world

import "github.com/go-gl/mathgl/mgl32"

// WorldBuilderOption is a functional option applied to a world during construction via NewWorld.
type WorldBuilderOption func(*worldImpl)

// WithAxis sets the shared rotation axis. It is normalized; zero vectors are ignored.
//
// Parameters:
//   - axis: the rotation axis
//
// Returns:
//   - WorldBuilderOption: a function that sets the rotation axis
func WithAxis(axis mgl32.Vec3) WorldBuilderOption {
	return func(w *worldImpl) {
		if axis.Len() > 0 {
			w.axis = axis.Normalize()
		}
	}
}

// WithAngleStep sets the rotation added per cube index, in degrees.
//
// Parameters:
//   - degrees: the angle step
//
// Returns:
//   - WorldBuilderOption: a function that sets the angle step
func WithAngleStep(degrees float32) WorldBuilderOption {
	return func(w *worldImpl) {
		w.angleStep = degrees
	}
}
