package world

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type worldImpl struct {
	positions []mgl32.Vec3
	axis      mgl32.Vec3
	angleStep float32 // degrees
}

// World is the fixed set of cubes drawn each frame. Cube i sits at its position,
// rotated by angleStep*i degrees about a shared axis.
type World interface {
	// Len returns the number of cubes.
	Len() int

	// Position returns the centre of cube i.
	//
	// Parameters:
	//   - i: the cube index
	//
	// Returns:
	//   - mgl32.Vec3: the world-space centre
	Position(i int) mgl32.Vec3

	// Model returns translate(position) * rotate(angleStep*i, axis) for cube i.
	//
	// Parameters:
	//   - i: the cube index
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	Model(i int) mgl32.Mat4

	// Models returns the model matrix of every cube in index order.
	//
	// Returns:
	//   - []mgl32.Mat4: one matrix per cube
	Models() []mgl32.Mat4
}

var _ World = &worldImpl{}

// NewWorld creates a World from cube positions. The rotation axis defaults to
// normalize(1, 0.3, 0.5) and the per-cube angle step to 20 degrees.
//
// Parameters:
//   - positions: cube centres, copied
//   - options: WithAxis, WithAngleStep
//
// Returns:
//   - World: the new world
func NewWorld(positions []mgl32.Vec3, options ...WorldBuilderOption) World {
	w := &worldImpl{
		positions: slices.Clone(positions),
		axis:      mgl32.Vec3{1.0, 0.3, 0.5}.Normalize(),
		angleStep: 20,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

func (w *worldImpl) Len() int {
	return len(w.positions)
}

func (w *worldImpl) Position(i int) mgl32.Vec3 {
	w.checkIndex(i)
	return w.positions[i]
}

func (w *worldImpl) Model(i int) mgl32.Mat4 {
	w.checkIndex(i)
	p := w.positions[i]
	angle := mgl32.DegToRad(w.angleStep * float32(i))
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.HomogRotate3D(angle, w.axis))
}

func (w *worldImpl) Models() []mgl32.Mat4 {
	models := make([]mgl32.Mat4, len(w.positions))
	for i := range w.positions {
		models[i] = w.Model(i)
	}
	return models
}

func (w *worldImpl) checkIndex(i int) {
	if i < 0 || i >= len(w.positions) {
		panic(fmt.Sprintf("world: cube index %d out of range [0, %d)", i, len(w.positions)))
	}
}
