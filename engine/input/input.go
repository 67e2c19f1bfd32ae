package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
)

// Intent is a window-level request produced by a key event, returned from HandleKey so
// the engine can act on it without the controller knowing about the window.
type Intent int

const (
	// IntentNone means the key event only changed held-key state, or was ignored.
	IntentNone Intent = iota

	// IntentQuit asks the engine to close the window.
	IntentQuit

	// IntentToggleCursor asks the engine to capture or release the mouse cursor.
	IntentToggleCursor

	// IntentReload asks the engine to rebuild shaders from their source.
	IntentReload
)

// Mover is anything that can be translated by held movement keys. The fly camera implements it.
type Mover interface {
	Forward(speed float32)
	Backward(speed float32)
	Left(speed float32)
	Right(speed float32)
	Up(speed float32)
	Down(speed float32)
}

// controller is the implementation of the Controller interface.
type controller struct {
	mu *sync.Mutex

	pressed map[common.Key]struct{}

	sensitivity float64
	lastX       float64
	lastY       float64
	originX     float64
	originY     float64

	resetOnFirstMove bool
	moved            bool
	vertical         bool
}

// Controller tracks held movement keys and the last cursor position, turning raw window
// events into camera motion. It holds no reference to the window or camera.
type Controller interface {
	// HandleKey records a key transition. Escape with any action yields IntentQuit.
	// W, A, S and D are added to the held set on press or repeat and removed on release.
	// With vertical movement enabled, Space and Left Shift are tracked the same way.
	// Tab and R yield IntentToggleCursor and IntentReload on press. Other keys are ignored.
	//
	// Parameters:
	//   - key: the key that changed
	//   - action: the transition that occurred
	//
	// Returns:
	//   - Intent: the window-level request triggered by the event, if any
	HandleKey(key common.Key, action common.KeyAction) Intent

	// HandleCursor converts an absolute cursor position into look offsets scaled by the
	// sensitivity. The vertical offset is inverted because window Y grows downward.
	// The position is stored as the reference for the next event.
	//
	// Parameters:
	//   - x: the cursor X position in screen coordinates
	//   - y: the cursor Y position in screen coordinates
	//
	// Returns:
	//   - float64: the yaw offset in degrees
	//   - float64: the pitch offset in degrees
	HandleCursor(x, y float64) (float64, float64)

	// Apply moves the Mover once for every held movement key.
	//
	// Parameters:
	//   - m: the target to move
	//   - speed: the distance to move this frame, typically delta seconds times units per second
	Apply(m Mover, speed float32)

	// Pressed reports whether the key is currently held.
	//
	// Parameters:
	//   - key: the key to check
	//
	// Returns:
	//   - bool: true if the key is in the held set
	Pressed(key common.Key) bool

	// Reset clears the held set and restores the cursor reference to its origin.
	Reset()
}

var _ Controller = &controller{}

// NewController creates a Controller with the supplied options applied.
// The cursor reference starts at (400, 300) and the sensitivity at 0.1.
//
// Parameters:
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:          &sync.Mutex{},
		pressed:     make(map[common.Key]struct{}),
		sensitivity: 0.1,
		originX:     400,
		originY:     300,
	}
	for _, opt := range options {
		opt(c)
	}
	c.lastX, c.lastY = c.originX, c.originY
	return c
}

func (c *controller) HandleKey(key common.Key, action common.KeyAction) Intent {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == common.KeyEsc {
		return IntentQuit
	}
	if c.isMovementKey(key) {
		switch action {
		case common.KeyRelease:
			delete(c.pressed, key)
		case common.KeyPress, common.KeyRepeat:
			c.pressed[key] = struct{}{}
		}
		return IntentNone
	}
	if action != common.KeyPress {
		return IntentNone
	}
	switch key {
	case common.KeyTab:
		return IntentToggleCursor
	case common.KeyR:
		return IntentReload
	}
	return IntentNone
}

func (c *controller) HandleCursor(x, y float64) (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resetOnFirstMove && !c.moved {
		c.lastX, c.lastY = x, y
	}
	c.moved = true

	xOffset := c.sensitivity * (x - c.lastX)
	yOffset := -(c.sensitivity * (y - c.lastY))
	c.lastX, c.lastY = x, y
	return xOffset, yOffset
}

func (c *controller) Apply(m Mover, speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pressed[common.KeyW]; ok {
		m.Forward(speed)
	}
	if _, ok := c.pressed[common.KeyS]; ok {
		m.Backward(speed)
	}
	if _, ok := c.pressed[common.KeyA]; ok {
		m.Left(speed)
	}
	if _, ok := c.pressed[common.KeyD]; ok {
		m.Right(speed)
	}
	if _, ok := c.pressed[common.KeySpace]; ok {
		m.Up(speed)
	}
	if _, ok := c.pressed[common.KeyLeftShift]; ok {
		m.Down(speed)
	}
}

func (c *controller) Pressed(key common.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.pressed[key]
	return ok
}

func (c *controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.pressed)
	c.lastX, c.lastY = c.originX, c.originY
	c.moved = false
}

func (c *controller) isMovementKey(key common.Key) bool {
	switch key {
	case common.KeyW, common.KeyA, common.KeyS, common.KeyD:
		return true
	case common.KeySpace, common.KeyLeftShift:
		return c.vertical
	}
	return false
}
