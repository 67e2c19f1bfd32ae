package input

// ControllerBuilderOption is a functional option applied to a controller during construction via NewController.
type ControllerBuilderOption func(*controller)

// WithSensitivity sets the multiplier applied to cursor deltas before they become look offsets.
// Non-positive values are ignored.
//
// Parameters:
//   - sensitivity: degrees of rotation per screen unit of cursor travel
//
// Returns:
//   - ControllerBuilderOption: a function that applies the sensitivity option to a controller
func WithSensitivity(sensitivity float64) ControllerBuilderOption {
	return func(c *controller) {
		if sensitivity > 0 {
			c.sensitivity = sensitivity
		}
	}
}

// WithCursorOrigin sets the initial cursor reference position the first delta is measured from.
//
// Parameters:
//   - x: the initial reference X
//   - y: the initial reference Y
//
// Returns:
//   - ControllerBuilderOption: a function that applies the cursor origin option to a controller
func WithCursorOrigin(x, y float64) ControllerBuilderOption {
	return func(c *controller) {
		c.originX = x
		c.originY = y
	}
}

// WithResetOnFirstMove makes the first cursor event after construction or Reset produce a zero
// offset, avoiding a jump when the cursor enters the window far from the origin.
//
// Parameters:
//   - enabled: true to discard the first delta
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithResetOnFirstMove(enabled bool) ControllerBuilderOption {
	return func(c *controller) {
		c.resetOnFirstMove = enabled
	}
}

// WithVerticalMovement tracks Space and Left Shift as up and down movement keys.
//
// Parameters:
//   - enabled: true to enable vertical movement keys
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithVerticalMovement(enabled bool) ControllerBuilderOption {
	return func(c *controller) {
		c.vertical = enabled
	}
}
