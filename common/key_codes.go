package common

// Key is a platform-independent key code. The values match GLFW key codes, which use
// ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeyW     Key = 87  // W key (ASCII)
	KeyA     Key = 65  // A key (ASCII)
	KeyS     Key = 83  // S key (ASCII)
	KeyD     Key = 68  // D key (ASCII)
	KeyR     Key = 82  // R key (ASCII)
	KeySpace Key = 32  // Spacebar (ASCII)
	KeyEsc   Key = 256 // Escape key (GLFW)
	KeyTab   Key = 258 // Tab key (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  Key = 340 // Left Shift (GLFW)
	KeyRightShift Key = 344 // Right Shift (GLFW)
)

// KeyAction is the transition reported for a key event.
type KeyAction int

const (
	// KeyPress is reported once when a key goes down.
	KeyPress KeyAction = iota

	// KeyRepeat is reported while a key is held, at the OS repeat rate.
	KeyRepeat

	// KeyRelease is reported once when a key goes up.
	KeyRelease
)
