package uniform

// CursorBuilderOption is a functional option applied to a cursor during construction via NewCursor.
type CursorBuilderOption func(*cursorImpl)

// WithAlignment sets the slot alignment, normally the device's
// MinUniformBufferOffsetAlignment. Zero is ignored.
//
// Parameters:
//   - alignment: the alignment in bytes
//
// Returns:
//   - CursorBuilderOption: a function that sets the alignment
func WithAlignment(alignment uint64) CursorBuilderOption {
	return func(c *cursorImpl) {
		if alignment > 0 {
			c.alignment = alignment
		}
	}
}
