package uniform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
)

// Cursor errors.
var (
	ErrOverflow  = errors.New("uniform write would exceed buffer capacity")
	ErrUnderflow = errors.New("uniform rewind past start of buffer")
)

// DefaultAlignment is the WebGPU default for minUniformBufferOffsetAlignment.
const DefaultAlignment = 256

// BufferWriter uploads bytes into a GPU buffer at a byte offset.
type BufferWriter interface {
	WriteBuffer(offset uint64, data []byte) error
}

type cursorImpl struct {
	mu *sync.Mutex

	staging   []byte
	offset    uint64
	highWater uint64
	alignment uint64
}

// Cursor stages uniform data for one GPU buffer and tracks the next free byte offset.
// Writes never exceed the capacity given at construction: a push that would cross it
// fails with ErrOverflow and leaves the cursor untouched. The cursor is reset once per
// frame and flushed to the GPU before the frame's commands are submitted.
type Cursor interface {
	// Push copies data at the current offset and advances by len(data).
	//
	// Parameters:
	//   - data: bytes to stage
	//
	// Returns:
	//   - uint64: the offset the data was written at
	//   - error: ErrOverflow if offset + len(data) exceeds the capacity
	Push(data []byte) (uint64, error)

	// PushAligned rounds the offset up to the alignment, then pushes. Use it for blocks
	// addressed by dynamic offsets.
	//
	// Parameters:
	//   - data: bytes to stage
	//
	// Returns:
	//   - uint64: the aligned offset the data was written at
	//   - error: ErrOverflow if the aligned write exceeds the capacity
	PushAligned(data []byte) (uint64, error)

	// Align rounds the offset up to the next multiple of the alignment.
	//
	// Returns:
	//   - error: ErrOverflow if the aligned offset exceeds the capacity
	Align() error

	// Rewind moves the offset back by n bytes, undoing the last push of that size.
	//
	// Parameters:
	//   - n: bytes to rewind
	//
	// Returns:
	//   - error: ErrUnderflow if n is larger than the current offset
	Rewind(n uint64) error

	// Reset sets the offset and the flush range back to zero.
	Reset()

	// Flush uploads the staged range [0, high water mark) through w.
	//
	// Parameters:
	//   - w: the destination buffer writer
	//
	// Returns:
	//   - error: the writer's error, wrapped
	Flush(w BufferWriter) error

	// Offset returns the next write offset.
	Offset() uint64

	// Capacity returns the fixed staging size in bytes.
	Capacity() uint64

	// Alignment returns the slot alignment used by Align and PushAligned.
	Alignment() uint64

	// Bytes returns a copy of the staged range [0, high water mark).
	Bytes() []byte
}

var _ Cursor = &cursorImpl{}

// NewCursor creates a Cursor over capacity bytes of CPU staging memory.
//
// Parameters:
//   - capacity: size of the GPU buffer the cursor feeds
//   - options: WithAlignment
//
// Returns:
//   - Cursor: the new cursor at offset 0
func NewCursor(capacity uint64, options ...CursorBuilderOption) Cursor {
	c := &cursorImpl{
		mu:        &sync.Mutex{},
		staging:   make([]byte, capacity),
		alignment: DefaultAlignment,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cursorImpl) Push(data []byte) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.push(c.offset, data)
}

func (c *cursorImpl) PushAligned(data []byte) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.push(common.AlignUp(c.offset, c.alignment), data)
}

func (c *cursorImpl) Align() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	aligned := common.AlignUp(c.offset, c.alignment)
	if aligned > uint64(len(c.staging)) {
		return fmt.Errorf("%w: align to %d, capacity %d", ErrOverflow, aligned, len(c.staging))
	}
	c.offset = aligned
	return nil
}

func (c *cursorImpl) Rewind(n uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > c.offset {
		return fmt.Errorf("%w: rewind %d at offset %d", ErrUnderflow, n, c.offset)
	}
	c.offset -= n
	if c.highWater > c.offset {
		c.highWater = c.offset
	}
	return nil
}

func (c *cursorImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
	c.highWater = 0
}

func (c *cursorImpl) Flush(w BufferWriter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.highWater == 0 {
		return nil
	}
	if err := w.WriteBuffer(0, c.staging[:c.highWater]); err != nil {
		return fmt.Errorf("flush uniform staging: %w", err)
	}
	return nil
}

func (c *cursorImpl) Offset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

func (c *cursorImpl) Capacity() uint64 {
	return uint64(len(c.staging))
}

func (c *cursorImpl) Alignment() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alignment
}

func (c *cursorImpl) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.highWater)
	copy(out, c.staging[:c.highWater])
	return out
}

// push writes data at start. Caller must hold mu.
func (c *cursorImpl) push(start uint64, data []byte) (uint64, error) {
	end := start + uint64(len(data))
	if end > uint64(len(c.staging)) {
		return 0, fmt.Errorf("%w: write [%d, %d), capacity %d", ErrOverflow, start, end, len(c.staging))
	}
	copy(c.staging[start:end], data)
	c.offset = end
	if end > c.highWater {
		c.highWater = end
	}
	return start, nil
}
