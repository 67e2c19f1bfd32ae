package uniform

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Params errors.
var (
	ErrUnknownField = errors.New("uniform block has no such field")
	ErrFieldType    = errors.New("value does not match the field type")
)

type paramsImpl struct {
	mu *sync.Mutex

	block shader.UniformBlock
	data  []byte
}

// Params writes named members of a uniform block into a CPU copy laid out exactly as the
// shader declares it. Field offsets come from the parsed block, so values are addressed by
// member name rather than by hand-computed byte offsets.
type Params interface {
	// SetFloat writes an f32 member.
	//
	// Parameters:
	//   - name: the member name
	//   - v: the value
	//
	// Returns:
	//   - error: ErrUnknownField or ErrFieldType
	SetFloat(name string, v float32) error

	// SetInt writes an i32 member.
	SetInt(name string, v int32) error

	// SetUint writes a u32 member.
	SetUint(name string, v uint32) error

	// SetBool writes a u32 member as 0 or 1. WGSL bool is not host-shareable, so boolean
	// flags are declared u32 in uniform structs.
	SetBool(name string, v bool) error

	// SetMat4 writes a mat4x4<f32> member in column-major order.
	SetMat4(name string, m mgl32.Mat4) error

	// Block returns the layout the params were built from.
	Block() shader.UniformBlock

	// Bytes returns a copy of the block data.
	Bytes() []byte
}

var _ Params = &paramsImpl{}

// NewParams creates zeroed Params for a uniform block.
//
// Parameters:
//   - block: the block layout, usually from Shader.UniformBlock
//
// Returns:
//   - Params: the params with Size() zero bytes
func NewParams(block shader.UniformBlock) Params {
	return &paramsImpl{
		mu:    &sync.Mutex{},
		block: block,
		data:  make([]byte, block.Size),
	}
}

func (p *paramsImpl) SetFloat(name string, v float32) error {
	return p.put32(name, math.Float32bits(v), "f32")
}

func (p *paramsImpl) SetInt(name string, v int32) error {
	return p.put32(name, uint32(v), "i32")
}

func (p *paramsImpl) SetUint(name string, v uint32) error {
	return p.put32(name, v, "u32")
}

func (p *paramsImpl) SetBool(name string, v bool) error {
	var u uint32
	if v {
		u = 1
	}
	return p.put32(name, u, "u32")
}

func (p *paramsImpl) SetMat4(name string, m mgl32.Mat4) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.field(name, "mat4x4<f32>", "mat4x4f")
	if err != nil {
		return err
	}
	copy(p.data[f.Offset:f.Offset+f.Size], common.Mat4ToBytes(m))
	return nil
}

func (p *paramsImpl) Block() shader.UniformBlock {
	return p.block
}

func (p *paramsImpl) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.data)
}

func (p *paramsImpl) put32(name string, bits uint32, typeName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.field(name, typeName)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p.data[f.Offset:], bits)
	return nil
}

// field looks up a member and checks its type. Caller must hold mu.
func (p *paramsImpl) field(name string, typeNames ...string) (shader.FieldLayout, error) {
	f, ok := p.block.Fields[name]
	if !ok {
		return shader.FieldLayout{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, p.block.TypeName, name)
	}
	if !slices.Contains(typeNames, f.TypeName) {
		return shader.FieldLayout{}, fmt.Errorf("%w: %s.%s is %s, not %s", ErrFieldType, p.block.TypeName, name, f.TypeName, typeNames[0])
	}
	if f.Offset+f.Size > uint64(len(p.data)) {
		return shader.FieldLayout{}, fmt.Errorf("%w: %s.%s lies outside the %d-byte block", ErrOverflow, p.block.TypeName, name, len(p.data))
	}
	return f, nil
}
