package buffer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex layout errors.
var (
	ErrNoAttributes         = errors.New("vertex layout has no attributes")
	ErrComponentCount       = errors.New("attribute component count must be between 1 and 4")
	ErrStrideTooSmall       = errors.New("stride is smaller than the packed attribute size")
	ErrStrideMisaligned     = errors.New("stride must be a multiple of 4")
	ErrUnknownAttributeKind = errors.New("unknown attribute kind")
)

// AttributeKind is the scalar component type of a vertex attribute.
type AttributeKind int

const (
	AttributeFloat32 AttributeKind = iota
	AttributeUint32
	AttributeSint32
)

var attributeFormats = map[AttributeKind][4]wgpu.VertexFormat{
	AttributeFloat32: {wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4},
	AttributeUint32:  {wgpu.VertexFormatUint32, wgpu.VertexFormatUint32x2, wgpu.VertexFormatUint32x3, wgpu.VertexFormatUint32x4},
	AttributeSint32:  {wgpu.VertexFormatSint32, wgpu.VertexFormatSint32x2, wgpu.VertexFormatSint32x3, wgpu.VertexFormatSint32x4},
}

type pendingAttribute struct {
	components int
	kind       AttributeKind
}

type vertexLayoutBuilderImpl struct {
	attributes []pendingAttribute
	stride     uint64
}

// VertexLayoutBuilder accumulates interleaved vertex attributes in declaration order.
// Each attribute is placed at the next shader location, immediately after the previous
// attribute's bytes. All components are 4 bytes wide.
type VertexLayoutBuilder interface {
	// Attribute appends an attribute at location = number of attributes added so far.
	//
	// Parameters:
	//   - components: number of components (1 to 4)
	//   - kind: the component scalar type
	//
	// Returns:
	//   - VertexLayoutBuilder: the builder for chaining
	Attribute(components int, kind AttributeKind) VertexLayoutBuilder

	// Stride overrides the computed array stride. Zero restores the computed stride.
	//
	// Parameters:
	//   - stride: bytes between consecutive vertices
	//
	// Returns:
	//   - VertexLayoutBuilder: the builder for chaining
	Stride(stride uint64) VertexLayoutBuilder

	// Build validates the attributes and produces the wgpu vertex buffer layout.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout with per-vertex step mode
	//   - error: ErrNoAttributes, ErrComponentCount, ErrUnknownAttributeKind, ErrStrideTooSmall or ErrStrideMisaligned
	Build() (wgpu.VertexBufferLayout, error)
}

var _ VertexLayoutBuilder = &vertexLayoutBuilderImpl{}

// NewVertexLayoutBuilder creates an empty VertexLayoutBuilder.
//
// Returns:
//   - VertexLayoutBuilder: a builder with no attributes
func NewVertexLayoutBuilder() VertexLayoutBuilder {
	return &vertexLayoutBuilderImpl{}
}

// CubeLayout returns the position (vec3) + uv (vec2) layout matching VertexInput.
//
// Returns:
//   - wgpu.VertexBufferLayout: a 20-byte stride layout at locations 0 and 1
func CubeLayout() wgpu.VertexBufferLayout {
	layout, err := NewVertexLayoutBuilder().
		Attribute(3, AttributeFloat32).
		Attribute(2, AttributeFloat32).
		Build()
	if err != nil {
		panic(fmt.Sprintf("cube layout: %v", err))
	}
	return layout
}

func (b *vertexLayoutBuilderImpl) Attribute(components int, kind AttributeKind) VertexLayoutBuilder {
	b.attributes = append(b.attributes, pendingAttribute{components: components, kind: kind})
	return b
}

func (b *vertexLayoutBuilderImpl) Stride(stride uint64) VertexLayoutBuilder {
	b.stride = stride
	return b
}

func (b *vertexLayoutBuilderImpl) Build() (wgpu.VertexBufferLayout, error) {
	if len(b.attributes) == 0 {
		return wgpu.VertexBufferLayout{}, ErrNoAttributes
	}

	attrs := make([]wgpu.VertexAttribute, 0, len(b.attributes))
	var offset uint64
	for i, a := range b.attributes {
		if a.components < 1 || a.components > 4 {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("attribute %d: %w (got %d)", i, ErrComponentCount, a.components)
		}
		formats, ok := attributeFormats[a.kind]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("attribute %d: %w", i, ErrUnknownAttributeKind)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         formats[a.components-1],
			Offset:         offset,
			ShaderLocation: uint32(i),
		})
		offset += uint64(a.components) * 4
	}

	stride := offset
	if b.stride != 0 {
		if b.stride < offset {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: %d < %d", ErrStrideTooSmall, b.stride, offset)
		}
		if b.stride%4 != 0 {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: %d", ErrStrideMisaligned, b.stride)
		}
		stride = b.stride
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}
