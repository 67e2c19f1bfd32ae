package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// parsedBinding is one @group/@binding variable declaration.
type parsedBinding struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}

// FieldLayout is the placement of one member inside a uniform block.
type FieldLayout struct {
	Offset   uint64
	Size     uint64
	TypeName string
}

// UniformBlock describes a uniform buffer binding and the layout of its struct, the
// WGSL counterpart of a named uniform block with queryable member offsets.
type UniformBlock struct {
	Group    int
	Binding  int
	VarName  string
	TypeName string
	Size     uint64
	Dynamic  bool
	Fields   map[string]FieldLayout
}
