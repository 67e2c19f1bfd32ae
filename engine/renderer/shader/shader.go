package shader

import (
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	path                       string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	uniformBlocks              []UniformBlock
	declarations               []Annotation
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a loaded and parsed WGSL shader. It exposes the shader's
// unique key, source code, entry point, bind group layout descriptors, vertex buffer layouts,
// uniform block layouts and pre-processor declarations needed for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Path returns the file the shader was loaded from, or an empty string for in-memory sources.
	//
	// Returns:
	//   - string: the source file path
	Path() string

	// Source retrieves the pre-processed WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index for a given group and variable name.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayout retrieves the vertex buffer layout for a specific key.
	//
	// Parameters:
	//   - key: the integer key identifying the vertex layout
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layout, or nil if not set
	VertexLayout(key int) []wgpu.VertexBufferLayout

	// VertexLayouts retrieves all vertex buffer layouts parsed from a vertex shader.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by sequential index
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// UniformBlock looks up a uniform buffer binding by its struct type name or variable name.
	//
	// Parameters:
	//   - name: a struct type name (e.g. "SceneParams") or variable name (e.g. "params")
	//
	// Returns:
	//   - UniformBlock: the binding location, size and member layout
	//   - bool: false if no uniform binding matches
	UniformBlock(name string) (UniformBlock, bool)

	// UniformBlocks returns every uniform buffer binding in declaration order.
	//
	// Returns:
	//   - []UniformBlock: all uniform blocks
	UniformBlocks() []UniformBlock

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor built from the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the group and provider annotations parsed from the shader source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses WGSL source for one stage. Failures are logged with
// their diagnostic and returned as a *CompileError.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the source is compiled for
//   - source: the WGSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: a *CompileError if the source cannot be compiled
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	if err := s.compile(source); err != nil {
		return nil, err
	}
	return s, nil
}

// NewShaderFromFile reads WGSL source from path and compiles it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the source is compiled for
//   - path: the WGSL file to read
//
// Returns:
//   - Shader: the parsed shader
//   - error: a read error or a *CompileError
func NewShaderFromFile(key string, shaderType ShaderType, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shader %q: %w", path, err)
	}
	s, err := NewShader(key, shaderType, string(data))
	if err != nil {
		return nil, err
	}
	s.(*shader).path = path
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayout(key int) []wgpu.VertexBufferLayout {
	return s.vertexLayouts[key]
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) UniformBlock(name string) (UniformBlock, bool) {
	for _, b := range s.uniformBlocks {
		if b.TypeName == name || b.VarName == name {
			return b, true
		}
	}
	return UniformBlock{}, false
}

func (s *shader) UniformBlocks() []UniformBlock {
	return s.uniformBlocks
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// compile runs the pre-processor, then extracts the entry point, vertex layouts, bind group
// layouts and uniform block layouts from the processed source.
func (s *shader) compile(raw string) error {
	pp := NewPreProcessor()
	source, err := pp.Process(raw)
	if err != nil {
		return s.fail(err.Error(), err)
	}
	s.source = source
	s.declarations = slices.Clone(pp.Declarations())

	s.entryPoint = parseEntryPoint(source, s.shaderType)
	if s.entryPoint == "" {
		return s.fail(fmt.Sprintf("no @%s function found", s.shaderType), ErrNoEntryPoint)
	}

	cleaned := stripComments(source)
	structLayouts, structMembers := computeStructLayouts(parseStructBlocks(cleaned))
	bindings := parseBindings(cleaned)

	for _, b := range bindings {
		if b.addressSpace == "" {
			continue
		}
		if _, ok := resolveTypeLayout(b.typeName, structLayouts); !ok {
			return s.fail(fmt.Sprintf("@group(%d) @binding(%d) %s: cannot resolve layout of type %q", b.group, b.binding, b.varName, b.typeName), ErrUnresolvedType)
		}
	}

	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(source)
	} else {
		s.vertexLayouts = make(map[int][]wgpu.VertexBufferLayout)
	}

	visibility := wgpu.ShaderStageVertex
	if s.shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(bindings, structLayouts, visibility)
	s.applyDynamicOffsets()
	s.uniformBlocks = buildUniformBlocks(bindings, structLayouts, structMembers, s.declarations)

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return nil
}

// applyDynamicOffsets flags the layout entries declared with the dynamic modifier.
func (s *shader) applyDynamicOffsets() {
	for _, d := range s.declarations {
		if !d.Dynamic {
			continue
		}
		desc, ok := s.bindGroupLayoutDescriptors[*d.Group]
		if !ok {
			continue
		}
		for i := range desc.Entries {
			if desc.Entries[i].Binding == uint32(*d.Binding) {
				desc.Entries[i].Buffer.HasDynamicOffset = true
			}
		}
	}
}

func (s *shader) fail(diagnostic string, cause error) error {
	log.Printf("[Shader] %s (%s) compile failed:\n%s", s.key, s.shaderType, diagnostic)
	return &CompileError{
		Key:   s.key,
		Stage: s.shaderType,
		Log:   diagnostic,
		Err:   cause,
	}
}

// buildUniformBlocks describes every var<uniform> binding with its resolved struct layout.
func buildUniformBlocks(bindings []parsedBinding, layouts map[string]wgslTypeLayout, members map[string]map[string]FieldLayout, declarations []Annotation) []UniformBlock {
	var blocks []UniformBlock
	for _, b := range bindings {
		if b.addressSpace != "uniform" {
			continue
		}
		block := UniformBlock{
			Group:    b.group,
			Binding:  b.binding,
			VarName:  b.varName,
			TypeName: b.typeName,
			Size:     layouts[b.typeName].size,
			Fields:   members[b.typeName],
		}
		if block.Size == 0 {
			if l, ok := wgslPrimitiveLayoutMap[b.typeName]; ok {
				block.Size = l.size
			}
		}
		for _, d := range declarations {
			if d.Dynamic && *d.Group == b.group && *d.Binding == b.binding {
				block.Dynamic = true
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}
