package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
//@oxy:include vertex
//@oxy:include frame_uniform
//@oxy:include model_uniform

//@oxy:group 0 0 storage_uniform frame frame_uniform
//@oxy:group 0 1 storage_uniform model model_uniform dynamic

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = frame.projection * frame.view * model.model * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}
`

const testFragmentSource = `
//@oxy:include scene_params
//@oxy:group 0 2 storage_uniform params scene_params

//@oxy:provider 1 0 textures texture
@group(1) @binding(0) var wall_texture: texture_2d<f32>;
//@oxy:provider 1 1 textures sampler
@group(1) @binding(1) var wall_sampler: sampler;

/* block comments are stripped
   @vertex fn decoy() {} */
@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(wall_texture, wall_sampler, uv) * params.mix_ratio;
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("cube_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "cube_vs", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Empty(t, s.Path())
	require.NotNil(t, s.Module())
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	vl := s.VertexLayout(0)[0]
	assert.Equal(t, uint64(20), vl.ArrayStride)
	require.Len(t, vl.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vl.Attributes[0].Format)
	assert.Equal(t, uint64(12), vl.Attributes[1].Offset)
	assert.Equal(t, uint32(1), vl.Attributes[1].ShaderLocation)

	group := s.BindGroupLayoutDescriptor(0)
	require.Len(t, group.Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, group.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(128), group.Entries[0].Buffer.MinBindingSize)
	assert.False(t, group.Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(64), group.Entries[1].Buffer.MinBindingSize)
	assert.True(t, group.Entries[1].Buffer.HasDynamicOffset)
	assert.Equal(t, wgpu.ShaderStageVertex, group.Entries[1].Visibility)

	assert.Equal(t, "model", s.BindGroupVarName(0, 1))
	b, ok := s.BindGroupFromVarName(0, "frame")
	assert.True(t, ok)
	assert.Equal(t, 0, b)
	_, ok = s.BindGroupFromVarName(3, "frame")
	assert.False(t, ok)

	assert.Len(t, s.Declarations(), 2)
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("cube_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	textures := s.BindGroupLayoutDescriptor(1)
	require.Len(t, textures.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textures.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, textures.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, textures.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, textures.Entries[1].Visibility)

	assert.Len(t, s.Declarations(), 3)
}

func TestUniformBlockLookup(t *testing.T) {
	s, err := NewShader("cube_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	block, ok := s.UniformBlock("SceneParams")
	require.True(t, ok)
	assert.Equal(t, 0, block.Group)
	assert.Equal(t, 2, block.Binding)
	assert.Equal(t, "params", block.VarName)
	assert.Equal(t, uint64(16), block.Size)
	assert.False(t, block.Dynamic)
	assert.Equal(t, FieldLayout{Offset: 0, Size: 4, TypeName: "f32"}, block.Fields["mix_ratio"])
	assert.Equal(t, uint64(8), block.Fields["texture_count"].Offset)

	byVar, ok := s.UniformBlock("params")
	require.True(t, ok)
	assert.Equal(t, block.TypeName, byVar.TypeName)

	_, ok = s.UniformBlock("missing")
	assert.False(t, ok)

	vs, err := NewShader("cube_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)
	model, ok := vs.UniformBlock("ModelUniform")
	require.True(t, ok)
	assert.True(t, model.Dynamic)
	assert.Len(t, vs.UniformBlocks(), 2)
}

func TestStructLayoutAlignment(t *testing.T) {
	structs := parseStructBlocks(`
struct Inner { a: vec3<f32>, b: f32, }
struct Outer {
    x: f32,
    inner: Inner,
    m: mat4x4<f32>,
    arr: array<vec4<f32>, 2>,
}`)
	layouts, members := computeStructLayouts(structs)

	assert.Equal(t, wgslTypeLayout{16, 16}, layouts["Inner"])
	assert.Equal(t, uint64(16), members["Outer"]["inner"].Offset)
	assert.Equal(t, uint64(32), members["Outer"]["m"].Offset)
	assert.Equal(t, uint64(96), members["Outer"]["arr"].Offset)
	assert.Equal(t, uint64(32), members["Outer"]["arr"].Size)
	assert.Equal(t, wgslTypeLayout{128, 16}, layouts["Outer"])
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		stage  ShaderType
		source string
		want   error
	}{
		{"missing vertex entry", ShaderTypeVertex, "fn helper() {}", ErrNoEntryPoint},
		{"fragment source as vertex", ShaderTypeVertex, testFragmentSource, ErrNoEntryPoint},
		{"unresolved uniform", ShaderTypeFragment, "@group(0) @binding(0) var<uniform> u: Mystery;\n@fragment fn fs() {}", ErrUnresolvedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("broken", tt.stage, tt.source)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "broken", ce.Key)
			assert.Equal(t, tt.stage, ce.Stage)
			assert.NotEmpty(t, ce.Log)
		})
	}
}

func TestCompileErrorFromAnnotation(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeVertex, "//@oxy:include camera\n@vertex fn vs() {}")
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Log, "line 1")
	assert.Contains(t, err.Error(), `shader "bad" (vertex)`)
}

func TestNewShaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.vert.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testVertexSource), 0o644))

	s, err := NewShaderFromFile("cube_vs", ShaderTypeVertex, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	_, err = NewShaderFromFile("missing", ShaderTypeVertex, filepath.Join(dir, "nope.wgsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(7)", ShaderType(7).String())
}
