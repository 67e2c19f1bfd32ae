package material

import (
	"errors"
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	textures   []int
	samplers   []int
	bindGroups int
	failOn     int
}

func (f *fakeBinder) InitTexture(_ bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData) error {
	if binding == f.failOn {
		return errors.New("out of memory")
	}
	f.textures = append(f.textures, binding)
	return nil
}

func (f *fakeBinder) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.samplers = append(f.samplers, binding)
	return nil
}

func (f *fakeBinder) InitBindGroup(_ bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, ranges map[int]renderer.BufferRange) error {
	f.bindGroups++
	return nil
}

func textureLayout(units int, first uint32) wgpu.BindGroupLayoutDescriptor {
	var entries []wgpu.BindGroupLayoutEntry
	for i := range uint32(units) {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    first + 2*i,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    first + 2*i + 1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		)
	}
	return wgpu.BindGroupLayoutDescriptor{Entries: entries}
}

func managerWith(t *testing.T, keys ...string) texture.Manager {
	t.Helper()
	m := texture.NewManager()
	for _, key := range keys {
		tex, err := texture.NewTexture(key, image.NewRGBA(image.Rect(0, 0, 4, 4)))
		require.NoError(t, err)
		m.Add(tex)
	}
	return m
}

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, "material", m.Name())
	assert.Equal(t, float32(0.2), m.MixRatio())
	assert.Equal(t, "", m.PipelineKey())
	require.NotNil(t, m.Textures())
	assert.Equal(t, 0, m.Textures().Len())
	require.NotNil(t, m.BindGroupProvider())
	assert.Equal(t, "material Textures", m.BindGroupProvider().Label())
}

func TestMaterialOptions(t *testing.T) {
	textures := managerWith(t, "wall")
	m := NewMaterial(
		WithName("Cube"),
		WithMixRatio(1.5),
		WithTextures(textures),
		WithPipelineKey("cube"),
	)

	assert.Equal(t, "Cube", m.Name())
	assert.Equal(t, float32(1), m.MixRatio())
	assert.Same(t, textures, m.Textures())
	assert.Equal(t, "cube", m.PipelineKey())
	assert.Equal(t, "Cube Textures", m.BindGroupProvider().Label())

	m.SetPipelineKey("spiral")
	assert.Equal(t, "spiral", m.PipelineKey())
}

func TestSetMixRatioClamps(t *testing.T) {
	m := NewMaterial()

	m.SetMixRatio(-0.5)
	assert.Equal(t, float32(0), m.MixRatio())
	m.SetMixRatio(0.75)
	assert.Equal(t, float32(0.75), m.MixRatio())
	m.SetMixRatio(3)
	assert.Equal(t, float32(1), m.MixRatio())
}

func TestTextureSlots(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, 0, m.TextureSlots(wgpu.BindGroupLayoutDescriptor{}))
	assert.Equal(t, 2, m.TextureSlots(textureLayout(2, 0)))
}

func TestBind(t *testing.T) {
	m := NewMaterial(WithTextures(managerWith(t, "wall", "face")))
	binder := &fakeBinder{failOn: -1}

	require.NoError(t, m.Bind(binder, textureLayout(2, 0)))
	assert.Equal(t, []int{0, 2}, binder.textures)
	assert.Equal(t, []int{1, 3}, binder.samplers)
	assert.Equal(t, 1, binder.bindGroups)
}

func TestBindFirstBinding(t *testing.T) {
	m := NewMaterial(WithTextures(managerWith(t, "wall")), WithFirstBinding(4))
	binder := &fakeBinder{failOn: -1}

	require.NoError(t, m.Bind(binder, textureLayout(1, 4)))
	assert.Equal(t, []int{4}, binder.textures)
	assert.Equal(t, []int{5}, binder.samplers)
}

func TestBindCountMismatch(t *testing.T) {
	m := NewMaterial(WithName("Cube"), WithTextures(managerWith(t, "wall")))
	binder := &fakeBinder{failOn: -1}

	err := m.Bind(binder, textureLayout(2, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shaders sample 2 textures, 1 loaded")
	assert.Empty(t, binder.textures)
	assert.Zero(t, binder.bindGroups)
}

func TestBindTextureError(t *testing.T) {
	m := NewMaterial(WithTextures(managerWith(t, "wall", "face")))
	binder := &fakeBinder{failOn: 2}

	err := m.Bind(binder, textureLayout(2, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texture face")
	assert.Zero(t, binder.bindGroups)
}
