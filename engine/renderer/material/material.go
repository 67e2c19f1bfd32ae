package material

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureBinder creates the GPU textures, samplers and bind group of a material.
// renderer.Renderer implements it.
type TextureBinder interface {
	InitTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, ranges map[int]renderer.BufferRange) error
}

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name              string
	mixRatio          float32
	textures          texture.Manager
	firstBinding      int
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is the surface of the cubes: an ordered set of texture units blended by a mix
// ratio, and the bind group provider holding their GPU textures and samplers.
//
// Texture unit i is bound at binding firstBinding+2i and its sampler at firstBinding+2i+1.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// MixRatio retrieves how much of the second texture is blended over the first.
	//
	// Returns:
	//   - float32: the ratio in [0, 1]
	MixRatio() float32

	// SetMixRatio sets the blend ratio, clamped to [0, 1].
	//
	// Parameters:
	//   - ratio: the blend ratio
	SetMixRatio(ratio float32)

	// Textures retrieves the texture units of the material.
	//
	// Returns:
	//   - texture.Manager: the texture manager
	Textures() texture.Manager

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// TextureSlots counts the texture bindings of a layout.
	//
	// Parameters:
	//   - descriptor: the texture group layout
	//
	// Returns:
	//   - int: the number of texture entries
	TextureSlots(descriptor wgpu.BindGroupLayoutDescriptor) int

	// Bind uploads every texture unit with its sampler and creates the bind group for
	// descriptor. The number of texture units must equal the layout's texture bindings.
	//
	// Parameters:
	//   - binder: the renderer creating the GPU objects
	//   - descriptor: the texture group layout from the pipeline
	//
	// Returns:
	//   - error: a count mismatch or GPU error
	Bind(binder TextureBinder, descriptor wgpu.BindGroupLayoutDescriptor) error

	// Release frees the material's GPU textures, samplers and bind group.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// The mix ratio defaults to 0.2 and texture units start at binding 0.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:       &sync.Mutex{},
		name:     "material",
		mixRatio: 0.2,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.textures == nil {
		m.textures = texture.NewManager()
	}
	m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name + " Textures")
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) MixRatio() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixRatio
}

func (m *material) SetMixRatio(ratio float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mixRatio = common.Clamp(ratio, 0, 1)
}

func (m *material) Textures() texture.Manager {
	return m.textures
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) TextureSlots(descriptor wgpu.BindGroupLayoutDescriptor) int {
	n := 0
	for _, e := range descriptor.Entries {
		if e.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
			n++
		}
	}
	return n
}

func (m *material) Bind(binder TextureBinder, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if want := m.TextureSlots(descriptor); want != m.textures.Len() {
		return fmt.Errorf("%s: shaders sample %d textures, %d loaded", m.name, want, m.textures.Len())
	}

	provider := m.bindGroupProvider
	for _, b := range m.textures.Bindings(m.firstBinding) {
		if err := binder.InitTexture(provider, b.TextureBinding, b.Texture.Staging()); err != nil {
			return fmt.Errorf("texture %s: %w", b.Texture.Key(), err)
		}
		if err := binder.InitSampler(provider, b.SamplerBinding, b.Texture.Sampler()); err != nil {
			return fmt.Errorf("sampler %s: %w", b.Texture.Key(), err)
		}
		log.Printf("[Texture] %s bound to unit %d (%dx%d, %d mip levels)", b.Texture.Key(), b.Unit, b.Texture.Width(), b.Texture.Height(), b.Texture.MipLevels())
	}
	return binder.InitBindGroup(provider, descriptor, nil)
}

func (m *material) Release() {
	m.bindGroupProvider.Release()
}
