package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// BoundGroup places a provider's bind group at a group index for one draw. DynamicOffsets holds
// one offset per dynamic binding of the group, in binding order.
type BoundGroup struct {
	Group          int
	Provider       bind_group_provider.BindGroupProvider
	DynamicOffsets []uint32
}

// BufferRange selects the part of a provider buffer a binding sees. Buffer is the key the
// buffer was created under with InitUniformBuffer. A zero Size binds to the end of the buffer.
type BufferRange struct {
	Buffer int
	Offset uint64
	Size   uint64
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer is the frame-level rendering API: it owns the GPU device and surface, turns pipeline
// descriptions into GPU pipelines, fills bind group providers with GPU resources, and records
// indexed draws between BeginFrame and EndFrame.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the registered pipeline, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipeline validates p, creates its GPU render pipeline and caches it by key.
	// A pipeline registered under the same key is replaced and its GPU pipeline released,
	// which is how shader reloads take effect. On error the cache is unchanged.
	//
	// Parameters:
	//   - p: the pipeline to register
	//
	// Returns:
	//   - error: a validation or GPU creation error
	RegisterPipeline(p pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size. A zero dimension (minimized
	// window) leaves the surface unconfigured and BeginFrame returns ErrSkipFrame until the
	// next non-zero resize.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// UniformAlignment returns the device's minimum uniform buffer offset alignment. Dynamic
	// offsets and bound uniform ranges must be multiples of it.
	//
	// Returns:
	//   - uint64: the alignment in bytes
	UniformAlignment() uint64

	// InitMesh uploads a packed mesh into one buffer usable as both index and vertex buffer
	// and stores it on the provider.
	//
	// Parameters:
	//   - provider: the provider to hold the mesh buffer
	//   - mesh: indices and vertices packed by buffer.PackShared
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMesh(provider bind_group_provider.BindGroupProvider, mesh buffer.SharedMesh) error

	// InitUniformBuffer creates a uniform buffer of size bytes under key on the provider.
	//
	// Parameters:
	//   - provider: the provider to hold the buffer
	//   - key: the buffer key, referenced by BufferRange.Buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, key int, size uint64) error

	// InitTexture creates a GPU texture from staging data, uploads every mip level at its
	// origin, and stores the texture and its view on the provider at binding.
	//
	// Parameters:
	//   - provider: the provider to hold the texture
	//   - binding: the texture binding index
	//   - staging: the pixel data and placement
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error

	// InitSampler creates a GPU sampler and stores it on the provider at binding.
	//
	// Parameters:
	//   - provider: the provider to hold the sampler
	//   - binding: the sampler binding index
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error

	// InitBindGroup creates a bind group for the descriptor from the resources already on the
	// provider. Buffer bindings listed in ranges bind that part of the named buffer; any other
	// buffer binding binds the whole buffer stored under its own binding index.
	//
	// Parameters:
	//   - provider: the provider holding the resources, and receiving the bind group
	//   - descriptor: the layout, normally from pipeline.Pipeline.BindGroupLayouts
	//   - ranges: buffer ranges keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if a resource is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, ranges map[int]BufferRange) error

	// BufferWriter returns a writer that queues writes into the provider buffer under key.
	//
	// Parameters:
	//   - provider: the provider holding the buffer
	//   - key: the buffer key
	//
	// Returns:
	//   - uniform.BufferWriter: the writer, used by uniform.Cursor.Flush
	BufferWriter(provider bind_group_provider.BindGroupProvider, key int) uniform.BufferWriter

	// WriteBuffers queues buffer writes. Writes land before any work submitted afterwards.
	//
	// Parameters:
	//   - writes: the writes to queue
	//
	// Returns:
	//   - error: the first failed write
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all Draw calls within a single frame.
	//
	// Returns:
	//   - error: ErrSkipFrame when there is no surface to draw into, or an acquisition error
	BeginFrame() error

	// Draw records one indexed draw of the mesh provider's whole index range. Nothing is
	// recorded when an error is returned.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - mesh: the provider holding the shared mesh buffer
	//   - groups: the bind groups and dynamic offsets for this draw
	//
	// Returns:
	//   - error: an error if the pipeline, mesh or a bind group is missing, or no frame is open
	Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, groups []BoundGroup) error

	// EndFrame ends the render pass and submits the recorded commands.
	EndFrame()

	// Present shows the frame and releases the swapchain texture.
	Present()

	// Release frees every cached pipeline and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device and surface for win and configures the surface at the
// window's framebuffer size. Panics if no adapter or device is available.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the window to present into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
		clearColor:    wgpu.Color{R: 0.2, G: 0.3, B: 0.3, A: 1.0},
	}

	// Options first, so the adapter request sees forceFallbackAdapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(win.FramebufferSize())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) UniformAlignment() uint64 {
	return r.backend.UniformAlignment()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("register pipeline %q: %w", p.PipelineKey(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.pipelineCache[p.PipelineKey()]; ok && old != p && old.Pipeline() != nil {
		old.Pipeline().Release()
		old.SetRenderPipeline(nil)
	}
	r.pipelineCache[p.PipelineKey()] = p
	log.Printf("[Renderer] registered pipeline %q", p.PipelineKey())
	return nil
}

func (r *renderer) InitMesh(provider bind_group_provider.BindGroupProvider, mesh buffer.SharedMesh) error {
	return r.backend.InitMesh(provider, mesh)
}

func (r *renderer) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, key int, size uint64) error {
	return r.backend.InitUniformBuffer(provider, key, size)
}

func (r *renderer) InitTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	return r.backend.InitTexture(provider, binding, staging)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, binding, sampler)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, ranges map[int]BufferRange) error {
	return r.backend.InitBindGroup(provider, descriptor, ranges)
}

func (r *renderer) BufferWriter(provider bind_group_provider.BindGroupProvider, key int) uniform.BufferWriter {
	return &providerBufferWriter{renderer: r, provider: provider, key: key}
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, groups []BoundGroup) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.Draw(p, mesh, groups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		if rp := p.Pipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

// providerBufferWriter adapts one provider buffer to uniform.BufferWriter.
type providerBufferWriter struct {
	renderer *renderer
	provider bind_group_provider.BindGroupProvider
	key      int
}

func (w *providerBufferWriter) WriteBuffer(offset uint64, data []byte) error {
	return w.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: w.provider,
		Binding:  w.key,
		Offset:   offset,
		Data:     data,
	}})
}
