package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MeshRange locates the index and vertex data of a mesh packed into one shared GPU buffer.
type MeshRange struct {
	IndexOffset  uint64
	IndexSize    uint64
	VertexOffset uint64
	VertexSize   uint64
	IndexCount   uint32
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources populated by the Renderer, and released by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textures holds the textures behind textureViews so both can be released.
	textures     map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// meshBuffer holds indices followed by vertices; meshRange says where each part lives.
	meshBuffer *wgpu.Buffer
	meshRange  MeshRange
}

// BindGroupProvider owns the GPU objects behind one bind group, or behind one mesh.
// The scene creates an empty provider per resource set; the Renderer fills it during
// initialization and reads it back when encoding draws.
//
// Usage pattern:
//  1. Scene creates a provider with a label
//  2. Renderer.InitUniformBuffer, InitTexture and InitSampler create the resources per binding
//  3. Renderer.InitBindGroup creates the bind group from a layout descriptor
//  4. Renderer.Draw reads BindGroup (and MeshBuffer for a mesh provider)
//  5. Release frees everything when the scene is torn down
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider. The provider may be
	// reinitialized afterwards.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view bound at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler bound at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// MeshBuffer returns the shared index and vertex buffer, or nil if this provider holds no mesh.
	//
	// Returns:
	//   - *wgpu.Buffer: the mesh buffer or nil
	MeshBuffer() *wgpu.Buffer

	// MeshRange returns where the indices and vertices live inside MeshBuffer.
	//
	// Returns:
	//   - MeshRange: offsets, sizes and the index count
	MeshRange() MeshRange

	// SetBindGroup stores the bind group and the layout it was created with.
	//
	// Parameters:
	//   - bg: the created bind group
	//   - bgl: the layout used to create it
	SetBindGroup(bg *wgpu.BindGroup, bgl *wgpu.BindGroupLayout)

	// SetBuffer stores a buffer for a binding, releasing any buffer it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a texture and its view for a binding, releasing any it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the created texture
	//   - view: the view bound to the shader
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// SetSampler stores a sampler for a binding, releasing any sampler it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the created sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the shared mesh buffer and its layout.
	//
	// Parameters:
	//   - buf: the buffer holding indices then vertices
	//   - r: the location of each part
	SetMesh(buf *wgpu.Buffer, r MeshRange)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: a debug label used as the prefix of every GPU object label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) MeshBuffer() *wgpu.Buffer {
	return p.meshBuffer
}

func (p *bindGroupProvider) MeshRange() MeshRange {
	return p.meshRange
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup, bgl *wgpu.BindGroupLayout) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	if p.bindGroupLayout != nil && p.bindGroupLayout != bgl {
		p.bindGroupLayout.Release()
	}
	p.bindGroup = bg
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if old := p.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	if old := p.textureViews[binding]; old != nil && old != view {
		old.Release()
	}
	if old := p.textures[binding]; old != nil && old != tex {
		old.Release()
	}
	p.textures[binding] = tex
	p.textureViews[binding] = view
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	if old := p.samplers[binding]; old != nil && old != s {
		old.Release()
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetMesh(buf *wgpu.Buffer, r MeshRange) {
	if p.meshBuffer != nil && p.meshBuffer != buf {
		p.meshBuffer.Release()
	}
	p.meshBuffer = buf
	p.meshRange = r
}

func (p *bindGroupProvider) Release() {
	// bind group first, it references everything below
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}

	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		if tex != nil {
			tex.Release()
		}
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.meshBuffer != nil {
		p.meshBuffer.Release()
		p.meshBuffer = nil
	}
	p.meshRange = MeshRange{}
}
