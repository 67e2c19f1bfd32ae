package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline validation errors.
var (
	ErrMissingStage   = errors.New("render pipeline needs both a vertex and a fragment shader")
	ErrLayoutMismatch = errors.New("vertex layout does not match the vertex shader input")
)

// pipeline is the implementation of the Pipeline interface.
// It holds the shaders, the fixed-function state and, once registered, the GPU render pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// vertexLayout overrides the layout parsed from the vertex shader when set
	vertexLayout *wgpu.VertexBufferLayout

	// renderPipeline is nil until the renderer registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline describes a render pipeline: a vertex and fragment shader pair plus the depth, blend,
// cull and topology state needed to create it. The renderer turns a Pipeline into a
// *wgpu.RenderPipeline and stores it back with SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage if it is set, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the GPU render pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the registered pipeline
	Pipeline() *wgpu.RenderPipeline

	// Validate checks that both stages are set and, when an explicit vertex layout was supplied,
	// that it feeds every vertex shader input at the same location, format and offset.
	//
	// Returns:
	//   - error: ErrMissingStage or ErrLayoutMismatch, nil when the pipeline can be created
	Validate() error

	// VertexBuffers returns the vertex buffer layouts used to create the pipeline: the explicit
	// layout when one was supplied, otherwise the layouts parsed from the vertex shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in buffer slot order
	VertexBuffers() []wgpu.VertexBufferLayout

	// BindGroupLayouts merges the vertex and fragment bind group layouts per group. Bindings
	// declared by both stages keep one entry with their visibilities ORed.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
	BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// DepthBias returns the constant depth bias configured for this pipeline.
	DepthBias() int32

	// DepthBiasSlopeScale returns the slope scaled depth bias configured for this pipeline.
	DepthBiasSlopeScale() float32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU render pipeline created by the renderer.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults: depth test and write on, no blending,
// no culling, triangle lists, counter-clockwise front faces.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return fmt.Errorf("pipeline %q: %w", p.pipelineKey, ErrMissingStage)
	}
	if p.vertexShader.ShaderType() != shader.ShaderTypeVertex || p.fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		return fmt.Errorf("pipeline %q: %w: shaders are bound to the wrong stages", p.pipelineKey, ErrMissingStage)
	}
	if p.vertexLayout == nil {
		return nil
	}
	for _, expected := range shaderVertexLayouts(p.vertexShader) {
		if err := matchVertexLayout(*p.vertexLayout, expected); err != nil {
			return fmt.Errorf("pipeline %q: %w", p.pipelineKey, err)
		}
	}
	return nil
}

func (p *pipeline) VertexBuffers() []wgpu.VertexBufferLayout {
	if p.vertexLayout != nil {
		return []wgpu.VertexBufferLayout{*p.vertexLayout}
	}
	if p.vertexShader == nil {
		return nil
	}
	return shaderVertexLayouts(p.vertexShader)
}

func (p *pipeline) BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertex, fragment map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertex = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragment = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	return mergeBindGroupLayouts(vertex, fragment)
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

// shaderVertexLayouts flattens the shader's parsed vertex layouts in key order.
func shaderVertexLayouts(s shader.Shader) []wgpu.VertexBufferLayout {
	parsed := s.VertexLayouts()
	keys := make([]int, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]wgpu.VertexBufferLayout, 0, len(keys))
	for _, k := range keys {
		out = append(out, parsed[k]...)
	}
	return out
}

// matchVertexLayout reports whether layout supplies every attribute of expected at the same
// location, format and offset, with a stride no smaller than expected's packed stride.
func matchVertexLayout(layout, expected wgpu.VertexBufferLayout) error {
	if layout.ArrayStride < expected.ArrayStride {
		return fmt.Errorf("%w: stride %d is below the shader's %d bytes", ErrLayoutMismatch, layout.ArrayStride, expected.ArrayStride)
	}
	if len(layout.Attributes) != len(expected.Attributes) {
		return fmt.Errorf("%w: %d attributes, shader reads %d", ErrLayoutMismatch, len(layout.Attributes), len(expected.Attributes))
	}
	byLocation := make(map[uint32]wgpu.VertexAttribute, len(layout.Attributes))
	for _, a := range layout.Attributes {
		byLocation[a.ShaderLocation] = a
	}
	for _, want := range expected.Attributes {
		got, ok := byLocation[want.ShaderLocation]
		switch {
		case !ok:
			return fmt.Errorf("%w: nothing at location %d", ErrLayoutMismatch, want.ShaderLocation)
		case got.Format != want.Format:
			return fmt.Errorf("%w: location %d has format %v, shader reads %v", ErrLayoutMismatch, want.ShaderLocation, got.Format, want.Format)
		case got.Offset != want.Offset:
			return fmt.Errorf("%w: location %d at offset %d, shader expects %d", ErrLayoutMismatch, want.ShaderLocation, got.Offset, want.Offset)
		}
	}
	return nil
}

// mergeBindGroupLayouts merges the bind group layout descriptors of a vertex and a fragment shader
// into one set suitable for a render pipeline layout. Entries sharing a binding number have their
// visibility ORed; entries are sorted by binding.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groups := make(map[int]bool)
	for g := range vertexLayouts {
		groups[g] = true
	}
	for g := range fragmentLayouts {
		groups[g] = true
	}

	for g := range groups {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
				return int(a.Binding) - int(b.Binding)
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   common.Coalesce(vDesc.Label, fDesc.Label),
				Entries: entries,
			}
		}
	}

	return merged
}
