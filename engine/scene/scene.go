package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-cubes/engine/world"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/cube_vertex.wgsl
var cubeVertexSource string

//go:embed assets/cube_fragment.wgsl
var cubeFragmentSource string

const (
	// PipelineKey is the render pipeline key of the cube pass.
	PipelineKey = "cube"

	vertexShaderKey   = "cube_vertex"
	fragmentShaderKey = "cube_fragment"

	// uniformBufferKey is the provider buffer holding the frame block, the params block
	// and one model slot per cube.
	uniformBufferKey = 0

	frameGroup   = 0
	textureGroup = 1

	frameBinding  = 0
	modelBinding  = 1
	paramsBinding = 2
)

// ErrLayoutChanged is returned by ReloadShaders when the new shaders need different bind
// group layouts than the ones the scene's resources were bound with.
var ErrLayoutChanged = errors.New("bind group layout changed, restart to apply")

// UniformLayout places the blocks of the shared uniform buffer. The frame block sits at
// offset 0, the params block at the next aligned offset, and each cube owns one aligned
// model slot after it.
type UniformLayout struct {
	Alignment    uint64
	ParamsOffset uint64
	ParamsSize   uint64
	ModelsOffset uint64
	SlotSize     uint64
	Capacity     uint64
}

// NewUniformLayout computes the buffer layout for cubes model slots.
//
// Parameters:
//   - alignment: the device's dynamic offset alignment
//   - paramsSize: the byte size of the params block
//   - cubes: the number of model slots
//
// Returns:
//   - UniformLayout: the computed layout
func NewUniformLayout(alignment, paramsSize uint64, cubes int) UniformLayout {
	if alignment == 0 {
		alignment = uniform.DefaultAlignment
	}
	l := UniformLayout{
		Alignment:    alignment,
		ParamsOffset: common.AlignUp(camera.GPUFrameUniformSize, alignment),
		ParamsSize:   paramsSize,
		SlotSize:     common.AlignUp(world.GPUModelUniformSize, alignment),
	}
	l.ModelsOffset = common.AlignUp(l.ParamsOffset+paramsSize, alignment)
	l.Capacity = l.ModelsOffset + uint64(cubes)*l.SlotSize
	return l
}

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	world    world.World
	material material.Material

	vertexPath      string
	fragmentPath    string
	textureSpecs    []texture.Spec
	materialOptions []material.MaterialBuilderOption
	time            float32
	culling         bool

	pipeline pipeline.Pipeline
	layouts  map[int]wgpu.BindGroupLayoutDescriptor
	layout   UniformLayout
	cursor   uniform.Cursor
	params   uniform.Params
	writer   uniform.BufferWriter

	meshProvider  bind_group_provider.BindGroupProvider
	frameProvider bind_group_provider.BindGroupProvider

	lastDrawn   int
	lastCulled  int
	lastSkipped int
}

// Scene owns the GPU resources of the cube world and records its draws each frame.
type Scene interface {
	// World returns the cubes being drawn.
	World() world.World

	// Material returns the cube material.
	Material() material.Material

	// Textures returns the texture manager holding the material's texture units.
	Textures() texture.Manager

	// Pipeline returns the active cube pipeline.
	Pipeline() pipeline.Pipeline

	// Layout returns the placement of blocks in the uniform buffer.
	Layout() UniformLayout

	// SetMixRatio sets how much of the second texture is blended over the first.
	//
	// Parameters:
	//   - ratio: the blend ratio, clamped to [0, 1]
	SetMixRatio(ratio float32)

	// SetTime sets the seconds value written into the params block.
	SetTime(seconds float32)

	// Frame writes the frame, params and model blocks and records one draw per visible
	// cube. It must be called between the renderer's BeginFrame and EndFrame. A cube whose
	// draw cannot be recorded gives its slot back and is skipped.
	//
	// Parameters:
	//   - view: the camera view matrix
	//   - projection: the camera projection matrix
	//
	// Returns:
	//   - int: the number of cubes drawn
	//   - error: a uniform overflow or upload error
	Frame(view, projection mgl32.Mat4) (int, error)

	// LastFrame returns how many cubes the last Frame drew and culled.
	LastFrame() (drawn, culled int)

	// ShaderPaths returns the configured shader files, empty for built-in sources.
	ShaderPaths() []string

	// ReloadShaders rebuilds both shaders and the pipeline from their sources. On any
	// error the previous pipeline stays active.
	//
	// Returns:
	//   - error: a compile, validation or registration error
	ReloadShaders() error

	// Release frees every GPU resource owned by the scene.
	Release()
}

var _ Scene = &sceneImpl{}

// NewScene builds the cube pipeline, uploads the shared cube mesh, creates the uniform
// buffer and loads the textures, then binds them all. Resources created before a failure
// are released.
//
// Parameters:
//   - r: the renderer owning the GPU device
//   - w: the cubes to draw
//   - options: functional options for shader paths, textures and blending
//
// Returns:
//   - Scene: the ready scene
//   - error: a shader, pipeline, texture or GPU error
func NewScene(r renderer.Renderer, w world.World, options ...SceneBuilderOption) (Scene, error) {
	s := &sceneImpl{
		mu:            &sync.Mutex{},
		renderer:      r,
		world:         w,
		culling:       true,
		meshProvider:  bind_group_provider.NewBindGroupProvider("Cube Mesh"),
		frameProvider: bind_group_provider.NewBindGroupProvider("Cube Frame"),
	}
	for _, option := range options {
		option(s)
	}
	s.material = material.NewMaterial(append([]material.MaterialBuilderOption{
		material.WithName("Cube"),
		material.WithPipelineKey(PipelineKey),
	}, s.materialOptions...)...)

	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *sceneImpl) init() error {
	p, err := s.buildPipeline()
	if err != nil {
		return err
	}
	if err := s.renderer.RegisterPipeline(p); err != nil {
		return err
	}
	s.pipeline = p
	s.layouts = p.BindGroupLayouts()

	block, err := paramsBlock(p)
	if err != nil {
		return err
	}
	s.params = uniform.NewParams(block)
	s.layout = NewUniformLayout(s.renderer.UniformAlignment(), block.Size, s.world.Len())
	s.cursor = uniform.NewCursor(s.layout.Capacity, uniform.WithAlignment(s.layout.Alignment))

	mesh, err := buffer.PackShared(world.CubeVertices, world.CubeIndices)
	if err != nil {
		return fmt.Errorf("pack cube mesh: %w", err)
	}
	if err := s.renderer.InitMesh(s.meshProvider, mesh); err != nil {
		return err
	}

	if err := s.renderer.InitUniformBuffer(s.frameProvider, uniformBufferKey, s.layout.Capacity); err != nil {
		return err
	}
	err = s.renderer.InitBindGroup(s.frameProvider, s.layouts[frameGroup], map[int]renderer.BufferRange{
		frameBinding:  {Buffer: uniformBufferKey, Offset: 0, Size: camera.GPUFrameUniformSize},
		modelBinding:  {Buffer: uniformBufferKey, Offset: 0, Size: world.GPUModelUniformSize},
		paramsBinding: {Buffer: uniformBufferKey, Offset: s.layout.ParamsOffset, Size: block.Size},
	})
	if err != nil {
		return err
	}
	s.writer = s.renderer.BufferWriter(s.frameProvider, uniformBufferKey)

	return s.initTextures()
}

func (s *sceneImpl) initTextures() error {
	if len(s.textureSpecs) > 0 {
		if err := s.material.Textures().LoadAll(s.textureSpecs); err != nil {
			return fmt.Errorf("load textures: %w", err)
		}
	}

	desc, ok := s.layouts[textureGroup]
	if !ok {
		return nil
	}
	return s.material.Bind(s.renderer, desc)
}

// buildPipeline compiles both shaders from their files, or the embedded sources when no
// file is configured, and validates the pipeline against the cube vertex layout.
func (s *sceneImpl) buildPipeline() (pipeline.Pipeline, error) {
	vs, err := loadShader(vertexShaderKey, shader.ShaderTypeVertex, s.vertexPath, cubeVertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := loadShader(fragmentShaderKey, shader.ShaderTypeFragment, s.fragmentPath, cubeFragmentSource)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexLayout(buffer.CubeLayout()),
	)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func loadShader(key string, shaderType shader.ShaderType, path, builtin string) (shader.Shader, error) {
	if path != "" {
		return shader.NewShaderFromFile(key, shaderType, path)
	}
	return shader.NewShader(key, shaderType, builtin)
}

// paramsBlock finds the SceneParams uniform in whichever stage declares it.
func paramsBlock(p pipeline.Pipeline) (shader.UniformBlock, error) {
	for _, t := range []shader.ShaderType{shader.ShaderTypeFragment, shader.ShaderTypeVertex} {
		if sh := p.Shader(t); sh != nil {
			if block, ok := sh.UniformBlock("SceneParams"); ok {
				return block, nil
			}
		}
	}
	return shader.UniformBlock{}, fmt.Errorf("pipeline %q declares no SceneParams uniform", p.PipelineKey())
}

func (s *sceneImpl) World() world.World {
	return s.world
}

func (s *sceneImpl) Material() material.Material {
	return s.material
}

func (s *sceneImpl) Textures() texture.Manager {
	return s.material.Textures()
}

func (s *sceneImpl) Pipeline() pipeline.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline
}

func (s *sceneImpl) Layout() UniformLayout {
	return s.layout
}

func (s *sceneImpl) SetMixRatio(ratio float32) {
	s.material.SetMixRatio(ratio)
}

func (s *sceneImpl) SetTime(seconds float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = seconds
}

func (s *sceneImpl) Frame(view, projection mgl32.Mat4) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Reset()

	frame := camera.GPUFrameUniform{Projection: projection, View: view}
	if _, err := s.cursor.Push(frame.Marshal()); err != nil {
		return 0, fmt.Errorf("frame block: %w", err)
	}
	if err := s.writeParams(); err != nil {
		return 0, err
	}

	frustum := common.ExtractFrustum(projection.Mul4(view))
	visible := func(i int) bool {
		return !s.culling || frustum.SphereVisible(s.world.Position(i), world.CubeBoundingRadius)
	}
	groups := []renderer.BoundGroup{{Group: frameGroup, Provider: s.frameProvider}}
	if _, ok := s.layouts[textureGroup]; ok {
		groups = append(groups, renderer.BoundGroup{Group: textureGroup, Provider: s.material.BindGroupProvider()})
	}
	draw := func(_ int, offset uint32) error {
		groups[0].DynamicOffsets = []uint32{offset}
		return s.renderer.Draw(s.material.PipelineKey(), s.meshProvider, groups)
	}

	res, err := recordCubes(s.cursor, s.world.Models(), visible, draw)
	if err != nil {
		return res.drawn, err
	}
	if res.skipped > 0 && s.lastSkipped == 0 {
		log.Printf("[Scene] %d cubes skipped: %v", res.skipped, res.skipErr)
	}
	s.lastDrawn, s.lastCulled, s.lastSkipped = res.drawn, res.culled, res.skipped

	if err := s.cursor.Flush(s.writer); err != nil {
		return res.drawn, err
	}
	return res.drawn, nil
}

// writeParams stages the params block at the first aligned offset after the frame block.
func (s *sceneImpl) writeParams() error {
	if err := s.params.SetFloat("mix_ratio", s.material.MixRatio()); err != nil {
		return err
	}
	if _, ok := s.params.Block().Fields["time"]; ok {
		if err := s.params.SetFloat("time", s.time); err != nil {
			return err
		}
	}
	if _, ok := s.params.Block().Fields["texture_count"]; ok {
		if err := s.params.SetUint("texture_count", uint32(s.material.Textures().Len())); err != nil {
			return err
		}
	}
	if _, err := s.cursor.PushAligned(s.params.Bytes()); err != nil {
		return fmt.Errorf("params block: %w", err)
	}
	return nil
}

type recordResult struct {
	drawn, culled, skipped int
	skipErr                error
}

// recordCubes pushes one aligned model slot per visible cube and records its draw at that
// slot's offset. When a draw fails the slot is rewound so the next cube reuses it.
func recordCubes(cursor uniform.Cursor, models []mgl32.Mat4, visible func(int) bool, draw func(i int, offset uint32) error) (recordResult, error) {
	var res recordResult
	var skipErrs []error
	for i, m := range models {
		if !visible(i) {
			res.culled++
			continue
		}

		before := cursor.Offset()
		block := world.GPUModelUniform{Model: m}
		offset, err := cursor.PushAligned(block.Marshal())
		if err != nil {
			return res, fmt.Errorf("model slot %d: %w", i, err)
		}

		if drawErr := draw(i, uint32(offset)); drawErr != nil {
			if err := cursor.Rewind(cursor.Offset() - before); err != nil {
				return res, err
			}
			res.skipped++
			skipErrs = append(skipErrs, fmt.Errorf("cube %d: %w", i, drawErr))
			continue
		}
		res.drawn++
	}
	res.skipErr = errors.Join(skipErrs...)
	return res, nil
}

func (s *sceneImpl) LastFrame() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDrawn, s.lastCulled
}

func (s *sceneImpl) ShaderPaths() []string {
	var paths []string
	for _, p := range []string{s.vertexPath, s.fragmentPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (s *sceneImpl) ReloadShaders() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.reload()
	if err != nil {
		log.Printf("[Shader] reload failed, keeping previous pipeline: %v", err)
		return err
	}
	log.Printf("[Shader] reloaded %s", PipelineKey)
	return nil
}

func (s *sceneImpl) reload() error {
	p, err := s.buildPipeline()
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(p.BindGroupLayouts(), s.layouts) {
		return ErrLayoutChanged
	}
	block, err := paramsBlock(p)
	if err != nil {
		return err
	}
	if block.Size != s.layout.ParamsSize {
		return fmt.Errorf("%w: params size %d, bound %d", ErrLayoutChanged, block.Size, s.layout.ParamsSize)
	}
	if err := s.renderer.RegisterPipeline(p); err != nil {
		return err
	}
	s.pipeline = p
	s.params = uniform.NewParams(block)
	return nil
}

func (s *sceneImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.material.Release()
	s.frameProvider.Release()
	s.meshProvider.Release()
}
