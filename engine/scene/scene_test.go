package scene

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-cubes/engine/world"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records what the scene asks of the GPU. Methods the scene never calls
// fall through to the nil embedded interface.
type fakeRenderer struct {
	renderer.Renderer

	alignment  uint64
	registered []pipeline.Pipeline
	mesh       buffer.SharedMesh
	bufferSize uint64
	bindGroups map[string]map[int]renderer.BufferRange
	textures   []int
	samplers   []int
	offsets    []uint32
	failDraw   func(call int) error
	uploads    map[uint64][]byte
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		alignment:  256,
		bindGroups: make(map[string]map[int]renderer.BufferRange),
		uploads:    make(map[uint64][]byte),
	}
}

func (f *fakeRenderer) RegisterPipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.registered = append(f.registered, p)
	return nil
}

func (f *fakeRenderer) UniformAlignment() uint64 { return f.alignment }

func (f *fakeRenderer) InitMesh(_ bind_group_provider.BindGroupProvider, mesh buffer.SharedMesh) error {
	f.mesh = mesh
	return nil
}

func (f *fakeRenderer) InitUniformBuffer(_ bind_group_provider.BindGroupProvider, _ int, size uint64) error {
	f.bufferSize = size
	return nil
}

func (f *fakeRenderer) InitTexture(_ bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData) error {
	f.textures = append(f.textures, binding)
	return nil
}

func (f *fakeRenderer) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.samplers = append(f.samplers, binding)
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, ranges map[int]renderer.BufferRange) error {
	f.bindGroups[provider.Label()] = ranges
	return nil
}

func (f *fakeRenderer) BufferWriter(_ bind_group_provider.BindGroupProvider, _ int) uniform.BufferWriter {
	return f
}

func (f *fakeRenderer) WriteBuffer(offset uint64, data []byte) error {
	f.uploads[offset] = append([]byte(nil), data...)
	return nil
}

func (f *fakeRenderer) Draw(key string, _ bind_group_provider.BindGroupProvider, groups []renderer.BoundGroup) error {
	call := len(f.offsets)
	f.offsets = append(f.offsets, groups[0].DynamicOffsets[0])
	if f.failDraw != nil {
		if err := f.failDraw(call); err != nil {
			return err
		}
	}
	if key != PipelineKey {
		return errors.New("unexpected pipeline")
	}
	return nil
}

func testSpecs() []texture.Spec {
	return []texture.Spec{
		{Key: "wall", Fallback: func() image.Image { return texture.Face(8) }},
		{Key: "face", Fallback: func() image.Image { return texture.Face(8) }},
	}
}

func newTestScene(t *testing.T, f *fakeRenderer, options ...SceneBuilderOption) *sceneImpl {
	t.Helper()
	options = append([]SceneBuilderOption{WithTextureSpecs(testSpecs()...)}, options...)
	s, err := NewScene(f, world.NewWorld(world.DefaultPositions), options...)
	require.NoError(t, err)
	return s.(*sceneImpl)
}

func TestNewUniformLayout(t *testing.T) {
	l := NewUniformLayout(256, 16, 10)
	assert.Equal(t, uint64(256), l.ParamsOffset)
	assert.Equal(t, uint64(512), l.ModelsOffset)
	assert.Equal(t, uint64(256), l.SlotSize)
	assert.Equal(t, uint64(512+10*256), l.Capacity)

	l = NewUniformLayout(64, 16, 2)
	assert.Equal(t, uint64(128), l.ParamsOffset)
	assert.Equal(t, uint64(192), l.ModelsOffset)
	assert.Equal(t, uint64(64), l.SlotSize)
	assert.Equal(t, uint64(320), l.Capacity)

	assert.Equal(t, uint64(uniform.DefaultAlignment), NewUniformLayout(0, 16, 1).Alignment)
}

func TestRecordCubesRewindsFailedSlots(t *testing.T) {
	c := uniform.NewCursor(4096, uniform.WithAlignment(256))
	_, err := c.Push(make([]byte, 128))
	require.NoError(t, err)

	models := []mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(1, 0, 0), mgl32.Translate3D(2, 0, 0), mgl32.Translate3D(3, 0, 0)}
	var offsets []uint32
	draw := func(i int, offset uint32) error {
		offsets = append(offsets, offset)
		if i == 1 {
			return errors.New("no pipeline")
		}
		return nil
	}
	visible := func(i int) bool { return i != 3 }

	res, err := recordCubes(c, models, visible, draw)
	require.NoError(t, err)
	assert.Equal(t, 2, res.drawn)
	assert.Equal(t, 1, res.culled)
	assert.Equal(t, 1, res.skipped)
	assert.ErrorContains(t, res.skipErr, "cube 1")
	assert.Equal(t, []uint32{256, 512, 512}, offsets, "the failed slot is reused by the next cube")
	assert.Equal(t, uint64(512+64), c.Offset())

	staged := c.Bytes()
	require.Len(t, staged, 512+64)
	assert.Equal(t, common.Mat4ToBytes(models[2]), staged[512:])
}

func TestRecordCubesOverflow(t *testing.T) {
	c := uniform.NewCursor(300, uniform.WithAlignment(256))
	models := []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}
	res, err := recordCubes(c, models, func(int) bool { return true }, func(int, uint32) error { return nil })
	require.ErrorIs(t, err, uniform.ErrOverflow)
	assert.Equal(t, 1, res.drawn)
}

func TestNewSceneBindsResources(t *testing.T) {
	f := newFakeRenderer()
	s := newTestScene(t, f)

	require.Len(t, f.registered, 1)
	assert.Equal(t, PipelineKey, s.Pipeline().PipelineKey())
	assert.Equal(t, uint32(len(world.CubeIndices)), uint32(f.mesh.IndexCount))

	l := s.Layout()
	assert.Equal(t, uint64(512), l.ModelsOffset)
	assert.Equal(t, l.Capacity, f.bufferSize)

	frame := f.bindGroups["Cube Frame"]
	assert.Equal(t, renderer.BufferRange{Buffer: 0, Offset: 0, Size: camera.GPUFrameUniformSize}, frame[frameBinding])
	assert.Equal(t, renderer.BufferRange{Buffer: 0, Offset: 0, Size: world.GPUModelUniformSize}, frame[modelBinding])
	assert.Equal(t, uint64(256), frame[paramsBinding].Offset)

	assert.Equal(t, []int{0, 2}, f.textures)
	assert.Equal(t, []int{1, 3}, f.samplers)
	assert.Equal(t, 2, s.Textures().Len())

	group0 := s.Pipeline().BindGroupLayouts()[0]
	require.Len(t, group0.Entries, 3)
	assert.True(t, group0.Entries[1].Buffer.HasDynamicOffset)
}

func TestNewSceneTextureCountMismatch(t *testing.T) {
	f := newFakeRenderer()
	_, err := NewScene(f, world.NewWorld(world.DefaultPositions), WithTextureSpecs(testSpecs()[:1]...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shaders sample 2 textures, 1 loaded")
}

func TestFrameWritesUniformsAndDraws(t *testing.T) {
	f := newFakeRenderer()
	s := newTestScene(t, f, WithCulling(false), WithMixRatio(0.5))
	s.SetTime(1.5)

	cam := camera.NewCamera()
	drawn, err := s.Frame(cam.ViewMatrix(), cam.ProjectionMatrix())
	require.NoError(t, err)
	assert.Equal(t, len(world.DefaultPositions), drawn)

	require.Len(t, f.offsets, drawn)
	for i, off := range f.offsets {
		assert.Equal(t, uint32(512+256*i), off)
	}

	data := f.uploads[0]
	require.Len(t, data, 512+256*(drawn-1)+64)

	frame := camera.GPUFrameUniform{Projection: cam.ProjectionMatrix(), View: cam.ViewMatrix()}
	assert.Equal(t, frame.Marshal(), data[:128])

	params := data[256:]
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(params[0:])))
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(params[4:])))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(params[8:]))

	w := s.World()
	for i := 0; i < w.Len(); i++ {
		start := 512 + 256*i
		assert.Equal(t, common.Mat4ToBytes(w.Model(i)), data[start:start+64], "cube %d", i)
	}

	drawnLast, culled := s.LastFrame()
	assert.Equal(t, drawn, drawnLast)
	assert.Zero(t, culled)
}

func TestFrameCullsCubesBehindCamera(t *testing.T) {
	f := newFakeRenderer()
	positions := []mgl32.Vec3{{0, 0, 0}, {0, 0, 20}}
	s, err := NewScene(f, world.NewWorld(positions), WithTextureSpecs(testSpecs()...))
	require.NoError(t, err)

	cam := camera.NewCamera()
	drawn, err := s.Frame(cam.ViewMatrix(), cam.ProjectionMatrix())
	require.NoError(t, err)
	assert.Equal(t, 1, drawn)
	_, culled := s.LastFrame()
	assert.Equal(t, 1, culled)
}

func TestFrameSkipsFailedDraw(t *testing.T) {
	f := newFakeRenderer()
	f.failDraw = func(call int) error {
		if call == 0 {
			return errors.New("bind group missing")
		}
		return nil
	}
	s := newTestScene(t, f, WithCulling(false))

	cam := camera.NewCamera()
	drawn, err := s.Frame(cam.ViewMatrix(), cam.ProjectionMatrix())
	require.NoError(t, err)
	assert.Equal(t, len(world.DefaultPositions)-1, drawn)
	assert.Equal(t, uint32(512), f.offsets[0])
	assert.Equal(t, uint32(512), f.offsets[1], "second cube takes the rewound slot")
}

func TestSetMixRatioClamps(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	s.SetMixRatio(3)
	assert.Equal(t, float32(1), s.material.MixRatio())
	s.SetMixRatio(-1)
	assert.Equal(t, float32(0), s.material.MixRatio())
}

func TestReloadShaders(t *testing.T) {
	dir := t.TempDir()
	vertexPath := filepath.Join(dir, "cube_vertex.wgsl")
	require.NoError(t, os.WriteFile(vertexPath, []byte(cubeVertexSource), 0o644))

	f := newFakeRenderer()
	s := newTestScene(t, f, WithShaderPaths(vertexPath, ""))
	assert.Equal(t, []string{vertexPath}, s.ShaderPaths())
	first := s.Pipeline()

	require.NoError(t, s.ReloadShaders())
	assert.Len(t, f.registered, 2)
	assert.NotSame(t, first, s.Pipeline())

	t.Run("compile error keeps pipeline", func(t *testing.T) {
		current := s.Pipeline()
		require.NoError(t, os.WriteFile(vertexPath, []byte("//@oxy:include nonsense\n"), 0o644))
		assert.Error(t, s.ReloadShaders())
		assert.Same(t, current, s.Pipeline())
	})

	t.Run("layout change is refused", func(t *testing.T) {
		current := s.Pipeline()
		src := strings.Replace(cubeVertexSource, "model_uniform dynamic", "model_uniform", 1)
		require.NoError(t, os.WriteFile(vertexPath, []byte(src), 0o644))
		assert.ErrorIs(t, s.ReloadShaders(), ErrLayoutChanged)
		assert.Same(t, current, s.Pipeline())
	})
}

func TestBuiltinShaderPaths(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	assert.Empty(t, s.ShaderPaths())
}
