package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("frame")
	assert.Equal(t, "frame", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
	assert.Nil(t, p.MeshBuffer())
	assert.Equal(t, MeshRange{}, p.MeshRange())
}

func TestMeshRange(t *testing.T) {
	r := MeshRange{IndexSize: 144, VertexOffset: 144, VertexSize: 320, IndexCount: 36}

	p := NewBindGroupProvider("cube", WithMeshRange(r))
	assert.Equal(t, r, p.MeshRange())

	r.VertexOffset = 256
	p.SetMesh(nil, r)
	assert.Equal(t, uint64(256), p.MeshRange().VertexOffset)
}

func TestReleaseClearsState(t *testing.T) {
	p := NewBindGroupProvider("textures", WithMeshRange(MeshRange{IndexCount: 6}))
	p.SetBuffer(0, nil)
	p.SetTexture(0, nil, nil)
	p.SetSampler(1, nil)
	p.SetBindGroup(nil, nil)

	assert.NotPanics(t, p.Release)
	assert.Equal(t, MeshRange{}, p.MeshRange())
	assert.NotPanics(t, p.Release, "release twice")
}
