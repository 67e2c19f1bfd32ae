package material

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithMixRatio is an option builder that sets the initial blend of the second texture over the first.
//
// Parameters:
//   - ratio: the blend ratio, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the mix ratio option to a material
func WithMixRatio(ratio float32) MaterialBuilderOption {
	return func(m *material) {
		m.mixRatio = min(max(ratio, 0), 1)
	}
}

// WithTextures is an option builder that sets the texture manager holding the material's units.
//
// Parameters:
//   - textures: the texture manager
//
// Returns:
//   - MaterialBuilderOption: a function that applies the textures option to a material
func WithTextures(textures texture.Manager) MaterialBuilderOption {
	return func(m *material) {
		m.textures = textures
	}
}

// WithFirstBinding is an option builder that sets the binding of texture unit 0.
//
// Parameters:
//   - binding: the first binding index
//
// Returns:
//   - MaterialBuilderOption: a function that applies the binding option to a material
func WithFirstBinding(binding int) MaterialBuilderOption {
	return func(m *material) {
		m.firstBinding = binding
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
