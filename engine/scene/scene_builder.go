package scene

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
)

// SceneBuilderOption is a functional option applied to a scene in NewScene.
type SceneBuilderOption func(*sceneImpl)

// WithShaderPaths loads the vertex and fragment shaders from files instead of the built-in
// sources. An empty path keeps the built-in source for that stage.
//
// Parameters:
//   - vertex: the vertex shader file
//   - fragment: the fragment shader file
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaderPaths(vertex, fragment string) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.vertexPath = vertex
		s.fragmentPath = fragment
	}
}

// WithTextureSpecs sets the textures loaded into the manager at construction, in unit order.
//
// Parameters:
//   - specs: the textures to load
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextureSpecs(specs ...texture.Spec) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.textureSpecs = specs
	}
}

// WithTextureManager supplies a manager, possibly already holding textures.
func WithTextureManager(m texture.Manager) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.materialOptions = append(s.materialOptions, material.WithTextures(m))
	}
}

// WithMixRatio sets the initial blend of the second texture over the first.
func WithMixRatio(ratio float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.materialOptions = append(s.materialOptions, material.WithMixRatio(ratio))
	}
}

// WithCulling enables or disables skipping cubes outside the view frustum. Enabled by default.
func WithCulling(enabled bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.culling = enabled
	}
}
