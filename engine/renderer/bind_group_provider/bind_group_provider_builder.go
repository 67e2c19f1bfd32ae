package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithMeshRange presets the mesh layout, for providers whose buffer is attached later with SetMesh.
//
// Parameters:
//   - r: the index and vertex placement
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh range
func WithMeshRange(r MeshRange) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.meshRange = r
	}
}
