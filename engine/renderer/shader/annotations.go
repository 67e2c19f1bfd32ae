// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive struct injection, bind group declaration, and resource
// provider registration. The parsed results are stored as Annotation values and consumed
// by the PreProcessor and the cube scene to wire GPU resources.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// at the annotation site. It produces no declaration.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include frame_uniform
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and records it in the declarations list. A trailing "dynamic" marks the binding as
	// addressed with a dynamic offset at draw time.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type> [dynamic]
	//
	// Example: //@oxy:group 0 1 storage_uniform model model_uniform dynamic
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a provider identity for a hand-written binding
	// (textures and samplers) without generating any WGSL output. An optional role names
	// the purpose of the binding within the provider's group.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 1 0 textures texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed (include, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "frame_uniform")
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line of the annotation.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int

	// Dynamic is set for group annotations carrying the trailing dynamic modifier.
	Dynamic bool
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────

const (
	// AnnotationArgFrameUniform identifies the FrameUniform struct (projection + view).
	// Source: engine/camera/assets/frame_uniform.wgsl
	AnnotationArgFrameUniform AnnotationArg = "frame_uniform"

	// AnnotationArgModelUniform identifies the per-cube ModelUniform struct.
	// Source: engine/world/assets/model_uniform.wgsl
	AnnotationArgModelUniform AnnotationArg = "model_uniform"

	// AnnotationArgSceneParams identifies the SceneParams struct (texture mix ratio).
	// Source: engine/world/assets/scene_params.wgsl
	AnnotationArgSceneParams AnnotationArg = "scene_params"

	// annotationArgVertex identifies the position + uv VertexInput struct.
	// Source: engine/renderer/buffer/assets/vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// annotationArgDynamic is the trailing modifier of a group annotation.
const annotationArgDynamic AnnotationArg = "dynamic"

// ── Provider identity and role arguments ───────────────────────────────────────

const (
	// AnnotationArgTextures identifies the texture manager's group of texture/sampler pairs.
	AnnotationArgTextures AnnotationArg = "textures"

	// AnnotationArgTexture marks a sampled texture binding inside a textures group.
	AnnotationArgTexture AnnotationArg = "texture"

	// AnnotationArgSampler marks a sampler binding inside a textures group.
	AnnotationArgSampler AnnotationArg = "sampler"
)

// validStructTypes lists the struct type arguments accepted by include and group annotations.
// Each entry must have a registryEntry in the PreProcessor's structRegistry.
var validStructTypes = []AnnotationArg{
	AnnotationArgFrameUniform,
	AnnotationArgModelUniform,
	AnnotationArgSceneParams,
	annotationArgVertex,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgTextures,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgTexture,
	AnnotationArgSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 && len(args) != 7 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, var name, struct type and an optional dynamic flag", lineNum)
		}
		groupInt, bindingInt, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		dynamic := false
		if len(args) == 7 {
			if AnnotationArg(args[6]) != annotationArgDynamic {
				return nil, fmt.Errorf("line %d: unknown modifier %q in @oxy group annotation", lineNum, args[6])
			}
			if AnnotationArg(args[3]) != annotationArgStorageTypeUniform {
				return nil, fmt.Errorf("line %d: dynamic offsets are only supported for storage_uniform bindings", lineNum)
			}
			dynamic = true
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
			Dynamic: dynamic,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		groupInt, bindingInt, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(group, binding string, lineNum int) (int, int, error) {
	groupInt, err := strconv.Atoi(group)
	if err != nil || groupInt < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, group)
	}
	bindingInt, err := strconv.Atoi(binding)
	if err != nil || bindingInt < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, binding)
	}
	return groupInt, bindingInt, nil
}
