package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Float32sToBytes packs a float32 slice into a little-endian byte slice for GPU upload.
// The returned slice owns its memory.
//
// Parameters:
//   - data: the floats to pack
//
// Returns:
//   - []byte: 4*len(data) bytes, or nil if data is empty
func Float32sToBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// Uint32sToBytes packs a uint32 slice into a little-endian byte slice for GPU upload.
//
// Parameters:
//   - data: the values to pack
//
// Returns:
//   - []byte: 4*len(data) bytes, or nil if data is empty
func Uint32sToBytes(data []uint32) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// Mat4ToBytes packs a column-major 4x4 matrix into 64 little-endian bytes,
// matching the memory layout of a WGSL mat4x4<f32>.
func Mat4ToBytes(m mgl32.Mat4) []byte {
	return Float32sToBytes(m[:])
}

// AlignUp rounds value up to the next multiple of alignment.
// An alignment of zero returns value unchanged.
//
// Parameters:
//   - value: the value to align
//   - alignment: the required alignment in bytes
//
// Returns:
//   - uint64: value rounded up to a multiple of alignment
func AlignUp(value, alignment uint64) uint64 {
	if alignment == 0 {
		return value
	}
	if alignment&(alignment-1) == 0 {
		return (value + alignment - 1) &^ (alignment - 1)
	}
	return (value + alignment - 1) / alignment * alignment
}
