package distance

import (
	"github.com/x448/float16"
)

// Quantize converts a float32 embedding into raw float16 bits, halving the
// resident size of a loaded graph. Values outside the float16 range saturate
// to +/-Inf, which is acceptable for normalized embeddings (components are
// well inside [-1, 1]).
func Quantize(vec []float32) []uint16 {
	out := make([]uint16, len(vec))
	for i, v := range vec {
		out[i] = float16.Fromfloat32(v).Bits()
	}
	return out
}

// Dequantize expands float16 bits back to float32. Used by tooling and
// tests; the hot comparison path decodes into pooled buffers instead.
func Dequantize(bits []uint16) []float32 {
	out := make([]float32, len(bits))
	decodeF16(bits, out)
	return out
}
