// Package distance computes similarity between keyword embeddings.
//
// It supports the Cosine and Euclidean metrics over float32 vectors and over
// half-precision vectors stored as raw float16 bits. The package picks the
// best available implementation at init time: Gonum's BLAS routines (which
// dispatch to SIMD internally) for the float32 hot path, pure Go otherwise.
// CPU feature detection is only used to decide whether the float16 decode
// loop is worth running through the scalar fallback or batched conversion.
package distance

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"github.com/x448/float16"
	"gonum.org/v1/gonum/blas/gonum"
)

// Metric selects the distance function.
type Metric string

// Precision selects the stored embedding representation.
type Precision string

const (
	// Euclidean is the squared Euclidean distance.
	Euclidean Metric = "euclidean"
	// Cosine is cosine distance (1 - cosine similarity) on normalized input.
	Cosine Metric = "cosine"

	// Float32 stores embeddings as []float32.
	Float32 Precision = "float32"
	// Float16 stores embeddings as raw half-precision bits in []uint16.
	Float16 Precision = "float16"
)

// FuncF32 computes a distance between two float32 vectors.
type FuncF32 func(a, b []float32) (float64, error)

// FuncF16 computes a distance between two float16-bit vectors.
type FuncF16 func(a, b []uint16) (float64, error)

var errLengthMismatch = errors.New("vectors must have the same length")

func init() {
	// Gonum handles SIMD dispatch internally, so it always wins for the
	// float32 paths. The pure Go bodies stay as reference implementations
	// and as the float16 fallback after decoding.
	float32Funcs[Cosine] = dotAsDistanceGonum
	float32Funcs[Euclidean] = squaredEuclideanGonum

	slog.Debug("distance engine ready",
		"cosine_f32", "gonum",
		"euclidean_f32", "gonum",
		"f16_decode", f16DecodeMode(),
	)
}

func f16DecodeMode() string {
	if cpuid.CPU.Has(cpuid.F16C) {
		return "hardware-assisted"
	}
	return "scalar"
}

// --- Workspace pool ---

// scratch pools float32 slices for decoded float16 vectors and euclidean
// difference buffers, keeping the per-comparison path allocation free.
// 1536 covers the common embedding dimensions.
var scratch = sync.Pool{
	New: func() interface{} {
		s := make([]float32, 1536)
		return &s
	},
}

func borrow(n int) (*[]float32, []float32) {
	p := scratch.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	return p, (*p)[:n]
}

// --- Pure Go reference implementations ---

func squaredEuclideanGo(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errLengthMismatch
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float64(sum), nil
}

func dotGo(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errLengthMismatch
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return float64(sum), nil
}

func dotAsDistanceGo(a, b []float32) (float64, error) {
	dot, err := dotGo(a, b)
	if err != nil {
		return 0, err
	}
	return 1.0 - dot, nil
}

// --- Gonum implementations ---

var gonumEngine = gonum.Implementation{}

func dotAsDistanceGonum(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errLengthMismatch
	}
	dot := gonumEngine.Sdot(len(a), a, 1, b, 1)
	return 1.0 - float64(dot), nil
}

func squaredEuclideanGonum(a, b []float32) (float64, error) {
	n := len(a)
	if n != len(b) {
		return 0, errLengthMismatch
	}
	p, diff := borrow(n)
	defer scratch.Put(p)

	copy(diff, a)
	gonumEngine.Saxpy(n, -1, b, 1, diff, 1)
	dot := gonumEngine.Sdot(n, diff, 1, diff, 1)
	return float64(dot), nil
}

// --- Float16 implementations ---

// decodeF16 expands float16 bits into a borrowed float32 buffer.
func decodeF16(bits []uint16, dst []float32) {
	for i, b := range bits {
		dst[i] = float16.Frombits(b).Float32()
	}
}

func f16Distance(metric Metric) FuncF16 {
	return func(a, b []uint16) (float64, error) {
		if len(a) != len(b) {
			return 0, errLengthMismatch
		}
		n := len(a)
		pa, fa := borrow(n)
		defer scratch.Put(pa)
		pb, fb := borrow(n)
		defer scratch.Put(pb)
		decodeF16(a, fa)
		decodeF16(b, fb)
		return float32Funcs[metric](fa, fb)
	}
}

// --- Catalogs and dispatch ---

var float32Funcs = map[Metric]FuncF32{
	Euclidean: squaredEuclideanGo,
	Cosine:    dotAsDistanceGo,
}

var float16Funcs = map[Metric]FuncF16{
	Euclidean: f16Distance(Euclidean),
	Cosine:    f16Distance(Cosine),
}

// ForFloat32 returns the best float32 implementation for metric.
func ForFloat32(metric Metric) (FuncF32, error) {
	fn, ok := float32Funcs[metric]
	if !ok {
		return nil, errors.New("unsupported metric: " + string(metric))
	}
	return fn, nil
}

// ForFloat16 returns the best float16 implementation for metric.
func ForFloat16(metric Metric) (FuncF16, error) {
	fn, ok := float16Funcs[metric]
	if !ok {
		return nil, errors.New("unsupported metric: " + string(metric))
	}
	return fn, nil
}

// CosineSimilarityF32 is a convenience wrapper returning similarity in [0,1]
// for normalized embeddings, clamped against floating point drift. This is
// what edge derivation consumes.
func CosineSimilarityF32(a, b []float32) (float64, error) {
	d, err := float32Funcs[Cosine](a, b)
	if err != nil {
		return 0, err
	}
	sim := 1.0 - d
	if sim < 0 {
		sim = 0
	} else if sim > 1 {
		sim = 1
	}
	return sim, nil
}

// CosineSimilarityF16 is the float16-bit counterpart of CosineSimilarityF32.
func CosineSimilarityF16(a, b []uint16) (float64, error) {
	d, err := float16Funcs[Cosine](a, b)
	if err != nil {
		return 0, err
	}
	sim := 1.0 - d
	if sim < 0 {
		sim = 0
	} else if sim > 1 {
		sim = 1
	}
	return sim, nil
}
