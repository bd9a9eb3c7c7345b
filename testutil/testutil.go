package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/viterin/vek/vek32"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// Centers returns n class centers spaced along the diagonal, sep apart in
// every component, so that neighboring centers are sep*sqrt(dim) apart.
func Centers(n, dim int, sep float32) [][]float32 {
	centers := make([][]float32, n)
	for i := range centers {
		c := make([]float32, dim)
		for j := range c {
			c[j] = 1
		}
		centers[i] = vek32.MulNumber(c, float32(i)*sep)
	}
	return centers
}

// Blobs generates perClass entries for each of classes labels 0..classes-1,
// Gaussian around Centers(classes, dim, 1) with the given spread. Classes are
// interleaved so every prefix of the collection covers all classes.
func (r *RNG) Blobs(classes, perClass, dim int, spread float32) *dataset.Entries {
	sizes := make([]int, classes)
	for i := range sizes {
		sizes[i] = perClass
	}
	return r.blobs(sizes, dim, spread)
}

// SkewedBlobs generates num entries like Blobs, with class sizes drawn from
// a Zipf distribution of skew s. Every class receives at least one entry.
func (r *RNG) SkewedBlobs(classes, num, dim int, spread float32, s float64) *dataset.Entries {
	sizes := make([]int, classes)
	for i := range sizes {
		sizes[i] = 1
	}
	for range max(num-classes, 0) {
		sizes[r.Zipf(classes, s)]++
	}
	return r.blobs(sizes, dim, spread)
}

func (r *RNG) blobs(sizes []int, dim int, spread float32) *dataset.Entries {
	centers := Centers(len(sizes), dim, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	es := dataset.New(dim)
	left := append([]int(nil), sizes...)
	for more := true; more; {
		more = false
		for label, n := range left {
			if n == 0 {
				continue
			}
			left[label]--
			more = true

			noise := make([]float32, dim)
			for j := range noise {
				noise[j] = float32(r.rand.NormFloat64()) * spread
			}
			_ = es.Append(dataset.NewEntry(vek32.Add(centers[label], noise), label))
		}
	}
	es.SetTotalKnown(true)
	return es
}

// DropComponents marks each component of every entry missing with the given
// probability, keeping at least one known component per entry.
func (r *RNG) DropComponents(es *dataset.Entries, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range es.All() {
		for j := range e.Dim() {
			if e.MissingCount() == e.Dim()-1 {
				break
			}
			if r.rand.Float64() < rate {
				e.SetMissing(j)
			}
		}
	}
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}
