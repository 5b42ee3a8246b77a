package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/blobcache/internal/hash"
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

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Key returns a printable key of n bytes.
func (r *RNG) Key(n int) []byte {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return b
}

// Blob returns a pseudo-random blob with a length in [minLen, maxLen].
func (r *RNG) Blob(minLen, maxLen int) []byte {
	n := minLen
	if maxLen > minLen {
		n += r.Intn(maxLen - minLen + 1)
	}
	return r.Bytes(n)
}

// CollidingKeys returns two distinct keys of length n that map to the same
// entry ID. n must be large enough to make collisions possible (4 or more).
func CollidingKeys(r *RNG, n int) ([]byte, []byte) {
	seen := make(map[uint32][]byte)
	for {
		k := r.Key(n)
		id := hash.EntryID(k)
		if prev, ok := seen[id]; ok && string(prev) != string(k) {
			return prev, k
		}
		seen[id] = k
	}
}
