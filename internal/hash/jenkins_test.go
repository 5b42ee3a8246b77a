package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJenkinsMix(t *testing.T) {
	// 0 + 1 = 1; 1 + 1<<10 = 1025; 1025 ^ (1025 >> 6) = 1025 ^ 16 = 1041
	assert.Equal(t, uint32(1041), JenkinsMix(0, 1))
	assert.Equal(t, uint32(0), JenkinsMix(0, 0))
}

func TestJenkinsMixBytes_Empty(t *testing.T) {
	// Only the length word is mixed in.
	assert.Equal(t, JenkinsMix(0, 0), JenkinsMixBytes(0, nil))
	assert.Equal(t, JenkinsMixBytes(0, nil), JenkinsMixBytes(0, []byte{}))
}

func TestJenkinsMixBytes_MatchesWordwiseMix(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	want := JenkinsMix(0, 6)
	want = JenkinsMix(want, 0x04030201)
	want = JenkinsMix(want, 0x0605)

	assert.Equal(t, want, JenkinsMixBytes(0, b))
}

func TestJenkinsMixBytes_TailLengths(t *testing.T) {
	seen := make(map[uint32]int)
	for n := 0; n <= 8; n++ {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i + 1)
		}
		seen[JenkinsMixBytes(0, b)] = n
	}
	// Every prefix length hashes differently.
	assert.Len(t, seen, 9)
}

func TestEntryID_Deterministic(t *testing.T) {
	k1 := []byte("k1")
	assert.Equal(t, EntryID(k1), EntryID([]byte("k1")))
	assert.NotEqual(t, EntryID(k1), EntryID([]byte("k2")))
	assert.Equal(t, JenkinsMixBytes(0, k1), EntryID(k1))
}
