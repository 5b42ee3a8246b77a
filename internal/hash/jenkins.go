package hash

// JenkinsMix folds one 32-bit word into hash.
func JenkinsMix(hash, data uint32) uint32 {
	hash += data
	hash += hash << 10
	hash ^= hash >> 6
	return hash
}

// JenkinsMixBytes mixes the length and contents of b into hash.
// The result is not whitened, so successive calls can be chained.
func JenkinsMixBytes(hash uint32, b []byte) uint32 {
	hash = JenkinsMix(hash, uint32(len(b)))

	n := len(b) &^ 3
	i := 0
	for ; i < n; i += 4 {
		data := uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16 | uint32(b[i+3])<<24
		hash = JenkinsMix(hash, data)
	}

	if rem := len(b) & 3; rem != 0 {
		data := uint32(b[i])
		if rem > 1 {
			data |= uint32(b[i+1]) << 8
		}
		if rem > 2 {
			data |= uint32(b[i+2]) << 16
		}
		hash = JenkinsMix(hash, data)
	}

	return hash
}

// EntryID returns the identifier used to index and name the entry for key.
func EntryID(key []byte) uint32 {
	return JenkinsMixBytes(0, key)
}
