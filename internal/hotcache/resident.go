package hotcache

import "github.com/hupe1980/blobcache/internal/mmap"

// Kind tells how a resident's bytes are backed.
type Kind uint8

const (
	// KindOwned is a heap buffer created by a write.
	KindOwned Kind = iota + 1
	// KindMapped is an mmap view of an entry file.
	KindMapped
)

func (k Kind) String() string {
	switch k {
	case KindOwned:
		return "owned"
	case KindMapped:
		return "mapped"
	default:
		return "unknown"
	}
}

// Resident is an entry buffer held by the hot cache.
type Resident struct {
	kind    Kind
	owned   []byte
	mapping *mmap.Mapping
}

// Owned wraps a heap buffer.
func Owned(b []byte) Resident {
	return Resident{kind: KindOwned, owned: b}
}

// Mapped wraps a file mapping. The resident takes ownership of m.
func Mapped(m *mmap.Mapping) Resident {
	return Resident{kind: KindMapped, mapping: m}
}

// Kind returns how r is backed.
func (r Resident) Kind() Kind { return r.kind }

// Bytes returns the full entry buffer (header, key and value).
func (r Resident) Bytes() []byte {
	switch r.kind {
	case KindMapped:
		return r.mapping.Bytes()
	case KindOwned:
		return r.owned
	default:
		return nil
	}
}

// Size returns the number of resident bytes.
func (r Resident) Size() int64 {
	switch r.kind {
	case KindMapped:
		return int64(r.mapping.Size())
	case KindOwned:
		return int64(len(r.owned))
	default:
		return 0
	}
}

// Release frees what r holds.
func (r Resident) Release() error {
	switch r.kind {
	case KindMapped:
		return r.mapping.Close()
	case KindOwned:
		// The write worker may still reference the buffer; the GC reclaims it after both let go.
		return nil
	default:
		return nil
	}
}
