package entry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 16

var (
	// ErrShortHeader is returned when fewer than HeaderSize bytes are available.
	ErrShortHeader = errors.New("entry: short header")

	// ErrSizeMismatch is returned when a header disagrees with the length of its entry.
	ErrSizeMismatch = errors.New("entry: header does not match entry size")
)

// Header prefixes every persisted entry.
type Header struct {
	KeySize   uint64
	ValueSize uint64
}

// FileSize returns the size of the entry described by h.
func (h Header) FileSize() int64 {
	return HeaderSize + int64(h.KeySize) + int64(h.ValueSize)
}

// Validate checks that h describes an entry of exactly size bytes.
func (h Header) Validate(size int64) error {
	// Guard the sum against wrap-around from garbage headers.
	if h.KeySize > uint64(size) || h.ValueSize > uint64(size) || h.FileSize() != size {
		return fmt.Errorf("%w: key %d, value %d, entry %d bytes", ErrSizeMismatch, h.KeySize, h.ValueSize, size)
	}
	return nil
}

// FileSize returns the size of the entry file for a key and value of the given lengths.
func FileSize(keyLen, valueLen int) int64 {
	return HeaderSize + int64(keyLen) + int64(valueLen)
}

// Encode serializes header, key and value into a newly allocated buffer.
func Encode(key, value []byte) []byte {
	buf := make([]byte, FileSize(len(key), len(value)))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(key)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(value)))
	n := copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+n:], value)
	return buf
}

// DecodeHeader reads the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	return Header{
		KeySize:   binary.LittleEndian.Uint64(b[0:8]),
		ValueSize: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

// ReadHeader reads a header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrShortHeader
		}
		return Header{}, err
	}
	return DecodeHeader(b[:])
}

// Key returns the key stored in an entry buffer. b must have been validated against h.
func Key(b []byte, h Header) []byte {
	return b[HeaderSize : HeaderSize+h.KeySize]
}

// Value returns the value stored in an entry buffer. b must have been validated against h.
func Value(b []byte, h Header) []byte {
	start := HeaderSize + h.KeySize
	return b[start : start+h.ValueSize]
}

// FileName returns the name of the file persisting entry id.
func FileName(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseFileName parses an entry file name back into its ID.
func ParseFileName(name string) (uint32, bool) {
	id, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}
