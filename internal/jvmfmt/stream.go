// JVM class-file data stream reader.
// All multi-byte quantities in a class file are big-endian (JVMS §4).
package jvmfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrStreamEOF     = errors.New("stream: unexpected end of data")
	ErrStreamOverrun = errors.New("stream: length exceeds remaining data")
)

// Stream reads class-file data: u1, u2, u4 and length-prefixed blobs.
type Stream struct {
	data []byte
	pos  int
	end  int
}

// NewStream creates a stream over the given data.
func NewStream(data []byte) *Stream {
	return &Stream{data: data, pos: 0, end: len(data)}
}

// Position returns the current read position.
func (s *Stream) Position() int { return s.pos }

// Remaining returns bytes left to read.
func (s *Stream) Remaining() int { return s.end - s.pos }

// ReadU1 reads an unsigned byte.
func (s *Stream) ReadU1() (uint8, error) {
	if s.pos >= s.end {
		return 0, ErrStreamEOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ReadU2 reads a big-endian uint16.
func (s *Stream) ReadU2() (uint16, error) {
	if s.pos+2 > s.end {
		return 0, ErrStreamEOF
	}
	v := binary.BigEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v, nil
}

// ReadU4 reads a big-endian uint32.
func (s *Stream) ReadU4() (uint32, error) {
	if s.pos+4 > s.end {
		return 0, ErrStreamEOF
	}
	v := binary.BigEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, nil
}

// ReadU8 reads a big-endian uint64 (the high/low pair of a Long or Double).
func (s *Stream) ReadU8() (uint64, error) {
	if s.pos+8 > s.end {
		return 0, ErrStreamEOF
	}
	v := binary.BigEndian.Uint64(s.data[s.pos:])
	s.pos += 8
	return v, nil
}

// ReadBytes reads n bytes into a new slice.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 || s.pos+n > s.end {
		return nil, ErrStreamEOF
	}
	out := make([]byte, n)
	copy(out, s.data[s.pos:s.pos+n])
	s.pos += n
	return out, nil
}

// Skip advances the position by n bytes.
func (s *Stream) Skip(n int) error {
	if n < 0 || s.pos+n > s.end {
		return ErrStreamEOF
	}
	s.pos += n
	return nil
}

// SkipU4Blob skips a u4 length followed by that many bytes. This is the
// layout of every attribute_info body.
func (s *Stream) SkipU4Blob() error {
	at := s.pos
	n, err := s.ReadU4()
	if err != nil {
		return err
	}
	if uint64(n) > uint64(s.Remaining()) {
		return fmt.Errorf("%w: %d bytes declared at offset %d, %d left",
			ErrStreamOverrun, n, at, s.Remaining())
	}
	s.pos += int(n)
	return nil
}
