package dis

import (
	"encoding/binary"
	"math"
)

// reader is a cursor over the instruction bytes. All multi-byte values
// are little-endian. Bounds are the caller's responsibility: every use
// sits under the known total length of the byte sequence.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte, pos int) *reader {
	return &reader{data: data, pos: pos}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) uint8() uint8 {
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) int8() int8 {
	return int8(r.uint8())
}

func (r *reader) uint16() uint16 {
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) int16() int16 {
	return int16(r.uint16())
}

func (r *reader) uint32() uint32 {
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) int32() int32 {
	return int32(r.uint32())
}

func (r *reader) uint64() uint64 {
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

func (r *reader) int64() int64 {
	return int64(r.uint64())
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *reader) float64() float64 {
	return math.Float64frombits(r.uint64())
}
