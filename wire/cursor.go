// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import "encoding/binary"

// Reader walks a byte buffer in network byte order.
//
// Every read either consumes exactly the requested bytes or fails with
// [ErrNeedData] leaving the cursor where it was. The zero value is not
// useful; construct with [NewReader].
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a [*Reader] positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Seek moves the cursor to the absolute position off, which must lie
// inside the buffer or at its end.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return ErrNeedData
	}
	r.off = off
	return nil
}

// Rest consumes and returns all the unread bytes.
func (r *Reader) Rest() []byte {
	out := r.buf[r.off:]
	r.off = len(r.buf)
	return out
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrNeedData
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// Uint16 reads a big-endian 16-bit integer.
func (r *Reader) Uint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrNeedData
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// Uint24 reads a big-endian 24-bit integer into the low bits of a uint32.
func (r *Reader) Uint24() (uint32, error) {
	if r.Remaining() < 3 {
		return 0, ErrNeedData
	}
	b := r.buf[r.off:]
	r.off += 3
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Uint32 reads a big-endian 32-bit integer.
func (r *Reader) Uint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrNeedData
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Bytes reads exactly n bytes. The returned slice aliases the input buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrNeedData
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

// Writer accumulates bytes in network byte order. The zero value is an
// empty writer ready for use.
type Writer struct {
	buf []byte
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Uint8 appends one byte.
func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

// Uint16 appends a big-endian 16-bit integer.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// Uint24 appends the low 24 bits of v big-endian.
func (w *Writer) Uint24(v uint32) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

// Uint32 appends a big-endian 32-bit integer.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// Write appends b verbatim.
func (w *Writer) Write(b []byte) {
	w.buf = append(w.buf, b...)
}
