// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"bytes"
	"fmt"

	"github.com/bassosimone/wirecodec/wire"
)

// Question is one entry of a message's question section.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// ResourceRecord is one entry of a message's answer, authority, or
// additional section.
type ResourceRecord struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32

	// Raw holds the rdata exactly as it appeared on the wire. [Decode]
	// always fills it. When non-nil, [*Message.Encode] emits it
	// verbatim, preserving any compression pointers it contains, so a
	// decoded message re-encodes byte for byte.
	Raw []byte

	// Data is the typed view of the rdata. [Decode] fills it for the
	// record types it understands. [*Message.Encode] consults it only
	// when Raw is nil.
	Data RData
}

// Message is a DNS message. The header flags live packed in Flags, with
// masked accessors for the individual fields; setting one field never
// disturbs another.
type Message struct {
	ID         uint16
	Flags      uint16
	Questions  []Question
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// Views over the RFC 1035 (and RFC 2535 for AD/CD) header flag bits.
var (
	qrBit      = wire.Bits[uint16]{Shift: 15, Width: 1}
	opcodeBits = wire.Bits[uint16]{Shift: 11, Width: 4}
	aaBit      = wire.Bits[uint16]{Shift: 10, Width: 1}
	tcBit      = wire.Bits[uint16]{Shift: 9, Width: 1}
	rdBit      = wire.Bits[uint16]{Shift: 8, Width: 1}
	raBit      = wire.Bits[uint16]{Shift: 7, Width: 1}
	zBit       = wire.Bits[uint16]{Shift: 6, Width: 1}
	adBit      = wire.Bits[uint16]{Shift: 5, Width: 1}
	cdBit      = wire.Bits[uint16]{Shift: 4, Width: 1}
	rcodeBits  = wire.Bits[uint16]{Shift: 0, Width: 4}
)

// QR reports whether the message is a response.
func (m *Message) QR() bool { return qrBit.GetFlag(m.Flags) }

// SetQR marks the message as a response (true) or a query (false).
func (m *Message) SetQR(v bool) { m.Flags = qrBit.SetFlag(m.Flags, v) }

// Opcode returns the operation code.
func (m *Message) Opcode() uint8 { return uint8(opcodeBits.Get(m.Flags)) }

// SetOpcode sets the operation code.
func (m *Message) SetOpcode(v uint8) { m.Flags = opcodeBits.Set(m.Flags, uint16(v)) }

// AA reports the authoritative-answer flag.
func (m *Message) AA() bool { return aaBit.GetFlag(m.Flags) }

// SetAA sets the authoritative-answer flag.
func (m *Message) SetAA(v bool) { m.Flags = aaBit.SetFlag(m.Flags, v) }

// TC reports the truncation flag.
func (m *Message) TC() bool { return tcBit.GetFlag(m.Flags) }

// SetTC sets the truncation flag.
func (m *Message) SetTC(v bool) { m.Flags = tcBit.SetFlag(m.Flags, v) }

// RD reports the recursion-desired flag.
func (m *Message) RD() bool { return rdBit.GetFlag(m.Flags) }

// SetRD sets the recursion-desired flag.
func (m *Message) SetRD(v bool) { m.Flags = rdBit.SetFlag(m.Flags, v) }

// RA reports the recursion-available flag.
func (m *Message) RA() bool { return raBit.GetFlag(m.Flags) }

// SetRA sets the recursion-available flag.
func (m *Message) SetRA(v bool) { m.Flags = raBit.SetFlag(m.Flags, v) }

// Z reports the reserved Z bit.
func (m *Message) Z() bool { return zBit.GetFlag(m.Flags) }

// SetZ sets the reserved Z bit.
func (m *Message) SetZ(v bool) { m.Flags = zBit.SetFlag(m.Flags, v) }

// AD reports the authentic-data flag.
func (m *Message) AD() bool { return adBit.GetFlag(m.Flags) }

// SetAD sets the authentic-data flag.
func (m *Message) SetAD(v bool) { m.Flags = adBit.SetFlag(m.Flags, v) }

// CD reports the checking-disabled flag.
func (m *Message) CD() bool { return cdBit.GetFlag(m.Flags) }

// SetCD sets the checking-disabled flag.
func (m *Message) SetCD(v bool) { m.Flags = cdBit.SetFlag(m.Flags, v) }

// Rcode returns the response code.
func (m *Message) Rcode() uint8 { return uint8(rcodeBits.Get(m.Flags)) }

// SetRcode sets the response code.
func (m *Message) SetRcode(v uint8) { m.Flags = rcodeBits.Set(m.Flags, uint16(v)) }

// Decode parses a raw DNS message. Bytes after the last counted record
// are ignored. The returned message does not alias buf.
func Decode(buf []byte) (*Message, error) {
	r := wire.NewReader(buf)
	var hdr [6]uint16
	for i := range hdr {
		v, err := r.Uint16()
		if err != nil {
			return nil, fmt.Errorf("%w: header", err)
		}
		hdr[i] = v
	}
	m := &Message{ID: hdr[0], Flags: hdr[1]}
	for i := 0; i < int(hdr[2]); i++ {
		q, err := decodeQuestion(buf, r)
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}
	sections := []struct {
		count uint16
		out   *[]ResourceRecord
	}{
		{hdr[3], &m.Answers},
		{hdr[4], &m.Authority},
		{hdr[5], &m.Additional},
	}
	for _, sec := range sections {
		for i := 0; i < int(sec.count); i++ {
			rr, err := decodeRR(buf, r)
			if err != nil {
				return nil, err
			}
			*sec.out = append(*sec.out, rr)
		}
	}
	return m, nil
}

func decodeQuestion(buf []byte, r *wire.Reader) (Question, error) {
	name, off, err := unpackName(buf, r.Offset())
	if err != nil {
		return Question{}, err
	}
	if err := r.Seek(off); err != nil {
		return Question{}, err
	}
	qtype, err := r.Uint16()
	if err != nil {
		return Question{}, fmt.Errorf("%w: question", err)
	}
	qclass, err := r.Uint16()
	if err != nil {
		return Question{}, fmt.Errorf("%w: question", err)
	}
	return Question{Name: name, Type: qtype, Class: qclass}, nil
}

func decodeRR(buf []byte, r *wire.Reader) (ResourceRecord, error) {
	name, off, err := unpackName(buf, r.Offset())
	if err != nil {
		return ResourceRecord{}, err
	}
	if err := r.Seek(off); err != nil {
		return ResourceRecord{}, err
	}
	var fixed [2]uint16
	for i := range fixed {
		v, err := r.Uint16()
		if err != nil {
			return ResourceRecord{}, fmt.Errorf("%w: RR fixed fields", err)
		}
		fixed[i] = v
	}
	ttl, err := r.Uint32()
	if err != nil {
		return ResourceRecord{}, fmt.Errorf("%w: RR fixed fields", err)
	}
	rdlen, err := r.Uint16()
	if err != nil {
		return ResourceRecord{}, fmt.Errorf("%w: RR fixed fields", err)
	}
	rdataOff := r.Offset()
	rdata, err := r.Bytes(int(rdlen))
	if err != nil {
		return ResourceRecord{}, fmt.Errorf("%w: RR rdata", err)
	}
	rr := ResourceRecord{
		Name:  name,
		Type:  fixed[0],
		Class: fixed[1],
		TTL:   ttl,
		Raw:   bytes.Clone(rdata),
	}
	codec, ok := rdataCodecs[rr.Type]
	if !ok {
		return ResourceRecord{}, fmt.Errorf("%w: RR type %d is not supported", wire.ErrDecode, rr.Type)
	}
	if rr.Data, err = codec.decode(buf, rdataOff, rdata); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Encode serializes the message. Section counts come from the slice
// lengths. Names are compressed against a label table created fresh for
// this call, so encoding is deterministic and messages never share
// compression state.
func (m *Message) Encode() ([]byte, error) {
	w := &wire.Writer{}
	table := make(map[string]int)
	w.Uint16(m.ID)
	w.Uint16(m.Flags)
	w.Uint16(uint16(len(m.Questions)))
	w.Uint16(uint16(len(m.Answers)))
	w.Uint16(uint16(len(m.Authority)))
	w.Uint16(uint16(len(m.Additional)))
	for _, q := range m.Questions {
		name, err := packName(q.Name, w.Len(), table)
		if err != nil {
			return nil, err
		}
		w.Write(name)
		w.Uint16(q.Type)
		w.Uint16(q.Class)
	}
	for _, sec := range [][]ResourceRecord{m.Answers, m.Authority, m.Additional} {
		for i := range sec {
			if err := encodeRR(w, &sec[i], table); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes(), nil
}

func encodeRR(w *wire.Writer, rr *ResourceRecord, table map[string]int) error {
	name, err := packName(rr.Name, w.Len(), table)
	if err != nil {
		return err
	}
	// The rdata starts after the name plus the ten bytes of fixed RR
	// fields; names inside it compress against the same table.
	rdata, err := rr.encodeRData(w.Len()+len(name)+10, table)
	if err != nil {
		return err
	}
	w.Write(name)
	w.Uint16(rr.Type)
	w.Uint16(rr.Class)
	w.Uint32(rr.TTL)
	w.Uint16(uint16(len(rdata)))
	w.Write(rdata)
	return nil
}

func (rr *ResourceRecord) encodeRData(off int, table map[string]int) ([]byte, error) {
	if rr.Raw != nil {
		return rr.Raw, nil
	}
	codec, ok := rdataCodecs[rr.Type]
	if !ok || codec.encode == nil {
		return nil, fmt.Errorf("%w: no rdata encoder for RR type %d", wire.ErrPack, rr.Type)
	}
	return codec.encode(rr, off, table)
}
