// SPDX-License-Identifier: GPL-3.0-or-later

package gtpc

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bassosimone/wirecodec/wire"
)

// IEv1 is a GTPv1-C information element. Types with the high bit set
// are TLV form and carry an explicit 16-bit length on the wire; the
// remaining types are TV form with a fixed, implicit value length.
type IEv1 struct {
	Type uint8
	Data []byte
}

// TLV reports whether the IE uses the TLV wire form.
func (ie *IEv1) TLV() bool {
	return ie.Type&0x80 != 0
}

// Encode serializes the IE. A TV-form IE whose type has no known fixed
// length, or whose value size disagrees with that length, fails with
// [wire.ErrPack], since the peer could not frame it.
func (ie *IEv1) Encode() ([]byte, error) {
	w := &wire.Writer{}
	w.Uint8(ie.Type)
	if ie.TLV() {
		if len(ie.Data) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: IE type %d value is too large", wire.ErrPack, ie.Type)
		}
		w.Uint16(uint16(len(ie.Data)))
	} else {
		want, ok := tvLengths[ie.Type]
		if !ok {
			return nil, fmt.Errorf("%w: no fixed length for TV IE type %d", wire.ErrPack, ie.Type)
		}
		if len(ie.Data) != want {
			return nil, fmt.Errorf("%w: TV IE type %d wants %d value bytes, have %d",
				wire.ErrPack, ie.Type, want, len(ie.Data))
		}
	}
	w.Write(ie.Data)
	return w.Bytes(), nil
}

// DecodeIEv1 parses one IE at the start of buf, returning it along with
// the number of bytes it occupies on the wire. The returned IE does not
// alias buf.
func DecodeIEv1(buf []byte) (IEv1, int, error) {
	r := wire.NewReader(buf)
	ietype, err := r.Uint8()
	if err != nil {
		return IEv1{}, 0, fmt.Errorf("%w: IE type", err)
	}
	var vlen int
	if ietype&0x80 != 0 {
		length, err := r.Uint16()
		if err != nil {
			return IEv1{}, 0, fmt.Errorf("%w: truncated TLV IE length", wire.ErrDecode)
		}
		vlen = int(length)
	} else {
		want, ok := tvLengths[ietype]
		if !ok {
			return IEv1{}, 0, fmt.Errorf("%w: unknown TV IE type %d", wire.ErrDecode, ietype)
		}
		vlen = want
	}
	data, err := r.Bytes(vlen)
	if err != nil {
		return IEv1{}, 0, fmt.Errorf("%w: truncated IE type %d value", wire.ErrDecode, ietype)
	}
	return IEv1{Type: ietype, Data: bytes.Clone(data)}, r.Offset(), nil
}

// DecodeIEsV1 parses the ordered IE sequence filling buf completely.
func DecodeIEsV1(buf []byte) ([]IEv1, error) {
	var ies []IEv1
	for len(buf) > 0 {
		ie, n, err := DecodeIEv1(buf)
		if err != nil {
			return nil, err
		}
		ies = append(ies, ie)
		buf = buf[n:]
	}
	return ies, nil
}

// EncodeIEsV1 serializes the IEs back to back.
func EncodeIEsV1(ies []IEv1) ([]byte, error) {
	w := &wire.Writer{}
	for i := range ies {
		raw, err := ies[i].Encode()
		if err != nil {
			return nil, err
		}
		w.Write(raw)
	}
	return w.Bytes(), nil
}

// IEv2 is a GTPv2-C information element. Every IE uses the same wire
// form: type, 16-bit value length, one flags byte packing the CR flag
// (high nibble) and the instance id (low nibble), then the value.
type IEv2 struct {
	Type  uint8
	Flags uint8
	Data  []byte
}

// Views over the IEv2 flags byte nibbles.
var (
	crBits       = wire.Bits[uint8]{Shift: 4, Width: 4}
	instanceBits = wire.Bits[uint8]{Shift: 0, Width: 4}
)

// CR returns the comprehension-required flag nibble.
func (ie *IEv2) CR() uint8 { return crBits.Get(ie.Flags) }

// SetCR sets the comprehension-required flag nibble.
func (ie *IEv2) SetCR(v uint8) { ie.Flags = crBits.Set(ie.Flags, v) }

// Instance returns the instance id nibble.
func (ie *IEv2) Instance() uint8 { return instanceBits.Get(ie.Flags) }

// SetInstance sets the instance id nibble.
func (ie *IEv2) SetInstance(v uint8) { ie.Flags = instanceBits.Set(ie.Flags, v) }

// TypeName returns a human-readable name for the IE type.
func (ie *IEv2) TypeName() string {
	if name, ok := ieNamesV2[ie.Type]; ok {
		return name
	}
	return fmt.Sprintf("IE-%d", ie.Type)
}

// InnerIEs parses the value of a grouped IE, such as Bearer Context, as
// a nested IE sequence. The outer decode always leaves the value opaque
// so callers only pay for the nesting they inspect.
func (ie *IEv2) InnerIEs() ([]IEv2, error) {
	return DecodeIEsV2(ie.Data)
}

// Encode serializes the IE, recomputing the length field from the value.
func (ie *IEv2) Encode() ([]byte, error) {
	if len(ie.Data) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: IE type %d value is too large", wire.ErrPack, ie.Type)
	}
	w := &wire.Writer{}
	w.Uint8(ie.Type)
	w.Uint16(uint16(len(ie.Data)))
	w.Uint8(ie.Flags)
	w.Write(ie.Data)
	return w.Bytes(), nil
}

// DecodeIEv2 parses one IE at the start of buf, returning it along with
// the number of bytes it occupies on the wire. The returned IE does not
// alias buf.
func DecodeIEv2(buf []byte) (IEv2, int, error) {
	r := wire.NewReader(buf)
	ietype, err := r.Uint8()
	if err != nil {
		return IEv2{}, 0, fmt.Errorf("%w: IE type", err)
	}
	length, err := r.Uint16()
	if err != nil {
		return IEv2{}, 0, fmt.Errorf("%w: truncated IE type %d length", wire.ErrDecode, ietype)
	}
	flags, err := r.Uint8()
	if err != nil {
		return IEv2{}, 0, fmt.Errorf("%w: truncated IE type %d flags", wire.ErrDecode, ietype)
	}
	data, err := r.Bytes(int(length))
	if err != nil {
		return IEv2{}, 0, fmt.Errorf("%w: truncated IE type %d value", wire.ErrDecode, ietype)
	}
	return IEv2{Type: ietype, Flags: flags, Data: bytes.Clone(data)}, r.Offset(), nil
}

// DecodeIEsV2 parses the ordered IE sequence filling buf completely.
func DecodeIEsV2(buf []byte) ([]IEv2, error) {
	var ies []IEv2
	for len(buf) > 0 {
		ie, n, err := DecodeIEv2(buf)
		if err != nil {
			return nil, err
		}
		ies = append(ies, ie)
		buf = buf[n:]
	}
	return ies, nil
}

// EncodeIEsV2 serializes the IEs back to back, as needed both for
// message bodies and for the value of a grouped IE.
func EncodeIEsV2(ies []IEv2) ([]byte, error) {
	w := &wire.Writer{}
	for i := range ies {
		raw, err := ies[i].Encode()
		if err != nil {
			return nil, err
		}
		w.Write(raw)
	}
	return w.Bytes(), nil
}
