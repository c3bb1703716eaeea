// SPDX-License-Identifier: GPL-3.0-or-later

package gtpc

import (
	"fmt"
	"net/netip"

	"github.com/bassosimone/wirecodec/wire"
)

// Address-family presence bits in the F-TEID flags byte.
const (
	fteidV4Bit = 0x80
	fteidV6Bit = 0x40
)

// FTEID is a fully-qualified tunnel endpoint identifier, the value of
// an F-TEID IE (3GPP TS 29.274 §8.22). At least one of IPv4 and IPv6
// must be a valid address for [*FTEID.Encode] to succeed; an invalid
// [netip.Addr] zero value means the family is absent.
type FTEID struct {
	InterfaceType uint8
	TEID          uint32
	IPv4          netip.Addr
	IPv6          netip.Addr
}

// Encode serializes the F-TEID value field.
func (f *FTEID) Encode() ([]byte, error) {
	flags := f.InterfaceType & 0x3f
	if f.IPv4.IsValid() {
		if !f.IPv4.Is4() {
			return nil, fmt.Errorf("%w: F-TEID IPv4 field holds a non-IPv4 address", wire.ErrPack)
		}
		flags |= fteidV4Bit
	}
	if f.IPv6.IsValid() {
		if !f.IPv6.Is6() || f.IPv6.Is4In6() {
			return nil, fmt.Errorf("%w: F-TEID IPv6 field holds a non-IPv6 address", wire.ErrPack)
		}
		flags |= fteidV6Bit
	}
	if flags&(fteidV4Bit|fteidV6Bit) == 0 {
		return nil, fmt.Errorf("%w: F-TEID needs at least one address", wire.ErrPack)
	}
	w := &wire.Writer{}
	w.Uint8(flags)
	w.Uint32(f.TEID)
	if flags&fteidV4Bit != 0 {
		w.Write(f.IPv4.AsSlice())
	}
	if flags&fteidV6Bit != 0 {
		w.Write(f.IPv6.AsSlice())
	}
	return w.Bytes(), nil
}

// DecodeFTEID parses an F-TEID value field.
func DecodeFTEID(buf []byte) (*FTEID, error) {
	r := wire.NewReader(buf)
	flags, err := r.Uint8()
	if err != nil {
		return nil, fmt.Errorf("%w: F-TEID flags", err)
	}
	teid, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: F-TEID TEID", err)
	}
	f := &FTEID{InterfaceType: flags & 0x3f, TEID: teid}
	if flags&fteidV4Bit != 0 {
		raw, err := r.Bytes(4)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated F-TEID IPv4 address", wire.ErrDecode)
		}
		f.IPv4 = netip.AddrFrom4([4]byte(raw))
	}
	if flags&fteidV6Bit != 0 {
		raw, err := r.Bytes(16)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated F-TEID IPv6 address", wire.ErrDecode)
		}
		f.IPv6 = netip.AddrFrom16([16]byte(raw))
	}
	return f, nil
}
