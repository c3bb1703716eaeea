// SPDX-License-Identifier: GPL-3.0-or-later

package gtpcbuild

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bassosimone/wirecodec/wire"
)

// EncodeIMSI packs a decimal digit string (IMSI, MSISDN, or MEI) into
// BCD semi-octets, low nibble first, padding an odd-length string with
// 0xF in the final high nibble (3GPP TS 29.274 §8.3).
func EncodeIMSI(digits string) ([]byte, error) {
	if digits == "" {
		return nil, fmt.Errorf("%w: empty digit string", wire.ErrPack)
	}
	var out []byte
	for i := 0; i < len(digits); i += 2 {
		lo, ok := bcdNibble(digits[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a decimal digit string", wire.ErrPack, digits)
		}
		hi := uint8(0x0f)
		if i+1 < len(digits) {
			if hi, ok = bcdNibble(digits[i+1]); !ok {
				return nil, fmt.Errorf("%w: %q is not a decimal digit string", wire.ErrPack, digits)
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

func bcdNibble(c byte) (uint8, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return c - '0', true
}

// EncodeAPN packs a dotted APN string into length-prefixed labels, so
// "internet.epc" becomes "\x08internet\x03epc" (3GPP TS 23.003 §9.1).
func EncodeAPN(apn string) ([]byte, error) {
	var out []byte
	for _, label := range strings.Split(apn, ".") {
		if len(label) > 63 {
			return nil, fmt.Errorf("%w: APN label %q is too long", wire.ErrPack, label)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return out, nil
}

// BearerQoS is the value of a Bearer QoS IE (3GPP TS 29.274 §8.15).
// Bit rates are in kbps and occupy 40 bits each on the wire; zero rates
// denote a non-GBR bearer. The zero value maps to QCI 9 and priority
// level 15, the conventional best-effort default bearer.
type BearerQoS struct {
	QCI uint8
	PCI uint8 // pre-emption capability indicator
	PL  uint8 // priority level, 1 highest to 15 lowest
	PVI uint8 // pre-emption vulnerability indicator

	MBRUplink   uint64
	MBRDownlink uint64
	GBRUplink   uint64
	GBRDownlink uint64
}

// Encode serializes the 22-byte IE value.
func (q *BearerQoS) Encode() []byte {
	out := []byte{arpByte(q.PCI, q.PL, q.PVI), q.QCI}
	for _, rate := range []uint64{q.MBRUplink, q.MBRDownlink, q.GBRUplink, q.GBRDownlink} {
		out = append(out, byte(rate>>32), byte(rate>>24), byte(rate>>16), byte(rate>>8), byte(rate))
	}
	return out
}

func (q BearerQoS) withDefaults() BearerQoS {
	if q.QCI == 0 {
		q.QCI = 9
	}
	if q.PL == 0 {
		q.PL = 15
	}
	return q
}

// The ARP IE value and the Bearer QoS flags byte share the same layout
// (3GPP TS 29.274 §8.86).
func arpByte(pci, pl, pvi uint8) uint8 {
	return (pci&0x1)<<6 | (pl&0xf)<<2 | (pvi&0x1)<<1
}

// EncodeAMBR serializes an AMBR IE value: uplink then downlink, both in
// kbps as 32-bit big-endian integers (3GPP TS 29.274 §8.7).
func EncodeAMBR(uplink, downlink uint32) []byte {
	out := binary.BigEndian.AppendUint32(nil, uplink)
	return binary.BigEndian.AppendUint32(out, downlink)
}

func be16(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func be32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}
