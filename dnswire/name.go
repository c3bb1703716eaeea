// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bassosimone/wirecodec/wire"
)

const (
	// maxNameLen is the longest decoded name RFC 1035 permits.
	maxNameLen = 255

	// maxLabelLen is the longest single label RFC 1035 permits.
	maxLabelLen = 63

	// compressionCeiling is the first offset a 14-bit compression
	// pointer cannot reach. Suffixes written at or beyond it are not
	// recorded in the label table.
	compressionCeiling = 0xc000
)

// packName serializes name as a run of length-prefixed labels starting
// at absolute message offset off. Suffixes already present in table are
// replaced by a compression pointer; suffixes written out in full are
// recorded in table for later names to point at. Keys are uppercased so
// that compression is case-insensitive.
func packName(name string, off int, table map[string]int) ([]byte, error) {
	labels := []string{}
	if name != "" {
		labels = strings.Split(name, ".")
	}
	labels = append(labels, "") // root terminator
	var out []byte
	for i, label := range labels {
		key := strings.ToUpper(strings.Join(labels[i:], "."))
		if ptr, ok := table[key]; ok {
			out = append(out, byte(0xc0|ptr>>8), byte(ptr))
			return out, nil
		}
		if len(key) > 1 {
			if ptr := off + len(out); ptr < compressionCeiling {
				table[key] = ptr
			}
		}
		if len(label) > maxLabelLen {
			return nil, fmt.Errorf("%w: label %q exceeds %d bytes", wire.ErrPack, label, maxLabelLen)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return out, nil
}

// unpackName decodes a possibly compressed name starting at absolute
// offset off in buf. It returns the dot-joined name and the offset of
// the first byte after the name in the original byte stream, which for
// a compressed name is the byte after the first pointer.
//
// Compression pointers must point strictly backward: each jump target
// must precede the position where the current run of labels began, so
// pointer loops fail with [wire.ErrDecode] instead of spinning.
func unpackName(buf []byte, off int) (string, int, error) {
	var labels []string
	nameLen := 0
	savedOff := 0
	startOff := off
	for {
		if off >= len(buf) {
			return "", 0, fmt.Errorf("%w: name is truncated", wire.ErrNeedData)
		}
		n := int(buf[off])
		if n == 0 {
			off++
			break
		}
		switch n & 0xc0 {
		case 0xc0:
			if off+2 > len(buf) {
				return "", 0, fmt.Errorf("%w: compression pointer is truncated", wire.ErrNeedData)
			}
			ptr := int(binary.BigEndian.Uint16(buf[off:]) & 0x3fff)
			if ptr >= startOff {
				return "", 0, fmt.Errorf("%w: compression pointer does not point backward", wire.ErrDecode)
			}
			off += 2
			if savedOff == 0 {
				savedOff = off
			}
			startOff, off = ptr, ptr
		case 0x00:
			off++
			if off+n > len(buf) {
				return "", 0, fmt.Errorf("%w: label is truncated", wire.ErrNeedData)
			}
			if nameLen += n + 1; nameLen > maxNameLen {
				return "", 0, fmt.Errorf("%w: name exceeds %d bytes", wire.ErrDecode, maxNameLen)
			}
			labels = append(labels, string(buf[off:off+n]))
			off += n
		default:
			return "", 0, fmt.Errorf("%w: reserved label type %#02x", wire.ErrDecode, n&0xc0)
		}
	}
	if savedOff != 0 {
		off = savedOff
	}
	return strings.Join(labels, "."), off, nil
}
