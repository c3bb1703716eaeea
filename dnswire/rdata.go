// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/bassosimone/wirecodec/wire"
)

// RData is the typed view of a resource record's rdata. The concrete
// type depends on the record type: [IPAddr] for A and AAAA, [NameRef]
// for NS, CNAME and PTR, [SOA], [MX], [SRV], and [Text] for TXT and
// HINFO. Records whose rdata we treat as opaque, such as NULL and OPT,
// have a nil RData and carry their bytes in [ResourceRecord.Raw].
type RData interface {
	isRData()
}

// IPAddr is the rdata of an A or AAAA record.
type IPAddr struct {
	Addr netip.Addr
}

// NameRef is the rdata of a record that holds a single domain
// name, such as NS, CNAME, and PTR.
type NameRef struct {
	Name string
}

// SOA is the rdata of an SOA record.
type SOA struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// MX is the rdata of an MX record.
type MX struct {
	Preference uint16
	Name       string
}

// Text is the rdata of a TXT or HINFO record: a sequence of
// length-prefixed character strings.
type Text struct {
	Segments []string
}

// SRV is the rdata of an SRV record.
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func (IPAddr) isRData()  {}
func (NameRef) isRData() {}
func (SOA) isRData()     {}
func (MX) isRData()      {}
func (Text) isRData()    {}
func (SRV) isRData()     {}

// rdataCodec pairs the decoder and encoder for one record type. The
// decoder receives the whole message buffer plus the absolute offset of
// the rdata, because rdata may contain compressed names pointing into
// earlier parts of the message; rdata is the declared-length slice. The
// encoder receives the absolute offset the rdata will occupy so that
// names inside it join the message-wide compression table. A nil
// encoder means the type cannot be packed from its typed view.
type rdataCodec struct {
	decode func(buf []byte, off int, rdata []byte) (RData, error)
	encode func(rr *ResourceRecord, off int, table map[string]int) ([]byte, error)
}

var rdataCodecs = map[uint16]rdataCodec{
	TypeA:     {decodeA, encodeA},
	TypeNS:    {decodeNameRef, encodeNameRef},
	TypeCNAME: {decodeNameRef, encodeNameRef},
	TypeSOA:   {decodeSOA, encodeSOA},
	TypeNULL:  {decodeOpaque, nil},
	TypePTR:   {decodeNameRef, encodeNameRef},
	TypeHINFO: {decodeText, encodeText},
	TypeMX:    {decodeMX, encodeMX},
	TypeTXT:   {decodeText, encodeText},
	TypeAAAA:  {decodeAAAA, encodeAAAA},
	TypeSRV:   {decodeSRV, encodeSRV},
	TypeOPT:   {decodeOpaque, encodeEmpty},
}

func errBadRData(rr *ResourceRecord) error {
	return fmt.Errorf("%w: rdata %T does not match RR type %d", wire.ErrPack, rr.Data, rr.Type)
}

func decodeA(buf []byte, off int, rdata []byte) (RData, error) {
	if len(rdata) != 4 {
		return nil, fmt.Errorf("%w: A rdata must be 4 bytes, got %d", wire.ErrDecode, len(rdata))
	}
	return IPAddr{netip.AddrFrom4([4]byte(rdata))}, nil
}

func encodeA(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(IPAddr)
	if !ok || !d.Addr.Is4() {
		return nil, errBadRData(rr)
	}
	a := d.Addr.As4()
	return a[:], nil
}

func decodeAAAA(buf []byte, off int, rdata []byte) (RData, error) {
	if len(rdata) != 16 {
		return nil, fmt.Errorf("%w: AAAA rdata must be 16 bytes, got %d", wire.ErrDecode, len(rdata))
	}
	return IPAddr{netip.AddrFrom16([16]byte(rdata))}, nil
}

func encodeAAAA(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(IPAddr)
	if !ok || !d.Addr.Is6() || d.Addr.Is4In6() {
		return nil, errBadRData(rr)
	}
	a := d.Addr.As16()
	return a[:], nil
}

func decodeNameRef(buf []byte, off int, rdata []byte) (RData, error) {
	name, _, err := unpackName(buf, off)
	if err != nil {
		return nil, err
	}
	return NameRef{name}, nil
}

func encodeNameRef(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(NameRef)
	if !ok {
		return nil, errBadRData(rr)
	}
	return packName(d.Name, off, table)
}

func decodeSOA(buf []byte, off int, rdata []byte) (RData, error) {
	mname, off, err := unpackName(buf, off)
	if err != nil {
		return nil, err
	}
	rname, off, err := unpackName(buf, off)
	if err != nil {
		return nil, err
	}
	r := wire.NewReader(buf)
	if err := r.Seek(off); err != nil {
		return nil, err
	}
	var fields [5]uint32
	for i := range fields {
		v, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("%w: SOA rdata", err)
		}
		fields[i] = v
	}
	return SOA{
		MName:   mname,
		RName:   rname,
		Serial:  fields[0],
		Refresh: fields[1],
		Retry:   fields[2],
		Expire:  fields[3],
		Minimum: fields[4],
	}, nil
}

func encodeSOA(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(SOA)
	if !ok {
		return nil, errBadRData(rr)
	}
	mname, err := packName(d.MName, off, table)
	if err != nil {
		return nil, err
	}
	rname, err := packName(d.RName, off+len(mname), table)
	if err != nil {
		return nil, err
	}
	w := &wire.Writer{}
	w.Write(mname)
	w.Write(rname)
	w.Uint32(d.Serial)
	w.Uint32(d.Refresh)
	w.Uint32(d.Retry)
	w.Uint32(d.Expire)
	w.Uint32(d.Minimum)
	return w.Bytes(), nil
}

func decodeMX(buf []byte, off int, rdata []byte) (RData, error) {
	if len(rdata) < 2 {
		return nil, fmt.Errorf("%w: MX rdata", wire.ErrNeedData)
	}
	name, _, err := unpackName(buf, off+2)
	if err != nil {
		return nil, err
	}
	return MX{Preference: binary.BigEndian.Uint16(rdata), Name: name}, nil
}

func encodeMX(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(MX)
	if !ok {
		return nil, errBadRData(rr)
	}
	name, err := packName(d.Name, off+2, table)
	if err != nil {
		return nil, err
	}
	w := &wire.Writer{}
	w.Uint16(d.Preference)
	w.Write(name)
	return w.Bytes(), nil
}

func decodeSRV(buf []byte, off int, rdata []byte) (RData, error) {
	if len(rdata) < 6 {
		return nil, fmt.Errorf("%w: SRV rdata", wire.ErrNeedData)
	}
	target, _, err := unpackName(buf, off+6)
	if err != nil {
		return nil, err
	}
	return SRV{
		Priority: binary.BigEndian.Uint16(rdata),
		Weight:   binary.BigEndian.Uint16(rdata[2:]),
		Port:     binary.BigEndian.Uint16(rdata[4:]),
		Target:   target,
	}, nil
}

func encodeSRV(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(SRV)
	if !ok {
		return nil, errBadRData(rr)
	}
	target, err := packName(d.Target, off+6, table)
	if err != nil {
		return nil, err
	}
	w := &wire.Writer{}
	w.Uint16(d.Priority)
	w.Uint16(d.Weight)
	w.Uint16(d.Port)
	w.Write(target)
	return w.Bytes(), nil
}

func decodeText(buf []byte, off int, rdata []byte) (RData, error) {
	r := wire.NewReader(rdata)
	var segments []string
	for r.Remaining() > 0 {
		n, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		seg, err := r.Bytes(int(n))
		if err != nil {
			return nil, fmt.Errorf("%w: text segment is truncated", wire.ErrNeedData)
		}
		segments = append(segments, string(seg))
	}
	return Text{segments}, nil
}

func encodeText(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	d, ok := rr.Data.(Text)
	if !ok {
		return nil, errBadRData(rr)
	}
	w := &wire.Writer{}
	for _, seg := range d.Segments {
		if len(seg) > 255 {
			return nil, fmt.Errorf("%w: text segment exceeds 255 bytes", wire.ErrPack)
		}
		w.Uint8(uint8(len(seg)))
		w.Write([]byte(seg))
	}
	return w.Bytes(), nil
}

// decodeOpaque leaves the rdata available only through
// [ResourceRecord.Raw].
func decodeOpaque(buf []byte, off int, rdata []byte) (RData, error) {
	return nil, nil
}

func encodeEmpty(rr *ResourceRecord, off int, table map[string]int) ([]byte, error) {
	return nil, nil
}
