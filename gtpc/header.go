// SPDX-License-Identifier: GPL-3.0-or-later

package gtpc

import (
	"fmt"

	"github.com/bassosimone/wirecodec/wire"
)

// Views over the GTPv1-C flags byte.
var (
	v1VersionBits = wire.Bits[uint8]{Shift: 5, Width: 3}
	v1ProtoBit    = wire.Bits[uint8]{Shift: 4, Width: 1}
	v1EBit        = wire.Bits[uint8]{Shift: 2, Width: 1}
	v1SBit        = wire.Bits[uint8]{Shift: 1, Width: 1}
	v1NPBit       = wire.Bits[uint8]{Shift: 0, Width: 1}
)

// Views over the GTPv2-C flags byte.
var (
	v2VersionBits = wire.Bits[uint8]{Shift: 5, Width: 3}
	v2PBit        = wire.Bits[uint8]{Shift: 4, Width: 1}
	v2TBit        = wire.Bits[uint8]{Shift: 3, Width: 1}
)

// MessageV1 is a GTPv1-C message. The low three flag bits gate a
// four-byte optional field block holding the sequence number, the
// N-PDU number, and the next-extension-header type: when all three are
// clear those fields are absent from the wire.
type MessageV1 struct {
	Flags uint8
	Type  uint8

	// Length is the body length as read off the wire by [DecodeV1].
	// [*MessageV1.Encode] ignores it and recomputes the on-wire value
	// from the serialized body.
	Length uint16

	TEID     uint32
	SeqNum   uint16
	NPDU     uint8
	NextType uint8
	IEs      []IEv1
}

// Version returns the protocol version bits.
func (m *MessageV1) Version() uint8 { return v1VersionBits.Get(m.Flags) }

// SetVersion sets the protocol version bits.
func (m *MessageV1) SetVersion(v uint8) { m.Flags = v1VersionBits.Set(m.Flags, v) }

// ProtoType reports the protocol-type bit (1 is GTP, 0 is GTP').
func (m *MessageV1) ProtoType() bool { return v1ProtoBit.GetFlag(m.Flags) }

// SetProtoType sets the protocol-type bit.
func (m *MessageV1) SetProtoType(v bool) { m.Flags = v1ProtoBit.SetFlag(m.Flags, v) }

// EFlag reports the extension-header-present bit.
func (m *MessageV1) EFlag() bool { return v1EBit.GetFlag(m.Flags) }

// SetEFlag sets the extension-header-present bit.
func (m *MessageV1) SetEFlag(v bool) { m.Flags = v1EBit.SetFlag(m.Flags, v) }

// SFlag reports the sequence-number-present bit.
func (m *MessageV1) SFlag() bool { return v1SBit.GetFlag(m.Flags) }

// SetSFlag sets the sequence-number-present bit.
func (m *MessageV1) SetSFlag(v bool) { m.Flags = v1SBit.SetFlag(m.Flags, v) }

// NPFlag reports the N-PDU-number-present bit.
func (m *MessageV1) NPFlag() bool { return v1NPBit.GetFlag(m.Flags) }

// SetNPFlag sets the N-PDU-number-present bit.
func (m *MessageV1) SetNPFlag(v bool) { m.Flags = v1NPBit.SetFlag(m.Flags, v) }

// hasOptFields reports whether the optional field block is on the wire,
// which happens when any of the E, S, or NP bits is set.
func (m *MessageV1) hasOptFields() bool {
	return m.Flags&0x07 != 0
}

// DecodeV1 parses a raw GTPv1-C message. Bytes past the length recorded
// in the header are ignored. The returned message does not alias buf.
func DecodeV1(buf []byte) (*MessageV1, error) {
	r := wire.NewReader(buf)
	m := &MessageV1{}
	var err error
	if m.Flags, err = r.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	if m.Type, err = r.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	if m.Length, err = r.Uint16(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	if m.TEID, err = r.Uint32(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	body, err := r.Bytes(int(m.Length))
	if err != nil {
		return nil, fmt.Errorf("%w: body", err)
	}
	br := wire.NewReader(body)
	if m.hasOptFields() {
		if m.SeqNum, err = br.Uint16(); err != nil {
			return nil, fmt.Errorf("%w: optional fields", err)
		}
		if m.NPDU, err = br.Uint8(); err != nil {
			return nil, fmt.Errorf("%w: optional fields", err)
		}
		if m.NextType, err = br.Uint8(); err != nil {
			return nil, fmt.Errorf("%w: optional fields", err)
		}
	}
	if m.IEs, err = DecodeIEsV1(br.Rest()); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes the message, recomputing the header length field
// from the serialized body.
func (m *MessageV1) Encode() ([]byte, error) {
	body := &wire.Writer{}
	if m.hasOptFields() {
		body.Uint16(m.SeqNum)
		body.Uint8(m.NPDU)
		body.Uint8(m.NextType)
	}
	ies, err := EncodeIEsV1(m.IEs)
	if err != nil {
		return nil, err
	}
	body.Write(ies)
	w := &wire.Writer{}
	w.Uint8(m.Flags)
	w.Uint8(m.Type)
	w.Uint16(uint16(body.Len()))
	w.Uint32(m.TEID)
	w.Write(body.Bytes())
	return w.Bytes(), nil
}

// MessageV2 is a GTPv2-C message. The T flag gates the TEID field: when
// set, the body starts with the TEID, a 24-bit sequence number, and a
// spare byte whose high nibble carries the message priority; otherwise
// only the sequence number and a zero spare byte precede the IEs.
type MessageV2 struct {
	Flags uint8
	Type  uint8

	// Length is the body length as read off the wire by [DecodeV2].
	// [*MessageV2.Encode] ignores it and recomputes the on-wire value
	// from the serialized body.
	Length uint16

	TEID     uint32
	SeqNum   uint32 // 24 bits on the wire
	Priority uint8  // meaningful only when the T flag is set
	IEs      []IEv2
}

// Version returns the protocol version bits.
func (m *MessageV2) Version() uint8 { return v2VersionBits.Get(m.Flags) }

// SetVersion sets the protocol version bits.
func (m *MessageV2) SetVersion(v uint8) { m.Flags = v2VersionBits.Set(m.Flags, v) }

// PFlag reports the piggyback bit.
func (m *MessageV2) PFlag() bool { return v2PBit.GetFlag(m.Flags) }

// SetPFlag sets the piggyback bit.
func (m *MessageV2) SetPFlag(v bool) { m.Flags = v2PBit.SetFlag(m.Flags, v) }

// TFlag reports the TEID-present bit.
func (m *MessageV2) TFlag() bool { return v2TBit.GetFlag(m.Flags) }

// SetTFlag sets the TEID-present bit.
func (m *MessageV2) SetTFlag(v bool) { m.Flags = v2TBit.SetFlag(m.Flags, v) }

// DecodeV2 parses a raw GTPv2-C message. Bytes past the length recorded
// in the header are ignored. The returned message does not alias buf.
func DecodeV2(buf []byte) (*MessageV2, error) {
	r := wire.NewReader(buf)
	m := &MessageV2{}
	var err error
	if m.Flags, err = r.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	if m.Type, err = r.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	if m.Length, err = r.Uint16(); err != nil {
		return nil, fmt.Errorf("%w: header", err)
	}
	body, err := r.Bytes(int(m.Length))
	if err != nil {
		return nil, fmt.Errorf("%w: body", err)
	}
	br := wire.NewReader(body)
	if m.TFlag() {
		if m.TEID, err = br.Uint32(); err != nil {
			return nil, fmt.Errorf("%w: TEID", err)
		}
	}
	if m.SeqNum, err = br.Uint24(); err != nil {
		return nil, fmt.Errorf("%w: sequence number", err)
	}
	spare, err := br.Uint8()
	if err != nil {
		return nil, fmt.Errorf("%w: spare byte", err)
	}
	if m.TFlag() {
		m.Priority = spare >> 4
	}
	if m.IEs, err = DecodeIEsV2(br.Rest()); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes the message, recomputing the header length field
// from the serialized body.
func (m *MessageV2) Encode() ([]byte, error) {
	body := &wire.Writer{}
	if m.TFlag() {
		body.Uint32(m.TEID)
		body.Uint24(m.SeqNum)
		body.Uint8(m.Priority << 4)
	} else {
		body.Uint24(m.SeqNum)
		body.Uint8(0)
	}
	ies, err := EncodeIEsV2(m.IEs)
	if err != nil {
		return nil, err
	}
	body.Write(ies)
	w := &wire.Writer{}
	w.Uint8(m.Flags)
	w.Uint8(m.Type)
	w.Uint16(uint16(body.Len()))
	w.Write(body.Bytes())
	return w.Bytes(), nil
}

// MessageTypeNameV2 returns a human-readable name for a GTPv2-C message
// type for logging and diagnostics.
func MessageTypeNameV2(msgType uint8) string {
	if name, ok := messageNamesV2[msgType]; ok {
		return name
	}
	return fmt.Sprintf("Message-%d", msgType)
}

var messageNamesV2 = map[uint8]string{
	V2EchoRequest:                  "Echo Request",
	V2EchoResponse:                 "Echo Response",
	V2VersionNotSupported:          "Version Not Supported",
	V2CreateSessionRequest:         "Create Session Request",
	V2CreateSessionResponse:        "Create Session Response",
	V2ModifyBearerRequest:          "Modify Bearer Request",
	V2ModifyBearerResponse:         "Modify Bearer Response",
	V2DeleteSessionRequest:         "Delete Session Request",
	V2DeleteSessionResponse:        "Delete Session Response",
	V2CreateBearerRequest:          "Create Bearer Request",
	V2CreateBearerResponse:         "Create Bearer Response",
	V2DeleteBearerRequest:          "Delete Bearer Request",
	V2DeleteBearerResponse:         "Delete Bearer Response",
	V2ReleaseAccessBearersRequest:  "Release Access Bearers Request",
	V2ReleaseAccessBearersResponse: "Release Access Bearers Response",
	V2DownlinkDataNotification:     "Downlink Data Notification",
	V2DownlinkDataNotificationAck:  "Downlink Data Notification Ack",
}

// MessageTypeNameV1 returns a human-readable name for a GTPv1-C message
// type for logging and diagnostics.
func MessageTypeNameV1(msgType uint8) string {
	if name, ok := messageNamesV1[msgType]; ok {
		return name
	}
	return fmt.Sprintf("Message-%d", msgType)
}

var messageNamesV1 = map[uint8]string{
	V1EchoRequest:              "Echo Request",
	V1EchoResponse:             "Echo Response",
	V1VersionNotSupported:      "Version Not Supported",
	V1CreatePDPContextRequest:  "Create PDP Context Request",
	V1CreatePDPContextResponse: "Create PDP Context Response",
	V1UpdatePDPContextRequest:  "Update PDP Context Request",
	V1UpdatePDPContextResponse: "Update PDP Context Response",
	V1DeletePDPContextRequest:  "Delete PDP Context Request",
	V1DeletePDPContextResponse: "Delete PDP Context Response",
}
