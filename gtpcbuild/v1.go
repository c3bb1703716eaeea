// SPDX-License-Identifier: GPL-3.0-or-later

package gtpcbuild

import (
	"github.com/bassosimone/wirecodec/gtpc"
)

// Default IE values applied by the builders when a field is left at
// its zero value.
const (
	defaultIMSI          = "000000000000000"
	defaultAPN           = "internet"
	defaultNSAPI         = 5
	defaultChargingChars = 0x0800
)

// Minimal Release 97/98 QoS profile: best-effort delay and throughput
// classes.
var defaultQoSProfileV1 = []byte{0x0b, 0x9b, 0x1f}

// newV1 builds the common GTPv1-C message base with the sequence number
// flag set.
func newV1(msgType uint8, teid uint32, seqnum uint16) *gtpc.MessageV1 {
	m := &gtpc.MessageV1{Type: msgType, TEID: teid, SeqNum: seqnum}
	m.SetVersion(1)
	m.SetProtoType(true)
	m.SetSFlag(true)
	return m
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultUint8(v, fallback uint8) uint8 {
	if v == 0 {
		return fallback
	}
	return v
}

func defaultUint16(v, fallback uint16) uint16 {
	if v == 0 {
		return fallback
	}
	return v
}

func defaultBytes(v, fallback []byte) []byte {
	if v == nil {
		return fallback
	}
	return v
}

// V1EchoRequest configures a GTPv1-C Echo Request.
type V1EchoRequest struct {
	TEID   uint32
	SeqNum uint16
}

// Build assembles the message.
func (c V1EchoRequest) Build() (*gtpc.MessageV1, error) {
	return newV1(gtpc.V1EchoRequest, c.TEID, c.SeqNum), nil
}

// V1EchoResponse configures a GTPv1-C Echo Response carrying the
// sender's restart counter.
type V1EchoResponse struct {
	TEID     uint32
	SeqNum   uint16
	Recovery uint8
}

// Build assembles the message.
func (c V1EchoResponse) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1EchoResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{{Type: gtpc.TVRecovery, Data: []byte{c.Recovery}}}
	return m, nil
}

// V1CreatePDPContextRequest configures a GTPv1-C Create PDP Context
// Request. Zero-value fields fall back to an all-zeroes IMSI, NSAPI 5,
// charging characteristics 0x0800, APN "internet", and a best-effort
// QoS profile. MSISDN and Recovery are included only when set.
type V1CreatePDPContextRequest struct {
	TEID          uint32
	SeqNum        uint16
	IMSI          string
	NSAPI         uint8
	TEIDData      uint32
	TEIDCPlane    uint32
	SelectionMode uint8
	ChargingChars uint16
	APN           string
	QoSProfile    []byte
	MSISDN        string
	Recovery      *uint8
}

// Build assembles the message.
func (c V1CreatePDPContextRequest) Build() (*gtpc.MessageV1, error) {
	imsi, err := EncodeIMSI(defaultString(c.IMSI, defaultIMSI))
	if err != nil {
		return nil, err
	}
	apn, err := EncodeAPN(defaultString(c.APN, defaultAPN))
	if err != nil {
		return nil, err
	}
	m := newV1(gtpc.V1CreatePDPContextRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVIMSI, Data: imsi},
		{Type: gtpc.TVSelectionMode, Data: []byte{c.SelectionMode & 0x03}},
		{Type: gtpc.TVTEIDDataI, Data: be32(c.TEIDData)},
		{Type: gtpc.TVTEIDControlPlane, Data: be32(c.TEIDCPlane)},
		{Type: gtpc.TVNSAPI, Data: []byte{defaultUint8(c.NSAPI, defaultNSAPI) & 0x0f}},
		{Type: gtpc.TVChargingChars, Data: be16(defaultUint16(c.ChargingChars, defaultChargingChars))},
		{Type: gtpc.TLVAPN, Data: apn},
		{Type: gtpc.TLVQoSProfile, Data: defaultBytes(c.QoSProfile, defaultQoSProfileV1)},
	}
	if c.MSISDN != "" {
		msisdn, err := EncodeIMSI(c.MSISDN)
		if err != nil {
			return nil, err
		}
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TLVMSISDN, Data: msisdn})
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TVRecovery, Data: []byte{*c.Recovery}})
	}
	return m, nil
}

// V1CreatePDPContextResponse configures a GTPv1-C Create PDP Context
// Response with the GGSN-allocated TEIDs and charging id.
type V1CreatePDPContextResponse struct {
	TEID       uint32
	SeqNum     uint16
	Cause      uint8
	NSAPI      uint8
	TEIDData   uint32
	TEIDCPlane uint32
	ChargingID uint32
	QoSProfile []byte
	Recovery   *uint8
}

// Build assembles the message.
func (c V1CreatePDPContextResponse) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1CreatePDPContextResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVCause, Data: []byte{defaultUint8(c.Cause, gtpc.V1CauseRequestAccepted)}},
		{Type: gtpc.TVTEIDDataI, Data: be32(c.TEIDData)},
		{Type: gtpc.TVTEIDControlPlane, Data: be32(c.TEIDCPlane)},
		{Type: gtpc.TVNSAPI, Data: []byte{defaultUint8(c.NSAPI, defaultNSAPI) & 0x0f}},
		{Type: gtpc.TVChargingID, Data: be32(c.ChargingID)},
		{Type: gtpc.TLVQoSProfile, Data: defaultBytes(c.QoSProfile, defaultQoSProfileV1)},
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TVRecovery, Data: []byte{*c.Recovery}})
	}
	return m, nil
}

// V1UpdatePDPContextRequest configures a GTPv1-C Update PDP Context
// Request carrying the new TEIDs for an existing context.
type V1UpdatePDPContextRequest struct {
	TEID       uint32
	SeqNum     uint16
	NSAPI      uint8
	TEIDData   uint32
	TEIDCPlane uint32
	QoSProfile []byte
	Recovery   *uint8
}

// Build assembles the message.
func (c V1UpdatePDPContextRequest) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1UpdatePDPContextRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVTEIDDataI, Data: be32(c.TEIDData)},
		{Type: gtpc.TVTEIDControlPlane, Data: be32(c.TEIDCPlane)},
		{Type: gtpc.TVNSAPI, Data: []byte{defaultUint8(c.NSAPI, defaultNSAPI) & 0x0f}},
		{Type: gtpc.TLVQoSProfile, Data: defaultBytes(c.QoSProfile, defaultQoSProfileV1)},
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TVRecovery, Data: []byte{*c.Recovery}})
	}
	return m, nil
}

// V1UpdatePDPContextResponse configures a GTPv1-C Update PDP Context
// Response.
type V1UpdatePDPContextResponse struct {
	TEID       uint32
	SeqNum     uint16
	Cause      uint8
	TEIDData   uint32
	TEIDCPlane uint32
	ChargingID uint32
	QoSProfile []byte
	Recovery   *uint8
}

// Build assembles the message.
func (c V1UpdatePDPContextResponse) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1UpdatePDPContextResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVCause, Data: []byte{defaultUint8(c.Cause, gtpc.V1CauseRequestAccepted)}},
		{Type: gtpc.TVTEIDDataI, Data: be32(c.TEIDData)},
		{Type: gtpc.TVTEIDControlPlane, Data: be32(c.TEIDCPlane)},
		{Type: gtpc.TVChargingID, Data: be32(c.ChargingID)},
		{Type: gtpc.TLVQoSProfile, Data: defaultBytes(c.QoSProfile, defaultQoSProfileV1)},
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TVRecovery, Data: []byte{*c.Recovery}})
	}
	return m, nil
}

// V1DeletePDPContextRequest configures a GTPv1-C Delete PDP Context
// Request. Teardown requests deletion of every context sharing the PDP
// address, not just the named NSAPI.
type V1DeletePDPContextRequest struct {
	TEID     uint32
	SeqNum   uint16
	NSAPI    uint8
	Teardown bool
}

// Build assembles the message.
func (c V1DeletePDPContextRequest) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1DeletePDPContextRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVNSAPI, Data: []byte{defaultUint8(c.NSAPI, defaultNSAPI) & 0x0f}},
	}
	if c.Teardown {
		m.IEs = append(m.IEs, gtpc.IEv1{Type: gtpc.TVTeardownInd, Data: []byte{0x01}})
	}
	return m, nil
}

// V1DeletePDPContextResponse configures a GTPv1-C Delete PDP Context
// Response.
type V1DeletePDPContextResponse struct {
	TEID   uint32
	SeqNum uint16
	Cause  uint8
}

// Build assembles the message.
func (c V1DeletePDPContextResponse) Build() (*gtpc.MessageV1, error) {
	m := newV1(gtpc.V1DeletePDPContextResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv1{
		{Type: gtpc.TVCause, Data: []byte{defaultUint8(c.Cause, gtpc.V1CauseRequestAccepted)}},
	}
	return m, nil
}
