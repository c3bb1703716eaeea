// SPDX-License-Identifier: GPL-3.0-or-later

package gtpcbuild

import (
	"net/netip"

	"github.com/bassosimone/wirecodec/gtpc"
)

// newV2 builds a GTPv2-C message base with the TEID flag set.
func newV2(msgType uint8, teid uint32, seqnum uint32) *gtpc.MessageV2 {
	m := &gtpc.MessageV2{Type: msgType, TEID: teid, SeqNum: seqnum}
	m.SetVersion(2)
	m.SetTFlag(true)
	return m
}

// newV2NoTEID builds a GTPv2-C message base without the TEID field, as
// used by the path management messages.
func newV2NoTEID(msgType uint8, seqnum uint32) *gtpc.MessageV2 {
	m := &gtpc.MessageV2{Type: msgType, SeqNum: seqnum}
	m.SetVersion(2)
	return m
}

// senderAddrs falls back to the IPv4 unspecified address when neither
// address family is configured, so the sender F-TEID always encodes.
func senderAddrs(v4, v6 netip.Addr) (netip.Addr, netip.Addr) {
	if !v4.IsValid() && !v6.IsValid() {
		v4 = netip.IPv4Unspecified()
	}
	return v4, v6
}

func fteidIE(teid uint32, iface uint8, v4, v6 netip.Addr, instance uint8) (gtpc.IEv2, error) {
	fteid := gtpc.FTEID{InterfaceType: iface, TEID: teid, IPv4: v4, IPv6: v6}
	raw, err := fteid.Encode()
	if err != nil {
		return gtpc.IEv2{}, err
	}
	ie := gtpc.IEv2{Type: gtpc.IEFTEID, Data: raw}
	ie.SetInstance(instance)
	return ie, nil
}

func ebiIE(ebi uint8) gtpc.IEv2 {
	return gtpc.IEv2{Type: gtpc.IEEBI, Data: []byte{ebi & 0x0f}}
}

func causeIE(cause uint8) gtpc.IEv2 {
	return gtpc.IEv2{Type: gtpc.IECause, Data: []byte{defaultUint8(cause, gtpc.V2CauseRequestAccepted)}}
}

func recoveryIE(recovery uint8) gtpc.IEv2 {
	return gtpc.IEv2{Type: gtpc.IERecovery, Data: []byte{recovery}}
}

func groupIEs(outer uint8, inner []gtpc.IEv2) (gtpc.IEv2, error) {
	value, err := gtpc.EncodeIEsV2(inner)
	if err != nil {
		return gtpc.IEv2{}, err
	}
	return gtpc.IEv2{Type: outer, Data: value}, nil
}

// DataFTEID configures the optional data-plane F-TEID nested in a
// Bearer Context. The zero Interface selects the conventional endpoint
// for the message being built.
type DataFTEID struct {
	TEID      uint32
	IPv4      netip.Addr
	IPv6      netip.Addr
	Interface uint8
}

// bearerContextCreate builds a Bearer Context to be Created grouped IE:
// EBI, Bearer QoS, and optionally the data-plane F-TEID as instance 2.
func bearerContextCreate(ebi uint8, qos BearerQoS, data *DataFTEID, defaultIface uint8) (gtpc.IEv2, error) {
	inner := []gtpc.IEv2{
		ebiIE(ebi),
		{Type: gtpc.IEBearerQoS, Data: qos.Encode()},
	}
	if data != nil {
		ie, err := fteidIE(data.TEID, defaultUint8(data.Interface, defaultIface), data.IPv4, data.IPv6, 2)
		if err != nil {
			return gtpc.IEv2{}, err
		}
		inner = append(inner, ie)
	}
	return groupIEs(gtpc.IEBearerContext, inner)
}

// bearerContextModify builds a Bearer Context to be Modified grouped
// IE: EBI and optionally the new access-side data-plane F-TEID.
func bearerContextModify(ebi uint8, data *DataFTEID, defaultIface uint8) (gtpc.IEv2, error) {
	inner := []gtpc.IEv2{ebiIE(ebi)}
	if data != nil {
		ie, err := fteidIE(data.TEID, defaultUint8(data.Interface, defaultIface), data.IPv4, data.IPv6, 0)
		if err != nil {
			return gtpc.IEv2{}, err
		}
		inner = append(inner, ie)
	}
	return groupIEs(gtpc.IEBearerContext, inner)
}

// bearerContextResponse builds the Bearer Context grouped IE used in
// response messages: EBI, per-bearer cause, optional data-plane F-TEID.
func bearerContextResponse(ebi, cause uint8, data *DataFTEID, defaultIface uint8) (gtpc.IEv2, error) {
	inner := []gtpc.IEv2{ebiIE(ebi), causeIE(cause)}
	if data != nil {
		ie, err := fteidIE(data.TEID, defaultUint8(data.Interface, defaultIface), data.IPv4, data.IPv6, 0)
		if err != nil {
			return gtpc.IEv2{}, err
		}
		inner = append(inner, ie)
	}
	return groupIEs(gtpc.IEBearerContext, inner)
}

// V2EchoRequest configures a GTPv2-C Echo Request, which carries no
// TEID and no IEs.
type V2EchoRequest struct {
	SeqNum uint32
}

// Build assembles the message.
func (c V2EchoRequest) Build() (*gtpc.MessageV2, error) {
	return newV2NoTEID(gtpc.V2EchoRequest, c.SeqNum), nil
}

// V2EchoResponse configures a GTPv2-C Echo Response carrying the
// sender's restart counter.
type V2EchoResponse struct {
	SeqNum   uint32
	Recovery uint8
}

// Build assembles the message.
func (c V2EchoResponse) Build() (*gtpc.MessageV2, error) {
	m := newV2NoTEID(gtpc.V2EchoResponse, c.SeqNum)
	m.IEs = []gtpc.IEv2{recoveryIE(c.Recovery)}
	return m, nil
}

// V2CreateSessionRequest configures a GTPv2-C Create Session Request
// for an initial attach. Zero-value fields fall back to an all-zeroes
// IMSI, RAT type EUTRAN, APN "internet", PDN type IPv4, the S11 MME
// control-plane interface, EBI 5, best-effort QoS, and 50000/100000
// kbps AMBR. MSISDN, MEI, the data-plane F-TEID, and Recovery are
// included only when set.
type V2CreateSessionRequest struct {
	TEID            uint32
	SeqNum          uint32
	IMSI            string
	MSISDN          string
	MEI             string
	RATType         uint8
	APN             string
	PDNType         uint8
	SenderTEID      uint32
	SenderIPv4      netip.Addr
	SenderIPv6      netip.Addr
	SenderInterface uint8
	EBI             uint8
	QoS             BearerQoS
	AMBRUplink      uint32
	AMBRDownlink    uint32
	Data            *DataFTEID
	Recovery        *uint8
}

// Build assembles the message.
func (c V2CreateSessionRequest) Build() (*gtpc.MessageV2, error) {
	imsi, err := EncodeIMSI(defaultString(c.IMSI, defaultIMSI))
	if err != nil {
		return nil, err
	}
	apn, err := EncodeAPN(defaultString(c.APN, defaultAPN))
	if err != nil {
		return nil, err
	}
	v4, v6 := senderAddrs(c.SenderIPv4, c.SenderIPv6)
	sender, err := fteidIE(c.SenderTEID, defaultUint8(c.SenderInterface, gtpc.InterfaceS11MME), v4, v6, 0)
	if err != nil {
		return nil, err
	}
	ambrUL, ambrDL := defaultAMBR(c.AMBRUplink, c.AMBRDownlink)
	bearer, err := bearerContextCreate(
		defaultUint8(c.EBI, defaultNSAPI), c.QoS.withDefaults(), c.Data, gtpc.InterfaceS1USGW)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2CreateSessionRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{
		{Type: gtpc.IEIMSI, Data: imsi},
		{Type: gtpc.IERATType, Data: []byte{defaultUint8(c.RATType, 6)}},
		{Type: gtpc.IEAPN, Data: apn},
		{Type: gtpc.IEPDNType, Data: []byte{defaultUint8(c.PDNType, 1) & 0x07}},
		{Type: gtpc.IEAMBR, Data: EncodeAMBR(ambrUL, ambrDL)},
		sender,
		bearer,
	}
	if c.MEI != "" {
		mei, err := EncodeIMSI(c.MEI)
		if err != nil {
			return nil, err
		}
		m.IEs = insertIE(m.IEs, 1, gtpc.IEv2{Type: gtpc.IEMEI, Data: mei})
	}
	if c.MSISDN != "" {
		msisdn, err := EncodeIMSI(c.MSISDN)
		if err != nil {
			return nil, err
		}
		m.IEs = insertIE(m.IEs, 1, gtpc.IEv2{Type: gtpc.IEMSISDN, Data: msisdn})
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, recoveryIE(*c.Recovery))
	}
	return m, nil
}

func insertIE(ies []gtpc.IEv2, idx int, ie gtpc.IEv2) []gtpc.IEv2 {
	ies = append(ies, gtpc.IEv2{})
	copy(ies[idx+1:], ies[idx:])
	ies[idx] = ie
	return ies
}

func defaultAMBR(uplink, downlink uint32) (uint32, uint32) {
	if uplink == 0 && downlink == 0 {
		return 50000, 100000
	}
	return uplink, downlink
}

// V2CreateSessionResponse configures a GTPv2-C Create Session Response
// with the SGW-allocated control-plane F-TEID (instance 1) and the
// created default bearer.
type V2CreateSessionResponse struct {
	TEID            uint32
	SeqNum          uint32
	Cause           uint8
	SenderTEID      uint32
	SenderIPv4      netip.Addr
	SenderIPv6      netip.Addr
	SenderInterface uint8
	EBI             uint8
	AMBRUplink      uint32
	AMBRDownlink    uint32
	Data            *DataFTEID
	Recovery        *uint8
}

// Build assembles the message.
func (c V2CreateSessionResponse) Build() (*gtpc.MessageV2, error) {
	v4, v6 := senderAddrs(c.SenderIPv4, c.SenderIPv6)
	sender, err := fteidIE(c.SenderTEID, defaultUint8(c.SenderInterface, gtpc.InterfaceS11S4SGW), v4, v6, 1)
	if err != nil {
		return nil, err
	}
	cause := defaultUint8(c.Cause, gtpc.V2CauseRequestAccepted)
	bearer, err := bearerContextResponse(
		defaultUint8(c.EBI, defaultNSAPI), cause, c.Data, gtpc.InterfaceS5S8PGWGTPU)
	if err != nil {
		return nil, err
	}
	ambrUL, ambrDL := defaultAMBR(c.AMBRUplink, c.AMBRDownlink)
	m := newV2(gtpc.V2CreateSessionResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{
		causeIE(cause),
		{Type: gtpc.IEAMBR, Data: EncodeAMBR(ambrUL, ambrDL)},
		sender,
		bearer,
	}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, recoveryIE(*c.Recovery))
	}
	return m, nil
}

// V2ModifyBearerRequest configures a GTPv2-C Modify Bearer Request,
// typically carrying the new access-side data-plane endpoint after a
// handover or service request.
type V2ModifyBearerRequest struct {
	TEID    uint32
	SeqNum  uint32
	EBI     uint8
	RATType *uint8
	Data    *DataFTEID

	// DelayDownlinkNotification is an EPC Timer value in seconds
	// requesting that downlink data notifications be delayed.
	DelayDownlinkNotification *uint8
}

// Build assembles the message.
func (c V2ModifyBearerRequest) Build() (*gtpc.MessageV2, error) {
	bearer, err := bearerContextModify(
		defaultUint8(c.EBI, defaultNSAPI), c.Data, gtpc.InterfaceS1UENodeB)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2ModifyBearerRequest, c.TEID, c.SeqNum)
	if c.RATType != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IERATType, Data: []byte{*c.RATType}})
	}
	m.IEs = append(m.IEs, bearer)
	if c.DelayDownlinkNotification != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IEEPCTimer, Data: []byte{*c.DelayDownlinkNotification}})
	}
	return m, nil
}

// V2ModifyBearerResponse configures a GTPv2-C Modify Bearer Response.
type V2ModifyBearerResponse struct {
	TEID     uint32
	SeqNum   uint32
	Cause    uint8
	EBI      uint8
	Recovery *uint8
}

// Build assembles the message.
func (c V2ModifyBearerResponse) Build() (*gtpc.MessageV2, error) {
	cause := defaultUint8(c.Cause, gtpc.V2CauseRequestAccepted)
	bearer, err := bearerContextResponse(defaultUint8(c.EBI, defaultNSAPI), cause, nil, 0)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2ModifyBearerResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(cause), bearer}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, recoveryIE(*c.Recovery))
	}
	return m, nil
}

// V2DeleteSessionRequest configures a GTPv2-C Delete Session Request.
type V2DeleteSessionRequest struct {
	TEID            uint32
	SeqNum          uint32
	EBI             uint8
	SenderTEID      uint32
	SenderIPv4      netip.Addr
	SenderIPv6      netip.Addr
	SenderInterface uint8
}

// Build assembles the message.
func (c V2DeleteSessionRequest) Build() (*gtpc.MessageV2, error) {
	v4, v6 := senderAddrs(c.SenderIPv4, c.SenderIPv6)
	sender, err := fteidIE(c.SenderTEID, defaultUint8(c.SenderInterface, gtpc.InterfaceS11MME), v4, v6, 0)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2DeleteSessionRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{ebiIE(defaultUint8(c.EBI, defaultNSAPI)), sender}
	return m, nil
}

// V2DeleteSessionResponse configures a GTPv2-C Delete Session Response.
type V2DeleteSessionResponse struct {
	TEID     uint32
	SeqNum   uint32
	Cause    uint8
	Recovery *uint8
}

// Build assembles the message.
func (c V2DeleteSessionResponse) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2DeleteSessionResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(c.Cause)}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, recoveryIE(*c.Recovery))
	}
	return m, nil
}

// V2CreateBearerRequest configures a GTPv2-C Create Bearer Request for
// a dedicated bearer linked to an existing default bearer.
type V2CreateBearerRequest struct {
	TEID      uint32
	SeqNum    uint32
	LinkedEBI uint8
	EBI       uint8
	QoS       BearerQoS
	TFT       []byte
	Data      *DataFTEID
}

// Build assembles the message. The linked EBI rides first so the peer
// can associate the new bearer with its PDN connection.
func (c V2CreateBearerRequest) Build() (*gtpc.MessageV2, error) {
	bearer, err := bearerContextCreate(
		defaultUint8(c.EBI, 6), c.QoS.withDefaults(), c.Data, gtpc.InterfaceS5S8PGWGTPU)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2CreateBearerRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{ebiIE(defaultUint8(c.LinkedEBI, defaultNSAPI)), bearer}
	if c.TFT != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IEBearerTFT, Data: c.TFT})
	}
	return m, nil
}

// V2CreateBearerResponse configures a GTPv2-C Create Bearer Response.
type V2CreateBearerResponse struct {
	TEID   uint32
	SeqNum uint32
	Cause  uint8
	EBI    uint8
	Data   *DataFTEID
}

// Build assembles the message.
func (c V2CreateBearerResponse) Build() (*gtpc.MessageV2, error) {
	cause := defaultUint8(c.Cause, gtpc.V2CauseRequestAccepted)
	bearer, err := bearerContextResponse(
		defaultUint8(c.EBI, 6), cause, c.Data, gtpc.InterfaceS1UENodeB)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2CreateBearerResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(cause), bearer}
	return m, nil
}

// V2DeleteBearerRequest configures a GTPv2-C Delete Bearer Request.
type V2DeleteBearerRequest struct {
	TEID   uint32
	SeqNum uint32
	EBI    uint8
	Cause  *uint8
}

// Build assembles the message.
func (c V2DeleteBearerRequest) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2DeleteBearerRequest, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{ebiIE(defaultUint8(c.EBI, 6))}
	if c.Cause != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IECause, Data: []byte{*c.Cause}})
	}
	return m, nil
}

// V2DeleteBearerResponse configures a GTPv2-C Delete Bearer Response.
type V2DeleteBearerResponse struct {
	TEID   uint32
	SeqNum uint32
	Cause  uint8
	EBI    uint8
}

// Build assembles the message.
func (c V2DeleteBearerResponse) Build() (*gtpc.MessageV2, error) {
	cause := defaultUint8(c.Cause, gtpc.V2CauseRequestAccepted)
	bearer, err := bearerContextResponse(defaultUint8(c.EBI, 6), cause, nil, 0)
	if err != nil {
		return nil, err
	}
	m := newV2(gtpc.V2DeleteBearerResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(cause), bearer}
	return m, nil
}

// V2ReleaseAccessBearersRequest configures a GTPv2-C Release Access
// Bearers Request. Indication, when set, is the raw Indication IE
// value.
type V2ReleaseAccessBearersRequest struct {
	TEID       uint32
	SeqNum     uint32
	Indication []byte
}

// Build assembles the message.
func (c V2ReleaseAccessBearersRequest) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2ReleaseAccessBearersRequest, c.TEID, c.SeqNum)
	if c.Indication != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IEIndication, Data: c.Indication})
	}
	return m, nil
}

// V2ReleaseAccessBearersResponse configures a GTPv2-C Release Access
// Bearers Response.
type V2ReleaseAccessBearersResponse struct {
	TEID     uint32
	SeqNum   uint32
	Cause    uint8
	Recovery *uint8
}

// Build assembles the message.
func (c V2ReleaseAccessBearersResponse) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2ReleaseAccessBearersResponse, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(c.Cause)}
	if c.Recovery != nil {
		m.IEs = append(m.IEs, recoveryIE(*c.Recovery))
	}
	return m, nil
}

// V2DownlinkDataNotification configures a GTPv2-C Downlink Data
// Notification, sent by the SGW when buffered downlink data arrives for
// a UE in idle mode. The ARP fields share the Bearer QoS flag layout;
// a zero priority level maps to 15.
type V2DownlinkDataNotification struct {
	TEID   uint32
	SeqNum uint32
	EBI    uint8
	ARPPCI uint8
	ARPPL  uint8
	ARPPVI uint8
}

// Build assembles the message.
func (c V2DownlinkDataNotification) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2DownlinkDataNotification, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{
		ebiIE(defaultUint8(c.EBI, defaultNSAPI)),
		{Type: gtpc.IEARP, Data: []byte{arpByte(c.ARPPCI, defaultUint8(c.ARPPL, 15), c.ARPPVI)}},
	}
	return m, nil
}

// V2DownlinkDataNotificationAck configures a GTPv2-C Downlink Data
// Notification Acknowledge. Throttling, when set, is the raw value of
// the low-priority traffic throttling IE.
type V2DownlinkDataNotificationAck struct {
	TEID       uint32
	SeqNum     uint32
	Cause      uint8
	Throttling *uint8
}

// Build assembles the message.
func (c V2DownlinkDataNotificationAck) Build() (*gtpc.MessageV2, error) {
	m := newV2(gtpc.V2DownlinkDataNotificationAck, c.TEID, c.SeqNum)
	m.IEs = []gtpc.IEv2{causeIE(c.Cause)}
	if c.Throttling != nil {
		m.IEs = append(m.IEs, gtpc.IEv2{Type: gtpc.IEThrottling, Data: []byte{*c.Throttling}})
	}
	return m, nil
}
