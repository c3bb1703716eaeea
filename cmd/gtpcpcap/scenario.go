// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io"
	"net/netip"
	"time"

	"github.com/bassosimone/wirecodec/capture"
	"github.com/bassosimone/wirecodec/gtpc"
	"github.com/bassosimone/wirecodec/gtpcbuild"
	"github.com/sirupsen/logrus"
)

// Network topology for the generated flows.
var (
	nodeMME  = capture.NewNode("MME", "02:00:00:00:00:01", "10.10.10.1")
	nodeSGW  = capture.NewNode("SGW", "02:00:00:00:00:02", "10.10.10.2")
	nodeSGSN = capture.NewNode("SGSN", "02:00:00:00:00:03", "10.20.20.1")
	nodeGGSN = capture.NewNode("GGSN", "02:00:00:00:00:04", "10.20.20.2")
)

// TEIDs allocated by each node's control and user plane.
const (
	mmeCPTEID = 0x1111
	sgwCPTEID = 0x2222
	sgwUPTEID = 0x3333
	enbUPTEID = 0x4444
	pgwUPTEID = 0x5555

	sgsnCPTEID = 0xaaaa
	sgsnUPTEID = 0xbbbb
	ggsnCPTEID = 0xcccc
	ggsnUPTEID = 0xdddd
)

// scenarioParams carries the subscriber identity shared by both flows.
type scenarioParams struct {
	IMSI   string
	MSISDN string
	MEI    string
	APN    string
}

// packet is one frame of a signalling flow, offset from the capture
// start time.
type packet struct {
	at       time.Duration
	src, dst capture.Node
	name     string
	payload  []byte
}

type v1Builder interface {
	Build() (*gtpc.MessageV1, error)
}

type v2Builder interface {
	Build() (*gtpc.MessageV2, error)
}

// flow accumulates packets and stops at the first build error.
type flow struct {
	pkts []packet
	err  error
}

func (f *flow) v1(at time.Duration, src, dst capture.Node, b v1Builder) {
	if f.err != nil {
		return
	}
	m, err := b.Build()
	if err != nil {
		f.err = err
		return
	}
	raw, err := m.Encode()
	if err != nil {
		f.err = err
		return
	}
	f.pkts = append(f.pkts, packet{
		at: at, src: src, dst: dst,
		name: gtpc.MessageTypeNameV1(m.Type), payload: raw,
	})
}

func (f *flow) v2(at time.Duration, src, dst capture.Node, b v2Builder) {
	if f.err != nil {
		return
	}
	m, err := b.Build()
	if err != nil {
		f.err = err
		return
	}
	raw, err := m.Encode()
	if err != nil {
		f.err = err
		return
	}
	f.pkts = append(f.pkts, packet{
		at: at, src: src, dst: dst,
		name: gtpc.MessageTypeNameV2(m.Type), payload: raw,
	})
}

// lteFlow is the LTE attach / bearer management / detach sequence on
// the S11 MME-SGW interface.
func lteFlow(p scenarioParams) ([]packet, error) {
	enbAddr := netip.MustParseAddr("192.168.100.1")
	pgwAddr := netip.MustParseAddr("10.30.30.1")
	zero := uint8(0)
	f := &flow{}

	// Path management.
	f.v2(0, nodeMME, nodeSGW, gtpcbuild.V2EchoRequest{SeqNum: 1})
	f.v2(10*time.Millisecond, nodeSGW, nodeMME, gtpcbuild.V2EchoResponse{SeqNum: 1})

	// Initial attach.
	f.v2(1*time.Second, nodeMME, nodeSGW, gtpcbuild.V2CreateSessionRequest{
		SeqNum:       2,
		IMSI:         p.IMSI,
		MSISDN:       p.MSISDN,
		MEI:          p.MEI,
		RATType:      6, // EUTRAN
		APN:          p.APN,
		PDNType:      1, // IPv4
		SenderTEID:   mmeCPTEID,
		SenderIPv4:   nodeMME.Addr,
		EBI:          5,
		QoS:          gtpcbuild.BearerQoS{QCI: 9},
		AMBRUplink:   50000,
		AMBRDownlink: 100000,
	})
	f.v2(1020*time.Millisecond, nodeSGW, nodeMME, gtpcbuild.V2CreateSessionResponse{
		TEID:         mmeCPTEID,
		SeqNum:       2,
		SenderTEID:   sgwCPTEID,
		SenderIPv4:   nodeSGW.Addr,
		EBI:          5,
		Data:         &gtpcbuild.DataFTEID{TEID: sgwUPTEID, IPv4: nodeSGW.Addr},
		AMBRUplink:   50000,
		AMBRDownlink: 100000,
		Recovery:     &zero,
	})

	// eNB attached, update the access-side data-plane F-TEID.
	ratType := uint8(6)
	f.v2(1100*time.Millisecond, nodeMME, nodeSGW, gtpcbuild.V2ModifyBearerRequest{
		TEID:    sgwCPTEID,
		SeqNum:  3,
		EBI:     5,
		RATType: &ratType,
		Data:    &gtpcbuild.DataFTEID{TEID: enbUPTEID, IPv4: enbAddr},
	})
	f.v2(1110*time.Millisecond, nodeSGW, nodeMME, gtpcbuild.V2ModifyBearerResponse{
		TEID:   mmeCPTEID,
		SeqNum: 3,
		EBI:    5,
	})

	// The PGW requests a dedicated bearer, e.g. for VoLTE.
	f.v2(2*time.Second, nodeSGW, nodeMME, gtpcbuild.V2CreateBearerRequest{
		TEID:      mmeCPTEID,
		SeqNum:    4,
		LinkedEBI: 5,
		EBI:       6,
		QoS: gtpcbuild.BearerQoS{
			QCI: 1, PCI: 1, PL: 8, // conversational voice
			MBRUplink: 1024, MBRDownlink: 1024,
			GBRUplink: 512, GBRDownlink: 512,
		},
		Data: &gtpcbuild.DataFTEID{TEID: pgwUPTEID, IPv4: pgwAddr},
	})
	f.v2(2030*time.Millisecond, nodeMME, nodeSGW, gtpcbuild.V2CreateBearerResponse{
		TEID:   sgwCPTEID,
		SeqNum: 4,
		EBI:    6,
		Data:   &gtpcbuild.DataFTEID{TEID: enbUPTEID, IPv4: enbAddr},
	})

	// UE moves to idle mode.
	f.v2(3*time.Second, nodeMME, nodeSGW, gtpcbuild.V2ReleaseAccessBearersRequest{
		TEID:   sgwCPTEID,
		SeqNum: 5,
	})
	f.v2(3010*time.Millisecond, nodeSGW, nodeMME, gtpcbuild.V2ReleaseAccessBearersResponse{
		TEID:   mmeCPTEID,
		SeqNum: 5,
	})

	// Downlink data wakes the UE.
	f.v2(4*time.Second, nodeSGW, nodeMME, gtpcbuild.V2DownlinkDataNotification{
		TEID:   mmeCPTEID,
		SeqNum: 6,
		EBI:    5,
		ARPPL:  8,
	})
	f.v2(4005*time.Millisecond, nodeMME, nodeSGW, gtpcbuild.V2DownlinkDataNotificationAck{
		TEID:   sgwCPTEID,
		SeqNum: 6,
	})

	// Tear down the dedicated bearer.
	f.v2(5*time.Second, nodeSGW, nodeMME, gtpcbuild.V2DeleteBearerRequest{
		TEID:   mmeCPTEID,
		SeqNum: 7,
		EBI:    6,
	})
	f.v2(5010*time.Millisecond, nodeMME, nodeSGW, gtpcbuild.V2DeleteBearerResponse{
		TEID:   sgwCPTEID,
		SeqNum: 7,
		EBI:    6,
	})

	// Detach.
	f.v2(6*time.Second, nodeMME, nodeSGW, gtpcbuild.V2DeleteSessionRequest{
		TEID:       sgwCPTEID,
		SeqNum:     8,
		EBI:        5,
		SenderTEID: mmeCPTEID,
		SenderIPv4: nodeMME.Addr,
	})
	f.v2(6020*time.Millisecond, nodeSGW, nodeMME, gtpcbuild.V2DeleteSessionResponse{
		TEID:   mmeCPTEID,
		SeqNum: 8,
	})

	return f.pkts, f.err
}

// gprsFlow is the 3G PDP context lifecycle on the Gn SGSN-GGSN
// interface. Timestamps start at t=10s so the frames follow the LTE
// flow in the pcap.
func gprsFlow(p scenarioParams) ([]packet, error) {
	base := 10 * time.Second
	zero := uint8(0)
	f := &flow{}

	f.v1(base, nodeSGSN, nodeGGSN, gtpcbuild.V1EchoRequest{SeqNum: 1})
	f.v1(base+10*time.Millisecond, nodeGGSN, nodeSGSN, gtpcbuild.V1EchoResponse{SeqNum: 1})

	f.v1(base+1*time.Second, nodeSGSN, nodeGGSN, gtpcbuild.V1CreatePDPContextRequest{
		SeqNum:     2,
		IMSI:       p.IMSI,
		NSAPI:      5,
		TEIDData:   sgsnUPTEID,
		TEIDCPlane: sgsnCPTEID,
		APN:        p.APN,
		MSISDN:     p.MSISDN,
		Recovery:   &zero,
	})
	f.v1(base+1020*time.Millisecond, nodeGGSN, nodeSGSN, gtpcbuild.V1CreatePDPContextResponse{
		TEID:       sgsnCPTEID,
		SeqNum:     2,
		TEIDData:   ggsnUPTEID,
		TEIDCPlane: ggsnCPTEID,
		ChargingID: 0xdeadbeef,
		Recovery:   &zero,
	})

	f.v1(base+2*time.Second, nodeSGSN, nodeGGSN, gtpcbuild.V1UpdatePDPContextRequest{
		TEID:       ggsnCPTEID,
		SeqNum:     3,
		NSAPI:      5,
		TEIDData:   sgsnUPTEID,
		TEIDCPlane: sgsnCPTEID,
	})
	f.v1(base+2010*time.Millisecond, nodeGGSN, nodeSGSN, gtpcbuild.V1UpdatePDPContextResponse{
		TEID:       sgsnCPTEID,
		SeqNum:     3,
		TEIDData:   ggsnUPTEID,
		TEIDCPlane: ggsnCPTEID,
		ChargingID: 0xdeadbeef,
	})

	f.v1(base+3*time.Second, nodeSGSN, nodeGGSN, gtpcbuild.V1DeletePDPContextRequest{
		TEID:     ggsnCPTEID,
		SeqNum:   4,
		NSAPI:    5,
		Teardown: true,
	})
	f.v1(base+3010*time.Millisecond, nodeGGSN, nodeSGSN, gtpcbuild.V1DeletePDPContextResponse{
		TEID:   sgsnCPTEID,
		SeqNum: 4,
	})

	return f.pkts, f.err
}

// writeCapture builds both flows, encapsulates every message, and
// writes the frames to w as a pcap stream. It returns the number of
// packets written.
func writeCapture(w io.Writer, log *logrus.Logger, params scenarioParams) (int, error) {
	lte, err := lteFlow(params)
	if err != nil {
		return 0, err
	}
	gprs, err := gprsFlow(params)
	if err != nil {
		return 0, err
	}
	pkts := append(lte, gprs...)

	pw, err := capture.NewWriter(w)
	if err != nil {
		return 0, err
	}
	base := time.Now()
	for i, pkt := range pkts {
		frame, err := capture.Frame(pkt.src, pkt.dst, capture.GTPCPort, uint16(i+1), pkt.payload)
		if err != nil {
			return i, err
		}
		if err := pw.WritePacket(base.Add(pkt.at), frame); err != nil {
			return i, err
		}
		log.WithFields(logrus.Fields{
			"src":   pkt.src.Name,
			"dst":   pkt.dst.Name,
			"frame": len(frame),
			"gtp":   len(pkt.payload),
		}).Debug(pkt.name)
	}
	return len(pkts), nil
}
