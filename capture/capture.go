// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"fmt"
	"io"
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// GTPCPort is the well-known UDP port for GTP-C signalling.
const GTPCPort = 2123

// snaplen is the capture length we declare in the pcap file header.
const snaplen = 65536

// Node is a network endpoint participating in a signalling flow.
type Node struct {
	// Name labels the node in logs (e.g. "MME", "SGW").
	Name string

	// MAC is the node's link-layer address.
	MAC net.HardwareAddr

	// Addr is the node's IPv4 address.
	Addr netip.Addr
}

// NewNode constructs a [Node], panicking on malformed addresses. Use
// it for the static topologies of generated captures, where a bad
// address is a programming error.
func NewNode(name, mac, addr string) Node {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		panic(err)
	}
	return Node{Name: name, MAC: hw, Addr: netip.MustParseAddr(addr)}
}

// Frame encapsulates payload in UDP/IPv4/Ethernet from src to dst with
// both UDP ports set to port. The ipID value distinguishes frames of
// the same flow in packet analyzers. Lengths and checksums are
// computed during serialization.
func Frame(src, dst Node, port uint16, ipID uint16, payload []byte) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       src.MAC,
		DstMAC:       dst.MAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		Id:       ipID,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP(src.Addr.AsSlice()),
		DstIP:    net.IP(dst.Addr.AsSlice()),
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(port),
		DstPort: layers.UDPPort(port),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Writer appends Ethernet frames to a pcap stream.
type Writer struct {
	pw *pcapgo.Writer
}

// NewWriter writes the pcap file header to w and returns a [Writer]
// appending frames to it.
func NewWriter(w io.Writer) (*Writer, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(snaplen, layers.LinkTypeEthernet); err != nil {
		return nil, fmt.Errorf("pcap header: %w", err)
	}
	return &Writer{pw: pw}, nil
}

// WritePacket appends frame to the stream with the given timestamp.
func (w *Writer) WritePacket(ts time.Time, frame []byte) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     ts,
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := w.pw.WritePacket(ci, frame); err != nil {
		return fmt.Errorf("pcap packet: %w", err)
	}
	return nil
}
