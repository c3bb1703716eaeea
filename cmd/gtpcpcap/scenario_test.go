// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/bassosimone/wirecodec/capture"
	"github.com/bassosimone/wirecodec/gtpc"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testParams = scenarioParams{
	IMSI:   "001011234567890",
	MSISDN: "447700900001",
	MEI:    "3569870129304757",
	APN:    "internet.epc.mnc001.mcc001.gprs",
}

func TestLTEFlow(t *testing.T) {
	pkts, err := lteFlow(testParams)
	require.NoError(t, err)
	require.Len(t, pkts, 16)

	t.Run("BracketedByEchoAndDeleteSession", func(t *testing.T) {
		require.Equal(t, "Echo Request", pkts[0].name)
		require.Equal(t, "Delete Session Response", pkts[len(pkts)-1].name)
	})

	t.Run("EveryPayloadDecodes", func(t *testing.T) {
		for _, pkt := range pkts {
			m, err := gtpc.DecodeV2(pkt.payload)
			require.NoError(t, err, pkt.name)
			require.Equal(t, uint8(2), m.Version(), pkt.name)
		}
	})

	t.Run("TimestampsAreMonotonic", func(t *testing.T) {
		for i := 1; i < len(pkts); i++ {
			require.Greater(t, pkts[i].at, pkts[i-1].at)
		}
	})
}

func TestGPRSFlow(t *testing.T) {
	pkts, err := gprsFlow(testParams)
	require.NoError(t, err)
	require.Len(t, pkts, 8)

	t.Run("EveryPayloadDecodes", func(t *testing.T) {
		for _, pkt := range pkts {
			m, err := gtpc.DecodeV1(pkt.payload)
			require.NoError(t, err, pkt.name)
			require.Equal(t, uint8(1), m.Version(), pkt.name)
		}
	})

	t.Run("NodesAlternate", func(t *testing.T) {
		require.Equal(t, "SGSN", pkts[0].src.Name)
		require.Equal(t, "GGSN", pkts[0].dst.Name)
		require.Equal(t, "GGSN", pkts[1].src.Name)
	})
}

func TestWriteCapture(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var buf bytes.Buffer
	count, err := writeCapture(&buf, log, testParams)
	require.NoError(t, err)
	require.Equal(t, 24, count)

	r, err := pcapgo.NewReader(&buf)
	require.NoError(t, err)
	read := 0
	for {
		data, _, err := r.ReadPacketData()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)
		udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
		require.True(t, ok)
		require.Equal(t, layers.UDPPort(capture.GTPCPort), udp.DstPort)
		require.NotEmpty(t, udp.Payload)
		read++
	}
	require.Equal(t, 24, read)
}
