// SPDX-License-Identifier: BSD-3-Clause

package dnswire

import (
	"encoding/binary"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/stretchr/testify/require"
)

func TestQueryClone(t *testing.T) {
	query := &Query{
		Name:    "www.example.com",
		Type:    TypeA,
		Flags:   QueryFlagBlockLengthPadding | QueryFlagDNSSec,
		ID:      1234,
		MaxSize: QueryMaxResponseSizeTCP,
	}

	clone := query.Clone()

	require.NotSame(t, query, clone)
	require.Equal(t, query, clone)

	clone.Name = "www.example.net"
	clone.Type = TypeAAAA
	clone.Flags = 0
	clone.ID = 5678
	clone.MaxSize = QueryMaxResponseSizeUDP

	require.Equal(t, "www.example.com", query.Name)
	require.Equal(t, TypeA, query.Type)
	require.Equal(t, uint16(QueryFlagBlockLengthPadding|QueryFlagDNSSec), query.Flags)
	require.Equal(t, uint16(1234), query.ID)
	require.Equal(t, uint16(QueryMaxResponseSizeTCP), query.MaxSize)
}

func TestQueryNewMessage(t *testing.T) {
	query := NewQuery("www.example.com", TypeA)
	query.ID = 42

	msg, err := query.NewMessage()
	require.NoError(t, err)
	require.Equal(t, uint16(42), msg.ID)
	require.True(t, msg.RD())
	require.False(t, msg.QR())
	require.Equal(t, []Question{{
		Name:  "www.example.com",
		Type:  TypeA,
		Class: ClassIN,
	}}, msg.Questions)

	// The OPT pseudo-RR advertises the maximum response size.
	require.Len(t, msg.Additional, 1)
	opt := msg.Additional[0]
	require.Equal(t, TypeOPT, opt.Type)
	require.Equal(t, uint16(QueryMaxResponseSizeUDP), opt.Class)
	require.Equal(t, uint32(0), opt.TTL)
}

func TestQueryNewMessageIDNA(t *testing.T) {
	query := &Query{
		Name:    "bücher.example",
		Type:    TypeA,
		ID:      42,
		MaxSize: QueryMaxResponseSizeUDP,
	}

	msg, err := query.NewMessage()
	require.NoError(t, err)
	require.Len(t, msg.Questions, 1)
	require.Equal(t, "xn--bcher-kva.example", msg.Questions[0].Name)
}

func TestQueryNewMessageIDNAError(t *testing.T) {
	query := &Query{
		Name: "bad name.example",
		Type: TypeA,
	}

	_, err := query.NewMessage()
	require.Error(t, err)
}

func TestQueryNewMessageDNSSec(t *testing.T) {
	query := NewQuery("www.example.com", TypeA)
	query.Flags |= QueryFlagDNSSec

	msg, err := query.NewMessage()
	require.NoError(t, err)
	require.Equal(t, uint32(ednsDOBit), msg.Additional[0].TTL)
}

func TestQueryNewMessagePadding(t *testing.T) {
	query := NewQuery("www.example.com", TypeA)
	query.ID = 1

	msgBase := runtimex.PanicOnError1(query.NewMessage())
	rawBase := runtimex.PanicOnError1(msgBase.Encode())
	baseLen := len(rawBase)

	queryPad := query.Clone()
	queryPad.Flags |= QueryFlagBlockLengthPadding
	msgPad := runtimex.PanicOnError1(queryPad.NewMessage())
	rawPad := runtimex.PanicOnError1(msgPad.Encode())

	expectedPadding := (128 - (baseLen+4)%128) % 128

	pad := msgPad.Additional[0].Raw
	require.NotNil(t, pad)
	require.Equal(t, uint16(ednsOptionPadding), binary.BigEndian.Uint16(pad))
	require.Equal(t, expectedPadding, int(binary.BigEndian.Uint16(pad[2:])))
	require.Equal(t, baseLen+4+expectedPadding, len(rawPad))
	require.Equal(t, 0, len(rawPad)%128)
}
