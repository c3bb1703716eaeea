// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/hex"
	"net/netip"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/bassosimone/wirecodec/wire"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func mustHex(s string) []byte {
	return runtimex.PanicOnError1(hex.DecodeString(s))
}

// A recursive response for www.google.com observed on the wire: one
// question, a CNAME, two A records, eleven NS records, and eleven glue
// records, with heavy use of compression pointers.
var vectorValidRequest = mustHex(
	"64d2818000010003000b000b0377777706676f6f676c6503636f6d0000010001" +
		"c00c000500010000035600170377777706676f6f676c6506616b61646e73036e" +
		"657400c02c00010001000001a3000440e9ab68c02c00010001000001a3000440" +
		"e9ab63c0370002000100004b47000c047573773504616b616dc03ec037000200" +
		"0100004b4700070475737736c074c0370002000100004b4700070475737737c0" +
		"74c0370002000100004b470008056173696133c074c0370002000100004b4700" +
		"05027a61c037c0370002000100004b47000f027a6306616b61646e73036f7267" +
		"00c0370002000100004b470005027a66c037c0370002000100004b470005027a" +
		"68c0d5c0370002000100004b4700070465757233c074c0370002000100004b47" +
		"00070475736532c074c0370002000100004b4700070475736534c074c0c10001" +
		"00010000fb340004d0b984b0c0d2000100010000310c00043ff1c736c0ed0001" +
		"00010000fb3400043fd7c653c0fe000100010000310c00043fd0302ec10f0001" +
		"000100000adf0004c12d0167c122000100010000103100043fd1aa88c1350001" +
		"000100000d1a0004504343b6c06f000100010000107f00043ff149d6c0870001" +
		"000100000adf0004ce84646cc09a0001000100000adf000441cbea1bc0ad0001" +
		"000100000b290004c16c9a09")

func TestDecodeRecursiveResponse(t *testing.T) {
	m, err := Decode(vectorValidRequest)
	require.NoError(t, err)

	require.Equal(t, uint16(0x64d2), m.ID)
	require.Equal(t, uint16(0x8180), m.Flags)
	require.True(t, m.QR())
	require.True(t, m.RD())
	require.True(t, m.RA())
	require.Equal(t, uint8(RcodeNoError), m.Rcode())

	require.Len(t, m.Questions, 1)
	require.Equal(t, Question{Name: "www.google.com", Type: TypeA, Class: ClassIN}, m.Questions[0])

	require.Len(t, m.Answers, 3)
	require.Equal(t, TypeCNAME, m.Answers[0].Type)
	require.Equal(t, NameRef{"www.google.akadns.net"}, m.Answers[0].Data)
	require.Equal(t, "www.google.akadns.net", m.Answers[1].Name)
	require.Equal(t, IPAddr{netip.MustParseAddr("64.233.171.104")}, m.Answers[1].Data)
	require.Equal(t, IPAddr{netip.MustParseAddr("64.233.171.99")}, m.Answers[2].Data)

	require.Len(t, m.Authority, 11)
	require.Equal(t, "akadns.net", m.Authority[0].Name)
	require.Equal(t, NameRef{"usw5.akam.net"}, m.Authority[0].Data)

	require.Len(t, m.Additional, 11)
	require.Equal(t, "usw5.akam.net", m.Additional[0].Name)
	require.Equal(t, IPAddr{netip.MustParseAddr("208.185.132.176")}, m.Additional[0].Data)
}

func TestEncodeSimpleQueryRoundTrip(t *testing.T) {
	raw := mustHex("05f5010000010000000000000377777703636e6e03636f6d0000010001")
	m, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "www.cnn.com", m.Questions[0].Name)
	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDecodePTRResponse(t *testing.T) {
	raw := mustHex(
		"67028180000100010003000001310131033231310331343107696e2d61646472" +
			"046172706100000c0001c00c000c000100000d3600240764656661756c740a76" +
			"2d756d63652d69667305756d6e657405756d6963680365647500c00e00020001" +
			"00000d36000d0673686162627903696673c04fc00e0002000100000d36000f0c" +
			"666973682d6c6963656e7365c06dc00e0002000100000d36000b04646e733203" +
			"697464c04f")

	m, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "1.1.211.141.in-addr.arpa", m.Questions[0].Name)
	require.Equal(t, NameRef{"default.v-umce-ifs.umnet.umich.edu"}, m.Answers[0].Data)
	require.Equal(t, NameRef{"shabby.ifs.umich.edu"}, m.Authority[0].Data)
	require.Equal(t, uint32(3382), m.Authority[1].TTL)
	require.Equal(t, NameRef{"dns2.itd.umich.edu"}, m.Authority[2].Data)

	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDecodeOPTResponse(t *testing.T) {
	raw := mustHex(
		"8d6e0110000100000000000104783131310678787878313106616b616d616903" +
			"6e657400000100010000290fa0000080000000")

	m, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, m.Additional, 1)
	opt := m.Additional[0]
	require.Equal(t, TypeOPT, opt.Type)
	require.Equal(t, uint16(4000), opt.Class) // advertised UDP payload size
	require.Empty(t, opt.Raw)
	require.Nil(t, opt.Data)

	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, raw, out)

	// Grow the rdata and verify it survives another round trip.
	m.Additional[0].Raw = mustHex("000000020000")
	m2, err := Decode(runtimex.PanicOnError1(m.Encode()))
	require.NoError(t, err)
	require.Equal(t, mustHex("000000020000"), m2.Additional[0].Raw)
}

func TestDecodeNULLResponse(t *testing.T) {
	raw := mustHex(
		"12b0840000010001000000000b626c6168626c61683636360670697261746503" +
			"73656100000a0001c00c000a00010000000000095641434b4403c5e901")

	m, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "blahblah666.pirate.sea", m.Questions[0].Name)
	require.Equal(t, TypeNULL, m.Answers[0].Type)
	require.Equal(t, "5641434b4403c5e901", hex.EncodeToString(m.Answers[0].Raw))
	require.Nil(t, m.Answers[0].Data)

	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDecodeTXTResponse(t *testing.T) {
	raw := mustHex(
		"10328180000100010000000006676f6f676c6503636f6d0000100001c00c0010" +
			"00010000010e00100f763d7370663120707472203f616c6c")

	m, err := Decode(raw)
	require.NoError(t, err)
	rr := m.Answers[0]
	require.Equal(t, TypeTXT, rr.Type)
	require.Equal(t, "google.com", rr.Name)
	require.Equal(t, Text{[]string{"v=spf1 ptr ?all"}}, rr.Data)

	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

// A CNAME chain response constructed from scratch must encode to this
// exact 94-byte buffer: the answer names compress against the question
// and against the CNAME target written inside the first answer's rdata.
func TestEncodeCNAMEChainScenario(t *testing.T) {
	expected := mustHex(
		"1234818000010003000000000377777706676f6f676c6503636f6d0000010001" +
			"c00c000500010000012c001204777777340767737461746963036e657400c02c" +
			"000100010000012c000440e9ab68c02c000100010000012c000440e9ab63")
	require.Len(t, expected, 94)

	m := &Message{ID: 0x1234, Flags: 0x8180}
	m.Questions = []Question{{Name: "www.google.com", Type: TypeA, Class: ClassIN}}
	m.Answers = []ResourceRecord{
		{
			Name: "www.google.com", Type: TypeCNAME, Class: ClassIN, TTL: 300,
			Data: NameRef{"www4.gstatic.net"},
		},
		{
			Name: "www4.gstatic.net", Type: TypeA, Class: ClassIN, TTL: 300,
			Data: IPAddr{netip.MustParseAddr("64.233.171.104")},
		},
		{
			Name: "www4.gstatic.net", Type: TypeA, Class: ClassIN, TTL: 300,
			Data: IPAddr{netip.MustParseAddr("64.233.171.99")},
		},
	}

	out, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, expected, out)

	// And the buffer decodes back to the same structure.
	m2, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, m.Questions, m2.Questions)
	require.Equal(t, NameRef{"www4.gstatic.net"}, m2.Answers[0].Data)
	require.Equal(t, "www4.gstatic.net", m2.Answers[1].Name)
	require.Equal(t, IPAddr{netip.MustParseAddr("64.233.171.99")}, m2.Answers[2].Data)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{
			name:     "ShortHeader",
			input:    mustHex("00000100"),
			expected: wire.ErrNeedData,
		},

		{
			name:     "RandomJunk",
			input:    mustHex("837a30d29aec945f37f3b72b85223ff0fb"),
			expected: wire.ErrDecode,
		},

		{
			name:     "CircularPointers",
			input:    mustHex("c00001000001000000000000076578616d706c6503636f6dc000"),
			expected: wire.ErrDecode,
		},

		{
			name: "VeryLongName",
			input: append(append(
				mustHex("000001000001000000000000"),
				[]byte(func() string {
					s := ""
					for i := 0; i < 16; i++ {
						s += "\x10abcdef0123456789"
					}
					return s
				}())...), 0),
			expected: wire.ErrDecode,
		},

		{
			name:     "TruncatedQuestion",
			input:    mustHex("0000010000010000000000000377777703636e6e03636f6d0000"),
			expected: wire.ErrNeedData,
		},

		{
			name:     "TruncatedRData",
			input:    mustHex("00008180000000010000000000000100010000012c0004aabb"),
			expected: wire.ErrNeedData,
		},

		{
			name:     "UnsupportedRRType",
			input:    mustHex("000081800000000100000000002f3900010000012c0000"),
			expected: wire.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

// Each flag accessor only touches its own bits of the packed word.
func TestFlagAccessorsAreIndependent(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Message)
		expected uint16
	}{
		{"ClearQR", func(m *Message) { m.SetQR(false) }, 0x0180},
		{"SetQR", func(m *Message) { m.SetQR(true) }, 0x8180},
		{"SetOpcode", func(m *Message) { m.SetOpcode(1) }, 0x8980},
		{"SetAA", func(m *Message) { m.SetAA(true) }, 0x8580},
		{"SetTC", func(m *Message) { m.SetTC(true) }, 0x8380},
		{"ClearRD", func(m *Message) { m.SetRD(false) }, 0x8080},
		{"ClearRA", func(m *Message) { m.SetRA(false) }, 0x8100},
		{"SetZ", func(m *Message) { m.SetZ(true) }, 0x81c0},
		{"SetAD", func(m *Message) { m.SetAD(true) }, 0x81a0},
		{"SetCD", func(m *Message) { m.SetCD(true) }, 0x8190},
		{"SetRcode", func(m *Message) { m.SetRcode(1) }, 0x8181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Flags: 0x8180}
			tt.modify(m)
			require.Equal(t, tt.expected, m.Flags)
		})
	}
}

// Cross-check the codec against a widely deployed implementation in
// both directions.
func TestDifferentialAgainstMiekgDNS(t *testing.T) {
	t.Run("TheirsDecodesOurs", func(t *testing.T) {
		m := &Message{ID: 0x1234, Flags: 0x8180}
		m.Questions = []Question{{Name: "www.google.com", Type: TypeA, Class: ClassIN}}
		m.Answers = []ResourceRecord{
			{
				Name: "www.google.com", Type: TypeCNAME, Class: ClassIN, TTL: 300,
				Data: NameRef{"www4.gstatic.net"},
			},
			{
				Name: "www4.gstatic.net", Type: TypeA, Class: ClassIN, TTL: 300,
				Data: IPAddr{netip.MustParseAddr("64.233.171.104")},
			},
		}
		raw := runtimex.PanicOnError1(m.Encode())

		var theirs dns.Msg
		require.NoError(t, theirs.Unpack(raw))
		require.Equal(t, uint16(0x1234), theirs.Id)
		require.Equal(t, "www.google.com.", theirs.Question[0].Name)
		cname, ok := theirs.Answer[0].(*dns.CNAME)
		require.True(t, ok)
		require.Equal(t, "www4.gstatic.net.", cname.Target)
		a, ok := theirs.Answer[1].(*dns.A)
		require.True(t, ok)
		require.Equal(t, "64.233.171.104", a.A.String())
	})

	t.Run("OursDecodesTheirs", func(t *testing.T) {
		theirs := new(dns.Msg)
		theirs.SetQuestion("www.example.com.", dns.TypeA)
		theirs.Response = true
		theirs.RecursionAvailable = true
		theirs.Answer = []dns.RR{
			runtimex.PanicOnError1(dns.NewRR("www.example.com. 300 IN CNAME web.example.net.")),
			runtimex.PanicOnError1(dns.NewRR("web.example.net. 300 IN A 192.0.2.1")),
			runtimex.PanicOnError1(dns.NewRR("web.example.net. 300 IN AAAA 2001:db8::1")),
		}
		theirs.Compress = true
		raw := runtimex.PanicOnError1(theirs.Pack())

		m, err := Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "www.example.com", m.Questions[0].Name)
		require.Equal(t, NameRef{"web.example.net"}, m.Answers[0].Data)
		require.Equal(t, IPAddr{netip.MustParseAddr("192.0.2.1")}, m.Answers[1].Data)
		require.Equal(t, IPAddr{netip.MustParseAddr("2001:db8::1")}, m.Answers[2].Data)
	})
}
