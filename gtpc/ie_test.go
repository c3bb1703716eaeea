// SPDX-License-Identifier: GPL-3.0-or-later

package gtpc

import (
	"bytes"
	"testing"

	"github.com/bassosimone/wirecodec/wire"
	"github.com/stretchr/testify/require"
)

func TestIEv1TV(t *testing.T) {
	t.Run("Encode", func(t *testing.T) {
		ie := IEv1{Type: TVRecovery, Data: []byte{0x05}}
		raw, err := ie.Encode()
		require.NoError(t, err)
		require.Equal(t, []byte{0x0e, 0x05}, raw)
	})

	t.Run("Decode", func(t *testing.T) {
		ie, n, err := DecodeIEv1([]byte{0x0e, 0x05})
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, TVRecovery, ie.Type)
		require.Equal(t, []byte{0x05}, ie.Data)
		require.False(t, ie.TLV())
	})

	t.Run("IMSIOccupiesNineBytes", func(t *testing.T) {
		ie := IEv1{Type: TVIMSI, Data: bytes.Repeat([]byte{0x00}, 8)}
		raw, err := ie.Encode()
		require.NoError(t, err)
		require.Len(t, raw, 9)
	})

	t.Run("EncodeWrongValueSizeFails", func(t *testing.T) {
		ie := IEv1{Type: TVRecovery, Data: []byte{0x05, 0x06}}
		_, err := ie.Encode()
		require.ErrorIs(t, err, wire.ErrPack)
	})

	t.Run("EncodeUnknownTypeFails", func(t *testing.T) {
		ie := IEv1{Type: 0x1e, Data: []byte{}}
		_, err := ie.Encode()
		require.ErrorIs(t, err, wire.ErrPack)
	})

	t.Run("DecodeUnknownTypeFails", func(t *testing.T) {
		_, _, err := DecodeIEv1([]byte{0x1e, 0x00})
		require.ErrorIs(t, err, wire.ErrDecode)
	})
}

func TestIEv1TLV(t *testing.T) {
	t.Run("Encode", func(t *testing.T) {
		ie := IEv1{Type: TLVAPN, Data: []byte("internet")}
		raw, err := ie.Encode()
		require.NoError(t, err)
		require.Equal(t, []byte("\x83\x00\x08internet"), raw)
	})

	t.Run("Decode", func(t *testing.T) {
		ie, n, err := DecodeIEv1([]byte("\x83\x00\x08internet"))
		require.NoError(t, err)
		require.Equal(t, 11, n)
		require.Equal(t, TLVAPN, ie.Type)
		require.Equal(t, []byte("internet"), ie.Data)
		require.True(t, ie.TLV())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ie := IEv1{Type: TLVAPN, Data: []byte("some.apn")}
		raw, err := ie.Encode()
		require.NoError(t, err)
		back, _, err := DecodeIEv1(raw)
		require.NoError(t, err)
		require.Equal(t, ie, back)
	})

	t.Run("TruncatedLengthFails", func(t *testing.T) {
		_, _, err := DecodeIEv1([]byte{0x83, 0x00})
		require.ErrorIs(t, err, wire.ErrDecode)
	})

	t.Run("TruncatedValueFails", func(t *testing.T) {
		_, _, err := DecodeIEv1([]byte("\x83\x00\x08int"))
		require.ErrorIs(t, err, wire.ErrDecode)
	})
}

func TestIEv2(t *testing.T) {
	t.Run("EncodeIsTwelveBytesForEightByteValue", func(t *testing.T) {
		ie := IEv2{Type: IEIMSI, Data: bytes.Repeat([]byte{0xaa}, 8)}
		raw, err := ie.Encode()
		require.NoError(t, err)
		require.Len(t, raw, 12)
		require.Equal(t, IEIMSI, raw[0])
		require.Equal(t, []byte{0x00, 0x08}, raw[1:3])
	})

	t.Run("Decode", func(t *testing.T) {
		raw := append([]byte{0x01, 0x00, 0x08, 0x00}, bytes.Repeat([]byte{0xaa}, 8)...)
		ie, n, err := DecodeIEv2(raw)
		require.NoError(t, err)
		require.Equal(t, 12, n)
		require.Equal(t, IEIMSI, ie.Type)
		require.Equal(t, uint8(0), ie.CR())
		require.Equal(t, uint8(0), ie.Instance())
		require.Equal(t, bytes.Repeat([]byte{0xaa}, 8), ie.Data)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ie := IEv2{Type: IEAPN, Data: []byte("\x08internet")}
		raw, err := ie.Encode()
		require.NoError(t, err)
		back, _, err := DecodeIEv2(raw)
		require.NoError(t, err)
		require.Equal(t, ie, back)
	})

	t.Run("TruncatedLengthFails", func(t *testing.T) {
		_, _, err := DecodeIEv2([]byte{0x01, 0x00})
		require.ErrorIs(t, err, wire.ErrDecode)
	})

	t.Run("TruncatedFlagsFails", func(t *testing.T) {
		_, _, err := DecodeIEv2([]byte{0x01, 0x00, 0x08})
		require.ErrorIs(t, err, wire.ErrDecode)
	})

	t.Run("TruncatedValueFails", func(t *testing.T) {
		_, _, err := DecodeIEv2([]byte{0x01, 0x00, 0x08, 0x00, 0xaa})
		require.ErrorIs(t, err, wire.ErrDecode)
	})
}

func TestIEv2Flags(t *testing.T) {
	t.Run("SetCRKeepsInstance", func(t *testing.T) {
		ie := IEv2{Type: IEIMSI}
		ie.SetCR(3)
		require.Equal(t, uint8(3), ie.CR())
		require.Equal(t, uint8(0), ie.Instance())
	})

	t.Run("SetInstanceKeepsCR", func(t *testing.T) {
		ie := IEv2{Type: IEIMSI}
		ie.SetInstance(5)
		require.Equal(t, uint8(5), ie.Instance())
		require.Equal(t, uint8(0), ie.CR())
	})

	t.Run("CombinedFlagsByte", func(t *testing.T) {
		ie := IEv2{Type: IEIMSI}
		ie.SetCR(0xa)
		ie.SetInstance(0x3)
		require.Equal(t, uint8(0xa3), ie.Flags)
	})
}

func TestIEv2TypeName(t *testing.T) {
	ie := IEv2{Type: IEBearerContext}
	require.Equal(t, "Bearer Context", ie.TypeName())
	ie.Type = 200
	require.Equal(t, "IE-200", ie.TypeName())
}

func TestIESequences(t *testing.T) {
	t.Run("V1RoundTrip", func(t *testing.T) {
		ies := []IEv1{
			{Type: TVCause, Data: []byte{0xc0}},
			{Type: TVRecovery, Data: []byte{0x01}},
			{Type: TLVAPN, Data: []byte("\x08internet")},
		}
		raw, err := EncodeIEsV1(ies)
		require.NoError(t, err)
		back, err := DecodeIEsV1(raw)
		require.NoError(t, err)
		require.Equal(t, ies, back)
	})

	t.Run("V2RoundTrip", func(t *testing.T) {
		ies := []IEv2{
			{Type: IECause, Data: []byte{0x10}},
			{Type: IERecovery, Data: []byte{0x07}},
		}
		raw, err := EncodeIEsV2(ies)
		require.NoError(t, err)
		back, err := DecodeIEsV2(raw)
		require.NoError(t, err)
		require.Equal(t, ies, back)
	})

	t.Run("V2ResidualBytesFail", func(t *testing.T) {
		raw, err := EncodeIEsV2([]IEv2{{Type: IECause, Data: []byte{0x10}}})
		require.NoError(t, err)
		_, err = DecodeIEsV2(append(raw, 0x02))
		require.ErrorIs(t, err, wire.ErrDecode)
	})
}

func TestIEv2GroupedInnerIEs(t *testing.T) {
	inner := []IEv2{
		{Type: IEEBI, Data: []byte{0x05}},
		{Type: IECause, Data: []byte{0x10}},
	}
	value, err := EncodeIEsV2(inner)
	require.NoError(t, err)
	outer := IEv2{Type: IEBearerContext, Data: value}
	back, err := outer.InnerIEs()
	require.NoError(t, err)
	require.Equal(t, inner, back)
}
