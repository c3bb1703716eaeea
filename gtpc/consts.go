// SPDX-License-Identifier: GPL-3.0-or-later

package gtpc

// GTPv1-C message types (3GPP TS 29.060 §7.1).
const (
	V1EchoRequest              uint8 = 1
	V1EchoResponse             uint8 = 2
	V1VersionNotSupported      uint8 = 3
	V1CreatePDPContextRequest  uint8 = 16
	V1CreatePDPContextResponse uint8 = 17
	V1UpdatePDPContextRequest  uint8 = 18
	V1UpdatePDPContextResponse uint8 = 19
	V1DeletePDPContextRequest  uint8 = 20
	V1DeletePDPContextResponse uint8 = 21
)

// GTPv2-C message types (3GPP TS 29.274 §6.1).
const (
	V2EchoRequest                  uint8 = 1
	V2EchoResponse                 uint8 = 2
	V2VersionNotSupported          uint8 = 3
	V2CreateSessionRequest         uint8 = 32
	V2CreateSessionResponse        uint8 = 33
	V2ModifyBearerRequest          uint8 = 34
	V2ModifyBearerResponse         uint8 = 35
	V2DeleteSessionRequest         uint8 = 36
	V2DeleteSessionResponse        uint8 = 37
	V2CreateBearerRequest          uint8 = 95
	V2CreateBearerResponse         uint8 = 96
	V2DeleteBearerRequest          uint8 = 99
	V2DeleteBearerResponse         uint8 = 100
	V2ReleaseAccessBearersRequest  uint8 = 170
	V2ReleaseAccessBearersResponse uint8 = 171
	V2DownlinkDataNotification     uint8 = 176
	V2DownlinkDataNotificationAck  uint8 = 177
)

// GTPv1 TV-form information element types. These carry no length field
// on the wire; the value size is fixed per type (see tvLengths).
const (
	TVReserved             uint8 = 0
	TVCause                uint8 = 1
	TVIMSI                 uint8 = 2
	TVRAI                  uint8 = 3
	TVTLLI                 uint8 = 4
	TVPTMSI                uint8 = 5
	TVReorderRequired      uint8 = 8
	TVAuthTriplet          uint8 = 9
	TVMAPCause             uint8 = 11
	TVPTMSISignature       uint8 = 12
	TVMSValidated          uint8 = 13
	TVRecovery             uint8 = 14
	TVSelectionMode        uint8 = 15
	TVTEIDDataI            uint8 = 16
	TVTEIDControlPlane     uint8 = 17
	TVTEIDDataII           uint8 = 18
	TVTeardownInd          uint8 = 19
	TVNSAPI                uint8 = 20
	TVRANAPCause           uint8 = 21
	TVRABContext           uint8 = 22
	TVRadioPrioritySMS     uint8 = 23
	TVRadioPriority        uint8 = 24
	TVPacketFlowID         uint8 = 25
	TVChargingChars        uint8 = 26
	TVTraceReference       uint8 = 27
	TVTraceType            uint8 = 28
	TVMSNotReachableReason uint8 = 29
	TVChargingID           uint8 = 127
)

// Fixed value length in bytes of each TV-form IE type
// (3GPP TS 29.060 §7.7).
var tvLengths = map[uint8]int{
	TVReserved:             0,
	TVCause:                1,
	TVIMSI:                 8,
	TVRAI:                  6,
	TVTLLI:                 4,
	TVPTMSI:                4,
	TVReorderRequired:      1,
	TVAuthTriplet:          28,
	TVMAPCause:             1,
	TVPTMSISignature:       3,
	TVMSValidated:          1,
	TVRecovery:             1,
	TVSelectionMode:        1,
	TVTEIDDataI:            4,
	TVTEIDControlPlane:     4,
	TVTEIDDataII:           5,
	TVTeardownInd:          1,
	TVNSAPI:                1,
	TVRANAPCause:           1,
	TVRABContext:           9,
	TVRadioPrioritySMS:     1,
	TVRadioPriority:        1,
	TVPacketFlowID:         2,
	TVChargingChars:        2,
	TVTraceReference:       2,
	TVTraceType:            2,
	TVMSNotReachableReason: 1,
	TVChargingID:           4,
}

// GTPv1 TLV-form information element types. The high bit of the type
// byte marks the TLV form; these carry an explicit 16-bit length.
const (
	TLVEndUserAddress uint8 = 0x80
	TLVAPN            uint8 = 0x83
	TLVPCO            uint8 = 0x84
	TLVGSNAddress     uint8 = 0x85
	TLVMSISDN         uint8 = 0x86
	TLVQoSProfile     uint8 = 0x87
)

// GTPv2 information element types (3GPP TS 29.274 §8.1).
const (
	IEIMSI           uint8 = 1
	IECause          uint8 = 2
	IERecovery       uint8 = 3
	IEAPN            uint8 = 71
	IEAMBR           uint8 = 72
	IEEBI            uint8 = 73
	IEMEI            uint8 = 75
	IEMSISDN         uint8 = 76
	IEIndication     uint8 = 77
	IEPCO            uint8 = 78
	IEPAA            uint8 = 79
	IEBearerQoS      uint8 = 80
	IERATType        uint8 = 82
	IEBearerTFT      uint8 = 84
	IEFTEID          uint8 = 87
	IEBearerContext  uint8 = 93
	IEChargingID     uint8 = 94
	IEChargingChars  uint8 = 95
	IEPDNType        uint8 = 99
	IEAPNRestriction uint8 = 127
	IESelectionMode  uint8 = 128
	IEThrottling     uint8 = 154
	IEARP            uint8 = 155
	IEEPCTimer       uint8 = 156
)

// Display names for the GTPv2 IE types we understand, for logging and
// diagnostics.
var ieNamesV2 = map[uint8]string{
	IEIMSI:           "IMSI",
	IECause:          "Cause",
	IERecovery:       "Recovery",
	IEAPN:            "APN",
	IEAMBR:           "AMBR",
	IEEBI:            "EBI",
	IEMEI:            "MEI",
	IEMSISDN:         "MSISDN",
	IEIndication:     "Indication",
	IEPCO:            "PCO",
	IEPAA:            "PAA",
	IEBearerQoS:      "Bearer QoS",
	IERATType:        "RAT Type",
	IEBearerTFT:      "Bearer TFT",
	IEFTEID:          "F-TEID",
	IEBearerContext:  "Bearer Context",
	IEChargingID:     "Charging ID",
	IEChargingChars:  "Charging Characteristics",
	IEPDNType:        "PDN Type",
	IEAPNRestriction: "APN Restriction",
	IESelectionMode:  "Selection Mode",
	IEThrottling:     "Throttling",
	IEARP:            "ARP",
	IEEPCTimer:       "EPC Timer",
}

// GTPv1 cause codes (3GPP TS 29.060 table 7.7.1).
const (
	V1CauseRequestAccepted uint8 = 192
)

// GTPv2 cause codes (3GPP TS 29.274 table 8.4-1).
const (
	V2CauseRequestAccepted uint8 = 16
	V2CauseSystemFailure   uint8 = 18
	V2CauseContextNotFound uint8 = 64
)

// F-TEID interface types (3GPP TS 29.274 §8.22).
const (
	InterfaceS1UENodeB   uint8 = 0
	InterfaceS1USGW      uint8 = 1
	InterfaceS5S8SGWGTPU uint8 = 4
	InterfaceS5S8PGWGTPU uint8 = 5
	InterfaceS5S8SGWGTPC uint8 = 6
	InterfaceS5S8PGWGTPC uint8 = 7
	InterfaceS11MME      uint8 = 10
	InterfaceS11S4SGW    uint8 = 11
)
