// SPDX-License-Identifier: GPL-3.0-or-later

// Package gtpcbuild builds ready-to-encode GTP-C messages for the
// common signalling procedures: GTPv1-C path and PDP context management
// (3GPP TS 29.060) and GTPv2-C path, session, and bearer management
// (3GPP TS 29.274).
//
// Each message is a config struct whose zero value carries sensible
// defaults (IMSI of all zeroes, APN "internet", default bearer EBI 5,
// best-effort QoS); Build assembles the IE sequence and returns a
// [gtpc.MessageV1] or [gtpc.MessageV2]. The value-field encoders
// [EncodeIMSI], [EncodeAPN], [EncodeAMBR], and [*BearerQoS.Encode] are
// exported for callers composing their own IEs.
package gtpcbuild
