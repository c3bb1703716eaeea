// SPDX-License-Identifier: GPL-3.0-or-later

// Package gtpc implements the wire format of GTP-C control messages.
//
// [DecodeV1] parses GTPv1-C messages (3GPP TS 29.060) and [DecodeV2]
// parses GTPv2-C messages (3GPP TS 29.274); [*MessageV1.Encode] and
// [*MessageV2.Encode] serialize them back. Information elements are
// [IEv1] (TV or TLV form) and [IEv2] (uniform type-length-flags-value
// form); fully-qualified tunnel endpoint identifiers are [FTEID].
//
// A message body is an ordered IE sequence with no count field: decode
// consumes IEs until the body is exhausted. Grouped GTPv2 IEs such as
// Bearer Context carry a nested IE list as their value; the outer
// decode leaves the value opaque and [*IEv2.InnerIEs] parses it on
// demand.
package gtpc
