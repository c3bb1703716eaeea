// SPDX-License-Identifier: GPL-3.0-or-later

// Package capture wraps encoded control-plane messages in
// Ethernet/IPv4/UDP frames and writes them to pcap files.
//
// Use [Frame] to encapsulate a payload exchanged between two [Node]
// endpoints, and [Writer] to append the resulting frames to a pcap
// stream with explicit timestamps.
//
// This package contains no codec logic: callers encode messages with
// [github.com/bassosimone/wirecodec/gtpc] or
// [github.com/bassosimone/wirecodec/dnswire] and hand us the bytes.
package capture
