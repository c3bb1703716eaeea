// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnswire is a DNS message parser and serializer.
//
// [Decode] unpacks a raw RFC 1035 message, following label compression
// pointers, into a [*Message] whose resource records carry both the raw
// rdata bytes and, for the record types we understand, a typed [RData]
// view. [*Message.Encode] performs the mirror serialization, compressing
// names with a fresh per-call label table.
//
// On top of the codec, [NewQuery] and [*Query] construct common client
// query messages, while [ParseResponse] and [*Response] validate a raw
// response against the query that elicited it.
package dnswire
