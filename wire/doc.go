// SPDX-License-Identifier: GPL-3.0-or-later

// Package wire contains the byte-level building blocks shared by the
// format-specific codecs in this module.
//
// A [*Reader] walks an untrusted buffer in network byte order and fails
// with [ErrNeedData] on short reads. A [*Writer] accumulates the mirror
// output. [Bits] describes a run of bits inside a backing integer and
// provides masked get/set access that never disturbs neighbouring bits.
package wire
