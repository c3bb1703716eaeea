// SPDX-License-Identifier: GPL-3.0-or-later

package wire

import "errors"

// Errors shared by every codec in this module. Specific failures wrap
// one of these sentinels, so callers can classify with [errors.Is].
var (
	// ErrNeedData means the buffer is shorter than a required fixed field.
	ErrNeedData = errors.New("wire: need more data")

	// ErrDecode means the input bytes violate the wire format.
	ErrDecode = errors.New("wire: cannot decode")

	// ErrPack means a message cannot be serialized as constructed.
	ErrPack = errors.New("wire: cannot pack")
)
