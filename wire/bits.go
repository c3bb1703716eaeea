// SPDX-License-Identifier: GPL-3.0-or-later

package wire

// Unsigned is the set of backing integers a [Bits] view can address.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Bits is a view over a run of bits inside a backing integer: Width bits
// starting Shift positions from the least significant bit.
//
// Get and Set are pure functions of their arguments; Set preserves every
// bit outside the view, so independent views over the same backing
// integer never observe each other's writes.
type Bits[T Unsigned] struct {
	Shift uint
	Width uint
}

func (b Bits[T]) mask() T {
	return T(1)<<b.Width - 1
}

// Get extracts the view's bits from backing.
func (b Bits[T]) Get(backing T) T {
	return (backing >> b.Shift) & b.mask()
}

// Set returns backing with the view's bits replaced by the low Width
// bits of value.
func (b Bits[T]) Set(backing, value T) T {
	return (backing &^ (b.mask() << b.Shift)) | ((value & b.mask()) << b.Shift)
}

// GetFlag reports whether a one-bit view is set.
func (b Bits[T]) GetFlag(backing T) bool {
	return b.Get(backing) != 0
}

// SetFlag returns backing with a one-bit view set or cleared.
func (b Bits[T]) SetFlag(backing T, value bool) T {
	if value {
		return b.Set(backing, 1)
	}
	return b.Set(backing, 0)
}
