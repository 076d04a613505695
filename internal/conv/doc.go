// Package conv provides checked integer conversions.
//
// Storage backends address slots with int, while roaring bitmaps address them
// with uint32. Every crossing between the two goes through this package so an
// out-of-range index surfaces as ErrOverflow rather than a silently truncated
// slot number.
package conv
