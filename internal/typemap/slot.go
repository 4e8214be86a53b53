package typemap

import (
	"fmt"
	"math"
)

// ToSlot encodes a Go value of t's host type into a 64-bit ABI argument
// slot. Signed values are sign extended, all others zero extended. Pointer
// class types take the address as a uintptr; the pointee is never owned by
// the slot.
func ToSlot(t Type, v any) (uint64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("invalid type %d", int(t))
	}

	switch x := v.(type) {
	case uint8:
		if t == Uint8 {
			return uint64(x), nil
		}
	case uint16:
		if t == Uint16 {
			return uint64(x), nil
		}
	case uint32:
		if t == Uint32 {
			return uint64(x), nil
		}
	case uint64:
		if t == Uint64 {
			return x, nil
		}
	case int8:
		if t == Int8 {
			return uint64(int64(x)), nil
		}
	case int16:
		if t == Int16 {
			return uint64(int64(x)), nil
		}
	case int32:
		if t == Int32 {
			return uint64(int64(x)), nil
		}
	case int64:
		if t == Int64 {
			return uint64(x), nil
		}
	case uintptr:
		if table[t].Class == ClassPointer {
			return uint64(x), nil
		}
	}

	return 0, fmt.Errorf("value of type %T cannot be passed as %s", v, t)
}

// FromSlot decodes an ABI argument slot back into the Go value ToSlot
// encoded. Slots whose high bits are not a valid extension of the value are
// rejected instead of being truncated.
func FromSlot(t Type, slot uint64) (any, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid type %d", int(t))
	}

	info := table[t]

	switch info.Class {
	case ClassUnsigned:
		if info.Width < 8 && slot>>uint(info.Bits()) != 0 {
			return nil, fmt.Errorf("slot %#x overflows %s", slot, t)
		}
	case ClassSigned:
		if info.Width < 8 {
			lo, hi := signedRange(info.Bits())
			if s := int64(slot); s < lo || s > hi {
				return nil, fmt.Errorf("slot %#x is not a sign-extended %s", slot, t)
			}
		}
	case ClassPointer:
		if PointerWidth < 8 && slot>>uint(PointerWidth*8) != 0 {
			return nil, fmt.Errorf("slot %#x overflows a pointer", slot)
		}

		return uintptr(slot), nil
	}

	switch t {
	case Uint8:
		return uint8(slot), nil
	case Uint16:
		return uint16(slot), nil
	case Uint32:
		return uint32(slot), nil
	case Uint64:
		return slot, nil
	case Int8:
		return int8(slot), nil
	case Int16:
		return int16(slot), nil
	case Int32:
		return int32(slot), nil
	default:
		return int64(slot), nil
	}
}

func signedRange(bits int) (lo, hi int64) {
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}

	hi = int64(1)<<(bits-1) - 1

	return -hi - 1, hi
}
