// Package typemap is the closed table of provider argument types.
//
// Every type a provider file may name maps to exactly one C ABI type, one Go
// host type and one cgo conversion type, with a fixed byte width and class:
//
//	uint8_t .. uint64_t   unsigned, 1..8 bytes, Go uint8 .. uint64
//	int8_t  .. int64_t    signed, 1..8 bytes, Go int8 .. int64
//	uintptr_t             pointer sized, Go uintptr
//	char *, string        pointer sized, Go string (borrowed for the call)
//
// There is no default entry: a spelling missing from the table is an error
// for the caller to report.
package typemap
