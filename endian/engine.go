// Package endian provides byte order utilities for the packet writer.
//
// It combines ByteOrder and AppendByteOrder from the standard library's
// encoding/binary into a single EndianEngine interface, satisfied by
// binary.LittleEndian and binary.BigEndian directly, so the bit buffer
// and schema packages can take one interface value instead of juggling
// two.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder so a single value
// can both decode existing bytes and append new ones without an extra
// allocation for a temporary scratch buffer.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness inspects the host's native byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ByName resolves "le"/"be" (the two spellings the metadata renderer and
// schema package accept) to an EndianEngine.
func ByName(name string) (EndianEngine, bool) {
	switch name {
	case "le":
		return GetLittleEndianEngine(), true
	case "be":
		return GetBigEndianEngine(), true
	default:
		return nil, false
	}
}

// Name returns "le" or "be" for the given engine, matching the TSDL
// byte_order attribute spelling.
func Name(e EndianEngine) string {
	if e == GetBigEndianEngine() {
		return "be"
	}

	return "le"
}
