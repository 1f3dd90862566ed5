// Package device defines the addressable-unit contract (Device), endian
// byte-order conversions, and the reference RAM device that the bus and
// MMU layers build on.
package device

import "encoding/binary"

// Endian names a device's byte order.
type Endian uint8

const (
	Little Endian = iota
	Big
)

func (e Endian) String() string {
	if e == Big {
		return "big"
	}
	return "little"
}

// byteOrder returns the stdlib binary.ByteOrder matching e.
func (e Endian) byteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func LoadU16(b []byte, e Endian) uint16 { return e.byteOrder().Uint16(b) }
func LoadU32(b []byte, e Endian) uint32 { return e.byteOrder().Uint32(b) }
func LoadU64(b []byte, e Endian) uint64 { return e.byteOrder().Uint64(b) }

func StoreU16(b []byte, e Endian, v uint16) { e.byteOrder().PutUint16(b, v) }
func StoreU32(b []byte, e Endian, v uint32) { e.byteOrder().PutUint32(b, v) }
func StoreU64(b []byte, e Endian, v uint64) { e.byteOrder().PutUint64(b, v) }

// AccessContext distinguishes ordinary CPU-driven accesses from
// introspection/debugger accesses that must never trigger device side
// effects (clear-on-read, write protection, blocking).
type AccessContext struct {
	Debug bool
}

// CPU is the normal, side-effect-observing access context.
var CPU = AccessContext{Debug: false}

// DEBUG bypasses write protection and side effects; used by inspectors.
var DEBUG = AccessContext{Debug: true}
