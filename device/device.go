package device

// Device is an addressable unit with a semi-open byte span [0, len) in
// device-local coordinates. Implementations must be safe for concurrent
// sharing across handles (§4.A, §5).
type Device interface {
	Name() string
	// Span returns the device-local [start, end) byte range.
	Span() (start, end int)
	Endianness() Endian

	Read(offset int, out []byte, ctx AccessContext) error
	Write(offset int, data []byte, ctx AccessContext) error
}

// RAMCapable is the optional capability a Device may expose: a raw
// byte-slice fast path into its own backing storage at a device-local
// offset. Non-RAM (MMIO) devices must not implement this.
type RAMCapable interface {
	// HostBytes returns a slice of length at least n aliasing the
	// device's own backing storage starting at offset, and true, or
	// (nil, false) if offset is out of range. Callers must not retain
	// the slice across any operation that could resize the device.
	HostBytes(offset, n int) ([]byte, bool)
}

// AsRAM reports whether d exposes the RAM fast path, per §3/§4.A's
// "optional RAM capability".
func AsRAM(d Device) (RAMCapable, bool) {
	r, ok := d.(RAMCapable)
	return r, ok
}
