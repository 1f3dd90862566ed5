package device

import "sync"

// ramGuardBytes pads the backing buffer so an in-range 64-bit load
// never needs a bounds-check fold on the hot path (original_source
// ram.rs: "Add 7 bytes to allow a u64 read up to the end of the array").
const ramGuardBytes = 7

// RAM is the reference RAM device: a fixed-size buffer guarded
// internally by a mutex, exposing the RAMCapable fast path.
type RAM struct {
	name   string
	endian Endian
	mu     sync.Mutex
	bytes  []byte
	length int
}

// NewRAM allocates a RAM device of length bytes (plus guard bytes).
func NewRAM(name string, length int, endian Endian) *RAM {
	return &RAM{
		name:   name,
		endian: endian,
		bytes:  make([]byte, length+ramGuardBytes),
		length: length,
	}
}

func (r *RAM) Name() string          { return r.name }
func (r *RAM) Span() (int, int)      { return 0, r.length }
func (r *RAM) Endianness() Endian    { return r.endian }
func (r *RAM) Len() int              { return r.length }

func (r *RAM) Read(offset int, out []byte, ctx AccessContext) error {
	if len(out) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	end := offset + len(out)
	if offset < 0 || end > r.length {
		return OutOfRange(offset, len(out), r.length)
	}
	copy(out, r.bytes[offset:end])
	return nil
}

func (r *RAM) Write(offset int, data []byte, ctx AccessContext) error {
	if len(data) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	end := offset + len(data)
	if offset < 0 || end > r.length {
		return OutOfRange(offset, len(data), r.length)
	}
	copy(r.bytes[offset:end], data)
	return nil
}

// HostBytes implements device.RAMCapable: a direct alias into the
// backing buffer, including the guard region, mirroring the teacher's
// machine_bus.go unsafe.Pointer fast-path loads/stores into its flat
// memory slice (SPEC_FULL §12).
func (r *RAM) HostBytes(offset, n int) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset < 0 || offset > r.length || offset+n > len(r.bytes) {
		return nil, false
	}
	return r.bytes[offset : offset+n], true
}
