package bus

import "github.com/lancelot2112/soccore/device"

// DeviceHandle is the only legitimate way to touch device memory: a
// resolved device reference plus a cursor {pin, offset, size}
// (SPEC_FULL §4.D, grounded on original_source/bus/handle.rs).
//
// The Rust source's advance(delta) double-adds delta on its success
// path (saturating_add followed by an unconditional += delta), which
// contradicts both the spec prose and its own cursor tests; this is
// treated as a source bug (DESIGN.md) and not reproduced here — Advance
// performs a single saturating add.
type DeviceHandle struct {
	device device.Device
	endian device.Endian
	pin    int
	offset int
	size   int
}

// NewDeviceHandle resolves device-local offset into a cursor positioned
// at offset, pinned at offset.
func NewDeviceHandle(dev device.Device, offset int) *DeviceHandle {
	start, end := dev.Span()
	size := end - start
	return &DeviceHandle{
		device: dev,
		endian: dev.Endianness(),
		pin:    offset,
		offset: offset,
		size:   size,
	}
}

func (h *DeviceHandle) Endianness() device.Endian { return h.endian }
func (h *DeviceHandle) DeviceName() string        { return h.device.Name() }
func (h *DeviceHandle) Pin() int                  { return h.pin }
func (h *DeviceHandle) Position() int             { return h.offset }
func (h *DeviceHandle) End() int                  { return h.size }
func (h *DeviceHandle) Remaining() int            { return h.size - h.offset }

// Read delegates to the device at the current offset, then advances the
// cursor by the transferred length, saturating at size.
func (h *DeviceHandle) Read(out []byte, ctx device.AccessContext) error {
	if err := h.device.Read(h.offset, out, ctx); err != nil {
		return wrapDeviceErr(h.device.Name(), err)
	}
	h.offset = clamp(h.offset+len(out), 0, h.size)
	return nil
}

// Write delegates to the device at the current offset, then advances
// the cursor by the transferred length, saturating at size.
func (h *DeviceHandle) Write(data []byte, ctx device.AccessContext) error {
	if err := h.device.Write(h.offset, data, ctx); err != nil {
		return wrapDeviceErr(h.device.Name(), err)
	}
	h.offset = clamp(h.offset+len(data), 0, h.size)
	return nil
}

// SetPin sets both pin and offset to newOffset, clamping and reporting
// HandleOutOfRange on overrun.
func (h *DeviceHandle) SetPin(newOffset int) error {
	if newOffset >= h.size {
		h.pin, h.offset = h.size, h.size
		return &Error{Kind: ErrHandleOutOfRange, Offset: newOffset, Delta: 0}
	}
	h.pin, h.offset = newOffset, newOffset
	return nil
}

// Seek moves the cursor to newOffset without touching pin.
func (h *DeviceHandle) Seek(newOffset int) error {
	if newOffset >= h.size {
		h.offset = h.size
		return &Error{Kind: ErrHandleOutOfRange, Offset: newOffset, Delta: 0}
	}
	h.offset = newOffset
	return nil
}

// Advance moves the cursor forward by delta, clamped to size.
func (h *DeviceHandle) Advance(delta int) error {
	next := h.offset + delta
	if next > h.size {
		h.offset = h.size
		return &Error{Kind: ErrHandleOutOfRange, Offset: h.offset, Delta: delta}
	}
	h.offset = next
	return nil
}

// Retreat moves the cursor backward by delta, clamped to 0.
func (h *DeviceHandle) Retreat(delta int) error {
	if delta > h.offset {
		prev := h.offset
		h.offset = 0
		return &Error{Kind: ErrHandleOutOfRange, Offset: prev, Delta: -delta}
	}
	h.offset -= delta
	return nil
}

// AdvanceFromPin moves the cursor to pin+delta.
func (h *DeviceHandle) AdvanceFromPin(delta int) error {
	next := h.pin + delta
	if next > h.size {
		h.offset = h.size
		return &Error{Kind: ErrHandleOutOfRange, Offset: next, Delta: delta}
	}
	h.offset = next
	return nil
}

// RetreatFromPin moves the cursor to pin-delta.
func (h *DeviceHandle) RetreatFromPin(delta int) error {
	next := h.pin - delta
	if next < 0 {
		h.offset = 0
		return &Error{Kind: ErrHandleOutOfRange, Offset: h.pin, Delta: -delta}
	}
	h.offset = next
	return nil
}

// Reset moves the cursor back to pin (infallible).
func (h *DeviceHandle) Reset() { h.offset = h.pin }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapDeviceErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return DeviceFault(name, err)
}
