// Package bus implements the priority-ordered, overlap-aware physical
// address map (SPEC_FULL §4.C), the cursor-based DeviceHandle and
// DataView (§4.D), and the Software MMU (§4.E), grounded on
// original_source/src/soc/bus/{device_bus,handle,data,softmmu}.rs.
package bus

import "fmt"

// Error is the bus-level error taxonomy (SPEC_FULL §7).
type Error struct {
	Kind    ErrorKind
	Address uint64
	End     uint64
	Source  uint64
	Size    uint64
	Target  uint64
	Reason  string
	Details string
	Offset  int
	Delta   int
	Device  string
	Cause   error
}

type ErrorKind uint8

const (
	ErrNotMapped ErrorKind = iota
	ErrOverlap
	ErrRedirectInvalid
	ErrInvalidAddress
	ErrOutOfRange
	ErrHandleNotPositioned
	ErrHandleOutOfRange
	ErrPageFault
	ErrDeviceFault
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotMapped:
		return fmt.Sprintf("bus: address %#016x is not mapped", e.Address)
	case ErrOverlap:
		return fmt.Sprintf("bus: overlap at %#016x: %s", e.Address, e.Details)
	case ErrRedirectInvalid:
		return fmt.Sprintf("bus: invalid redirect source=%#x size=%#x target=%#x: %s", e.Source, e.Size, e.Target, e.Reason)
	case ErrInvalidAddress:
		return fmt.Sprintf("bus: invalid address %#016x", e.Address)
	case ErrOutOfRange:
		return fmt.Sprintf("bus: address %#016x exceeds end %#016x", e.Address, e.End)
	case ErrHandleNotPositioned:
		return "bus: handle not positioned"
	case ErrHandleOutOfRange:
		return fmt.Sprintf("bus: handle offset %d delta %d out of range", e.Offset, e.Delta)
	case ErrPageFault:
		return fmt.Sprintf("bus: page fault: %s", e.Details)
	case ErrDeviceFault:
		if e.Cause != nil {
			return fmt.Sprintf("bus: device %q fault: %v", e.Device, e.Cause)
		}
		return fmt.Sprintf("bus: device %q fault", e.Device)
	default:
		return "bus: unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// DeviceFault wraps a device-level error crossing the bus boundary,
// attaching the device name (spec.md §7: "a device error surfaces as
// DeviceFault when it crosses the bus boundary").
func DeviceFault(deviceName string, cause error) *Error {
	return &Error{Kind: ErrDeviceFault, Device: deviceName, Cause: cause}
}
