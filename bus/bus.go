package bus

import (
	"log"
	"sort"

	"github.com/lancelot2112/soccore/device"
)

var logger = log.Default()

// SetLogger overrides the package logger (teacher idiom: a swappable
// package-level *log.Logger rather than a DI framework).
func SetLogger(l *log.Logger) { logger = l }

// DeviceBus is the priority-ordered, overlap-aware physical address map
// of SPEC_FULL §4.C. Ranges are kept in a slice sorted ascending by
// BusStart and searched by binary search for the O(log n) predecessor
// lookup the spec requires (Go's stdlib has no ordered map, so a sorted
// slice plus sort.Search stands in for the original's BTreeMap — the
// teacher's own preference for sorted slices over maps where ordering
// matters, e.g. machine_bus.go's IO region list).
type DeviceBus struct {
	devices []device.Device
	ranges  []Range // sorted ascending by BusStart, pairwise disjoint
}

func NewDeviceBus() *DeviceBus {
	return &DeviceBus{}
}

// MapDevice registers dev at busAddress with the given priority. Its
// Span() becomes the mapped window.
func (b *DeviceBus) MapDevice(dev device.Device, busAddress uint64, priority int) error {
	start, end := dev.Span()
	length := uint64(end - start)
	id := len(b.devices)
	newRange := Range{
		BusStart:     busAddress,
		BusEnd:       busAddress + length,
		DeviceOffset: uint64(start),
		DeviceID:     id,
		Priority:     priority,
		Kind:         KindDevice,
	}
	if err := b.insertRange(newRange); err != nil {
		return err
	}
	b.devices = append(b.devices, dev)
	return nil
}

// MapRange installs a Redirect range aliasing [start, start+len) of the
// bus onto the same device backing redirectTarget (SPEC_FULL §4.C).
func (b *DeviceBus) MapRange(start, length uint64, redirectTarget uint64, priority int) error {
	if length == 0 {
		return &Error{Kind: ErrRedirectInvalid, Source: start, Size: length, Target: redirectTarget, Reason: "zero-length range"}
	}
	end := start + length
	if end < start {
		return &Error{Kind: ErrRedirectInvalid, Source: start, Size: length, Target: redirectTarget, Reason: "source range overflows"}
	}
	targetEnd := redirectTarget + length
	if targetEnd < redirectTarget {
		return &Error{Kind: ErrRedirectInvalid, Source: start, Size: length, Target: redirectTarget, Reason: "target range overflows"}
	}
	target, _ := b.rangeForAddress(redirectTarget)
	if target == nil {
		return &Error{Kind: ErrRedirectInvalid, Source: start, Size: length, Target: redirectTarget, Reason: "redirect target is unmapped"}
	}
	if targetEnd > target.BusEnd {
		return &Error{Kind: ErrRedirectInvalid, Source: start, Size: length, Target: redirectTarget, Reason: "redirect spans multiple ranges"}
	}
	deviceOffset := target.DeviceOffset + (redirectTarget - target.BusStart)
	newRange := Range{
		BusStart:     start,
		BusEnd:       end,
		DeviceOffset: deviceOffset,
		DeviceID:     target.DeviceID,
		Priority:     priority,
		Kind:         KindRedirect,
	}
	return b.insertRange(newRange)
}

// Resolve returns a handle whose device-local offset is
// (addr - R.BusStart) + R.DeviceOffset for the containing range R.
func (b *DeviceBus) Resolve(addr uint64) (*DeviceHandle, error) {
	r, _ := b.rangeForAddress(addr)
	if r == nil {
		return nil, &Error{Kind: ErrInvalidAddress, Address: addr}
	}
	dev := b.devices[r.DeviceID]
	offset := (addr - r.BusStart) + r.DeviceOffset
	return NewDeviceHandle(dev, int(offset)), nil
}

// Unmap removes the range containing addr.
func (b *DeviceBus) Unmap(addr uint64) error {
	_, idx := b.rangeForAddress(addr)
	if idx < 0 {
		return &Error{Kind: ErrNotMapped, Address: addr}
	}
	b.ranges = append(b.ranges[:idx], b.ranges[idx+1:]...)
	return nil
}

// rangeForAddress finds the range with the greatest BusStart <= addr
// and returns it iff addr < BusEnd (spec.md §4.C "Lookup").
func (b *DeviceBus) rangeForAddress(addr uint64) (*Range, int) {
	idx := sort.Search(len(b.ranges), func(i int) bool {
		return b.ranges[i].BusStart > addr
	}) - 1
	if idx < 0 {
		return nil, -1
	}
	r := b.ranges[idx]
	if addr >= r.BusEnd {
		return nil, -1
	}
	return &b.ranges[idx], idx
}

// resolveDeviceAt is used by the MMU to bind a physical range once at
// map time without going through Resolve's cursor allocation.
func (b *DeviceBus) resolveDeviceAt(addr uint64) (*Range, device.Device, bool) {
	r, _ := b.rangeForAddress(addr)
	if r == nil {
		return nil, nil, false
	}
	return r, b.devices[r.DeviceID], true
}

// insertRange performs the atomic overlap-resolution insert of §4.C:
// every overlapping lower-priority range is sliced into up to two
// reinsert fragments; any overlapping range at >= priority aborts the
// whole insertion with no mutation to b.ranges at all (so there is
// nothing to roll back).
func (b *DeviceBus) insertRange(newRange Range) error {
	var overlapping []Range
	for _, r := range b.ranges {
		if r.overlaps(newRange.BusStart, newRange.BusEnd) {
			overlapping = append(overlapping, r)
		}
	}

	var reinserts []Range
	for _, ex := range overlapping {
		if ex.Priority >= newRange.Priority {
			return &Error{Kind: ErrOverlap, Address: newRange.BusStart, Details: "higher priority mapping already present"}
		}
		if ex.BusStart < newRange.BusStart {
			reinserts = append(reinserts, ex.sliceRange(ex.BusStart, newRange.BusStart))
		}
		if ex.BusEnd > newRange.BusEnd {
			reinserts = append(reinserts, ex.sliceRange(newRange.BusEnd, ex.BusEnd))
		}
	}

	kept := b.ranges[:0:0]
	for _, r := range b.ranges {
		if !r.overlaps(newRange.BusStart, newRange.BusEnd) {
			kept = append(kept, r)
		}
	}
	kept = append(kept, reinserts...)
	kept = append(kept, newRange)
	sort.Slice(kept, func(i, j int) bool { return kept[i].BusStart < kept[j].BusStart })
	b.ranges = kept
	return nil
}
