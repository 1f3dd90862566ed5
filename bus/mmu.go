package bus

import (
	"sort"
	"unsafe"

	"github.com/lancelot2112/soccore/device"
)

// MMUFlags is a protection/attribute bitset. The Rust source's
// bitflags! macro has no pack-provided Go equivalent (no third-party
// bitflag library appears anywhere in the retrieval pack), so this is a
// deliberately stdlib-only spot (DESIGN.md): a plain uint8 with iota
// consts and a Has method, the idiomatic Go rendition.
type MMUFlags uint8

const (
	FlagValid MMUFlags = 1 << iota
	FlagRead
	FlagWrite
	FlagExec
	FlagRAM
	FlagBigEndian
)

func (f MMUFlags) Has(bit MMUFlags) bool { return f&bit != 0 }

// AddressMode selects the MMU's translation strategy.
type AddressMode uint8

const (
	Physical AddressMode = iota
	Effective
)

// MMUEntry is one virtual-to-physical mapping (Effective mode only).
type MMUEntry struct {
	VAddr        uint64
	PAddr        uint64
	Size         uint64
	Flags        MMUFlags
	DeviceOffset uint64
	Device       device.Device
}

// SoftMMU is the optional translation layer in front of the bus
// (SPEC_FULL §4.E), grounded on original_source/bus/softmmu.rs.
type SoftMMU struct {
	bus     *DeviceBus
	mode    AddressMode
	regions []MMUEntry // sorted ascending by VAddr, strictly disjoint
}

// NewSoftMMU constructs an MMU in Effective mode (the original's
// default); use WithMode for Physical.
func NewSoftMMU(b *DeviceBus) *SoftMMU {
	return &SoftMMU{bus: b, mode: Effective}
}

func (m *SoftMMU) WithMode(mode AddressMode) *SoftMMU {
	m.mode = mode
	return m
}

// MapRegion installs an Effective-mode virtual mapping.
func (m *SoftMMU) MapRegion(vaddr, paddr, size uint64, flags MMUFlags) error {
	if size == 0 {
		return &Error{Kind: ErrRedirectInvalid, Reason: "zero-size region"}
	}
	vend := vaddr + size
	if vend < vaddr {
		return &Error{Kind: ErrRedirectInvalid, Reason: "virtual range overflows"}
	}
	if m.overlaps(vaddr, vend) {
		return &Error{Kind: ErrOverlap, Address: vaddr, Details: "virtual region already mapped"}
	}
	rng, dev, ok := m.bus.resolveDeviceAt(paddr)
	if !ok {
		return &Error{Kind: ErrInvalidAddress, Address: paddr}
	}
	physEnd := paddr + size
	if physEnd > rng.BusEnd {
		return &Error{Kind: ErrRedirectInvalid, Reason: "mapping spans multiple physical devices"}
	}
	deviceOffset := rng.DeviceOffset + (paddr - rng.BusStart)
	entry := MMUEntry{
		VAddr:        vaddr,
		PAddr:        paddr,
		Size:         size,
		Flags:        m.flagsForDevice(dev, flags),
		DeviceOffset: deviceOffset,
		Device:       dev,
	}
	m.regions = append(m.regions, entry)
	sort.Slice(m.regions, func(i, j int) bool { return m.regions[i].VAddr < m.regions[j].VAddr })
	return nil
}

// UnmapRegion removes the Effective-mode entry containing vaddr.
func (m *SoftMMU) UnmapRegion(vaddr uint64) error {
	for i, e := range m.regions {
		if vaddr >= e.VAddr && vaddr < e.VAddr+e.Size {
			m.regions = append(m.regions[:i], m.regions[i+1:]...)
			return nil
		}
	}
	return &Error{Kind: ErrNotMapped, Address: vaddr}
}

func (m *SoftMMU) flagsForDevice(dev device.Device, requested MMUFlags) MMUFlags {
	flags := requested | FlagValid
	if dev.Endianness() == device.Big {
		flags |= FlagBigEndian
	}
	if _, ok := device.AsRAM(dev); ok {
		flags |= FlagRAM
	}
	return flags
}

// Translate dispatches by mode, returning (addend, flags, device) such
// that addr+addend addresses the right byte: the device offset for
// MMIO, or a raw host pointer addend for RAM (SPEC_FULL §4.E).
func (m *SoftMMU) Translate(addr uint64) (addend int64, flags MMUFlags, dev device.Device, err error) {
	if m.mode == Physical {
		return m.translatePhysical(addr)
	}
	return m.translateEffective(addr)
}

func (m *SoftMMU) translatePhysical(addr uint64) (int64, MMUFlags, device.Device, error) {
	rng, dev, ok := m.bus.resolveDeviceAt(addr)
	if !ok {
		return 0, 0, nil, &Error{Kind: ErrPageFault, Details: "unmapped physical address"}
	}
	flags := FlagValid | FlagRead | FlagWrite | FlagExec
	flags = m.flagsForDevice(dev, flags)
	deviceOffset := rng.DeviceOffset + (addr - rng.BusStart)
	if ram, ok := device.AsRAM(dev); ok {
		if host, ok := ram.HostBytes(int(deviceOffset), 1); ok {
			return ramAddend(host, addr), flags, dev, nil
		}
	}
	return int64(deviceOffset) - int64(addr), flags, dev, nil
}

func (m *SoftMMU) translateEffective(addr uint64) (int64, MMUFlags, device.Device, error) {
	idx := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].VAddr > addr }) - 1
	if idx < 0 {
		return 0, 0, nil, &Error{Kind: ErrPageFault, Details: "no region contains address"}
	}
	e := m.regions[idx]
	if addr >= e.VAddr+e.Size {
		return 0, 0, nil, &Error{Kind: ErrPageFault, Details: "no region contains address"}
	}
	offsetIntoEntry := addr - e.VAddr
	deviceOffset := e.DeviceOffset + offsetIntoEntry
	if ram, ok := device.AsRAM(e.Device); ok {
		if host, ok := ram.HostBytes(int(deviceOffset), 1); ok {
			return ramAddend(host, addr), e.Flags, e.Device, nil
		}
	}
	return int64(deviceOffset) - int64(addr), e.Flags, e.Device, nil
}

// ramAddend computes the scalar such that addr+addend equals the host
// pointer of host[0], mirroring the teacher's machine_bus.go
// unsafe.Pointer fast-path arithmetic (SPEC_FULL §12).
func ramAddend(host []byte, addr uint64) int64 {
	ptr := int64(uintptr(unsafe.Pointer(&host[0])))
	return ptr - int64(addr)
}

// overlaps reports whether [start, end) intersects any existing
// Effective-mode region; virtual mappings are strictly disjoint (no
// priority-based slicing, unlike the physical bus).
func (m *SoftMMU) overlaps(start, end uint64) bool {
	idx := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].VAddr > start }) - 1
	if idx >= 0 {
		e := m.regions[idx]
		if e.VAddr+e.Size > start {
			return true
		}
	}
	succ := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].VAddr >= end })
	if succ < len(m.regions) && m.regions[succ].VAddr < end {
		return true
	}
	return false
}
