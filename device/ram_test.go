package device

import "testing"

func TestRAMReadWriteRoundTrip(t *testing.T) {
	ram := NewRAM("ram0", 16, Little)
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := ram.Write(4, want, CPU); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := make([]byte, 4)
	if err := ram.Read(4, got, CPU); err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestRAMOutOfRange(t *testing.T) {
	ram := NewRAM("ram0", 8, Big)
	buf := make([]byte, 4)
	if err := ram.Read(6, buf, CPU); err == nil {
		t.Fatalf("expected out-of-range error reading past end")
	}
	if err := ram.Write(-1, buf, CPU); err == nil {
		t.Fatalf("expected out-of-range error writing negative offset")
	}
}

func TestRAMHostBytesFastPath(t *testing.T) {
	ram := NewRAM("ram0", 8, Little)
	if err := ram.Write(0, []byte{1, 2, 3, 4}, CPU); err != nil {
		t.Fatalf("Write: %v", err)
	}
	host, ok := ram.HostBytes(0, 4)
	if !ok {
		t.Fatalf("HostBytes: expected ok")
	}
	if host[0] != 1 || host[3] != 4 {
		t.Fatalf("HostBytes: unexpected contents %v", host)
	}
	if _, ok := ram.HostBytes(0, 1000); ok {
		t.Fatalf("HostBytes: expected failure past guard region")
	}
}

func TestEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	StoreU32(buf, Big, 0xDEADBEEF)
	if got := LoadU32(buf, Big); got != 0xDEADBEEF {
		t.Fatalf("big-endian round trip: got %#x", got)
	}
	StoreU64(buf, Little, 0x1122334455667788)
	if got := LoadU64(buf, Little); got != 0x1122334455667788 {
		t.Fatalf("little-endian round trip: got %#x", got)
	}
}
