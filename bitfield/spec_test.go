package bitfield

import "testing"

func TestFromRangeHighLowByte(t *testing.T) {
	high, err := FromRange(16, 0, 7)
	if err != nil {
		t.Fatalf("FromRange high: %v", err)
	}
	low, err := FromRange(16, 8, 15)
	if err != nil {
		t.Fatalf("FromRange low: %v", err)
	}

	const container = 0x1234
	if v, _, err := high.ReadBits(container); err != nil || v != 0x12 {
		t.Fatalf("high byte: got %#x, err %v, want 0x12", v, err)
	}
	if v, _, err := low.ReadBits(container); err != nil || v != 0x34 {
		t.Fatalf("low byte: got %#x, err %v, want 0x34", v, err)
	}
}

func TestFromSpecStrSignExtend(t *testing.T) {
	spec, err := FromSpecStr(8, "@(4..7)")
	if err != nil {
		t.Fatalf("FromSpecStr: %v", err)
	}
	spec.Signed = true
	// 0b1111_1010: low nibble 0b1010 = -6 in 4-bit two's complement.
	signed, err := spec.ReadFrom(0xFA)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if signed != -6 {
		t.Fatalf("got %d, want -6", signed)
	}
}

func TestFromSpecStrLiteralAndAutoPad(t *testing.T) {
	// slice bits0..3 (high nibble) concatenated with a literal 0b01,
	// then an auto-width zero pad filling the rest of a 16-bit container.
	spec, err := FromSpecStr(16, "@(0..3|0b01|?0)")
	if err != nil {
		t.Fatalf("FromSpecStr: %v", err)
	}
	if spec.DataWidth() != 6 {
		t.Fatalf("DataWidth: got %d, want 6", spec.DataWidth())
	}
	if spec.TotalWidth() != 16 {
		t.Fatalf("TotalWidth: got %d, want 16", spec.TotalWidth())
	}
	// high nibble 0b1010 concatenated MSB->LSB with literal 0b01 gives
	// data value 0b101001 = 0x29.
	value, width, err := spec.ReadBits(0xA000)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if width != 16 || value != 0x29 {
		t.Fatalf("got value=%#x width=%d, want value=0x29 width=16", value, width)
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	spec, err := FromRange(32, 16, 29)
	if err != nil {
		t.Fatalf("FromRange: %v", err)
	}
	container, err := spec.WriteTo(0, 0x1234)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	value, _, err := spec.ReadBits(container)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if value != 0x1234 {
		t.Fatalf("round trip: got %#x, want 0x1234", value)
	}
}

func TestValueTooWideRejected(t *testing.T) {
	spec, err := FromRange(8, 0, 3)
	if err != nil {
		t.Fatalf("FromRange: %v", err)
	}
	if _, err := spec.WriteTo(0, 0xFF); err == nil {
		t.Fatalf("expected ErrValueTooWide writing a value wider than the slice")
	}
}

func TestBuilderDuplicatePadRejected(t *testing.T) {
	b := NewBuilder().Range(0, 3).PadAuto(PadZero).PadAuto(PadSign)
	if _, err := b.Build(8); err == nil {
		t.Fatalf("expected ErrDuplicatePad")
	}
}

func TestBuilderZeroWidthSliceRejected(t *testing.T) {
	b := NewBuilder().Range(5, 3)
	if _, err := b.Build(8); err == nil {
		t.Fatalf("expected ErrZeroWidthSlice for lo > hi")
	}
}
