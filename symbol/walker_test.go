package symbol

import "testing"

func intPtr(n int) *int { return &n }

// TestWalkerAggregateSequenceSkips exercises declaration-order walking
// of an aggregate with a fixed-count sequence, a dynamic-count sequence
// (skipped entirely), and a float scalar with an unsupported byte size
// (skipped entirely, SPEC_FULL §4.F).
func TestWalkerAggregateSequenceSkips(t *testing.T) {
	arena := NewTypeArena()
	u32 := arena.Add(TypeRecord{Kind: KindScalar, ByteSize: 4, Encoding: Unsigned})
	u8 := arena.Add(TypeRecord{Kind: KindScalar, ByteSize: 1, Encoding: Unsigned})
	badFloat := arena.Add(TypeRecord{Kind: KindScalar, ByteSize: 3, Encoding: Floating})
	arr := arena.Add(TypeRecord{Kind: KindSequence, ElementType: u8, Count: intPtr(3), StrideBytes: 1})
	dynamic := arena.Add(TypeRecord{Kind: KindSequence, ElementType: u8, Count: nil, StrideBytes: 1})
	agg := arena.Add(TypeRecord{Kind: KindAggregate, Members: []Member{
		{Name: "a", Type: u32, OffsetBits: 0},
		{Name: "arr", Type: arr, OffsetBits: 32},
		{Name: "skip", Type: dynamic, OffsetBits: 64},
		{Name: "bad", Type: badFloat, OffsetBits: 64},
	}})

	w := NewWalker(arena, agg)
	var got []Entry
	for {
		entry, ok, err := w.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, entry)
	}

	wantPaths := []string{"a", "arr[0]", "arr[1]", "arr[2]"}
	if len(got) != len(wantPaths) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(wantPaths), got)
	}
	for i, want := range wantPaths {
		if got[i].Path.String() != want {
			t.Errorf("entry %d: path = %q, want %q", i, got[i].Path.String(), want)
		}
	}
	if got[0].OffsetBits != 0 || got[0].BitLen != 32 {
		t.Errorf("entry 0 (a): offsetBits=%d bitLen=%d, want 0/32", got[0].OffsetBits, got[0].BitLen)
	}
	wantOffsets := []int{32, 40, 48}
	for i, want := range wantOffsets {
		if got[i+1].OffsetBits != want {
			t.Errorf("entry %d (%s): offsetBits=%d, want %d", i+1, wantPaths[i+1], got[i+1].OffsetBits, want)
		}
	}
}

func TestWalkerUnionMembersShareOffset(t *testing.T) {
	arena := NewTypeArena()
	u32 := arena.Add(TypeRecord{Kind: KindScalar, ByteSize: 4, Encoding: Unsigned})
	f32 := arena.Add(TypeRecord{Kind: KindScalar, ByteSize: 4, Encoding: Floating})
	union := arena.Add(TypeRecord{Kind: KindAggregate, Members: []Member{
		{Name: "asInt", Type: u32, OffsetBits: 0},
		{Name: "asFloat", Type: f32, OffsetBits: 0},
	}})

	w := NewWalker(arena, union)
	first, ok, err := w.Next()
	if err != nil || !ok {
		t.Fatalf("Next (1st): ok=%v err=%v", ok, err)
	}
	second, ok, err := w.Next()
	if err != nil || !ok {
		t.Fatalf("Next (2nd): ok=%v err=%v", ok, err)
	}
	if first.OffsetBits != second.OffsetBits {
		t.Fatalf("union members should share OffsetBits: got %d and %d", first.OffsetBits, second.OffsetBits)
	}
}
