package symbol

// ValueTag classifies a leaf entry's decoded interpretation.
type ValueTag uint8

const (
	ValUnsigned ValueTag = iota
	ValSigned
	ValFloat32
	ValFloat64
	ValUtf8
	ValEnum
	ValFixed
	ValPointer
)

// ValueKind is the leaf payload a walker entry carries.
type ValueKind struct {
	Tag    ValueTag
	Bytes  int
	Target TypeID // meaningful for ValPointer
}

// Entry is one item yielded by a Walker: a leaf's type, path, bit
// offset within the root, and decoded value kind (SPEC_FULL §4.F).
type Entry struct {
	Type       TypeID
	Path       Path
	OffsetBits int
	BitLen     int
	Kind       ValueKind
}

// ByteLen is BitLen rounded up to the nearest byte.
func (e Entry) ByteLen() int { return (e.BitLen + 7) / 8 }

type frame struct {
	typ        TypeID
	offsetBits int
	path       Path
}

// Walker performs a depth-first, stack-based traversal over a TypeArena
// rooted at a symbol's type, grounded in full on walker.rs's
// SymbolWalker: sequences and aggregates push their children in reverse
// so popping the stack yields declaration/index order; pointer/bitfield/
// scalar/enum/fixed types are leaves; callable/dynamic/opaque and
// dynamic-count sequences are skipped entirely; walking never mutates
// the arena and never panics, even on an empty aggregate.
type Walker struct {
	arena *TypeArena
	stack []frame
}

// NewWalker starts a walk at root, offset 0, path <root>.
func NewWalker(arena *TypeArena, root TypeID) *Walker {
	return &Walker{arena: arena, stack: []frame{{typ: root, offsetBits: 0, path: Root()}}}
}

// Next returns the next leaf entry, or ok=false once the walk is
// exhausted.
func (w *Walker) Next() (Entry, bool, error) {
	for len(w.stack) > 0 {
		f := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		rec := w.arena.Record(f.typ)
		switch rec.Kind {
		case KindScalar:
			entry, ok := w.walkScalar(f, rec)
			if !ok {
				continue
			}
			return entry, true, nil
		case KindEnum:
			bits := scalarBits(w.arena, f.typ)
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bits, Kind: ValueKind{Tag: ValEnum, Bytes: bits / 8}}, true, nil
		case KindFixed:
			bits := scalarBits(w.arena, f.typ)
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bits, Kind: ValueKind{Tag: ValFixed, Bytes: bits / 8}}, true, nil
		case KindPointer:
			bits := rec.PointerBytes * 8
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bits, Kind: ValueKind{Tag: ValPointer, Bytes: rec.PointerBytes, Target: rec.Target}}, true, nil
		case KindBitField:
			bits := rec.Spec.TotalWidth()
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bits, Kind: ValueKind{Tag: ValUnsigned, Bytes: (bits + 7) / 8}}, true, nil
		case KindSequence:
			w.pushSequence(f, rec)
			continue
		case KindAggregate:
			w.pushAggregate(f, rec)
			continue
		case KindCallable, KindDynamic, KindOpaque:
			continue
		}
	}
	return Entry{}, false, nil
}

func (w *Walker) walkScalar(f frame, rec *TypeRecord) (Entry, bool) {
	bitLen := rec.ByteSize * 8
	switch rec.Encoding {
	case Unsigned:
		return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bitLen, Kind: ValueKind{Tag: ValUnsigned, Bytes: rec.ByteSize}}, true
	case Signed:
		return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bitLen, Kind: ValueKind{Tag: ValSigned, Bytes: rec.ByteSize}}, true
	case Floating:
		switch rec.ByteSize {
		case 4:
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bitLen, Kind: ValueKind{Tag: ValFloat32, Bytes: 4}}, true
		case 8:
			return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bitLen, Kind: ValueKind{Tag: ValFloat64, Bytes: 8}}, true
		default:
			// byte sizes 0/3/5/6/7 for floats yield no entry (§4.F).
			return Entry{}, false
		}
	case Utf8String:
		return Entry{Type: f.typ, Path: f.path, OffsetBits: f.offsetBits, BitLen: bitLen, Kind: ValueKind{Tag: ValUtf8, Bytes: rec.ByteSize}}, true
	}
	return Entry{}, false
}

// pushSequence pushes element frames in reverse index order so popping
// the stack yields them in forward index order. Dynamic-count sequences
// are skipped entirely.
func (w *Walker) pushSequence(f frame, rec *TypeRecord) {
	count, ok := rec.ElementCount()
	if !ok {
		return
	}
	stride := rec.StrideBytes * 8
	for i := count - 1; i >= 0; i-- {
		w.stack = append(w.stack, frame{
			typ:        rec.ElementType,
			offsetBits: f.offsetBits + i*stride,
			path:       f.path.PushIndex(i),
		})
	}
}

// pushAggregate pushes member frames in reverse declaration order so
// popping the stack yields declaration order. Union members naturally
// share offsetBits since the type definition places every member at
// the same offset.
func (w *Walker) pushAggregate(f frame, rec *TypeRecord) {
	for i := len(rec.Members) - 1; i >= 0; i-- {
		m := rec.Members[i]
		w.stack = append(w.stack, frame{
			typ:        m.Type,
			offsetBits: f.offsetBits + m.OffsetBits,
			path:       f.path.PushMember(m.Name),
		})
	}
}
