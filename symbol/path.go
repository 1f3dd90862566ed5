package symbol

import (
	"strconv"
	"strings"
)

type pathSegKind uint8

const (
	segMember pathSegKind = iota
	segIndex
)

type pathSeg struct {
	kind pathSegKind
	name string
	idx  int
}

// Path is an immutable, incrementally-built symbol path (dot-joins
// member names, bracket-indexes sequence elements), grounded on
// walker.rs's SymbolPath.
type Path struct {
	segments []pathSeg
}

// Root is the empty path, rendering as "<root>".
func Root() Path { return Path{} }

// PushMember returns a new path with a member-name segment appended. An
// empty name renders as "<unnamed>" (anonymous union/struct members).
func (p Path) PushMember(name string) Path {
	next := append(append([]pathSeg{}, p.segments...), pathSeg{kind: segMember, name: name})
	return Path{segments: next}
}

// PushIndex returns a new path with a sequence-index segment appended.
func (p Path) PushIndex(idx int) Path {
	next := append(append([]pathSeg{}, p.segments...), pathSeg{kind: segIndex, idx: idx})
	return Path{segments: next}
}

func (p Path) String() string {
	if len(p.segments) == 0 {
		return "<root>"
	}
	var b strings.Builder
	for i, seg := range p.segments {
		switch seg.kind {
		case segMember:
			name := seg.name
			if name == "" {
				name = "<unnamed>"
			}
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(name)
		case segIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.idx))
			b.WriteByte(']')
		}
	}
	return b.String()
}
