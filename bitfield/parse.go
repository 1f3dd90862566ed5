package bitfield

import (
	"strconv"
	"strings"
)

// FromSpecStr parses a bit spec string of the form "@( token ('|' token)* )"
// (the leading "@" may be omitted; the parens are required) against a container
// of containerBits bits, per SPEC_FULL §4.B's grammar:
//
//   - "N" or "lo..hi" — an MSB-0 bit range.
//   - "0bXXXX"        — a literal segment, width = number of bits given.
//   - "?0" or "?1"     — a pad directive (Zero or Sign respectively).
func FromSpecStr(containerBits int, spec string) (*Spec, error) {
	body, err := extractSpecBody(spec)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, &Error{Kind: ErrEmptySpec}
	}

	b := NewBuilder()
	for _, tok := range strings.Split(body, "|") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, &Error{Kind: ErrInvalidToken}
		}
		if err := parseToken(b, tok); err != nil {
			return nil, err
		}
	}
	return b.Build(containerBits)
}

func extractSpecBody(spec string) (string, error) {
	s := strings.TrimSpace(spec)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return "", &Error{Kind: ErrInvalidToken}
	}
	if !strings.HasSuffix(s, ")") {
		return "", &Error{Kind: ErrInvalidToken}
	}
	return s[1 : len(s)-1], nil
}

func parseToken(b *Builder, tok string) error {
	switch {
	case strings.HasPrefix(tok, "?"):
		return parsePad(b, tok)
	case strings.HasPrefix(tok, "0b") || strings.HasPrefix(tok, "0B"):
		return parseLiteral(b, tok)
	default:
		return parseRange(b, tok)
	}
}

func parsePad(b *Builder, tok string) error {
	rest := tok[1:]
	switch rest {
	case "0":
		b.PadAuto(PadZero)
	case "1":
		b.PadAuto(PadSign)
	default:
		return &Error{Kind: ErrInvalidToken}
	}
	return nil
}

func parseLiteral(b *Builder, tok string) error {
	bits := tok[2:]
	if bits == "" {
		return &Error{Kind: ErrInvalidLiteral}
	}
	for _, c := range bits {
		if c != '0' && c != '1' {
			return &Error{Kind: ErrInvalidLiteral}
		}
	}
	value, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return &Error{Kind: ErrInvalidLiteral}
	}
	b.Literal(value, len(bits))
	return nil
}

func parseRange(b *Builder, tok string) error {
	if idx := strings.Index(tok, ".."); idx >= 0 {
		lo, err := parseNumber(tok[:idx])
		if err != nil {
			return err
		}
		hi, err := parseNumber(tok[idx+2:])
		if err != nil {
			return err
		}
		b.Range(lo, hi)
		return nil
	}
	n, err := parseNumber(tok)
	if err != nil {
		return err
	}
	b.Range(n, n)
	return nil
}

func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{Kind: ErrInvalidNumber}
	}
	return n, nil
}
