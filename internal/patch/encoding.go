package patch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encoding is the unit a Position's Character counts in
type Encoding int

const (
	// EncodingUTF16 counts UTF-16 code units, the LSP default
	EncodingUTF16 Encoding = iota
	// EncodingUTF8 counts bytes
	EncodingUTF8
	// EncodingUTF32 counts Unicode code points
	EncodingUTF32
)

// ParseEncoding parses an LSP position encoding name; empty means UTF-16
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-16", "utf16":
		return EncodingUTF16, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-32", "utf32":
		return EncodingUTF32, nil
	default:
		return 0, fmt.Errorf("unknown position encoding %q", name)
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF32:
		return "utf-32"
	default:
		return "utf-16"
	}
}

// width returns how many units r occupies in the encoding
func (e Encoding) width(r rune, size int) int {
	switch e {
	case EncodingUTF8:
		return size
	case EncodingUTF32:
		return 1
	default:
		if r >= 0x10000 && r != utf8.RuneError {
			return 2
		}
		return 1
	}
}

// Units returns the length of s measured in the encoding
func (e Encoding) Units(s string) int {
	if e == EncodingUTF8 {
		return len(s)
	}
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		n += e.width(r, size)
		i += size
	}
	return n
}

// byteIndex maps a column within s to a byte index. ok is false when the
// column lands inside a character; units is the total length of s.
func (e Encoding) byteIndex(s string, col int) (idx int, units int, ok bool) {
	if e == EncodingUTF8 {
		if col > len(s) {
			return -1, len(s), true
		}
		if col < len(s) && !utf8.RuneStart(s[col]) {
			return -1, len(s), false
		}
		return col, len(s), true
	}

	idx = -1
	ok = true
	for i := 0; i < len(s); {
		if units == col {
			idx = i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := e.width(r, size)
		if col > units && col < units+w {
			ok = false
		}
		units += w
		i += size
	}
	if units == col {
		idx = len(s)
	}
	return idx, units, ok
}
