package segy

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	textLines   = 40
	textColumns = 80
)

// TextHeader is a 3200-byte textual header, 40 card images of 80 columns.
// The standard asks for EBCDIC but ASCII headers are common.
type TextHeader [TextHeaderSize]byte

// builds a textual header from newline separated lines, padding every
// card image to 80 columns; runes EBCDIC cannot carry become '?'
func NewTextHeader(text string, ebcdic bool) (TextHeader, error) {
	var h TextHeader
	var buf bytes.Buffer
	lines := strings.Split(text, "\n")
	for i := 0; i < textLines; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if len(line) > textColumns {
			line = line[:textColumns]
		}
		buf.WriteString(line)
		buf.WriteString(strings.Repeat(" ", textColumns-len(line)))
	}
	raw := buf.Bytes()
	if ebcdic {
		enc := encoding.ReplaceUnsupported(charmap.CodePage037.NewEncoder())
		encoded, err := enc.Bytes(raw)
		if err != nil {
			return h, err
		}
		raw = encoded
	}
	copy(h[:], raw)
	return h, nil
}

// reports whether the header looks EBCDIC encoded. 0x40 is the EBCDIC
// space and everything printable in EBCDIC besides it sits above 0x7f.
func (h *TextHeader) IsEBCDIC() bool {
	var ascii, ebcdic int
	for _, b := range h {
		switch {
		case b == 0x40 || b >= 0x80:
			ebcdic++
		case b >= 0x20 && b < 0x7f:
			ascii++
		}
	}
	return ebcdic > ascii
}

// decoded header, one line per card image with trailing blanks removed
func (h *TextHeader) String() string {
	raw := h[:]
	if h.IsEBCDIC() {
		decoded, err := charmap.CodePage037.NewDecoder().Bytes(raw)
		if err == nil {
			raw = decoded
		}
	}
	// one rune per byte in both encodings, so cards split on rune counts
	runes := []rune(string(raw))
	for i, r := range runes {
		if r < 0x20 || r == 0x7f {
			runes[i] = ' '
		}
	}
	lines := make([]string, 0, textLines)
	for len(runes) > 0 {
		n := textColumns
		if len(runes) < n {
			n = len(runes)
		}
		lines = append(lines, strings.TrimRight(string(runes[:n]), " "))
		runes = runes[n:]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
