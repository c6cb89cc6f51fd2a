package lexer

// Character classification, ported byte-for-byte from the
// is_alpha/is_break/is_blankz family (_examples/WillAbides-yaml/internal/
// yamlh/privateh.go), operating on the decoder's lookahead window instead
// of a parser-owned Buffer.

func isAlpha(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b == '_' || b == '-'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func asDigit(b byte) int {
	return int(b) - '0'
}

func isHex(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'F' || b >= 'a' && b <= 'f'
}

func asHex(b byte) int {
	switch {
	case b >= 'A' && b <= 'F':
		return int(b) - 'A' + 10
	case b >= 'a' && b <= 'f':
		return int(b) - 'a' + 10
	default:
		return int(b) - '0'
	}
}

func isBOM(b []byte) bool {
	return len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF
}

func isSpace(b []byte) bool { return len(b) > 0 && b[0] == ' ' }

func isTab(b []byte) bool { return len(b) > 0 && b[0] == '\t' }

func isBlank(b []byte) bool { return len(b) > 0 && (b[0] == ' ' || b[0] == '\t') }

// isBreak reports whether b begins with a recognized line break: LF, CR,
// NEL (U+0085), LS (U+2028) or PS (U+2029). It does not treat a lone
// trailing byte of a multi-byte break as a break itself.
func isBreak(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case '\n', '\r':
		return true
	case 0xC2:
		return len(b) >= 2 && b[1] == 0x85
	case 0xE2:
		return len(b) >= 3 && b[1] == 0x80 && (b[2] == 0xA8 || b[2] == 0xA9)
	}
	return false
}

func isCRLF(b []byte) bool {
	return len(b) >= 2 && b[0] == '\r' && b[1] == '\n'
}

func isZ(b []byte) bool { return len(b) == 0 || b[0] == 0 }

func isBreakZ(b []byte) bool { return isZ(b) || isBreak(b) }

func isSpaceZ(b []byte) bool { return isZ(b) || b[0] == ' ' || isBreak(b) }

func isBlankZ(b []byte) bool { return isZ(b) || isBlank(b) || isBreak(b) }

// breakWidth returns the byte width of the line break starting at b, which
// must satisfy isBreak(b).
func breakWidth(b []byte) int {
	switch b[0] {
	case '\r':
		if len(b) >= 2 && b[1] == '\n' {
			return 2
		}
		return 1
	case '\n':
		return 1
	case 0xC2:
		return 2 // 0xC2 0x85
	default:
		return 3 // 0xE2 0x80 {A8,A9}
	}
}

// charWidth returns the UTF-8 width of the character at b[0].
func charWidth(b byte) int {
	switch {
	case b&0x80 == 0x00:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// isDocumentIndicator reports whether b starts at column 1 with "---" or
// "..." followed by a blank, break, or end of input.
func isDocumentIndicator(b []byte, three byte) bool {
	if len(b) < 3 || b[0] != three || b[1] != three || b[2] != three {
		return false
	}
	return len(b) == 3 || isBlankZ(b[3:])
}
