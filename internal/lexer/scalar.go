package lexer

import (
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// scanPlainScalar scans an unquoted scalar, ported from
// yaml_parser_scan_plain_scalar. regime.MinIndent plays the role of that
// function's local `indent` variable (one past the enclosing collection's
// own indentation column): a continuation line that starts before it ends
// the scalar in block context. By construction a plain scalar always
// terminates right before ": " or a line break followed by ":", so no
// lookahead buffer is needed here to detect an implicit mapping key; a
// scalar whose content continues onto a later line is flagged Multiline so
// the parser can reject it as an implicit key. When the scalar ends after
// consuming a line break in block context, an indentation(N) token for the
// new line is queued behind it, as scanToNextToken would have produced.
func (l *Lexer) scanPlainScalar(regime Regime) (token.Token, error) {
	indent := regime.MinIndent
	var s, leadingBreak, trailingBreaks, whitespaces []byte
	leadingBlanks := false
	multiline := false

	start := l.mk.Mark()
	end := start

	for {
		if err := l.ensure(4); err != nil {
			return token.Token{}, err
		}
		b := l.peek()
		if l.mk.Mark().Column == 1 && isDocumentIndicator(b, '-') {
			break
		}
		if l.mk.Mark().Column == 1 && isDocumentIndicator(b, '.') {
			break
		}
		if len(b) > 0 && b[0] == '#' {
			break
		}

		for {
			if err := l.ensure(2); err != nil {
				return token.Token{}, err
			}
			b = l.peek()
			if isBlankZ(b) {
				break
			}
			if (b[0] == ':' && isBlankZ(b[1:])) ||
				(l.flowLevel > 0 && oneOf(b[0], ",?[]{}")) {
				break
			}

			if leadingBlanks || len(whitespaces) > 0 {
				if leadingBlanks {
					multiline = true
					if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
						if len(trailingBreaks) == 0 {
							s = append(s, ' ')
						} else {
							s = append(s, trailingBreaks...)
						}
					} else {
						s = append(s, leadingBreak...)
						s = append(s, trailingBreaks...)
					}
					trailingBreaks = trailingBreaks[:0]
					leadingBreak = leadingBreak[:0]
					leadingBlanks = false
				} else {
					s = append(s, whitespaces...)
					whitespaces = whitespaces[:0]
				}
			}

			var err error
			if s, err = l.read(s); err != nil {
				return token.Token{}, err
			}
			end = l.mk.Mark()
		}

		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		if !(isBlank(l.peek()) || isBreak(l.peek())) {
			break
		}

		for {
			if err := l.ensure(1); err != nil {
				return token.Token{}, err
			}
			b = l.peek()
			if !(isBlank(b) || isBreak(b)) {
				break
			}
			if isBlank(b) {
				if leadingBlanks && l.mk.Mark().Column < indent && isTab(b) {
					return token.Token{}, l.errAt(yerr.SubTabInIndent, "found a tab character that violates indentation", start)
				}
				var err error
				if !leadingBlanks {
					whitespaces, err = l.read(whitespaces)
				} else {
					err = l.skip()
				}
				if err != nil {
					return token.Token{}, err
				}
			} else {
				var err error
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak, err = l.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks, err = l.readLine(trailingBreaks)
				}
				if err != nil {
					return token.Token{}, err
				}
			}
		}

		if l.flowLevel == 0 && l.mk.Mark().Column < indent {
			break
		}
	}

	l.recentStart, l.recentEnd = start, end
	if m := l.mk.Mark(); l.flowLevel == 0 && m.Line > end.Line {
		l.pending = append(l.pending, token.Token{Kind: token.Indentation, Start: m, End: m, Number: m.Column})
	}
	return token.Token{Kind: token.PlainScalar, Start: start, End: end, Payload: l.in.FromBytes(s), Multiline: multiline}, nil
}

// scanQuotedScalar scans a single- or double-quoted scalar, ported from
// yaml_parser_scan_flow_scalar.
func (l *Lexer) scanQuotedScalar(single bool) (token.Token, error) {
	start := l.mk.Mark()
	if err := l.skip(); err != nil { // opening quote
		return token.Token{}, err
	}

	var s, leadingBreak, trailingBreaks, whitespaces []byte
	multiline := false

	for {
		if err := l.ensure(4); err != nil {
			return token.Token{}, err
		}
		b := l.peek()
		if l.mk.Mark().Column == 1 && (isDocumentIndicator(b, '-') || isDocumentIndicator(b, '.')) {
			return token.Token{}, l.errAt(yerr.SubUnterminatedScalar, "found a document indicator inside a quoted scalar", start)
		}
		if isZ(b) {
			return token.Token{}, l.errAt(yerr.SubUnterminatedScalar, "found end of stream inside a quoted scalar", start)
		}

		leadingBlanks := false
		for {
			if err := l.ensure(2); err != nil {
				return token.Token{}, err
			}
			b = l.peek()
			if isBlankZ(b) {
				break
			}
			switch {
			case single && b[0] == '\'' && len(b) > 1 && b[1] == '\'':
				s = append(s, '\'')
				if err := l.skip(); err != nil {
					return token.Token{}, err
				}
				if err := l.skip(); err != nil {
					return token.Token{}, err
				}
			case single && b[0] == '\'':
				goto endNonBlank
			case !single && b[0] == '"':
				goto endNonBlank
			case !single && b[0] == '\\' && isBreak(b[1:]):
				if err := l.ensure(3); err != nil {
					return token.Token{}, err
				}
				if err := l.skip(); err != nil {
					return token.Token{}, err
				}
				if err := l.skipLine(); err != nil {
					return token.Token{}, err
				}
				leadingBlanks = true
				multiline = true
				goto endNonBlank
			case !single && b[0] == '\\':
				var err error
				if s, err = l.scanEscape(s, start); err != nil {
					return token.Token{}, err
				}
			default:
				var err error
				if s, err = l.read(s); err != nil {
					return token.Token{}, err
				}
			}
		}
	endNonBlank:

		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		if single && peekByte(l.peek()) == '\'' {
			break
		}
		if !single && peekByte(l.peek()) == '"' {
			break
		}

		for {
			if err := l.ensure(1); err != nil {
				return token.Token{}, err
			}
			b = l.peek()
			if !(isBlank(b) || isBreak(b)) {
				break
			}
			if isBlank(b) {
				var err error
				if !leadingBlanks {
					whitespaces, err = l.read(whitespaces)
				} else {
					err = l.skip()
				}
				if err != nil {
					return token.Token{}, err
				}
			} else {
				multiline = true
				var err error
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak, err = l.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks, err = l.readLine(trailingBreaks)
				}
				if err != nil {
					return token.Token{}, err
				}
			}
		}

		if leadingBlanks {
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					s = append(s, ' ')
				} else {
					s = append(s, trailingBreaks...)
				}
			} else {
				s = append(s, leadingBreak...)
				s = append(s, trailingBreaks...)
			}
			trailingBreaks = trailingBreaks[:0]
			leadingBreak = leadingBreak[:0]
		} else {
			s = append(s, whitespaces...)
			whitespaces = whitespaces[:0]
		}
	}

	if err := l.skip(); err != nil { // closing quote
		return token.Token{}, err
	}
	end := l.mk.Mark()

	kind := token.SingleQuotedScalar
	if !single {
		kind = token.DoubleQuotedScalar
	}
	l.recentStart, l.recentEnd = start, end
	return token.Token{Kind: kind, Start: start, End: end, Payload: l.in.FromBytes(s), Multiline: multiline}, nil
}

func (l *Lexer) scanEscape(s []byte, start mark.Position) ([]byte, error) {
	if err := l.ensure(2); err != nil {
		return nil, err
	}
	esc := l.peek()[1]
	codeLength := 0
	switch esc {
	case '0':
		s = append(s, 0)
	case 'a':
		s = append(s, '\a')
	case 'b':
		s = append(s, '\b')
	case 't', '\t':
		s = append(s, '\t')
	case 'n':
		s = append(s, '\n')
	case 'v':
		s = append(s, '\v')
	case 'f':
		s = append(s, '\f')
	case 'r':
		s = append(s, '\r')
	case 'e':
		s = append(s, 0x1B)
	case ' ':
		s = append(s, ' ')
	case '"':
		s = append(s, '"')
	case '\'':
		s = append(s, '\'')
	case '\\':
		s = append(s, '\\')
	case 'N':
		s = append(s, 0xC2, 0x85)
	case '_':
		s = append(s, 0xC2, 0xA0)
	case 'L':
		s = append(s, 0xE2, 0x80, 0xA8)
	case 'P':
		s = append(s, 0xE2, 0x80, 0xA9)
	case 'x':
		codeLength = 2
	case 'u':
		codeLength = 4
	case 'U':
		codeLength = 8
	default:
		return nil, l.errAt(yerr.SubUnknownEscape, "found an unknown escape character", start)
	}
	if err := l.skip(); err != nil { // backslash
		return nil, err
	}
	if err := l.skip(); err != nil { // escape letter
		return nil, err
	}
	if codeLength == 0 {
		return s, nil
	}
	if err := l.ensure(codeLength); err != nil {
		return nil, err
	}
	value := 0
	b := l.peek()
	for k := 0; k < codeLength; k++ {
		if k >= len(b) || !isHex(b[k]) {
			return nil, l.errAt(yerr.SubUnknownEscape, "expected a hexadecimal digit in an escape code", start)
		}
		value = value<<4 + asHex(b[k])
	}
	if (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		return nil, l.errAt(yerr.SubInvalidUTF8, "invalid Unicode code point in an escape code", start)
	}
	s = appendUTF8(s, rune(value))
	for k := 0; k < codeLength; k++ {
		if err := l.skip(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func appendUTF8(dst []byte, v rune) []byte {
	switch {
	case v <= 0x7F:
		return append(dst, byte(v))
	case v <= 0x7FF:
		return append(dst, byte(0xC0+(v>>6)), byte(0x80+(v&0x3F)))
	case v <= 0xFFFF:
		return append(dst, byte(0xE0+(v>>12)), byte(0x80+((v>>6)&0x3F)), byte(0x80+(v&0x3F)))
	default:
		return append(dst, byte(0xF0+(v>>18)), byte(0x80+((v>>12)&0x3F)), byte(0x80+((v>>6)&0x3F)), byte(0x80+(v&0x3F)))
	}
}

// scanBlockScalar scans a literal ('|') or folded ('>') block scalar,
// ported from yaml_parser_scan_block_scalar /
// yaml_parser_scan_block_scalar_breaks. regime's MinIndent plays the role
// of that function's parser.Indent+1 baseline when no explicit
// indentation indicator digit is given. The scan consumes the line breaks
// that end the scalar, so in block context an indentation(N) token for the
// line the cursor stops on is queued behind it.
func (l *Lexer) scanBlockScalar(literal bool, regime Regime) (token.Token, error) {
	start := l.mk.Mark()
	baseline := regime.MinIndent
	if err := l.skip(); err != nil { // '|' or '>'
		return token.Token{}, err
	}

	if err := l.ensure(1); err != nil {
		return token.Token{}, err
	}
	chomping, increment := 0, 0
	b := l.peek()
	switch {
	case len(b) > 0 && (b[0] == '+' || b[0] == '-'):
		if b[0] == '+' {
			chomping = 1
		} else {
			chomping = -1
		}
		if err := l.skip(); err != nil {
			return token.Token{}, err
		}
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		if isDigit(peekByte(l.peek())) {
			if l.peek()[0] == '0' {
				return token.Token{}, l.errAt(yerr.SubInvalidDirective, "found an indentation indicator of 0", start)
			}
			increment = asDigit(l.peek()[0])
			if err := l.skip(); err != nil {
				return token.Token{}, err
			}
		}
	case isDigit(peekByte(b)):
		if b[0] == '0' {
			return token.Token{}, l.errAt(yerr.SubInvalidDirective, "found an indentation indicator of 0", start)
		}
		increment = asDigit(b[0])
		if err := l.skip(); err != nil {
			return token.Token{}, err
		}
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		if p := l.peek(); len(p) > 0 && (p[0] == '+' || p[0] == '-') {
			if p[0] == '+' {
				chomping = 1
			} else {
				chomping = -1
			}
			if err := l.skip(); err != nil {
				return token.Token{}, err
			}
		}
	}

	if err := l.eatBlanks(); err != nil {
		return token.Token{}, err
	}
	if err := l.ensure(1); err != nil {
		return token.Token{}, err
	}
	if l.peek()[0] == '#' {
		if err := l.skipComment(); err != nil {
			return token.Token{}, err
		}
	}
	if err := l.ensure(1); err != nil {
		return token.Token{}, err
	}
	if !isBreakZ(l.peek()) {
		return token.Token{}, l.errAt(yerr.SubInvalidDirective, "expected a comment or line break after block scalar header", start)
	}
	if isBreak(l.peek()) {
		if err := l.skipLine(); err != nil {
			return token.Token{}, err
		}
	}

	end := l.mk.Mark()
	indent := 0
	if increment > 0 {
		if baseline > 0 {
			indent = baseline + increment - 1
		} else {
			indent = increment
		}
	}

	var s, leadingBreak, trailingBreaks []byte
	if err := l.scanBlockScalarBreaks(&indent, &trailingBreaks, start, &end, baseline); err != nil {
		return token.Token{}, err
	}

	if err := l.ensure(1); err != nil {
		return token.Token{}, err
	}
	leadingBlank, trailingBlank := false, false
	for l.mk.Mark().Column == indent && !isZ(l.peek()) {
		trailingBlank = isBlank(l.peek())
		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				s = append(s, ' ')
			}
		} else {
			s = append(s, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]
		s = append(s, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = isBlank(l.peek())
		for {
			if err := l.ensure(1); err != nil {
				return token.Token{}, err
			}
			if isBreakZ(l.peek()) {
				break
			}
			var err error
			if s, err = l.read(s); err != nil {
				return token.Token{}, err
			}
		}
		if err := l.ensure(2); err != nil {
			return token.Token{}, err
		}
		var err error
		if leadingBreak, err = l.readLine(leadingBreak); err != nil {
			return token.Token{}, err
		}
		if err := l.scanBlockScalarBreaks(&indent, &trailingBreaks, start, &end, baseline); err != nil {
			return token.Token{}, err
		}
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
	}

	if chomping != -1 {
		s = append(s, leadingBreak...)
	}
	if chomping == 1 {
		s = append(s, trailingBreaks...)
	}

	kind := token.LiteralScalar
	if !literal {
		kind = token.FoldedScalar
	}
	l.recentStart, l.recentEnd = start, end
	if m := l.mk.Mark(); l.flowLevel == 0 && m.Line > start.Line {
		l.pending = append(l.pending, token.Token{Kind: token.Indentation, Start: m, End: m, Number: m.Column})
	}
	return token.Token{Kind: kind, Start: start, End: end, Payload: l.in.FromBytes(s), Number: indent}, nil
}

func (l *Lexer) scanBlockScalarBreaks(indent *int, breaks *[]byte, start mark.Position, end *mark.Position, baseline int) error {
	*end = l.mk.Mark()
	maxIndent := 0
	for {
		if err := l.ensure(1); err != nil {
			return err
		}
		for (*indent == 0 || l.mk.Mark().Column < *indent) && isSpace(l.peek()) {
			if err := l.skip(); err != nil {
				return err
			}
			if err := l.ensure(1); err != nil {
				return err
			}
		}
		if l.mk.Mark().Column > maxIndent {
			maxIndent = l.mk.Mark().Column
		}
		if (*indent == 0 || l.mk.Mark().Column < *indent) && isTab(l.peek()) {
			return l.errAt(yerr.SubTabInIndent, "found a tab character where indentation was expected", start)
		}
		if !isBreak(l.peek()) {
			break
		}
		if err := l.ensure(2); err != nil {
			return err
		}
		var err error
		if *breaks, err = l.readLine(*breaks); err != nil {
			return err
		}
		*end = l.mk.Mark()
	}
	if *indent == 0 {
		*indent = maxIndent
		if *indent < baseline {
			*indent = baseline
		}
		if *indent < 1 {
			*indent = 1
		}
	}
	return nil
}
