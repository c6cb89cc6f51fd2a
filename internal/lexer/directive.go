package lexer

import (
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

const maxVersionDigits = 2

// scanDirective scans a '%'-led directive line, ported from
// yaml_parser_scan_directive (_examples/WillAbides-yaml/internal/parserc/
// scannerc.go). An unrecognized directive name is not an error here: it
// becomes a reserved-directive token instead.
func (l *Lexer) scanDirective() (token.Token, error) {
	start := l.mk.Mark()
	if err := l.skip(); err != nil { // eat '%'
		return token.Token{}, err
	}

	name, err := l.scanDirectiveName(start)
	if err != nil {
		return token.Token{}, err
	}

	var tok token.Token
	switch string(name) {
	case "YAML":
		major, minor, err := l.scanVersionDirectiveValue(start)
		if err != nil {
			return token.Token{}, err
		}
		tok = token.Token{Kind: token.YAMLDirective, Start: start, Major: major, Minor: minor}
	case "TAG":
		handle, prefix, err := l.scanTagDirectiveValue(start)
		if err != nil {
			return token.Token{}, err
		}
		tok = token.Token{Kind: token.TagDirective, Start: start, Handle: l.in.FromBytes(handle), Payload: l.in.FromBytes(prefix)}
	default:
		tok = token.Token{Kind: token.ReservedDirective, Start: start, Payload: l.in.FromBytes(name)}
	}

	if err := l.skipDirectiveTail(start); err != nil {
		return token.Token{}, err
	}
	tok.End = l.mk.Mark()
	l.recentStart, l.recentEnd = tok.Start, tok.End
	return tok, nil
}

func (l *Lexer) scanDirectiveName(start mark.Position) ([]byte, error) {
	var s []byte
	for {
		if err := l.ensure(1); err != nil {
			return nil, err
		}
		b := l.peek()
		if len(b) == 0 || !isAlpha(b[0]) {
			break
		}
		var err error
		if s, err = l.read(s); err != nil {
			return nil, err
		}
	}
	if len(s) == 0 {
		return nil, l.errAt(yerr.SubInvalidDirective, "expected a directive name", start)
	}
	if err := l.ensure(1); err != nil {
		return nil, err
	}
	if !isBlankZ(l.peek()) {
		return nil, l.errAt(yerr.SubInvalidDirective, "unexpected character in directive name", l.mk.Mark())
	}
	return s, nil
}

func (l *Lexer) eatBlanks() error {
	for {
		if err := l.ensure(1); err != nil {
			return err
		}
		if !isBlank(l.peek()) {
			return nil
		}
		if err := l.skip(); err != nil {
			return err
		}
	}
}

func (l *Lexer) scanVersionDirectiveValue(start mark.Position) (major, minor int, err error) {
	if err = l.eatBlanks(); err != nil {
		return
	}
	if major, err = l.scanVersionNumber(start); err != nil {
		return
	}
	if err = l.ensure(1); err != nil {
		return
	}
	if l.peek()[0] != '.' {
		return 0, 0, l.errAt(yerr.SubInvalidDirective, "expected '.' in %YAML directive", start)
	}
	if err = l.skip(); err != nil {
		return
	}
	minor, err = l.scanVersionNumber(start)
	if err == nil && major >= 2 {
		err = l.errAt(yerr.SubUnsupportedVersion, "unsupported YAML major version", start)
	}
	return
}

func (l *Lexer) scanVersionNumber(start mark.Position) (int, error) {
	if err := l.ensure(1); err != nil {
		return 0, err
	}
	value, length := 0, 0
	for isDigit(peekByte(l.peek())) {
		length++
		if length > maxVersionDigits {
			return 0, l.errAt(yerr.SubInvalidDirective, "version number too long", start)
		}
		value = value*10 + asDigit(l.peek()[0])
		if err := l.skip(); err != nil {
			return 0, err
		}
		if err := l.ensure(1); err != nil {
			return 0, err
		}
	}
	if length == 0 {
		return 0, l.errAt(yerr.SubInvalidDirective, "expected a version number", start)
	}
	return value, nil
}

func peekByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func (l *Lexer) scanTagDirectiveValue(start mark.Position) (handle, prefix []byte, err error) {
	if err = l.eatBlanks(); err != nil {
		return
	}
	if handle, err = l.scanTagHandle(true, start); err != nil {
		return
	}
	if err = l.ensure(1); err != nil {
		return
	}
	if !isBlank(l.peek()) {
		return nil, nil, l.errAt(yerr.SubInvalidDirective, "expected whitespace after tag handle", start)
	}
	if err = l.eatBlanks(); err != nil {
		return
	}
	if prefix, err = l.scanTagURI(true, nil, start); err != nil {
		return
	}
	if err = l.ensure(1); err != nil {
		return
	}
	if !isBlankZ(l.peek()) {
		return nil, nil, l.errAt(yerr.SubInvalidDirective, "expected whitespace or line break after tag prefix", start)
	}
	return handle, prefix, nil
}

func (l *Lexer) skipDirectiveTail(start mark.Position) error {
	if err := l.eatBlanks(); err != nil {
		return err
	}
	if err := l.ensure(1); err != nil {
		return err
	}
	if l.peek()[0] == '#' {
		if err := l.skipComment(); err != nil {
			return err
		}
	}
	if err := l.ensure(1); err != nil {
		return err
	}
	if !isBreakZ(l.peek()) {
		return l.errAt(yerr.SubInvalidDirective, "expected a comment or line break after directive", start)
	}
	return nil
}

// scanAnchorAlias scans '&name' or '*name', ported from
// yaml_parser_scan_anchor.
func (l *Lexer) scanAnchorAlias(kind token.Kind) (token.Token, error) {
	start := l.mk.Mark()
	if err := l.skip(); err != nil {
		return token.Token{}, err
	}
	var s []byte
	for {
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		b := l.peek()
		if len(b) == 0 || !isAlpha(b[0]) {
			break
		}
		var err error
		if s, err = l.read(s); err != nil {
			return token.Token{}, err
		}
	}
	end := l.mk.Mark()
	if err := l.ensure(1); err != nil {
		return token.Token{}, err
	}
	b := l.peek()
	ok := len(s) > 0 && (isBlankZ(b) || oneOf(peekByte(b), "?:,]}%@`"))
	if !ok {
		return token.Token{}, l.errAt(yerr.SubEmptyName, "expected an alphanumeric anchor/alias name", start)
	}
	l.recentStart, l.recentEnd = start, end
	return token.Token{Kind: kind, Start: start, End: end, Payload: l.in.FromBytes(s)}, nil
}

func oneOf(b byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return true
		}
	}
	return false
}

// scanAnnotationStart scans an annotation marker: '@name'.
func (l *Lexer) scanAnnotationStart() (token.Token, error) {
	start := l.mk.Mark()
	if err := l.skip(); err != nil {
		return token.Token{}, err
	}
	var s []byte
	for {
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		b := l.peek()
		if len(b) == 0 || !isAlpha(b[0]) {
			break
		}
		var err error
		if s, err = l.read(s); err != nil {
			return token.Token{}, err
		}
	}
	if len(s) == 0 {
		return token.Token{}, l.errAt(yerr.SubEmptyName, "expected an annotation name after '@'", start)
	}
	end := l.mk.Mark()
	l.recentStart, l.recentEnd = start, end
	return token.Token{Kind: token.AnnotationStart, Start: start, End: end, Payload: l.in.FromBytes(s)}, nil
}

// scanTag scans a node tag: '!<uri>', '!handle!suffix', '!suffix' or '!'.
// Ported from yaml_parser_scan_tag, which emits one token carrying both
// handle and suffix; this lexer's closed token set splits that into
// tag-handle / tag-suffix / verbatim-tag instead, so a canonical or
// handle-bearing tag is returned as a tag-handle token with the suffix
// queued as a follow-up tag-suffix token delivered on the next Next call.
func (l *Lexer) scanTag() (token.Token, error) {
	start := l.mk.Mark()
	if err := l.ensure(2); err != nil {
		return token.Token{}, err
	}
	if l.peek()[1] == '<' {
		if err := l.skip(); err != nil { // '!'
			return token.Token{}, err
		}
		if err := l.skip(); err != nil { // '<'
			return token.Token{}, err
		}
		uri, err := l.scanTagURI(false, nil, start)
		if err != nil {
			return token.Token{}, err
		}
		if err := l.ensure(1); err != nil {
			return token.Token{}, err
		}
		if l.peek()[0] != '>' {
			return token.Token{}, l.errAt(yerr.SubInvalidTagURI, "expected '>' to close a verbatim tag", start)
		}
		if err := l.skip(); err != nil {
			return token.Token{}, err
		}
		if err := l.checkTagEnd(start); err != nil {
			return token.Token{}, err
		}
		end := l.mk.Mark()
		l.recentStart, l.recentEnd = start, end
		return token.Token{Kind: token.VerbatimTag, Start: start, End: end, Payload: l.in.FromBytes(uri)}, nil
	}

	handle, err := l.scanTagHandle(false, start)
	if err != nil {
		return token.Token{}, err
	}
	var suffix []byte
	if handle[0] == '!' && len(handle) > 1 && handle[len(handle)-1] == '!' {
		if suffix, err = l.scanTagURI(false, nil, start); err != nil {
			return token.Token{}, err
		}
	} else {
		if suffix, err = l.scanTagURI(false, handle, start); err != nil {
			return token.Token{}, err
		}
		handle = []byte{'!'}
		if len(suffix) == 0 {
			handle, suffix = suffix, handle
		}
	}
	mid := l.mk.Mark()
	if err := l.checkTagEnd(start); err != nil {
		return token.Token{}, err
	}
	end := l.mk.Mark()
	l.recentStart, l.recentEnd = start, end
	l.pending = append(l.pending, token.Token{Kind: token.TagSuffix, Start: mid, End: end, Payload: l.in.FromBytes(suffix)})
	return token.Token{Kind: token.TagHandle, Start: start, End: mid, Handle: l.in.FromBytes(handle)}, nil
}

func (l *Lexer) checkTagEnd(start mark.Position) error {
	if err := l.ensure(1); err != nil {
		return err
	}
	if !isBlankZ(l.peek()) {
		return l.errAt(yerr.SubInvalidTagURI, "expected whitespace or line break after a tag", start)
	}
	return nil
}

func (l *Lexer) scanTagHandle(directive bool, start mark.Position) ([]byte, error) {
	if err := l.ensure(1); err != nil {
		return nil, err
	}
	if l.peek()[0] != '!' {
		return nil, l.errAt(yerr.SubUnknownTagHandle, "expected '!' to begin a tag handle", start)
	}
	var s []byte
	var err error
	if s, err = l.read(s); err != nil {
		return nil, err
	}
	for {
		if err := l.ensure(1); err != nil {
			return nil, err
		}
		b := l.peek()
		if len(b) == 0 || !isAlpha(b[0]) {
			break
		}
		if s, err = l.read(s); err != nil {
			return nil, err
		}
	}
	if err := l.ensure(1); err != nil {
		return nil, err
	}
	if l.peek()[0] == '!' {
		if s, err = l.read(s); err != nil {
			return nil, err
		}
	} else if directive && string(s) != "!" {
		return nil, l.errAt(yerr.SubUnknownTagHandle, "expected '!' to end a tag handle", start)
	}
	return s, nil
}

const tagURIChars = ";/?:@&=+$,.!~*'()[]%"

func (l *Lexer) scanTagURI(directive bool, head []byte, start mark.Position) ([]byte, error) {
	var s []byte
	hasTag := len(head) > 0
	if len(head) > 1 {
		s = append(s, head[1:]...)
	}
	for {
		if err := l.ensure(1); err != nil {
			return nil, err
		}
		b := l.peek()
		if len(b) == 0 || !(isAlpha(b[0]) || oneOf(b[0], tagURIChars)) {
			break
		}
		if b[0] == '%' {
			var err error
			if s, err = l.scanURIEscape(s, start); err != nil {
				return nil, err
			}
		} else {
			var err error
			if s, err = l.read(s); err != nil {
				return nil, err
			}
		}
		hasTag = true
	}
	if !hasTag {
		return nil, l.errAt(yerr.SubInvalidTagURI, "expected a tag URI", start)
	}
	return s, nil
}

func (l *Lexer) scanURIEscape(s []byte, start mark.Position) ([]byte, error) {
	if err := l.skip(); err != nil { // '%'
		return nil, err
	}
	if err := l.ensure(2); err != nil {
		return nil, err
	}
	b := l.peek()
	if len(b) < 2 || !isHex(b[0]) || !isHex(b[1]) {
		return nil, l.errAt(yerr.SubInvalidTagURI, "expected two hexadecimal digits in a %-escape", start)
	}
	octet := byte(asHex(b[0])<<4 + asHex(b[1]))
	s = append(s, octet)
	if err := l.skip(); err != nil {
		return nil, err
	}
	if err := l.skip(); err != nil {
		return nil, err
	}
	return s, nil
}
