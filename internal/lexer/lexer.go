// Package lexer implements the tokenizer: a context-sensitive scanner that
// turns decoded UTF-8 into a closed token-kind set. Its character-by-
// character scanning techniques are ported from a fused scanner
// (_examples/WillAbides-yaml/internal/parserc/scannerc.go), but
// indentation bookkeeping is NOT ported: that scanner pushes/pops its own
// indent stack and synthesizes BLOCK_SEQUENCE_START/BLOCK_MAPPING_START/
// BLOCK_END tokens from it. This token set has no such tokens; it has
// indentation(N) instead, and assigns the level-stack decision to the
// parser (see the root package's parser.go). This lexer therefore only
// reports the new line's indentation column and leaves push/pop to the
// caller, adapting yaml_parser_roll_indent/yaml_parser_unroll_indent "one
// layer up".
package lexer

import (
	"github.com/evyaml/evyaml/internal/intern"
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/source"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// Regime carries the context a token is scanned under: whether scalars are
// allowed to span multiple lines (and down to what column), matching the
// "indent+1" threshold of yaml_parser_scan_plain_scalar
// (_examples/WillAbides-yaml/internal/parserc/scannerc.go).
type Regime struct {
	// MinIndent is the column a continuation line's first non-blank
	// character must reach or exceed for a block-context scalar to keep
	// growing. It plays the role of that function's local `indent`
	// variable directly (not parser.Indent, which is one less).
	MinIndent int
}

// Lexer tokenizes a decoded byte stream.
type Lexer struct {
	dec *source.Decoder
	mk  *mark.Tracker
	in  *intern.Interner

	flowLevel       int
	annotationDepth int
	afterAnnotation bool

	started    bool
	bomChecked bool
	ended      bool

	// pending holds tokens already scanned but not yet delivered, used
	// when a single scan (e.g. a tag handle plus its suffix) produces more
	// than one token of this lexer's closed kind set.
	pending []token.Token

	recentStart mark.Position
	recentEnd   mark.Position
}

// New returns a Lexer reading from dec and interning scalars into in.
func New(dec *source.Decoder, in *intern.Interner) *Lexer {
	return &Lexer{dec: dec, mk: mark.NewTracker(), in: in}
}

// Mark returns the lexer's current position.
func (l *Lexer) Mark() mark.Position { return l.mk.Mark() }

// RecentToken returns the start/end marks of the most recently completed
// token, for error reporting.
func (l *Lexer) RecentToken() (start, end mark.Position) {
	return l.recentStart, l.recentEnd
}

// FlowLevel reports the current flow-collection nesting depth.
func (l *Lexer) FlowLevel() int { return l.flowLevel }

func (l *Lexer) errAt(sub yerr.SubKind, msg string, at mark.Position) error {
	return yerr.Lexer(sub, msg, at, l.recentStart, l.recentEnd)
}

func (l *Lexer) ensure(n int) error {
	if err := l.dec.Ensure(n); err != nil {
		return err
	}
	return nil
}

func (l *Lexer) peek() []byte { return l.dec.Peek() }

// skip advances past one non-break character.
func (l *Lexer) skip() error {
	if err := l.ensure(1); err != nil {
		return err
	}
	b := l.peek()
	w := charWidth(b[0])
	l.dec.Advance(w)
	l.mk.Advance(w)
	return nil
}

// skipLine advances past one line break, if the cursor is on one.
func (l *Lexer) skipLine() error {
	if err := l.ensure(2); err != nil {
		return err
	}
	b := l.peek()
	if !isBreak(b) {
		return nil
	}
	w := breakWidth(b)
	l.dec.Advance(w)
	l.mk.AdvanceBreak(w)
	return nil
}

// read copies the current character onto s and advances past it.
func (l *Lexer) read(s []byte) ([]byte, error) {
	if err := l.ensure(1); err != nil {
		return s, err
	}
	b := l.peek()
	w := charWidth(b[0])
	s = append(s, b[:w]...)
	l.dec.Advance(w)
	l.mk.Advance(w)
	return s, nil
}

// readLine copies the current line break onto s, normalized to '\n' except
// for LS/PS which are kept literal, and advances past it.
func (l *Lexer) readLine(s []byte) ([]byte, error) {
	if err := l.ensure(3); err != nil {
		return s, err
	}
	b := l.peek()
	switch {
	case isCRLF(b):
		s = append(s, '\n')
		l.dec.Advance(2)
		l.mk.AdvanceBreak(2)
	case len(b) > 0 && (b[0] == '\r' || b[0] == '\n'):
		s = append(s, '\n')
		l.dec.Advance(1)
		l.mk.AdvanceBreak(1)
	case len(b) >= 2 && b[0] == 0xC2 && b[1] == 0x85:
		s = append(s, '\n')
		l.dec.Advance(2)
		l.mk.AdvanceBreak(2)
	case len(b) >= 3 && b[0] == 0xE2 && b[1] == 0x80 && (b[2] == 0xA8 || b[2] == 0xA9):
		s = append(s, b[:3]...)
		l.dec.Advance(3)
		l.mk.AdvanceBreak(3)
	}
	return s, nil
}

// skipComment consumes a '#' line comment up to (not including) the next
// break or end of input. Comments carry no event-model representation
// here, so this simply discards the text instead of attaching it to a
// token as a head/line comment.
func (l *Lexer) skipComment() error {
	for {
		if err := l.ensure(1); err != nil {
			return err
		}
		if isBreakZ(l.peek()) {
			return nil
		}
		if err := l.skip(); err != nil {
			return err
		}
	}
}

// scanToNextToken eats blanks, comments and line breaks up to the next
// token, reporting whether it crossed at least one line break (which in
// block context means the parser needs a fresh indentation(N) token before
// the next real token).
func (l *Lexer) scanToNextToken() (bool, error) {
	crossed := false
	for {
		if err := l.ensure(1); err != nil {
			return crossed, err
		}
		if l.mk.Mark().Column == 1 && isBOM(l.peek()) {
			if err := l.skip(); err != nil {
				return crossed, err
			}
		}
		if err := l.ensure(1); err != nil {
			return crossed, err
		}
		for isBlank(l.peek()) {
			if err := l.skip(); err != nil {
				return crossed, err
			}
			if err := l.ensure(1); err != nil {
				return crossed, err
			}
		}
		if isZ(l.peek()) {
			return crossed, nil
		}
		if l.peek()[0] == '#' {
			if err := l.skipComment(); err != nil {
				return crossed, err
			}
		}
		if err := l.ensure(1); err != nil {
			return crossed, err
		}
		if isBreak(l.peek()) {
			if err := l.skipLine(); err != nil {
				return crossed, err
			}
			crossed = true
			continue
		}
		break
	}
	return crossed, nil
}

func (l *Lexer) simple(kind token.Kind, width int) (token.Token, error) {
	start := l.mk.Mark()
	for i := 0; i < width; i++ {
		if err := l.skip(); err != nil {
			return token.Token{}, err
		}
	}
	end := l.mk.Mark()
	l.recentStart, l.recentEnd = start, end
	return token.Token{Kind: kind, Start: start, End: end}, nil
}

func (l *Lexer) flowOpen(kind token.Kind) (token.Token, error) {
	t, err := l.simple(kind, 1)
	if err != nil {
		return t, err
	}
	l.flowLevel++
	return t, nil
}

func (l *Lexer) flowClose(kind token.Kind) (token.Token, error) {
	t, err := l.simple(kind, 1)
	if err != nil {
		return t, err
	}
	if l.flowLevel > 0 {
		l.flowLevel--
	}
	return t, nil
}

// Next returns the next token under the given scanning regime. Once the
// end of the stream is reached, every further call returns the same
// stream-end token again rather than an error or a zero value.
func (l *Lexer) Next(regime Regime) (token.Token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}
	if !l.started {
		l.started = true
		z := l.mk.Mark()
		return token.Token{Kind: token.StreamStart, Start: z, End: z}, nil
	}
	if l.ended {
		z := l.mk.Mark()
		return token.Token{Kind: token.StreamEnd, Start: z, End: z}, nil
	}
	if !l.bomChecked {
		l.bomChecked = true
		if err := l.ensure(3); err != nil {
			return token.Token{}, err
		}
		if isBOM(l.peek()) {
			start := l.mk.Mark()
			l.dec.Advance(3)
			l.mk.AdvanceBOM(3)
			end := l.mk.Mark()
			l.recentStart, l.recentEnd = start, end
			return token.Token{Kind: token.ByteOrderMark, Start: start, End: end}, nil
		}
	}

	crossed, err := l.scanToNextToken()
	if err != nil {
		return token.Token{}, err
	}
	if crossed && l.flowLevel == 0 {
		m := l.mk.Mark()
		return token.Token{Kind: token.Indentation, Start: m, End: m, Number: m.Column}, nil
	}

	if err := l.ensure(4); err != nil {
		return token.Token{}, err
	}
	b := l.peek()
	if isZ(b) {
		l.ended = true
		m := l.mk.Mark()
		return token.Token{Kind: token.StreamEnd, Start: m, End: m}, nil
	}

	col := l.mk.Mark().Column
	wasAfterAnnotation := l.afterAnnotation
	l.afterAnnotation = false

	var tok token.Token
	switch {
	case col == 1 && l.flowLevel == 0 && isDocumentIndicator(b, '-'):
		tok, err = l.simple(token.DirectivesEnd, 3)
	case col == 1 && l.flowLevel == 0 && isDocumentIndicator(b, '.'):
		tok, err = l.simple(token.DocumentEnd, 3)
	case b[0] == '[':
		tok, err = l.flowOpen(token.FlowSeqStart)
	case b[0] == ']':
		tok, err = l.flowClose(token.FlowSeqEnd)
	case b[0] == '{':
		tok, err = l.flowOpen(token.FlowMapStart)
	case b[0] == '}':
		tok, err = l.flowClose(token.FlowMapEnd)
	case b[0] == ',':
		tok, err = l.simple(token.FlowSeparator, 1)
	case b[0] == '-' && isBlankZ(b[1:]):
		tok, err = l.simple(token.BlockSequenceIndicator, 1)
	case b[0] == '?' && (l.flowLevel > 0 || isBlankZ(b[1:])):
		tok, err = l.simple(token.BlockMapKeyIndicator, 1)
	case b[0] == ':' && (l.flowLevel > 0 || isBlankZ(b[1:])):
		tok, err = l.simple(token.BlockMapValueIndicator, 1)
	case b[0] == '*':
		tok, err = l.scanAnchorAlias(token.Alias)
	case b[0] == '&':
		tok, err = l.scanAnchorAlias(token.Anchor)
	case b[0] == '!':
		tok, err = l.scanTag()
	case b[0] == '|':
		tok, err = l.scanBlockScalar(true, regime)
	case b[0] == '>':
		tok, err = l.scanBlockScalar(false, regime)
	case b[0] == '\'':
		tok, err = l.scanQuotedScalar(true)
	case b[0] == '"':
		tok, err = l.scanQuotedScalar(false)
	case b[0] == '%' && col == 1:
		tok, err = l.scanDirective()
	case b[0] == '@':
		tok, err = l.scanAnnotationStart()
	case b[0] == '(' && wasAfterAnnotation:
		tok, err = l.flowOpen(token.AnnotationParamsStart)
		if err == nil {
			l.annotationDepth++
		}
	case b[0] == ')' && l.annotationDepth > 0:
		tok, err = l.flowClose(token.AnnotationParamsEnd)
		if err == nil {
			l.annotationDepth--
		}
	default:
		tok, err = l.scanPlainScalar(regime)
	}
	if err == nil && tok.Kind == token.AnnotationStart {
		l.afterAnnotation = true
	}
	return tok, err
}
