package evyaml

import (
	"fmt"

	"github.com/evyaml/evyaml/internal/intern"
	"github.com/evyaml/evyaml/internal/lexer"
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/source"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"

	"github.com/evyaml/evyaml/event"
)

// DefaultMaxDepth bounds the parser's level/flow nesting depth unless a
// caller overrides it with SetMaxDepth. Callers processing untrusted input
// should treat exceeding it as a normal parse error, not a resource
// exhaustion bug.
const DefaultMaxDepth = 1024

const defaultMaxDepth = DefaultMaxDepth

// parserState names the outer stream/document framing states. A
// continuation-stack parser threads its entire grammar through a much
// larger set of these states so that one token can be consumed per Next
// call; here, every event produced while parsing one node (including
// arbitrarily deep nested block/flow collections) is batched into a
// pending queue before the first of them is returned, since Next()'s
// contract only promises one event per call, not one token-step per call.
// That collapses the state machine down to the handful of states genuinely
// needed to resume correctly across many Next() calls - the stream/document
// framing, where a single document's node may end and control must return
// to decide whether another document follows. See DESIGN.md.
type parserState int

const (
	stStreamStart parserState = iota
	stDocumentStart
	stDocumentContent
	stDocumentEnd
	stEnd
)

// blockLevel is one entry of the indentation stack: a block sequence or
// block mapping currently open, and the column its entries must align to.
type blockLevel struct {
	indent int
	seq    bool
}

// tokInfo pairs a real token with the indentation column reported by the
// indentation(N) token that preceded it, if a line was crossed to reach
// it. This is how the parser learns of dedents: the lexer itself never
// synthesizes BLOCK_END-style tokens (see internal/lexer's package doc).
type tokInfo struct {
	tok           token.Token
	indentCol     int
	haveIndentCol bool
}

// Parser is a state-stack-driven event producer pulling tokens from a
// lexer.Lexer, with its token-at-a-time continuation stack replaced by the
// pending-event queue described above.
type Parser struct {
	lx *lexer.Lexer
	in *intern.Interner

	state parserState

	levels []blockLevel
	depth  int

	buf []tokInfo

	version       *event.VersionDirective
	tagDirectives []event.TagDirective

	pending   []event.Event
	finalMark mark.Position
	lastEnd   mark.Position

	maxDepth int

	failed bool
	err    error
}

// New returns a Parser with its own text interner, ready to accept input
// via SetInputBytes or SetInputFile.
func New() *Parser {
	return &Parser{in: intern.New(), state: stStreamStart, maxDepth: defaultMaxDepth}
}

// Interner returns the text interner backing this parser's tokens and
// events. It is owned by this Parser and may outlive it if events still
// reference strings from it.
func (p *Parser) Interner() *intern.Interner { return p.in }

// SetMaxDepth overrides the default nesting-depth bound (see
// defaultMaxDepth). It survives across SetInputBytes/SetInputFile calls on
// the same Parser; call it before the first Next, since depth is only
// checked as levels are pushed.
func (p *Parser) SetMaxDepth(n int) { p.maxDepth = n }

// SetInputBytes resets the parser to read an in-memory byte sequence,
// auto-detecting its encoding.
func (p *Parser) SetInputBytes(b []byte) {
	p.SetInputBytesEncoding(b, source.AnyEncoding)
}

// SetInputBytesEncoding is SetInputBytes with the stream's encoding forced
// rather than auto-detected.
func (p *Parser) SetInputBytesEncoding(b []byte, enc Encoding) {
	p.reset(lexer.New(source.NewDecoder(source.NewBytes(b), enc), p.in))
}

// SetInputFile resets the parser to stream path, auto-detecting its
// encoding.
func (p *Parser) SetInputFile(path string) error {
	return p.SetInputFileEncoding(path, source.AnyEncoding)
}

// SetInputFileEncoding is SetInputFile with the stream's encoding forced
// rather than auto-detected.
func (p *Parser) SetInputFileEncoding(path string, enc Encoding) error {
	raw, err := source.NewFile(path)
	if err != nil {
		return err
	}
	p.reset(lexer.New(source.NewDecoder(raw, enc), p.in))
	return nil
}

func (p *Parser) reset(lx *lexer.Lexer) {
	p.lx = lx
	p.state = stStreamStart
	p.levels = nil
	p.depth = 0
	p.buf = nil
	p.version = nil
	p.tagDirectives = nil
	p.pending = nil
	p.failed = false
	p.err = nil
}

// Mark returns the lexer's current input position, for error reporting
// mid-call.
func (p *Parser) Mark() mark.Position { return p.lx.Mark() }

// RecentToken returns the start/end marks of the token the lexer most
// recently scanned, which may be a lookahead token not yet consumed.
func (p *Parser) RecentToken() (start, end mark.Position) { return p.lx.RecentToken() }

// CurrentTokenStart returns the start mark of the token the parser is
// about to act on, for diagnostics.
func (p *Parser) CurrentTokenStart() mark.Position {
	if len(p.buf) > 0 {
		return p.buf[0].tok.Start
	}
	return p.lx.Mark()
}

func (p *Parser) errAt(sub yerr.SubKind, msg string, at mark.Position) error {
	rs, re := p.lx.RecentToken()
	return yerr.Parser(sub, msg, at, rs, re)
}

// Next pulls the next event. Once stream-end has been returned, every
// further call returns it again without consuming input. Under a
// no-recovery policy, the first error is latched: every call after a
// failure returns that same error again rather than re-entering a parser
// state that may have been left inconsistent.
func (p *Parser) Next() (event.Event, error) {
	if p.failed {
		return event.Event{}, p.err
	}
	if len(p.pending) > 0 {
		return p.takePending(), nil
	}
	if p.state == stEnd {
		return event.Event{Type: event.StreamEnd, Start: p.finalMark, End: p.finalMark}, nil
	}
	for len(p.pending) == 0 {
		if err := p.step(); err != nil {
			p.failed = true
			p.err = err
			return event.Event{}, err
		}
	}
	return p.takePending(), nil
}

func (p *Parser) takePending() event.Event {
	e := p.pending[0]
	p.pending = p.pending[1:]
	return e
}

func (p *Parser) emit(e event.Event) { p.pending = append(p.pending, e) }

func (p *Parser) step() error {
	switch p.state {
	case stStreamStart:
		return p.parseStreamStart()
	case stDocumentStart:
		return p.parseDocumentStart()
	case stDocumentContent:
		return p.parseDocumentContent()
	case stDocumentEnd:
		return p.parseDocumentEnd()
	default:
		return fmt.Errorf("evyaml: invalid parser state %d", p.state)
	}
}

// minIndent derives the Regime a token fetch should use: one past the
// innermost currently open block level's column (see internal/lexer's
// Regime doc comment).
func (p *Parser) minIndent() int {
	if len(p.levels) == 0 {
		return 0
	}
	return p.levels[len(p.levels)-1].indent + 1
}

// fetchOne pulls one real (non-indentation, non-BOM) token from the lexer,
// folding any indentation(N) token it passes along the way into the
// buffered tokInfo, per the architectural note in internal/lexer's package
// doc: this is the "one layer up" half of that redesign.
func (p *Parser) fetchOne() error {
	regime := lexer.Regime{MinIndent: p.minIndent()}
	haveIndent, col := false, 0
	for {
		t, err := p.lx.Next(regime)
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.Indentation:
			haveIndent, col = true, t.Number
			continue
		case token.ByteOrderMark:
			continue
		}
		p.buf = append(p.buf, tokInfo{tok: t, indentCol: col, haveIndentCol: haveIndent})
		return nil
	}
}

func (p *Parser) peekAt(n int) (tokInfo, error) {
	for len(p.buf) <= n {
		if err := p.fetchOne(); err != nil {
			return tokInfo{}, err
		}
	}
	return p.buf[n], nil
}

func (p *Parser) peekInfo() (tokInfo, error) { return p.peekAt(0) }

func (p *Parser) peek() (token.Token, error) {
	ti, err := p.peekAt(0)
	return ti.tok, err
}

func (p *Parser) consume() {
	p.lastEnd = p.buf[0].tok.End
	p.buf = p.buf[1:]
}

func (p *Parser) pushLevel(indent int, seq bool) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errAt(yerr.SubDepthExceeded, "exceeded maximum nesting depth", p.Mark())
	}
	p.levels = append(p.levels, blockLevel{indent: indent, seq: seq})
	return nil
}

func (p *Parser) popLevel() {
	p.levels = p.levels[:len(p.levels)-1]
	p.depth--
}

func isTerminalKind(k token.Kind) bool {
	switch k {
	case token.StreamEnd, token.DocumentEnd, token.DirectivesEnd:
		return true
	}
	return false
}

func isScalarKind(k token.Kind) bool {
	switch k {
	case token.PlainScalar, token.SingleQuotedScalar, token.DoubleQuotedScalar, token.LiteralScalar, token.FoldedScalar:
		return true
	}
	return false
}

func scalarStyleFor(k token.Kind) event.ScalarStyle {
	switch k {
	case token.SingleQuotedScalar:
		return event.SingleQuotedStyle
	case token.DoubleQuotedScalar:
		return event.DoubleQuotedStyle
	case token.LiteralScalar:
		return event.LiteralStyle
	case token.FoldedScalar:
		return event.FoldedStyle
	default:
		return event.PlainStyle
	}
}
