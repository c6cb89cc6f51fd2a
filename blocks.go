package evyaml

import (
	"github.com/evyaml/evyaml/event"
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// parseBlockSequence consumes a run of "-" entries all aligned to t's
// column. It makes no distinction between an ordinarily indented sequence
// and the "indentless" one nested
// directly under a mapping value at the same column as the mapping key:
// both simply push a level at t's own column and close the moment a line
// starts at a lesser column or a token other than "-", whichever comes
// first - there is never a point where this sequence and its enclosing
// mapping are both live on the level stack at once, because this whole
// function runs to completion (including every nested node under it)
// before returning control to whatever called it.
func (p *Parser) parseBlockSequence(t token.Token, props event.Properties, start mark.Position) error {
	col := t.Start.Column
	p.emit(sequenceStartEvent(start, t.End, props, event.BlockStyle))
	if err := p.pushLevel(col, true); err != nil {
		return err
	}

	p.consume()
	if err := p.parseBlockEntryValue(col); err != nil {
		return err
	}
	for {
		ti, err := p.peekInfo()
		if err != nil {
			return err
		}
		if ti.haveIndentCol && ti.indentCol == col && ti.tok.Kind == token.BlockSequenceIndicator {
			p.consume()
			if err := p.parseBlockEntryValue(col); err != nil {
				return err
			}
			continue
		}
		if err := p.checkDedent(ti, col); err != nil {
			return err
		}
		break
	}

	p.popLevel()
	p.emit(sequenceEndEvent(p.lastEnd))
	return nil
}

// checkDedent enforces the indentation invariant at the point a block
// collection's entry loop is about to close: a line that starts
// strictly deeper than col but didn't match this level's continuation
// token has landed nowhere - it aligns with no live level on the stack,
// since any legitimate deeper content would already have been consumed
// as part of the previous entry's value. Stream/document terminators are
// exempt; they close every open level regardless of column.
func (p *Parser) checkDedent(ti tokInfo, col int) error {
	if ti.haveIndentCol && ti.indentCol > col && !isTerminalKind(ti.tok.Kind) {
		return p.errAt(yerr.SubIndentViolation, "content is not aligned with any enclosing block collection", ti.tok.Start)
	}
	return nil
}

// parseBlockEntryValue parses what follows a consumed "-": a full node,
// or - if the next token closes the entry immediately (another entry
// marker at or above this column, a dedent, or a stream/document
// terminator) - an empty plain scalar.
func (p *Parser) parseBlockEntryValue(col int) error {
	ti, err := p.peekInfo()
	if err != nil {
		return err
	}
	if isTerminalKind(ti.tok.Kind) || (ti.haveIndentCol && ti.indentCol <= col) {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	return p.parseNode()
}

// parseBlockMapping drives a block mapping's entry loop: firstEntry parses
// the entry that caused the caller to recognize this as a mapping (either
// an explicit "?" key or an implicit scalar key already peeked), and the
// loop then continues gathering further entries aligned to col until a
// dedent or a non-entry token closes it.
func (p *Parser) parseBlockMapping(col int, props event.Properties, start, mstart mark.Position, firstEntry func() error) error {
	p.emit(mappingStartEvent(start, mstart, props, event.BlockStyle))
	if err := p.pushLevel(col, false); err != nil {
		return err
	}

	if err := firstEntry(); err != nil {
		return err
	}
	for {
		ti, err := p.peekInfo()
		if err != nil {
			return err
		}
		if !(ti.haveIndentCol && ti.indentCol == col) {
			if err := p.checkDedent(ti, col); err != nil {
				return err
			}
			break
		}
		if ti.tok.Kind == token.BlockMapKeyIndicator {
			p.consume()
			if err := p.parseExplicitEntry(col); err != nil {
				return err
			}
			continue
		}
		if isImplicitKeyStart(ti.tok.Kind) {
			if err := p.parseImplicitEntry(col); err != nil {
				return err
			}
			continue
		}
		break
	}

	p.popLevel()
	p.emit(mappingEndEvent(p.lastEnd))
	return nil
}

func isImplicitKeyStart(k token.Kind) bool {
	if isScalarKind(k) {
		return true
	}
	switch k {
	case token.Anchor, token.TagHandle, token.VerbatimTag, token.Alias, token.FlowSeqStart, token.FlowMapStart:
		return true
	}
	return false
}

// parseExplicitEntry parses the key and value of a "? key\n: value" entry.
// Either half may be absent, in which case it is an empty plain scalar.
func (p *Parser) parseExplicitEntry(col int) error {
	ti, err := p.peekInfo()
	if err != nil {
		return err
	}
	if isTerminalKind(ti.tok.Kind) || ti.tok.Kind == token.BlockMapValueIndicator || (ti.haveIndentCol && ti.indentCol <= col) {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
	} else if err := p.parseNode(); err != nil {
		return err
	}
	return p.parseMappingValueOrEmpty(col)
}

// parseImplicitEntry parses one "key: value" entry that is not the first
// of its mapping (the first is handled by parseScalarNode's lookahead, via
// parseImplicitEntryFromScalar passed as parseBlockMapping's firstEntry).
func (p *Parser) parseImplicitEntry(col int) error {
	anchor, tag, _, err := p.parseNodeProperties()
	if err != nil {
		return err
	}
	t, err := p.peek()
	if err != nil {
		return err
	}
	if !isScalarKind(t.Kind) {
		return p.errAt(yerr.SubMissingKey, "block mapping keys must be scalars unless introduced with '?'", t.Start)
	}
	return p.parseImplicitEntryFromScalar(t, event.Properties{Anchor: anchor, Tag: tag}, col)
}

// parseImplicitEntryFromScalar emits t as a key (t not yet consumed) and
// then the ':'-introduced value, or an empty scalar if the value is
// missing.
func (p *Parser) parseImplicitEntryFromScalar(t token.Token, props event.Properties, col int) error {
	p.consume()
	p.emit(scalarEvent(t.Start, t.End, props, p.in.String(t.Payload), scalarStyleFor(t.Kind)))
	return p.parseMappingValueOrEmpty(col)
}

// parseMappingValueOrEmpty consumes a ':' indicator if present and parses
// its value, or emits an empty scalar as the value when ':' is missing or
// nothing follows it on this entry.
//
// One case needs an exception to the ordinary dedent check: an "indentless"
// sequence, whose "-" entries sit at the very same column as the mapping
// key they're the value of (items:\n- a\n- b\n is the canonical shape).
// Without the exception, that "-" reads as indentCol <= col and the value
// is misparsed as empty, leaving the "-" dangling for the mapping's entry
// loop to choke on. Ported one layer up from the same special case in
// _examples/WillAbides-yaml/internal/parserc/parserc.go:570
// (indentless_sequence / PARSE_INDENTLESS_SEQUENCE_ENTRY_STATE): there, a
// bool threaded through the state machine suppresses the indent check for
// exactly this token; here, the same token is checked directly since the
// whole node parses to completion before this function returns.
func (p *Parser) parseMappingValueOrEmpty(col int) error {
	ti, err := p.peekInfo()
	if err != nil {
		return err
	}
	if ti.tok.Kind != token.BlockMapValueIndicator {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	p.consume()
	vti, err := p.peekInfo()
	if err != nil {
		return err
	}
	indentlessSeq := vti.tok.Kind == token.BlockSequenceIndicator && vti.haveIndentCol && vti.indentCol == col
	if !indentlessSeq && (isTerminalKind(vti.tok.Kind) || (vti.haveIndentCol && vti.indentCol <= col)) {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	return p.parseNode()
}
