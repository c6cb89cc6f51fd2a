package evyaml

import (
	"github.com/evyaml/evyaml/event"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// parseStreamStart is grounded on yaml_parser_parse_stream_start
// (_examples/WillAbides-yaml/internal/parserc/parserc.go): consume the
// lexer's synthetic stream-start token and emit the matching event.
func (p *Parser) parseStreamStart() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind != token.StreamStart {
		return p.errAt(yerr.SubUnexpectedToken, "expected stream-start", t.Start)
	}
	p.consume()
	p.emit(streamStartEvent(t.Start))
	p.state = stDocumentStart
	return nil
}

// parseDocumentStart is grounded on yaml_parser_parse_document_start:
// drop a leftover explicit document-end marker, gather directives, and
// either open a document or - if the stream has nothing left - close it.
func (p *Parser) parseDocumentStart() error {
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.Kind != token.DocumentEnd {
			break
		}
		p.consume()
	}

	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == token.StreamEnd {
		p.consume()
		p.finalMark = t.End
		p.emit(streamEndEvent(t.End))
		p.state = stEnd
		return nil
	}

	docStart := t.Start
	p.version = nil
	p.tagDirectives = nil
	for {
		t, err = p.peek()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.YAMLDirective:
			if p.version != nil {
				return p.errAt(yerr.SubInvalidDirective, "found duplicate %YAML directive", t.Start)
			}
			p.version = &event.VersionDirective{Major: t.Major, Minor: t.Minor}
			p.consume()
			continue
		case token.TagDirective:
			p.tagDirectives = append(p.tagDirectives, event.TagDirective{
				Handle: p.in.String(t.Handle),
				Prefix: p.in.String(t.Payload),
			})
			p.consume()
			continue
		case token.ReservedDirective:
			p.consume()
			continue
		}
		break
	}

	implicit := true
	end := t.Start
	if t.Kind == token.DirectivesEnd {
		p.consume()
		implicit = false
		end = t.End
		t, err = p.peek()
		if err != nil {
			return err
		}
	} else if p.version != nil || len(p.tagDirectives) > 0 {
		return p.errAt(yerr.SubInvalidDirective, "expected directives-end marker after directives", t.Start)
	}

	p.emit(documentStartEvent(docStart, end, p.version, p.tagDirectives, implicit))
	p.state = stDocumentContent
	return nil
}

// parseDocumentContent is grounded on yaml_parser_parse_document_content:
// an empty document body (immediately a marker or stream-end) is a single
// empty plain scalar; otherwise parse exactly one node.
func (p *Parser) parseDocumentContent() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	if isTerminalKind(t.Kind) {
		p.emit(scalarEvent(t.Start, t.Start, event.Properties{}, "", event.PlainStyle))
		p.state = stDocumentEnd
		return nil
	}
	if err := p.parseNode(); err != nil {
		return err
	}
	p.state = stDocumentEnd
	return nil
}

// parseDocumentEnd is grounded on yaml_parser_parse_document_end: accept
// an explicit "..." marker or treat document-end as implicit.
func (p *Parser) parseDocumentEnd() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	implicit := true
	end := t.Start
	if t.Kind == token.DocumentEnd {
		p.consume()
		implicit = false
		end = t.End
	}
	p.emit(documentEndEvent(end, end, implicit))
	p.state = stDocumentStart
	return nil
}
