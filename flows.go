package evyaml

import (
	"github.com/evyaml/evyaml/event"
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// parseFlowSequence and parseFlowMapping are grounded on
// yaml_parser_parse_flow_sequence_entry/yaml_parser_parse_flow_mapping_key
// (_examples/WillAbides-yaml/internal/parserc/parserc.go), but written as
// ordinary recursive helpers rather than states on the continuation stack:
// flow nesting never needs to cooperate with the indentation-driven level
// stack that block collections use, since "[" and "{" carry their own
// explicit close token. depth still counts against the shared nesting
// limit so deeply nested flow collections are bounded the same as block
// ones.

func (p *Parser) parseFlowSequence(t token.Token, props event.Properties, start mark.Position) error {
	p.consume()
	p.emit(sequenceStartEvent(start, t.End, props, event.FlowStyle))
	p.depth++
	if p.depth > p.maxDepth {
		return p.errAt(yerr.SubDepthExceeded, "exceeded maximum nesting depth", t.Start)
	}

	for {
		nt, err := p.peek()
		if err != nil {
			return err
		}
		if nt.Kind == token.FlowSeqEnd {
			p.consume()
			break
		}
		if err := p.parseFlowSeqEntry(); err != nil {
			return err
		}
		sep, err := p.peek()
		if err != nil {
			return err
		}
		switch sep.Kind {
		case token.FlowSeparator:
			p.consume()
		case token.FlowSeqEnd:
			p.consume()
		default:
			return p.errAt(yerr.SubUnexpectedToken, "expected ',' or ']' in flow sequence", sep.Start)
		}
		if sep.Kind == token.FlowSeqEnd {
			break
		}
	}

	p.depth--
	p.emit(sequenceEndEvent(p.lastEnd))
	return nil
}

// parseFlowSeqEntry handles one sequence item, including the shorthand
// "key: value" single-pair flow mapping YAML allows directly inside a
// flow sequence (e.g. "[a: 1, b: 2]").
func (p *Parser) parseFlowSeqEntry() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == token.FlowSeparator || t.Kind == token.FlowSeqEnd {
		p.emit(scalarEvent(t.Start, t.Start, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	if isScalarKind(t.Kind) {
		ahead, err := p.peekAt(1)
		if err != nil {
			return err
		}
		if ahead.tok.Kind == token.BlockMapValueIndicator {
			return p.parseFlowPairShorthand(t)
		}
	}
	return p.parseNode()
}

func (p *Parser) parseFlowPairShorthand(t token.Token) error {
	p.emit(mappingStartEvent(t.Start, t.Start, event.Properties{}, event.FlowStyle))
	p.consume()
	p.emit(scalarEvent(t.Start, t.End, event.Properties{}, p.in.String(t.Payload), scalarStyleFor(t.Kind)))

	vt, err := p.peek()
	if err != nil {
		return err
	}
	if vt.Kind != token.BlockMapValueIndicator {
		return p.errAt(yerr.SubUnexpectedToken, "expected ':' in flow pair", vt.Start)
	}
	p.consume()

	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == token.FlowSeparator || nt.Kind == token.FlowSeqEnd || nt.Kind == token.FlowMapEnd {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
	} else if err := p.parseNode(); err != nil {
		return err
	}

	p.emit(mappingEndEvent(p.lastEnd))
	return nil
}

func (p *Parser) parseFlowMapping(t token.Token, props event.Properties, start mark.Position) error {
	p.consume()
	p.emit(mappingStartEvent(start, t.End, props, event.FlowStyle))
	p.depth++
	if p.depth > p.maxDepth {
		return p.errAt(yerr.SubDepthExceeded, "exceeded maximum nesting depth", t.Start)
	}

	for {
		nt, err := p.peek()
		if err != nil {
			return err
		}
		if nt.Kind == token.FlowMapEnd {
			p.consume()
			break
		}
		if err := p.parseFlowMapEntry(); err != nil {
			return err
		}
		sep, err := p.peek()
		if err != nil {
			return err
		}
		switch sep.Kind {
		case token.FlowSeparator:
			p.consume()
		case token.FlowMapEnd:
			p.consume()
		default:
			return p.errAt(yerr.SubUnexpectedToken, "expected ',' or '}' in flow mapping", sep.Start)
		}
		if sep.Kind == token.FlowMapEnd {
			break
		}
	}

	p.depth--
	p.emit(mappingEndEvent(p.lastEnd))
	return nil
}

// parseFlowMapEntry parses one "key" or "key: value" pair. A key-only
// entry (no ':') is a key mapped to an empty plain scalar.
func (p *Parser) parseFlowMapEntry() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == token.FlowSeparator || t.Kind == token.FlowMapEnd {
		p.emit(scalarEvent(t.Start, t.Start, event.Properties{}, "", event.PlainStyle))
		p.emit(scalarEvent(t.Start, t.Start, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	if err := p.parseNode(); err != nil {
		return err
	}
	vt, err := p.peek()
	if err != nil {
		return err
	}
	if vt.Kind != token.BlockMapValueIndicator {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	p.consume()
	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == token.FlowSeparator || nt.Kind == token.FlowMapEnd {
		p.emit(scalarEvent(p.lastEnd, p.lastEnd, event.Properties{}, "", event.PlainStyle))
		return nil
	}
	return p.parseNode()
}
