package evyaml

import (
	"github.com/evyaml/evyaml/event"
	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/token"
	"github.com/evyaml/evyaml/internal/yerr"
)

// parseNode parses exactly one node - scalar, alias, block or flow
// collection, or annotation - including everything nested under it, and
// appends the resulting events to the pending queue. Because Next()
// already batches a whole node's worth of events behind one pending queue
// (see parser.go's parserState doc comment), nested block and flow
// collections recurse directly into their own
// parseBlockSequence/parseFlowMapping calls instead of pushing
// continuation states for the caller to resume token-by-token.
func (p *Parser) parseNode() error {
	t, err := p.peek()
	if err != nil {
		return err
	}

	if t.Kind == token.Alias {
		p.consume()
		p.emit(aliasEvent(t.Start, t.End, p.in.String(t.Payload)))
		return nil
	}

	start := t.Start
	anchor, tag, haveProps, err := p.parseNodeProperties()
	if err != nil {
		return err
	}
	props := event.Properties{Anchor: anchor, Tag: tag}

	t, err = p.peek()
	if err != nil {
		return err
	}

	switch {
	case t.Kind == token.AnnotationStart:
		if haveProps {
			return p.errAt(yerr.SubBadNodeProperty, "node properties cannot precede an annotation", t.Start)
		}
		return p.parseAnnotation()
	case t.Kind == token.BlockSequenceIndicator:
		return p.parseBlockSequence(t, props, start)
	case t.Kind == token.BlockMapKeyIndicator:
		return p.parseBlockMapping(t.Start.Column, props, start, t.Start, func() error {
			p.consume()
			return p.parseExplicitEntry(t.Start.Column)
		})
	case t.Kind == token.FlowSeqStart:
		return p.parseFlowSequence(t, props, start)
	case t.Kind == token.FlowMapStart:
		return p.parseFlowMapping(t, props, start)
	case isScalarKind(t.Kind):
		return p.parseScalarNode(t, props, start)
	case haveProps:
		p.consume()
		p.emit(scalarEvent(start, t.Start, props, "", event.PlainStyle))
		return nil
	default:
		return p.errAt(yerr.SubUnexpectedToken, "did not find expected node content", t.Start)
	}
}

// parseScalarNode handles a bare scalar as a complete node, and the
// implicit-key case where it is immediately followed on the same line by
// a block-map-value-indicator. A scalar that crossed a line break cannot
// be an implicit key, so Multiline scalars skip the lookahead entirely.
// Inside a flow collection this
// lookahead never applies: "x: 2" as a flow-mapping entry is handled
// directly by parseFlowMapEntry's own ':' check, which calls parseNode
// for the key - opening a nested *block* mapping here would be wrong.
func (p *Parser) parseScalarNode(t token.Token, props event.Properties, start mark.Position) error {
	if !t.Multiline && p.lx.FlowLevel() == 0 {
		ahead, err := p.peekAt(1)
		if err != nil {
			return err
		}
		if !ahead.haveIndentCol && ahead.tok.Kind == token.BlockMapValueIndicator {
			return p.parseBlockMapping(t.Start.Column, event.Properties{}, start, t.Start, func() error {
				return p.parseImplicitEntryFromScalar(t, props, t.Start.Column)
			})
		}
	}
	p.consume()
	p.emit(scalarEvent(start, t.End, props, p.in.String(t.Payload), scalarStyleFor(t.Kind)))
	return nil
}

// parseNodeProperties gathers an optional anchor/tag pair in either order:
// properties ::= TAG ANCHOR? | ANCHOR TAG?.
func (p *Parser) parseNodeProperties() (anchor, tag string, have bool, err error) {
	anchor, haveAnchor, err := p.maybeConsumeAnchor()
	if err != nil {
		return "", "", false, err
	}
	tag, haveTag, err := p.maybeConsumeTag()
	if err != nil {
		return "", "", false, err
	}
	if !haveAnchor {
		anchor, haveAnchor, err = p.maybeConsumeAnchor()
		if err != nil {
			return "", "", false, err
		}
	}
	return anchor, tag, haveAnchor || haveTag, nil
}

func (p *Parser) maybeConsumeAnchor() (name string, ok bool, err error) {
	t, err := p.peek()
	if err != nil {
		return "", false, err
	}
	if t.Kind != token.Anchor {
		return "", false, nil
	}
	p.consume()
	return p.in.String(t.Payload), true, nil
}

// maybeConsumeTag consumes a verbatim-tag token, or a tag-handle plus its
// queued tag-suffix follow-up (see internal/lexer's scanTag doc comment),
// and resolves it against the document's %TAG directives.
func (p *Parser) maybeConsumeTag() (tag string, ok bool, err error) {
	t, err := p.peek()
	if err != nil {
		return "", false, err
	}
	switch t.Kind {
	case token.VerbatimTag:
		p.consume()
		return p.in.String(t.Payload), true, nil
	case token.TagHandle:
		at := t.Start
		handle := p.in.String(t.Handle)
		p.consume()
		st, err := p.peek()
		if err != nil {
			return "", false, err
		}
		if st.Kind != token.TagSuffix {
			return "", false, p.errAt(yerr.SubBadNodeProperty, "expected a tag suffix after a tag handle", st.Start)
		}
		p.consume()
		resolved, err := p.resolveTag(handle, p.in.String(st.Payload), at)
		if err != nil {
			return "", false, err
		}
		return resolved, true, nil
	}
	return "", false, nil
}

// resolveTag combines a tag-handle with a %TAG directive into a full tag
// URI. Absent an override, the primary "!" resolves to itself, and the
// secondary "!!" resolves to the core schema's tag prefix.
func (p *Parser) resolveTag(handle, suffix string, at mark.Position) (string, error) {
	if handle == "" {
		return suffix, nil
	}
	for _, d := range p.tagDirectives {
		if d.Handle == handle {
			return d.Prefix + suffix, nil
		}
	}
	switch handle {
	case "!":
		return "!" + suffix, nil
	case "!!":
		return "tag:yaml.org,2002:" + suffix, nil
	}
	return "", p.errAt(yerr.SubUnknownTagHandle, "found undefined tag handle", at)
}

// parseAnnotation parses an "@name" construct: it pushes an
// annotation-start event, then an optional parenthesized, comma-separated
// parameter list parsed as flow nodes, closing with annotation-end.
func (p *Parser) parseAnnotation() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	name := p.in.String(t.Payload)
	start, end := t.Start, t.End
	p.consume()
	p.emit(annotationStartEvent(start, end, name))

	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == token.AnnotationParamsStart {
		p.consume()
		p.depth++
		if p.depth > p.maxDepth {
			return p.errAt(yerr.SubDepthExceeded, "exceeded maximum nesting depth", nt.Start)
		}
		for {
			pt, err := p.peek()
			if err != nil {
				return err
			}
			if pt.Kind == token.AnnotationParamsEnd {
				end = pt.End
				p.consume()
				break
			}
			if err := p.parseNode(); err != nil {
				return err
			}
			sep, err := p.peek()
			if err != nil {
				return err
			}
			if sep.Kind == token.FlowSeparator {
				p.consume()
			}
		}
		p.depth--
	}
	p.emit(annotationEndEvent(end))
	return nil
}
