// Package token defines the closed set of lexer tokens.
package token

import (
	"github.com/evyaml/evyaml/internal/intern"
	"github.com/evyaml/evyaml/internal/mark"
)

// Kind is one member of the closed token-kind set.
type Kind int

const (
	StreamStart Kind = iota
	StreamEnd
	ByteOrderMark
	DirectivesEnd
	DocumentEnd
	Indentation // carries Number = the new line's indentation column
	BlockSequenceIndicator
	BlockMapKeyIndicator
	BlockMapValueIndicator
	FlowMapStart
	FlowMapEnd
	FlowSeqStart
	FlowSeqEnd
	FlowSeparator
	Anchor
	Alias
	TagHandle
	TagSuffix
	VerbatimTag
	PlainScalar
	SingleQuotedScalar
	DoubleQuotedScalar
	LiteralScalar
	FoldedScalar
	AnnotationStart
	AnnotationParamsStart
	AnnotationParamsEnd
	YAMLDirective
	TagDirective
	ReservedDirective
)

func (k Kind) String() string {
	switch k {
	case StreamStart:
		return "stream-start"
	case StreamEnd:
		return "stream-end"
	case ByteOrderMark:
		return "byte-order-mark"
	case DirectivesEnd:
		return "directives-end"
	case DocumentEnd:
		return "document-end"
	case Indentation:
		return "indentation"
	case BlockSequenceIndicator:
		return "block-sequence-indicator"
	case BlockMapKeyIndicator:
		return "block-map-key-indicator"
	case BlockMapValueIndicator:
		return "block-map-value-indicator"
	case FlowMapStart:
		return "flow-map-start"
	case FlowMapEnd:
		return "flow-map-end"
	case FlowSeqStart:
		return "flow-seq-start"
	case FlowSeqEnd:
		return "flow-seq-end"
	case FlowSeparator:
		return "flow-separator"
	case Anchor:
		return "anchor"
	case Alias:
		return "alias"
	case TagHandle:
		return "tag-handle"
	case TagSuffix:
		return "tag-suffix"
	case VerbatimTag:
		return "verbatim-tag"
	case PlainScalar:
		return "plain-scalar"
	case SingleQuotedScalar:
		return "single-quoted-scalar"
	case DoubleQuotedScalar:
		return "double-quoted-scalar"
	case LiteralScalar:
		return "literal-scalar"
	case FoldedScalar:
		return "folded-scalar"
	case AnnotationStart:
		return "annotation-start"
	case AnnotationParamsStart:
		return "annotation-params-start"
	case AnnotationParamsEnd:
		return "annotation-params-end"
	case YAMLDirective:
		return "yaml-directive"
	case TagDirective:
		return "tag-directive"
	case ReservedDirective:
		return "reserved-directive"
	}
	return "<unknown token>"
}

// Token is a tagged record: one lexical unit of the token stream.
type Token struct {
	Kind     Kind
	Start    mark.Position
	End      mark.Position
	Payload  intern.Ref // scalar/anchor/alias/tag-suffix content
	Handle   intern.Ref // tag-handle text, for TagHandle tokens
	Number   int        // Indentation column, or a block scalar's content indentation column
	Major    int        // YAMLDirective major version
	Minor    int        // YAMLDirective minor version
	Multiline bool      // true if a plain/quoted scalar spanned more than one source line

	// Token has no separate style field: a scalar's style is derived from
	// Kind (see scalarStyleFor in the root package).
}
