// Package event defines the pull-parser's output model: a closed stream
// of events describing a YAML document without ever building a tree for
// it. The structure is reworked from a document-tree emitter's yamlh.Event
// (wide enough to cover presentation and resolved-scalar concerns) into a
// narrower event set, extended with annotation-start/annotation-end for
// the YAML 1.3-draft's annotation construct.
package event

import "github.com/evyaml/evyaml/internal/mark"

// Type is one member of the closed event-kind set a Parser produces.
type Type int

const (
	StreamStart Type = iota
	StreamEnd
	DocumentStart
	DocumentEnd
	Alias
	Scalar
	SequenceStart
	SequenceEnd
	MappingStart
	MappingEnd
	AnnotationStart
	AnnotationEnd
)

func (t Type) String() string {
	switch t {
	case StreamStart:
		return "stream-start"
	case StreamEnd:
		return "stream-end"
	case DocumentStart:
		return "document-start"
	case DocumentEnd:
		return "document-end"
	case Alias:
		return "alias"
	case Scalar:
		return "scalar"
	case SequenceStart:
		return "sequence-start"
	case SequenceEnd:
		return "sequence-end"
	case MappingStart:
		return "mapping-start"
	case MappingEnd:
		return "mapping-end"
	case AnnotationStart:
		return "annotation-start"
	case AnnotationEnd:
		return "annotation-end"
	}
	return "unknown event"
}

// ScalarStyle records which lexical form produced a scalar event.
type ScalarStyle int

const (
	PlainStyle ScalarStyle = iota
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

// CollectionStyle distinguishes block from flow collections.
type CollectionStyle int

const (
	BlockStyle CollectionStyle = iota
	FlowStyle
)

// Properties carries the optional anchor/tag pair any node may declare.
type Properties struct {
	Anchor string // empty if none
	Tag    string // empty if not explicitly tagged; resolved to its full URI form
}

// VersionDirective is the %YAML major.minor seen before a document, if any.
type VersionDirective struct {
	Major, Minor int
}

// TagDirective is one %TAG handle/prefix pair declared before a document.
type TagDirective struct {
	Handle, Prefix string
}

// Event is a single item of the parser's output stream.
type Event struct {
	Type Type

	Start, End mark.Position

	// DocumentStart / DocumentEnd
	Version       *VersionDirective
	TagDirectives []TagDirective
	Implicit      bool // true when the document has no explicit "---"/"..." marker

	// Scalar / SequenceStart / MappingStart / Alias
	Properties Properties

	// Scalar
	Value string
	Style ScalarStyle

	// SequenceStart / MappingStart
	Collection CollectionStyle

	// Alias
	Target string

	// AnnotationStart
	Name string
}
