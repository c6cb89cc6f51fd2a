// Package yerr implements the two error kinds visible at evyaml's external
// interface: LexerError and ParserError. Both carry a message, the
// offending character's mark, and the start/end marks of the most
// recently completed token, matching the buildParserError message
// convention of _examples/WillAbides-yaml/internal/parserc/parserc.go
// while exposing structured accessors the way
// _examples/elioetibr-golang-yaml/v0/pkg/errors/errors.go does.
package yerr

import (
	"fmt"

	"github.com/evyaml/evyaml/internal/mark"
)

// Kind distinguishes lexer-side from parser-side failures.
type Kind int

const (
	KindLexer Kind = iota
	KindParser
)

func (k Kind) String() string {
	if k == KindParser {
		return "parser"
	}
	return "lexer"
}

// SubKind tags the specific failure within a Kind, drawn from a closed set
// per Kind.
type SubKind string

const (
	// Lexer sub-kinds.
	SubInvalidUTF8          SubKind = "invalid-utf8"
	SubUnterminatedScalar   SubKind = "unterminated-scalar"
	SubUnknownEscape        SubKind = "unknown-escape"
	SubTabInIndent          SubKind = "tab-in-indent"
	SubUnsupportedVersion   SubKind = "unsupported-version"
	SubUnknownTagHandle     SubKind = "unknown-tag-handle"
	SubInvalidTagURI        SubKind = "invalid-tag-uri"
	SubInvalidDirective     SubKind = "invalid-directive"
	SubReadError            SubKind = "read-error"
	SubEmptyName            SubKind = "empty-name"

	// Parser sub-kinds.
	SubUnexpectedToken  SubKind = "unexpected-token"
	SubDuplicateAnchor  SubKind = "duplicate-anchor"
	SubMissingKey       SubKind = "missing-key"
	SubIndentViolation  SubKind = "indent-violation"
	SubDepthExceeded    SubKind = "depth-exceeded"
	SubDocInOpenCollect SubKind = "document-start-inside-open-collection"
	SubBadNodeProperty  SubKind = "bad-node-property"
)

// Error is the shared representation behind both LexerError and
// ParserError.
type Error struct {
	Kind        Kind
	Sub         SubKind
	Problem     string
	At          mark.Position
	RecentStart mark.Position
	RecentEnd   mark.Position
}

func (e *Error) Error() string {
	problem := e.Problem
	if problem == "" {
		problem = "unknown problem parsing YAML content"
	}
	return fmt.Sprintf("evyaml: %s error at line %d, column %d: %s", e.Kind, e.At.Line, e.At.Column, problem)
}

// Mark returns the offending character's position.
func (e *Error) Mark() mark.Position { return e.At }

// RecentToken returns the start/end marks of the most recently completed
// token, for precise diagnostics alongside At.
func (e *Error) RecentToken() (start, end mark.Position) {
	return e.RecentStart, e.RecentEnd
}

// New builds an Error. recentStart/recentEnd may be the zero Position if
// no token had been completed yet (e.g. a read error before the first
// token).
func New(kind Kind, sub SubKind, problem string, at, recentStart, recentEnd mark.Position) *Error {
	return &Error{
		Kind:        kind,
		Sub:         sub,
		Problem:     problem,
		At:          at,
		RecentStart: recentStart,
		RecentEnd:   recentEnd,
	}
}

// Lexer builds a lexer-kind Error.
func Lexer(sub SubKind, problem string, at, recentStart, recentEnd mark.Position) *Error {
	return New(KindLexer, sub, problem, at, recentStart, recentEnd)
}

// Parser builds a parser-kind Error.
func Parser(sub SubKind, problem string, at, recentStart, recentEnd mark.Position) *Error {
	return New(KindParser, sub, problem, at, recentStart, recentEnd)
}
