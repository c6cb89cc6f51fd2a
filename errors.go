package evyaml

import "github.com/evyaml/evyaml/internal/yerr"

// LexerError and ParserError are the two error kinds visible at evyaml's
// external interface: a message, the offending character's mark, and the
// start/end marks of the most recently completed token. Both are aliases
// over the same internal representation, so they share one set of
// accessors and a type switch cannot tell them apart; the Kind field
// records which stage failed (see AsLexerError and AsParserError).
type (
	LexerError  = yerr.Error
	ParserError = yerr.Error
)

// AsLexerError reports whether err originated in the lexer, returning it
// as a *LexerError if so.
func AsLexerError(err error) (*LexerError, bool) {
	e, ok := err.(*yerr.Error)
	if !ok || e.Kind != yerr.KindLexer {
		return nil, false
	}
	return e, true
}

// AsParserError reports whether err originated in the parser, returning it
// as a *ParserError if so.
func AsParserError(err error) (*ParserError, bool) {
	e, ok := err.(*yerr.Error)
	if !ok || e.Kind != yerr.KindParser {
		return nil, false
	}
	return e, true
}
