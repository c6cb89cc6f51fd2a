// Package evyaml implements a streaming, pull-based parser for a YAML
// 1.3-draft event model: a single-threaded pipeline of source adaptor ->
// lexer -> parser, where the consumer pulls one event at a time from
// Parser.Next and nothing is buffered beyond what one node's worth of
// lookahead requires.
//
// Construct a Parser with New, point it at input with SetInputBytes or
// SetInputFile, and call Next until it returns a StreamEnd event or an
// error. Errors are *LexerError or *ParserError; AsLexerError and
// AsParserError recover the concrete kind.
package evyaml
