package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evyaml/evyaml/internal/intern"
	"github.com/evyaml/evyaml/internal/lexer"
	"github.com/evyaml/evyaml/internal/source"
	"github.com/evyaml/evyaml/internal/token"
)

func newLexer(t *testing.T, input string) (*lexer.Lexer, *intern.Interner) {
	t.Helper()
	in := intern.New()
	dec := source.NewDecoder(source.NewBytes([]byte(input)), source.AnyEncoding)
	return lexer.New(dec, in), in
}

func allTokens(t *testing.T, lx *lexer.Lexer) []token.Token {
	t.Helper()
	return allTokensIn(t, lx, lexer.Regime{})
}

// allTokensIn drains lx under a fixed regime, e.g. the one the parser uses
// inside a block collection.
func allTokensIn(t *testing.T, lx *lexer.Lexer, regime lexer.Regime) []token.Token {
	t.Helper()
	var toks []token.Token
	for {
		tok, err := lx.Next(regime)
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.StreamEnd {
			return toks
		}
	}
}

func tokenKinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestStreamStartAndEnd(t *testing.T) {
	lx, _ := newLexer(t, "")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{token.StreamStart, token.StreamEnd}, tokenKinds(toks))
}

// TestPlainScalar covers the no-trailing-newline case: the very first
// token of a stream is never preceded by an indentation(N) token, since
// none is emitted until a line break is actually crossed.
func TestPlainScalar(t *testing.T) {
	lx, in := newLexer(t, "hello")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{token.StreamStart, token.PlainScalar, token.StreamEnd}, tokenKinds(toks))
	require.Equal(t, "hello", in.String(toks[1].Payload))
}

// TestBlockSequenceIndicators scans under the regime a parser uses inside
// a sequence opened at column 1 (MinIndent 2); with MinIndent 0 the
// second line would continue the plain scalar as "a - b".
func TestBlockSequenceIndicators(t *testing.T) {
	lx, in := newLexer(t, "- a\n- b")
	toks := allTokensIn(t, lx, lexer.Regime{MinIndent: 2})
	require.Equal(t, []token.Kind{
		token.StreamStart,
		token.BlockSequenceIndicator, token.PlainScalar,
		token.Indentation, token.BlockSequenceIndicator, token.PlainScalar,
		token.StreamEnd,
	}, tokenKinds(toks))
	require.Equal(t, "a", in.String(toks[2].Payload))
	require.Equal(t, "b", in.String(toks[5].Payload))
	require.Equal(t, 1, toks[3].Number, "indentation token reports the new line's column")
}

func TestFlowCollectionIndicators(t *testing.T) {
	lx, _ := newLexer(t, "[1, 2]")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{
		token.StreamStart,
		token.FlowSeqStart, token.PlainScalar, token.FlowSeparator, token.PlainScalar, token.FlowSeqEnd,
		token.StreamEnd,
	}, tokenKinds(toks))
}

func TestAnchorAliasTokens(t *testing.T) {
	// "x *a" alone would be one plain scalar; ": " ends the scalar first.
	lx, in := newLexer(t, "&a x: *a")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{
		token.StreamStart,
		token.Anchor, token.PlainScalar, token.BlockMapValueIndicator, token.Alias,
		token.StreamEnd,
	}, tokenKinds(toks))
	require.Equal(t, "a", in.String(toks[1].Payload))
	require.Equal(t, "a", in.String(toks[4].Payload))
}

func TestTagHandleAndSuffix(t *testing.T) {
	lx, in := newLexer(t, "!!str hi")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{
		token.StreamStart,
		token.TagHandle, token.TagSuffix, token.PlainScalar,
		token.StreamEnd,
	}, tokenKinds(toks))
	require.Equal(t, "!!", in.String(toks[1].Handle))
	require.Equal(t, "str", in.String(toks[2].Payload))
}

func TestYAMLDirective(t *testing.T) {
	lx, _ := newLexer(t, "%YAML 1.1\n---\n")
	toks := allTokens(t, lx)
	require.Equal(t, []token.Kind{
		token.StreamStart, token.YAMLDirective,
		token.Indentation, token.DirectivesEnd,
		token.Indentation, token.StreamEnd,
	}, tokenKinds(toks))
	require.Equal(t, 1, toks[1].Major)
	require.Equal(t, 1, toks[1].Minor)
}

func TestFlowLevelTracksNesting(t *testing.T) {
	lx, _ := newLexer(t, "[[1]]")
	require.Equal(t, 0, lx.FlowLevel())

	_, err := lx.Next(lexer.Regime{}) // stream-start
	require.NoError(t, err)
	require.Equal(t, 0, lx.FlowLevel())

	_, err = lx.Next(lexer.Regime{}) // outer [
	require.NoError(t, err)
	require.Equal(t, 1, lx.FlowLevel())

	_, err = lx.Next(lexer.Regime{}) // inner [
	require.NoError(t, err)
	require.Equal(t, 2, lx.FlowLevel())
}

func TestUnterminatedQuotedScalarIsLexerError(t *testing.T) {
	lx, _ := newLexer(t, `"unterminated`)
	var lastErr error
	for {
		tok, err := lx.Next(lexer.Regime{})
		if err != nil {
			lastErr = err
			break
		}
		if tok.Kind == token.StreamEnd {
			break
		}
	}
	require.Error(t, lastErr)
}
