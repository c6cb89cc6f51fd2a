package evyaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evyaml/evyaml"
	"github.com/evyaml/evyaml/event"
)

// collectEvents drains p until stream-end (inclusive) or an error.
func collectEvents(t *testing.T, p *evyaml.Parser) ([]event.Event, error) {
	t.Helper()
	var events []event.Event
	for {
		e, err := p.Next()
		if err != nil {
			return events, err
		}
		events = append(events, e)
		if e.Type == event.StreamEnd {
			return events, nil
		}
	}
}

func kinds(events []event.Event) []event.Type {
	out := make([]event.Type, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

// TestScenarios covers S1-S6 concrete scenarios.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []event.Type
	}{
		{
			name:  "S1 empty input",
			input: "",
			want:  []event.Type{event.StreamStart, event.StreamEnd},
		},
		{
			name:  "S2 bare scalar",
			input: "hello",
			want: []event.Type{
				event.StreamStart, event.DocumentStart, event.Scalar,
				event.DocumentEnd, event.StreamEnd,
			},
		},
		{
			name:  "S3 block mapping",
			input: "a: 1\nb: 2\n",
			want: []event.Type{
				event.StreamStart, event.DocumentStart, event.MappingStart,
				event.Scalar, event.Scalar, event.Scalar, event.Scalar,
				event.MappingEnd, event.DocumentEnd, event.StreamEnd,
			},
		},
		{
			name:  "S4 flow sequence",
			input: "[1, 2, 3]",
			want: []event.Type{
				event.StreamStart, event.DocumentStart, event.SequenceStart,
				event.Scalar, event.Scalar, event.Scalar,
				event.SequenceEnd, event.DocumentEnd, event.StreamEnd,
			},
		},
		{
			name:  "S5 anchor and alias",
			input: "- &a foo\n- *a\n",
			want: []event.Type{
				event.StreamStart, event.DocumentStart, event.SequenceStart,
				event.Scalar, event.Alias,
				event.SequenceEnd, event.DocumentEnd, event.StreamEnd,
			},
		},
		{
			name:  "S6 explicit document with literal block scalar",
			input: "--- !!str |-\n  line1\n  line2\n",
			want: []event.Type{
				event.StreamStart, event.DocumentStart, event.Scalar,
				event.DocumentEnd, event.StreamEnd,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := evyaml.New()
			p.SetInputBytes([]byte(tc.input))
			events, err := collectEvents(t, p)
			require.NoError(t, err)
			require.Equal(t, tc.want, kinds(events))
		})
	}
}

func TestS3MappingScalarValues(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("a: 1\nb: 2\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	var scalars []string
	for _, e := range events {
		if e.Type == event.Scalar {
			scalars = append(scalars, e.Value)
		}
	}
	require.Equal(t, []string{"a", "1", "b", "2"}, scalars)
}

func TestS5AnchorAliasLinkage(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("- &a foo\n- *a\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	var anchor, alias string
	for _, e := range events {
		switch e.Type {
		case event.Scalar:
			anchor = e.Properties.Anchor
		case event.Alias:
			alias = e.Target
		}
	}
	require.Equal(t, "a", anchor)
	require.Equal(t, "a", alias)
}

func TestS6TagAndExplicitMarkers(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("--- !!str |-\n  line1\n  line2\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	require.False(t, events[1].Implicit, "document-start should be explicit")
	scalar := events[2]
	require.Equal(t, "tag:yaml.org,2002:str", scalar.Properties.Tag)
	require.Equal(t, "line1\nline2", scalar.Value)
	require.Equal(t, event.LiteralStyle, scalar.Style)
	require.True(t, events[3].Implicit, "document-end should be implicit")
}

// TestS7IndentationRules covers both halves of scenario S7: a
// dedent that lands exactly on an open level is well-formed, but one that
// lands strictly between two open levels is a Parser_Error.
func TestS7IndentationRules(t *testing.T) {
	t.Run("dedent matching outer level is well-formed", func(t *testing.T) {
		p := evyaml.New()
		p.SetInputBytes([]byte("a:\n b: 1\nc: 2\n"))
		events, err := collectEvents(t, p)
		require.NoError(t, err)
		require.Equal(t, []event.Type{
			event.StreamStart, event.DocumentStart, event.MappingStart,
			event.Scalar, event.MappingStart, event.Scalar, event.Scalar,
			event.MappingEnd, event.Scalar, event.Scalar,
			event.MappingEnd, event.DocumentEnd, event.StreamEnd,
		}, kinds(events))
	})

	t.Run("dedent matching no open level is an error", func(t *testing.T) {
		p := evyaml.New()
		p.SetInputBytes([]byte("a:\n  b: 1\n d: 2\n"))
		_, err := collectEvents(t, p)
		require.Error(t, err)
		perr, ok := evyaml.AsParserError(err)
		require.True(t, ok, "expected a *ParserError, got %T", err)
		require.Equal(t, "indent-violation", string(perr.Sub))
	})
}

// TestIdempotentTermination covers universal property 2.
func TestIdempotentTermination(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("hello"))
	_, err := collectEvents(t, p)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		e, err := p.Next()
		require.NoError(t, err)
		require.Equal(t, event.StreamEnd, e.Type)
	}
}

// TestBalancedEvents covers universal property 1 across a mix of
// nested block and flow collections.
func TestBalancedEvents(t *testing.T) {
	input := `
top:
  seq:
    - a
    - [1, {x: 2}]
  flow: {a: 1, b: [2, 3]}
`
	p := evyaml.New()
	p.SetInputBytes([]byte(input))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	var depth int
	for _, e := range events {
		switch e.Type {
		case event.MappingStart, event.SequenceStart:
			depth++
		case event.MappingEnd, event.SequenceEnd:
			depth--
			require.GreaterOrEqual(t, depth, 0, "closed more collections than were opened")
		}
	}
	require.Equal(t, 0, depth, "every opened collection must close")
	require.Equal(t, event.StreamStart, events[0].Type)
	require.Equal(t, event.StreamEnd, events[len(events)-1].Type)
}

// TestMonotonicMarks covers universal property 3.
func TestMonotonicMarks(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("a: 1\nb:\n  - 2\n  - 3\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		require.LessOrEqual(t, prev.End.Index, cur.Start.Index,
			"event %d (%s) ends after event %d (%s) starts", i-1, prev.Type, i, cur.Type)
	}
}

// TestIndentlessSequence covers a block sequence whose entries sit at the
// same column as the mapping key they're the value of, rather than
// indented further, e.g. "items:\n- a\n- b\n".
func TestIndentlessSequence(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("items:\n- a\n- b\nnext: 1\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	require.Equal(t, []event.Type{
		event.StreamStart, event.DocumentStart, event.MappingStart,
		event.Scalar, event.SequenceStart, event.Scalar, event.Scalar, event.SequenceEnd,
		event.Scalar, event.Scalar,
		event.MappingEnd, event.DocumentEnd, event.StreamEnd,
	}, kinds(events))

	var scalars []string
	for _, e := range events {
		if e.Type == event.Scalar {
			scalars = append(scalars, e.Value)
		}
	}
	require.Equal(t, []string{"items", "a", "b", "next", "1"}, scalars)
}

func TestEmptyBlockMappingValue(t *testing.T) {
	p := evyaml.New()
	p.SetInputBytes([]byte("a:\nb: 2\n"))
	events, err := collectEvents(t, p)
	require.NoError(t, err)

	require.Equal(t, []event.Type{
		event.StreamStart, event.DocumentStart, event.MappingStart,
		event.Scalar, event.Scalar, event.Scalar, event.Scalar,
		event.MappingEnd, event.DocumentEnd, event.StreamEnd,
	}, kinds(events))
	require.Equal(t, "", events[4].Value, "missing mapping value is an empty scalar")
}

func TestDepthExceeded(t *testing.T) {
	input := ""
	for i := 0; i < 2000; i++ {
		input += "["
	}
	p := evyaml.New()
	p.SetInputBytes([]byte(input))
	_, err := collectEvents(t, p)
	require.Error(t, err)
	perr, ok := evyaml.AsParserError(err)
	require.True(t, ok, "expected a *ParserError, got %T", err)
	require.Equal(t, "depth-exceeded", string(perr.Sub))
}
