// Command evyamlcat drives a Parser over a file or stdin and prints its
// event stream, one event per line. Grounded on the event/token dump modes
// of _examples/yaml-go-yaml/cmd/go-yaml/main.go, rebuilt around cobra
// (_examples/WillAbides-yaml's dependency on nothing comparable, hence
// adopting cobra from the rest of the retrieval pack) instead of the
// stdlib flag package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evyaml/evyaml"
	"github.com/evyaml/evyaml/event"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var maxDepth int
	var encodingFlag string

	cmd := &cobra.Command{
		Use:   "evyamlcat [file]",
		Short: "Print the event stream a YAML document parses into",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := parseEncoding(encodingFlag)
			if err != nil {
				return fmt.Errorf("evyamlcat: %w", err)
			}

			p := evyaml.New()
			p.SetMaxDepth(maxDepth)
			if len(args) == 1 {
				if err := p.SetInputFileEncoding(args[0], enc); err != nil {
					return fmt.Errorf("evyamlcat: %w", err)
				}
			} else {
				input, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("evyamlcat: reading stdin: %w", err)
				}
				p.SetInputBytesEncoding(input, enc)
			}
			return dumpEvents(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", evyaml.DefaultMaxDepth, "maximum block/flow nesting depth before a parse error")
	cmd.Flags().StringVar(&encodingFlag, "encoding", "auto", "stream encoding: auto, utf-8, utf-16le, utf-16be, utf-32le, utf-32be")

	return cmd
}

func parseEncoding(s string) (evyaml.Encoding, error) {
	switch s {
	case "auto", "":
		return evyaml.AnyEncoding, nil
	case "utf-8":
		return evyaml.UTF8, nil
	case "utf-16le":
		return evyaml.UTF16LE, nil
	case "utf-16be":
		return evyaml.UTF16BE, nil
	case "utf-32le":
		return evyaml.UTF32LE, nil
	case "utf-32be":
		return evyaml.UTF32BE, nil
	default:
		return 0, fmt.Errorf("unknown --encoding %q", s)
	}
}

func dumpEvents(w io.Writer, p *evyaml.Parser) error {
	for {
		e, err := p.Next()
		if err != nil {
			return fmt.Errorf("evyamlcat: %w", err)
		}
		fmt.Fprintln(w, formatEvent(e))
		if e.Type == event.StreamEnd {
			return nil
		}
	}
}

func formatEvent(e event.Event) string {
	switch e.Type {
	case event.Scalar:
		return fmt.Sprintf("=VAL %s%s", scalarPrefix(e), e.Value)
	case event.Alias:
		return fmt.Sprintf("=ALI *%s", e.Target)
	case event.SequenceStart:
		return fmt.Sprintf("+SEQ%s%s", collectionSuffix(e), propsSuffix(e.Properties))
	case event.SequenceEnd:
		return "-SEQ"
	case event.MappingStart:
		return fmt.Sprintf("+MAP%s%s", collectionSuffix(e), propsSuffix(e.Properties))
	case event.MappingEnd:
		return "-MAP"
	case event.AnnotationStart:
		return fmt.Sprintf("+ANN @%s", e.Name)
	case event.AnnotationEnd:
		return "-ANN"
	case event.DocumentStart:
		if e.Implicit {
			return "+DOC"
		}
		return "+DOC ---"
	case event.DocumentEnd:
		if e.Implicit {
			return "-DOC"
		}
		return "-DOC ..."
	case event.StreamStart:
		return "+STR"
	case event.StreamEnd:
		return "-STR"
	default:
		return e.Type.String()
	}
}

func scalarPrefix(e event.Event) string {
	switch e.Style {
	case event.SingleQuotedStyle:
		return "'"
	case event.DoubleQuotedStyle:
		return "\""
	case event.LiteralStyle:
		return "|"
	case event.FoldedStyle:
		return ">"
	default:
		return ":"
	}
}

func collectionSuffix(e event.Event) string {
	if e.Collection == event.FlowStyle {
		return " {}"
	}
	return ""
}

func propsSuffix(p event.Properties) string {
	s := ""
	if p.Anchor != "" {
		s += " &" + p.Anchor
	}
	if p.Tag != "" {
		s += " <" + p.Tag + ">"
	}
	return s
}
