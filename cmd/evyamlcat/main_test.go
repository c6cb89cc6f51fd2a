package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evyaml/evyaml"
)

func TestParseEncoding(t *testing.T) {
	cases := []struct {
		in   string
		want evyaml.Encoding
	}{
		{"", evyaml.AnyEncoding},
		{"auto", evyaml.AnyEncoding},
		{"utf-8", evyaml.UTF8},
		{"utf-16le", evyaml.UTF16LE},
		{"utf-16be", evyaml.UTF16BE},
		{"utf-32le", evyaml.UTF32LE},
		{"utf-32be", evyaml.UTF32BE},
	}
	for _, tc := range cases {
		got, err := parseEncoding(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := parseEncoding("latin-1")
	require.Error(t, err)
}

func TestRootCmdMaxDepthFlag(t *testing.T) {
	cmd := newRootCmd()
	input := bytes.Repeat([]byte("["), 2000)

	cmd.SetArgs([]string{"--max-depth", "8"})
	cmd.SetIn(bytes.NewReader(input))
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.Execute(), "max-depth should be enforced when overridden below the input's nesting")
}

func TestRootCmdDumpsEvents(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer

	cmd.SetArgs(nil)
	cmd.SetIn(bytes.NewReader([]byte("a: 1\n")))
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "+MAP")
	require.Contains(t, out.String(), "-MAP")
}
