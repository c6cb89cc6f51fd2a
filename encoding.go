package evyaml

import "github.com/evyaml/evyaml/internal/source"

// Encoding names a stream's byte encoding, for callers that need to force
// one rather than rely on auto-detection (e.g. a CLI --encoding flag).
type Encoding = source.Encoding

// AnyEncoding requests auto-detection from a byte-order mark or, absent
// one, from YAML's null-byte encoding heuristic. The remaining constants
// force a specific encoding, bypassing detection entirely.
const (
	AnyEncoding = source.AnyEncoding
	UTF8        = source.UTF8
	UTF16LE     = source.UTF16LE
	UTF16BE     = source.UTF16BE
	UTF32LE     = source.UTF32LE
	UTF32BE     = source.UTF32BE
)
