// Package source implements the source adapter: a byte-buffered cursor
// with encoding auto-detection and transcoding to UTF-8, built on the
// raw-buffer/decode-loop technique of yaml_parser_determine_encoding and
// yaml_parser_update_buffer (_examples/WillAbides-yaml/internal/parserc/
// readerc.go) and extended to detect UTF-32 per the null-byte pattern in
// YAML's encoding-detection rules.
package source

import (
	"io"
	"os"

	"github.com/evyaml/evyaml/internal/mark"
	"github.com/evyaml/evyaml/internal/yerr"
)

// Encoding is the detected or forced stream encoding.
type Encoding int

const (
	AnyEncoding Encoding = iota
	UTF8
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

// Raw is the minimal byte-supply contract: fill buf and report EOF.
type Raw interface {
	Fill(buf []byte) (n int, eof bool, err error)
}

// NewFile opens path and returns a Raw source that streams and closes it.
func NewFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f}, nil
}

// FileSource streams a file path.
type FileSource struct {
	f *os.File
}

func (fs *FileSource) Fill(buf []byte) (int, bool, error) {
	n, err := fs.f.Read(buf)
	if err == io.EOF {
		fs.f.Close()
		return n, true, nil
	}
	if err != nil {
		return n, false, err
	}
	return n, false, nil
}

// Close releases the underlying file handle.
func (fs *FileSource) Close() error {
	return fs.f.Close()
}

// NewBytes wraps an in-memory byte slice as a Raw source.
func NewBytes(b []byte) *BytesSource {
	return &BytesSource{b: b}
}

// BytesSource streams an in-memory byte sequence.
type BytesSource struct {
	b   []byte
	pos int
}

func (bs *BytesSource) Fill(buf []byte) (int, bool, error) {
	n := copy(buf, bs.b[bs.pos:])
	bs.pos += n
	return n, bs.pos >= len(bs.b), nil
}

const (
	rawBufferSize = 4096
	// decodeBufferSize must be large enough to hold the worst-case
	// expansion of rawBufferSize bytes of input into UTF-8 plus a
	// trailing NUL sentinel.
	decodeBufferSize = rawBufferSize*3 + 1
)

// Decoder wraps a Raw byte source, auto-detects its encoding, and exposes
// a rolling buffer of already-transcoded UTF-8 with at least four bytes of
// lookahead (the maximum UTF-8 sequence length).
type Decoder struct {
	raw Raw

	rawBuf []byte
	rawPos int
	eof    bool

	buf    []byte
	bufPos int
	unread int

	encoding Encoding
}

// NewDecoder returns a Decoder over raw. enc may be AnyEncoding to request
// auto-detection from a BOM or null-byte pattern.
func NewDecoder(raw Raw, enc Encoding) *Decoder {
	return &Decoder{
		raw:      raw,
		rawBuf:   make([]byte, 0, rawBufferSize),
		buf:      make([]byte, 0, decodeBufferSize),
		encoding: enc,
	}
}

// Encoding returns the (possibly auto-detected) stream encoding. It is
// only meaningful after the first call to Ensure.
func (d *Decoder) Encoding() Encoding { return d.encoding }

// Peek returns the currently buffered decoded bytes starting at the
// current position, without consuming them.
func (d *Decoder) Peek() []byte {
	return d.buf[d.bufPos:]
}

// Advance consumes n decoded bytes.
func (d *Decoder) Advance(n int) {
	d.bufPos += n
	d.unread -= n
}

// Unread reports how many decoded bytes are currently available without a
// further fill.
func (d *Decoder) Unread() int { return d.unread }

// AtEOF reports whether decoding has reached the end of input and no
// further decoded bytes remain buffered.
func (d *Decoder) AtEOF() bool {
	return d.eof && d.unread == 0
}

// Ensure guarantees that at least length decoded bytes (or fewer, at EOF)
// are available starting at the current position.
func (d *Decoder) Ensure(length int) error {
	if d.unread >= length {
		return nil
	}
	if d.encoding == AnyEncoding {
		if err := d.determineEncoding(); err != nil {
			return err
		}
	}
	return d.fill(length)
}

func (d *Decoder) updateRaw() error {
	if d.rawPos == 0 && len(d.rawBuf) == cap(d.rawBuf) {
		return nil
	}
	if d.eof {
		return nil
	}
	if d.rawPos > 0 && d.rawPos < len(d.rawBuf) {
		copy(d.rawBuf, d.rawBuf[d.rawPos:])
	}
	d.rawBuf = d.rawBuf[:len(d.rawBuf)-d.rawPos]
	d.rawPos = 0

	n, eof, err := d.raw.Fill(d.rawBuf[len(d.rawBuf):cap(d.rawBuf)])
	if err != nil {
		return yerr.Lexer(yerr.SubReadError, "input error: "+err.Error(), mark.Position{}, mark.Position{}, mark.Position{})
	}
	if eof {
		d.eof = true
	}
	d.rawBuf = d.rawBuf[:len(d.rawBuf)+n]
	return nil
}

func (d *Decoder) determineEncoding() error {
	for !d.eof && len(d.rawBuf)-d.rawPos < 4 {
		if err := d.updateRaw(); err != nil {
			return err
		}
		if d.rawPos == 0 && len(d.rawBuf) == cap(d.rawBuf) {
			break
		}
	}
	buf := d.rawBuf
	pos := d.rawPos
	avail := len(buf) - pos

	switch {
	case avail >= 4 && buf[pos] == 0xFF && buf[pos+1] == 0xFE && buf[pos+2] == 0 && buf[pos+3] == 0:
		d.encoding = UTF32LE
		d.rawPos += 4
	case avail >= 4 && buf[pos] == 0 && buf[pos+1] == 0 && buf[pos+2] == 0xFE && buf[pos+3] == 0xFF:
		d.encoding = UTF32BE
		d.rawPos += 4
	case avail >= 2 && buf[pos] == 0xFF && buf[pos+1] == 0xFE:
		d.encoding = UTF16LE
		d.rawPos += 2
	case avail >= 2 && buf[pos] == 0xFE && buf[pos+1] == 0xFF:
		d.encoding = UTF16BE
		d.rawPos += 2
	case avail >= 3 && buf[pos] == 0xEF && buf[pos+1] == 0xBB && buf[pos+2] == 0xBF:
		// Unlike the UTF-16/32 cases, a UTF-8 BOM survives into the decoded
		// buffer as the three-byte encoding of U+FEFF: the lexer recognizes
		// it there and emits a byte-order-mark token instead of the
		// encoding layer discarding it silently.
		d.encoding = UTF8
	case avail >= 4 && buf[pos] == 0 && buf[pos+1] == 0 && buf[pos+2] == 0 && buf[pos+3] != 0:
		d.encoding = UTF32BE
	case avail >= 4 && buf[pos] != 0 && buf[pos+1] == 0 && buf[pos+2] == 0 && buf[pos+3] == 0:
		d.encoding = UTF32LE
	case avail >= 2 && buf[pos] == 0 && buf[pos+1] != 0:
		d.encoding = UTF16BE
	case avail >= 2 && buf[pos] != 0 && buf[pos+1] == 0:
		d.encoding = UTF16LE
	default:
		d.encoding = UTF8
	}
	return nil
}

// fill decodes raw bytes into UTF-8 until at least length decoded bytes
// are buffered (or EOF is hit), mirroring yaml_parser_update_buffer.
func (d *Decoder) fill(length int) error {
	bufLen := len(d.buf)
	if d.bufPos > 0 && d.bufPos < bufLen {
		copy(d.buf, d.buf[d.bufPos:])
		bufLen -= d.bufPos
		d.bufPos = 0
	} else if d.bufPos == bufLen {
		bufLen = 0
		d.bufPos = 0
	}
	d.buf = d.buf[:cap(d.buf)]

	first := true
	for d.unread < length {
		if !first || d.rawPos == len(d.rawBuf) {
			if err := d.updateRaw(); err != nil {
				d.buf = d.buf[:bufLen]
				return err
			}
		}
		first = false

		for d.rawPos != len(d.rawBuf) {
			value, width, ok, err := d.decodeOne()
			if err != nil {
				d.buf = d.buf[:bufLen]
				return err
			}
			if !ok {
				break // incomplete sequence at raw-buffer tail; need more bytes
			}
			d.rawPos += width

			n := encodeUTF8(d.buf[bufLen:], value)
			bufLen += n
			d.unread += n
		}

		if d.eof {
			if bufLen < len(d.buf) {
				d.buf[bufLen] = 0
			}
			break
		}
	}
	d.buf = d.buf[:bufLen]
	return nil
}

func (d *Decoder) decodeOne() (value rune, width int, ok bool, err error) {
	buf := d.rawBuf
	pos := d.rawPos
	rawUnread := len(buf) - pos

	switch d.encoding {
	case UTF8:
		octet := buf[pos]
		switch {
		case octet&0x80 == 0x00:
			width = 1
		case octet&0xE0 == 0xC0:
			width = 2
		case octet&0xF0 == 0xE0:
			width = 3
		case octet&0xF8 == 0xF0:
			width = 4
		default:
			return 0, 0, false, d.err(yerr.SubInvalidUTF8, "invalid leading UTF-8 octet")
		}
		if width > rawUnread {
			if d.eof {
				return 0, 0, false, d.err(yerr.SubInvalidUTF8, "incomplete UTF-8 octet sequence")
			}
			return 0, 0, false, nil
		}
		switch width {
		case 1:
			value = rune(octet & 0x7F)
		case 2:
			value = rune(octet & 0x1F)
		case 3:
			value = rune(octet & 0x0F)
		case 4:
			value = rune(octet & 0x07)
		}
		for k := 1; k < width; k++ {
			octet = buf[pos+k]
			if octet&0xC0 != 0x80 {
				return 0, 0, false, d.err(yerr.SubInvalidUTF8, "invalid trailing UTF-8 octet")
			}
			value = (value << 6) + rune(octet&0x3F)
		}
		if value >= 0xD800 && value <= 0xDFFF {
			return 0, 0, false, d.err(yerr.SubInvalidUTF8, "invalid Unicode character")
		}
	case UTF16LE, UTF16BE:
		low, high := 0, 1
		if d.encoding == UTF16BE {
			low, high = 1, 0
		}
		if rawUnread < 2 {
			if d.eof {
				return 0, 0, false, d.err(yerr.SubInvalidUTF8, "incomplete UTF-16 character")
			}
			return 0, 0, false, nil
		}
		value = rune(buf[pos+low]) + rune(buf[pos+high])<<8
		if value&0xFC00 == 0xDC00 {
			return 0, 0, false, d.err(yerr.SubInvalidUTF8, "unexpected low surrogate area")
		}
		if value&0xFC00 == 0xD800 {
			width = 4
			if rawUnread < 4 {
				if d.eof {
					return 0, 0, false, d.err(yerr.SubInvalidUTF8, "incomplete UTF-16 surrogate pair")
				}
				return 0, 0, false, nil
			}
			value2 := rune(buf[pos+low+2]) + rune(buf[pos+high+2])<<8
			if value2&0xFC00 != 0xDC00 {
				return 0, 0, false, d.err(yerr.SubInvalidUTF8, "expected low surrogate area")
			}
			value = 0x10000 + ((value & 0x3FF) << 10) + (value2 & 0x3FF)
		} else {
			width = 2
		}
	case UTF32LE, UTF32BE:
		if rawUnread < 4 {
			if d.eof {
				return 0, 0, false, d.err(yerr.SubInvalidUTF8, "incomplete UTF-32 character")
			}
			return 0, 0, false, nil
		}
		width = 4
		if d.encoding == UTF32LE {
			value = rune(buf[pos]) | rune(buf[pos+1])<<8 | rune(buf[pos+2])<<16 | rune(buf[pos+3])<<24
		} else {
			value = rune(buf[pos+3]) | rune(buf[pos+2])<<8 | rune(buf[pos+1])<<16 | rune(buf[pos])<<24
		}
		if value > 0x10FFFF {
			return 0, 0, false, d.err(yerr.SubInvalidUTF8, "invalid Unicode character")
		}
	}
	return value, width, true, nil
}

func (d *Decoder) err(sub yerr.SubKind, msg string) error {
	return yerr.Lexer(sub, msg, mark.Position{}, mark.Position{}, mark.Position{})
}

func encodeUTF8(dst []byte, value rune) int {
	switch {
	case value <= 0x7F:
		dst[0] = byte(value)
		return 1
	case value <= 0x7FF:
		dst[0] = byte(0xC0 + (value >> 6))
		dst[1] = byte(0x80 + (value & 0x3F))
		return 2
	case value <= 0xFFFF:
		dst[0] = byte(0xE0 + (value >> 12))
		dst[1] = byte(0x80 + ((value >> 6) & 0x3F))
		dst[2] = byte(0x80 + (value & 0x3F))
		return 3
	default:
		dst[0] = byte(0xF0 + (value >> 18))
		dst[1] = byte(0x80 + ((value >> 12) & 0x3F))
		dst[2] = byte(0x80 + ((value >> 6) & 0x3F))
		dst[3] = byte(0x80 + (value & 0x3F))
		return 4
	}
}
