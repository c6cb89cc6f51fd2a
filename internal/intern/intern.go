// Package intern implements a text interner: a string arena producing
// immutable, reference-counted byte handles with content equality,
// organized as a small number of geometrically growing chunks (a
// generational arena with handles). No repo in the retrieved corpus
// implements a comparable interner (the YAML ports in the pack hold raw
// []byte token values, relying on Go's GC instead), so this package is
// built on the standard library only; see DESIGN.md for that
// justification.
//
// Not safe for concurrent use: one Interner is owned by one parser.
package intern

const (
	firstChunkSize = 4096
	maxChunks      = 1024
)

// Ref is a handle to an interned string: a chunk index, byte offset and
// length within that chunk, plus a generation counter that invalidates
// stale handles if the interner is ever reset.
type Ref struct {
	chunk      int32
	off        int32
	length     int32
	generation int32
}

// Empty reports whether the ref denotes the zero-length string without
// pointing at any chunk.
func (r Ref) Empty() bool { return r.length == 0 && r.chunk < 0 }

type chunk struct {
	buf     []byte
	strings int // live (retained) strings allocated from this chunk
}

// Interner is an arena of byte chunks holding interned strings.
type Interner struct {
	chunks     []*chunk
	generation int32
	refcounts  map[Ref]int32
	empty      Ref
}

// New returns a ready-to-use Interner.
func New() *Interner {
	in := &Interner{
		refcounts: make(map[Ref]int32),
	}
	in.empty = Ref{chunk: -1, length: 0, generation: in.generation}
	return in
}

// Empty returns the shared empty-string constant.
func (in *Interner) Empty() Ref {
	return in.empty
}

// FromBytes copies b into the arena and returns a handle with refcount 1.
// The caller may freely mutate or free b afterward.
func (in *Interner) FromBytes(b []byte) Ref {
	if len(b) == 0 {
		return in.empty
	}
	c, ci := in.writableChunk(len(b))
	off := len(c.buf)
	c.buf = append(c.buf, b...)
	c.strings++
	ref := Ref{chunk: int32(ci), off: int32(off), length: int32(len(b)), generation: in.generation}
	in.refcounts[ref] = 1
	return ref
}

// FromString is a convenience wrapper around FromBytes.
func (in *Interner) FromString(s string) Ref {
	return in.FromBytes([]byte(s))
}

func (in *Interner) writableChunk(need int) (*chunk, int) {
	if len(in.chunks) > 0 {
		last := in.chunks[len(in.chunks)-1]
		if cap(last.buf)-len(last.buf) >= need {
			return last, len(in.chunks) - 1
		}
	}
	size := firstChunkSize
	if len(in.chunks) > 0 {
		size = cap(in.chunks[len(in.chunks)-1].buf) * 2
	}
	for size < need {
		size *= 2
	}
	if len(in.chunks) >= maxChunks {
		// Past maxChunks, stop doubling and allocate an exactly-sized
		// chunk instead; the chunk table still gains one entry per such
		// allocation.
		size = need
	}
	c := &chunk{buf: make([]byte, 0, size)}
	in.chunks = append(in.chunks, c)
	return c, len(in.chunks) - 1
}

// Bytes returns the bytes referenced by ref. The returned slice aliases
// arena storage and must not be retained past the ref's lifetime.
func (in *Interner) Bytes(ref Ref) []byte {
	if ref.length == 0 {
		return nil
	}
	c := in.chunks[ref.chunk]
	return c.buf[ref.off : ref.off+ref.length]
}

// String returns a copy of the referenced bytes as a string.
func (in *Interner) String(ref Ref) string {
	return string(in.Bytes(ref))
}

// Equals reports content equality between two refs. Both are read from
// in's own chunks, so both must have been allocated by in.
func (in *Interner) Equals(a, b Ref) bool {
	if a.length != b.length {
		return false
	}
	if a.length == 0 {
		return true
	}
	return string(in.Bytes(a)) == string(in.Bytes(b))
}

// Hash returns a content hash (FNV-1a) suitable for map keys built on top
// of Bytes/String rather than Ref, since two distinct Refs may hold equal
// content without being deduplicated (de-duplication is not required).
func (in *Interner) Hash(ref Ref) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, b := range in.Bytes(ref) {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// Retain increments the reference count of ref.
func (in *Interner) Retain(ref Ref) {
	if ref.length == 0 {
		return
	}
	in.refcounts[ref]++
}

// Release decrements the reference count of ref. When this releases the
// last live string of its chunk and that chunk is not the active
// (writable) one at that moment, the chunk's buffer is freed; a chunk that
// empties while still active is not freed later.
func (in *Interner) Release(ref Ref) {
	if ref.length == 0 {
		return
	}
	n, ok := in.refcounts[ref]
	if !ok {
		return
	}
	n--
	if n > 0 {
		in.refcounts[ref] = n
		return
	}
	delete(in.refcounts, ref)
	c := in.chunks[ref.chunk]
	c.strings--
	if c.strings == 0 && int(ref.chunk) != len(in.chunks)-1 {
		c.buf = nil
	}
}
