//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Event constructors, one function per event.Type.
package evyaml

import (
	"github.com/evyaml/evyaml/event"
	"github.com/evyaml/evyaml/internal/mark"
)

func streamStartEvent(at mark.Position) event.Event {
	return event.Event{Type: event.StreamStart, Start: at, End: at}
}

func streamEndEvent(at mark.Position) event.Event {
	return event.Event{Type: event.StreamEnd, Start: at, End: at}
}

func documentStartEvent(start, end mark.Position, version *event.VersionDirective, tags []event.TagDirective, implicit bool) event.Event {
	return event.Event{
		Type:          event.DocumentStart,
		Start:         start,
		End:           end,
		Version:       version,
		TagDirectives: tags,
		Implicit:      implicit,
	}
}

func documentEndEvent(start, end mark.Position, implicit bool) event.Event {
	return event.Event{Type: event.DocumentEnd, Start: start, End: end, Implicit: implicit}
}

func aliasEvent(start, end mark.Position, target string) event.Event {
	return event.Event{Type: event.Alias, Start: start, End: end, Target: target}
}

func scalarEvent(start, end mark.Position, props event.Properties, value string, style event.ScalarStyle) event.Event {
	return event.Event{Type: event.Scalar, Start: start, End: end, Properties: props, Value: value, Style: style}
}

func sequenceStartEvent(start, end mark.Position, props event.Properties, style event.CollectionStyle) event.Event {
	return event.Event{Type: event.SequenceStart, Start: start, End: end, Properties: props, Collection: style}
}

func sequenceEndEvent(at mark.Position) event.Event {
	return event.Event{Type: event.SequenceEnd, Start: at, End: at}
}

func mappingStartEvent(start, end mark.Position, props event.Properties, style event.CollectionStyle) event.Event {
	return event.Event{Type: event.MappingStart, Start: start, End: end, Properties: props, Collection: style}
}

func mappingEndEvent(at mark.Position) event.Event {
	return event.Event{Type: event.MappingEnd, Start: at, End: at}
}

func annotationStartEvent(start, end mark.Position, name string) event.Event {
	return event.Event{Type: event.AnnotationStart, Start: start, End: end, Name: name}
}

func annotationEndEvent(at mark.Position) event.Event {
	return event.Event{Type: event.AnnotationEnd, Start: at, End: at}
}
