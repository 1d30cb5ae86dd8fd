package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file, tagged with the expansion
// context that produced it.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
	Ctxt  SyntaxContext
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.Ctxt != RootContext {
		return fmt.Sprintf("%d:%d-%d#%d", s.File, s.Start, s.End, s.Ctxt)
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged; the receiver wins.
// The context of the receiver is kept.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// WithCtxt returns a copy of the span stamped with ctxt.
func (s Span) WithCtxt(ctxt SyntaxContext) Span {
	s.Ctxt = ctxt
	return s
}

// Root strips the expansion context.
func (s Span) Root() Span {
	s.Ctxt = RootContext
	return s
}

// At returns an empty span at the start of s.
func (s Span) At() Span {
	s.End = s.Start
	return s
}

// After returns an empty span at the end of s.
func (s Span) After() Span {
	s.Start = s.End
	return s
}

// ShiftLeft moves the span n bytes towards the start of the file.
// A shift past offset zero leaves the span unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	s.Start -= n
	s.End -= n
	return s
}
