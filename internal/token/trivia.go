package token

import "hone/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine // /// or //!
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
