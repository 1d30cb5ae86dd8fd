// Package token defines lexical token kinds and trivia for the hone lexer.
// Invariants:
//   - Token.Text is exactly the source bytes under Token.Span.
//   - Comments and whitespace never appear in the token stream; they are kept
//     as leading Trivia of the next significant token.
//   - Contextual keywords (`union`, `macro_rules`, `default`) are identifiers.
//     The parser recognizes them by text.
package token
