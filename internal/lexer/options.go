package lexer

import (
	"hone/internal/diag"
	"hone/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем
	// Ctxt stamps every produced span; used when re-lexing a macro body.
	Ctxt source.SyntaxContext
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
