package parser

import (
	"slices"

	"hone/internal/ast"
	"hone/internal/diag"
	"hone/internal/hygiene"
	"hone/internal/lexer"
	"hone/internal/source"
	"hone/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// Hygiene receives a fresh context for every expanded brace macro. When
	// nil a private table is used.
	Hygiene *hygiene.Table
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser — состояние парсера на один поток токенов
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	src      *source.File
	fs       *source.FileSet
	opts     *Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	noStruct bool        // запрет struct-литералов в заголовках if/while/match/for
	depth    int         // вложенность раскрытых макросов
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(fs *source.FileSet, file *source.File, arenas *ast.Builder, opts Options) Result {
	if opts.Hygiene == nil {
		opts.Hygiene = hygiene.NewTable()
	}
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := newParser(fs, file, arenas, lx.All(), &opts)
	p.file = arenas.Files.New(source.Span{File: file.ID})

	f := arenas.Files.Get(p.file)
	f.Attrs = p.parseInnerAttrs()
	for _, item := range p.parseItemsUntil(token.EOF) {
		arenas.PushItem(p.file, item)
	}
	f = arenas.Files.Get(p.file)
	f.Span = source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = br.Bag
	case diag.BagReporter:
		bag = br.Bag
	}
	return Result{File: p.file, Bag: bag}
}

func newParser(fs *source.FileSet, file *source.File, arenas *ast.Builder, toks []token.Token, opts *Options) *Parser {
	// лексер уже отчитался о мусорных токенах
	toks = slices.DeleteFunc(toks, func(t token.Token) bool { return t.Kind == token.Invalid })
	return &Parser{
		toks:   toks,
		arenas: arenas,
		src:    file,
		fs:     fs,
		opts:   opts,
	}
}

// parseItemsUntil — основной цикл: пока не встретили end — parseItem.
// Раскрытые brace-макросы вклеиваются в результат.
func (p *Parser) parseItemsUntil(end token.Kind) []ast.ItemID {
	var items []ast.ItemID
	for !p.at(end) && !p.at(token.EOF) {
		start := p.pos
		ids, ok := p.parseItem()
		if ok {
			items = append(items, ids...)
		} else {
			p.resyncTop(end)
		}
		if p.pos == start {
			p.advance()
		}
	}
	return items
}

// resyncTop — восстановление после ошибки на уровне item:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ end.
func (p *Parser) resyncTop(end token.Kind) {
	for !p.at(token.EOF) && !p.at(end) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.at(token.LBrace):
			p.skipBalanced()
			return
		case isItemStarter(p.peek()):
			return
		}
		p.advance()
	}
}

// isItemStarter — принадлежит ли токен стартерам item.
func isItemStarter(t token.Token) bool {
	switch t.Kind {
	case token.KwFn, token.KwPub, token.KwStruct, token.KwEnum, token.KwTrait, token.KwImpl,
		token.KwMod, token.KwUse, token.KwConst, token.KwStatic, token.KwType, token.KwUnsafe, token.Pound:
		return true
	case token.Ident:
		return t.Text == "union" || t.Text == "extern" || t.Text == "async" || t.Text == "macro_rules"
	default:
		return false
	}
}

// parseIdent — утилита: ожидает Ident и интернирует его.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) || p.at(token.Underscore) {
		tok := p.advance()
		return p.arenas.Strings.Intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, p.peek().Span, false
}
