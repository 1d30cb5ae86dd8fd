package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	Lifetime // 'a

	KwAs
	KwBreak
	KwConst
	KwContinue
	KwCrate
	KwDyn
	KwElse
	KwEnum
	KwFalse
	KwFn
	KwFor
	KwIf
	KwImpl
	KwIn
	KwLet
	KwLoop
	KwMatch
	KwMod
	KwMove
	KwMut
	KwPub
	KwRef
	KwReturn
	KwSelfValue // self
	KwSelfType  // Self
	KwStatic
	KwStruct
	KwSuper
	KwTrait
	KwTrue
	KwType
	KwUnsafe
	KwUse
	KwWhere
	KwWhile

	IntLit
	FloatLit
	StringLit
	CharLit

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	DotDot        // ..
	DotDotEq      // ..=
	Arrow         // ->
	FatArrow      // =>
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	At            // @
	Pound         // #
	Dollar        // $
	Underscore    // _
)

var kindNames = [...]string{
	Invalid: "invalid", EOF: "end of file", Ident: "identifier", Lifetime: "lifetime",
	KwAs: "as", KwBreak: "break", KwConst: "const", KwContinue: "continue", KwCrate: "crate",
	KwDyn: "dyn", KwElse: "else", KwEnum: "enum", KwFalse: "false", KwFn: "fn", KwFor: "for",
	KwIf: "if", KwImpl: "impl", KwIn: "in", KwLet: "let", KwLoop: "loop", KwMatch: "match",
	KwMod: "mod", KwMove: "move", KwMut: "mut", KwPub: "pub", KwRef: "ref", KwReturn: "return",
	KwSelfValue: "self", KwSelfType: "Self", KwStatic: "static", KwStruct: "struct",
	KwSuper: "super", KwTrait: "trait", KwTrue: "true", KwType: "type", KwUnsafe: "unsafe",
	KwUse: "use", KwWhere: "where", KwWhile: "while",
	IntLit: "integer literal", FloatLit: "float literal", StringLit: "string literal", CharLit: "char literal",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=", PlusAssign: "+=",
	MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=",
	PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=", EqEq: "==", Bang: "!",
	BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<", Shr: ">>", Amp: "&",
	Pipe: "|", Caret: "^", AndAnd: "&&", OrOr: "||", Question: "?", Colon: ":", ColonColon: "::",
	Semicolon: ";", Comma: ",", Dot: ".", DotDot: "..", DotDotEq: "..=", Arrow: "->", FatArrow: "=>",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]", At: "@",
	Pound: "#", Dollar: "$", Underscore: "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwAs && k <= KwWhile
}

// IsLiteral reports whether k is a literal token (booleans included).
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StringLit, CharLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether k is `=` or a compound assignment.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign:
		return true
	default:
		return false
	}
}

// Closing returns the matching closing delimiter for an opening one.
func (k Kind) Closing() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBrace:
		return RBrace, true
	case LBracket:
		return RBracket, true
	default:
		return Invalid, false
	}
}
