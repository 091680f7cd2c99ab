package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers [Start.Offset, End.Offset).
type Span struct {
	Start Position
	End   Position
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Contextual keywords
	TokenVar
	TokenYield
	TokenRecord
	TokenSealed
	TokenNonSealed
	TokenPermits

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenNonSealed:     "non-sealed",
}

func init() {
	for word, kind := range keywords {
		tokenKindNames[kind] = word
	}
	for text, kind := range operators {
		tokenKindNames[kind] = text
	}
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsWord reports whether tokens of this kind are spelled like identifiers.
func (k TokenKind) IsWord() bool {
	return k == TokenIdent || (k >= TokenTrue && k <= TokenPermits)
}

func (k TokenKind) IsComment() bool {
	return k == TokenComment || k == TokenLineComment
}

func (k TokenKind) IsLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenNull
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	// Unterminated is set on strings, text blocks, char literals and block
	// comments that reach a line end or the end of input without a closing
	// delimiter.
	Unterminated bool
}

func (t Token) Start() int { return t.Span.Start.Offset }
func (t Token) End() int   { return t.Span.End.Offset }

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
	"var":          TokenVar,
	"yield":        TokenYield,
	"record":       TokenRecord,
	"sealed":       TokenSealed,
	"permits":      TokenPermits,
}

// operators is consulted longest spelling first by the lexer.
var operators = map[string]TokenKind{
	"(":    TokenLParen,
	")":    TokenRParen,
	"{":    TokenLBrace,
	"}":    TokenRBrace,
	"[":    TokenLBracket,
	"]":    TokenRBracket,
	";":    TokenSemicolon,
	",":    TokenComma,
	".":    TokenDot,
	"...":  TokenEllipsis,
	"@":    TokenAt,
	"::":   TokenColonColon,
	"=":    TokenAssign,
	"==":   TokenEQ,
	"!=":   TokenNE,
	"<":    TokenLT,
	"<=":   TokenLE,
	">":    TokenGT,
	">=":   TokenGE,
	"&&":   TokenAnd,
	"||":   TokenOr,
	"!":    TokenNot,
	"&":    TokenBitAnd,
	"|":    TokenBitOr,
	"^":    TokenBitXor,
	"~":    TokenBitNot,
	"<<":   TokenShl,
	">>":   TokenShr,
	">>>":  TokenUShr,
	"+":    TokenPlus,
	"-":    TokenMinus,
	"*":    TokenStar,
	"/":    TokenSlash,
	"%":    TokenPercent,
	"++":   TokenIncrement,
	"--":   TokenDecrement,
	"?":    TokenQuestion,
	":":    TokenColon,
	"->":   TokenArrow,
	"+=":   TokenPlusAssign,
	"-=":   TokenMinusAssign,
	"*=":   TokenStarAssign,
	"/=":   TokenSlashAssign,
	"%=":   TokenPercentAssign,
	"&=":   TokenAndAssign,
	"|=":   TokenOrAssign,
	"^=":   TokenXorAssign,
	"<<=":  TokenShlAssign,
	">>=":  TokenShrAssign,
	">>>=": TokenUShrAssign,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
