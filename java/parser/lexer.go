package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer turns Java source into tokens. It never fails: bytes it cannot
// classify become TokenError and literals missing their closing delimiter
// are returned with Unterminated set.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

// Tokenize returns every token of input except whitespace, comments
// included, terminated by a single TokenEOF.
func Tokenize(input []byte, file string) []Token {
	l := NewLexer(input, file)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() {
	if l.atEOF() {
		return
	}
	ch := l.input[l.pos]
	if ch < utf8.RuneSelf {
		l.pos++
	} else {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.pos += size
	}
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isSpace(ch):
		for !l.atEOF() && isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case ch == '/' && l.peekN(1) == '/':
		for !l.atEOF() && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenStringLiteral)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenCharLiteral)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case isIdentStart(l.peekRune()):
		return l.scanWord(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, start)
		}
		l.advance()
	}
	tok := l.token(TokenComment, start)
	tok.Unterminated = true
	return tok
}

// scanQuoted reads a string or char literal. Java forbids raw line breaks
// inside both, so a newline ends an unterminated literal.
func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for !l.atEOF() {
		switch l.peek() {
		case quote:
			l.advance()
			return l.token(kind, start)
		case '\n':
			tok := l.token(kind, start)
			tok.Unterminated = true
			return tok
		case '\\':
			l.advance()
			if !l.atEOF() && l.peek() != '\n' {
				l.advance()
			}
		default:
			l.advance()
		}
	}
	tok := l.token(kind, start)
	tok.Unterminated = true
	return tok
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for !l.atEOF() {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	tok := l.token(TokenTextBlock, start)
	tok.Unterminated = true
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X' || l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == 'l' || l.peek() == 'L' {
			l.advance()
		}
		return l.token(kind, start)
	}

	l.skipDigits()
	if l.peek() == '.' && l.peekN(1) != '.' && !isIdentStart(rune(l.peekN(1))) {
		kind = TokenFloatLiteral
		l.advance()
		l.skipDigits()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		kind = TokenFloatLiteral
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		l.skipDigits()
	}
	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		kind = TokenFloatLiteral
		l.advance()
	case 'l', 'L':
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) skipDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanWord(start Position) Token {
	for !l.atEOF() && isIdentPart(l.peekRune()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)

	if tok.Literal == "non" && string(l.input[l.pos:min(l.pos+7, len(l.input))]) == "-sealed" {
		if l.pos+7 == len(l.input) || !isIdentPart(rune(l.input[l.pos+7])) {
			l.advanceN(7)
			tok = l.token(TokenNonSealed, start)
		}
	}
	return tok
}

func (l *Lexer) scanOperator(start Position) Token {
	for n := 4; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		if kind, ok := operators[string(l.input[l.pos:l.pos+n])]; ok {
			l.advanceN(n)
			return l.token(kind, start)
		}
	}
	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
	}
	return unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStart(r) || (r >= '0' && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
