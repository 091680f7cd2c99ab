package completion

import (
	"sort"

	"github.com/dhamidi/caret/java/parser"
)

type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenName
	TokenStringLiteral
)

func (k TokenKind) String() string {
	switch k {
	case TokenName:
		return "Name"
	case TokenStringLiteral:
		return "StringLiteral"
	}
	return "Unknown"
}

// Token is the text being completed. Start and End are inclusive byte
// offsets, so an empty token has End == Start-1. Unknown tokens use the
// span (-1, -1).
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

var unknownToken = Token{Kind: TokenUnknown, Start: -1, End: -1}

func (t Token) IsEmpty() bool {
	return t.Kind != TokenUnknown && t.End < t.Start
}

func emptyToken(offset int) Token {
	return Token{Kind: TokenName, Start: offset, End: offset - 1}
}

// ScanToken finds the token under the caret. tokens must come from
// parser.Tokenize over source so that comments are seen.
func ScanToken(source []byte, tokens []parser.Token, offset int) Token {
	if offset < 0 || offset > len(source) {
		return unknownToken
	}

	// first token that ends at or after the caret
	i := sort.Search(len(tokens), func(i int) bool {
		return tokens[i].Kind == parser.TokenEOF || tokens[i].End() >= offset
	})

	if i < len(tokens) && tokens[i].Kind != parser.TokenEOF && tokens[i].Start() < offset {
		return scanInside(source, tokens[i], offset, tokens[i+1:])
	}
	return scanGap(tokens[i:], offset)
}

// scanInside handles a caret after the first byte of tok and no later
// than its end.
func scanInside(source []byte, tok parser.Token, offset int, rest []parser.Token) Token {
	switch {
	case tok.Kind == parser.TokenComment:
		if !tok.Unterminated && offset == tok.End() {
			return scanGap(rest, offset)
		}
		return unknownToken
	case tok.Kind == parser.TokenLineComment:
		return unknownToken
	case tok.Kind == parser.TokenStringLiteral, tok.Kind == parser.TokenTextBlock:
		return scanString(source, tok, offset)
	case tok.Kind.IsWord():
		return Token{
			Kind:  TokenName,
			Start: tok.Start(),
			End:   tok.End() - 1,
			Text:  tok.Literal,
		}
	case tok.Kind.IsLiteral():
		return unknownToken
	}
	// punctuation: the caret sits right after it
	if offset == tok.End() {
		return scanGap(rest, offset)
	}
	return unknownToken
}

func scanString(source []byte, tok parser.Token, offset int) Token {
	delim := 1
	if tok.Kind == parser.TokenTextBlock {
		delim = 3
	}
	start := tok.Start() + delim
	if offset < start {
		return unknownToken
	}
	if !tok.Unterminated && offset > tok.End()-delim {
		return unknownToken
	}
	return Token{
		Kind:  TokenStringLiteral,
		Start: start,
		End:   offset - 1,
		Text:  string(source[start:offset]),
	}
}

// scanGap handles a caret between tokens. A word starting right at the
// caret is the token; anything else leaves an empty name.
func scanGap(rest []parser.Token, offset int) Token {
	for _, tok := range rest {
		if tok.Start() < offset {
			continue
		}
		if tok.Start() == offset && tok.Kind.IsWord() {
			return Token{
				Kind:  TokenName,
				Start: tok.Start(),
				End:   tok.End() - 1,
				Text:  tok.Literal,
			}
		}
		break
	}
	return emptyToken(offset)
}
