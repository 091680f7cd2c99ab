package parser

import (
	"testing"
)

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"a /* x */ b", []TokenKind{TokenIdent, TokenComment, TokenIdent, TokenEOF}},
		{"a // x\nb", []TokenKind{TokenIdent, TokenLineComment, TokenIdent, TokenEOF}},
		{"<< >> >>> >>>=", []TokenKind{TokenShl, TokenShr, TokenUShr, TokenUShrAssign, TokenEOF}},
		{"a->b::c", []TokenKind{TokenIdent, TokenArrow, TokenIdent, TokenColonColon, TokenIdent, TokenEOF}},
		{"String... args", []TokenKind{TokenIdent, TokenEllipsis, TokenIdent, TokenEOF}},
		{"non-sealed class", []TokenKind{TokenNonSealed, TokenClass, TokenEOF}},
		{"non - sealed", []TokenKind{TokenIdent, TokenMinus, TokenSealed, TokenEOF}},
		{"x#y", []TokenKind{TokenIdent, TokenError, TokenIdent, TokenEOF}},
		{"café = 1", []TokenKind{TokenIdent, TokenAssign, TokenIntLiteral, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kindsOf(Tokenize([]byte(tt.input), "test.java"))
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"42", TokenIntLiteral},
		{"42L", TokenIntLiteral},
		{"1_000_000", TokenIntLiteral},
		{"0x1F", TokenIntLiteral},
		{"0b1010", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"2.5e-3", TokenFloatLiteral},
		{"1f", TokenFloatLiteral},
		{"1.0d", TokenFloatLiteral},
		{".5", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input), "test.java").NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerUnterminated(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		kind         TokenKind
		literal      string
		unterminated bool
	}{
		{"closed string", `"abc"`, TokenStringLiteral, `"abc"`, false},
		{"escaped quote", `"a\"b"`, TokenStringLiteral, `"a\"b"`, false},
		{"string at eof", `"abc`, TokenStringLiteral, `"abc`, true},
		{"string at newline", "\"abc\nx", TokenStringLiteral, `"abc`, true},
		{"char", `'a'`, TokenCharLiteral, `'a'`, false},
		{"char at eof", `'a`, TokenCharLiteral, `'a`, true},
		{"text block", "\"\"\"\nhi\n\"\"\"", TokenTextBlock, "\"\"\"\nhi\n\"\"\"", false},
		{"text block at eof", "\"\"\"\nhi", TokenTextBlock, "\"\"\"\nhi", true},
		{"block comment", "/* x */", TokenComment, "/* x */", false},
		{"block comment at eof", "/* x", TokenComment, "/* x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input), "test.java").NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.literal {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.literal)
			}
			if tok.Unterminated != tt.unterminated {
				t.Errorf("unterminated = %v, want %v", tok.Unterminated, tt.unterminated)
			}
		})
	}
}

func TestLexerPositionTracking(t *testing.T) {
	tokens := Tokenize([]byte("class Foo {\n  int x;\n}"), "Foo.java")

	tests := []struct {
		index  int
		offset int
		line   int
		column int
	}{
		{0, 0, 1, 1},
		{1, 6, 1, 7},
		{3, 14, 2, 3},
		{6, 21, 3, 1},
	}

	for _, tt := range tests {
		tok := tokens[tt.index]
		pos := tok.Span.Start
		if pos.Offset != tt.offset || pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("token %d (%q): got %d@%d:%d, want %d@%d:%d",
				tt.index, tok.Literal, pos.Offset, pos.Line, pos.Column,
				tt.offset, tt.line, tt.column)
		}
		if pos.File != "Foo.java" {
			t.Errorf("token %d: file = %q", tt.index, pos.File)
		}
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := NewLexer([]byte("x"), "test.java")
	l.NextToken()
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		if tok.Kind != TokenEOF {
			t.Fatalf("call %d: got %v, want EOF", i, tok.Kind)
		}
		if tok.Start() != 1 || tok.End() != 1 {
			t.Errorf("call %d: EOF span = [%d,%d), want [1,1)", i, tok.Start(), tok.End())
		}
	}
}
