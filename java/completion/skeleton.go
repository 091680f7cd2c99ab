package completion

import (
	"sort"

	"github.com/dhamidi/caret/java/parser"
)

// skeleton pairs a parsed compilation unit with its significant tokens
// and answers positional questions about both.
type skeleton struct {
	unit   *parser.Node
	tokens []parser.Token
}

func newSkeleton(unit *parser.Node, tokens []parser.Token) *skeleton {
	return &skeleton{unit: unit, tokens: tokens}
}

// contains reports whether pos belongs to n. A node that ends in an
// incomplete construct also owns the whitespace after its last token, up
// to the next token.
func (s *skeleton) contains(n *parser.Node, pos int) bool {
	if n == nil || pos < n.Start() {
		return false
	}
	if pos < n.End() {
		return true
	}
	return openEnded(n) && !s.tokenBetween(n.End(), pos)
}

// openEnded reports whether n or its trailing descendants are incomplete.
func openEnded(n *parser.Node) bool {
	for n != nil {
		if n.Incomplete {
			return true
		}
		if len(n.Children) == 0 {
			return false
		}
		last := n.Children[len(n.Children)-1]
		if last.End() != n.End() {
			return false
		}
		n = last
	}
	return false
}

// containsInside is contains for bodies: the caret must be past the
// opening brace.
func (s *skeleton) containsInside(n *parser.Node, pos int) bool {
	return pos > n.Start() && s.contains(n, pos)
}

// path returns the chain of nodes from the root down to the deepest node
// containing pos. The root is always first.
func (s *skeleton) path(pos int) []*parser.Node {
	if s.unit == nil {
		return nil
	}
	path := []*parser.Node{s.unit}
	for n := s.unit; ; {
		next := s.childAt(n, pos)
		if next == nil {
			return path
		}
		path = append(path, next)
		n = next
	}
}

// childAt returns the last child of n containing pos. Later children win
// so that a node starting at pos is preferred over an incomplete one
// ending there.
func (s *skeleton) childAt(n *parser.Node, pos int) *parser.Node {
	var found *parser.Node
	for _, child := range n.Children {
		if child.Start() > pos {
			break
		}
		if s.contains(child, pos) {
			found = child
		}
	}
	return found
}

// tokenBetween reports whether a significant token starts in [from, to).
func (s *skeleton) tokenBetween(from, to int) bool {
	i := s.indexAt(from)
	return i < len(s.tokens) && s.tokens[i].Kind != parser.TokenEOF && s.tokens[i].Start() < to
}

// indexAt returns the index of the first token starting at or after pos.
func (s *skeleton) indexAt(pos int) int {
	return sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Kind == parser.TokenEOF || s.tokens[i].Start() >= pos
	})
}

// prev returns the index of the last token ending at or before pos, or -1.
func (s *skeleton) prev(pos int) int {
	i := s.indexAt(pos) - 1
	for i >= 0 && s.tokens[i].End() > pos {
		i--
	}
	return i
}

func (s *skeleton) kindAt(i int) parser.TokenKind {
	if i < 0 || i >= len(s.tokens) {
		return parser.TokenEOF
	}
	return s.tokens[i].Kind
}

// firstTokenIn returns the first token of kind inside [from, to), or -1.
func (s *skeleton) firstTokenIn(kind parser.TokenKind, from, to int) int {
	for i := s.indexAt(from); i < len(s.tokens) && s.tokens[i].Start() < to; i++ {
		if s.tokens[i].Kind == kind {
			return i
		}
		if s.tokens[i].Kind == parser.TokenEOF {
			break
		}
	}
	return -1
}

// matchingClose returns the index of the token closing the bracket at
// open, or -1 when it is never closed.
func (s *skeleton) matchingClose(open int) int {
	openKind := s.tokens[open].Kind
	closeKind := closers[openKind]
	depth := 0
	for i := open; i < len(s.tokens); i++ {
		switch s.tokens[i].Kind {
		case openKind:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return i
			}
		case parser.TokenEOF:
			return -1
		}
	}
	return -1
}

var closers = map[parser.TokenKind]parser.TokenKind{
	parser.TokenLParen:   parser.TokenRParen,
	parser.TokenLBracket: parser.TokenRBracket,
	parser.TokenLBrace:   parser.TokenRBrace,
}

// headerEnd returns the offset just past the parenthesized header of a
// compound statement, or -1 when the header is still open.
func (s *skeleton) headerEnd(n *parser.Node) int {
	open := s.firstTokenIn(parser.TokenLParen, n.Start(), n.End()+1)
	if open < 0 {
		return -1
	}
	closing := s.matchingClose(open)
	if closing < 0 {
		return -1
	}
	return s.tokens[closing].End()
}

// commasBefore counts the top level commas between the bracket at open
// and pos.
func (s *skeleton) commasBefore(open, pos int) int {
	depth := 0
	commas := 0
	for i := open + 1; i < len(s.tokens) && s.tokens[i].Start() < pos; i++ {
		switch s.tokens[i].Kind {
		case parser.TokenLParen, parser.TokenLBracket, parser.TokenLBrace:
			depth++
		case parser.TokenRParen, parser.TokenRBracket, parser.TokenRBrace:
			depth--
		case parser.TokenComma:
			if depth == 0 {
				commas++
			}
		case parser.TokenEOF:
			return commas
		}
	}
	return commas
}

// contentStart returns the offset of the first token of a declaration or
// statement after its modifiers and annotations, or -1 when nothing but
// modifiers has been written.
func (s *skeleton) contentStart(n *parser.Node) int {
	from := n.Start()
	if mods := n.FirstChildOfKind(parser.KindModifiers); mods != nil && mods.Start() == n.Start() {
		from = mods.End()
	}
	i := s.indexAt(from)
	if i >= len(s.tokens) || s.tokens[i].Kind == parser.TokenEOF {
		return -1
	}
	if tok := s.tokens[i]; tok.Start() < n.End() {
		return tok.Start()
	}
	return -1
}

// anchor is the offset classification and inference look at: the start
// of the caret token, or the caret itself for an empty token.
func anchor(tok Token, offset int) int {
	if tok.Kind == TokenUnknown {
		return offset
	}
	return tok.Start
}
