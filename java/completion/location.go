package completion

import "github.com/dhamidi/caret/java/parser"

// Location is the syntactic category of the caret position.
type Location int

const (
	Unknown Location = iota
	MemberStart
	StatementStart
	InImport
	ConstructorStart
)

var locationNames = map[Location]string{
	Unknown:          "Unknown",
	MemberStart:      "MemberStart",
	StatementStart:   "StatementStart",
	InImport:         "InImport",
	ConstructorStart: "ConstructorStart",
}

func (l Location) String() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Classify decides the location of tok inside unit. tokens are the
// significant tokens the parser produced for unit. Only name tokens have
// a location; strings and unknown tokens are Unknown.
func Classify(unit *parser.Node, tokens []parser.Token, tok Token) Location {
	if tok.Kind != TokenName {
		return Unknown
	}
	s := newSkeleton(unit, tokens)
	return s.classify(s.path(tok.Start), tok.Start)
}

func (s *skeleton) classify(path []*parser.Node, pos int) Location {
	for _, n := range path {
		if n.Kind == parser.KindImportDecl {
			return InImport
		}
	}
	if s.afterNew(path, pos) {
		return ConstructorStart
	}

	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		var child *parser.Node
		if i+1 < len(path) {
			child = path[i+1]
		}

		switch n.Kind {
		case parser.KindClassBody, parser.KindAnonymousBody:
			if !s.containsInside(n, pos) {
				return Unknown
			}
			if child == nil || s.beginsAt(child, pos) {
				return MemberStart
			}
			return Unknown

		case parser.KindBlock:
			if !s.containsInside(n, pos) {
				return Unknown
			}
			return s.statementAt(child, pos)

		case parser.KindSwitchCase:
			colon := s.caseBodyStart(n)
			if colon < 0 || pos < colon {
				return Unknown
			}
			return s.statementAt(child, pos)

		case parser.KindIfStmt, parser.KindWhileStmt, parser.KindForStmt, parser.KindEnhancedForStmt:
			end := s.headerEnd(n)
			if end < 0 || pos < end {
				continue
			}
			return s.statementAt(child, pos)

		case parser.KindDoStmt:
			if child != nil && child == n.Children[0] && child.Kind.IsStatement() {
				return s.statementAt(child, pos)
			}
			if child == nil && s.kindAt(s.prev(pos)) == parser.TokenDo {
				return StatementStart
			}

		case parser.KindLabeledStmt:
			if child != nil && child.Kind.IsStatement() {
				return s.statementAt(child, pos)
			}
			if child == nil && s.kindAt(s.prev(pos)) == parser.TokenColon {
				return StatementStart
			}
		}
	}
	return Unknown
}

// statementAt classifies pos inside a statement list where stmt is the
// statement containing pos, if any.
func (s *skeleton) statementAt(stmt *parser.Node, pos int) Location {
	if stmt == nil || s.beginsAt(stmt, pos) {
		return StatementStart
	}
	return Unknown
}

// beginsAt reports whether nothing but modifiers of n precedes pos.
func (s *skeleton) beginsAt(n *parser.Node, pos int) bool {
	start := s.contentStart(n)
	return start < 0 || start >= pos
}

// caseBodyStart returns the offset after the colon or arrow of a switch
// case, or -1 when neither has been written.
func (s *skeleton) caseBodyStart(n *parser.Node) int {
	depth := 0
	for i := s.indexAt(n.Start()); i < len(s.tokens) && s.tokens[i].Start() <= n.End(); i++ {
		switch s.tokens[i].Kind {
		case parser.TokenLParen:
			depth++
		case parser.TokenRParen:
			depth--
		case parser.TokenColon, parser.TokenArrow:
			if depth == 0 {
				return s.tokens[i].End()
			}
		case parser.TokenEOF:
			return -1
		}
	}
	return -1
}

// afterNew reports whether pos directly follows new, or new with type
// arguments, in an allocation without a class body.
func (s *skeleton) afterNew(path []*parser.Node, pos int) bool {
	i := s.prev(pos)
	switch s.kindAt(i) {
	case parser.TokenGT, parser.TokenShr, parser.TokenUShr:
		i = s.openingAngle(i) - 1
	}
	if s.kindAt(i) != parser.TokenNew {
		return false
	}
	for j := len(path) - 1; j >= 0; j-- {
		if path[j].Kind == parser.KindNewExpr || path[j].Kind == parser.KindNewArrayExpr {
			return path[j].FirstChildOfKind(parser.KindAnonymousBody) == nil
		}
	}
	return true
}

// openingAngle returns the index of the '<' matching the closing angle
// bracket token at closing, or -1.
func (s *skeleton) openingAngle(closing int) int {
	depth := 0
	for i := closing; i >= 0; i-- {
		switch s.tokens[i].Kind {
		case parser.TokenGT:
			depth++
		case parser.TokenShr:
			depth += 2
		case parser.TokenUShr:
			depth += 3
		case parser.TokenLT:
			depth--
			if depth == 0 {
				return i
			}
		case parser.TokenSemicolon, parser.TokenLBrace, parser.TokenRBrace:
			return -1
		}
	}
	return -1
}
