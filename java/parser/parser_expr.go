package parser

import "unicode"

// binaryPrecedence returns the binding strength of a binary operator, or 0
// for tokens that do not continue a binary expression.
func binaryPrecedence(kind TokenKind) int {
	switch kind {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenBitOr:
		return 3
	case TokenBitXor:
		return 4
	case TokenBitAnd:
		return 5
	case TokenEQ, TokenNE:
		return 6
	case TokenLT, TokenGT, TokenLE, TokenGE, TokenInstanceof:
		return 7
	case TokenShl, TokenShr, TokenUShr:
		return 8
	case TokenPlus, TokenMinus:
		return 9
	case TokenStar, TokenSlash, TokenPercent:
		return 10
	}
	return 0
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign, TokenAndAssign, TokenOrAssign,
		TokenXorAssign, TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func isPrimitiveKind(kind TokenKind) bool {
	switch kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

// atExpressionEnd reports whether the current token cannot start or
// continue an operand.
func (p *Parser) atExpressionEnd() bool {
	return p.match(TokenSemicolon, TokenRParen, TokenRBracket, TokenRBrace,
		TokenComma, TokenColon, TokenEOF) || p.atMemberStart()
}

// atMemberStart reports whether the current token can only begin a member
// of the enclosing type.
func (p *Parser) atMemberStart() bool {
	return p.match(TokenPublic, TokenPrivate, TokenProtected)
}

// wrap starts a node of kind whose first child is first.
func wrap(kind NodeKind, first *Node) *Node {
	node := &Node{Kind: kind, Span: Span{Start: first.Span.Start, End: first.Span.End}}
	node.AddChild(first)
	return node
}

func (p *Parser) parseExpression() *Node {
	if p.isLambda() {
		return p.parseLambda()
	}
	left := p.parseTernary()
	if !isAssignOp(p.peek().Kind) {
		return left
	}
	node := wrap(KindAssignExpr, left)
	node.AddChild(leaf(KindIdentifier, p.advance()))
	if p.atExpressionEnd() {
		node.Incomplete = true
	} else {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTernary() *Node {
	cond := p.parseBinary(1)
	if !p.check(TokenQuestion) {
		return cond
	}
	node := wrap(KindTernaryExpr, cond)
	node.AddChild(leaf(KindIdentifier, p.advance()))
	if !p.atExpressionEnd() {
		node.AddChild(p.parseExpression())
	}
	if !p.check(TokenColon) {
		node.Incomplete = true
		return p.finishNode(node)
	}
	node.AddChild(leaf(KindIdentifier, p.advance()))
	switch {
	case p.atExpressionEnd():
		node.Incomplete = true
	case p.isLambda():
		node.AddChild(p.parseLambda())
	default:
		node.AddChild(p.parseTernary())
	}
	return p.finishNode(node)
}

func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		prec := binaryPrecedence(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		if p.check(TokenInstanceof) {
			node := wrap(KindInstanceofExpr, left)
			node.AddChild(leaf(KindIdentifier, p.advance()))
			node.AddChild(p.parseModifiers())
			typ := p.parseType()
			if typ == nil {
				node.Incomplete = true
				return p.finishNode(node)
			}
			node.AddChild(typ)
			node.AddChild(p.identifier())
			left = p.finishNode(node)
			continue
		}
		node := wrap(KindBinaryExpr, left)
		node.AddChild(leaf(KindIdentifier, p.advance()))
		if p.atExpressionEnd() {
			node.Incomplete = true
			return p.finishNode(node)
		}
		node.AddChild(p.parseBinary(prec + 1))
		left = p.finishNode(node)
	}
}

func (p *Parser) parseUnary() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		node := p.startNode(KindUnaryExpr)
		node.AddChild(leaf(KindIdentifier, p.advance()))
		if p.atExpressionEnd() {
			node.Incomplete = true
		} else {
			node.AddChild(p.parseUnary())
		}
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCast()
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parseCast() *Node {
	node := p.startNode(KindCastExpr)
	p.advance()
	node.AddChild(p.parseType())
	for p.check(TokenBitAnd) {
		p.advance()
		node.AddChild(p.parseType())
	}
	if p.expect(TokenRParen) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	switch {
	case p.atExpressionEnd():
		node.Incomplete = true
	case p.isLambda():
		node.AddChild(p.parseLambda())
	default:
		node.AddChild(p.parseUnary())
	}
	return p.finishNode(node)
}

// isCast decides whether a parenthesis starts a cast. Primitive types
// always do; reference types need an operand that cannot continue a
// parenthesized expression. A capitalized simple name followed by nothing
// usable is taken as a cast whose operand has not been typed yet.
func (p *Parser) isCast() bool {
	j := p.scanType(1)
	if j < 0 {
		return false
	}
	for p.peekN(j).Kind == TokenBitAnd {
		if j = p.scanType(j + 1); j < 0 {
			return false
		}
	}
	if p.peekN(j).Kind != TokenRParen {
		return false
	}
	if isPrimitiveKind(p.peekN(1).Kind) {
		return true
	}
	next := p.peekN(j + 1).Kind
	switch {
	case isIdentKind(next), next.IsLiteral():
		return true
	}
	switch next {
	case TokenThis, TokenSuper, TokenNew, TokenLParen, TokenNot, TokenBitNot, TokenSwitch:
		return true
	case TokenEOF:
		return true
	case TokenSemicolon, TokenRParen, TokenComma, TokenRBrace:
		return j == 2 && startsUpper(p.peekN(1).Literal)
	}
	return isPrimitiveKind(next)
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// scanType returns the index just past a type starting i tokens ahead, or
// -1. Nothing is consumed.
func (p *Parser) scanType(i int) int {
	for p.peekN(i).Kind == TokenAt {
		i = p.scanAnnotation(i)
	}
	switch kind := p.peekN(i).Kind; {
	case isPrimitiveKind(kind):
		i++
	case isIdentKind(kind):
		i++
		if i = p.scanTypeArgs(i); i < 0 {
			return -1
		}
		for p.peekN(i).Kind == TokenDot && isIdentKind(p.peekN(i+1).Kind) {
			if i = p.scanTypeArgs(i + 2); i < 0 {
				return -1
			}
		}
	default:
		return -1
	}
	for p.peekN(i).Kind == TokenLBracket && p.peekN(i+1).Kind == TokenRBracket {
		i += 2
	}
	return i
}

func (p *Parser) scanTypeArgs(i int) int {
	if p.peekN(i).Kind != TokenLT {
		return i
	}
	depth := 0
	for {
		kind := p.peekN(i).Kind
		switch {
		case kind == TokenLT:
			depth++
		case kind == TokenGT:
			depth--
		case kind == TokenShr:
			depth -= 2
		case kind == TokenUShr:
			depth -= 3
		case isIdentKind(kind), isPrimitiveKind(kind):
		case kind == TokenQuestion, kind == TokenExtends, kind == TokenSuper,
			kind == TokenComma, kind == TokenDot, kind == TokenLBracket,
			kind == TokenRBracket, kind == TokenAt, kind == TokenBitAnd:
		default:
			return -1
		}
		i++
		if depth < 0 {
			return -1
		}
		if depth == 0 {
			return i
		}
	}
}

func (p *Parser) scanAnnotation(i int) int {
	i++
	if isIdentKind(p.peekN(i).Kind) {
		i++
	}
	for p.peekN(i).Kind == TokenDot && isIdentKind(p.peekN(i+1).Kind) {
		i += 2
	}
	if p.peekN(i).Kind != TokenLParen {
		return i
	}
	for depth := 0; ; i++ {
		switch p.peekN(i).Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return i + 1
			}
		case TokenEOF, TokenSemicolon:
			return i
		}
	}
}

// isLambda reports whether a lambda expression starts here: a single name
// or a balanced parameter list followed by an arrow.
func (p *Parser) isLambda() bool {
	if isIdentKind(p.peek().Kind) {
		return p.peekN(1).Kind == TokenArrow
	}
	if !p.check(TokenLParen) {
		return false
	}
	depth := 0
	for i := 0; ; i++ {
		switch p.peekN(i).Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return p.peekN(i+1).Kind == TokenArrow
			}
		case TokenEOF, TokenSemicolon, TokenLBrace, TokenRBrace:
			return false
		}
	}
}

func (p *Parser) parseLambda() *Node {
	node := p.startNode(KindLambdaExpr)
	params := p.startNode(KindParameters)
	if p.isIdentifierLike() {
		param := p.startNode(KindParameter)
		param.AddChild(p.identifier())
		params.AddChild(p.finishNode(param))
		node.AddChild(p.finishNode(params))
	} else {
		p.advance()
		for !p.match(TokenRParen, TokenEOF) && !p.atMemberStart() {
			progress := p.mustProgress()
			if j := p.scanType(p.skipModifiersAt(0)); j > 0 && isIdentKind(p.peekN(j).Kind) {
				params.AddChild(p.parseParameter())
			} else if p.isIdentifierLike() {
				param := p.startNode(KindParameter)
				param.AddChild(p.identifier())
				params.AddChild(p.finishNode(param))
			}
			if p.check(TokenComma) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		node.AddChild(p.closeWith(params, TokenRParen))
	}

	p.expect(TokenArrow)
	switch {
	case p.check(TokenLBrace):
		body := p.parseBlock()
		node.AddChild(body)
		node.Incomplete = body.Incomplete
	case p.atExpressionEnd():
		node.Incomplete = true
	default:
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfix(expr *Node) *Node {
	for {
		switch p.peek().Kind {
		case TokenDot:
			node := wrap(KindFieldAccess, expr)
			p.advance()
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
			switch {
			case p.isIdentifierLike():
				node.AddChild(p.identifier())
				expr = p.finishNode(node)
				if p.check(TokenLParen) {
					expr = p.parseCall(expr)
				}
			case p.check(TokenNew):
				expr = p.parseNew(expr)
			case p.check(TokenClass):
				node.Kind = KindClassLiteral
				p.advance()
				expr = p.finishNode(node)
			case p.check(TokenThis):
				node.AddChild(leaf(KindThis, p.advance()))
				expr = p.finishNode(node)
			case p.check(TokenSuper):
				node.AddChild(leaf(KindSuper, p.advance()))
				expr = p.finishNode(node)
			default:
				node.Incomplete = true
				return p.finishNode(node)
			}
		case TokenLParen:
			expr = p.parseCall(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				typ := wrap(KindType, expr)
				typ.AddChild(p.parseDims())
				expr = p.finishNode(typ)
				continue
			}
			node := wrap(KindArrayAccess, expr)
			p.advance()
			if !p.atExpressionEnd() {
				node.AddChild(p.parseExpression())
			}
			expr = p.closeWith(node, TokenRBracket)
		case TokenColonColon:
			node := wrap(KindMethodRef, expr)
			p.advance()
			if p.check(TokenNew) {
				node.AddChild(leaf(KindIdentifier, p.advance()))
			} else if id := p.identifier(); id != nil {
				node.AddChild(id)
			} else {
				node.Incomplete = true
			}
			expr = p.finishNode(node)
		case TokenIncrement, TokenDecrement:
			node := wrap(KindPostfixExpr, expr)
			node.AddChild(leaf(KindIdentifier, p.advance()))
			expr = p.finishNode(node)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(target *Node) *Node {
	node := wrap(KindCallExpr, target)
	args := p.parseArguments()
	node.AddChild(args)
	node.Incomplete = args.Incomplete
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect(TokenLParen)
	for !p.match(TokenRParen, TokenSemicolon, TokenRBrace, TokenEOF) && !p.atMemberStart() {
		progress := p.mustProgress()
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		node.AddChild(p.parseExpression())
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	return p.closeWith(node, TokenRParen)
}

func (p *Parser) parsePrimary() *Node {
	kind := p.peek().Kind
	switch {
	case kind.IsLiteral():
		return leaf(KindLiteral, p.advance())
	case isIdentKind(kind):
		return p.identifier()
	case isPrimitiveKind(kind), kind == TokenVoid:
		return p.parseType()
	}

	switch kind {
	case TokenThis:
		return leaf(KindThis, p.advance())
	case TokenSuper:
		return leaf(KindSuper, p.advance())
	case TokenNew:
		return p.parseNew(nil)
	case TokenLParen:
		if p.isLambda() {
			return p.parseLambda()
		}
		node := p.startNode(KindParenExpr)
		p.advance()
		if !p.atExpressionEnd() {
			node.AddChild(p.parseExpression())
		}
		return p.closeWith(node, TokenRParen)
	case TokenSwitch:
		node := p.startNode(KindSwitchExpr)
		p.advance()
		return p.parseSwitchBody(node)
	case TokenLBrace:
		return p.parseArrayInitializer()
	}
	return p.errorNode("expected expression")
}

// parseNew parses an instance or array creation. outer is the qualifying
// expression of an inner class creation, if any.
func (p *Parser) parseNew(outer *Node) *Node {
	node := p.startNode(KindNewExpr)
	if outer != nil {
		node.Span.Start = outer.Span.Start
		node.AddChild(outer)
	}
	p.advance()
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	typ := p.parseType()
	if typ == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	node.AddChild(typ)

	if p.check(TokenLBracket) || typ.FirstChildOfKind(KindDims) != nil {
		node.Kind = KindNewArrayExpr
		for p.check(TokenLBracket) {
			p.advance()
			if !p.atExpressionEnd() {
				node.AddChild(p.parseExpression())
			}
			if p.expect(TokenRBracket) == nil {
				node.Incomplete = true
				return p.finishNode(node)
			}
		}
		if p.check(TokenLBrace) {
			init := p.parseArrayInitializer()
			node.AddChild(init)
			node.Incomplete = init.Incomplete
		}
		return p.finishNode(node)
	}

	if !p.check(TokenLParen) {
		node.Incomplete = true
		return p.finishNode(node)
	}
	args := p.parseArguments()
	node.AddChild(args)
	if args.Incomplete {
		node.Incomplete = true
		return p.finishNode(node)
	}
	if p.check(TokenLBrace) {
		body := p.parseBody(KindAnonymousBody)
		node.AddChild(body)
		node.Incomplete = body.Incomplete
	}
	return p.finishNode(node)
}
