package parser

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	if p.expect(TokenLBrace) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	p.parseStatements(node, TokenRBrace)
	return p.closeWith(node, TokenRBrace)
}

// parseStatements adds statements to node until one of stops. An access
// modifier can only start a member, so it ends a block whose closing brace
// was never typed.
func (p *Parser) parseStatements(node *Node, stops ...TokenKind) {
	for !p.match(stops...) && !p.check(TokenEOF) {
		if p.atMemberStart() {
			return
		}
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progress() {
			node.AddChild(p.strayToken())
		}
	}
}

// parseStatement returns nil when no statement can start at the current
// token.
func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenEOF, TokenRBrace:
		return nil
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		node := p.startNode(KindSwitchStmt)
		p.advance()
		return p.parseSwitchBody(node)
	case TokenReturn:
		return p.parseKeywordStmt(KindReturnStmt, true)
	case TokenThrow:
		return p.parseKeywordStmt(KindThrowStmt, true)
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenTry:
		return p.parseTryStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenSynchronized:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseSynchronizedStmt()
		}
	case TokenYield:
		switch p.peekN(1).Kind {
		case TokenAssign, TokenLParen, TokenDot, TokenLBracket, TokenIncrement, TokenDecrement, TokenSemicolon:
		default:
			return p.parseKeywordStmt(KindYieldStmt, true)
		}
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenColon {
		return p.parseLabeledStmt()
	}
	if p.isLocalClassDecl() {
		node := p.startNode(KindLocalClassDecl)
		decl := p.parseTypeDeclAfterModifiers(p.parseModifiers())
		node.AddChild(decl)
		node.Incomplete = decl.Incomplete
		return p.finishNode(node)
	}
	if p.isLocalVarDecl() {
		node := p.parseLocalVarDecl()
		return p.closeWith(node, TokenSemicolon)
	}
	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	return p.closeWith(node, TokenSemicolon)
}

// skipModifiersAt returns the index of the first token at or after i that
// is neither a modifier keyword nor part of an annotation.
func (p *Parser) skipModifiersAt(i int) int {
	for {
		switch p.peekN(i).Kind {
		case TokenFinal, TokenAbstract, TokenStatic, TokenStrictfp, TokenSealed, TokenNonSealed:
			i++
		case TokenAt:
			if p.peekN(i+1).Kind == TokenInterface {
				return i
			}
			i = p.scanAnnotation(i)
		default:
			return i
		}
	}
}

func (p *Parser) isLocalClassDecl() bool {
	i := p.skipModifiersAt(0)
	switch p.peekN(i).Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenRecord:
		return isIdentKind(p.peekN(i+1).Kind) && (p.peekN(i+2).Kind == TokenLParen || p.peekN(i+2).Kind == TokenLT)
	case TokenAt:
		return p.peekN(i+1).Kind == TokenInterface
	}
	return false
}

// isLocalVarDecl looks ahead for a type followed by a variable name. A
// leading final or annotation commits to a declaration even when the rest
// has not been typed yet.
func (p *Parser) isLocalVarDecl() bool {
	i := p.skipModifiersAt(0)
	if i > 0 {
		return true
	}
	j := p.scanType(0)
	if j < 0 {
		return false
	}
	return isIdentKind(p.peekN(j).Kind)
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())
	typ := p.parseType()
	if typ == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	node.AddChild(typ)
	p.parseVariables(node)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(p.identifier())
	p.advance()
	return p.parseStmtBody(node)
}

// parseStmtBody adds the statement body of a compound statement to node.
func (p *Parser) parseStmtBody(node *Node) *Node {
	body := p.parseStatement()
	if body == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	node.AddChild(body)
	if body.Incomplete && p.check(TokenEOF) {
		node.Incomplete = true
	}
	return p.finishNode(node)
}

// parseCondition parses a parenthesized expression. It reports false when
// the closing parenthesis is missing, in which case no body should be
// parsed.
func (p *Parser) parseCondition(node *Node) bool {
	if p.expect(TokenLParen) == nil {
		node.Incomplete = true
		return false
	}
	if !p.atExpressionEnd() {
		node.AddChild(p.parseExpression())
	}
	if p.expect(TokenRParen) == nil {
		node.Incomplete = true
		return false
	}
	return true
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.advance()
	if !p.parseCondition(node) {
		return p.finishNode(node)
	}
	p.parseStmtBody(node)
	if p.check(TokenElse) {
		p.advance()
		node.Incomplete = false
		p.parseStmtBody(node)
	}
	return node
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.advance()
	if !p.parseCondition(node) {
		return p.finishNode(node)
	}
	return p.parseStmtBody(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.advance()
	p.parseStmtBody(node)
	if node.Incomplete {
		return node
	}
	if p.expect(TokenWhile) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	if !p.parseCondition(node) {
		return p.finishNode(node)
	}
	return p.closeWith(node, TokenSemicolon)
}

func (p *Parser) parseForStmt() *Node {
	node := p.startNode(KindForStmt)
	p.advance()
	if p.expect(TokenLParen) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}

	if p.isEnhancedFor() {
		node.Kind = KindEnhancedForStmt
		node.AddChild(p.parseLocalVarDecl())
		p.expect(TokenColon)
		if !p.atExpressionEnd() {
			node.AddChild(p.parseExpression())
		}
	} else {
		init := p.startNode(KindForInit)
		if !p.check(TokenSemicolon) {
			if p.isLocalVarDecl() {
				init.AddChild(p.parseLocalVarDecl())
			} else {
				p.parseExpressionList(init, TokenSemicolon)
			}
		}
		node.AddChild(p.finishNode(init))
		if p.expect(TokenSemicolon) == nil {
			node.Incomplete = true
			return p.finishNode(node)
		}
		if !p.check(TokenSemicolon) && !p.atExpressionEnd() {
			node.AddChild(p.parseExpression())
		}
		if p.expect(TokenSemicolon) == nil {
			node.Incomplete = true
			return p.finishNode(node)
		}
		update := p.startNode(KindForUpdate)
		p.parseExpressionList(update, TokenRParen)
		node.AddChild(p.finishNode(update))
	}

	if p.expect(TokenRParen) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	return p.parseStmtBody(node)
}

func (p *Parser) parseExpressionList(node *Node, stop TokenKind) {
	for !p.check(stop) && !p.atExpressionEnd() {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			return
		}
	}
}

// isEnhancedFor reports whether a ':' appears at nesting depth zero before
// the header of a for statement ends.
func (p *Parser) isEnhancedFor() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peekN(i).Kind {
		case TokenLParen, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			if depth == 0 {
				return false
			}
			depth--
		case TokenColon:
			if depth == 0 {
				return true
			}
		case TokenSemicolon, TokenLBrace, TokenRBrace, TokenEOF, TokenQuestion:
			return false
		}
	}
}

// parseSwitchBody parses the selector and the case groups of a switch
// statement or expression.
func (p *Parser) parseSwitchBody(node *Node) *Node {
	if !p.parseCondition(node) {
		return p.finishNode(node)
	}
	if p.expect(TokenLBrace) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) && !p.atMemberStart() {
		progress := p.mustProgress()
		if p.match(TokenCase, TokenDefault) {
			node.AddChild(p.parseSwitchCase())
		} else {
			node.AddChild(p.parseStatement())
		}
		if !progress() {
			node.AddChild(p.strayToken())
		}
	}
	return p.closeWith(node, TokenRBrace)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)
	if p.check(TokenDefault) {
		node.AddChild(leaf(KindIdentifier, p.advance()))
	} else {
		p.advance()
		for !p.match(TokenColon, TokenArrow) && !p.atExpressionEnd() {
			progress := p.mustProgress()
			node.AddChild(p.parseCaseLabel())
			if p.check(TokenComma) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
	}

	switch {
	case p.check(TokenArrow):
		p.advance()
		switch {
		case p.check(TokenLBrace):
			node.AddChild(p.parseBlock())
		case p.check(TokenThrow):
			node.AddChild(p.parseKeywordStmt(KindThrowStmt, true))
		default:
			node.AddChild(p.parseExprStmt())
		}
	case p.check(TokenColon):
		p.advance()
		p.parseStatements(node, TokenCase, TokenDefault, TokenRBrace)
	default:
		node.Incomplete = true
	}
	return p.finishNode(node)
}

// parseCaseLabel parses a constant, a type pattern with its binding or a
// guarded pattern.
func (p *Parser) parseCaseLabel() *Node {
	var label *Node
	if j := p.scanType(0); j > 0 && isIdentKind(p.peekN(j).Kind) {
		label = p.startNode(KindParameter)
		label.AddChild(p.parseType())
		label.AddChild(p.identifier())
		label = p.finishNode(label)
	} else {
		label = p.parseTernary()
	}
	if p.check(TokenIdent) && p.peek().Literal == "when" {
		p.advance()
		guarded := &Node{Kind: KindBinaryExpr, Span: label.Span}
		guarded.AddChild(label)
		guarded.AddChild(p.parseExpression())
		return p.finishNode(guarded)
	}
	return label
}

func (p *Parser) parseKeywordStmt(kind NodeKind, withExpr bool) *Node {
	node := p.startNode(kind)
	p.advance()
	if withExpr && !p.atExpressionEnd() {
		node.AddChild(p.parseExpression())
	}
	return p.closeWith(node, TokenSemicolon)
}

func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	node.AddChild(p.identifier())
	return p.closeWith(node, TokenSemicolon)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.advance()
	if !p.atExpressionEnd() {
		node.AddChild(p.parseExpression())
	}
	if p.check(TokenColon) {
		p.advance()
		if !p.atExpressionEnd() {
			node.AddChild(p.parseExpression())
		}
	}
	return p.closeWith(node, TokenSemicolon)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.advance()
	if !p.parseCondition(node) {
		return p.finishNode(node)
	}
	block := p.parseBlock()
	node.AddChild(block)
	node.Incomplete = block.Incomplete
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.advance()

	if p.check(TokenLParen) {
		p.advance()
		for !p.match(TokenRParen, TokenLBrace, TokenRBrace, TokenEOF) && !p.atMemberStart() {
			progress := p.mustProgress()
			res := p.startNode(KindResource)
			if p.isLocalVarDecl() {
				res.AddChild(p.parseLocalVarDecl())
			} else {
				res.AddChild(p.parseExpression())
			}
			node.AddChild(p.finishNode(res))
			if p.check(TokenSemicolon) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		if p.expect(TokenRParen) == nil {
			node.Incomplete = true
			return p.finishNode(node)
		}
	}

	if !p.check(TokenLBrace) {
		node.Incomplete = true
		return p.finishNode(node)
	}
	block := p.parseBlock()
	node.AddChild(block)
	node.Incomplete = block.Incomplete

	for p.check(TokenCatch) && !node.Incomplete {
		clause := p.parseCatchClause()
		node.AddChild(clause)
		node.Incomplete = clause.Incomplete
	}
	if p.check(TokenFinally) && !node.Incomplete {
		clause := p.startNode(KindFinallyClause)
		p.advance()
		block := p.parseBlock()
		clause.AddChild(block)
		clause.Incomplete = block.Incomplete
		node.AddChild(p.finishNode(clause))
		node.Incomplete = clause.Incomplete
	}
	return p.finishNode(node)
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.advance()
	if p.expect(TokenLParen) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	param := p.startNode(KindParameter)
	param.AddChild(p.parseModifiers())
	for {
		typ := p.parseType()
		if typ == nil {
			break
		}
		param.AddChild(typ)
		if !p.check(TokenBitOr) {
			break
		}
		p.advance()
	}
	param.AddChild(p.identifier())
	node.AddChild(p.finishNode(param))
	if p.expect(TokenRParen) == nil {
		node.Incomplete = true
		return p.finishNode(node)
	}
	block := p.parseBlock()
	node.AddChild(block)
	node.Incomplete = block.Incomplete
	return p.finishNode(node)
}
