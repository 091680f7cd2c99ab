package parser

import "io"

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

// Parser is a recursive-descent parser that builds a skeleton of a
// compilation unit from arbitrary input. A missing closing token never
// aborts the parse; the affected node is marked Incomplete instead.
type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	tokens          []Token
	comments        []Token
	pos             int
	eof             Position
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for parsing an in-memory compilation unit.
func Parse(input []byte, opts ...Option) (*Node, []Token) {
	p := &Parser{input: input}
	for _, opt := range opts {
		opt(p)
	}
	unit := p.Finish()
	return unit, p.tokens
}

// Tokens returns the significant tokens of the last parse, terminated by
// TokenEOF.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func (p *Parser) readAll() {
	if p.input != nil || p.reader == nil {
		return
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		// whatever was read before the failure is still parsed
		p.input = data
		return
	}
	p.input = data
}

// Finish parses the input and returns the compilation unit. The result is
// never nil.
func (p *Parser) Finish() *Node {
	p.readAll()
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.tokenize()
	return p.parseCompilationUnit()
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
}

func (p *Parser) tokenize() {
	for _, tok := range Tokenize(p.input, p.file) {
		if tok.Kind.IsComment() {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			p.eof = tok.Span.Start
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF, Span: Span{Start: p.eof, End: p.eof}}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenVar, TokenYield, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) identifier() *Node {
	if !p.isIdentifierLike() {
		return nil
	}
	tok := p.advance()
	return leaf(KindIdentifier, tok)
}

func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start, End: p.peek().Span.Start},
	}
}

// startDecl starts a declaration whose modifiers were already consumed.
func (p *Parser) startDecl(kind NodeKind, modifiers *Node) *Node {
	node := p.startNode(kind)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}
	return node
}

// finishNode sets the end of n to the end of the last consumed token or
// child, whichever is further. Incomplete nodes that ran into the end of
// input are extended to it.
func (p *Parser) finishNode(n *Node) *Node {
	end := n.Span.Start
	if p.pos > 0 && p.pos <= len(p.tokens) {
		if last := p.tokens[p.pos-1]; last.Kind != TokenEOF && last.End() > end.Offset {
			end = last.Span.End
		}
	}
	for _, child := range n.Children {
		if child.End() > end.Offset {
			end = child.Span.End
		}
	}
	n.Span.End = end
	if n.Incomplete && p.check(TokenEOF) {
		n.Span.End = p.eof
	}
	return n
}

// closeWith consumes the terminator of n or marks n as incomplete.
func (p *Parser) closeWith(n *Node, kind TokenKind) *Node {
	if p.expect(kind) == nil {
		n.Incomplete = true
	}
	return p.finishNode(n)
}

// syncTokens are never swallowed by error recovery; enclosing constructs
// need them to find their own end.
var syncTokens = map[TokenKind]bool{
	TokenEOF:       true,
	TokenSemicolon: true,
	TokenComma:     true,
	TokenRParen:    true,
	TokenRBrace:    true,
	TokenRBracket:  true,
	TokenPublic:    true,
	TokenPrivate:   true,
	TokenProtected: true,
}

func (p *Parser) errorNode(msg string, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	if !syncTokens[tok.Kind] {
		p.advance()
		node.Span.End = tok.Span.End
	}
	return node
}

func (p *Parser) parseCompilationUnit() *Node {
	node := &Node{
		Kind: KindCompilationUnit,
		Span: Span{Start: Position{File: p.file, Offset: 0, Line: 1, Column: 1}},
	}

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) || p.check(TokenSemicolon) {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		switch {
		case p.check(TokenSemicolon):
			p.advance()
		case p.check(TokenImport):
			node.AddChild(p.parseImportDecl())
		default:
			node.AddChild(p.parseTypeDecl())
		}
		if !progress() {
			node.AddChild(p.strayToken())
		}
	}

	node.Span.End = p.eof
	return node
}

// strayToken records the token mustProgress just skipped.
func (p *Parser) strayToken() *Node {
	if p.pos == 0 {
		return nil
	}
	tok := p.tokens[p.pos-1]
	return &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: "unexpected " + tok.Kind.String(), Got: &tok},
	}
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) || p.peekN(1).Kind == TokenInterface {
		return false
	}
	save := p.pos
	defer func() { p.pos = save }()
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	return p.check(TokenPackage)
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	p.expect(TokenPackage)
	node.AddChild(p.parseDottedName(false))
	return p.closeWith(node, TokenSemicolon)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)
	if p.check(TokenStatic) {
		node.AddChild(leaf(KindIdentifier, p.advance()))
	}
	node.AddChild(p.parseDottedName(true))
	return p.closeWith(node, TokenSemicolon)
}

// parseDottedName parses a package or import name. A trailing dot is
// consumed so the name covers everything typed so far.
func (p *Parser) parseDottedName(allowStar bool) *Node {
	node := p.startNode(KindQualifiedName)
	if id := p.identifier(); id != nil {
		node.AddChild(id)
	} else {
		node.Incomplete = true
		return p.finishNode(node)
	}
	for p.check(TokenDot) {
		p.advance()
		if id := p.identifier(); id != nil {
			node.AddChild(id)
			continue
		}
		if allowStar && p.check(TokenStar) {
			node.AddChild(leaf(KindIdentifier, p.advance()))
			break
		}
		node.Incomplete = true
		break
	}
	return p.finishNode(node)
}

// parseQualifiedName parses an expression-free dotted name without
// consuming a trailing dot.
func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	id := p.identifier()
	if id == nil {
		return nil
	}
	node.AddChild(id)
	for p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
		p.advance()
		node.AddChild(p.identifier())
	}
	return p.finishNode(node)
}

func isIdentKind(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenVar, TokenYield, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) isTypeDeclStart() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenRecord:
		return isIdentKind(p.peekN(1).Kind)
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	}
	return false
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()
	if p.isTypeDeclStart() {
		return p.parseTypeDeclAfterModifiers(modifiers)
	}
	if modifiers != nil {
		node := p.startDecl(KindError, modifiers)
		node.Error = &Error{
			Message:  "expected class, interface, enum, record, or @interface",
			Expected: []TokenKind{TokenClass, TokenInterface, TokenEnum, TokenRecord},
		}
		node.Incomplete = true
		return p.finishNode(node)
	}
	return p.errorNode("expected type declaration", TokenClass, TokenInterface, TokenEnum, TokenRecord)
}

func (p *Parser) parseTypeDeclAfterModifiers(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenInterface:
		return p.parseTypeHeader(KindInterfaceDecl, modifiers)
	case TokenEnum:
		return p.parseTypeHeader(KindEnumDecl, modifiers)
	case TokenRecord:
		return p.parseTypeHeader(KindRecordDecl, modifiers)
	case TokenAt:
		return p.parseTypeHeader(KindAnnotationDecl, modifiers)
	}
	return p.parseTypeHeader(KindClassDecl, modifiers)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishModifiers(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenTransient, TokenVolatile,
			TokenSealed, TokenNonSealed:
			node.AddChild(leaf(KindIdentifier, p.advance()))
		case TokenSynchronized, TokenDefault:
			// statement keywords inside blocks; only modifiers here when
			// not followed by their statement syntax
			if p.peekN(1).Kind == TokenLParen || p.peekN(1).Kind == TokenColon || p.peekN(1).Kind == TokenArrow {
				return p.finishModifiers(node)
			}
			node.AddChild(leaf(KindIdentifier, p.advance()))
		default:
			return p.finishModifiers(node)
		}
	}
}

func (p *Parser) finishModifiers(node *Node) *Node {
	if len(node.Children) == 0 {
		return nil
	}
	return p.finishNode(node)
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	if name := p.parseQualifiedName(); name != nil {
		node.AddChild(name)
	}
	if p.check(TokenLParen) {
		p.advance()
		depth := 1
		for depth > 0 && !p.check(TokenEOF) {
			switch p.peek().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			case TokenSemicolon:
				if depth == 1 {
					node.Incomplete = true
					return p.finishNode(node)
				}
			}
			p.advance()
		}
		if depth > 0 {
			node.Incomplete = true
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeHeader(kind NodeKind, modifiers *Node) *Node {
	node := p.startDecl(kind, modifiers)
	if kind == KindAnnotationDecl {
		p.expect(TokenAt)
	}
	p.advance() // class, interface, enum, record or interface after @

	if id := p.identifier(); id != nil {
		node.AddChild(id)
	}
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if kind == KindRecordDecl && p.check(TokenLParen) {
		node.AddChild(p.parseRecordComponents())
	}
	for p.match(TokenExtends, TokenImplements, TokenPermits) {
		node.AddChild(p.parseSuperClause())
	}

	if !p.check(TokenLBrace) && !p.skipHeaderJunk(node) {
		node.Incomplete = true
		return p.finishNode(node)
	}

	body := p.startNode(KindClassBody)
	p.advance()
	if kind == KindEnumDecl {
		p.parseEnumConstants(body)
	}
	p.parseMembers(body)
	node.AddChild(p.closeWith(body, TokenRBrace))
	node.Incomplete = body.Incomplete
	return p.finishNode(node)
}

// skipHeaderJunk skips unexpected tokens between a type header and its
// body when a body brace follows before anything that ends a declaration.
func (p *Parser) skipHeaderJunk(node *Node) bool {
	for i := 0; ; i++ {
		switch p.peekN(i).Kind {
		case TokenLBrace:
			if i == 0 {
				return true
			}
			junk := &Node{Kind: KindError, Span: Span{Start: p.peek().Span.Start, End: p.peekN(i - 1).Span.End}}
			junk.Error = &Error{Message: "unexpected tokens in type header", Got: &p.tokens[p.pos]}
			node.AddChild(junk)
			p.pos += i
			return true
		case TokenEOF, TokenSemicolon, TokenRBrace, TokenClass, TokenInterface, TokenEnum:
			return false
		}
	}
}

func (p *Parser) parseSuperClause() *Node {
	kind := KindExtendsClause
	switch p.peek().Kind {
	case TokenImplements:
		kind = KindImplementsClause
	case TokenPermits:
		kind = KindPermitsClause
	}
	node := p.startNode(kind)
	p.advance()
	for {
		typ := p.parseType()
		if typ == nil {
			node.Incomplete = true
			break
		}
		node.AddChild(typ)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseRecordComponents() *Node {
	node := p.startNode(KindRecordComponents)
	p.parseParameterList(node)
	return node
}

func (p *Parser) parseEnumConstants(body *Node) {
	for !p.match(TokenSemicolon, TokenRBrace, TokenEOF) {
		progress := p.mustProgress()
		if !p.isIdentifierLike() && !p.check(TokenAt) {
			return
		}
		save := p.pos
		node := p.startNode(KindEnumConstant)
		for p.check(TokenAt) {
			node.AddChild(p.parseAnnotation())
		}
		id := p.identifier()
		if id == nil || !p.match(TokenComma, TokenSemicolon, TokenRBrace, TokenLParen, TokenLBrace, TokenEOF) {
			// a member declaration, not a constant
			p.pos = save
			return
		}
		node.AddChild(id)
		if p.check(TokenLParen) {
			node.AddChild(p.parseArguments())
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseBody(KindAnonymousBody))
		}
		body.AddChild(p.finishNode(node))
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			return
		}
	}
	p.expect(TokenSemicolon)
}

func (p *Parser) parseBody(kind NodeKind) *Node {
	body := p.startNode(kind)
	p.expect(TokenLBrace)
	p.parseMembers(body)
	return p.closeWith(body, TokenRBrace)
}

func (p *Parser) parseMembers(body *Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		body.AddChild(p.parseMember())
		if !progress() {
			body.AddChild(p.strayToken())
		}
	}
}

func (p *Parser) isTypeStart() bool {
	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid, TokenAt:
		return true
	}
	return p.isIdentifierLike()
}

func (p *Parser) parseMember() *Node {
	start := p.peek().Span.Start
	node := p.parseMemberDecl()
	if node != nil && start.Offset < node.Start() {
		node.Span.Start = start
	}
	return node
}

func (p *Parser) parseMemberDecl() *Node {
	switch {
	case p.check(TokenSemicolon):
		p.advance()
		return nil
	case p.check(TokenLBrace):
		node := p.startNode(KindInitializer)
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	case p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		node := p.startNode(KindInitializer)
		mods := p.startNode(KindModifiers)
		mods.AddChild(leaf(KindIdentifier, p.advance()))
		node.AddChild(p.finishNode(mods))
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()
	if p.isTypeDeclStart() {
		return p.parseTypeDeclAfterModifiers(modifiers)
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseCompactConstructor(modifiers)
	}

	if p.isTypeStart() {
		typ := p.parseType()
		if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, typeParams, typ)
		}
		if p.isIdentifierLike() {
			return p.parseField(modifiers, typ)
		}
		kind := KindFieldDecl
		if typeParams != nil || (typ != nil && typ.QualifiedName() == "void") {
			kind = KindMethodDecl
		}
		node := p.startDecl(kind, modifiers)
		node.AddChild(typeParams)
		node.AddChild(typ)
		node.Incomplete = true
		return p.finishNode(node)
	}

	if modifiers != nil || typeParams != nil {
		node := p.startDecl(KindFieldDecl, modifiers)
		node.AddChild(typeParams)
		node.Incomplete = true
		return p.finishNode(node)
	}

	return p.errorNode("expected member declaration")
}

func (p *Parser) parseConstructor(modifiers, typeParams *Node) *Node {
	node := p.startDecl(KindConstructorDecl, modifiers)
	node.AddChild(typeParams)
	node.AddChild(p.identifier())
	node.AddChild(p.parseParameters())
	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}
	return p.finishMethodBody(node)
}

func (p *Parser) parseCompactConstructor(modifiers *Node) *Node {
	node := p.startDecl(KindConstructorDecl, modifiers)
	node.AddChild(p.identifier())
	return p.finishMethodBody(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node) *Node {
	node := p.startDecl(KindMethodDecl, modifiers)
	if typeParams != nil {
		node.Span.Start = minPosition(node.Span.Start, typeParams.Span.Start)
	}
	node.AddChild(typeParams)
	if returnType != nil {
		node.Span.Start = minPosition(node.Span.Start, returnType.Span.Start)
	}
	node.AddChild(returnType)
	node.AddChild(p.identifier())
	node.AddChild(p.parseParameters())
	node.AddChild(p.parseDims())
	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}
	if p.check(TokenDefault) {
		p.advance()
		node.AddChild(p.parseExpression())
		return p.closeWith(node, TokenSemicolon)
	}
	return p.finishMethodBody(node)
}

func minPosition(a, b Position) Position {
	if b.Offset < a.Offset {
		return b
	}
	return a
}

func (p *Parser) finishMethodBody(node *Node) *Node {
	switch {
	case p.check(TokenLBrace):
		body := p.parseBlock()
		node.AddChild(body)
		node.Incomplete = body.Incomplete
		return p.finishNode(node)
	case p.check(TokenSemicolon):
		p.advance()
		return p.finishNode(node)
	}
	node.Incomplete = true
	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startDecl(KindFieldDecl, modifiers)
	if typ != nil {
		node.Span.Start = minPosition(node.Span.Start, typ.Span.Start)
	}
	node.AddChild(typ)
	p.parseVariables(node)
	return p.closeWith(node, TokenSemicolon)
}

// parseVariables parses one or more comma separated declarators into node.
func (p *Parser) parseVariables(node *Node) {
	for {
		v := p.startNode(KindVariable)
		id := p.identifier()
		if id == nil {
			return
		}
		v.AddChild(id)
		v.AddChild(p.parseDims())
		if p.check(TokenAssign) {
			p.advance()
			if init := p.parseVarInitializer(); init != nil {
				v.AddChild(init)
			} else {
				v.Incomplete = true
			}
		}
		node.AddChild(p.finishNode(v))
		if !p.check(TokenComma) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseVarInitializer() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	if p.match(TokenSemicolon, TokenRBrace, TokenComma, TokenEOF) {
		return nil
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)
	for !p.match(TokenRBrace, TokenSemicolon, TokenEOF) && !p.atMemberStart() {
		progress := p.mustProgress()
		if init := p.parseVarInitializer(); init != nil {
			node.AddChild(init)
		}
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	return p.closeWith(node, TokenRBrace)
}

func (p *Parser) parseDims() *Node {
	if !p.check(TokenLBracket) || p.peekN(1).Kind != TokenRBracket {
		return nil
	}
	node := p.startNode(KindDims)
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		tok := p.advance()
		node.AddChild(leaf(KindIdentifier, tok))
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	if !p.check(TokenLParen) {
		node.Incomplete = true
		return p.finishNode(node)
	}
	p.parseParameterList(node)
	return node
}

func (p *Parser) parseParameterList(node *Node) {
	p.expect(TokenLParen)
	for !p.match(TokenRParen, TokenLBrace, TokenSemicolon, TokenRBrace, TokenEOF) && !p.atMemberStart() {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	p.closeWith(node, TokenRParen)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	if typ := p.parseType(); typ != nil {
		node.AddChild(typ)
	} else {
		node.Incomplete = true
		return p.finishNode(node)
	}
	if p.check(TokenEllipsis) {
		dims := p.startNode(KindDims)
		dims.AddChild(leaf(KindIdentifier, p.advance()))
		node.AddChild(p.finishNode(dims))
	}
	if p.check(TokenThis) {
		// receiver parameter
		node.AddChild(leaf(KindThis, p.advance()))
		return p.finishNode(node)
	}
	if id := p.identifier(); id != nil {
		node.AddChild(id)
	} else {
		node.Incomplete = true
	}
	node.AddChild(p.parseDims())
	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)
	for {
		typ := p.parseType()
		if typ == nil {
			node.Incomplete = true
			break
		}
		node.AddChild(typ)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)
	for !p.match(TokenGT, TokenLBrace, TokenLParen, TokenEOF) {
		progress := p.mustProgress()
		param := p.startNode(KindTypeParameter)
		for p.check(TokenAt) {
			param.AddChild(p.parseAnnotation())
		}
		param.AddChild(p.identifier())
		if p.check(TokenExtends) {
			p.advance()
			for {
				param.AddChild(p.parseType())
				if !p.check(TokenBitAnd) {
					break
				}
				p.advance()
			}
		}
		node.AddChild(p.finishNode(param))
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	if !p.closeAngle() {
		node.Incomplete = true
	}
	return p.finishNode(node)
}

// parseType parses a possibly qualified, parameterized and array type. It
// returns nil without consuming anything when no type starts here.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		node.AddChild(leaf(KindIdentifier, p.advance()))
	default:
		id := p.identifier()
		if id == nil {
			if len(node.Children) == 0 {
				return nil
			}
			node.Incomplete = true
			return p.finishNode(node)
		}
		node.AddChild(id)
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		for p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
			p.advance()
			node.AddChild(p.identifier())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	}

	node.AddChild(p.parseDims())
	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)
	for !p.match(TokenGT, TokenShr, TokenUShr, TokenSemicolon, TokenLBrace, TokenRParen, TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenQuestion) {
			w := p.startNode(KindWildcard)
			p.advance()
			if p.match(TokenExtends, TokenSuper) {
				w.AddChild(leaf(KindIdentifier, p.advance()))
				w.AddChild(p.parseType())
			}
			node.AddChild(p.finishNode(w))
		} else {
			node.AddChild(p.parseType())
		}
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	if !p.closeAngle() {
		node.Incomplete = true
	}
	return p.finishNode(node)
}

// closeAngle consumes a single '>', splitting '>>' and '>>>' tokens that
// close nested type argument lists.
func (p *Parser) closeAngle() bool {
	var rest TokenKind
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		rest = TokenGT
	case TokenUShr:
		rest = TokenShr
	default:
		return false
	}
	tok := p.tokens[p.pos]
	start := tok.Span.Start
	start.Offset++
	start.Column++
	p.tokens[p.pos] = Token{
		Kind:    rest,
		Span:    Span{Start: start, End: tok.Span.End},
		Literal: tok.Literal[1:],
	}
	return true
}
