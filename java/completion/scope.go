package completion

import (
	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

// env is the semantic side of one query: the skeleton together with the
// source file declared against the class index.
type env struct {
	*skeleton
	file  *java.SourceFile
	index java.ClassIndex

	localTypes  map[int]java.Signature
	evaluating  map[*parser.Node]bool
	occurrences map[*parser.Node]map[string][]int
}

func newEnv(file *java.SourceFile, tokens []parser.Token) *env {
	return &env{
		skeleton:    newSkeleton(file.Unit, tokens),
		file:        file,
		index:       file.Index(),
		localTypes:  make(map[int]java.Signature),
		evaluating:  make(map[*parser.Node]bool),
		occurrences: make(map[*parser.Node]map[string][]int),
	}
}

// frame is the declaration context of a node: the innermost type, the
// type variables in scope and the member that owns local declarations.
type frame struct {
	class    *java.ClassModel
	typeVars []string
	owner    *parser.Node
}

// frames computes the frame of every node on path.
func (e *env) frames(path []*parser.Node) []frame {
	frames := make([]frame, len(path))
	var cur frame
	for i, n := range path {
		switch {
		case n.Kind.IsTypeDecl(), n.Kind == parser.KindAnonymousBody:
			if c := e.file.ClassOf(n); c != nil {
				cur = frame{class: c, typeVars: concat(cur.typeVars, c.TypeParameters)}
			}
		case n.Kind == parser.KindMethodDecl, n.Kind == parser.KindConstructorDecl:
			cur.owner = n
			if m, _, ok := e.file.MethodOf(n); ok {
				cur.typeVars = concat(cur.typeVars, m.TypeParameters)
			}
		case n.Kind == parser.KindInitializer:
			cur.owner = n
		case n.Kind == parser.KindVariable && i > 0 && path[i-1].Kind == parser.KindFieldDecl:
			cur.owner = n
		}
		frames[i] = cur
	}
	return frames
}

func concat(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	return append(append([]string(nil), a...), b...)
}

func (e *env) resolveType(typ *parser.Node, f frame) java.Signature {
	if e.file.Resolver == nil {
		return ""
	}
	return e.file.Resolver.ResolveType(typ, f.class, f.typeVars)
}

// ownerHandle returns the handle of the method, initializer or field that
// owns the locals of f.
func (e *env) ownerHandle(f frame) (java.Handle, bool) {
	if f.owner == nil {
		return java.Handle{}, false
	}
	switch f.owner.Kind {
	case parser.KindMethodDecl, parser.KindConstructorDecl:
		_, h, ok := e.file.MethodOf(f.owner)
		return h, ok
	case parser.KindInitializer:
		return e.file.InitializerOf(f.owner)
	case parser.KindVariable:
		if f.class != nil {
			if field := f.class.Field(f.owner.Name()); field != nil {
				return f.class.FieldHandle(*field), true
			}
		}
	}
	return java.Handle{}, false
}

// local is a local variable, parameter, pattern binding or local class.
// Its type is resolved lazily because var declarations need the type of
// their initializer.
type local struct {
	name  string
	pos   int
	param bool
	sig   java.Signature
	typ   *parser.Node
	dims  int
	init  *parser.Node
	elem  *parser.Node
	class *java.ClassModel
}

// scope is one level of what is visible at a position. Locals are in
// declaration order.
type scope struct {
	frame  frame
	locals []local
	member *java.Handle
	class  *java.ClassModel
}

// scopes returns the scopes enclosing pos, innermost first. Only locals
// declared before pos are included.
func (e *env) scopes(path []*parser.Node, pos int) []scope {
	frames := e.frames(path)
	var scopes []scope
	for i := len(path) - 1; i >= 0; i-- {
		var child *parser.Node
		if i+1 < len(path) {
			child = path[i+1]
		}
		sc := e.scopeOf(path[i], child, pos, frames[i])
		if len(sc.locals) > 0 || sc.member != nil || sc.class != nil {
			scopes = append(scopes, sc)
		}
	}
	return scopes
}

func (e *env) scopeOf(n, child *parser.Node, pos int, f frame) scope {
	sc := scope{frame: f}
	switch n.Kind {
	case parser.KindBlock:
		sc.locals = e.statementLocals(n.Children, pos)

	case parser.KindSwitchCase:
		var stmts []*parser.Node
		for _, c := range n.Children {
			switch {
			case c.Kind == parser.KindParameter:
				sc.locals = append(sc.locals, e.parameterLocal(c, f))
			case c.Kind == parser.KindBinaryExpr && len(c.Children) > 0 && c.Children[0].Kind == parser.KindParameter:
				sc.locals = append(sc.locals, e.parameterLocal(c.Children[0], f))
			case c.Kind.IsStatement():
				stmts = append(stmts, c)
			}
		}
		if colon := e.caseBodyStart(n); colon < 0 || pos < colon {
			sc.locals = nil
		}
		sc.locals = append(sc.locals, e.statementLocals(stmts, pos)...)

	case parser.KindForStmt:
		if init := n.FirstChildOfKind(parser.KindForInit); init != nil {
			for _, decl := range init.ChildrenOfKind(parser.KindLocalVarDecl) {
				sc.locals = append(sc.locals, variableLocals(decl, pos)...)
			}
		}

	case parser.KindEnhancedForStmt:
		if end := e.headerEnd(n); end >= 0 && pos >= end {
			if decl := n.FirstChildOfKind(parser.KindLocalVarDecl); decl != nil {
				sc.locals = variableLocals(decl, pos)
				if len(sc.locals) == 1 && len(n.Children) > 1 && sc.locals[0].init == nil && isVar(decl) {
					sc.locals[0].elem = n.Children[1]
				}
			}
		}

	case parser.KindCatchClause:
		if child != nil && child.Kind == parser.KindBlock {
			if param := n.FirstChildOfKind(parser.KindParameter); param != nil {
				sc.locals = append(sc.locals, e.parameterLocal(param, f))
			}
		}

	case parser.KindTryStmt:
		if child != nil && (child.Kind == parser.KindResource || child == n.FirstChildOfKind(parser.KindBlock)) {
			for _, res := range n.ChildrenOfKind(parser.KindResource) {
				if res.Start() >= pos {
					break
				}
				if decl := res.FirstChildOfKind(parser.KindLocalVarDecl); decl != nil {
					sc.locals = append(sc.locals, variableLocals(decl, pos)...)
				}
			}
		}

	case parser.KindLambdaExpr:
		if child != nil && child.Kind != parser.KindParameters {
			if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
				for _, p := range params.ChildrenOfKind(parser.KindParameter) {
					sc.locals = append(sc.locals, e.parameterLocal(p, f))
				}
			}
		}

	case parser.KindMethodDecl, parser.KindConstructorDecl:
		if child != nil && child.Kind == parser.KindBlock {
			sc.locals = e.methodParameters(n, f)
		}
		if _, h, ok := e.file.MethodOf(n); ok {
			sc.member = &h
		}

	case parser.KindInitializer:
		if h, ok := e.file.InitializerOf(n); ok {
			sc.member = &h
		}

	case parser.KindIfStmt, parser.KindWhileStmt:
		if child != nil && len(n.Children) > 1 && child == n.Children[1] {
			sc.locals = e.bindings(n.Children[0], f)
		}

	case parser.KindTernaryExpr:
		if child != nil && len(n.Children) > 2 && child == n.Children[2] {
			sc.locals = e.bindings(n.Children[0], f)
		}

	case parser.KindBinaryExpr:
		if isConditionalAnd(n) && child == n.Children[2] {
			sc.locals = e.bindings(n.Children[0], f)
		}

	case parser.KindAnonymousBody:
		sc.class = e.file.ClassOf(n)

	default:
		if n.Kind.IsTypeDecl() && child != nil && child.Kind == parser.KindClassBody {
			sc.class = e.file.ClassOf(n)
		}
	}
	return sc
}

// statementLocals collects the locals and local classes declared by
// statements starting before pos.
func (e *env) statementLocals(stmts []*parser.Node, pos int) []local {
	var locals []local
	for _, stmt := range stmts {
		if stmt.Start() >= pos {
			break
		}
		switch stmt.Kind {
		case parser.KindLocalVarDecl:
			locals = append(locals, variableLocals(stmt, pos)...)
		case parser.KindLocalClassDecl:
			for _, decl := range stmt.Children {
				if c := e.file.ClassOf(decl); c != nil {
					locals = append(locals, local{name: c.SimpleName, pos: decl.Start(), class: c})
				}
			}
		}
	}
	return locals
}

// variableLocals returns the variables of a local declaration whose name
// ends before pos.
func variableLocals(decl *parser.Node, pos int) []local {
	typ := decl.FirstChildOfKind(parser.KindType)
	var locals []local
	for _, v := range decl.ChildrenOfKind(parser.KindVariable) {
		id := v.FirstChildOfKind(parser.KindIdentifier)
		if id == nil || id.End() > pos {
			break
		}
		l := local{name: id.TokenLiteral(), pos: id.Start(), typ: typ, dims: dims(v)}
		if isVar(decl) {
			l.init = initializer(v)
		}
		locals = append(locals, l)
	}
	return locals
}

func isVar(decl *parser.Node) bool {
	typ := decl.FirstChildOfKind(parser.KindType)
	return typ != nil && typ.QualifiedName() == "var"
}

// initializer returns the initializer expression of a Variable node.
func initializer(v *parser.Node) *parser.Node {
	for _, c := range v.Children[1:] {
		if c.Kind != parser.KindDims {
			return c
		}
	}
	return nil
}

func dims(n *parser.Node) int {
	if d := n.FirstChildOfKind(parser.KindDims); d != nil {
		return len(d.Children)
	}
	return 0
}

func (e *env) parameterLocal(param *parser.Node, f frame) local {
	pos := -1
	if id := param.FirstChildOfKind(parser.KindIdentifier); id != nil {
		pos = id.Start()
	}
	l := local{name: param.Name(), pos: pos, param: true}
	if e.file.Resolver != nil {
		model, _ := e.file.ParameterOf(param, f.class, f.typeVars)
		l.sig = model.Type
	}
	return l
}

// methodParameters lists the parameters of a method or constructor. A
// compact record constructor takes them from the record components.
func (e *env) methodParameters(decl *parser.Node, f frame) []local {
	var locals []local
	if params := decl.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, p := range params.ChildrenOfKind(parser.KindParameter) {
			if p.Name() != "" {
				locals = append(locals, e.parameterLocal(p, f))
			}
		}
		return locals
	}
	if m, _, ok := e.file.MethodOf(decl); ok {
		for _, p := range m.Parameters {
			locals = append(locals, local{name: p.Name, pos: -1, param: true, sig: p.Type})
		}
	}
	return locals
}

// bindings returns the pattern variables introduced when cond is true.
func (e *env) bindings(cond *parser.Node, f frame) []local {
	if cond == nil {
		return nil
	}
	switch cond.Kind {
	case parser.KindInstanceofExpr:
		for i, c := range cond.Children {
			if c.Kind == parser.KindType && i+1 < len(cond.Children) && cond.Children[i+1].Kind == parser.KindIdentifier {
				id := cond.Children[i+1]
				return []local{{name: id.TokenLiteral(), pos: id.Start(), typ: c}}
			}
		}
	case parser.KindParenExpr:
		if len(cond.Children) > 0 {
			return e.bindings(cond.Children[0], f)
		}
	case parser.KindBinaryExpr:
		if isConditionalAnd(cond) {
			return append(e.bindings(cond.Children[0], f), e.bindings(cond.Children[2], f)...)
		}
	}
	return nil
}

func isConditionalAnd(n *parser.Node) bool {
	return n.Kind == parser.KindBinaryExpr && len(n.Children) == 3 && n.Children[1].TokenLiteral() == "&&"
}

// localType resolves the type of l. var locals take the type of their
// initializer, var loop variables the element type of the array they
// iterate.
func (e *env) localType(l local, f frame) java.Signature {
	switch {
	case l.class != nil:
		return l.class.Signature()
	case l.sig != "":
		return l.sig
	case l.typ == nil:
		return ""
	}
	if sig, ok := e.localTypes[l.pos]; ok {
		return sig
	}
	sig := e.resolveType(l.typ, f)
	switch {
	case sig != "":
		sig = sig.ArrayOf(l.dims)
	case l.init != nil:
		sig = e.typeOf(l.init)
	case l.elem != nil:
		if iter := e.typeOf(l.elem); iter.IsArray() {
			sig = iter.Elem()
		}
	}
	e.localTypes[l.pos] = sig
	return sig
}

// occurrence numbers l among the locals of the same name declared inside
// the owner of f.
func (e *env) occurrence(l local, f frame) int {
	if l.pos < 0 || f.owner == nil {
		return 1
	}
	decls, ok := e.occurrences[f.owner]
	if !ok {
		decls = make(map[string][]int)
		collectLocalDecls(f.owner, decls)
		e.occurrences[f.owner] = decls
	}
	n := 1
	for _, p := range decls[l.name] {
		if p < l.pos {
			n++
		}
	}
	return n
}

func collectLocalDecls(n *parser.Node, decls map[string][]int) {
	record := func(id *parser.Node) {
		if id != nil {
			decls[id.TokenLiteral()] = append(decls[id.TokenLiteral()], id.Start())
		}
	}
	for _, c := range n.Children {
		switch {
		case c.Kind.IsTypeDecl(), c.Kind == parser.KindAnonymousBody:
			continue
		case c.Kind == parser.KindLocalVarDecl:
			for _, v := range c.ChildrenOfKind(parser.KindVariable) {
				record(v.FirstChildOfKind(parser.KindIdentifier))
			}
		case c.Kind == parser.KindParameter:
			record(c.FirstChildOfKind(parser.KindIdentifier))
		case c.Kind == parser.KindInstanceofExpr:
			for i, t := range c.Children {
				if t.Kind == parser.KindType && i+1 < len(c.Children) && c.Children[i+1].Kind == parser.KindIdentifier {
					record(c.Children[i+1])
				}
			}
		}
		collectLocalDecls(c, decls)
	}
}
