package completion

import (
	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

// ExpectedTypes infers the types the expression at tok must be assignable
// to. It returns nil when nothing can be said. A string literal always
// expects java.lang.String.
func ExpectedTypes(file *java.SourceFile, tokens []parser.Token, tok Token) []java.Signature {
	switch tok.Kind {
	case TokenStringLiteral:
		return []java.Signature{java.SigString}
	case TokenName:
		return newEnv(file, tokens).expected(tok.Start)
	}
	return nil
}

func (e *env) expected(pos int) []java.Signature {
	path := e.path(pos)
	return e.expectedFrom(path, e.frames(path), len(path)-1, pos)
}

// expectedFrom looks for the innermost context that constrains path[i].
// Nodes that pass their expected type through to the expression they form
// part of are skipped.
func (e *env) expectedFrom(path []*parser.Node, frames []frame, i, pos int) []java.Signature {
	for ; i >= 0; i-- {
		n := path[i]
		var child *parser.Node
		if i+1 < len(path) {
			child = path[i+1]
		}

		switch n.Kind {
		case parser.KindIdentifier, parser.KindLiteral, parser.KindType, parser.KindError,
			parser.KindParenExpr, parser.KindQualifiedName:
			continue

		case parser.KindFieldAccess:
			if child != nil && child == n.Children[0] {
				return nil
			}
			continue

		case parser.KindCallExpr:
			if child == nil || child == n.Children[0] {
				continue
			}
			return nil

		case parser.KindNewExpr:
			if child == nil || child.Kind == parser.KindType || child.Kind == parser.KindTypeArguments {
				continue
			}
			return nil

		case parser.KindNewArrayExpr:
			switch {
			case child == nil, child.Kind == parser.KindType:
				continue
			case child.Kind == parser.KindArrayInit:
				return single(e.typeOf(n))
			}
			return []java.Signature{java.SigInt}

		case parser.KindArguments:
			if pos <= n.Start() || i == 0 {
				return nil
			}
			return e.argumentTypes(n, path[i-1], frames[i], pos)

		case parser.KindTernaryExpr:
			arm, other := e.ternarySides(n, pos)
			if arm == nil {
				return nil
			}
			if other != nil {
				if sig := e.typeOf(other); sig != "" {
					return []java.Signature{sig}
				}
			}
			continue

		case parser.KindCastExpr:
			if child != nil && child.Kind == parser.KindType {
				return nil
			}
			if e.castClosed(n, pos) {
				return single(e.resolveType(n.FirstChildOfKind(parser.KindType), frames[i]))
			}
			return nil

		case parser.KindAssignExpr:
			if len(n.Children) > 1 && pos >= n.Children[1].End() {
				return single(e.typeOf(n.Children[0]))
			}
			return nil

		case parser.KindVariable:
			if i == 0 || !e.afterInitializerSign(n, pos) {
				return nil
			}
			decl := path[i-1]
			typ := decl.FirstChildOfKind(parser.KindType)
			if typ == nil || isVar(decl) {
				return nil
			}
			sig := e.resolveType(typ, frames[i])
			return single(sig.ArrayOf(dims(n)))

		case parser.KindArrayInit:
			var elems []java.Signature
			for _, sig := range e.expectedFrom(path, frames, i-1, pos) {
				if sig.IsArray() {
					elems = append(elems, sig.Elem())
				}
			}
			return elems

		case parser.KindReturnStmt:
			if pos <= n.Start() {
				return nil
			}
			return e.returnType(path[:i])
		}
		return nil
	}
	return nil
}

func single(sig java.Signature) []java.Signature {
	if sig == "" {
		return nil
	}
	return []java.Signature{sig}
}

// argumentTypes returns the parameter types an argument at pos may take,
// over every overload of the call whose arity admits the slot.
func (e *env) argumentTypes(args, call *parser.Node, f frame, pos int) []java.Signature {
	open := e.indexAt(args.Start())
	if e.kindAt(open) != parser.TokenLParen {
		return nil
	}
	slot := e.commasBefore(open, pos)

	var methods []java.MethodModel
	switch call.Kind {
	case parser.KindCallExpr:
		methods = e.methodsFor(call.Children[0], call.Start())
	case parser.KindNewExpr:
		if c := e.classOf(e.resolveType(call.FirstChildOfKind(parser.KindType), f)); c != nil {
			methods = c.Constructors()
		}
	case parser.KindEnumConstant:
		if f.class != nil {
			methods = f.class.Constructors()
		}
	}

	var sigs []java.Signature
	seen := make(map[java.Signature]bool)
	for _, m := range methods {
		if !m.Admits(slot) {
			continue
		}
		sig := m.ParameterAt(slot)
		if sig == "" || seen[sig] {
			continue
		}
		seen[sig] = true
		sigs = append(sigs, sig)
	}
	return sigs
}

// ternarySides returns the arm of a conditional holding pos and the
// opposite arm. arm is nil when pos is in the condition.
func (e *env) ternarySides(n *parser.Node, pos int) (arm, other *parser.Node) {
	var question, colon *parser.Node
	var then, els *parser.Node
	for _, c := range n.Children[1:] {
		switch {
		case c.Token != nil && c.Kind == parser.KindIdentifier && c.Token.Kind == parser.TokenQuestion:
			question = c
		case c.Token != nil && c.Kind == parser.KindIdentifier && c.Token.Kind == parser.TokenColon:
			colon = c
		case colon == nil:
			then = c
		default:
			els = c
		}
	}
	switch {
	case colon != nil && pos >= colon.End():
		return n, then
	case question != nil && pos >= question.End():
		return n, els
	}
	return nil, nil
}

// castClosed reports whether pos lies after the closing parenthesis of a
// cast.
func (e *env) castClosed(n *parser.Node, pos int) bool {
	types := n.ChildrenOfKind(parser.KindType)
	if len(types) == 0 {
		return false
	}
	last := types[len(types)-1]
	return e.firstTokenIn(parser.TokenRParen, last.End(), pos) >= 0
}

// afterInitializerSign reports whether the '=' of a variable declarator
// comes before pos.
func (e *env) afterInitializerSign(v *parser.Node, pos int) bool {
	id := v.FirstChildOfKind(parser.KindIdentifier)
	if id == nil {
		return false
	}
	return e.firstTokenIn(parser.TokenAssign, id.End(), pos) >= 0
}

// returnType finds the method a return statement belongs to. Lambdas,
// constructors and initializers expect nothing.
func (e *env) returnType(path []*parser.Node) []java.Signature {
	for i := len(path) - 1; i >= 0; i-- {
		switch n := path[i]; {
		case n.Kind == parser.KindMethodDecl:
			m, _, ok := e.file.MethodOf(n)
			if !ok || m.ReturnType.IsVoid() {
				return nil
			}
			return single(m.ReturnType)
		case n.Kind == parser.KindLambdaExpr, n.Kind == parser.KindConstructorDecl,
			n.Kind == parser.KindInitializer, n.Kind == parser.KindAnonymousBody, n.Kind.IsTypeDecl():
			return nil
		}
	}
	return nil
}
