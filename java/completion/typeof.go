package completion

import (
	"strings"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

// typeOf returns the static type of expr, or "" when it cannot be
// determined. Generic types are erased.
func (e *env) typeOf(expr *parser.Node) java.Signature {
	sig, _ := e.valueOf(expr)
	return sig
}

// valueOf is typeOf that also reports whether expr names a type rather
// than a value, as the receiver of a static access does.
func (e *env) valueOf(expr *parser.Node) (java.Signature, bool) {
	if expr == nil || e.evaluating[expr] {
		return "", false
	}
	e.evaluating[expr] = true
	defer delete(e.evaluating, expr)

	switch expr.Kind {
	case parser.KindLiteral:
		return literalType(expr.Token), false
	case parser.KindIdentifier:
		return e.lookupName(expr.TokenLiteral(), expr.Start())
	case parser.KindType:
		return e.resolveType(expr, e.frameAt(expr.Start())), true
	case parser.KindThis:
		if c := e.frameAt(expr.Start()).class; c != nil {
			return c.Signature(), false
		}
	case parser.KindSuper:
		if c := e.frameAt(expr.Start()).class; c != nil {
			return c.SuperClass, false
		}
	case parser.KindParenExpr:
		if len(expr.Children) > 0 {
			return e.typeOf(expr.Children[0]), false
		}
	case parser.KindFieldAccess:
		return e.fieldAccessType(expr)
	case parser.KindCallExpr:
		return e.callType(expr), false
	case parser.KindNewExpr:
		if typ := expr.FirstChildOfKind(parser.KindType); typ != nil {
			return e.resolveType(typ, e.frameAt(expr.Start())), false
		}
	case parser.KindNewArrayExpr:
		if typ := expr.FirstChildOfKind(parser.KindType); typ != nil {
			sig := e.resolveType(typ, e.frameAt(expr.Start()))
			if sig != "" {
				return sig.ArrayOf(e.allocatedDims(expr, typ)), false
			}
		}
	case parser.KindCastExpr:
		if typ := expr.FirstChildOfKind(parser.KindType); typ != nil {
			return e.resolveType(typ, e.frameAt(expr.Start())), false
		}
	case parser.KindTernaryExpr:
		for _, arm := range ternaryArms(expr) {
			if sig := e.typeOf(arm); sig != "" {
				return sig, false
			}
		}
	case parser.KindAssignExpr, parser.KindPostfixExpr:
		return e.typeOf(expr.Children[0]), false
	case parser.KindUnaryExpr:
		if len(expr.Children) < 2 {
			return "", false
		}
		switch op := expr.Children[0].TokenLiteral(); op {
		case "!":
			return java.SigBoolean, false
		case "++", "--":
			return e.typeOf(expr.Children[1]), false
		}
		return promote(e.typeOf(expr.Children[1]), java.SigInt), false
	case parser.KindBinaryExpr:
		return e.binaryType(expr), false
	case parser.KindInstanceofExpr:
		return java.SigBoolean, false
	case parser.KindArrayAccess:
		if sig := e.typeOf(expr.Children[0]); sig.IsArray() {
			return sig.Elem(), false
		}
	case parser.KindClassLiteral:
		return java.ClassSignature("java.lang.Class"), false
	}
	return "", false
}

func literalType(tok *parser.Token) java.Signature {
	if tok == nil {
		return ""
	}
	text := strings.ToLower(tok.Literal)
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(text, "l") {
			return java.SigLong
		}
		return java.SigInt
	case parser.TokenFloatLiteral:
		if strings.HasSuffix(text, "f") && !strings.HasPrefix(text, "0x") {
			return java.SigFloat
		}
		return java.SigDouble
	case parser.TokenCharLiteral:
		return java.SigChar
	case parser.TokenStringLiteral, parser.TokenTextBlock:
		return java.SigString
	case parser.TokenTrue, parser.TokenFalse:
		return java.SigBoolean
	}
	return ""
}

func isNumeric(sig java.Signature) bool {
	switch sig {
	case java.SigByte, java.SigShort, java.SigChar, java.SigInt, java.SigLong, java.SigFloat, java.SigDouble:
		return true
	}
	return false
}

// promote applies binary numeric promotion.
func promote(a, b java.Signature) java.Signature {
	if !isNumeric(a) || !isNumeric(b) {
		return ""
	}
	for _, wide := range []java.Signature{java.SigDouble, java.SigFloat, java.SigLong} {
		if a == wide || b == wide {
			return wide
		}
	}
	return java.SigInt
}

func (e *env) binaryType(expr *parser.Node) java.Signature {
	if len(expr.Children) < 3 {
		return ""
	}
	left, right := e.typeOf(expr.Children[0]), e.typeOf(expr.Children[2])
	switch expr.Children[1].TokenLiteral() {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return java.SigBoolean
	case "+":
		if left == java.SigString || right == java.SigString {
			return java.SigString
		}
		return promote(left, right)
	case "&", "|", "^":
		if left == java.SigBoolean && right == java.SigBoolean {
			return java.SigBoolean
		}
		return promote(left, right)
	case "<<", ">>", ">>>":
		return promote(left, java.SigInt)
	}
	return promote(left, right)
}

// ternaryArms returns the then and else expressions that are present.
func ternaryArms(expr *parser.Node) []*parser.Node {
	var arms []*parser.Node
	for i, c := range expr.Children {
		if i > 0 && c.Token != nil && c.Kind == parser.KindIdentifier && (c.Token.Kind == parser.TokenQuestion || c.Token.Kind == parser.TokenColon) {
			continue
		}
		if i > 0 {
			arms = append(arms, c)
		}
	}
	return arms
}

// allocatedDims counts the brackets of an array creation after its
// element type.
func (e *env) allocatedDims(expr, typ *parser.Node) int {
	n := dims(typ)
	depth := 0
	for i := e.indexAt(typ.End()); i < len(e.tokens) && e.tokens[i].Start() < expr.End(); i++ {
		switch e.tokens[i].Kind {
		case parser.TokenLBracket:
			if depth == 0 {
				n++
			}
			depth++
		case parser.TokenRBracket:
			depth--
		case parser.TokenLBrace:
			return n
		}
	}
	return n
}

// frameAt returns the frame of the innermost node containing pos.
func (e *env) frameAt(pos int) frame {
	frames := e.frames(e.path(pos))
	if len(frames) == 0 {
		return frame{}
	}
	return frames[len(frames)-1]
}

// lookupName resolves a simple name used as an expression: locals first,
// then fields and member types of the enclosing types, then type names.
func (e *env) lookupName(name string, pos int) (java.Signature, bool) {
	path := e.path(pos)
	for _, sc := range e.scopes(path, pos) {
		for i := len(sc.locals) - 1; i >= 0; i-- {
			if l := sc.locals[i]; l.name == name {
				return e.localType(l, sc.frame), l.class != nil
			}
		}
		if sc.class == nil {
			continue
		}
		for _, c := range java.NewHierarchy(e.index, sc.class).All() {
			if f := c.Field(name); f != nil {
				return f.Type, false
			}
			if t := c.MemberType(name); t != nil {
				return java.ClassSignature(t.Name), true
			}
		}
	}
	return e.typeName(name, e.frameAt(pos))
}

// typeName resolves name as a type known to the index.
func (e *env) typeName(name string, f frame) (java.Signature, bool) {
	if e.file.Resolver == nil || name == "" {
		return "", false
	}
	sig := e.file.Resolver.Resolve(name, f.class, f.typeVars)
	if sig.IsClass() && e.classOf(sig) != nil {
		return sig, true
	}
	return "", false
}

func (e *env) classOf(sig java.Signature) *java.ClassModel {
	if !sig.IsClass() || e.index == nil {
		return nil
	}
	return e.index.FindClass(sig.ClassName())
}

// memberName returns the identifier selected by a field access.
func memberName(expr *parser.Node) *parser.Node {
	last := expr.Children[len(expr.Children)-1]
	if len(expr.Children) > 1 && last.Kind == parser.KindIdentifier {
		return last
	}
	return nil
}

func (e *env) fieldAccessType(expr *parser.Node) (java.Signature, bool) {
	if len(expr.Children) < 2 {
		return "", false
	}
	last := expr.Children[len(expr.Children)-1]
	switch last.Kind {
	case parser.KindThis:
		sig, _ := e.valueOf(expr.Children[0])
		return sig, false
	case parser.KindSuper:
		if c := e.classOf(e.typeOf(expr.Children[0])); c != nil {
			return c.SuperClass, false
		}
		return "", false
	}
	name := memberName(expr)
	if name == nil {
		return "", false
	}

	recv, _ := e.valueOf(expr.Children[0])
	if recv == "" {
		if qualified := qualifiedText(expr); qualified != "" {
			return e.typeName(qualified, e.frameAt(expr.Start()))
		}
		return "", false
	}
	if recv.IsArray() && name.TokenLiteral() == "length" {
		return java.SigInt, false
	}
	if c := e.classOf(recv); c != nil {
		for _, a := range java.NewHierarchy(e.index, c).All() {
			if f := a.Field(name.TokenLiteral()); f != nil {
				return f.Type, false
			}
			if t := a.MemberType(name.TokenLiteral()); t != nil {
				return java.ClassSignature(t.Name), true
			}
		}
	}
	return "", false
}

// qualifiedText renders a chain of identifiers and field accesses as a
// dotted name, or "" when expr is anything else.
func qualifiedText(expr *parser.Node) string {
	switch expr.Kind {
	case parser.KindIdentifier:
		return expr.TokenLiteral()
	case parser.KindFieldAccess:
		name := memberName(expr)
		if name == nil {
			return ""
		}
		if prefix := qualifiedText(expr.Children[0]); prefix != "" {
			return prefix + "." + name.TokenLiteral()
		}
	}
	return ""
}

func (e *env) callType(call *parser.Node) java.Signature {
	methods := e.methodsFor(call.Children[0], call.Start())
	if len(methods) == 0 {
		return ""
	}
	argc := 0
	if args := call.FirstChildOfKind(parser.KindArguments); args != nil {
		argc = len(args.Children)
	}
	best := methods[0]
	for _, m := range methods {
		if len(m.Parameters) == argc {
			best = m
			break
		}
	}
	if best.IsConstructor() {
		return ""
	}
	return best.ReturnType
}

// methodsFor returns the methods a call target can refer to, or the
// constructors for this(...) and super(...).
func (e *env) methodsFor(target *parser.Node, pos int) []java.MethodModel {
	switch target.Kind {
	case parser.KindIdentifier:
		name := target.TokenLiteral()
		for _, sc := range e.scopes(e.path(pos), pos) {
			if sc.class == nil {
				continue
			}
			if methods := e.methodsNamed(sc.class, name); len(methods) > 0 {
				return methods
			}
		}
	case parser.KindFieldAccess:
		name := memberName(target)
		if name == nil {
			return nil
		}
		recv, _ := e.valueOf(target.Children[0])
		if recv == "" {
			recv, _ = e.typeName(qualifiedText(target.Children[0]), e.frameAt(pos))
		}
		if c := e.classOf(recv); c != nil {
			return e.methodsNamed(c, name.TokenLiteral())
		}
	case parser.KindThis:
		if c := e.frameAt(pos).class; c != nil {
			return c.Constructors()
		}
	case parser.KindSuper:
		if c := e.frameAt(pos).class; c != nil {
			if super := e.classOf(c.SuperClass); super != nil {
				return super.Constructors()
			}
			if c.SuperClass == java.SigObject {
				return java.BuiltinObject().Constructors()
			}
		}
	}
	return nil
}

// methodsNamed collects the methods called name on c and its ancestors.
// A method overridden lower in the hierarchy hides the inherited one.
func (e *env) methodsNamed(c *java.ClassModel, name string) []java.MethodModel {
	var methods []java.MethodModel
	for _, a := range java.NewHierarchy(e.index, c).All() {
	next:
		for _, m := range a.MethodsNamed(name) {
			for _, seen := range methods {
				if seen.SameShape(m) {
					continue next
				}
			}
			methods = append(methods, m)
		}
	}
	return methods
}
