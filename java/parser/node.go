package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindClassBody
	KindAnonymousBody
	KindEnumConstant

	// Members
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindInitializer
	KindVariable

	// Type and modifiers
	KindModifiers
	KindAnnotation
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindWildcard
	KindDims
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause
	KindRecordComponents

	// Method components
	KindParameters
	KindParameter
	KindThrowsList

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindLocalVarDecl
	KindLocalClassDecl
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindResource
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindYieldStmt
	KindLabeledStmt

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindArguments
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindMethodRef
	KindSwitchExpr
	KindLiteral
	KindIdentifier
	KindQualifiedName
	KindThis
	KindSuper
	KindClassLiteral
)

var nodeKindNames = map[NodeKind]string{
	KindError:            "Error",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindClassDecl:        "ClassDecl",
	KindInterfaceDecl:    "InterfaceDecl",
	KindEnumDecl:         "EnumDecl",
	KindRecordDecl:       "RecordDecl",
	KindAnnotationDecl:   "AnnotationDecl",
	KindClassBody:        "ClassBody",
	KindAnonymousBody:    "AnonymousBody",
	KindEnumConstant:     "EnumConstant",
	KindFieldDecl:        "FieldDecl",
	KindMethodDecl:       "MethodDecl",
	KindConstructorDecl:  "ConstructorDecl",
	KindInitializer:      "Initializer",
	KindVariable:         "Variable",
	KindModifiers:        "Modifiers",
	KindAnnotation:       "Annotation",
	KindTypeParameters:   "TypeParameters",
	KindTypeParameter:    "TypeParameter",
	KindTypeArguments:    "TypeArguments",
	KindType:             "Type",
	KindWildcard:         "Wildcard",
	KindDims:             "Dims",
	KindExtendsClause:    "ExtendsClause",
	KindImplementsClause: "ImplementsClause",
	KindPermitsClause:    "PermitsClause",
	KindRecordComponents: "RecordComponents",
	KindParameters:       "Parameters",
	KindParameter:        "Parameter",
	KindThrowsList:       "ThrowsList",
	KindBlock:            "Block",
	KindEmptyStmt:        "EmptyStmt",
	KindExprStmt:         "ExprStmt",
	KindLocalVarDecl:     "LocalVarDecl",
	KindLocalClassDecl:   "LocalClassDecl",
	KindIfStmt:           "IfStmt",
	KindForStmt:          "ForStmt",
	KindForInit:          "ForInit",
	KindForUpdate:        "ForUpdate",
	KindEnhancedForStmt:  "EnhancedForStmt",
	KindWhileStmt:        "WhileStmt",
	KindDoStmt:           "DoStmt",
	KindSwitchStmt:       "SwitchStmt",
	KindSwitchCase:       "SwitchCase",
	KindReturnStmt:       "ReturnStmt",
	KindBreakStmt:        "BreakStmt",
	KindContinueStmt:     "ContinueStmt",
	KindThrowStmt:        "ThrowStmt",
	KindTryStmt:          "TryStmt",
	KindResource:         "Resource",
	KindCatchClause:      "CatchClause",
	KindFinallyClause:    "FinallyClause",
	KindSynchronizedStmt: "SynchronizedStmt",
	KindAssertStmt:       "AssertStmt",
	KindYieldStmt:        "YieldStmt",
	KindLabeledStmt:      "LabeledStmt",
	KindAssignExpr:       "AssignExpr",
	KindTernaryExpr:      "TernaryExpr",
	KindBinaryExpr:       "BinaryExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindPostfixExpr:      "PostfixExpr",
	KindCastExpr:         "CastExpr",
	KindInstanceofExpr:   "InstanceofExpr",
	KindCallExpr:         "CallExpr",
	KindArguments:        "Arguments",
	KindFieldAccess:      "FieldAccess",
	KindArrayAccess:      "ArrayAccess",
	KindNewExpr:          "NewExpr",
	KindNewArrayExpr:     "NewArrayExpr",
	KindArrayInit:        "ArrayInit",
	KindLambdaExpr:       "LambdaExpr",
	KindParenExpr:        "ParenExpr",
	KindMethodRef:        "MethodRef",
	KindSwitchExpr:       "SwitchExpr",
	KindLiteral:          "Literal",
	KindIdentifier:       "Identifier",
	KindQualifiedName:    "QualifiedName",
	KindThis:             "This",
	KindSuper:            "Super",
	KindClassLiteral:     "ClassLiteral",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTypeDecl reports whether nodes of this kind declare a named type.
func (k NodeKind) IsTypeDecl() bool {
	return k >= KindClassDecl && k <= KindAnnotationDecl
}

// IsStatement reports whether nodes of this kind may appear directly in a
// block.
func (k NodeKind) IsStatement() bool {
	return k >= KindBlock && k <= KindLabeledStmt &&
		k != KindForInit && k != KindForUpdate && k != KindResource &&
		k != KindCatchClause && k != KindFinallyClause && k != KindSwitchCase
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
	// Incomplete marks a node whose closing token was never found. When
	// the input ran out first, the span extends to the end of input.
	Incomplete bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) Start() int { return n.Span.Start.Offset }
func (n *Node) End() int   { return n.Span.End.Offset }

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the literal of the first identifier child, which is the
// declared name for declarations and variables.
func (n *Node) Name() string {
	if id := n.FirstChildOfKind(KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

// QualifiedName joins the identifiers of a qualified name or type node.
func (n *Node) QualifiedName() string {
	if n.Kind == KindIdentifier {
		return n.TokenLiteral()
	}
	var parts []string
	for _, child := range n.Children {
		switch child.Kind {
		case KindIdentifier:
			parts = append(parts, child.TokenLiteral())
		case KindQualifiedName:
			parts = append(parts, child.QualifiedName())
		}
	}
	return strings.Join(parts, ".")
}

// Walk visits n and its descendants depth first, stopping descent into a
// subtree when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.write(&sb, 0, true)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Incomplete {
		sb.WriteString(" (incomplete)")
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.write(sb, indent+1, showPositions)
	}
}
