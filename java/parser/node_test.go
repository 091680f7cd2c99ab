package parser

import (
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindCompilationUnit, "CompilationUnit"},
		{KindImportDecl, "ImportDecl"},
		{KindAnonymousBody, "AnonymousBody"},
		{KindInitializer, "Initializer"},
		{KindSwitchCase, "SwitchCase"},
		{KindNewExpr, "NewExpr"},
		{KindClassLiteral, "ClassLiteral"},
		{NodeKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeKindClasses(t *testing.T) {
	tests := []struct {
		kind      NodeKind
		typeDecl  bool
		statement bool
	}{
		{KindClassDecl, true, false},
		{KindRecordDecl, true, false},
		{KindAnnotationDecl, true, false},
		{KindClassBody, false, false},
		{KindBlock, false, true},
		{KindLocalVarDecl, false, true},
		{KindLabeledStmt, false, true},
		{KindSwitchCase, false, false},
		{KindCatchClause, false, false},
		{KindForInit, false, false},
		{KindAssignExpr, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsTypeDecl(); got != tt.typeDecl {
				t.Errorf("IsTypeDecl() = %v, want %v", got, tt.typeDecl)
			}
			if got := tt.kind.IsStatement(); got != tt.statement {
				t.Errorf("IsStatement() = %v, want %v", got, tt.statement)
			}
		})
	}
}

func TestNodeAddChildSkipsNil(t *testing.T) {
	parent := &Node{Kind: KindClassBody}
	parent.AddChild(&Node{Kind: KindMethodDecl})
	parent.AddChild(nil)
	parent.AddChild(&Node{Kind: KindFieldDecl})

	if len(parent.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(parent.Children))
	}
	if got := parent.ChildrenOfKind(KindFieldDecl); len(got) != 1 {
		t.Errorf("ChildrenOfKind(FieldDecl) = %d nodes, want 1", len(got))
	}
	if parent.FirstChildOfKind(KindIfStmt) != nil {
		t.Error("FirstChildOfKind(IfStmt) should be nil")
	}
}

func TestNodeNames(t *testing.T) {
	ident := func(s string) *Node {
		return &Node{Kind: KindIdentifier, Token: &Token{Kind: TokenIdent, Literal: s}}
	}

	method := &Node{Kind: KindMethodDecl, Children: []*Node{
		{Kind: KindType, Children: []*Node{ident("String")}},
		ident("toString"),
	}}
	if got := method.Name(); got != "toString" {
		t.Errorf("Name() = %q, want %q", got, "toString")
	}

	typ := &Node{Kind: KindType, Children: []*Node{
		ident("java"), ident("util"), ident("List"),
		{Kind: KindTypeArguments},
	}}
	if got := typ.QualifiedName(); got != "java.util.List" {
		t.Errorf("QualifiedName() = %q, want %q", got, "java.util.List")
	}

	annotation := &Node{Kind: KindAnnotation, Children: []*Node{
		{Kind: KindQualifiedName, Children: []*Node{ident("java"), ident("lang"), ident("Override")}},
	}}
	if got := annotation.QualifiedName(); got != "java.lang.Override" {
		t.Errorf("QualifiedName() = %q, want %q", got, "java.lang.Override")
	}

	if got := (&Node{Kind: KindBlock}).Name(); got != "" {
		t.Errorf("Name() of a block = %q, want empty", got)
	}
}

func TestNodeWalk(t *testing.T) {
	unit, _ := Parse([]byte("class A { void f() { int x; } int y; }"))

	var kinds []NodeKind
	unit.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != KindMethodDecl
	})

	for _, kind := range kinds {
		if kind == KindBlock || kind == KindLocalVarDecl {
			t.Errorf("Walk descended into the method body: saw %v", kind)
		}
	}
	if kinds[0] != KindCompilationUnit {
		t.Errorf("first visited = %v, want CompilationUnit", kinds[0])
	}
}

func TestNodeStringMarksIncomplete(t *testing.T) {
	unit, _ := Parse([]byte("class A {"))
	got := unit.String()
	if !strings.Contains(got, "ClassDecl (incomplete)") {
		t.Errorf("String() does not mark the open class:\n%s", got)
	}
	if !strings.Contains(unit.StringWithPositions(), "[1:1-1:10]") {
		t.Errorf("StringWithPositions() missing unit span:\n%s", unit.StringWithPositions())
	}
}
