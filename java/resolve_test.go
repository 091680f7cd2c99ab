package java

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/caret/java/parser"
)

func parseUnit(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.ParseCompilationUnit(strings.NewReader(source), parser.WithFile("Test.java"))
	unit := p.Finish()
	require.NotNil(t, unit)
	return unit
}

func TestImportsOf(t *testing.T) {
	unit := parseUnit(t, `package a.b;
import java.util.List;
import java.util.*;
import static java.lang.Math.max;
import static java.lang.Math.*;
class X {}
`)
	assert.Equal(t, "a.b", PackageOf(unit))
	assert.Equal(t, []Import{
		{Name: "java.util.List"},
		{Name: "java.util", OnDemand: true},
		{Name: "java.lang.Math.max", Static: true},
		{Name: "java.lang.Math", Static: true, OnDemand: true},
	}, ImportsOf(unit))
	assert.Equal(t, "", PackageOf(nil))
	assert.Nil(t, ImportsOf(nil))
}

func TestTypeResolver(t *testing.T) {
	outer := class("p.Outer", "")
	outer.MemberTypes = []MemberTypeModel{{SimpleName: "Inner", Name: "p.Outer$Inner"}}
	outer.TypeParameters = []string{"E"}
	sub := class("p.Sub", "p.Outer")
	mapClass := iface("java.util.Map")
	mapClass.MemberTypes = []MemberTypeModel{{SimpleName: "Entry", Name: "java.util.Map$Entry", IsStatic: true}}
	index := NewIndex(
		outer,
		class("p.Outer$Inner", ""),
		sub,
		class("p.Same", ""),
		class("q.Other", ""),
		iface("java.util.List"),
		mapClass,
		iface("java.util.Map$Entry"),
	)
	unitType := class("p.Here", "")
	r := NewTypeResolver(index, "p", []Import{
		{Name: "java.util.List"},
		{Name: "java.util.Map"},
		{Name: "q", OnDemand: true},
		{Name: "x.y.Z.zap", Static: true},
	}, unitType)

	tests := []struct {
		name     string
		scope    *ClassModel
		typeVars []string
		want     Signature
	}{
		{"int", nil, nil, SigInt},
		{"List", nil, nil, ClassSignature("java.util.List")},
		{"Other", nil, nil, ClassSignature("q.Other")},
		{"Same", nil, nil, ClassSignature("p.Same")},
		{"Here", nil, nil, ClassSignature("p.Here")},
		{"String", nil, nil, SigString},
		{"Missing", nil, nil, UnresolvedSignature("Missing")},
		{"zap", nil, nil, UnresolvedSignature("zap")},
		{"T", nil, []string{"T"}, TypeVarSignature("T")},
		{"E", outer, nil, TypeVarSignature("E")},
		{"Inner", outer, nil, ClassSignature("p.Outer$Inner")},
		{"Inner", sub, nil, ClassSignature("p.Outer$Inner")},
		{"Inner", nil, nil, UnresolvedSignature("Inner")},
		{"java.util.Map.Entry", nil, nil, ClassSignature("java.util.Map$Entry")},
		{"Map.Entry", nil, nil, ClassSignature("java.util.Map$Entry")},
		{"java.util.List", nil, nil, ClassSignature("java.util.List")},
		{"com.acme.Thing", nil, nil, ClassSignature("com.acme.Thing")},
		{"Foo.Bar", nil, nil, UnresolvedSignature("Foo.Bar")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.name, tt.scope, tt.typeVars))
		})
	}
}

func TestTypeResolverTypeVarShadowsClass(t *testing.T) {
	index := NewIndex(class("p.T", ""))
	r := NewTypeResolver(index, "p", nil)
	assert.Equal(t, ClassSignature("p.T"), r.Resolve("T", nil, nil))
	assert.Equal(t, TypeVarSignature("T"), r.Resolve("T", nil, []string{"T"}))
}

func TestResolveTypeNode(t *testing.T) {
	unit := parseUnit(t, `class X { java.util.List<String>[][] a; var b; int c; }`)
	var types []*parser.Node
	unit.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindFieldDecl {
			types = append(types, n.FirstChildOfKind(parser.KindType))
		}
		return true
	})
	require.Len(t, types, 3)

	r := NewTypeResolver(NewIndex(), "", nil)
	assert.Equal(t, Signature("[[Ljava.util.List;"), r.ResolveType(types[0], nil, nil))
	assert.Equal(t, Signature(""), r.ResolveType(types[1], nil, nil))
	assert.Equal(t, SigInt, r.ResolveType(types[2], nil, nil))
	assert.Equal(t, Signature(""), r.ResolveType(nil, nil, nil))
}
