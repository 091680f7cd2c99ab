package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func class(name string, super string, interfaces ...string) *ClassModel {
	pkg, simple := splitClassName(name)
	c := &ClassModel{Name: name, SimpleName: simple, Package: pkg, Kind: ClassKindClass}
	if super != "" {
		c.SuperClass = ClassSignature(super)
	}
	for _, i := range interfaces {
		c.Interfaces = append(c.Interfaces, ClassSignature(i))
	}
	return c
}

func iface(name string, supers ...string) *ClassModel {
	c := class(name, "", supers...)
	c.Kind = ClassKindInterface
	return c
}

func names(classes []*ClassModel) []string {
	var out []string
	for _, c := range classes {
		out = append(out, c.Name)
	}
	return out
}

func TestHierarchyBreadthFirst(t *testing.T) {
	index := NewIndex(
		class("p.A", "p.B", "p.I", "p.J"),
		class("p.B", "p.C", "p.K"),
		class("p.C", ObjectClassName),
		iface("p.I", "p.L"),
		iface("p.J", "p.L"),
		iface("p.K"),
		iface("p.L"),
	)
	h := NewHierarchy(index, index.FindClass("p.A"))

	assert.Equal(t, []string{"p.A", "p.B", "p.I", "p.J", "p.C", "p.K", "p.L", ObjectClassName}, names(h.All()))
	assert.Equal(t, "p.A", h.Root().Name)
	assert.Equal(t, names(h.All())[1:], names(h.Ancestors()))
	assert.Equal(t, 2, h.Depth("p.L"))
	assert.Equal(t, 1, h.Depth(ObjectClassName))
	assert.Equal(t, -1, h.Depth("p.Z"))
	assert.Equal(t, []string{"p.A", "p.I", "p.L"}, names(h.PathTo("p.L")))
	assert.Nil(t, h.PathTo("p.Z"))
	assert.True(t, h.Contains("p.K"))
	assert.False(t, h.Contains("p.Z"))
}

func TestHierarchyObjectFallback(t *testing.T) {
	index := NewIndex(class("p.A", "p.Missing"))
	h := NewHierarchy(index, index.FindClass("p.A"))

	all := h.All()
	require.Len(t, all, 2)
	assert.Equal(t, ObjectClassName, all[1].Name)
	assert.Equal(t, builtinOrigin, all[1].Origin)
	assert.NotEmpty(t, all[1].MethodsNamed("toString"))
}

func TestHierarchyPrefersIndexedObject(t *testing.T) {
	object := &ClassModel{Name: ObjectClassName, SimpleName: "Object", Package: "java.lang", Origin: BinaryOrigin("rt")}
	index := NewIndex(object, class("p.A", ""))
	h := NewHierarchy(index, index.FindClass("p.A"))
	assert.Same(t, object, h.All()[1])

	root := NewHierarchy(index, object)
	assert.Equal(t, []string{ObjectClassName}, names(root.All()))
	assert.Nil(t, root.Ancestors())
}

func TestHierarchyCycle(t *testing.T) {
	index := NewIndex(class("p.A", "p.B"), class("p.B", "p.A"))
	h := NewHierarchy(index, index.FindClass("p.A"))
	assert.Equal(t, []string{"p.A", "p.B", ObjectClassName}, names(h.All()))
}

func TestAssignable(t *testing.T) {
	index := NewIndex(
		class("p.Base", ""),
		class("p.Sub", "p.Base", "p.Face"),
		iface("p.Face"),
	)
	sub, base, face := ClassSignature("p.Sub"), ClassSignature("p.Base"), ClassSignature("p.Face")

	tests := []struct {
		name     string
		from, to Signature
		want     bool
	}{
		{"identity", SigInt, SigInt, true},
		{"byte widens to int", SigByte, SigInt, true},
		{"int narrows to byte", SigInt, SigByte, false},
		{"char widens to int", SigChar, SigInt, true},
		{"short to char", SigShort, SigChar, false},
		{"boolean to int", SigBoolean, SigInt, false},
		{"long to float", SigLong, SigFloat, true},
		{"no boxing", SigInt, SigObject, false},
		{"no unboxing", ClassSignature("java.lang.Integer"), SigInt, false},
		{"void", SigVoid, SigVoid, false},
		{"empty", "", SigInt, false},
		{"string to object", SigString, SigObject, true},
		{"subclass", sub, base, true},
		{"superclass", base, sub, false},
		{"interface", sub, face, true},
		{"unknown class", ClassSignature("p.Nope"), base, false},
		{"primitive arrays", "[I", "[I", true},
		{"primitive array widening", "[I", "[J", false},
		{"covariant arrays", sub.ArrayOf(1), base.ArrayOf(1), true},
		{"array to object", "[I", SigObject, true},
		{"array to cloneable", "[I", ClassSignature("java.lang.Cloneable"), true},
		{"array to class", "[I", base, false},
		{"unresolved same name", UnresolvedSignature("Foo"), ClassSignature("p.Foo"), true},
		{"unresolved other name", UnresolvedSignature("Foo"), UnresolvedSignature("Bar"), false},
		{"unresolved arrays", UnresolvedSignature("Foo").ArrayOf(1), ClassSignature("q.Foo").ArrayOf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assignable(index, tt.from, tt.to))
		})
	}
}
