package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitiveSignature(t *testing.T) {
	tests := []struct {
		keyword string
		want    Signature
		ok      bool
	}{
		{"int", SigInt, true},
		{"boolean", SigBoolean, true},
		{"long", SigLong, true},
		{"void", SigVoid, true},
		{"String", "", false},
		{"var", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, ok := PrimitiveSignature(tt.keyword)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignaturePredicates(t *testing.T) {
	tests := []struct {
		sig        Signature
		primitive  bool
		array      bool
		class      bool
		unresolved bool
		typeVar    bool
	}{
		{SigInt, true, false, false, false, false},
		{SigVoid, false, false, false, false, false},
		{SigString, false, false, true, false, false},
		{"[I", false, true, false, false, false},
		{"[[Ljava.lang.Object;", false, true, false, false, false},
		{"QFoo;", false, false, false, true, false},
		{"TT;", false, false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.sig), func(t *testing.T) {
			assert.Equal(t, tt.primitive, tt.sig.IsPrimitive(), "IsPrimitive")
			assert.Equal(t, tt.array, tt.sig.IsArray(), "IsArray")
			assert.Equal(t, tt.class, tt.sig.IsClass(), "IsClass")
			assert.Equal(t, tt.unresolved, tt.sig.IsUnresolved(), "IsUnresolved")
			assert.Equal(t, tt.typeVar, tt.sig.IsTypeVar(), "IsTypeVar")
			assert.Equal(t, !tt.primitive && tt.sig != SigVoid, tt.sig.IsReference(), "IsReference")
		})
	}
}

func TestSignatureForms(t *testing.T) {
	tests := []struct {
		sig        Signature
		descriptor string
		display    string
		simple     string
	}{
		{SigInt, "I", "int", ""},
		{SigString, "Ljava/lang/String;", "java.lang.String", "String"},
		{ClassSignature("java.util.Map$Entry"), "Ljava/util/Map$Entry;", "java.util.Map.Entry", "Entry"},
		{ClassSignature("Top"), "LTop;", "Top", "Top"},
		{"[[I", "[[I", "int[][]", ""},
		{ClassSignature("p.X").ArrayOf(1), "[Lp/X;", "p.X[]", ""},
		{UnresolvedSignature("Foo"), "QFoo;", "Foo", "Foo"},
		{UnresolvedSignature("a.Foo"), "Qa.Foo;", "a.Foo", "Foo"},
		{TypeVarSignature("T"), "TT;", "T", "T"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sig), func(t *testing.T) {
			assert.Equal(t, tt.descriptor, tt.sig.Descriptor())
			assert.Equal(t, tt.display, tt.sig.Display())
			assert.Equal(t, tt.simple, tt.sig.SimpleName())
		})
	}
}

func TestSignatureArrays(t *testing.T) {
	assert.Equal(t, Signature("[[I"), SigInt.ArrayOf(2))
	assert.Equal(t, SigInt, SigInt.ArrayOf(0))
	assert.Equal(t, Signature(""), Signature("").ArrayOf(1))
	assert.Equal(t, Signature("[I"), Signature("[[I").Elem())
	assert.Equal(t, SigString, SigString.Elem())
}

func TestSignatureFromDescriptor(t *testing.T) {
	assert.Equal(t, Signature("[Ljava.lang.String;"), SignatureFromDescriptor("[Ljava/lang/String;"))
	assert.Equal(t, SigDouble, SignatureFromDescriptor("D"))
	assert.Equal(t, ClassSignature("p.A$B"), SignatureFromDescriptor("Lp/A$B;"))
}
