package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclarationKeys(t *testing.T) {
	owner := TypeKey("p.X")
	assert.Equal(t, "Lp/X;", owner)
	assert.Equal(t, "Lp/X$Y;", TypeKey("p.X$Y"))
	assert.Equal(t, "Lp/X;.f)I", FieldKey(owner, "f", SigInt))
	assert.Equal(t, "Lp/X;.foo(ILjava/lang/String;)V", MethodKey(owner, "foo", []Signature{SigInt, SigString}, SigVoid))
	assert.Equal(t, "Lp/X;.bar()V", MethodKey(owner, "bar", nil, ""))
	assert.Equal(t, "Lp/X;.([Ljava/lang/String;)V", ConstructorKey(owner, []Signature{SigString.ArrayOf(1)}))
	assert.Equal(t, "Lp/X;|2", InitializerKey(owner, 2))
	assert.Equal(t, "Lp/X;.foo(I)V#x", LocalKey(MethodKey(owner, "foo", []Signature{SigInt}, SigVoid), "x"))
	assert.Equal(t, "p/q/A.java", CompilationUnitKey("p.q", "A.java"))
	assert.Equal(t, "A.java", CompilationUnitKey("", "A.java"))
	assert.Equal(t, "p/q", CompilationUnitKey("p.q", ""))
}

func TestHandleString(t *testing.T) {
	h := Handle{Key: "Lp/X;.foo()V", Occurrence: 1}
	assert.Equal(t, "Lp/X;.foo()V", h.String())
	h.Occurrence = 2
	assert.Equal(t, "Lp/X;.foo()V~2", h.String())
	assert.Equal(t, HandleID{Key: "Lp/X;.foo()V", Occurrence: 2}, h.ID())
	assert.Equal(t, "constructor", HandleConstructor.String())
	assert.Equal(t, "unknown", HandleKind(99).String())
}

func TestMembersOrderAndOccurrences(t *testing.T) {
	c := &ClassModel{
		Name:       "p.X",
		SimpleName: "X",
		Package:    "p",
		Fields: []FieldModel{
			{Name: "b", Type: SigInt, Pos: 30},
			{Name: "a", Type: SigString, Pos: 10},
		},
		Methods: []MethodModel{
			{Name: ConstructorName, ReturnType: SigVoid, Pos: 5},
			{Name: "foo", ReturnType: SigVoid, Pos: 20},
			{Name: "foo", ReturnType: SigVoid, Pos: 40},
		},
		MemberTypes: []MemberTypeModel{
			{SimpleName: "In", Name: "p.X$In", Pos: 35},
		},
	}

	members := c.Members()
	require.Len(t, members, 5)
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"a", "foo", "b", "In", "foo"}, names)
	assert.Equal(t, 1, members[1].Occurrence)
	assert.Equal(t, 2, members[4].Occurrence)
	assert.Equal(t, members[1].Key, members[4].Key)
	assert.Equal(t, HandleType, members[3].Kind)
	assert.Equal(t, "Lp/X;", members[3].Container)

	assert.Equal(t, 2, c.MethodHandleAt(2).Occurrence)
	ctor := c.MethodHandleAt(0)
	assert.Equal(t, HandleConstructor, ctor.Kind)
	assert.Equal(t, "X", ctor.Name)
	assert.Equal(t, ClassSignature("p.X"), ctor.Type)
}

func TestInheritedMembersSkipPrivate(t *testing.T) {
	c := &ClassModel{
		Name:       "p.X",
		SimpleName: "X",
		Package:    "p",
		Fields: []FieldModel{
			{Name: "secret", Type: SigInt, Visibility: VisibilityPrivate, Pos: 1},
			{Name: "shared", Type: SigInt, Visibility: VisibilityProtected, Pos: 2},
		},
		Methods: []MethodModel{
			{Name: "hidden", ReturnType: SigVoid, Visibility: VisibilityPrivate, Pos: 3},
			{Name: "run", ReturnType: SigVoid, Visibility: VisibilityPackage, Pos: 4},
		},
	}

	var names []string
	for _, h := range c.InheritedMembers() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"shared", "run"}, names)
	assert.Len(t, c.Members(), 4)
}

func TestTypeHandleContainer(t *testing.T) {
	top := &ClassModel{Name: "p.X", SimpleName: "X", Package: "p"}
	nested := &ClassModel{Name: "p.X$Y", SimpleName: "Y", Package: "p", Outer: "p.X"}
	assert.Equal(t, "p", top.TypeHandle().Container)
	assert.Equal(t, "Lp/X;", nested.TypeHandle().Container)
	assert.Equal(t, ClassSignature("p.X$Y"), nested.TypeHandle().Type)
}

func TestMethodSlots(t *testing.T) {
	format := MethodModel{
		Name:       "format",
		Parameters: []ParameterModel{{Name: "fmt", Type: SigString}, {Name: "args", Type: SigObject.ArrayOf(1)}},
		IsVarargs:  true,
	}
	assert.True(t, format.Admits(0))
	assert.True(t, format.Admits(5))
	assert.Equal(t, SigString, format.ParameterAt(0))
	assert.Equal(t, SigObject, format.ParameterAt(1))
	assert.Equal(t, SigObject, format.ParameterAt(3))

	pair := MethodModel{Name: "pair", Parameters: []ParameterModel{{Type: SigInt}, {Type: SigInt}}}
	assert.True(t, pair.Admits(1))
	assert.False(t, pair.Admits(2))
	assert.Equal(t, Signature(""), pair.ParameterAt(2))

	none := MethodModel{Name: "none"}
	assert.False(t, none.Admits(0))
	assert.True(t, pair.SameShape(MethodModel{Name: "pair", Parameters: []ParameterModel{{Name: "x", Type: SigInt}, {Type: SigInt}}}))
	assert.False(t, pair.SameShape(none))
}
