package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/caret/java/parser"
)

const shapeSource = `package p;

import java.util.List;

public class Shape implements Comparable {
    public static final int SIDES = 4;
    private String name, label;
    int[] dims[];

    public Shape(String name) { this.name = name; }

    public String getName() { return name; }
    void resize(int w, int h) {}
    static void log(String fmt, Object... args) {}
    <T> T pick(List<T> items) { return null; }

    class Part {}
    static { }

    void make() {
        Runnable r = new Runnable() { public void run() {} };
        class Local {}
    }
}

enum Color { RED, GREEN { }; }

record Point(int x, int y) {
    Point { }
}

interface Named { String name(); int LIMIT = 3; }
`

func shapeFile(t *testing.T) *SourceFile {
	t.Helper()
	runnable := iface("java.lang.Runnable")
	runnable.Methods = []MethodModel{{Name: "run", ReturnType: SigVoid, IsAbstract: true, Visibility: VisibilityPublic}}
	return NewSourceFile(parseUnit(t, shapeSource), SourceOrigin("src/p/Shape.java"), NewIndex(runnable))
}

func fieldNames(c *ClassModel) []string {
	var out []string
	for _, f := range c.Fields {
		out = append(out, f.Name)
	}
	return out
}

func methodNames(c *ClassModel) []string {
	var out []string
	for _, m := range c.Methods {
		out = append(out, m.Name)
	}
	return out
}

func TestSourceFileTypes(t *testing.T) {
	f := shapeFile(t)
	assert.Equal(t, "p", f.Package)
	assert.Equal(t, []string{"p.Shape", "p.Shape$Part", "p.Color", "p.Point", "p.Named"}, names(f.Types))
	assert.Equal(t, []string{"p.Shape$1", "p.Shape$2Local", "p.Color$1"}, names(f.Local))

	part := f.Index().FindClass("p.Shape$Part")
	require.NotNil(t, part)
	assert.Equal(t, "p.Shape", part.Outer)
	assert.False(t, part.IsStatic)
	assert.False(t, part.IsLocal)

	for _, name := range []string{"p.Shape", "p.Color", "p.Point", "p.Named"} {
		top := f.Index().FindClass(name)
		require.NotNil(t, top, name)
		assert.False(t, top.IsStatic, name)
	}

	local := f.Index().FindClass("p.Shape$2Local")
	require.NotNil(t, local)
	assert.Equal(t, "Local", local.SimpleName)
	assert.True(t, local.IsLocal)
	assert.False(t, local.IsAnonymous)
}

func TestSourceFileClassMembers(t *testing.T) {
	shape := shapeFile(t).Index().FindClass("p.Shape")
	require.NotNil(t, shape)

	assert.Equal(t, VisibilityPublic, shape.Visibility)
	assert.Equal(t, SigObject, shape.SuperClass)
	assert.Equal(t, []Signature{ClassSignature("java.lang.Comparable")}, shape.Interfaces)
	assert.Equal(t, []string{"SIDES", "name", "label", "dims"}, fieldNames(shape))
	assert.True(t, shape.Field("SIDES").IsStatic)
	assert.Equal(t, VisibilityPrivate, shape.Field("label").Visibility)
	assert.Equal(t, SigString, shape.Field("label").Type)
	assert.Equal(t, Signature("[[I"), shape.Field("dims").Type)

	assert.Equal(t, []string{ConstructorName, "getName", "resize", "log", "pick", "make"}, methodNames(shape))
	ctor := shape.Constructors()
	require.Len(t, ctor, 1)
	assert.Equal(t, []Signature{SigString}, ctor[0].ParameterTypes())

	log := shape.MethodsNamed("log")[0]
	assert.True(t, log.IsStatic)
	assert.True(t, log.IsVarargs)
	assert.Equal(t, []Signature{SigString, SigObject.ArrayOf(1)}, log.ParameterTypes())
	assert.Equal(t, SigObject, log.ParameterAt(4))

	pick := shape.MethodsNamed("pick")[0]
	assert.Equal(t, TypeVarSignature("T"), pick.ReturnType)
	assert.Equal(t, []Signature{ClassSignature("java.util.List")}, pick.ParameterTypes())

	require.Len(t, shape.MemberTypes, 1)
	assert.Equal(t, "p.Shape$Part", shape.MemberTypes[0].Name)
	require.Len(t, shape.Initializers, 1)
	assert.True(t, shape.Initializers[0].IsStatic)
}

func TestSourceFileAnonymousClasses(t *testing.T) {
	index := shapeFile(t).Index()

	runnable := index.FindClass("p.Shape$1")
	require.NotNil(t, runnable)
	assert.True(t, runnable.IsAnonymous)
	assert.Equal(t, "", runnable.SimpleName)
	assert.Equal(t, SigObject, runnable.SuperClass)
	assert.Equal(t, []Signature{ClassSignature("java.lang.Runnable")}, runnable.Interfaces)
	assert.Equal(t, []string{"run"}, methodNames(runnable))

	green := index.FindClass("p.Color$1")
	require.NotNil(t, green)
	assert.Equal(t, ClassSignature("p.Color"), green.SuperClass)
}

func TestSourceFileEnumRecordInterface(t *testing.T) {
	index := shapeFile(t).Index()

	color := index.FindClass("p.Color")
	require.NotNil(t, color)
	assert.Equal(t, ClassKindEnum, color.Kind)
	assert.Equal(t, ClassSignature("java.lang.Enum"), color.SuperClass)
	assert.Equal(t, []string{"RED", "GREEN"}, fieldNames(color))
	assert.True(t, color.Field("RED").IsEnumConstant)
	assert.Equal(t, ClassSignature("p.Color"), color.Field("GREEN").Type)
	assert.Equal(t, []string{ConstructorName, "values", "valueOf"}, methodNames(color))
	assert.Equal(t, VisibilityPrivate, color.Constructors()[0].Visibility)

	point := index.FindClass("p.Point")
	require.NotNil(t, point)
	assert.True(t, point.IsFinal)
	assert.Equal(t, []string{"x", "y"}, fieldNames(point))
	assert.Equal(t, []string{ConstructorName, "x", "y"}, methodNames(point))
	assert.Equal(t, []Signature{SigInt, SigInt}, point.Constructors()[0].ParameterTypes())
	assert.Equal(t, SigInt, point.MethodsNamed("y")[0].ReturnType)

	named := index.FindClass("p.Named")
	require.NotNil(t, named)
	assert.True(t, named.IsInterface())
	assert.True(t, named.MethodsNamed("name")[0].IsAbstract)
	assert.Equal(t, VisibilityPublic, named.MethodsNamed("name")[0].Visibility)
	limit := named.Field("LIMIT")
	require.NotNil(t, limit)
	assert.True(t, limit.IsStatic)
	assert.True(t, limit.IsFinal)
	assert.Empty(t, named.Constructors())
}

func TestSourceFileDeclarationLookup(t *testing.T) {
	f := shapeFile(t)

	var getName, initializer, shapeDecl *parser.Node
	f.Unit.Walk(func(n *parser.Node) bool {
		switch {
		case n.Kind == parser.KindMethodDecl && n.Name() == "getName":
			getName = n
		case n.Kind == parser.KindInitializer:
			initializer = n
		case n.Kind == parser.KindClassDecl && n.Name() == "Shape":
			shapeDecl = n
		}
		return true
	})
	require.NotNil(t, getName)
	require.NotNil(t, initializer)

	method, handle, ok := f.MethodOf(getName)
	require.True(t, ok)
	assert.Equal(t, "getName", method.Name)
	assert.Equal(t, "Lp/Shape;.getName()Ljava/lang/String;", handle.Key)
	assert.Equal(t, HandleMethod, handle.Kind)

	init, ok := f.InitializerOf(initializer)
	require.True(t, ok)
	assert.Equal(t, "Lp/Shape;|1", init.Key)
	assert.True(t, init.IsStatic)

	assert.Equal(t, "p.Shape", f.ClassOf(shapeDecl).Name)
	_, _, ok = f.MethodOf(shapeDecl)
	assert.False(t, ok)

	unit := f.CompilationUnitHandle()
	assert.Equal(t, "Shape.java", unit.Name)
	assert.Equal(t, "p/Shape.java", unit.Key)
	assert.Equal(t, HandleCompilationUnit, unit.Kind)
}

func TestSourceFileCrossFileSupertypes(t *testing.T) {
	base := DeclareSource(parseUnit(t, "package p; public class Base { protected int size; }"), SourceOrigin("Base.java"))
	derived := DeclareSource(parseUnit(t, "package p; class Derived extends Base { class Deep extends Derived {} }"), SourceOrigin("Derived.java"))

	var all []*ClassModel
	all = append(all, base.Types...)
	all = append(all, derived.Types...)
	shared := NewIndex(all...)
	base.Resolve(shared)
	derived.Resolve(shared)

	d := shared.FindClass("p.Derived")
	require.NotNil(t, d)
	assert.Equal(t, ClassSignature("p.Base"), d.SuperClass)
	deep := shared.FindClass("p.Derived$Deep")
	require.NotNil(t, deep)
	assert.Equal(t, ClassSignature("p.Derived"), deep.SuperClass)

	h := NewHierarchy(shared, deep)
	assert.Equal(t, []string{"p.Derived$Deep", "p.Derived", "p.Base", ObjectClassName}, names(h.All()))
}

func TestClassModelsFromSource(t *testing.T) {
	models := ClassModelsFromSource([]byte("class A { int x; } class B extends A {}"), SourceOrigin("A.java"))
	require.Len(t, models, 2)
	assert.Equal(t, "A", models[0].Name)
	assert.Equal(t, "", models[0].Package)
	assert.Equal(t, ClassSignature("A"), models[1].SuperClass)
	assert.Equal(t, []string{"x"}, fieldNames(models[0]))
}
