package java

import (
	"bytes"
	"strconv"

	"github.com/dhamidi/caret/java/parser"
)

// SourceFile holds the class models declared in one compilation unit and
// the resolver used to build them. Types lists named top-level and member
// types in declaration order; Local lists local and anonymous types.
type SourceFile struct {
	Unit     *parser.Node
	Origin   Origin
	Package  string
	Imports  []Import
	Types    []*ClassModel
	Local    []*ClassModel
	Resolver *TypeResolver

	index   ClassIndex
	order   []*parser.Node
	decls   map[*parser.Node]*ClassModel
	anon    map[*parser.Node]*parser.Node
	methods map[*parser.Node]memberRef
	inits   map[*parser.Node]memberRef
	counts  map[string]int
}

type memberRef struct {
	class *ClassModel
	index int
}

// ClassModelsFromSource parses source and returns the named types it
// declares. Names are resolved against the file alone.
func ClassModelsFromSource(source []byte, origin Origin) []*ClassModel {
	p := parser.ParseCompilationUnit(bytes.NewReader(source), parser.WithFile(origin.Path))
	return NewSourceFile(p.Finish(), origin, nil).Types
}

// NewSourceFile declares and resolves the types of unit against base,
// which may be nil.
func NewSourceFile(unit *parser.Node, origin Origin, base ClassIndex) *SourceFile {
	f := DeclareSource(unit, origin)
	f.Resolve(base)
	return f
}

// DeclareSource creates models for every type declared in unit, with
// names, kinds, modifiers and member type lists filled in. Supertypes and
// members are filled in by Resolve.
func DeclareSource(unit *parser.Node, origin Origin) *SourceFile {
	f := &SourceFile{
		Unit:    unit,
		Origin:  origin,
		Package: PackageOf(unit),
		Imports: ImportsOf(unit),
		decls:   make(map[*parser.Node]*ClassModel),
		anon:    make(map[*parser.Node]*parser.Node),
		methods: make(map[*parser.Node]memberRef),
		inits:   make(map[*parser.Node]memberRef),
		counts:  make(map[string]int),
	}
	if unit != nil {
		f.declare(unit, nil)
	}
	return f
}

// Resolve fills in supertypes and members of the declared types. Names
// are looked up in this file first, then in base.
func (f *SourceFile) Resolve(base ClassIndex) {
	all := append(append([]*ClassModel(nil), f.Types...), f.Local...)
	f.index = Overlay(base, all...)

	var top []*ClassModel
	for _, c := range f.Types {
		if c.Outer == "" {
			top = append(top, c)
		}
	}
	f.Resolver = NewTypeResolver(f.index, f.Package, f.Imports, top...)

	for _, node := range f.order {
		f.fill(node, f.decls[node])
	}
}

// Index returns the base index overlaid with the types of this file.
func (f *SourceFile) Index() ClassIndex {
	return f.index
}

// ClassOf returns the model declared by a type declaration or anonymous
// body node.
func (f *SourceFile) ClassOf(decl *parser.Node) *ClassModel {
	return f.decls[decl]
}

// MethodOf returns the model of a method or constructor declaration node
// together with its handle.
func (f *SourceFile) MethodOf(decl *parser.Node) (*MethodModel, Handle, bool) {
	ref, ok := f.methods[decl]
	if !ok {
		return nil, Handle{}, false
	}
	return &ref.class.Methods[ref.index], ref.class.MethodHandleAt(ref.index), true
}

// InitializerOf returns the handle of an initializer block node.
func (f *SourceFile) InitializerOf(decl *parser.Node) (Handle, bool) {
	ref, ok := f.inits[decl]
	if !ok {
		return Handle{}, false
	}
	return ref.class.InitializerHandle(ref.index + 1), true
}

// CompilationUnitHandle names the file itself.
func (f *SourceFile) CompilationUnitHandle() Handle {
	name := baseName(f.Origin.Path)
	return Handle{
		Name:       name,
		Key:        CompilationUnitKey(f.Package, name),
		Kind:       HandleCompilationUnit,
		Container:  PackageKey(f.Package),
		Origin:     f.Origin,
		Occurrence: 1,
	}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func (f *SourceFile) declare(parent *parser.Node, outer *ClassModel) {
	inBody := parent.Kind == parser.KindCompilationUnit ||
		parent.Kind == parser.KindClassBody ||
		parent.Kind == parser.KindAnonymousBody

	for _, child := range parent.Children {
		switch {
		case child.Kind.IsTypeDecl():
			if model := f.declareType(child, outer, inBody); model != nil {
				f.declare(child, model)
				continue
			}
			f.declare(child, outer)
		case child.Kind == parser.KindAnonymousBody && outer != nil:
			model := f.declareAnonymous(child, outer)
			f.anon[child] = parent
			f.declare(child, model)
		default:
			f.declare(child, outer)
		}
	}
}

var classKinds = map[parser.NodeKind]ClassKind{
	parser.KindClassDecl:      ClassKindClass,
	parser.KindInterfaceDecl:  ClassKindInterface,
	parser.KindEnumDecl:       ClassKindEnum,
	parser.KindRecordDecl:     ClassKindRecord,
	parser.KindAnnotationDecl: ClassKindAnnotation,
}

func (f *SourceFile) declareType(node *parser.Node, outer *ClassModel, member bool) *ClassModel {
	simple := node.Name()
	if simple == "" {
		return nil
	}
	local := !member || (outer != nil && outer.IsLocal)
	model := &ClassModel{
		SimpleName: simple,
		Package:    f.Package,
		Kind:       classKinds[node.Kind],
		Visibility: VisibilityPackage,
		IsLocal:    local,
		Origin:     f.Origin,
	}
	mods := modifiersOf(node)
	applyModifiers(mods, &model.Visibility)
	model.IsAbstract = mods["abstract"] || model.IsInterface()
	model.IsFinal = mods["final"] || model.Kind == ClassKindRecord
	// nested interfaces, enums and records are implicitly static
	model.IsStatic = mods["static"] || (outer != nil && model.Kind != ClassKindClass)

	switch {
	case outer == nil:
		model.Name = simple
		if f.Package != "" {
			model.Name = f.Package + "." + simple
		}
	case !member:
		model.Outer = outer.Name
		f.counts[outer.Name]++
		model.Name = outer.Name + "$" + strconv.Itoa(f.counts[outer.Name]) + simple
	default:
		model.Outer = outer.Name
		model.Name = outer.Name + "$" + simple
		if outer.IsInterface() {
			model.IsStatic = true
			if model.Visibility == VisibilityPackage {
				model.Visibility = VisibilityPublic
			}
		}
		outer.MemberTypes = append(outer.MemberTypes, MemberTypeModel{
			SimpleName: simple,
			Name:       model.Name,
			Visibility: model.Visibility,
			IsStatic:   model.IsStatic,
			Pos:        node.Start(),
		})
	}

	if params := node.FirstChildOfKind(parser.KindTypeParameters); params != nil {
		model.TypeParameters = typeParameterNames(params)
	}

	f.decls[node] = model
	f.order = append(f.order, node)
	if local {
		f.Local = append(f.Local, model)
	} else {
		f.Types = append(f.Types, model)
	}
	return model
}

func (f *SourceFile) declareAnonymous(body *parser.Node, outer *ClassModel) *ClassModel {
	f.counts[outer.Name]++
	model := &ClassModel{
		Name:        outer.Name + "$" + strconv.Itoa(f.counts[outer.Name]),
		Package:     f.Package,
		Outer:       outer.Name,
		Kind:        ClassKindClass,
		Visibility:  VisibilityPackage,
		IsLocal:     true,
		IsAnonymous: true,
		IsFinal:     true,
		Origin:      f.Origin,
	}
	f.decls[body] = model
	f.order = append(f.order, body)
	f.Local = append(f.Local, model)
	return model
}

func typeParameterNames(params *parser.Node) []string {
	var names []string
	for _, p := range params.ChildrenOfKind(parser.KindTypeParameter) {
		if name := p.Name(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func modifiersOf(node *parser.Node) map[string]bool {
	mods := make(map[string]bool)
	if m := node.FirstChildOfKind(parser.KindModifiers); m != nil {
		for _, child := range m.Children {
			if child.Kind == parser.KindIdentifier {
				mods[child.TokenLiteral()] = true
			}
		}
	}
	return mods
}

func applyModifiers(mods map[string]bool, visibility *Visibility) {
	switch {
	case mods["public"]:
		*visibility = VisibilityPublic
	case mods["protected"]:
		*visibility = VisibilityProtected
	case mods["private"]:
		*visibility = VisibilityPrivate
	}
}

func (f *SourceFile) fill(node *parser.Node, model *ClassModel) {
	outer := f.index.FindClass(model.Outer)
	if model.IsAnonymous {
		f.fillAnonymousSupertypes(node, model, outer)
		f.fillBody(node, model, nil)
		return
	}

	for _, clause := range node.ChildrenOfKind(parser.KindExtendsClause) {
		for _, typ := range clause.ChildrenOfKind(parser.KindType) {
			sig := f.Resolver.ResolveType(typ, model, nil)
			if model.Kind == ClassKindClass && model.SuperClass == "" {
				model.SuperClass = sig
			} else {
				model.Interfaces = append(model.Interfaces, sig)
			}
		}
	}
	for _, clause := range node.ChildrenOfKind(parser.KindImplementsClause) {
		for _, typ := range clause.ChildrenOfKind(parser.KindType) {
			model.Interfaces = append(model.Interfaces, f.Resolver.ResolveType(typ, model, nil))
		}
	}

	switch model.Kind {
	case ClassKindClass:
		if model.SuperClass == "" && model.Name != ObjectClassName {
			model.SuperClass = SigObject
		}
	case ClassKindEnum:
		model.SuperClass = ClassSignature("java.lang.Enum")
	case ClassKindRecord:
		model.SuperClass = ClassSignature("java.lang.Record")
	case ClassKindAnnotation:
		model.Interfaces = append(model.Interfaces, ClassSignature("java.lang.annotation.Annotation"))
	}

	var components []ParameterModel
	if model.Kind == ClassKindRecord {
		components = f.recordComponents(node, model)
	}
	if body := node.FirstChildOfKind(parser.KindClassBody); body != nil {
		f.fillBody(body, model, components)
	}
	if model.Kind == ClassKindRecord {
		f.addRecordMembers(node, model, components)
	}
	f.addImplicitMembers(node, model)
}

func (f *SourceFile) fillAnonymousSupertypes(body *parser.Node, model *ClassModel, outer *ClassModel) {
	parent := f.anon[body]
	var super Signature
	switch {
	case parent == nil:
	case parent.Kind == parser.KindEnumConstant:
		if outer != nil {
			super = outer.Signature()
		}
	default:
		super = f.Resolver.ResolveType(parent.FirstChildOfKind(parser.KindType), outer, nil)
	}

	if c := f.index.FindClass(super.ClassName()); c != nil && c.IsInterface() {
		model.SuperClass = SigObject
		model.Interfaces = []Signature{super}
		return
	}
	model.SuperClass = super
	if super == "" {
		model.SuperClass = SigObject
	}
}

// recordComponents returns the record header as constructor parameters.
func (f *SourceFile) recordComponents(node *parser.Node, model *ClassModel) []ParameterModel {
	header := node.FirstChildOfKind(parser.KindRecordComponents)
	if header == nil {
		return nil
	}
	var params []ParameterModel
	for _, p := range header.ChildrenOfKind(parser.KindParameter) {
		if param, _ := f.ParameterOf(p, model, nil); param.Name != "" && param.Type != "" {
			params = append(params, param)
		}
	}
	return params
}

// addRecordMembers adds the private fields, the accessors and the
// canonical constructor a record declares implicitly. Accessors and a
// constructor written in the body take precedence.
func (f *SourceFile) addRecordMembers(node *parser.Node, model *ClassModel, components []ParameterModel) {
	header := node.FirstChildOfKind(parser.KindRecordComponents)
	if header == nil {
		return
	}
	pos := header.Start()
	for _, param := range components {
		model.Fields = append(model.Fields, FieldModel{
			Name:       param.Name,
			Type:       param.Type,
			Visibility: VisibilityPrivate,
			IsFinal:    true,
			Pos:        pos,
		})
		accessor := MethodModel{Name: param.Name, ReturnType: param.Type, Visibility: VisibilityPublic, Pos: pos}
		if !model.declares(accessor) {
			model.Methods = append(model.Methods, accessor)
		}
	}
	canonical := MethodModel{
		Name:       ConstructorName,
		ReturnType: SigVoid,
		Parameters: components,
		Visibility: VisibilityPublic,
		Pos:        pos,
	}
	if !model.declares(canonical) {
		model.Methods = append(model.Methods, canonical)
	}
}

func (f *SourceFile) fillBody(body *parser.Node, model *ClassModel, components []ParameterModel) {
	for _, member := range body.Children {
		switch member.Kind {
		case parser.KindEnumConstant:
			model.Fields = append(model.Fields, FieldModel{
				Name:           member.Name(),
				Type:           model.Signature(),
				Visibility:     VisibilityPublic,
				IsStatic:       true,
				IsFinal:        true,
				IsEnumConstant: true,
				Pos:            member.Start(),
			})
		case parser.KindFieldDecl:
			f.fillField(member, model)
		case parser.KindMethodDecl, parser.KindConstructorDecl:
			f.fillMethod(member, model, components)
		case parser.KindInitializer:
			f.inits[member] = memberRef{class: model, index: len(model.Initializers)}
			model.Initializers = append(model.Initializers, InitializerModel{
				IsStatic: modifiersOf(member)["static"],
				Pos:      member.Start(),
			})
		}
	}
}

func (f *SourceFile) fillField(decl *parser.Node, model *ClassModel) {
	mods := modifiersOf(decl)
	base := FieldModel{
		Visibility: VisibilityPackage,
		IsStatic:   mods["static"],
		IsFinal:    mods["final"],
	}
	applyModifiers(mods, &base.Visibility)
	if model.IsInterface() {
		base.Visibility = VisibilityPublic
		base.IsStatic = true
		base.IsFinal = true
	}

	typ := f.Resolver.ResolveType(decl.FirstChildOfKind(parser.KindType), model, nil)
	for _, v := range decl.ChildrenOfKind(parser.KindVariable) {
		field := base
		field.Name = v.Name()
		field.Type = typ.ArrayOf(dimsOf(v))
		field.Pos = v.Start()
		model.Fields = append(model.Fields, field)
	}
}

func (f *SourceFile) fillMethod(decl *parser.Node, model *ClassModel, components []ParameterModel) {
	mods := modifiersOf(decl)
	method := MethodModel{
		Visibility: VisibilityPackage,
		IsStatic:   mods["static"],
		IsAbstract: mods["abstract"],
		Pos:        decl.Start(),
	}
	applyModifiers(mods, &method.Visibility)
	if params := decl.FirstChildOfKind(parser.KindTypeParameters); params != nil {
		method.TypeParameters = typeParameterNames(params)
	}

	if decl.Kind == parser.KindConstructorDecl {
		method.Name = ConstructorName
		method.ReturnType = SigVoid
	} else {
		method.Name = decl.Name()
		method.ReturnType = f.Resolver.ResolveType(decl.FirstChildOfKind(parser.KindType), model, method.TypeParameters)
		if method.ReturnType == "" {
			method.ReturnType = SigVoid
		}
		if model.IsInterface() {
			if method.Visibility == VisibilityPackage {
				method.Visibility = VisibilityPublic
			}
			method.IsAbstract = decl.FirstChildOfKind(parser.KindBlock) == nil && !method.IsStatic
		}
	}
	if method.Name == "" {
		return
	}

	if params := decl.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, p := range params.ChildrenOfKind(parser.KindParameter) {
			param, varargs := f.ParameterOf(p, model, method.TypeParameters)
			if param.Type == "" {
				continue
			}
			method.Parameters = append(method.Parameters, param)
			method.IsVarargs = varargs
		}
	} else if decl.Kind == parser.KindConstructorDecl && model.Kind == ClassKindRecord {
		// compact canonical constructor
		method.Parameters = components
	}

	f.methods[decl] = memberRef{class: model, index: len(model.Methods)}
	model.Methods = append(model.Methods, method)
}

// ParameterOf returns the model of a Parameter node and whether it is a
// varargs parameter. Parameters of lambdas without a declared type have
// an empty type.
func (f *SourceFile) ParameterOf(node *parser.Node, scope *ClassModel, typeVars []string) (ParameterModel, bool) {
	param := ParameterModel{Name: node.Name()}
	varargs := false
	sawType := false
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType:
			if !sawType {
				param.Type = f.Resolver.ResolveType(child, scope, typeVars)
				sawType = true
			}
		case parser.KindDims:
			for _, d := range child.Children {
				if d.TokenLiteral() == "..." {
					varargs = true
				}
			}
			param.Type = param.Type.ArrayOf(len(child.Children))
		}
	}
	return param, varargs
}

func (f *SourceFile) addImplicitMembers(node *parser.Node, model *ClassModel) {
	end := node.End()
	switch model.Kind {
	case ClassKindClass, ClassKindEnum:
		if len(model.Constructors()) == 0 {
			ctor := MethodModel{Name: ConstructorName, ReturnType: SigVoid, Visibility: model.Visibility, Pos: end}
			if model.Kind == ClassKindEnum {
				ctor.Visibility = VisibilityPrivate
			}
			model.Methods = append(model.Methods, ctor)
		}
	}
	if model.Kind == ClassKindEnum {
		model.Methods = append(model.Methods,
			MethodModel{Name: "values", ReturnType: model.Signature().ArrayOf(1), Visibility: VisibilityPublic, IsStatic: true, Pos: end},
			MethodModel{
				Name:       "valueOf",
				ReturnType: model.Signature(),
				Parameters: []ParameterModel{{Name: "name", Type: SigString}},
				Visibility: VisibilityPublic,
				IsStatic:   true,
				Pos:        end,
			})
	}
}
