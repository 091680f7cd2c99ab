package java

const ObjectClassName = "java.lang.Object"

var builtinOrigin = BinaryOrigin("<builtin>")

// BuiltinObject returns a model of java.lang.Object for use when the class
// path does not provide one. Each call returns a fresh copy.
func BuiltinObject() *ClassModel {
	public := func(name string, ret Signature, params ...ParameterModel) MethodModel {
		return MethodModel{Name: name, ReturnType: ret, Parameters: params, Visibility: VisibilityPublic}
	}
	protected := func(name string, ret Signature) MethodModel {
		return MethodModel{Name: name, ReturnType: ret, Visibility: VisibilityProtected}
	}

	methods := []MethodModel{
		public(ConstructorName, SigVoid),
		public("getClass", ClassSignature("java.lang.Class")),
		public("hashCode", SigInt),
		public("equals", SigBoolean, ParameterModel{Name: "obj", Type: SigObject}),
		protected("clone", SigObject),
		public("toString", SigString),
		public("notify", SigVoid),
		public("notifyAll", SigVoid),
		public("wait", SigVoid),
		public("wait", SigVoid, ParameterModel{Name: "timeoutMillis", Type: SigLong}),
		public("wait", SigVoid,
			ParameterModel{Name: "timeoutMillis", Type: SigLong},
			ParameterModel{Name: "nanos", Type: SigInt}),
		protected("finalize", SigVoid),
	}
	for i := range methods {
		methods[i].Pos = i
	}

	return &ClassModel{
		Name:       ObjectClassName,
		SimpleName: "Object",
		Package:    "java.lang",
		Kind:       ClassKindClass,
		Visibility: VisibilityPublic,
		Methods:    methods,
		Origin:     builtinOrigin,
	}
}
