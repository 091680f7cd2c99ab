package java

var primitiveWidening = map[Signature][]Signature{
	SigByte:  {SigShort, SigInt, SigLong, SigFloat, SigDouble},
	SigShort: {SigInt, SigLong, SigFloat, SigDouble},
	SigChar:  {SigInt, SigLong, SigFloat, SigDouble},
	SigInt:   {SigLong, SigFloat, SigDouble},
	SigLong:  {SigFloat, SigDouble},
	SigFloat: {SigDouble},
}

// Assignable reports whether a value of type from can be assigned to a
// variable of type to without boxing. Unresolved types match types with
// the same simple name, resolved or not.
func Assignable(index ClassIndex, from, to Signature) bool {
	if from == "" || to == "" || from.IsVoid() || to.IsVoid() {
		return false
	}
	if from == to {
		return true
	}

	if from.IsPrimitive() || to.IsPrimitive() {
		if !from.IsPrimitive() || !to.IsPrimitive() {
			return false
		}
		for _, wider := range primitiveWidening[from] {
			if wider == to {
				return true
			}
		}
		return false
	}

	if to == SigObject {
		return true
	}

	if from.IsUnresolved() || to.IsUnresolved() {
		if from.IsArray() != to.IsArray() {
			return false
		}
		if from.IsArray() {
			return Assignable(index, from.Elem(), to.Elem())
		}
		return from.SimpleName() == to.SimpleName()
	}

	if from.IsArray() {
		switch {
		case to.IsArray():
			if from.Elem().IsPrimitive() || to.Elem().IsPrimitive() {
				return from.Elem() == to.Elem()
			}
			return Assignable(index, from.Elem(), to.Elem())
		case to == ClassSignature("java.lang.Cloneable"), to == ClassSignature("java.io.Serializable"):
			return true
		}
		return false
	}

	if !from.IsClass() || !to.IsClass() {
		return false
	}
	var class *ClassModel
	if index != nil {
		class = index.FindClass(from.ClassName())
	}
	if class == nil {
		return false
	}
	return NewHierarchy(index, class).Contains(to.ClassName())
}
