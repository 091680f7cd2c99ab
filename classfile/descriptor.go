package classfile

import "strings"

// FieldDescriptorLen returns the length of the field descriptor starting
// at desc[start], or 0 if there is none.
func FieldDescriptorLen(desc string, start int) int {
	i := start
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return 0
	}
	switch desc[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return i - start + 1
	case 'L':
		semi := strings.IndexByte(desc[i:], ';')
		if semi <= 1 {
			return 0
		}
		return i - start + semi + 1
	}
	return 0
}

// IsFieldDescriptor reports whether desc is exactly one field descriptor.
func IsFieldDescriptor(desc string) bool {
	return desc != "" && FieldDescriptorLen(desc, 0) == len(desc)
}

// SplitMethodDescriptor splits "(I[Ljava/lang/String;)V" into its
// parameter descriptors and return descriptor.
func SplitMethodDescriptor(desc string) (params []string, ret string, ok bool) {
	if desc == "" || desc[0] != '(' {
		return nil, "", false
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		n := FieldDescriptorLen(desc, i)
		if n == 0 {
			return nil, "", false
		}
		params = append(params, desc[i:i+n])
		i += n
	}
	if i >= len(desc) {
		return nil, "", false
	}
	ret = desc[i+1:]
	if ret != "V" && !IsFieldDescriptor(ret) {
		return nil, "", false
	}
	return params, ret, true
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
