package classfile

import "testing"

func TestIsFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"I", true},
		{"Z", true},
		{"Ljava/lang/String;", true},
		{"Ljava/util/Map$Entry;", true},
		{"[I", true},
		{"[[D", true},
		{"[Ljava/lang/Object;", true},
		{"", false},
		{"[", false},
		{"V", false},
		{"X", false},
		{"L;", false},
		{"Ljava/lang/String", false},
		{"II", false},
	}
	for _, tt := range tests {
		if got := IsFieldDescriptor(tt.desc); got != tt.want {
			t.Errorf("IsFieldDescriptor(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestSplitMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc   string
		params []string
		ret    string
	}{
		{"()V", nil, "V"},
		{"()I", nil, "I"},
		{"(II)I", []string{"I", "I"}, "I"},
		{"([Ljava/lang/String;)V", []string{"[Ljava/lang/String;"}, "V"},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", []string{"I", "D", "Ljava/lang/Thread;"}, "Ljava/lang/Object;"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			params, ret, ok := SplitMethodDescriptor(tt.desc)
			if !ok {
				t.Fatalf("SplitMethodDescriptor(%q) not ok", tt.desc)
			}
			if len(params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", params, tt.params)
			}
			for i := range params {
				if params[i] != tt.params[i] {
					t.Errorf("params[%d] = %q, want %q", i, params[i], tt.params[i])
				}
			}
			if ret != tt.ret {
				t.Errorf("ret = %q, want %q", ret, tt.ret)
			}
		})
	}
}

func TestSplitMethodDescriptorMalformed(t *testing.T) {
	for _, desc := range []string{"", "I", "(I", "(X)V", "()", "()VV", "(V)V"} {
		if _, _, ok := SplitMethodDescriptor(desc); ok {
			t.Errorf("SplitMethodDescriptor(%q) ok, want failure", desc)
		}
	}
}

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("plain"), "plain"},
		{[]byte{0xC0, 0x80}, "\x00"},
		{[]byte{0xC3, 0xA9}, "é"},
		// U+1F600 as a surrogate pair
		{[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
	}
	for _, tt := range tests {
		if got := decodeModifiedUTF8(tt.in); got != tt.want {
			t.Errorf("decodeModifiedUTF8(% x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInternalNames(t *testing.T) {
	if got := InternalToSourceName("java/util/Map$Entry"); got != "java.util.Map$Entry" {
		t.Errorf("InternalToSourceName = %q, want %q", got, "java.util.Map$Entry")
	}
	if got := SourceToInternalName("java.lang.String"); got != "java/lang/String" {
		t.Errorf("SourceToInternalName = %q, want %q", got, "java/lang/String")
	}
}
