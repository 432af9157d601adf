package metadata

import "testing"

func TestUpdateParameterTypesInstance(t *testing.T) {
	m := NewModule("app.dll", nil)
	typ := m.AddType(&TypeDef{Namespace: "Lib", Name: "C"})
	md := &MethodDef{
		Name:      "M",
		Signature: NewInstanceMethodSig(m.CorLib.Void, m.CorLib.Int32, m.CorLib.String),
		ParamDefs: []*ParamDef{{Name: "x", Sequence: 1}, {Name: "s", Sequence: 2}},
	}
	typ.AddMethod(md)

	if len(md.Parameters) != 3 {
		t.Fatalf("instance method should have 3 parameters (this + 2), got %d", len(md.Parameters))
	}
	if !md.Parameters[0].IsHiddenThis() {
		t.Error("parameter 0 should be the hidden this")
	}
	if md.Parameters[1].Name() != "x" || md.Parameters[2].Name() != "s" {
		t.Errorf("param defs not bound: %q, %q", md.Parameters[1].Name(), md.Parameters[2].Name())
	}
	if _, ok := md.Parameters[0].Type.(*ClassSig); !ok {
		t.Errorf("this parameter of a class should be a class sig, got %T", md.Parameters[0].Type)
	}
}

func TestUpdateParameterTypesStatic(t *testing.T) {
	m := NewModule("app.dll", nil)
	typ := m.AddType(&TypeDef{Namespace: "Lib", Name: "C"})
	md := &MethodDef{
		Name:      "S",
		Attributes: MethodAttrStatic,
		Signature: NewMethodSig(m.CorLib.Void, m.CorLib.Int32),
	}
	typ.AddMethod(md)

	if len(md.Parameters) != 1 {
		t.Fatalf("static method should have 1 parameter, got %d", len(md.Parameters))
	}
	if md.Parameters[0].IsHiddenThis() {
		t.Error("static method should not have a hidden this")
	}
}

func TestUpdateParameterTypesValueTypeThis(t *testing.T) {
	m := NewModule("app.dll", nil)
	vt := m.AddType(&TypeDef{
		Namespace: "Lib",
		Name:      "P",
		BaseType:  &TypeRef{Namespace: "System", Name: "ValueType"},
	})
	md := &MethodDef{Name: "M", Signature: NewInstanceMethodSig(m.CorLib.Void)}
	vt.AddMethod(md)

	br, ok := md.Parameters[0].Type.(*ByRefSig)
	if !ok {
		t.Fatalf("value type this should be byref, got %T", md.Parameters[0].Type)
	}
	if _, ok := br.Next.(*ValueTypeSig); !ok {
		t.Errorf("value type this should wrap a valuetype sig, got %T", br.Next)
	}
}

func TestMemberRefKind(t *testing.T) {
	cl := NewCorLibTypes()
	method := &MemberRef{Name: "M", Signature: NewMethodSig(cl.Void)}
	field := &MemberRef{Name: "F", Signature: NewFieldSig(cl.Int32)}

	if !method.IsMethodRef() || method.IsFieldRef() {
		t.Error("method ref misclassified")
	}
	if !field.IsFieldRef() || field.IsMethodRef() {
		t.Error("field ref misclassified")
	}
	if method.MethodSig() == nil || field.FieldSig() == nil {
		t.Error("signature accessors should return the typed signature")
	}
}

func TestPropertyIsVirtual(t *testing.T) {
	virt := &MethodDef{Name: "get_P", Attributes: MethodAttrVirtual}
	plain := &MethodDef{Name: "set_P"}

	tests := []struct {
		name string
		prop *PropertyDef
		want bool
	}{
		{"virtual getter", &PropertyDef{GetMethod: virt}, true},
		{"plain accessors", &PropertyDef{GetMethod: plain, SetMethod: plain}, false},
		{"virtual other", &PropertyDef{OtherMethods: []*MethodDef{virt}}, true},
		{"no accessors", &PropertyDef{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prop.IsVirtual(); got != tt.want {
				t.Errorf("IsVirtual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventIsVirtual(t *testing.T) {
	virt := &MethodDef{Name: "add_E", Attributes: MethodAttrVirtual}
	plain := &MethodDef{Name: "remove_E"}

	if (&EventDef{AddMethod: plain}).IsVirtual() {
		t.Error("plain event should not be virtual")
	}
	if !(&EventDef{AddMethod: plain, RemoveMethod: virt}).IsVirtual() {
		t.Error("event with a virtual accessor should be virtual")
	}
}

func TestTypeDefIsValueType(t *testing.T) {
	tests := []struct {
		name string
		base TypeDefOrRef
		want bool
	}{
		{"valuetype base", &TypeRef{Namespace: "System", Name: "ValueType"}, true},
		{"enum base", &TypeRef{Namespace: "System", Name: "Enum"}, true},
		{"object base", &TypeRef{Namespace: "System", Name: "Object"}, false},
		{"no base", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := &TypeDef{Name: "T", BaseType: tt.base}
			if got := td.IsValueType(); got != tt.want {
				t.Errorf("IsValueType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstructionClone(t *testing.T) {
	sp := &SequencePoint{Document: "a.cs", StartLine: 3}
	i := &Instruction{OpCode: OpLdstr, Operand: "hi", Offset: 7, SequencePoint: sp}

	c := i.Clone()
	if c.OpCode != i.OpCode || c.Operand != i.Operand || c.Offset != i.Offset {
		t.Error("clone should copy opcode, operand, and offset")
	}
	if c.SequencePoint == sp {
		t.Error("clone should copy the sequence point, not share it")
	}
	if c.SequencePoint.Document != "a.cs" {
		t.Error("cloned sequence point should keep its fields")
	}
}
