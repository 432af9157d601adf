package metadata

// MethodAttributes are the MethodDef flag bits.
type MethodAttributes uint16

const (
	MethodAttrPrivate       MethodAttributes = 0x0001
	MethodAttrFamily        MethodAttributes = 0x0004
	MethodAttrPublic        MethodAttributes = 0x0006
	MethodAttrStatic        MethodAttributes = 0x0010
	MethodAttrFinal         MethodAttributes = 0x0020
	MethodAttrVirtual       MethodAttributes = 0x0040
	MethodAttrHideBySig     MethodAttributes = 0x0080
	MethodAttrNewSlot       MethodAttributes = 0x0100
	MethodAttrAbstract      MethodAttributes = 0x0400
	MethodAttrSpecialName   MethodAttributes = 0x0800
	MethodAttrRTSpecialName MethodAttributes = 0x1000
	MethodAttrPInvokeImpl   MethodAttributes = 0x2000
)

// MethodImplAttributes are the MethodDef implementation flag bits.
type MethodImplAttributes uint16

const (
	MethodImplIL             MethodImplAttributes = 0x0000
	MethodImplNative         MethodImplAttributes = 0x0001
	MethodImplRuntime        MethodImplAttributes = 0x0003
	MethodImplNoInlining     MethodImplAttributes = 0x0008
	MethodImplSynchronized   MethodImplAttributes = 0x0020
	MethodImplNoOptimization MethodImplAttributes = 0x0040
)

// MethodSemanticsAttributes tie an accessor method to a property or event.
type MethodSemanticsAttributes uint16

const (
	SemanticsSetter   MethodSemanticsAttributes = 0x0001
	SemanticsGetter   MethodSemanticsAttributes = 0x0002
	SemanticsOther    MethodSemanticsAttributes = 0x0004
	SemanticsAddOn    MethodSemanticsAttributes = 0x0008
	SemanticsRemoveOn MethodSemanticsAttributes = 0x0010
	SemanticsFire     MethodSemanticsAttributes = 0x0020
)

// FieldAttributes are the FieldDef flag bits.
type FieldAttributes uint16

const (
	FieldAttrPrivate     FieldAttributes = 0x0001
	FieldAttrPublic      FieldAttributes = 0x0006
	FieldAttrStatic      FieldAttributes = 0x0010
	FieldAttrInitOnly    FieldAttributes = 0x0020
	FieldAttrLiteral     FieldAttributes = 0x0040
	FieldAttrSpecialName FieldAttributes = 0x0200
	FieldAttrHasFieldRVA FieldAttributes = 0x0100
	FieldAttrPInvokeImpl FieldAttributes = 0x2000
)

// ParamAttributes are the ParamDef flag bits.
type ParamAttributes uint16

const (
	ParamAttrIn       ParamAttributes = 0x0001
	ParamAttrOut      ParamAttributes = 0x0002
	ParamAttrOptional ParamAttributes = 0x0010
)

// PropertyAttributes are the PropertyDef flag bits.
type PropertyAttributes uint16

// EventAttributes are the EventDef flag bits.
type EventAttributes uint16

// GenericParamAttributes are the GenericParam flag bits.
type GenericParamAttributes uint16

// PInvokeAttributes are the ImplMap flag bits.
type PInvokeAttributes uint16

// IMethod is a method-def-or-ref: a MethodDef, a method MemberRef, or a
// MethodSpec.
type IMethod interface {
	MethodName() string
	isMethodDefOrRef()
}

// IField is a field-def-or-ref: a FieldDef or a field MemberRef.
type IField interface {
	FieldName() string
	isFieldDefOrRef()
}

// MemberRefParent is the owner of a MemberRef.
type MemberRefParent interface {
	isMemberRefParent()
}

// MethodDef is a method defined in a module.
type MethodDef struct {
	row
	Name                string
	Attributes          MethodAttributes
	ImplAttributes      MethodImplAttributes
	SemanticsAttributes MethodSemanticsAttributes
	Signature           *MethodSig

	ParamDefs  []*ParamDef
	Parameters []*Parameter // includes the hidden this for instance methods

	GenericParams    []*GenericParam
	Overrides        []*MethodOverride
	Body             *CilBody
	ImplMap          *ImplMap
	CustomAttributes []*CustomAttribute
	DeclSecurities   []*DeclSecurity
	DeclaringType    *TypeDef
}

func (m *MethodDef) MethodName() string { return m.Name }
func (m *MethodDef) isMethodDefOrRef()  {}
func (m *MethodDef) isMemberRefParent() {}

// IsStatic reports whether the method has no this parameter.
func (m *MethodDef) IsStatic() bool { return m.Attributes&MethodAttrStatic != 0 }

// IsVirtual reports whether the method occupies a vtable slot.
func (m *MethodDef) IsVirtual() bool { return m.Attributes&MethodAttrVirtual != 0 }

// FullName returns "DeclaringType::Name".
func (m *MethodDef) FullName() string {
	if m.DeclaringType == nil {
		return m.Name
	}
	return m.DeclaringType.FullName() + "::" + m.Name
}

// UpdateParameterTypes rebuilds the Parameters list from the signature,
// the declaring type, and the param defs. Instance methods get a hidden
// this parameter at index 0.
func (m *MethodDef) UpdateParameterTypes() {
	m.Parameters = m.Parameters[:0]
	if m.Signature == nil {
		return
	}
	idx := 0
	if m.Signature.HasThis() {
		var thisType TypeSig
		if m.DeclaringType != nil {
			if m.DeclaringType.IsValueType() {
				thisType = &ByRefSig{Next: &ValueTypeSig{Type: m.DeclaringType}}
			} else {
				thisType = &ClassSig{Type: m.DeclaringType}
			}
		}
		m.Parameters = append(m.Parameters, &Parameter{
			Method:         m,
			Index:          idx,
			MethodSigIndex: -1,
			Type:           thisType,
		})
		idx++
	}
	for i, t := range m.Signature.Params {
		p := &Parameter{
			Method:         m,
			Index:          idx,
			MethodSigIndex: i,
			Type:           t,
		}
		for _, pd := range m.ParamDefs {
			if int(pd.Sequence) == i+1 {
				p.ParamDef = pd
				break
			}
		}
		m.Parameters = append(m.Parameters, p)
		idx++
	}
}

// Parameter is a runtime parameter slot referenced by instruction
// operands. The hidden this parameter has MethodSigIndex -1.
type Parameter struct {
	Method         *MethodDef
	Index          int // index into Parameters, including the hidden this
	MethodSigIndex int // index into the signature params, -1 for this
	Type           TypeSig
	ParamDef       *ParamDef
}

// IsHiddenThis reports whether the parameter is the implicit this.
func (p *Parameter) IsHiddenThis() bool { return p.MethodSigIndex < 0 }

// Name returns the param def name, or "" for unnamed parameters.
func (p *Parameter) Name() string {
	if p.ParamDef == nil {
		return ""
	}
	return p.ParamDef.Name
}

// ParamDef is the metadata row carrying a parameter's name, flags,
// constant, and marshaling.
type ParamDef struct {
	row
	Name             string
	Sequence         uint16 // 1-based; 0 is the return value
	Attributes       ParamAttributes
	Constant         *Constant
	MarshalType      MarshalType
	CustomAttributes []*CustomAttribute
}

// FieldDef is a field defined in a module.
type FieldDef struct {
	row
	Name             string
	Attributes       FieldAttributes
	Signature        *FieldSig
	Constant         *Constant
	MarshalType      MarshalType
	RVA              uint32
	InitialValue     []byte
	ImplMap          *ImplMap
	CustomAttributes []*CustomAttribute
	DeclaringType    *TypeDef
}

func (f *FieldDef) FieldName() string { return f.Name }
func (f *FieldDef) isFieldDefOrRef()  {}

// IsStatic reports whether the field is static.
func (f *FieldDef) IsStatic() bool { return f.Attributes&FieldAttrStatic != 0 }

// FullName returns "DeclaringType::Name".
func (f *FieldDef) FullName() string {
	if f.DeclaringType == nil {
		return f.Name
	}
	return f.DeclaringType.FullName() + "::" + f.Name
}

// PropertyDef is a property defined in a module.
type PropertyDef struct {
	row
	Name             string
	Attributes       PropertyAttributes
	Signature        *PropertySig
	GetMethod        *MethodDef
	SetMethod        *MethodDef
	OtherMethods     []*MethodDef
	Constant         *Constant
	CustomAttributes []*CustomAttribute
	DeclaringType    *TypeDef
}

// IsVirtual reports whether any accessor is virtual.
func (p *PropertyDef) IsVirtual() bool {
	if p.GetMethod != nil && p.GetMethod.IsVirtual() {
		return true
	}
	if p.SetMethod != nil && p.SetMethod.IsVirtual() {
		return true
	}
	for _, m := range p.OtherMethods {
		if m.IsVirtual() {
			return true
		}
	}
	return false
}

// EventDef is an event defined in a module.
type EventDef struct {
	row
	Name             string
	Attributes       EventAttributes
	EventType        TypeDefOrRef
	AddMethod        *MethodDef
	RemoveMethod     *MethodDef
	InvokeMethod     *MethodDef
	OtherMethods     []*MethodDef
	CustomAttributes []*CustomAttribute
	DeclaringType    *TypeDef
}

// IsVirtual reports whether any accessor is virtual.
func (e *EventDef) IsVirtual() bool {
	if e.AddMethod != nil && e.AddMethod.IsVirtual() {
		return true
	}
	if e.RemoveMethod != nil && e.RemoveMethod.IsVirtual() {
		return true
	}
	if e.InvokeMethod != nil && e.InvokeMethod.IsVirtual() {
		return true
	}
	for _, m := range e.OtherMethods {
		if m.IsVirtual() {
			return true
		}
	}
	return false
}

// GenericParam is a generic parameter of a type or method.
type GenericParam struct {
	row
	Number           uint16
	Attributes       GenericParamAttributes
	Name             string
	Constraints      []*GenericParamConstraint
	CustomAttributes []*CustomAttribute
}

// GenericParamConstraint constrains a generic parameter to a type.
type GenericParamConstraint struct {
	row
	Constraint       TypeDefOrRef
	CustomAttributes []*CustomAttribute
}

// MemberRef is a reference to a method or field of another type or module.
type MemberRef struct {
	row
	Name      string
	Class     MemberRefParent
	Signature CallingConventionSig
	Module    *Module
}

func (r *MemberRef) MethodName() string { return r.Name }
func (r *MemberRef) FieldName() string  { return r.Name }
func (r *MemberRef) isMethodDefOrRef()  {}
func (r *MemberRef) isFieldDefOrRef()   {}

// IsMethodRef reports whether the reference carries a method signature.
func (r *MemberRef) IsMethodRef() bool {
	_, ok := r.Signature.(*MethodSig)
	return ok
}

// IsFieldRef reports whether the reference carries a field signature.
func (r *MemberRef) IsFieldRef() bool {
	_, ok := r.Signature.(*FieldSig)
	return ok
}

// MethodSig returns the method signature, or nil for field refs.
func (r *MemberRef) MethodSig() *MethodSig {
	s, _ := r.Signature.(*MethodSig)
	return s
}

// FieldSig returns the field signature, or nil for method refs.
func (r *MemberRef) FieldSig() *FieldSig {
	s, _ := r.Signature.(*FieldSig)
	return s
}

// MethodSpec instantiates a generic method.
type MethodSpec struct {
	row
	Method        IMethod
	Instantiation *GenericInstMethodSig
}

func (s *MethodSpec) MethodName() string {
	if s.Method == nil {
		return ""
	}
	return s.Method.MethodName()
}
func (s *MethodSpec) isMethodDefOrRef() {}

// MethodOverride pairs an overriding body with the declaration it
// implements.
type MethodOverride struct {
	Body        IMethod
	Declaration IMethod
}

// ImplMap is a P/Invoke mapping.
type ImplMap struct {
	row
	Attributes PInvokeAttributes
	Name       string
	Module     *ModuleRef
}

// Constant is a compile-time constant value.
type Constant struct {
	Type  ElementType
	Value any
}

// DeclSecurity is a declarative security row.
type DeclSecurity struct {
	row
	Action           uint16
	Attributes       []*SecurityAttribute
	CustomAttributes []*CustomAttribute
}

// SecurityAttribute is one permission inside a DeclSecurity row.
type SecurityAttribute struct {
	AttributeType  TypeSig
	NamedArguments []*CANamedArgument
}

// MemberRefParent implementations.
func (t *TypeDef) isMemberRefParent()   {}
func (t *TypeRef) isMemberRefParent()   {}
func (t *TypeSpec) isMemberRefParent()  {}
func (r *ModuleRef) isMemberRefParent() {}

// IsValueType reports whether the type derives from System.ValueType or
// System.Enum.
func (t *TypeDef) IsValueType() bool {
	if t.BaseType == nil {
		return false
	}
	switch t.BaseType.FullName() {
	case "System.ValueType", "System.Enum":
		return true
	}
	return false
}
