package metadata

// ElementType is the CLI metadata element type byte as it appears in
// signature blobs (ECMA-335 II.23.1.16).
type ElementType byte

const (
	ElemEnd         ElementType = 0x00
	ElemVoid        ElementType = 0x01
	ElemBoolean     ElementType = 0x02
	ElemChar        ElementType = 0x03
	ElemI1          ElementType = 0x04
	ElemU1          ElementType = 0x05
	ElemI2          ElementType = 0x06
	ElemU2          ElementType = 0x07
	ElemI4          ElementType = 0x08
	ElemU4          ElementType = 0x09
	ElemI8          ElementType = 0x0A
	ElemU8          ElementType = 0x0B
	ElemR4          ElementType = 0x0C
	ElemR8          ElementType = 0x0D
	ElemString      ElementType = 0x0E
	ElemPtr         ElementType = 0x0F
	ElemByRef       ElementType = 0x10
	ElemValueType   ElementType = 0x11
	ElemClass       ElementType = 0x12
	ElemVar         ElementType = 0x13
	ElemArray       ElementType = 0x14
	ElemGenericInst ElementType = 0x15
	ElemTypedByRef  ElementType = 0x16
	ElemValueArray  ElementType = 0x17
	ElemI           ElementType = 0x18
	ElemU           ElementType = 0x19
	ElemFnPtr       ElementType = 0x1B
	ElemObject      ElementType = 0x1C
	ElemSZArray     ElementType = 0x1D
	ElemMVar        ElementType = 0x1E
	ElemCModReqd    ElementType = 0x1F
	ElemCModOpt     ElementType = 0x20
	ElemInternal    ElementType = 0x21
	ElemModule      ElementType = 0x3F
	ElemSentinel    ElementType = 0x41
	ElemPinned      ElementType = 0x45
)

// String returns the lowercase mnemonic for the element type.
func (e ElementType) String() string {
	switch e {
	case ElemEnd:
		return "end"
	case ElemVoid:
		return "void"
	case ElemBoolean:
		return "bool"
	case ElemChar:
		return "char"
	case ElemI1:
		return "int8"
	case ElemU1:
		return "uint8"
	case ElemI2:
		return "int16"
	case ElemU2:
		return "uint16"
	case ElemI4:
		return "int32"
	case ElemU4:
		return "uint32"
	case ElemI8:
		return "int64"
	case ElemU8:
		return "uint64"
	case ElemR4:
		return "float32"
	case ElemR8:
		return "float64"
	case ElemString:
		return "string"
	case ElemPtr:
		return "ptr"
	case ElemByRef:
		return "byref"
	case ElemValueType:
		return "valuetype"
	case ElemClass:
		return "class"
	case ElemVar:
		return "var"
	case ElemArray:
		return "array"
	case ElemGenericInst:
		return "genericinst"
	case ElemTypedByRef:
		return "typedref"
	case ElemValueArray:
		return "valuearray"
	case ElemI:
		return "native int"
	case ElemU:
		return "native uint"
	case ElemFnPtr:
		return "fnptr"
	case ElemObject:
		return "object"
	case ElemSZArray:
		return "szarray"
	case ElemMVar:
		return "mvar"
	case ElemCModReqd:
		return "modreq"
	case ElemCModOpt:
		return "modopt"
	case ElemInternal:
		return "internal"
	case ElemModule:
		return "module"
	case ElemSentinel:
		return "sentinel"
	case ElemPinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// TypeSig is a node in a type signature tree.
type TypeSig interface {
	ElemType() ElementType
	isTypeSig()
}

// LeafSig is a TypeSig that does not wrap a single next signature:
// primitives, class/valuetype references, generic variables, function
// pointers, and generic instantiations.
type LeafSig interface {
	TypeSig
	isLeafSig()
}

// NonLeafSig is a TypeSig wrapping another signature.
type NonLeafSig interface {
	TypeSig
	Inner() TypeSig
}

// ClassOrValueTypeSig is a class or valuetype signature carrying a
// type-def-or-ref.
type ClassOrValueTypeSig interface {
	LeafSig
	TypeDefOrRef() TypeDefOrRef
}

// CorLibTypeSig is a canonical signature for one of the runtime's built-in
// primitive types. Each module owns exactly one CorLibTypeSig per element
// type; comparing pointers is enough to test canonical identity.
type CorLibTypeSig struct {
	Elem ElementType
	Type TypeDefOrRef // corlib type reference, may be nil for synthetic modules
}

func (s *CorLibTypeSig) ElemType() ElementType { return s.Elem }
func (s *CorLibTypeSig) isTypeSig()            {}
func (s *CorLibTypeSig) isLeafSig()            {}

// ClassSig is a reference-type signature.
type ClassSig struct {
	Type TypeDefOrRef
}

func (s *ClassSig) ElemType() ElementType      { return ElemClass }
func (s *ClassSig) isTypeSig()                 {}
func (s *ClassSig) isLeafSig()                 {}
func (s *ClassSig) TypeDefOrRef() TypeDefOrRef { return s.Type }

// ValueTypeSig is a value-type signature.
type ValueTypeSig struct {
	Type TypeDefOrRef
}

func (s *ValueTypeSig) ElemType() ElementType      { return ElemValueType }
func (s *ValueTypeSig) isTypeSig()                 {}
func (s *ValueTypeSig) isLeafSig()                 {}
func (s *ValueTypeSig) TypeDefOrRef() TypeDefOrRef { return s.Type }

// PtrSig is an unmanaged pointer signature.
type PtrSig struct {
	Next TypeSig
}

func (s *PtrSig) ElemType() ElementType { return ElemPtr }
func (s *PtrSig) isTypeSig()            {}
func (s *PtrSig) Inner() TypeSig        { return s.Next }

// ByRefSig is a managed reference signature.
type ByRefSig struct {
	Next TypeSig
}

func (s *ByRefSig) ElemType() ElementType { return ElemByRef }
func (s *ByRefSig) isTypeSig()            {}
func (s *ByRefSig) Inner() TypeSig        { return s.Next }

// SZArraySig is a single-dimensional, zero-based array signature.
type SZArraySig struct {
	Next TypeSig
}

func (s *SZArraySig) ElemType() ElementType { return ElemSZArray }
func (s *SZArraySig) isTypeSig()            {}
func (s *SZArraySig) Inner() TypeSig        { return s.Next }

// ArraySig is a multi-dimensional array signature.
type ArraySig struct {
	Next        TypeSig
	Rank        uint32
	Sizes       []uint32
	LowerBounds []int32
}

func (s *ArraySig) ElemType() ElementType { return ElemArray }
func (s *ArraySig) isTypeSig()            {}
func (s *ArraySig) Inner() TypeSig        { return s.Next }

// PinnedSig pins a local variable signature.
type PinnedSig struct {
	Next TypeSig
}

func (s *PinnedSig) ElemType() ElementType { return ElemPinned }
func (s *PinnedSig) isTypeSig()            {}
func (s *PinnedSig) Inner() TypeSig        { return s.Next }

// ValueArraySig is the non-standard value array signature.
type ValueArraySig struct {
	Next TypeSig
	Size uint32
}

func (s *ValueArraySig) ElemType() ElementType { return ElemValueArray }
func (s *ValueArraySig) isTypeSig()            {}
func (s *ValueArraySig) Inner() TypeSig        { return s.Next }

// CModReqdSig is a required custom modifier.
type CModReqdSig struct {
	Modifier TypeDefOrRef
	Next     TypeSig
}

func (s *CModReqdSig) ElemType() ElementType { return ElemCModReqd }
func (s *CModReqdSig) isTypeSig()            {}
func (s *CModReqdSig) Inner() TypeSig        { return s.Next }

// CModOptSig is an optional custom modifier.
type CModOptSig struct {
	Modifier TypeDefOrRef
	Next     TypeSig
}

func (s *CModOptSig) ElemType() ElementType { return ElemCModOpt }
func (s *CModOptSig) isTypeSig()            {}
func (s *CModOptSig) Inner() TypeSig        { return s.Next }

// ModuleSig is the non-standard module signature wrapping an inner type.
type ModuleSig struct {
	Index uint32
	Next  TypeSig
}

func (s *ModuleSig) ElemType() ElementType { return ElemModule }
func (s *ModuleSig) isTypeSig()            {}
func (s *ModuleSig) Inner() TypeSig        { return s.Next }

// FnPtrSig is a function pointer signature.
type FnPtrSig struct {
	Sig CallingConventionSig
}

func (s *FnPtrSig) ElemType() ElementType { return ElemFnPtr }
func (s *FnPtrSig) isTypeSig()            {}
func (s *FnPtrSig) isLeafSig()            {}

// GenericInstSig is an instantiated generic type signature.
type GenericInstSig struct {
	Generic ClassOrValueTypeSig
	Args    []TypeSig
}

func (s *GenericInstSig) ElemType() ElementType { return ElemGenericInst }
func (s *GenericInstSig) isTypeSig()            {}
func (s *GenericInstSig) isLeafSig()            {}

// GenericVarSig is a generic type parameter (!N) owned by a type.
type GenericVarSig struct {
	Number uint32
	Owner  *TypeDef
}

func (s *GenericVarSig) ElemType() ElementType { return ElemVar }
func (s *GenericVarSig) isTypeSig()            {}
func (s *GenericVarSig) isLeafSig()            {}

// GenericMVarSig is a generic method parameter (!!N) owned by a method.
type GenericMVarSig struct {
	Number uint32
	Owner  *MethodDef
}

func (s *GenericMVarSig) ElemType() ElementType { return ElemMVar }
func (s *GenericMVarSig) isTypeSig()            {}
func (s *GenericMVarSig) isLeafSig()            {}

// CallingConvention is the first byte of a calling-convention signature
// blob, including the flag bits.
type CallingConvention byte

const (
	CallConvDefault      CallingConvention = 0x00
	CallConvC            CallingConvention = 0x01
	CallConvStdCall      CallingConvention = 0x02
	CallConvThisCall     CallingConvention = 0x03
	CallConvFastCall     CallingConvention = 0x04
	CallConvVarArg       CallingConvention = 0x05
	CallConvField        CallingConvention = 0x06
	CallConvLocalSig     CallingConvention = 0x07
	CallConvProperty     CallingConvention = 0x08
	CallConvGenericInst  CallingConvention = 0x0A
	CallConvMask         CallingConvention = 0x0F
	CallConvGeneric      CallingConvention = 0x10
	CallConvHasThis      CallingConvention = 0x20
	CallConvExplicitThis CallingConvention = 0x40
)

// IsHasThis reports whether the HasThis flag is set.
func (c CallingConvention) IsHasThis() bool { return c&CallConvHasThis != 0 }

// IsGeneric reports whether the Generic flag is set.
func (c CallingConvention) IsGeneric() bool { return c&CallConvGeneric != 0 }

// CallingConventionSig is a full signature blob: method, field, property,
// local variable, or generic method instantiation.
type CallingConventionSig interface {
	GetCallingConvention() CallingConvention
	isCallingConventionSig()
}

// MethodSig is a method signature.
type MethodSig struct {
	CallConv            CallingConvention
	RetType             TypeSig
	Params              []TypeSig
	GenParamCount       uint32
	ParamsAfterSentinel []TypeSig
}

func (s *MethodSig) GetCallingConvention() CallingConvention { return s.CallConv }
func (s *MethodSig) isCallingConventionSig()                 {}

// HasThis reports whether the signature carries an implicit this parameter.
func (s *MethodSig) HasThis() bool { return s.CallConv.IsHasThis() }

// NewMethodSig builds a static method signature.
func NewMethodSig(retType TypeSig, params ...TypeSig) *MethodSig {
	return &MethodSig{CallConv: CallConvDefault, RetType: retType, Params: params}
}

// NewInstanceMethodSig builds an instance method signature.
func NewInstanceMethodSig(retType TypeSig, params ...TypeSig) *MethodSig {
	return &MethodSig{CallConv: CallConvHasThis, RetType: retType, Params: params}
}

// FieldSig is a field signature.
type FieldSig struct {
	CallConv CallingConvention
	Type     TypeSig
}

func (s *FieldSig) GetCallingConvention() CallingConvention { return s.CallConv }
func (s *FieldSig) isCallingConventionSig()                 {}

// NewFieldSig builds a field signature.
func NewFieldSig(fieldType TypeSig) *FieldSig {
	return &FieldSig{CallConv: CallConvField, Type: fieldType}
}

// PropertySig is a property signature. It has the same shape as a method
// signature with the property calling convention.
type PropertySig struct {
	CallConv            CallingConvention
	RetType             TypeSig
	Params              []TypeSig
	GenParamCount       uint32
	ParamsAfterSentinel []TypeSig
}

func (s *PropertySig) GetCallingConvention() CallingConvention { return s.CallConv }
func (s *PropertySig) isCallingConventionSig()                 {}

// NewPropertySig builds an instance property signature.
func NewPropertySig(retType TypeSig, params ...TypeSig) *PropertySig {
	return &PropertySig{CallConv: CallConvProperty | CallConvHasThis, RetType: retType, Params: params}
}

// LocalSig is a local variable signature.
type LocalSig struct {
	CallConv CallingConvention
	Locals   []TypeSig
}

func (s *LocalSig) GetCallingConvention() CallingConvention { return s.CallConv }
func (s *LocalSig) isCallingConventionSig()                 {}

// GenericInstMethodSig is the instantiation blob of a MethodSpec.
type GenericInstMethodSig struct {
	CallConv CallingConvention
	Args     []TypeSig
}

func (s *GenericInstMethodSig) GetCallingConvention() CallingConvention { return s.CallConv }
func (s *GenericInstMethodSig) isCallingConventionSig()                 {}

// CorLibTypes holds the canonical primitive signatures of one module.
type CorLibTypes struct {
	Void           *CorLibTypeSig
	Boolean        *CorLibTypeSig
	Char           *CorLibTypeSig
	SByte          *CorLibTypeSig
	Byte           *CorLibTypeSig
	Int16          *CorLibTypeSig
	UInt16         *CorLibTypeSig
	Int32          *CorLibTypeSig
	UInt32         *CorLibTypeSig
	Int64          *CorLibTypeSig
	UInt64         *CorLibTypeSig
	Single         *CorLibTypeSig
	Double         *CorLibTypeSig
	String         *CorLibTypeSig
	TypedReference *CorLibTypeSig
	IntPtr         *CorLibTypeSig
	UIntPtr        *CorLibTypeSig
	Object         *CorLibTypeSig
}

// NewCorLibTypes creates the canonical signature set for a module.
func NewCorLibTypes() *CorLibTypes {
	mk := func(e ElementType) *CorLibTypeSig { return &CorLibTypeSig{Elem: e} }
	return &CorLibTypes{
		Void:           mk(ElemVoid),
		Boolean:        mk(ElemBoolean),
		Char:           mk(ElemChar),
		SByte:          mk(ElemI1),
		Byte:           mk(ElemU1),
		Int16:          mk(ElemI2),
		UInt16:         mk(ElemU2),
		Int32:          mk(ElemI4),
		UInt32:         mk(ElemU4),
		Int64:          mk(ElemI8),
		UInt64:         mk(ElemU8),
		Single:         mk(ElemR4),
		Double:         mk(ElemR8),
		String:         mk(ElemString),
		TypedReference: mk(ElemTypedByRef),
		IntPtr:         mk(ElemI),
		UIntPtr:        mk(ElemU),
		Object:         mk(ElemObject),
	}
}

// ByElementType returns the canonical signature for a primitive element
// type, or nil if the element type is not a corlib primitive.
func (c *CorLibTypes) ByElementType(e ElementType) *CorLibTypeSig {
	switch e {
	case ElemVoid:
		return c.Void
	case ElemBoolean:
		return c.Boolean
	case ElemChar:
		return c.Char
	case ElemI1:
		return c.SByte
	case ElemU1:
		return c.Byte
	case ElemI2:
		return c.Int16
	case ElemU2:
		return c.UInt16
	case ElemI4:
		return c.Int32
	case ElemU4:
		return c.UInt32
	case ElemI8:
		return c.Int64
	case ElemU8:
		return c.UInt64
	case ElemR4:
		return c.Single
	case ElemR8:
		return c.Double
	case ElemString:
		return c.String
	case ElemTypedByRef:
		return c.TypedReference
	case ElemI:
		return c.IntPtr
	case ElemU:
		return c.UIntPtr
	case ElemObject:
		return c.Object
	default:
		return nil
	}
}
