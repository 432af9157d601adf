package metadata

// CustomAttribute is an applied custom attribute. Attributes read from a
// blob the reader could not decode keep RawData set and carry no decoded
// arguments.
type CustomAttribute struct {
	Ctor                 IMethod
	RawData              []byte
	ConstructorArguments []CAArgument
	NamedArguments       []*CANamedArgument
}

// IsRawBlob reports whether the attribute carries an undecoded blob.
func (c *CustomAttribute) IsRawBlob() bool { return c.RawData != nil }

// CAArgument is one custom attribute argument. Value is a primitive, a
// string, a TypeSig (typeof argument), a nested CAArgument (boxed
// argument), or a []CAArgument (array argument).
type CAArgument struct {
	Type  TypeSig
	Value any
}

// CANamedArgument is a named field or property argument.
type CANamedArgument struct {
	IsField  bool
	Type     TypeSig
	Name     string
	Argument CAArgument
}

// NativeType is the unmanaged type byte of a marshal descriptor.
type NativeType uint32

const (
	NativeBoolean         NativeType = 0x02
	NativeI1              NativeType = 0x03
	NativeU1              NativeType = 0x04
	NativeI2              NativeType = 0x05
	NativeU2              NativeType = 0x06
	NativeI4              NativeType = 0x07
	NativeU4              NativeType = 0x08
	NativeI8              NativeType = 0x09
	NativeU8              NativeType = 0x0A
	NativeR4              NativeType = 0x0B
	NativeR8              NativeType = 0x0C
	NativeLPStr           NativeType = 0x14
	NativeLPWStr          NativeType = 0x15
	NativeByValTStr       NativeType = 0x17
	NativeIUnknown        NativeType = 0x19
	NativeIDispatch       NativeType = 0x1A
	NativeInterface       NativeType = 0x1C
	NativeSafeArray       NativeType = 0x1D
	NativeByValArray      NativeType = 0x1E
	NativeLPArray         NativeType = 0x2A
	NativeCustomMarshaler NativeType = 0x2C
	NativeRawBlob         NativeType = 0xFFFFFFFF
)

// MarshalType is a field or parameter marshal descriptor. The variant set
// is closed: raw, fixed sys string, safe array, fixed array, array,
// custom, interface, and plain.
type MarshalType interface {
	MarshalNativeType() NativeType
	isMarshalType()
}

// RawMarshalType is an undecoded marshal blob copied verbatim.
type RawMarshalType struct {
	Data []byte
}

func (m *RawMarshalType) MarshalNativeType() NativeType { return NativeRawBlob }
func (m *RawMarshalType) isMarshalType()                {}

// FixedSysStringMarshalType is a ByValTStr descriptor.
type FixedSysStringMarshalType struct {
	Size int32
}

func (m *FixedSysStringMarshalType) MarshalNativeType() NativeType { return NativeByValTStr }
func (m *FixedSysStringMarshalType) isMarshalType()                {}

// SafeArrayMarshalType is a SafeArray descriptor.
type SafeArrayMarshalType struct {
	VariantType        int32
	UserDefinedSubType TypeSig
}

func (m *SafeArrayMarshalType) MarshalNativeType() NativeType { return NativeSafeArray }
func (m *SafeArrayMarshalType) isMarshalType()                {}

// FixedArrayMarshalType is a ByValArray descriptor.
type FixedArrayMarshalType struct {
	Size        int32
	ElementType NativeType
}

func (m *FixedArrayMarshalType) MarshalNativeType() NativeType { return NativeByValArray }
func (m *FixedArrayMarshalType) isMarshalType()                {}

// ArrayMarshalType is an LPArray descriptor.
type ArrayMarshalType struct {
	ElementType NativeType
	ParamNumber int32
	Size        int32
	Flags       int32
}

func (m *ArrayMarshalType) MarshalNativeType() NativeType { return NativeLPArray }
func (m *ArrayMarshalType) isMarshalType()                {}

// CustomMarshalType is a CustomMarshaler descriptor.
type CustomMarshalType struct {
	GUID            string
	NativeTypeName  string
	CustomMarshaler TypeSig
	Cookie          string
}

func (m *CustomMarshalType) MarshalNativeType() NativeType { return NativeCustomMarshaler }
func (m *CustomMarshalType) isMarshalType()                {}

// InterfaceMarshalType is an Interface/IUnknown/IDispatch descriptor.
type InterfaceMarshalType struct {
	NativeType    NativeType
	IidParamIndex int32
}

func (m *InterfaceMarshalType) MarshalNativeType() NativeType { return m.NativeType }
func (m *InterfaceMarshalType) isMarshalType()                {}

// PlainMarshalType carries only a native type byte.
type PlainMarshalType struct {
	NativeType NativeType
}

func (m *PlainMarshalType) MarshalNativeType() NativeType { return m.NativeType }
func (m *PlainMarshalType) isMarshalType()                {}
