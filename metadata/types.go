package metadata

// TypeAttributes are the TypeDef flag bits.
type TypeAttributes uint32

const (
	TypeAttrPublic       TypeAttributes = 0x00000001
	TypeAttrNestedPublic TypeAttributes = 0x00000002
	TypeAttrSequential   TypeAttributes = 0x00000008
	TypeAttrExplicit     TypeAttributes = 0x00000010
	TypeAttrInterface    TypeAttributes = 0x00000020
	TypeAttrAbstract     TypeAttributes = 0x00000080
	TypeAttrSealed       TypeAttributes = 0x00000100
	TypeAttrSpecialName  TypeAttributes = 0x00000400
	TypeAttrImport       TypeAttributes = 0x00001000
	TypeAttrBeforeField  TypeAttributes = 0x00100000
)

// TypeDefOrRef is a type definition, a type reference, or a type
// specification.
type TypeDefOrRef interface {
	TypeName() string
	TypeNamespace() string
	FullName() string
	isTypeDefOrRef()
}

// TypeDef is a type defined in a module.
type TypeDef struct {
	row
	Namespace  string
	Name       string
	Attributes TypeAttributes
	BaseType   TypeDefOrRef

	Fields     []*FieldDef
	Methods    []*MethodDef
	Properties []*PropertyDef
	Events     []*EventDef

	NestedTypes   []*TypeDef
	DeclaringType *TypeDef

	GenericParams    []*GenericParam
	Interfaces       []*InterfaceImpl
	Layout           *ClassLayout
	CustomAttributes []*CustomAttribute
	DeclSecurities   []*DeclSecurity

	Module *Module
}

func (t *TypeDef) TypeName() string      { return t.Name }
func (t *TypeDef) TypeNamespace() string { return t.Namespace }
func (t *TypeDef) isTypeDefOrRef()       {}

// FullName returns "Namespace.Name", with nested types joined by "/".
func (t *TypeDef) FullName() string {
	name := t.Name
	if t.Namespace != "" {
		name = t.Namespace + "." + name
	}
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + name
	}
	return name
}

// IsGlobalModuleType reports whether this is the module's global type.
func (t *TypeDef) IsGlobalModuleType() bool { return t.Name == GlobalTypeName }

// OutermostType walks declaring types up to the non-nested enclosing type.
func (t *TypeDef) OutermostType() *TypeDef {
	cur := t
	for cur.DeclaringType != nil {
		cur = cur.DeclaringType
	}
	return cur
}

// FindNestedType returns the directly nested type with the given
// namespace and name, or nil.
func (t *TypeDef) FindNestedType(namespace, name string) *TypeDef {
	for _, n := range t.NestedTypes {
		if n.Namespace == namespace && n.Name == name {
			return n
		}
	}
	return nil
}

// AddField appends a field and binds its declaring type.
func (t *TypeDef) AddField(f *FieldDef) *FieldDef {
	f.DeclaringType = t
	if t.Module != nil && f.RID == 0 {
		t.Module.UpdateRowID(f)
	}
	t.Fields = append(t.Fields, f)
	return f
}

// AddMethod appends a method, binds its declaring type, and rebuilds its
// parameter list.
func (t *TypeDef) AddMethod(m *MethodDef) *MethodDef {
	m.DeclaringType = t
	if t.Module != nil && m.RID == 0 {
		t.Module.UpdateRowID(m)
	}
	t.Methods = append(t.Methods, m)
	m.UpdateParameterTypes()
	return m
}

// AddProperty appends a property and binds its declaring type.
func (t *TypeDef) AddProperty(p *PropertyDef) *PropertyDef {
	p.DeclaringType = t
	if t.Module != nil && p.RID == 0 {
		t.Module.UpdateRowID(p)
	}
	t.Properties = append(t.Properties, p)
	return p
}

// AddEvent appends an event and binds its declaring type.
func (t *TypeDef) AddEvent(e *EventDef) *EventDef {
	e.DeclaringType = t
	if t.Module != nil && e.RID == 0 {
		t.Module.UpdateRowID(e)
	}
	t.Events = append(t.Events, e)
	return e
}

// AddNestedType appends a nested type and binds its declaring type.
func (t *TypeDef) AddNestedType(n *TypeDef) *TypeDef {
	n.DeclaringType = t
	n.Module = t.Module
	if t.Module != nil && n.RID == 0 {
		t.Module.UpdateRowID(n)
	}
	t.NestedTypes = append(t.NestedTypes, n)
	return n
}

// FindMethod returns the first method with the given name, or nil.
func (t *TypeDef) FindMethod(name string) *MethodDef {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindField returns the first field with the given name, or nil.
func (t *TypeDef) FindField(name string) *FieldDef {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// TypeRef is a reference to a type in another scope.
type TypeRef struct {
	row
	Namespace        string
	Name             string
	Scope            ResolutionScope
	CustomAttributes []*CustomAttribute
	Module           *Module
}

func (t *TypeRef) TypeName() string      { return t.Name }
func (t *TypeRef) TypeNamespace() string { return t.Namespace }
func (t *TypeRef) isTypeDefOrRef()       {}

func (t *TypeRef) ScopeName() string  { return t.FullName() }
func (t *TypeRef) isResolutionScope() {}

// FullName returns "Namespace.Name", with enclosing TypeRef scopes joined
// by "/".
func (t *TypeRef) FullName() string {
	name := t.Name
	if t.Namespace != "" {
		name = t.Namespace + "." + name
	}
	if enc, ok := t.Scope.(*TypeRef); ok {
		return enc.FullName() + "/" + name
	}
	return name
}

// TypeSpec is a type described by a signature.
type TypeSpec struct {
	row
	Sig TypeSig
}

func (t *TypeSpec) TypeName() string      { return sigString(t.Sig) }
func (t *TypeSpec) TypeNamespace() string { return "" }
func (t *TypeSpec) isTypeDefOrRef()       {}

// FullName returns the canonical string form of the signature.
func (t *TypeSpec) FullName() string { return sigString(t.Sig) }

// InterfaceImpl records that a type implements an interface.
type InterfaceImpl struct {
	row
	Interface        TypeDefOrRef
	CustomAttributes []*CustomAttribute
}

// ClassLayout is explicit type layout information.
type ClassLayout struct {
	PackingSize uint16
	ClassSize   uint32
}
