package metadata

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// GlobalTypeName is the name of the module's global type holding global
// fields and methods.
const GlobalTypeName = "<Module>"

// Handle is any metadata descriptor that owns a row id.
type Handle interface {
	setRID(uint32)
}

// row is embedded by every descriptor backed by a metadata table row.
type row struct {
	RID uint32
}

func (r *row) setRID(id uint32) { r.RID = id }

// Version is a four-part assembly version.
type Version struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

// String returns "major.minor.build.revision".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Assembly is an assembly manifest.
type Assembly struct {
	Name           string
	Version        Version
	Culture        string
	PublicKeyToken []byte
}

// FullName returns the display name, e.g.
// "Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null".
func (a *Assembly) FullName() string {
	return assemblyFullName(a.Name, a.Version, a.Culture, a.PublicKeyToken)
}

// ToRef creates an AssemblyRef naming this assembly.
func (a *Assembly) ToRef() *AssemblyRef {
	return &AssemblyRef{
		Name:           a.Name,
		Version:        a.Version,
		Culture:        a.Culture,
		PublicKeyToken: append([]byte(nil), a.PublicKeyToken...),
	}
}

func assemblyFullName(name string, v Version, culture string, token []byte) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(", Version=")
	b.WriteString(v.String())
	b.WriteString(", Culture=")
	if culture == "" {
		b.WriteString("neutral")
	} else {
		b.WriteString(culture)
	}
	b.WriteString(", PublicKeyToken=")
	if len(token) == 0 {
		b.WriteString("null")
	} else {
		b.WriteString(hex.EncodeToString(token))
	}
	return b.String()
}

// ResolutionScope is the scope of a TypeRef: an assembly reference, a
// module reference, a module, or an enclosing TypeRef for nested types.
type ResolutionScope interface {
	ScopeName() string
	isResolutionScope()
}

// AssemblyRef is a reference to an external assembly.
type AssemblyRef struct {
	row
	Name             string
	Version          Version
	Culture          string
	PublicKeyToken   []byte
	CustomAttributes []*CustomAttribute
}

func (r *AssemblyRef) ScopeName() string  { return r.Name }
func (r *AssemblyRef) isResolutionScope() {}

// FullName returns the display name of the referenced assembly.
func (r *AssemblyRef) FullName() string {
	return assemblyFullName(r.Name, r.Version, r.Culture, r.PublicKeyToken)
}

// EqualsAssembly reports whether the reference names the given assembly:
// case-insensitive name and culture, exact version and public-key token.
func (r *AssemblyRef) EqualsAssembly(a *Assembly) bool {
	if a == nil {
		return false
	}
	return strings.EqualFold(r.Name, a.Name) &&
		r.Version == a.Version &&
		strings.EqualFold(r.Culture, a.Culture) &&
		bytes.Equal(r.PublicKeyToken, a.PublicKeyToken)
}

// ModuleRef is a reference to another module of the same assembly.
type ModuleRef struct {
	row
	Name             string
	CustomAttributes []*CustomAttribute
}

func (r *ModuleRef) ScopeName() string  { return r.Name }
func (r *ModuleRef) isResolutionScope() {}

// Module is a parsed metadata module: the unit the importer reads from and
// writes into.
type Module struct {
	row
	Name     string
	Assembly *Assembly
	Types    []*TypeDef // top-level types only, including the global type
	CorLib   *CorLibTypes

	nextRID uint32
}

func (m *Module) ScopeName() string  { return m.Name }
func (m *Module) isResolutionScope() {}

// NewModule creates an empty module with a fresh global type and canonical
// corlib signatures.
func NewModule(name string, asm *Assembly) *Module {
	m := &Module{
		Name:     name,
		Assembly: asm,
		CorLib:   NewCorLibTypes(),
	}
	global := &TypeDef{Name: GlobalTypeName, Module: m}
	m.UpdateRowID(global)
	m.Types = append(m.Types, global)
	return m
}

// UpdateRowID assigns the next free row id to a descriptor. Fresh target
// descriptors created during an import receive their identity here.
func (m *Module) UpdateRowID(h Handle) {
	m.nextRID++
	h.setRID(m.nextRID)
}

// GlobalType returns the module's global type.
func (m *Module) GlobalType() *TypeDef {
	for _, t := range m.Types {
		if t.Name == GlobalTypeName {
			return t
		}
	}
	return nil
}

// Find returns the top-level type with the given namespace and name, or
// nil if the module has none.
func (m *Module) Find(namespace, name string) *TypeDef {
	for _, t := range m.Types {
		if t.Namespace == namespace && t.Name == name {
			return t
		}
	}
	return nil
}

// AddType appends a top-level type and stamps its row id.
func (m *Module) AddType(t *TypeDef) *TypeDef {
	t.Module = m
	m.UpdateRowID(t)
	m.Types = append(m.Types, t)
	return t
}

// AllTypes returns every type in the module, walking nested types
// depth-first.
func (m *Module) AllTypes() []*TypeDef {
	var all []*TypeDef
	var walk func(t *TypeDef)
	walk = func(t *TypeDef) {
		all = append(all, t)
		for _, n := range t.NestedTypes {
			walk(n)
		}
	}
	for _, t := range m.Types {
		walk(t)
	}
	return all
}
