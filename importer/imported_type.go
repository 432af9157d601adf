package importer

import "github.com/wippyai/clr-importer/metadata"

// ImportedType is the planning decision for one compiled type: either it
// becomes a fresh type in the target module, or it is fused onto an
// existing target type.
type ImportedType interface {
	// TargetType is the type in the target module the decision binds to.
	TargetType() *metadata.TypeDef
	// SourceType is the compiled type the decision was made for.
	SourceType() *metadata.TypeDef
	isImportedType()
}

// NewImportedType is a compiled type that becomes a freshly created
// target type, possibly renamed to avoid a top-level name collision.
type NewImportedType struct {
	Target *metadata.TypeDef
	Source *metadata.TypeDef

	// Renamed is set when the target type got a fresh name.
	Renamed bool
}

func (t *NewImportedType) TargetType() *metadata.TypeDef { return t.Target }
func (t *NewImportedType) SourceType() *metadata.TypeDef { return t.Source }
func (t *NewImportedType) isImportedType()               {}

// MergedImportedType is a compiled type fused onto an existing target
// type. Members present on both sides are stubs; members only the
// compiler emitted are collected in the New* lists.
type MergedImportedType struct {
	Target *metadata.TypeDef
	Source *metadata.TypeDef

	// RenameDuplicates selects merge-with-rename mode: compiled members
	// colliding with existing target members are renamed instead of being
	// treated as stubs. Used for the global module type.
	RenameDuplicates bool

	// NewNestedTypes are compiled nested types the target type lacks;
	// MergedNestedTypes are nested pairs fused recursively. A downstream
	// merger walks both.
	NewNestedTypes    []*NewImportedType
	MergedNestedTypes []*MergedImportedType

	NewFields     []*metadata.FieldDef
	NewMethods    []*metadata.MethodDef
	NewProperties []*metadata.PropertyDef
	NewEvents     []*metadata.EventDef

	EditedMethodBodies []*EditedMethodBody
}

func (t *MergedImportedType) TargetType() *metadata.TypeDef { return t.Target }
func (t *MergedImportedType) SourceType() *metadata.TypeDef { return t.Source }
func (t *MergedImportedType) isImportedType()               {}

// IsEmpty reports whether the merge changes nothing on the target type,
// including through its nested merges.
func (t *MergedImportedType) IsEmpty() bool {
	if len(t.NewNestedTypes) != 0 ||
		len(t.NewFields) != 0 ||
		len(t.NewMethods) != 0 ||
		len(t.NewProperties) != 0 ||
		len(t.NewEvents) != 0 ||
		len(t.EditedMethodBodies) != 0 {
		return false
	}
	for _, n := range t.MergedNestedTypes {
		if !n.IsEmpty() {
			return false
		}
	}
	return true
}

// EditedMethodBody replaces the body of an existing target method.
type EditedMethodBody struct {
	TargetMethod   *metadata.MethodDef
	Body           *metadata.CilBody
	ImplAttributes metadata.MethodImplAttributes
}

// ImportResult is the outcome of one Import call. Partial success is
// legitimate: the type lists may be non-empty alongside error
// diagnostics.
type ImportResult struct {
	Diagnostics []Diagnostic

	// NewTypes are fresh top-level types to add to the target module.
	NewTypes []*NewImportedType

	// MergedTypes are existing top-level target types to modify in place,
	// filtered to drop empty merges.
	MergedTypes []*MergedImportedType
}

// HasErrors reports whether any diagnostic is an error.
func (r *ImportResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
