package importer

import (
	"strings"

	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// scopeKind classifies a resolution scope relative to the two modules of
// an import.
type scopeKind int

const (
	// scopeForeign is any scope naming neither the source nor the target.
	scopeForeign scopeKind = iota
	// scopeSource names the compiled module.
	scopeSource
	// scopeTarget names the module being edited.
	scopeTarget
)

func (k scopeKind) String() string {
	switch k {
	case scopeSource:
		return "source"
	case scopeTarget:
		return "target"
	default:
		return "foreign"
	}
}

// classifyScope decides whether a resolution scope refers to the source
// module, the target module, or a foreign assembly.
//
// Assembly references compare by full name (name, version, culture,
// public-key token). Module references compare by case-insensitive name.
// Module handles compare by identity. An enclosing TypeRef never reaches
// here: the resolver walks chains to their outermost scope first.
func (im *Importer) classifyScope(scope metadata.ResolutionScope) scopeKind {
	switch s := scope.(type) {
	case *metadata.AssemblyRef:
		if s.EqualsAssembly(im.source.Assembly) {
			return scopeSource
		}
		if s.EqualsAssembly(im.target.Assembly) {
			return scopeTarget
		}
		return scopeForeign
	case *metadata.ModuleRef:
		if strings.EqualFold(s.Name, im.source.Name) {
			return scopeSource
		}
		if strings.EqualFold(s.Name, im.target.Name) {
			return scopeTarget
		}
		return scopeForeign
	case *metadata.Module:
		if s == im.source {
			return scopeSource
		}
		if s == im.target {
			return scopeTarget
		}
		return scopeForeign
	default:
		im.abort(clrerrors.Internal(clrerrors.PhaseResolve, "", "unknown resolution scope kind"))
		return scopeForeign
	}
}
