package importer

import (
	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// maxTypeRefScopeDepth bounds TypeRef scope chains. Chains longer than
// this resolve to nil instead of overflowing the stack.
const maxTypeRefScopeDepth = 500

// importTypeDefOrRef translates a type-def-or-ref from the source
// module's identity space into the target's.
//
// Type definitions must have been planned; an unplanned definition is an
// invariant violation. Type references resolve by their outermost scope:
// references into the target redirect to existing target types,
// references into a foreign assembly are synthesized anew, and
// references back into the source module never occur in a well-formed
// compilation. Type specs rebuild their signature.
func (im *Importer) importTypeDefOrRef(t metadata.TypeDefOrRef) metadata.TypeDefOrRef {
	switch t := t.(type) {
	case nil:
		return nil
	case *metadata.TypeDef:
		if t.Module == im.target {
			return t
		}
		it, ok := im.typeDefMap[t]
		if !ok {
			im.abort(clrerrors.Internal(clrerrors.PhaseResolve, t.FullName(),
				"type definition was never planned"))
		}
		return it.TargetType()
	case *metadata.TypeRef:
		return im.importTypeRef(t)
	case *metadata.TypeSpec:
		ts := &metadata.TypeSpec{Sig: im.importTypeSig(t.Sig)}
		im.target.UpdateRowID(ts)
		return ts
	default:
		im.abort(clrerrors.Internal(clrerrors.PhaseResolve, t.FullName(),
			"unknown type-def-or-ref kind"))
		return nil
	}
}

func (im *Importer) importTypeRef(tr *metadata.TypeRef) metadata.TypeDefOrRef {
	if cached, ok := im.typeRefMap[tr]; ok {
		return cached
	}

	// Walk to the outermost enclosing TypeRef; its scope decides how the
	// whole chain resolves.
	chain := []*metadata.TypeRef{tr}
	outer := tr
	for {
		if len(chain) > maxTypeRefScopeDepth {
			im.log.Warn("type reference scope chain too deep, dropping reference")
			return nil
		}
		enc, ok := outer.Scope.(*metadata.TypeRef)
		if !ok {
			break
		}
		outer = enc
		chain = append(chain, enc)
	}

	switch im.classifyScope(outer.Scope) {
	case scopeTarget:
		// The reference names a type the target already has; redirect
		// instead of re-importing.
		td := im.target.Find(outer.Namespace, outer.Name)
		for i := len(chain) - 2; i >= 0 && td != nil; i-- {
			td = td.FindNestedType(chain[i].Namespace, chain[i].Name)
		}
		if td == nil {
			im.errorf(CodeTypeRefNotFound, tr.FullName())
			return nil
		}
		im.typeRefMap[tr] = td
		return td
	case scopeSource:
		// The compiler never refers to its own output through a
		// reference; self-references arrive as TypeDefs.
		im.abort(clrerrors.ScopeMismatch(clrerrors.PhaseResolve, tr.FullName(),
			"type reference resolves into the compiled module"))
		return nil
	default:
		nr := im.importForeignTypeRef(tr, 0)
		if nr == nil {
			return nil
		}
		im.typeRefMap[tr] = nr
		return nr
	}
}

// importForeignTypeRef synthesizes a target TypeRef for a reference into
// a foreign assembly, translating the scope chain.
func (im *Importer) importForeignTypeRef(tr *metadata.TypeRef, depth int) *metadata.TypeRef {
	if depth > maxTypeRefScopeDepth {
		return nil
	}
	nr := &metadata.TypeRef{
		Namespace: tr.Namespace,
		Name:      tr.Name,
		Module:    im.target,
	}
	im.target.UpdateRowID(nr)
	switch s := tr.Scope.(type) {
	case nil:
	case *metadata.TypeRef:
		if enc := im.importForeignTypeRef(s, depth+1); enc != nil {
			nr.Scope = enc
		}
	case *metadata.AssemblyRef:
		nr.Scope = im.importAssemblyRef(s)
	case *metadata.ModuleRef:
		nr.Scope = im.importModuleRef(s)
	case *metadata.Module:
		// A foreign module handle cannot cross modules; keep a named
		// module reference instead.
		mr := &metadata.ModuleRef{Name: s.Name}
		im.target.UpdateRowID(mr)
		nr.Scope = mr
	}
	im.importCustomAttributesInto(&nr.CustomAttributes, tr.CustomAttributes)
	return nr
}

func (im *Importer) importAssemblyRef(ar *metadata.AssemblyRef) *metadata.AssemblyRef {
	if cached, ok := im.asmRefMap[ar]; ok {
		return cached
	}
	nr := &metadata.AssemblyRef{
		Name:           ar.Name,
		Version:        ar.Version,
		Culture:        ar.Culture,
		PublicKeyToken: append([]byte(nil), ar.PublicKeyToken...),
	}
	im.target.UpdateRowID(nr)
	im.asmRefMap[ar] = nr
	im.importCustomAttributesInto(&nr.CustomAttributes, ar.CustomAttributes)
	return nr
}

func (im *Importer) importModuleRef(mr *metadata.ModuleRef) *metadata.ModuleRef {
	if mr == nil {
		return nil
	}
	if cached, ok := im.modRefMap[mr]; ok {
		return cached
	}
	nr := &metadata.ModuleRef{Name: mr.Name}
	im.target.UpdateRowID(nr)
	im.modRefMap[mr] = nr
	im.importCustomAttributesInto(&nr.CustomAttributes, mr.CustomAttributes)
	return nr
}
