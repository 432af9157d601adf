package importer

import (
	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// importTypeSig recursively translates a type signature. Corlib
// primitives canonicalize onto the target module's built-in signatures
// instead of being re-imported as references; structural kinds rebuild
// with their components translated. Unknown element kinds yield nil.
func (im *Importer) importTypeSig(sig metadata.TypeSig) metadata.TypeSig {
	switch s := sig.(type) {
	case nil:
		return nil
	case *metadata.CorLibTypeSig:
		return im.target.CorLib.ByElementType(s.Elem)
	case *metadata.ClassSig:
		return &metadata.ClassSig{Type: im.importTypeDefOrRef(s.Type)}
	case *metadata.ValueTypeSig:
		return &metadata.ValueTypeSig{Type: im.importTypeDefOrRef(s.Type)}
	case *metadata.PtrSig:
		return &metadata.PtrSig{Next: im.importTypeSig(s.Next)}
	case *metadata.ByRefSig:
		return &metadata.ByRefSig{Next: im.importTypeSig(s.Next)}
	case *metadata.SZArraySig:
		return &metadata.SZArraySig{Next: im.importTypeSig(s.Next)}
	case *metadata.PinnedSig:
		return &metadata.PinnedSig{Next: im.importTypeSig(s.Next)}
	case *metadata.ValueArraySig:
		return &metadata.ValueArraySig{Next: im.importTypeSig(s.Next), Size: s.Size}
	case *metadata.CModReqdSig:
		return &metadata.CModReqdSig{
			Modifier: im.importTypeDefOrRef(s.Modifier),
			Next:     im.importTypeSig(s.Next),
		}
	case *metadata.CModOptSig:
		return &metadata.CModOptSig{
			Modifier: im.importTypeDefOrRef(s.Modifier),
			Next:     im.importTypeSig(s.Next),
		}
	case *metadata.ModuleSig:
		return &metadata.ModuleSig{Index: s.Index, Next: im.importTypeSig(s.Next)}
	case *metadata.FnPtrSig:
		return &metadata.FnPtrSig{Sig: im.importCallConvSig(s.Sig)}
	case *metadata.GenericInstSig:
		gen, _ := im.importTypeSig(s.Generic).(metadata.ClassOrValueTypeSig)
		args := make([]metadata.TypeSig, len(s.Args))
		for i, a := range s.Args {
			args[i] = im.importTypeSig(a)
		}
		return &metadata.GenericInstSig{Generic: gen, Args: args}
	case *metadata.ArraySig:
		return &metadata.ArraySig{
			Next:        im.importTypeSig(s.Next),
			Rank:        s.Rank,
			Sizes:       append([]uint32(nil), s.Sizes...),
			LowerBounds: append([]int32(nil), s.LowerBounds...),
		}
	case *metadata.GenericVarSig:
		owner := im.rewriteVarOwner(s.Owner)
		return &metadata.GenericVarSig{Number: s.Number, Owner: owner}
	case *metadata.GenericMVarSig:
		owner := im.rewriteMVarOwner(s.Owner)
		return &metadata.GenericMVarSig{Number: s.Number, Owner: owner}
	default:
		// Unknown, end, and internal element kinds have no translation.
		return nil
	}
}

// rewriteVarOwner maps a generic type parameter's owner type. The owner
// must already be in the identity maps.
func (im *Importer) rewriteVarOwner(owner *metadata.TypeDef) *metadata.TypeDef {
	if owner == nil {
		return nil
	}
	if owner.Module == im.target {
		return owner
	}
	it, ok := im.typeDefMap[owner]
	if !ok {
		im.abort(clrerrors.Internal(clrerrors.PhaseSignature, owner.FullName(),
			"generic parameter owner type was never planned"))
	}
	return it.TargetType()
}

// rewriteMVarOwner maps a generic method parameter's owner method.
func (im *Importer) rewriteMVarOwner(owner *metadata.MethodDef) *metadata.MethodDef {
	if owner == nil {
		return nil
	}
	if owner.DeclaringType != nil && owner.DeclaringType.Module == im.target {
		return owner
	}
	tm, ok := im.methodMap[owner]
	if !ok {
		im.abort(clrerrors.Internal(clrerrors.PhaseSignature, owner.FullName(),
			"generic parameter owner method was never imported"))
	}
	return tm
}

// importCallConvSig translates a full signature blob.
func (im *Importer) importCallConvSig(sig metadata.CallingConventionSig) metadata.CallingConventionSig {
	switch s := sig.(type) {
	case nil:
		return nil
	case *metadata.MethodSig:
		return im.importMethodSig(s)
	case *metadata.FieldSig:
		return im.importFieldSig(s)
	case *metadata.PropertySig:
		return im.importPropertySig(s)
	case *metadata.GenericInstMethodSig:
		return im.importGenericInstMethodSig(s)
	case *metadata.LocalSig:
		locals := make([]metadata.TypeSig, len(s.Locals))
		for i, l := range s.Locals {
			locals[i] = im.importTypeSig(l)
		}
		return &metadata.LocalSig{CallConv: s.CallConv, Locals: locals}
	default:
		return nil
	}
}

func (im *Importer) importMethodSig(sig *metadata.MethodSig) *metadata.MethodSig {
	if sig == nil {
		return nil
	}
	return &metadata.MethodSig{
		CallConv:            sig.CallConv,
		RetType:             im.importTypeSig(sig.RetType),
		Params:              im.importTypeSigs(sig.Params),
		GenParamCount:       sig.GenParamCount,
		ParamsAfterSentinel: im.importTypeSigs(sig.ParamsAfterSentinel),
	}
}

func (im *Importer) importPropertySig(sig *metadata.PropertySig) *metadata.PropertySig {
	if sig == nil {
		return nil
	}
	return &metadata.PropertySig{
		CallConv:            sig.CallConv,
		RetType:             im.importTypeSig(sig.RetType),
		Params:              im.importTypeSigs(sig.Params),
		GenParamCount:       sig.GenParamCount,
		ParamsAfterSentinel: im.importTypeSigs(sig.ParamsAfterSentinel),
	}
}

func (im *Importer) importFieldSig(sig *metadata.FieldSig) *metadata.FieldSig {
	if sig == nil {
		return nil
	}
	return &metadata.FieldSig{CallConv: sig.CallConv, Type: im.importTypeSig(sig.Type)}
}

func (im *Importer) importGenericInstMethodSig(sig *metadata.GenericInstMethodSig) *metadata.GenericInstMethodSig {
	if sig == nil {
		return nil
	}
	return &metadata.GenericInstMethodSig{CallConv: sig.CallConv, Args: im.importTypeSigs(sig.Args)}
}

func (im *Importer) importTypeSigs(sigs []metadata.TypeSig) []metadata.TypeSig {
	if sigs == nil {
		return nil
	}
	out := make([]metadata.TypeSig, len(sigs))
	for i, s := range sigs {
		out[i] = im.importTypeSig(s)
	}
	return out
}
