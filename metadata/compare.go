package metadata

import (
	"fmt"
	"strings"
)

// corLibFullNames maps primitive element types to their corlib type names.
var corLibFullNames = map[ElementType]string{
	ElemVoid:       "System.Void",
	ElemBoolean:    "System.Boolean",
	ElemChar:       "System.Char",
	ElemI1:         "System.SByte",
	ElemU1:         "System.Byte",
	ElemI2:         "System.Int16",
	ElemU2:         "System.UInt16",
	ElemI4:         "System.Int32",
	ElemU4:         "System.UInt32",
	ElemI8:         "System.Int64",
	ElemU8:         "System.UInt64",
	ElemR4:         "System.Single",
	ElemR8:         "System.Double",
	ElemString:     "System.String",
	ElemTypedByRef: "System.TypedReference",
	ElemI:          "System.IntPtr",
	ElemU:          "System.UIntPtr",
	ElemObject:     "System.Object",
}

// sigString renders a canonical string form of a type signature. Scope
// information (which assembly or module a type reference resolves in) is
// deliberately absent, so two structurally identical signatures from
// different modules render identically.
func sigString(sig TypeSig) string {
	switch s := sig.(type) {
	case nil:
		return "<<null>>"
	case *CorLibTypeSig:
		if n, ok := corLibFullNames[s.Elem]; ok {
			return n
		}
		return s.Elem.String()
	case *ClassSig:
		return typeDefOrRefString(s.Type)
	case *ValueTypeSig:
		return "valuetype " + typeDefOrRefString(s.Type)
	case *PtrSig:
		return sigString(s.Next) + "*"
	case *ByRefSig:
		return sigString(s.Next) + "&"
	case *SZArraySig:
		return sigString(s.Next) + "[]"
	case *ArraySig:
		return fmt.Sprintf("%s[%d]", sigString(s.Next), s.Rank)
	case *PinnedSig:
		return sigString(s.Next) + " pinned"
	case *ValueArraySig:
		return fmt.Sprintf("valuearray(%d) %s", s.Size, sigString(s.Next))
	case *CModReqdSig:
		return sigString(s.Next) + " modreq(" + typeDefOrRefString(s.Modifier) + ")"
	case *CModOptSig:
		return sigString(s.Next) + " modopt(" + typeDefOrRefString(s.Modifier) + ")"
	case *ModuleSig:
		return sigString(s.Next)
	case *FnPtrSig:
		return "fnptr " + callConvSigString(s.Sig)
	case *GenericInstSig:
		var b strings.Builder
		b.WriteString(sigString(s.Generic))
		b.WriteByte('<')
		for i, a := range s.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(sigString(a))
		}
		b.WriteByte('>')
		return b.String()
	case *GenericVarSig:
		return fmt.Sprintf("!%d", s.Number)
	case *GenericMVarSig:
		return fmt.Sprintf("!!%d", s.Number)
	default:
		return "<<unknown>>"
	}
}

func typeDefOrRefString(t TypeDefOrRef) string {
	if t == nil {
		return "<<null>>"
	}
	return t.FullName()
}

// callConvSigString renders a calling-convention signature.
func callConvSigString(sig CallingConventionSig) string {
	switch s := sig.(type) {
	case nil:
		return "<<null>>"
	case *MethodSig:
		return methodShapeString(s.CallConv, s.RetType, s.Params, s.GenParamCount, s.ParamsAfterSentinel, true)
	case *PropertySig:
		return methodShapeString(s.CallConv, s.RetType, s.Params, s.GenParamCount, s.ParamsAfterSentinel, true)
	case *FieldSig:
		return sigString(s.Type)
	case *LocalSig:
		parts := make([]string, len(s.Locals))
		for i, l := range s.Locals {
			parts[i] = sigString(l)
		}
		return "locals(" + strings.Join(parts, ",") + ")"
	case *GenericInstMethodSig:
		parts := make([]string, len(s.Args))
		for i, a := range s.Args {
			parts[i] = sigString(a)
		}
		return "<" + strings.Join(parts, ",") + ">"
	default:
		return "<<unknown>>"
	}
}

func methodShapeString(cc CallingConvention, ret TypeSig, params []TypeSig, genCount uint32, sentinel []TypeSig, withRet bool) string {
	var b strings.Builder
	if cc.IsHasThis() {
		b.WriteString("instance ")
	}
	if withRet {
		b.WriteString(sigString(ret))
		b.WriteByte(' ')
	}
	if genCount > 0 {
		fmt.Fprintf(&b, "`%d", genCount)
	}
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(sigString(p))
	}
	if len(sentinel) > 0 {
		b.WriteString(",...")
		for _, p := range sentinel {
			b.WriteByte(',')
			b.WriteString(sigString(p))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// SigComparer compares signatures structurally, ignoring resolution
// scope. Zero value compares return types; set IgnoreReturnType for
// overload-table comparisons.
type SigComparer struct {
	IgnoreReturnType bool
}

// TypeSigsEqual reports whether two type signatures are structurally
// equal.
func (c SigComparer) TypeSigsEqual(a, b TypeSig) bool {
	return sigString(a) == sigString(b)
}

// TypeDefOrRefsEqual reports whether two type-def-or-refs name the same
// type, ignoring scope.
func (c SigComparer) TypeDefOrRefsEqual(a, b TypeDefOrRef) bool {
	return typeDefOrRefString(a) == typeDefOrRefString(b)
}

// MethodSigsEqual reports whether two method signatures are equal.
func (c SigComparer) MethodSigsEqual(a, b *MethodSig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return c.methodKey(a.CallConv, a.RetType, a.Params, a.GenParamCount, a.ParamsAfterSentinel) ==
		c.methodKey(b.CallConv, b.RetType, b.Params, b.GenParamCount, b.ParamsAfterSentinel)
}

// PropertySigsEqual reports whether two property signatures are equal.
func (c SigComparer) PropertySigsEqual(a, b *PropertySig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return c.methodKey(a.CallConv, a.RetType, a.Params, a.GenParamCount, a.ParamsAfterSentinel) ==
		c.methodKey(b.CallConv, b.RetType, b.Params, b.GenParamCount, b.ParamsAfterSentinel)
}

// FieldSigsEqual reports whether two field signatures are equal.
func (c SigComparer) FieldSigsEqual(a, b *FieldSig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sigString(a.Type) == sigString(b.Type)
}

func (c SigComparer) methodKey(cc CallingConvention, ret TypeSig, params []TypeSig, genCount uint32, sentinel []TypeSig) string {
	return methodShapeString(cc, ret, params, genCount, sentinel, !c.IgnoreReturnType)
}

// MethodKey returns a collision-table key for a named method: the name
// plus the signature shape. Return types do not participate when
// IgnoreReturnType is set, matching overload resolution rules.
func (c SigComparer) MethodKey(name string, sig *MethodSig) string {
	if sig == nil {
		return name + "()"
	}
	return name + c.methodKey(sig.CallConv, sig.RetType, sig.Params, sig.GenParamCount, sig.ParamsAfterSentinel)
}

// PropertyKey returns a collision-table key for a named property.
func (c SigComparer) PropertyKey(name string, sig *PropertySig) string {
	if sig == nil {
		return name + "()"
	}
	return name + c.methodKey(sig.CallConv, sig.RetType, sig.Params, sig.GenParamCount, sig.ParamsAfterSentinel)
}
