package importer

import (
	"github.com/wippyai/clr-importer/metadata"
)

// Member translation. Every importer here allocates the fresh target
// descriptor and registers it in its identity map before translating
// sub-signatures, so cycles through the member (a field typed as its own
// declaring type, an attribute on its own constructor) terminate.
// Custom attributes are translated in a later pass, once every member
// identity exists.

func (im *Importer) importField(sf *metadata.FieldDef) *metadata.FieldDef {
	nf := &metadata.FieldDef{
		Name:       sf.Name,
		Attributes: sf.Attributes,
	}
	im.target.UpdateRowID(nf)
	im.fieldMap[sf] = nf

	nf.Signature = im.importFieldSig(sf.Signature)
	nf.Constant = cloneConstant(sf.Constant)
	nf.MarshalType = im.importMarshalType(sf.MarshalType)
	if im.keepImportedRVA {
		nf.RVA = sf.RVA
	}
	nf.InitialValue = append([]byte(nil), sf.InitialValue...)
	nf.ImplMap = im.importImplMap(sf.ImplMap)
	return nf
}

func (im *Importer) importMethod(sm *metadata.MethodDef) *metadata.MethodDef {
	nm := &metadata.MethodDef{
		Name:                sm.Name,
		Attributes:          sm.Attributes,
		ImplAttributes:      sm.ImplAttributes,
		SemanticsAttributes: sm.SemanticsAttributes,
	}
	im.target.UpdateRowID(nm)
	im.methodMap[sm] = nm

	nm.Signature = im.importMethodSig(sm.Signature)
	nm.ImplMap = im.importImplMap(sm.ImplMap)
	for _, pd := range sm.ParamDefs {
		nm.ParamDefs = append(nm.ParamDefs, im.importParamDef(pd))
	}
	nm.GenericParams = im.importGenericParams(sm.GenericParams)
	// Overrides and the body need the full method map; they wire later.
	return nm
}

func (im *Importer) importParamDef(pd *metadata.ParamDef) *metadata.ParamDef {
	np := &metadata.ParamDef{
		Name:       pd.Name,
		Sequence:   pd.Sequence,
		Attributes: pd.Attributes,
	}
	im.target.UpdateRowID(np)
	np.Constant = cloneConstant(pd.Constant)
	np.MarshalType = im.importMarshalType(pd.MarshalType)
	return np
}

func (im *Importer) importGenericParams(gps []*metadata.GenericParam) []*metadata.GenericParam {
	if gps == nil {
		return nil
	}
	out := make([]*metadata.GenericParam, 0, len(gps))
	for _, gp := range gps {
		ng := &metadata.GenericParam{
			Number:     gp.Number,
			Attributes: gp.Attributes,
			Name:       gp.Name,
		}
		im.target.UpdateRowID(ng)
		for _, c := range gp.Constraints {
			nc := &metadata.GenericParamConstraint{Constraint: im.importTypeDefOrRef(c.Constraint)}
			im.target.UpdateRowID(nc)
			ng.Constraints = append(ng.Constraints, nc)
		}
		out = append(out, ng)
	}
	return out
}

// importProperty runs after methods so accessors rebind through the
// method identity map.
func (im *Importer) importProperty(sp *metadata.PropertyDef) *metadata.PropertyDef {
	np := &metadata.PropertyDef{
		Name:       sp.Name,
		Attributes: sp.Attributes,
	}
	im.target.UpdateRowID(np)
	im.propMap[sp] = np

	np.Signature = im.importPropertySig(sp.Signature)
	np.Constant = cloneConstant(sp.Constant)
	np.GetMethod = im.mappedMethod(sp.GetMethod)
	np.SetMethod = im.mappedMethod(sp.SetMethod)
	for _, m := range sp.OtherMethods {
		np.OtherMethods = append(np.OtherMethods, im.mappedMethod(m))
	}
	return np
}

// importEvent runs after methods so accessors rebind through the method
// identity map.
func (im *Importer) importEvent(se *metadata.EventDef) *metadata.EventDef {
	ne := &metadata.EventDef{
		Name:       se.Name,
		Attributes: se.Attributes,
	}
	im.target.UpdateRowID(ne)
	im.eventMap[se] = ne

	ne.EventType = im.importTypeDefOrRef(se.EventType)
	ne.AddMethod = im.mappedMethod(se.AddMethod)
	ne.RemoveMethod = im.mappedMethod(se.RemoveMethod)
	ne.InvokeMethod = im.mappedMethod(se.InvokeMethod)
	for _, m := range se.OtherMethods {
		ne.OtherMethods = append(ne.OtherMethods, im.mappedMethod(m))
	}
	return ne
}

// mappedMethod looks up a source accessor in the method identity map.
func (im *Importer) mappedMethod(sm *metadata.MethodDef) *metadata.MethodDef {
	if sm == nil {
		return nil
	}
	if tm, ok := im.methodMap[sm]; ok {
		return tm
	}
	im.errorf(CodeMethodNotFound, sm.FullName())
	return nil
}

// resolveMethod translates a method-def-or-ref operand. Definitions
// redirect through the identity map (stubs resolve to the pre-existing
// target originals). References rebuild; a reference whose class lands
// on a target type definition resolves to the real target method.
func (im *Importer) resolveMethod(m metadata.IMethod) metadata.IMethod {
	switch m := m.(type) {
	case nil:
		return nil
	case *metadata.MethodDef:
		if m.DeclaringType != nil && m.DeclaringType.Module == im.target {
			return m
		}
		if tm, ok := im.methodMap[m]; ok {
			return tm
		}
		im.errorf(CodeMethodNotFound, m.FullName())
		return nil
	case *metadata.MemberRef:
		return im.importMethodMemberRef(m)
	case *metadata.MethodSpec:
		ns := &metadata.MethodSpec{
			Method:        im.resolveMethod(m.Method),
			Instantiation: im.importGenericInstMethodSig(m.Instantiation),
		}
		im.target.UpdateRowID(ns)
		return ns
	default:
		return nil
	}
}

func (im *Importer) importMethodMemberRef(mr *metadata.MemberRef) metadata.IMethod {
	class := im.importMemberRefParent(mr.Class)
	sig := im.importCallConvSig(mr.Signature)

	// A reference that resolves onto a target type definition must name
	// one of its real methods.
	if td, ok := class.(*metadata.TypeDef); ok {
		ms, _ := sig.(*metadata.MethodSig)
		for _, m := range td.Methods {
			if m.Name == mr.Name && im.comparer.MethodSigsEqual(m.Signature, ms) {
				return m
			}
		}
		im.errorf(CodeMethodNotFound, td.FullName()+"::"+mr.Name)
		return nil
	}

	nr := &metadata.MemberRef{
		Name:      mr.Name,
		Class:     class,
		Signature: sig,
		Module:    im.target,
	}
	im.target.UpdateRowID(nr)
	return nr
}

// resolveField translates a field-def-or-ref operand.
func (im *Importer) resolveField(f metadata.IField) metadata.IField {
	switch f := f.(type) {
	case nil:
		return nil
	case *metadata.FieldDef:
		if f.DeclaringType != nil && f.DeclaringType.Module == im.target {
			return f
		}
		if tf, ok := im.fieldMap[f]; ok {
			return tf
		}
		im.errorf(CodeFieldNotFound, f.FullName())
		return nil
	case *metadata.MemberRef:
		return im.importFieldMemberRef(f)
	default:
		return nil
	}
}

func (im *Importer) importFieldMemberRef(mr *metadata.MemberRef) metadata.IField {
	class := im.importMemberRefParent(mr.Class)
	sig := im.importCallConvSig(mr.Signature)

	if td, ok := class.(*metadata.TypeDef); ok {
		fs, _ := sig.(*metadata.FieldSig)
		for _, f := range td.Fields {
			if f.Name == mr.Name && im.comparer.FieldSigsEqual(f.Signature, fs) {
				return f
			}
		}
		im.errorf(CodeFieldNotFound, td.FullName()+"::"+mr.Name)
		return nil
	}

	nr := &metadata.MemberRef{
		Name:      mr.Name,
		Class:     class,
		Signature: sig,
		Module:    im.target,
	}
	im.target.UpdateRowID(nr)
	return nr
}

func (im *Importer) importMemberRefParent(p metadata.MemberRefParent) metadata.MemberRefParent {
	switch p := p.(type) {
	case nil:
		return nil
	case *metadata.TypeDef:
		t, _ := im.importTypeDefOrRef(p).(metadata.MemberRefParent)
		return t
	case *metadata.TypeRef:
		t, _ := im.importTypeDefOrRef(p).(metadata.MemberRefParent)
		return t
	case *metadata.TypeSpec:
		t, _ := im.importTypeDefOrRef(p).(metadata.MemberRefParent)
		return t
	case *metadata.ModuleRef:
		return im.importModuleRef(p)
	case *metadata.MethodDef:
		m, _ := im.resolveMethod(p).(metadata.MemberRefParent)
		return m
	default:
		return nil
	}
}

// importMarshalType reconstructs a marshal descriptor field-wise. The
// variant set is closed.
func (im *Importer) importMarshalType(mt metadata.MarshalType) metadata.MarshalType {
	switch m := mt.(type) {
	case nil:
		return nil
	case *metadata.RawMarshalType:
		return &metadata.RawMarshalType{Data: append([]byte(nil), m.Data...)}
	case *metadata.FixedSysStringMarshalType:
		return &metadata.FixedSysStringMarshalType{Size: m.Size}
	case *metadata.SafeArrayMarshalType:
		return &metadata.SafeArrayMarshalType{
			VariantType:        m.VariantType,
			UserDefinedSubType: im.importTypeSig(m.UserDefinedSubType),
		}
	case *metadata.FixedArrayMarshalType:
		return &metadata.FixedArrayMarshalType{Size: m.Size, ElementType: m.ElementType}
	case *metadata.ArrayMarshalType:
		return &metadata.ArrayMarshalType{
			ElementType: m.ElementType,
			ParamNumber: m.ParamNumber,
			Size:        m.Size,
			Flags:       m.Flags,
		}
	case *metadata.CustomMarshalType:
		return &metadata.CustomMarshalType{
			GUID:            m.GUID,
			NativeTypeName:  m.NativeTypeName,
			CustomMarshaler: im.importTypeSig(m.CustomMarshaler),
			Cookie:          m.Cookie,
		}
	case *metadata.InterfaceMarshalType:
		return &metadata.InterfaceMarshalType{NativeType: m.NativeType, IidParamIndex: m.IidParamIndex}
	case *metadata.PlainMarshalType:
		return &metadata.PlainMarshalType{NativeType: m.NativeType}
	default:
		return nil
	}
}

func (im *Importer) importImplMap(s *metadata.ImplMap) *metadata.ImplMap {
	if s == nil {
		return nil
	}
	ni := &metadata.ImplMap{
		Attributes: s.Attributes,
		Name:       s.Name,
		Module:     im.importModuleRef(s.Module),
	}
	im.target.UpdateRowID(ni)
	return ni
}

func (im *Importer) importInterfaceImpls(impls []*metadata.InterfaceImpl) []*metadata.InterfaceImpl {
	if impls == nil {
		return nil
	}
	out := make([]*metadata.InterfaceImpl, 0, len(impls))
	for _, ii := range impls {
		ni := &metadata.InterfaceImpl{Interface: im.importTypeDefOrRef(ii.Interface)}
		im.target.UpdateRowID(ni)
		im.importCustomAttributesInto(&ni.CustomAttributes, ii.CustomAttributes)
		out = append(out, ni)
	}
	return out
}

func (im *Importer) importDeclSecurities(ds []*metadata.DeclSecurity) []*metadata.DeclSecurity {
	if ds == nil {
		return nil
	}
	out := make([]*metadata.DeclSecurity, 0, len(ds))
	for _, d := range ds {
		nd := &metadata.DeclSecurity{Action: d.Action}
		im.target.UpdateRowID(nd)
		for _, sa := range d.Attributes {
			nd.Attributes = append(nd.Attributes, &metadata.SecurityAttribute{
				AttributeType:  im.importTypeSig(sa.AttributeType),
				NamedArguments: im.importCANamedArguments(sa.NamedArguments),
			})
		}
		im.importCustomAttributesInto(&nd.CustomAttributes, d.CustomAttributes)
		out = append(out, nd)
	}
	return out
}

// importCustomAttributesInto translates attributes onto a descriptor.
// Raw blobs copy verbatim; decoded attributes rebuild recursively.
func (im *Importer) importCustomAttributesInto(dst *[]*metadata.CustomAttribute, src []*metadata.CustomAttribute) {
	for _, ca := range src {
		*dst = append(*dst, im.importCustomAttribute(ca))
	}
}

func (im *Importer) importCustomAttribute(ca *metadata.CustomAttribute) *metadata.CustomAttribute {
	nc := &metadata.CustomAttribute{Ctor: im.resolveMethod(ca.Ctor)}
	if ca.IsRawBlob() {
		nc.RawData = append([]byte(nil), ca.RawData...)
		return nc
	}
	for _, a := range ca.ConstructorArguments {
		nc.ConstructorArguments = append(nc.ConstructorArguments, im.importCAArgument(a))
	}
	nc.NamedArguments = im.importCANamedArguments(ca.NamedArguments)
	return nc
}

func (im *Importer) importCANamedArguments(args []*metadata.CANamedArgument) []*metadata.CANamedArgument {
	if args == nil {
		return nil
	}
	out := make([]*metadata.CANamedArgument, 0, len(args))
	for _, na := range args {
		out = append(out, &metadata.CANamedArgument{
			IsField:  na.IsField,
			Type:     im.importTypeSig(na.Type),
			Name:     na.Name,
			Argument: im.importCAArgument(na.Argument),
		})
	}
	return out
}

// importCAArgument translates one attribute argument. The value may be a
// type signature, a boxed argument, or a list of arguments; primitives
// pass through.
func (im *Importer) importCAArgument(a metadata.CAArgument) metadata.CAArgument {
	na := metadata.CAArgument{Type: im.importTypeSig(a.Type)}
	switch v := a.Value.(type) {
	case metadata.TypeSig:
		na.Value = im.importTypeSig(v)
	case metadata.CAArgument:
		na.Value = im.importCAArgument(v)
	case []metadata.CAArgument:
		list := make([]metadata.CAArgument, len(v))
		for i, e := range v {
			list[i] = im.importCAArgument(e)
		}
		na.Value = list
	default:
		na.Value = v
	}
	return na
}

func cloneConstant(c *metadata.Constant) *metadata.Constant {
	if c == nil {
		return nil
	}
	return &metadata.Constant{Type: c.Type, Value: c.Value}
}
