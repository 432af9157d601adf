package importer

import (
	"fmt"

	"go.uber.org/zap"

	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// plan decides, for each compiled type, whether it merges onto an
// existing target type or becomes a fresh one, and registers every
// identity the later passes rely on.
//
// The edited method's declaring-type chain anchors the merge: its
// outermost type pair merges without rename, the global type merges with
// rename, and every other top-level compiled type becomes a new type
// under a collision-free name.
func (im *Importer) plan(targetMethod *metadata.MethodDef) {
	srcType := im.findSourceType(targetMethod.DeclaringType)
	if srcType == nil {
		im.errorf(CodeDeclaringTypeNotFound, targetMethod.DeclaringType.FullName())
		im.abort(clrerrors.NotFound(clrerrors.PhasePlan, "declaring type", targetMethod.DeclaringType.FullName()))
	}
	srcMethod := im.findSourceMethod(srcType, targetMethod)
	if srcMethod == nil {
		im.errorf(CodeEditedMethodNotFound, targetMethod.FullName())
		im.abort(clrerrors.NotFound(clrerrors.PhasePlan, "edited method", targetMethod.FullName()))
	}

	// Record the edited pair first: member stub matching treats it
	// specially, and the final pass walks it to rebuild the body.
	im.editedMethods[srcMethod] = targetMethod
	im.editedOrder = append(im.editedOrder, srcMethod)

	// Walk both declaring-type chains in lockstep to the outermost pair.
	// srcType was found by full name, so the chains agree by
	// construction; disagreement is an internal inconsistency.
	srcOuter, tgtOuter := srcType, targetMethod.DeclaringType
	for srcOuter.DeclaringType != nil || tgtOuter.DeclaringType != nil {
		if srcOuter.DeclaringType == nil || tgtOuter.DeclaringType == nil {
			im.abort(clrerrors.Internal(clrerrors.PhasePlan, srcType.FullName(),
				"declaring type chains do not match"))
		}
		srcOuter = srcOuter.DeclaringType
		tgtOuter = tgtOuter.DeclaringType
	}
	im.planMerge(srcOuter, tgtOuter, false)

	// The compiler emits new global helpers into <Module>; merge it with
	// rename so collisions with existing globals get fresh names. The
	// edited chain may already have claimed it.
	srcGlobal := im.source.GlobalType()
	tgtGlobal := im.target.GlobalType()
	if srcGlobal != nil && tgtGlobal != nil {
		if _, done := im.typeDefMap[srcGlobal]; !done {
			im.planMerge(srcGlobal, tgtGlobal, true)
		}
	}

	// Every other top-level compiled type is new.
	for _, st := range im.source.Types {
		if _, done := im.typeDefMap[st]; done {
			continue
		}
		im.planNewTopLevelType(st)
	}

	im.log.Debug("plan complete",
		zap.Int("types", len(im.allImported)),
		zap.Int("stubs", len(im.stubs)))
}

// findSourceType finds the compiled type matching a target type by full
// name, so nested-type edits resolve without scope comparison.
func (im *Importer) findSourceType(target *metadata.TypeDef) *metadata.TypeDef {
	want := target.FullName()
	for _, st := range im.source.AllTypes() {
		if st.FullName() == want {
			return st
		}
	}
	return nil
}

// findSourceMethod finds the compiled method matching the edited target
// method. Signatures compare ignoring scope and ignoring the this flag:
// an edit that toggles static must still be found so it can be diagnosed.
// On ambiguity the first override declaration breaks the tie.
func (im *Importer) findSourceMethod(srcType *metadata.TypeDef, target *metadata.MethodDef) *metadata.MethodDef {
	var candidates []*metadata.MethodDef
	for _, sm := range srcType.Methods {
		if sm.Name != target.Name {
			continue
		}
		if methodSigsEqualIgnoringThis(im.comparer, sm.Signature, target.Signature) {
			candidates = append(candidates, sm)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	// Ambiguous: fall back to matching the first explicit override.
	if len(target.Overrides) > 0 {
		want := overrideKey(target.Overrides[0])
		for _, sm := range candidates {
			if len(sm.Overrides) > 0 && overrideKey(sm.Overrides[0]) == want {
				return sm
			}
		}
	}
	return candidates[0]
}

func overrideKey(o *metadata.MethodOverride) string {
	if o == nil || o.Declaration == nil {
		return ""
	}
	return o.Declaration.MethodName()
}

// methodSigsEqualIgnoringThis compares two method signatures with the
// HasThis flag masked out of both.
func methodSigsEqualIgnoringThis(c metadata.SigComparer, a, b *metadata.MethodSig) bool {
	if a == nil || b == nil {
		return a == b
	}
	am := *a
	bm := *b
	am.CallConv &^= metadata.CallConvHasThis
	bm.CallConv &^= metadata.CallConvHasThis
	return c.MethodSigsEqual(&am, &bm)
}

// planMerge registers a merged type pair and recurses through nested
// types. In stub mode (renameDuplicates false), members present on both
// sides map onto the target originals; in rename mode every compiled
// member is new and collisions rename later.
func (im *Importer) planMerge(src, tgt *metadata.TypeDef, renameDuplicates bool) *MergedImportedType {
	mt := &MergedImportedType{
		Target:           tgt,
		Source:           src,
		RenameDuplicates: renameDuplicates,
	}
	im.typeDefMap[src] = mt
	im.allImported = append(im.allImported, mt)
	if src.DeclaringType == nil {
		im.mergedTopLevel = append(im.mergedTopLevel, mt)
	}

	if !renameDuplicates {
		im.planMemberStubs(src, tgt)
	}

	for _, sn := range src.NestedTypes {
		if tn := tgt.FindNestedType(sn.Namespace, sn.Name); tn != nil {
			mt.MergedNestedTypes = append(mt.MergedNestedTypes, im.planMerge(sn, tn, renameDuplicates))
		} else {
			// The compiled side has a type the target lacks: it becomes a
			// fresh nested type. A nested type the target has and the
			// compiler dropped is lost silently.
			mt.NewNestedTypes = append(mt.NewNestedTypes, im.planNewNestedType(sn, tgt))
		}
	}
	return mt
}

// planMemberStubs maps members present in both modules onto the target
// originals. Matching ignores scope: fields by name and signature,
// methods by name and full signature, properties by name and signature,
// events by name. The edited method maps onto its recorded target pair
// even when its signature drifted (the drift is diagnosed later).
func (im *Importer) planMemberStubs(src, tgt *metadata.TypeDef) {
	for _, sf := range src.Fields {
		for _, tf := range tgt.Fields {
			if sf.Name == tf.Name && im.comparer.FieldSigsEqual(sf.Signature, tf.Signature) {
				im.fieldMap[sf] = tf
				im.stubs[sf] = struct{}{}
				break
			}
		}
	}
	for _, sm := range src.Methods {
		if tm, edited := im.editedMethods[sm]; edited {
			im.methodMap[sm] = tm
			im.stubs[sm] = struct{}{}
			continue
		}
		for _, tm := range tgt.Methods {
			if sm.Name == tm.Name && im.comparer.MethodSigsEqual(sm.Signature, tm.Signature) {
				im.methodMap[sm] = tm
				im.stubs[sm] = struct{}{}
				break
			}
		}
	}
	for _, sp := range src.Properties {
		for _, tp := range tgt.Properties {
			if sp.Name == tp.Name && im.comparer.PropertySigsEqual(sp.Signature, tp.Signature) {
				im.propMap[sp] = tp
				im.stubs[sp] = struct{}{}
				break
			}
		}
	}
	for _, se := range src.Events {
		for _, te := range tgt.Events {
			if se.Name == te.Name {
				im.eventMap[se] = te
				im.stubs[se] = struct{}{}
				break
			}
		}
	}
}

// planNewTopLevelType creates the empty target shell for a fresh
// top-level type, renamed when its name is taken.
func (im *Importer) planNewTopLevelType(src *metadata.TypeDef) *NewImportedType {
	name := im.uniqueTopLevelName(src.Namespace, src.Name)
	shell := &metadata.TypeDef{
		Namespace: src.Namespace,
		Name:      name,
		Module:    im.target,
	}
	im.target.UpdateRowID(shell)
	im.usedTopLevelNames[[2]string{src.Namespace, name}] = struct{}{}

	nit := &NewImportedType{Target: shell, Source: src, Renamed: name != src.Name}
	im.typeDefMap[src] = nit
	im.allImported = append(im.allImported, nit)
	im.newTopLevel = append(im.newTopLevel, nit)

	for _, sn := range src.NestedTypes {
		im.planNewNestedShell(sn, shell, true)
	}
	return nit
}

// planNewNestedType creates the shell for a compiled nested type going
// under an existing target type. The shell records its declaring type
// but the target type is not mutated; the downstream merger attaches it.
func (im *Importer) planNewNestedType(src *metadata.TypeDef, declaring *metadata.TypeDef) *NewImportedType {
	return im.planNewNestedShell(src, declaring, false)
}

func (im *Importer) planNewNestedShell(src *metadata.TypeDef, declaring *metadata.TypeDef, attach bool) *NewImportedType {
	shell := &metadata.TypeDef{
		Namespace:     src.Namespace,
		Name:          src.Name,
		Module:        im.target,
		DeclaringType: declaring,
	}
	im.target.UpdateRowID(shell)
	if attach {
		declaring.NestedTypes = append(declaring.NestedTypes, shell)
	}

	nit := &NewImportedType{Target: shell, Source: src}
	im.typeDefMap[src] = nit
	im.allImported = append(im.allImported, nit)

	for _, sn := range src.NestedTypes {
		im.planNewNestedShell(sn, shell, true)
	}
	return nit
}

// uniqueTopLevelName returns a name free in the target's top-level
// namespace, prefixing "__N__" until no collision remains. The prefix
// leaves any backtick arity suffix in place.
func (im *Importer) uniqueTopLevelName(namespace, name string) string {
	if !im.topLevelNameTaken(namespace, name) {
		return name
	}
	for n := 0; ; n++ {
		candidate := fmt.Sprintf("__%d__%s", n, name)
		if !im.topLevelNameTaken(namespace, candidate) {
			return candidate
		}
	}
}

func (im *Importer) topLevelNameTaken(namespace, name string) bool {
	if im.target.Find(namespace, name) != nil {
		return true
	}
	_, used := im.usedTopLevelNames[[2]string{namespace, name}]
	return used
}

// populate fills every planned type: shells first, then fields and
// methods everywhere, then properties and events (which rebind accessors
// through the method map), then custom attributes and security (which
// may reference any member).
func (im *Importer) populate() {
	for _, it := range im.allImported {
		if nt, ok := it.(*NewImportedType); ok {
			im.populateTypeShell(nt)
		}
	}
	for _, it := range im.allImported {
		im.populateFieldsAndMethods(it)
	}
	for _, it := range im.allImported {
		im.populatePropertiesAndEvents(it)
	}
	for _, it := range im.allImported {
		im.populateAttributes(it)
	}
}

// populateTypeShell copies type-level data onto a fresh shell. Merged
// types keep their existing target type-level data untouched.
func (im *Importer) populateTypeShell(nt *NewImportedType) {
	src, tgt := nt.Source, nt.Target
	tgt.Attributes = src.Attributes
	tgt.BaseType = im.importTypeDefOrRef(src.BaseType)
	tgt.GenericParams = im.importGenericParams(src.GenericParams)
	tgt.Interfaces = im.importInterfaceImpls(src.Interfaces)
	if src.Layout != nil {
		layout := *src.Layout
		tgt.Layout = &layout
	}
}

func (im *Importer) populateFieldsAndMethods(it ImportedType) {
	src := it.SourceType()
	switch t := it.(type) {
	case *NewImportedType:
		for _, sf := range src.Fields {
			nf := im.importField(sf)
			nf.DeclaringType = t.Target
			t.Target.Fields = append(t.Target.Fields, nf)
		}
		for _, sm := range src.Methods {
			nm := im.importMethod(sm)
			nm.DeclaringType = t.Target
			t.Target.Methods = append(t.Target.Methods, nm)
			nm.UpdateParameterTypes()
		}
	case *MergedImportedType:
		for _, sf := range src.Fields {
			if _, done := im.fieldMap[sf]; done {
				continue
			}
			nf := im.importField(sf)
			nf.DeclaringType = t.Target
			t.NewFields = append(t.NewFields, nf)
		}
		for _, sm := range src.Methods {
			if _, done := im.methodMap[sm]; done {
				continue
			}
			nm := im.importMethod(sm)
			nm.DeclaringType = t.Target
			t.NewMethods = append(t.NewMethods, nm)
			nm.UpdateParameterTypes()
		}
	}
}

func (im *Importer) populatePropertiesAndEvents(it ImportedType) {
	src := it.SourceType()
	switch t := it.(type) {
	case *NewImportedType:
		for _, sp := range src.Properties {
			np := im.importProperty(sp)
			np.DeclaringType = t.Target
			t.Target.Properties = append(t.Target.Properties, np)
		}
		for _, se := range src.Events {
			ne := im.importEvent(se)
			ne.DeclaringType = t.Target
			t.Target.Events = append(t.Target.Events, ne)
		}
	case *MergedImportedType:
		for _, sp := range src.Properties {
			if _, done := im.propMap[sp]; done {
				continue
			}
			np := im.importProperty(sp)
			np.DeclaringType = t.Target
			t.NewProperties = append(t.NewProperties, np)
		}
		for _, se := range src.Events {
			if _, done := im.eventMap[se]; done {
				continue
			}
			ne := im.importEvent(se)
			ne.DeclaringType = t.Target
			t.NewEvents = append(t.NewEvents, ne)
		}
	}
}

// populateAttributes translates custom attributes and declarative
// security for every freshly created entity. Stubs keep the target
// originals' attributes.
func (im *Importer) populateAttributes(it ImportedType) {
	src := it.SourceType()

	if nt, ok := it.(*NewImportedType); ok {
		im.importCustomAttributesInto(&nt.Target.CustomAttributes, src.CustomAttributes)
		nt.Target.DeclSecurities = im.importDeclSecurities(src.DeclSecurities)
		im.importGenericParamAttributes(nt.Target.GenericParams, src.GenericParams)
	}

	for _, sf := range src.Fields {
		if im.isNewField(sf) {
			im.importCustomAttributesInto(&im.fieldMap[sf].CustomAttributes, sf.CustomAttributes)
		}
	}
	for _, sm := range src.Methods {
		if !im.isNewMethod(sm) {
			continue
		}
		tm := im.methodMap[sm]
		im.importCustomAttributesInto(&tm.CustomAttributes, sm.CustomAttributes)
		tm.DeclSecurities = im.importDeclSecurities(sm.DeclSecurities)
		im.importGenericParamAttributes(tm.GenericParams, sm.GenericParams)
		for i, pd := range sm.ParamDefs {
			if i < len(tm.ParamDefs) {
				im.importCustomAttributesInto(&tm.ParamDefs[i].CustomAttributes, pd.CustomAttributes)
			}
		}
	}
	for _, sp := range src.Properties {
		if _, isStub := im.stubs[sp]; !isStub {
			if tp, ok := im.propMap[sp]; ok {
				im.importCustomAttributesInto(&tp.CustomAttributes, sp.CustomAttributes)
			}
		}
	}
	for _, se := range src.Events {
		if _, isStub := im.stubs[se]; !isStub {
			if te, ok := im.eventMap[se]; ok {
				im.importCustomAttributesInto(&te.CustomAttributes, se.CustomAttributes)
			}
		}
	}
}

func (im *Importer) importGenericParamAttributes(dst, src []*metadata.GenericParam) {
	for i, gp := range src {
		if i < len(dst) {
			im.importCustomAttributesInto(&dst[i].CustomAttributes, gp.CustomAttributes)
		}
	}
}

// isNewField reports whether a source field was freshly created this
// import, as opposed to being a stub for a target original.
func (im *Importer) isNewField(sf *metadata.FieldDef) bool {
	if _, isStub := im.stubs[sf]; isStub {
		return false
	}
	_, ok := im.fieldMap[sf]
	return ok
}

// isNewMethod reports whether a source method was freshly created this
// import. The edited method counts as a stub: its body is rebuilt by the
// edited-method pass, not the ordinary wiring.
func (im *Importer) isNewMethod(sm *metadata.MethodDef) bool {
	if _, isStub := im.stubs[sm]; isStub {
		return false
	}
	_, ok := im.methodMap[sm]
	return ok
}
