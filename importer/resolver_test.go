package importer

import (
	"testing"

	"github.com/wippyai/clr-importer/metadata"
)

func TestResolveTypeRefIntoTarget(t *testing.T) {
	target := newCalcModule("app.exe")
	other := target.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Other"})
	source := newRecompiledCalcModule()

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	// The compiler refers to an unedited target type through a reference
	// scoped to the target assembly.
	tr := &metadata.TypeRef{
		Namespace: "Lib",
		Name:      "Other",
		Scope:     target.Assembly.ToRef(),
		Module:    source,
	}
	source.UpdateRowID(tr)

	got := im.importTypeDefOrRef(tr)
	if got != other {
		t.Errorf("target-scoped reference should redirect to the existing type, got %v", got)
	}
	if im.importTypeDefOrRef(tr) != other {
		t.Error("second resolution should hit the identity map")
	}
}

func TestResolveTypeRefIntoTargetNested(t *testing.T) {
	target := newCalcModule("app.exe")
	outer := target.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Outer"})
	inner := outer.AddNestedType(&metadata.TypeDef{Name: "Inner"})
	source := newRecompiledCalcModule()

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	outerRef := &metadata.TypeRef{Namespace: "Lib", Name: "Outer", Scope: target.Assembly.ToRef(), Module: source}
	innerRef := &metadata.TypeRef{Name: "Inner", Scope: outerRef, Module: source}

	if got := im.importTypeDefOrRef(innerRef); got != inner {
		t.Errorf("nested reference should resolve through the enclosing chain, got %v", got)
	}
}

func TestResolveTypeRefMissingInTarget(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newRecompiledCalcModule()

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	tr := &metadata.TypeRef{
		Namespace: "Lib",
		Name:      "Gone",
		Scope:     target.Assembly.ToRef(),
		Module:    source,
	}

	if got := im.importTypeDefOrRef(tr); got != nil {
		t.Errorf("missing target type should resolve to nil, got %v", got)
	}
	found := false
	for _, d := range im.diags {
		if d.Code == CodeTypeRefNotFound {
			found = true
		}
	}
	if !found {
		t.Error("missing target type should emit IM0003")
	}
}

func TestResolveForeignTypeRefSynthesized(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	foreignAsm := &metadata.AssemblyRef{Name: "System.Runtime", Version: metadata.Version{Major: 8}}
	outer := &metadata.TypeRef{Namespace: "System", Name: "Environment", Scope: foreignAsm, Module: source}
	inner := &metadata.TypeRef{Name: "SpecialFolder", Scope: outer, Module: source}

	got, ok := im.importTypeDefOrRef(inner).(*metadata.TypeRef)
	if !ok {
		t.Fatalf("foreign reference should synthesize a type ref, got %T", got)
	}
	if got == inner {
		t.Fatal("synthesized reference must be a fresh target descriptor")
	}
	if got.Module != target {
		t.Error("synthesized reference should belong to the target module")
	}
	encl, ok := got.Scope.(*metadata.TypeRef)
	if !ok || encl.Name != "Environment" {
		t.Fatalf("enclosing scope should be a synthesized Environment ref, got %T", got.Scope)
	}
	ar, ok := encl.Scope.(*metadata.AssemblyRef)
	if !ok || ar == foreignAsm {
		t.Fatal("assembly ref should be translated, not shared")
	}
	if ar.FullName() != foreignAsm.FullName() {
		t.Errorf("assembly ref full name = %q, want %q", ar.FullName(), foreignAsm.FullName())
	}
}

func TestResolveTypeRefChainRecursionBound(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	// A scope chain far beyond the cap must yield a nil resolution, not
	// a stack overflow.
	scope := metadata.ResolutionScope(&metadata.AssemblyRef{Name: "Deep"})
	var tr *metadata.TypeRef
	for i := 0; i < 600; i++ {
		tr = &metadata.TypeRef{Name: "T", Scope: scope, Module: source}
		scope = tr
	}

	if got := im.importTypeDefOrRef(tr); got != nil {
		t.Errorf("over-deep chain should resolve to nil, got %v", got)
	}
}

func TestResolveTypeSpec(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	ts := &metadata.TypeSpec{Sig: &metadata.SZArraySig{Next: source.CorLib.Int32}}
	source.UpdateRowID(ts)

	got, ok := im.importTypeDefOrRef(ts).(*metadata.TypeSpec)
	if !ok {
		t.Fatalf("type spec should import as a type spec, got %T", got)
	}
	arr, ok := got.Sig.(*metadata.SZArraySig)
	if !ok || arr.Next != target.CorLib.Int32 {
		t.Error("type spec signature should be rebuilt onto the target corlib")
	}
}

func TestResolvePlannedTypeDef(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")
	fresh := source.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Fresh"})

	im := newBoundImporter(target, source)
	im.plan(calcAdd(target))

	got, ok := im.importTypeDefOrRef(fresh).(*metadata.TypeDef)
	if !ok {
		t.Fatalf("planned type def should map to its target shell, got %T", got)
	}
	if got.Module != target {
		t.Error("resolved type must live in the target module")
	}
	if got.Name != "Fresh" {
		t.Errorf("resolved name = %q, want Fresh", got.Name)
	}

	// The source's own edited type maps onto the merge target.
	srcCalc := source.Find("Lib", "Calculator")
	if im.importTypeDefOrRef(srcCalc) != target.Find("Lib", "Calculator") {
		t.Error("merged type should resolve to the existing target type")
	}
}
