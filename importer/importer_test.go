package importer

import (
	"errors"
	"testing"

	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

func TestImportUnmodifiedRecompile(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics should be empty, got %v", diagCodes(res))
	}
	if len(res.NewTypes) != 0 {
		t.Errorf("expected zero new types, got %d", len(res.NewTypes))
	}
	if len(res.MergedTypes) != 1 {
		t.Fatalf("expected one merged type (the edited body), got %d", len(res.MergedTypes))
	}
	mt := res.MergedTypes[0]
	if len(mt.NewFields)+len(mt.NewMethods)+len(mt.NewProperties)+len(mt.NewEvents) != 0 {
		t.Error("identical recompile should add no members")
	}
	if len(mt.EditedMethodBodies) != 1 {
		t.Fatalf("expected exactly one edited body, got %d", len(mt.EditedMethodBodies))
	}
	if mt.EditedMethodBodies[0].TargetMethod != calcAdd(target) {
		t.Error("edited body should bind to the target method")
	}
	// The field reference inside the edited body redirects to the
	// pre-existing target field, not a fresh import.
	ldfld := mt.EditedMethodBodies[0].Body.Instructions[1]
	if ldfld.Operand != target.Find("Lib", "Calculator").FindField("total") {
		t.Error("stub field reference should resolve to the target original")
	}
}

func TestImportRenamedLocalOnly(t *testing.T) {
	target := newCalcModule("app.exe")
	tgtBody := calcAdd(target).Body
	tgtBody.AddLocal("sum", target.CorLib.Int32)

	source := newCalcModule("app.exe")
	srcBody := calcAdd(source).Body
	srcBody.AddLocal("result", source.CorLib.Int32)

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics should be empty, got %v", diagCodes(res))
	}
	if len(res.MergedTypes) != 1 {
		t.Fatalf("expected one merged type, got %d", len(res.MergedTypes))
	}
	mt := res.MergedTypes[0]
	if len(mt.EditedMethodBodies) != 1 {
		t.Fatalf("expected one edited body, got %d", len(mt.EditedMethodBodies))
	}
	body := mt.EditedMethodBodies[0].Body
	if len(body.Variables) != 1 || body.Variables[0].Name != "result" {
		t.Error("edited body should carry the renamed local")
	}
}

func TestImportAddedField(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")
	source.Find("Lib", "Calculator").AddField(&metadata.FieldDef{
		Name:      "counter",
		Signature: metadata.NewFieldSig(source.CorLib.Int32),
	})

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics should be empty, got %v", diagCodes(res))
	}
	if len(res.MergedTypes) != 1 {
		t.Fatalf("expected one merged type, got %d", len(res.MergedTypes))
	}
	mt := res.MergedTypes[0]
	if len(mt.NewFields) != 1 {
		t.Fatalf("expected one new field, got %d", len(mt.NewFields))
	}
	nf := mt.NewFields[0]
	if nf.Name != "counter" {
		t.Errorf("new field name = %q, want counter (no rename)", nf.Name)
	}
	if nf.Signature.Type != target.CorLib.Int32 {
		t.Error("new field signature should canonicalize onto the target corlib int32")
	}
	if nf.RID == 0 {
		t.Error("new field should have a fresh target row id")
	}
}

func TestImportGlobalHelperCollision(t *testing.T) {
	addHelper := func(m *metadata.Module) *metadata.MethodDef {
		h := &metadata.MethodDef{
			Name:       "Helper",
			Attributes: metadata.MethodAttrStatic,
			Signature:  metadata.NewMethodSig(m.CorLib.Void, m.CorLib.Int32),
			Body: &metadata.CilBody{
				Instructions: []*metadata.Instruction{metadata.NewInstr(metadata.OpRet, nil)},
			},
		}
		return m.GlobalType().AddMethod(h)
	}

	target := newCalcModule("app.exe")
	addHelper(target)
	source := newCalcModule("app.exe")
	addHelper(source)

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.Diagnostics) != 0 {
		t.Errorf("non-virtual collision should be diagnostic-free, got %v", diagCodes(res))
	}
	var global *MergedImportedType
	for _, mt := range res.MergedTypes {
		if mt.Target.IsGlobalModuleType() {
			global = mt
		}
	}
	if global == nil {
		t.Fatal("the global type merge should be in the result")
	}
	if len(global.NewMethods) != 1 {
		t.Fatalf("expected one new global method, got %d", len(global.NewMethods))
	}
	if got := global.NewMethods[0].Name; got != "Helper_0" {
		t.Errorf("colliding helper renamed to %q, want Helper_0", got)
	}
}

func TestImportEditedMethodMadeStatic(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")
	add := calcAdd(source)
	add.Attributes |= metadata.MethodAttrStatic
	add.Signature.CallConv &^= metadata.CallConvHasThis
	add.UpdateParameterTypes()

	res := mustImport(t, target, source, calcAdd(target))

	if !hasDiag(res, CodeEditedMethodStaticMismatch) {
		t.Fatalf("expected IM0009, got %v", diagCodes(res))
	}
	if len(res.MergedTypes) != 1 || len(res.MergedTypes[0].EditedMethodBodies) != 1 {
		t.Fatal("body should still be imported despite the diagnostic")
	}
	body := res.MergedTypes[0].EditedMethodBodies[0].Body
	if got, want := len(body.Instructions), len(add.Body.Instructions); got != want {
		t.Errorf("imported body has %d instructions, want %d", got, want)
	}
}

func TestImportForeignAssemblyReference(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	consoleAsm := &metadata.AssemblyRef{Name: "System.Console", Version: metadata.Version{Major: 8}}
	source.UpdateRowID(consoleAsm)
	console := &metadata.TypeRef{Namespace: "System", Name: "Console", Scope: consoleAsm, Module: source}
	source.UpdateRowID(console)
	writeLine := &metadata.MemberRef{
		Name:      "WriteLine",
		Class:     console,
		Signature: metadata.NewMethodSig(source.CorLib.Void, source.CorLib.String),
		Module:    source,
	}
	source.UpdateRowID(writeLine)

	srcBody := calcAdd(source).Body
	srcBody.Instructions = append([]*metadata.Instruction{
		metadata.NewInstr(metadata.OpLdstr, "hello"),
		metadata.NewInstr(metadata.OpCall, writeLine),
	}, srcBody.Instructions...)

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics should be empty, got %v", diagCodes(res))
	}
	body := res.MergedTypes[0].EditedMethodBodies[0].Body

	call := body.Instructions[1]
	mr, ok := call.Operand.(*metadata.MemberRef)
	if !ok {
		t.Fatalf("call operand should be a member ref, got %T", call.Operand)
	}
	if mr == writeLine {
		t.Fatal("operand should be a fresh target member ref, not the source one")
	}
	if mr.Module != target {
		t.Error("imported member ref should belong to the target module")
	}
	tr, ok := mr.Class.(*metadata.TypeRef)
	if !ok {
		t.Fatalf("member ref class should be a type ref, got %T", mr.Class)
	}
	if tr.FullName() != "System.Console" {
		t.Errorf("type ref full name = %q, want System.Console", tr.FullName())
	}
	ar, ok := tr.Scope.(*metadata.AssemblyRef)
	if !ok {
		t.Fatalf("type ref scope should be an assembly ref, got %T", tr.Scope)
	}
	if ar.FullName() != consoleAsm.FullName() {
		t.Errorf("assembly ref = %q, want %q", ar.FullName(), consoleAsm.FullName())
	}
}

func TestImportMissingEditedMethod(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")
	calc := source.Find("Lib", "Calculator")
	calc.Methods = nil

	res, err := runImport(t, target, source, calcAdd(target))
	if err == nil {
		t.Fatal("missing edited method should abort the import")
	}
	if !errors.Is(err, &clrerrors.Error{Phase: clrerrors.PhaseImport, Kind: clrerrors.KindAborted}) {
		t.Errorf("error should match the aborted sentinel, got %v", err)
	}
	if !hasDiag(res, CodeEditedMethodNotFound) {
		t.Errorf("expected IM0002, got %v", diagCodes(res))
	}
}

func TestImportMissingDeclaringType(t *testing.T) {
	target := newCalcModule("app.exe")
	source := metadata.NewModule("app.exe", &metadata.Assembly{Name: "App", Version: metadata.Version{Major: 1}})

	res, err := runImport(t, target, source, calcAdd(target))
	if err == nil {
		t.Fatal("missing declaring type should abort the import")
	}
	if !hasDiag(res, CodeDeclaringTypeNotFound) {
		t.Errorf("expected IM0001, got %v", diagCodes(res))
	}
}

func TestImportUnsupportedDebugFormat(t *testing.T) {
	for _, format := range []DebugFileFormat{DebugFormatPortablePdb, DebugFormatEmbedded} {
		t.Run(format.String(), func(t *testing.T) {
			target := newCalcModule("app.exe")
			source := newCalcModule("app.exe")

			im := New(target, WithLoader(staticLoader(source)))
			res, err := im.Import(nil, &DebugFile{Format: format}, calcAdd(target))
			if err == nil {
				t.Fatal("unsupported debug format should fail fast")
			}
			if !hasDiag(res, CodeUnsupportedDebugFormat) {
				t.Errorf("expected IM0010, got %v", diagCodes(res))
			}
		})
	}
}

func TestImportSupportedDebugFormats(t *testing.T) {
	for _, format := range []DebugFileFormat{DebugFormatNone, DebugFormatPdb} {
		t.Run(format.String(), func(t *testing.T) {
			target := newCalcModule("app.exe")
			source := newCalcModule("app.exe")

			im := New(target, WithLoader(staticLoader(source)))
			if _, err := im.Import(nil, &DebugFile{Format: format}, calcAdd(target)); err != nil {
				t.Fatalf("format %s should import fine: %v", format, err)
			}
		})
	}
}

func TestImportWithoutLoader(t *testing.T) {
	target := newCalcModule("app.exe")
	im := New(target)
	if _, err := im.Import(nil, nil, calcAdd(target)); err == nil {
		t.Fatal("import without a loader should fail")
	}
}

// The edited method's parameter operands must point at the target
// method's parameter handles once re-embedded, with opcodes, counts, and
// impl attributes preserved.
func TestImportEditedMethodParameterRemap(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	srcAdd := calcAdd(source)
	srcAdd.ImplAttributes = metadata.MethodImplNoInlining
	srcBody := srcAdd.Body
	// Reference the value parameter explicitly.
	srcBody.Instructions = append([]*metadata.Instruction{
		metadata.NewInstr(metadata.OpLdargS, srcAdd.Parameters[1]),
		metadata.NewInstr(metadata.OpPop, nil),
	}, srcBody.Instructions...)

	res := mustImport(t, target, source, calcAdd(target))

	eb := res.MergedTypes[0].EditedMethodBodies[0]
	if eb.ImplAttributes != metadata.MethodImplNoInlining {
		t.Error("impl attributes should match the compiled method")
	}
	if got, want := len(eb.Body.Instructions), len(srcBody.Instructions); got != want {
		t.Fatalf("instruction count %d, want %d", got, want)
	}
	for i, ni := range eb.Body.Instructions {
		if ni.OpCode != srcBody.Instructions[i].OpCode {
			t.Errorf("instruction %d opcode changed: %v != %v", i, ni.OpCode, srcBody.Instructions[i].OpCode)
		}
	}
	tgtAdd := calcAdd(target)
	if got := eb.Body.Instructions[0].Operand; got != tgtAdd.Parameters[1] {
		t.Errorf("parameter operand should be the target method's parameter, got %v", got)
	}
}

// New top-level compiled types become fresh target types with unique
// names; a taken name gets the __N__ prefix.
func TestImportNewTopLevelTypes(t *testing.T) {
	target := newCalcModule("app.exe")
	target.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Taken"})

	source := newCalcModule("app.exe")
	source.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Fresh"})
	source.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Taken"})

	res := mustImport(t, target, source, calcAdd(target))

	if len(res.NewTypes) != 2 {
		t.Fatalf("expected two new types, got %d", len(res.NewTypes))
	}
	names := map[string]bool{}
	for _, nt := range res.NewTypes {
		names[nt.Target.Name] = nt.Renamed
	}
	if renamed, ok := names["Fresh"]; !ok || renamed {
		t.Errorf("Fresh should keep its name, got %v", names)
	}
	if renamed, ok := names["__0__Taken"]; !ok || !renamed {
		t.Errorf("Taken should come out as __0__Taken and be marked renamed, got %v", names)
	}
}

func TestImportReleasesSourceModule(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")

	im := New(target, WithLoader(staticLoader(source)))
	if _, err := im.Import(nil, nil, calcAdd(target)); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if im.source != nil {
		t.Error("source module reference should be released after Import")
	}
}

func TestImportResultSummarize(t *testing.T) {
	target := newCalcModule("app.exe")
	source := newCalcModule("app.exe")
	source.Find("Lib", "Calculator").AddField(&metadata.FieldDef{
		Name:      "counter",
		Signature: metadata.NewFieldSig(source.CorLib.Int32),
	})
	source.AddType(&metadata.TypeDef{Namespace: "Lib", Name: "Fresh"})

	res := mustImport(t, target, source, calcAdd(target))
	rep := res.Summarize()

	if len(rep.NewTypes) != 1 || rep.NewTypes[0].Name != "Lib.Fresh" {
		t.Errorf("report new types = %+v", rep.NewTypes)
	}
	if len(rep.MergedTypes) != 1 {
		t.Fatalf("report merged types = %+v", rep.MergedTypes)
	}
	m := rep.MergedTypes[0]
	if len(m.NewFields) != 1 || m.NewFields[0] != "counter" {
		t.Errorf("report merged fields = %v", m.NewFields)
	}
	if len(m.EditedMethods) != 1 {
		t.Errorf("report edited methods = %v", m.EditedMethods)
	}
}
