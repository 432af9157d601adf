package importer

import (
	"testing"

	"github.com/wippyai/clr-importer/metadata"
)

// newCalcModule builds the test module used across the importer tests:
//
//	Lib.Calculator { int total; instance int Add(int); }
//
// plus the global type. Both sides of an import build one of these and
// the source side mutates it.
func newCalcModule(name string) *metadata.Module {
	m := metadata.NewModule(name, &metadata.Assembly{
		Name:    "App",
		Version: metadata.Version{Major: 1},
	})
	calc := m.AddType(&metadata.TypeDef{
		Namespace:  "Lib",
		Name:       "Calculator",
		Attributes: metadata.TypeAttrPublic,
	})
	total := calc.AddField(&metadata.FieldDef{
		Name:      "total",
		Signature: metadata.NewFieldSig(m.CorLib.Int32),
	})
	add := &metadata.MethodDef{
		Name:       "Add",
		Attributes: metadata.MethodAttrPublic,
		Signature:  metadata.NewInstanceMethodSig(m.CorLib.Int32, m.CorLib.Int32),
		ParamDefs:  []*metadata.ParamDef{{Name: "value", Sequence: 1}},
	}
	body := &metadata.CilBody{MaxStack: 2, InitLocals: true}
	body.AddInstr(metadata.NewInstr(metadata.OpLdarg0, nil))
	body.AddInstr(metadata.NewInstr(metadata.OpLdfld, total))
	body.AddInstr(metadata.NewInstr(metadata.OpLdarg1, nil))
	body.AddInstr(metadata.NewInstr(metadata.OpAdd, nil))
	body.AddInstr(metadata.NewInstr(metadata.OpRet, nil))
	add.Body = body
	calc.AddMethod(add)
	return m
}

// newRecompiledCalcModule is the calc module as a compiler would emit
// it: same types, but under the compilation's own unique assembly
// identity, so references back into the edited assembly classify as
// target rather than source.
func newRecompiledCalcModule() *metadata.Module {
	m := newCalcModule("app.exe")
	m.Assembly = &metadata.Assembly{
		Name:    "App.recompile",
		Version: metadata.Version{Major: 1},
	}
	return m
}

func calcAdd(m *metadata.Module) *metadata.MethodDef {
	return m.Find("Lib", "Calculator").FindMethod("Add")
}

// runImport runs a full import of source into target for the given
// edited method.
func runImport(t *testing.T, target, source *metadata.Module, edited *metadata.MethodDef) (*ImportResult, error) {
	t.Helper()
	im := New(target, WithLoader(staticLoader(source)))
	return im.Import(nil, nil, edited)
}

func mustImport(t *testing.T, target, source *metadata.Module, edited *metadata.MethodDef) *ImportResult {
	t.Helper()
	res, err := runImport(t, target, source, edited)
	if err != nil {
		t.Fatalf("Import() failed: %v (diagnostics: %v)", err, res.Diagnostics)
	}
	return res
}

func staticLoader(source *metadata.Module) Loader {
	return func([]byte, *DebugFile) (*metadata.Module, error) {
		return source, nil
	}
}

// newBoundImporter wires an importer to a source module without running
// Import, for unit tests of individual components.
func newBoundImporter(target, source *metadata.Module) *Importer {
	im := New(target, WithLoader(staticLoader(source)))
	im.source = source
	return im
}

func diagCodes(res *ImportResult) []string {
	var codes []string
	for _, d := range res.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

func hasDiag(res *ImportResult, code string) bool {
	for _, d := range res.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}
