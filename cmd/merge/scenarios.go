package main

import (
	"fmt"

	"github.com/wippyai/clr-importer/importer"
	"github.com/wippyai/clr-importer/metadata"
)

// Scenario is a self-contained import exercise: a target module, a
// compiled module, and the edited method.
type Scenario struct {
	Name        string
	Description string
	Build       func() (*metadata.Module, *metadata.Module, *metadata.MethodDef)
}

var scenarios = []Scenario{
	{
		Name:        "recompile",
		Description: "source identical to target; every member becomes a stub",
		Build: func() (*metadata.Module, *metadata.Module, *metadata.MethodDef) {
			target := buildApp("App.exe")
			source := buildApp("App.exe")
			return target, source, editedMethod(target)
		},
	},
	{
		Name:        "add-field",
		Description: "the edited type gains a counter field",
		Build: func() (*metadata.Module, *metadata.Module, *metadata.MethodDef) {
			target := buildApp("App.exe")
			source := buildApp("App.exe")
			calc := source.Find("Lib", "Calculator")
			calc.AddField(&metadata.FieldDef{
				Name:      "counter",
				Signature: metadata.NewFieldSig(source.CorLib.Int32),
			})
			return target, source, editedMethod(target)
		},
	},
	{
		Name:        "global-helper",
		Description: "a new global Helper(int) collides with an existing one",
		Build: func() (*metadata.Module, *metadata.Module, *metadata.MethodDef) {
			target := buildApp("App.exe")
			addGlobalHelper(target)
			source := buildApp("App.exe")
			addGlobalHelper(source)
			return target, source, editedMethod(target)
		},
	},
	{
		Name:        "static-toggle",
		Description: "the edited method turned static; diagnosed, body still imported",
		Build: func() (*metadata.Module, *metadata.Module, *metadata.MethodDef) {
			target := buildApp("App.exe")
			source := buildApp("App.exe")
			add := source.Find("Lib", "Calculator").FindMethod("Add")
			add.Attributes |= metadata.MethodAttrStatic
			add.Signature.CallConv &^= metadata.CallConvHasThis
			add.UpdateParameterTypes()
			return target, source, editedMethod(target)
		},
	},
	{
		Name:        "console-call",
		Description: "the edited body calls System.Console.WriteLine(string)",
		Build: func() (*metadata.Module, *metadata.Module, *metadata.MethodDef) {
			target := buildApp("App.exe")
			source := buildApp("App.exe")
			add := source.Find("Lib", "Calculator").FindMethod("Add")
			corlibRef := &metadata.AssemblyRef{
				Name:    "System.Console",
				Version: metadata.Version{Major: 8},
			}
			source.UpdateRowID(corlibRef)
			console := &metadata.TypeRef{
				Namespace: "System",
				Name:      "Console",
				Scope:     corlibRef,
				Module:    source,
			}
			source.UpdateRowID(console)
			writeLine := &metadata.MemberRef{
				Name:      "WriteLine",
				Class:     console,
				Signature: metadata.NewMethodSig(source.CorLib.Void, source.CorLib.String),
				Module:    source,
			}
			source.UpdateRowID(writeLine)
			body := add.Body
			body.Instructions = append([]*metadata.Instruction{
				metadata.NewInstr(metadata.OpLdstr, "add called"),
				metadata.NewInstr(metadata.OpCall, writeLine),
			}, body.Instructions...)
			return target, source, editedMethod(target)
		},
	},
}

func findScenario(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// runScenario builds the module pair and runs an import over it.
func runScenario(s Scenario) (*importer.ImportResult, error) {
	target, source, edited := s.Build()
	im := importer.New(target, importer.WithLoader(func([]byte, *importer.DebugFile) (*metadata.Module, error) {
		return source, nil
	}))
	return im.Import(nil, nil, edited)
}

// buildApp constructs the demo module: Lib.Calculator with a total field
// and an Add(int) method whose body the scenarios edit.
func buildApp(name string) *metadata.Module {
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

func addGlobalHelper(m *metadata.Module) {
	helper := &metadata.MethodDef{
		Name:       "Helper",
		Attributes: metadata.MethodAttrStatic,
		Signature:  metadata.NewMethodSig(m.CorLib.Void, m.CorLib.Int32),
	}
	helper.Body = &metadata.CilBody{
		MaxStack:     1,
		Instructions: []*metadata.Instruction{metadata.NewInstr(metadata.OpRet, nil)},
	}
	m.GlobalType().AddMethod(helper)
}

func editedMethod(target *metadata.Module) *metadata.MethodDef {
	calc := target.Find("Lib", "Calculator")
	if calc == nil {
		panic(fmt.Sprintf("demo module %s has no Lib.Calculator", target.Name))
	}
	return calc.FindMethod("Add")
}
