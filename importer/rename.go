package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/clr-importer/metadata"
)

// deduplicateNames resolves name collisions between compiled members and
// existing target members on a merged-with-rename type.
//
// Methods and properties collide on their full signature ignoring the
// return type; events and fields collide by name and share one table,
// since both live in the type's field name space. Renaming a virtual
// member would break override semantics, so virtual collisions are
// diagnosed and left alone. Renamed properties and events seed suggested
// accessor names, which method renaming prefers over the current name.
func (im *Importer) deduplicateNames(mt *MergedImportedType) {
	methodKeys := make(map[string]struct{})
	propKeys := make(map[string]struct{})
	fieldOrEventNames := make(map[string]struct{})

	for _, m := range mt.Target.Methods {
		methodKeys[im.overloadComparer.MethodKey(m.Name, m.Signature)] = struct{}{}
	}
	for _, p := range mt.Target.Properties {
		propKeys[im.overloadComparer.PropertyKey(p.Name, p.Signature)] = struct{}{}
	}
	for _, e := range mt.Target.Events {
		fieldOrEventNames[e.Name] = struct{}{}
	}
	for _, f := range mt.Target.Fields {
		fieldOrEventNames[f.Name] = struct{}{}
	}

	suggested := make(map[*metadata.MethodDef]string)

	for _, p := range mt.NewProperties {
		key := im.overloadComparer.PropertyKey(p.Name, p.Signature)
		if _, clash := propKeys[key]; !clash {
			propKeys[key] = struct{}{}
			continue
		}
		if p.IsVirtual() {
			im.errorf(CodeRenameVirtualProperty, p.Name)
			continue
		}
		oldName := p.Name
		p.Name = uniqueMemberName(oldName, func(cand string) bool {
			_, taken := propKeys[im.overloadComparer.PropertyKey(cand, p.Signature)]
			return taken
		})
		propKeys[im.overloadComparer.PropertyKey(p.Name, p.Signature)] = struct{}{}
		im.log.Debug("renamed property", zap.String("from", oldName), zap.String("to", p.Name))
		if p.GetMethod != nil {
			suggested[p.GetMethod] = "get_" + p.Name
		}
		if p.SetMethod != nil {
			suggested[p.SetMethod] = "set_" + p.Name
		}
	}

	for _, e := range mt.NewEvents {
		if _, clash := fieldOrEventNames[e.Name]; !clash {
			fieldOrEventNames[e.Name] = struct{}{}
			continue
		}
		if e.IsVirtual() {
			im.errorf(CodeRenameVirtualEvent, e.Name)
			continue
		}
		oldName := e.Name
		e.Name = uniqueMemberName(oldName, func(cand string) bool {
			_, taken := fieldOrEventNames[cand]
			return taken
		})
		fieldOrEventNames[e.Name] = struct{}{}
		im.log.Debug("renamed event", zap.String("from", oldName), zap.String("to", e.Name))
		if e.AddMethod != nil {
			suggested[e.AddMethod] = "add_" + e.Name
		}
		if e.RemoveMethod != nil {
			suggested[e.RemoveMethod] = "remove_" + e.Name
		}
		if e.InvokeMethod != nil {
			suggested[e.InvokeMethod] = "raise_" + e.Name
		}
	}

	for _, m := range mt.NewMethods {
		name := m.Name
		if s, ok := suggested[m]; ok {
			name = s
		}
		if _, clash := methodKeys[im.overloadComparer.MethodKey(name, m.Signature)]; clash {
			if m.IsVirtual() {
				im.errorf(CodeRenameVirtualMethod, m.Name)
				continue
			}
			name = uniqueMemberName(name, func(cand string) bool {
				_, taken := methodKeys[im.overloadComparer.MethodKey(cand, m.Signature)]
				return taken
			})
		}
		if name != m.Name {
			im.log.Debug("renamed method", zap.String("from", m.Name), zap.String("to", name))
			m.Name = name
		}
		methodKeys[im.overloadComparer.MethodKey(m.Name, m.Signature)] = struct{}{}
	}

	for _, f := range mt.NewFields {
		if _, clash := fieldOrEventNames[f.Name]; !clash {
			fieldOrEventNames[f.Name] = struct{}{}
			continue
		}
		oldName := f.Name
		f.Name = uniqueMemberName(oldName, func(cand string) bool {
			_, taken := fieldOrEventNames[cand]
			return taken
		})
		fieldOrEventNames[f.Name] = struct{}{}
		im.log.Debug("renamed field", zap.String("from", oldName), zap.String("to", f.Name))
	}
}

// uniqueMemberName appends "_N" with an incrementing counter until the
// candidate is free. The compiler may itself have emitted "name_0"
// shaped names; iterating terminates because the taken set is finite.
func uniqueMemberName(name string, taken func(string) bool) string {
	for n := 0; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
