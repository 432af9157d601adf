package importer

import (
	"testing"

	"github.com/wippyai/clr-importer/metadata"
)

func TestClassifyScope(t *testing.T) {
	target := metadata.NewModule("target.dll", &metadata.Assembly{
		Name: "Target", Version: metadata.Version{Major: 1},
	})
	source := metadata.NewModule("source.dll", &metadata.Assembly{
		Name: "Source", Version: metadata.Version{Major: 1},
	})
	im := newBoundImporter(target, source)

	foreign := metadata.NewModule("foreign.dll", nil)

	tests := []struct {
		name  string
		scope metadata.ResolutionScope
		want  scopeKind
	}{
		{"source assembly ref", source.Assembly.ToRef(), scopeSource},
		{"target assembly ref", target.Assembly.ToRef(), scopeTarget},
		{
			"foreign assembly ref",
			&metadata.AssemblyRef{Name: "System.Runtime", Version: metadata.Version{Major: 8}},
			scopeForeign,
		},
		{
			"source assembly ref, different version",
			&metadata.AssemblyRef{Name: "Source", Version: metadata.Version{Major: 2}},
			scopeForeign,
		},
		{"source module ref", &metadata.ModuleRef{Name: "source.dll"}, scopeSource},
		{"source module ref case-insensitive", &metadata.ModuleRef{Name: "SOURCE.DLL"}, scopeSource},
		{"target module ref", &metadata.ModuleRef{Name: "target.dll"}, scopeTarget},
		{"foreign module ref", &metadata.ModuleRef{Name: "other.dll"}, scopeForeign},
		{"source module handle", source, scopeSource},
		{"target module handle", target, scopeTarget},
		{"foreign module handle", foreign, scopeForeign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := im.classifyScope(tt.scope); got != tt.want {
				t.Errorf("classifyScope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeKindString(t *testing.T) {
	tests := []struct {
		kind scopeKind
		want string
	}{
		{scopeSource, "source"},
		{scopeTarget, "target"},
		{scopeForeign, "foreign"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
