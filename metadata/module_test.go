package metadata

import "testing"

func TestNewModuleCreatesGlobalType(t *testing.T) {
	m := NewModule("app.dll", nil)
	g := m.GlobalType()
	if g == nil {
		t.Fatal("new module should have a global type")
	}
	if g.Name != GlobalTypeName {
		t.Errorf("global type name = %q, want %q", g.Name, GlobalTypeName)
	}
	if !g.IsGlobalModuleType() {
		t.Error("IsGlobalModuleType should be true for the global type")
	}
}

func TestUpdateRowIDMonotonic(t *testing.T) {
	m := NewModule("app.dll", nil)
	var prev uint32
	for i := 0; i < 5; i++ {
		f := &FieldDef{Name: "f"}
		m.UpdateRowID(f)
		if f.RID <= prev {
			t.Fatalf("row id %d not greater than previous %d", f.RID, prev)
		}
		prev = f.RID
	}
}

func TestModuleFind(t *testing.T) {
	m := NewModule("app.dll", nil)
	m.AddType(&TypeDef{Namespace: "Lib", Name: "Point"})

	if m.Find("Lib", "Point") == nil {
		t.Error("Find should locate Lib.Point")
	}
	if m.Find("Lib", "Missing") != nil {
		t.Error("Find should return nil for a missing type")
	}
	if m.Find("", "Point") != nil {
		t.Error("Find should not match across namespaces")
	}
}

func TestAllTypesWalksNested(t *testing.T) {
	m := NewModule("app.dll", nil)
	outer := m.AddType(&TypeDef{Namespace: "Lib", Name: "Outer"})
	inner := outer.AddNestedType(&TypeDef{Name: "Inner"})
	inner.AddNestedType(&TypeDef{Name: "Innermost"})

	all := m.AllTypes()
	// global + Outer + Inner + Innermost
	if len(all) != 4 {
		t.Fatalf("AllTypes() returned %d types, want 4", len(all))
	}
}

func TestTypeDefFullName(t *testing.T) {
	m := NewModule("app.dll", nil)
	outer := m.AddType(&TypeDef{Namespace: "Lib", Name: "Outer"})
	inner := outer.AddNestedType(&TypeDef{Name: "Inner"})

	tests := []struct {
		td   *TypeDef
		want string
	}{
		{outer, "Lib.Outer"},
		{inner, "Lib.Outer/Inner"},
	}
	for _, tt := range tests {
		if got := tt.td.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTypeRefFullNameNested(t *testing.T) {
	asm := &AssemblyRef{Name: "Other"}
	outer := &TypeRef{Namespace: "Lib", Name: "Outer", Scope: asm}
	inner := &TypeRef{Name: "Inner", Scope: outer}

	if got := inner.FullName(); got != "Lib.Outer/Inner" {
		t.Errorf("FullName() = %q, want Lib.Outer/Inner", got)
	}
}

func TestAssemblyRefEqualsAssembly(t *testing.T) {
	asm := &Assembly{
		Name:           "App",
		Version:        Version{Major: 1, Minor: 2},
		PublicKeyToken: []byte{0x01, 0x02},
	}

	tests := []struct {
		name string
		ref  *AssemblyRef
		want bool
	}{
		{
			name: "equal",
			ref:  &AssemblyRef{Name: "App", Version: Version{Major: 1, Minor: 2}, PublicKeyToken: []byte{0x01, 0x02}},
			want: true,
		},
		{
			name: "case insensitive name",
			ref:  &AssemblyRef{Name: "APP", Version: Version{Major: 1, Minor: 2}, PublicKeyToken: []byte{0x01, 0x02}},
			want: true,
		},
		{
			name: "different version",
			ref:  &AssemblyRef{Name: "App", Version: Version{Major: 2}, PublicKeyToken: []byte{0x01, 0x02}},
			want: false,
		},
		{
			name: "different token",
			ref:  &AssemblyRef{Name: "App", Version: Version{Major: 1, Minor: 2}, PublicKeyToken: []byte{0xFF}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.EqualsAssembly(asm); got != tt.want {
				t.Errorf("EqualsAssembly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssemblyFullName(t *testing.T) {
	tests := []struct {
		name string
		asm  *Assembly
		want string
	}{
		{
			name: "neutral culture no token",
			asm:  &Assembly{Name: "App", Version: Version{Major: 1}},
			want: "App, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null",
		},
		{
			name: "with token",
			asm:  &Assembly{Name: "Lib", Version: Version{Major: 4, Minor: 2}, PublicKeyToken: []byte{0xb7, 0x7a}},
			want: "Lib, Version=4.2.0.0, Culture=neutral, PublicKeyToken=b77a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.asm.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}
