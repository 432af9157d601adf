package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "phase and kind",
			err:  &Error{Phase: PhaseResolve, Kind: KindNotFound},
			want: []string{"[resolve]", "not_found"},
		},
		{
			name: "with member",
			err:  &Error{Phase: PhaseBody, Kind: KindInternal, Member: "Lib.C::M"},
			want: []string{"[body]", "internal", "at Lib.C::M"},
		},
		{
			name: "with detail",
			err:  &Error{Phase: PhasePlan, Kind: KindNotFound, Detail: "no edited method"},
			want: []string{"no edited method"},
		},
		{
			name: "with cause",
			err:  Load("parse image", stderrors.New("bad header")),
			want: []string{"[load]", "caused by: bad header"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Error() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	aborted := Aborted(nil)
	if !stderrors.Is(aborted, &Error{Phase: PhaseImport, Kind: KindAborted}) {
		t.Error("Aborted should match PhaseImport/KindAborted")
	}
	if stderrors.Is(aborted, &Error{Phase: PhaseImport, Kind: KindInternal}) {
		t.Error("Aborted should not match KindInternal")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("inner")
	err := Wrap(PhaseMember, KindInvalidData, cause, "copy failed")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable through Unwrap")
	}
}

func TestNewFormats(t *testing.T) {
	err := New(PhaseRename, KindUnsupported, "renaming %q not supported", "Prop")
	if !strings.Contains(err.Error(), `renaming "Prop" not supported`) {
		t.Errorf("New should format detail, got %q", err.Error())
	}
}
