package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "duplicate open",
			code:    "E100",
			wantMsg: "Overlay already open",
			wantCat: CategoryState,
		},
		{
			name:    "missing provider",
			code:    "E101",
			wantMsg: "Provider not found",
			wantCat: CategoryContext,
		},
		{
			name:    "config",
			code:    "E200",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestOverlayError_Error(t *testing.T) {
	err := New("E100").WithDetail(`overlay "a" is already open`)
	want := `E100: Overlay already open: overlay "a" is already open`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &OverlayError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestOverlayError_IsAndUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := fmt.Errorf("dispatch: %w", New("E102").Wrap(cause))

	if !stderrors.Is(err, New("E102")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E100")) {
		t.Error("errors.Is should not match a different code")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if !HasCode(err, "E102") {
		t.Error("HasCode should find E102 through wrapping")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E101")
	if FromError(orig, "E200") != orig {
		t.Error("FromError should return an existing OverlayError unchanged")
	}

	wrapped := FromError(stderrors.New("bad json"), "E201")
	if wrapped.Code != "E201" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v, want code E201 wrapping the cause", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E100").
		WithDetail(`overlay "confirm" is already open`).
		Wrap(stderrors.New("boom")).
		Format()

	for _, want := range []string{
		"ERROR E100: Overlay already open",
		`overlay "confirm" is already open`,
		"Hint: ",
		"Caused by: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}
