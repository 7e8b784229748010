package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	e := New("D001", CategoryConfig, "scope %q not provided", "theme")
	want := `D001: scope "theme" not provided`
	if e.Error() != want {
		t.Errorf("Expected %q, got %q", want, e.Error())
	}

	noCode := &Error{Message: "plain"}
	if noCode.Error() != "plain" {
		t.Errorf("Expected %q, got %q", "plain", noCode.Error())
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := Wrap(inner, "D002", CategoryRuntime, "fetch failed")

	if !errors.Is(e, inner) {
		t.Error("Expected errors.Is to find the wrapped error")
	}

	wrapped := fmt.Errorf("outer: %w", e)
	var target *Error
	if !errors.As(wrapped, &target) {
		t.Fatal("Expected errors.As to find *Error")
	}
	if target.Code != "D002" {
		t.Errorf("Expected D002, got %s", target.Code)
	}
}

func TestIsCategory(t *testing.T) {
	e := New("D003", CategoryValidation, "bad field")
	wrapped := fmt.Errorf("submit: %w", e)

	if !IsCategory(wrapped, CategoryValidation) {
		t.Error("Expected validation category")
	}
	if IsCategory(wrapped, CategoryConfig) {
		t.Error("Did not expect config category")
	}
	if IsCategory(errors.New("plain"), CategoryRuntime) {
		t.Error("Plain errors have no category")
	}
}
