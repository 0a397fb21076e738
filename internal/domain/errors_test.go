package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchError_UnwrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewSearchError("Failed to delete index", "APP1", "default", cause)

	if !errors.Is(err, ErrSearch) {
		t.Error("expected errors.Is(err, ErrSearch)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}

	var se *SearchError
	if !errors.As(err, &se) {
		t.Fatal("expected errors.As to *SearchError")
	}
	if se.AppID != "APP1" || se.Scope != "default" {
		t.Errorf("unexpected context: %+v", se)
	}
}

func TestSearchError_Message(t *testing.T) {
	err := NewSearchError("Failed to search", "APP1", "core", errors.New("timeout"))
	want := "Failed to search. Search service name: APP1, Scope: core: timeout"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	noCause := NewSearchError("Failed to search", "APP1", "core", nil)
	if strings.HasSuffix(noCause.Error(), ": ") {
		t.Errorf("unexpected trailing separator: %q", noCause.Error())
	}
	if !errors.Is(noCause, ErrSearch) {
		t.Error("expected errors.Is(noCause, ErrSearch)")
	}
}
