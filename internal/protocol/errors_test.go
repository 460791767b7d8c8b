package protocol

import (
	"regexp"
	"testing"
)

func TestKnownCodesMatchWireShape(t *testing.T) {
	shape := regexp.MustCompile(`^E_[A-Z_]+$`)
	for code := range knownCodes {
		if !shape.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, shape)
		}
		if !IsKnownCode(code) {
			t.Fatalf("expected known code: %q", code)
		}
	}
	if !IsKnownCode("") {
		t.Fatalf("empty code means success and must be accepted")
	}
	for _, c := range []string{"E_NOT_DEFINED", "e_bounds", "BOUNDS"} {
		if IsKnownCode(c) {
			t.Fatalf("expected %q rejected", c)
		}
	}
}
