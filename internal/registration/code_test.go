package registration

import (
	"strings"
	"testing"
)

func TestGenerateDealershipCodeShape(t *testing.T) {
	code := GenerateDealershipCode("Sunrise Motors")
	parts := strings.SplitN(code, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("expected PREFIX-SUFFIX, got %q", code)
	}
	if parts[0] != "SUNR" {
		t.Fatalf("expected prefix SUNR, got %q", parts[0])
	}
	if len(parts[1]) != 4 {
		t.Fatalf("expected 4-character suffix, got %q", parts[1])
	}
	for _, r := range parts[1] {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			t.Fatalf("non-hex suffix character %q in %q", r, code)
		}
	}
}

func TestGenerateDealershipCodeShortAndEmptyNames(t *testing.T) {
	if !strings.HasPrefix(GenerateDealershipCode("Bo"), "BO-") {
		t.Fatal("short names keep their letters")
	}
	if !strings.HasPrefix(GenerateDealershipCode("  !!  "), "DLR-") {
		t.Fatal("names without letters fall back to DLR")
	}
}

func TestGenerateDealershipCodeSkipsPunctuation(t *testing.T) {
	if !strings.HasPrefix(GenerateDealershipCode("A-1 Auto Sales"), "A1AU-") {
		t.Fatalf("expected punctuation skipped, got %q", GenerateDealershipCode("A-1 Auto Sales"))
	}
}

func TestGenerateDealershipCodeVaries(t *testing.T) {
	a := GenerateDealershipCode("Same Name")
	b := GenerateDealershipCode("Same Name")
	if a == b {
		t.Fatalf("expected random suffixes to differ, got %q twice", a)
	}
}
