package util

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"abc123", true},
		{"secret", true},
		{"a1b2c", false},  // too short
		{"123456", false}, // no letter
		{"", false},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.pw)
		if tc.ok && err != nil {
			t.Errorf("ValidatePassword(%q): unexpected error %v", tc.pw, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ValidatePassword(%q): expected error", tc.pw)
		}
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !ComparePassword(hash, "hunter22") {
		t.Fatal("correct password should compare true")
	}
	if ComparePassword(hash, "hunter23") {
		t.Fatal("wrong password should compare false")
	}
}

func TestGeneratePassword(t *testing.T) {
	a := GeneratePassword()
	b := GeneratePassword()
	if len(a) != 18 {
		t.Fatalf("expected 18 characters, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected generated passwords to differ")
	}
}

func TestNormalizeE164(t *testing.T) {
	got, err := NormalizeE164("+1 (555) 123-4567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+15551234567" {
		t.Fatalf("unexpected normalization %q", got)
	}

	if _, err := NormalizeE164("call me"); err == nil {
		t.Fatal("expected invalid characters to be rejected")
	}
	if _, err := NormalizeE164(""); err == nil {
		t.Fatal("expected empty phone to be rejected")
	}
	if _, err := NormalizeE164("123"); err == nil {
		t.Fatal("expected too-short phone to be rejected")
	}
}
