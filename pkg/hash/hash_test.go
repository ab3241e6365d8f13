package hash

import (
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	// SHA256 of empty string
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestScopeKey_Deterministic(t *testing.T) {
	a := ScopeKey("aggregate", []string{"UC1", "UC2"}, "2025-01-01:2025-01-31")
	b := ScopeKey("aggregate", []string{"UC1", "UC2"}, "2025-01-01:2025-01-31")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
}

func TestScopeKey_OrderSensitive(t *testing.T) {
	a := ScopeKey("compare", []string{"UC1", "UC2"}, "r")
	b := ScopeKey("compare", []string{"UC2", "UC1"}, "r")
	if a == b {
		t.Error("reordered channel set should produce a different key")
	}
}

func TestScopeKey_ScopeSensitive(t *testing.T) {
	a := ScopeKey("aggregate", []string{"UC1"}, "r")
	b := ScopeKey("compare", []string{"UC1"}, "r")
	if a == b {
		t.Error("different scopes should produce different keys")
	}
}

func TestScopeKey_Prefix(t *testing.T) {
	key := ScopeKey("single", []string{"UC1"}, "r")
	if len(key) != len("analytics:")+24 {
		t.Errorf("key length = %d, want %d", len(key), len("analytics:")+24)
	}
}

func TestShortHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		wantLen int
	}{
		{"12 chars", "UCuAXFkgsw1L7xaCfnd5JJOw", 12, 12},
		{"4 chars", "UCuAXFkgsw1L7xaCfnd5JJOw", 4, 4},
		{"clamps to full hash", "UCuAXFkgsw1L7xaCfnd5JJOw", 100, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortHex(tt.input, tt.n)
			if len(got) != tt.wantLen {
				t.Errorf("ShortHex(%q, %d) length = %d, want %d", tt.input, tt.n, len(got), tt.wantLen)
			}
		})
	}
}
