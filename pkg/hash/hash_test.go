package hash

import (
	"strings"
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
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestPrefix(t *testing.T) {
	full := SHA256Hex("UCabc123")

	tests := []struct {
		name      string
		prefixLen int
		want      string
	}{
		{"4 char prefix", 4, full[:4]},
		{"32 char prefix", 32, full[:32]},
		{"full hash if prefix too long", 100, full},
		{"full hash if prefix not positive", 0, full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prefix("UCabc123", tt.prefixLen)
			if got != tt.want {
				t.Errorf("Prefix(%d) = %s, want %s", tt.prefixLen, got, tt.want)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("resolve", " @SomeCreator ")
	b := CacheKey("resolve", "@SomeCreator")
	if a != b {
		t.Errorf("keys differ for equivalent input: %s vs %s", a, b)
	}
	if CacheKey("resolve", "UCabc") == CacheKey("resolve", "UCABC") {
		t.Error("keys should be case-sensitive")
	}
	if !strings.HasPrefix(a, "resolve:") {
		t.Errorf("key %s missing namespace", a)
	}
	if len(a) != len("resolve:")+32 {
		t.Errorf("key length = %d", len(a))
	}
	if CacheKey("analytics", "x") == CacheKey("resolve", "x") {
		t.Error("namespaces should not collide")
	}
}
