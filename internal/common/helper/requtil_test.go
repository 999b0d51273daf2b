package helper

import (
	"strings"
	"testing"
)

func TestIsMoneyFormat(t *testing.T) {
	valid := []string{"0", "10", "10.5", "10.55", " 25 ", "1000000"}
	for _, s := range valid {
		if !IsMoneyFormat(s) {
			t.Fatalf("IsMoneyFormat(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-1", "00.5", "1.234", "1.", ".5", "1e3", "abc", "10,5"}
	for _, s := range invalid {
		if IsMoneyFormat(s) {
			t.Fatalf("IsMoneyFormat(%q) = true, want false", s)
		}
	}
}

func TestIsValidRoundID(t *testing.T) {
	valid := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"abc123",
		strings.Repeat("a", 64),
	}
	for _, s := range valid {
		if !IsValidRoundID(s) {
			t.Fatalf("IsValidRoundID(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "abc/def", "a b", strings.Repeat("a", 65), "id;drop"}
	for _, s := range invalid {
		if IsValidRoundID(s) {
			t.Fatalf("IsValidRoundID(%q) = true, want false", s)
		}
	}
}

func TestIsJSONContentType(t *testing.T) {
	if !IsJSONContentType("application/json") {
		t.Fatalf("plain json rejected")
	}
	if !IsJSONContentType("Application/JSON; charset=utf-8") {
		t.Fatalf("json with charset rejected")
	}
	if IsJSONContentType("text/html") || IsJSONContentType("") {
		t.Fatalf("non-json accepted")
	}
}
