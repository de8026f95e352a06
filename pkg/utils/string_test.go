package utils

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Angkor   Wat ", "Angkor Wat"},
		{"a\t\nb", "a b"},
		{"", ""},
		{"a b", "a b"},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
		{"çàé", 2, "çà"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestSnake(t *testing.T) {
	if got := Snake("Southeast Asia"); got != "southeast_asia" {
		t.Errorf("Snake = %q", got)
	}
}
