package strutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"longer string cut with ellipsis", "hello world", 5, "hello..."},
		{"zero max", "hello", 0, ""},
		{"negative max", "hello", -3, ""},
		{"empty input", "", 5, ""},
		{"multi-byte runes kept intact", "héllo wörld", 7, "héllo w..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"word", "Word"},
		{"Word", "Word"},
		{"über", "Über"},
		{"1st", "1st"},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.input); got != tt.expected {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
