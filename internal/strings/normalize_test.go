package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   \t\n", want: ""},
		{name: "collapses", input: "  Red \t  Cube\n", want: "Red Cube"},
		{name: "unchanged", input: "Sphere", want: "Sphere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.input); got != tt.want {
				t.Fatalf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Cube", want: "cube"},
		{input: "  RED   cube ", want: "red cube"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") || !IsBlank(" \n\t") {
		t.Fatal("expected whitespace to be blank")
	}
	if IsBlank(" x ") {
		t.Fatal("expected text not to be blank")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "a\r\nb", want: "a\nb"},
		{input: "a\rb\r", want: "a\nb\n"},
		{input: "a\nb", want: "a\nb"},
	}

	for _, tt := range tests {
		if got := NormalizeNewlines(tt.input); got != tt.want {
			t.Fatalf("NormalizeNewlines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	if got := TrimTrailingNewlines("text\r\n\n"); got != "text" {
		t.Fatalf("got %q", got)
	}
	if got := TrimTrailingNewlines("a\nb"); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestIndentBlock(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		spaces int
		want   string
	}{
		{name: "zero", input: "a\nb", spaces: 0, want: "a\nb"},
		{name: "empty", input: "", spaces: 2, want: ""},
		{name: "lines", input: "a\nb", spaces: 2, want: "  a\n  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndentBlock(tt.input, tt.spaces); got != tt.want {
				t.Fatalf("IndentBlock(%q, %d) = %q, want %q", tt.input, tt.spaces, got, tt.want)
			}
		})
	}
}
