package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"only ellipsis", "hello", 1, "…"},
		{"wide runes", "日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if tt.width > 0 && VisualWidth(got) > tt.width {
				t.Errorf("Truncate(%q, %d) is %d columns wide", tt.in, tt.width, VisualWidth(got))
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"single line", "Welcome", 20, "Welcome"},
		{"trimmed", "  Welcome  \n", 20, "Welcome"},
		{"multi line", "first\nsecond", 20, "first…"},
		{"crlf", "first\r\nsecond", 20, "first…"},
		{"long single line", "a very long heading", 8, "a very …"},
		{"long first line", "a very long heading\nmore", 8, "a very …"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.in, tt.width); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
