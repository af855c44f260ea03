package section

import (
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"banner", "banner"},
		{"hero-banner!", "herobanner"},
		{"text_2", "text_2"},
		{"  gallery  ", "gallery"},
		{"<script>alert(1)</script>", "scriptalert1script"},
		{"", ""},
		{"!!!", ""},
		{"café", "caf"},
		{"Columns3", "Columns3"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"hero-banner!", "a b\tc", "ü_ß-9", "", "plain", "--__--"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSection_ViewID(t *testing.T) {
	s := Section{Type: "text", Number: 1700000000123}
	if got := s.ViewID(); got != "ttf-one-section-1700000000123" {
		t.Errorf("ViewID = %q", got)
	}
}
