package catalog

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tom_Hanks", "Tom Hanks"},
		{"tom-hanks", "tom hanks"},
		{"Scarlett__Johansson", "Scarlett Johansson"},
		{"Robert Downey Jr", "Robert Downey Jr"},
		{"  spaced  out  ", "spaced out"},
		{"Single", "Single"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tom Hanks", "tom hanks"},
		{"Tom_Hanks", "tom hanks"},
		{"TOM-HANKS", "tom hanks"},
		{"Penélope Cruz", "penelope cruz"},
		{"Jiří Menzel", "jiri menzel"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NameKey(tt.input)
			if result != tt.expected {
				t.Errorf("NameKey(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNameKeyCollision(t *testing.T) {
	// Folder variants that should map to the same identity.
	if NameKey("Tom_Hanks") != NameKey("tom-hanks") {
		t.Error("expected Tom_Hanks and tom-hanks to share a key")
	}
	if NameKey("Penélope_Cruz") != NameKey("Penelope Cruz") {
		t.Error("expected diacritic variants to share a key")
	}
}

func TestHasEmbedding(t *testing.T) {
	id := Identity{Name: "Test"}
	if id.HasEmbedding() {
		t.Error("expected no embedding for empty identity")
	}

	id.Embedding = []float32{0.1, 0.2}
	if !id.HasEmbedding() {
		t.Error("expected embedding to be reported")
	}
}
