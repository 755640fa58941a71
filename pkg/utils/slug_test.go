package utils

import (
	"testing"
)

func TestNormalizeArchetype(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Already a slug",
			input:    "charizard-ex-arcanine-ex",
			expected: "charizard-ex-arcanine-ex",
		},
		{
			name:     "Name with spaces",
			input:    "Charizard Ex Arcanine Ex",
			expected: "charizard-ex-arcanine-ex",
		},
		{
			name:     "Accented characters",
			input:    "Pokémon Trainer",
			expected: "pokemon-trainer",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeArchetype(tt.input); got != tt.expected {
				t.Errorf("NormalizeArchetype(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestArchetypeDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Two pokemon archetype",
			input:    "charizard-ex-arcanine-ex",
			expected: "Charizard Ex Arcanine Ex",
		},
		{
			name:     "Single word",
			input:    "mewtwo",
			expected: "Mewtwo",
		},
		{
			name:     "Empty slug",
			input:    "",
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArchetypeDisplayName(tt.input); got != tt.expected {
				t.Errorf("ArchetypeDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGenerateTournamentSlug(t *testing.T) {
	got := GenerateTournamentSlug("Big Pocket Open", "0123456789abcdef01234567")
	expected := "big-pocket-open-0123456789abcdef01234567"
	if got != expected {
		t.Errorf("GenerateTournamentSlug() = %q, want %q", got, expected)
	}

	if got := GenerateTournamentSlug("", ""); got != "tournament" {
		t.Errorf("GenerateTournamentSlug with empty inputs = %q, want %q", got, "tournament")
	}
}
