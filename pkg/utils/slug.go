package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// NormalizeArchetype creates a canonical slug for an archetype name.
// Limitless metagame links already use slugs, but names scraped from
// free text (accents, apostrophes, unicode dashes) need normalizing.
func NormalizeArchetype(text string) string {
	if text == "" {
		return ""
	}
	return slug.Make(text)
}

// ArchetypeDisplayName turns an archetype slug into a readable name,
// e.g. "charizard-ex-arcanine-ex" -> "Charizard Ex Arcanine Ex".
func ArchetypeDisplayName(archetype string) string {
	if archetype == "" {
		return "Unknown"
	}

	parts := strings.Split(archetype, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// GenerateTournamentSlug creates a slug for a tournament name and ID.
func GenerateTournamentSlug(name, id string) string {
	if name == "" {
		name = "tournament"
	}
	if id == "" {
		return NormalizeArchetype(name)
	}
	return NormalizeArchetype(name + " " + id)
}
