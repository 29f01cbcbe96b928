package domain

// Closed style vocabularies. StyleHintsFromEmbedding only ever emits values
// from these sets; prompt construction relies on that.
var (
	AdjectiveStyles = []string{"cheerful", "bright", "gentle", "soft"}
	NounStyles      = []string{"cozy", "natural", "warm", "winter object"}
	Twists          = []string{"add playful twist", "add sparkle", "add warmth", "add magic"}
)

// StyleHints nudge name generation. They are prompt guidance, not hard
// constraints on the generated output.
type StyleHints struct {
	AdjectiveStyle string `json:"adjective_style"`
	NounStyle      string `json:"noun_style"`
	Twist          string `json:"twist"`
}

// DefaultStyleHints apply when no embedding signal is available.
func DefaultStyleHints() StyleHints {
	return StyleHints{
		AdjectiveStyle: "cheerful",
		NounStyle:      "winter object",
		Twist:          "add sparkle",
	}
}

// StyleHintsFromEmbedding maps vector statistics onto the style vocabulary.
// The thresholds are fixed design constants: the average picks the adjective,
// the minimum picks the noun, the spread picks the twist. The mapping is
// total; every vector produces a full set of hints.
func StyleHintsFromEmbedding(e Embedding) StyleHints {
	if len(e) == 0 {
		return DefaultStyleHints()
	}

	stats := e.Stats()
	var hints StyleHints

	switch {
	case stats.Avg > 0.1:
		hints.AdjectiveStyle = "cheerful"
	case stats.Avg > 0:
		hints.AdjectiveStyle = "bright"
	case stats.Avg > -0.1:
		hints.AdjectiveStyle = "gentle"
	default:
		hints.AdjectiveStyle = "soft"
	}

	switch {
	case stats.Min < -0.2:
		hints.NounStyle = "cozy"
	case stats.Min < -0.1:
		hints.NounStyle = "natural"
	case stats.Min < 0:
		hints.NounStyle = "warm"
	default:
		hints.NounStyle = "winter object"
	}

	switch {
	case stats.Range > 0.5:
		hints.Twist = "add playful twist"
	case stats.Range > 0.3:
		hints.Twist = "add sparkle"
	case stats.Range > 0.1:
		hints.Twist = "add warmth"
	default:
		hints.Twist = "add magic"
	}

	return hints
}
