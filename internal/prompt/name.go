package prompt

import (
	"fmt"

	"github.com/kapu/elfname-go/internal/domain"
)

// BuildNamePrompt builds the elf name generation prompt from the seed and the
// style hints derived from the input embedding. The same inputs always produce
// the same prompt text.
func BuildNamePrompt(seed domain.Seed, hints domain.StyleHints) string {
	defaults := domain.DefaultStyleHints()
	if hints.AdjectiveStyle == "" {
		hints.AdjectiveStyle = defaults.AdjectiveStyle
	}
	if hints.NounStyle == "" {
		hints.NounStyle = defaults.NounStyle
	}
	if hints.Twist == "" {
		hints.Twist = defaults.Twist
	}

	return fmt.Sprintf(`Generate a whimsical Christmas elf name following these requirements:

Seed hint: "%s"

FORMAT:
- The name must be exactly 2 or 3 words
- Follow one of these patterns:
  * Adjective-WinterObject (e.g., "Sparkly Snowflake")
  * PlayfulVerb-CozyNoun (e.g., "Twinkle Cocoa")
  * SillyCharacterName-SeasonalFlair (e.g., "Jingles Peppermint")

STYLE GUIDANCE:
- Use %s adjectives
- Use %s for nouns
- %s

CHRISTMAS THEME:
- Use Christmas-themed vocabulary including: snow, light, candy, sparkle, animals, warmth, winter, mischief
- Make it whimsical and playful in tone
- If using invented words, ensure they are readable and pronounceable

SAFETY REQUIREMENTS (CRITICAL):
- NO political references
- NO religious references
- NO body part references
- NO suggestive content
- Must be family-friendly and appropriate for all ages

EXAMPLES:
- Sparkly Snowbell
- Twinkle Cocoa
- Jingles Peppermint
- Cozy Candlelight
- Merry Mittens

Generate ONE elf name that meets all requirements above. Return ONLY the name, nothing else.`,
		seed,
		hints.AdjectiveStyle,
		hints.NounStyle,
		hints.Twist,
	)
}
