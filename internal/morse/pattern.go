// internal/morse/pattern.go
package morse

// Glyphs of the two-element pulse alphabet.
const (
	// GlyphDot marks a short pulse in a pattern string.
	GlyphDot = '.'
	// GlyphDash marks a long pulse in a pattern string.
	GlyphDash = '-'
)

// patterns maps each transmissible character to its glyph string.
// Colors are keyed by their leading letter; digits use standard Morse.
// The mapping must stay a bijection: reverse lookup during decoding relies
// on no two characters sharing a pattern.
var patterns = map[byte]string{
	'R': ".-.",
	'G': "--.",
	'B': "-...",
	'0': "-----",
	'1': ".----",
	'2': "..---",
	'3': "...--",
	'4': "....-",
	'5': ".....",
	'6': "-....",
	'7': "--...",
	'8': "---..",
	'9': "----.",
}

// charByPattern is the inverse of patterns, built once at init.
var charByPattern = func() map[string]byte {
	inv := make(map[string]byte, len(patterns))
	for c, p := range patterns {
		inv[p] = c
	}
	return inv
}()

// Pattern returns the glyph string for a transmissible character.
func Pattern(c byte) (string, bool) {
	p, ok := patterns[c]
	return p, ok
}

// CharForPattern resolves a glyph string back to its character.
// Only exact pattern matches resolve; there is no nearest-match fallback.
func CharForPattern(glyphs string) (byte, bool) {
	c, ok := charByPattern[glyphs]
	return c, ok
}

// PatternChars returns every character the pattern table covers.
func PatternChars() []byte {
	chars := make([]byte, 0, len(patterns))
	for c := range patterns {
		chars = append(chars, c)
	}
	return chars
}
