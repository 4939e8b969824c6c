// Package text provides small helpers shared by the AI summarization
// providers, so character counting and prompt truncation behave the same
// regardless of backend.
package text

// promptMaxBytes bounds the text sent to a summarization API. Claude accepts
// far more, but keeping both providers at the same limit keeps summaries
// comparable across backends.
const promptMaxBytes = 10000

// CountRunes counts Unicode characters in the given text. Summary limits are
// expressed in characters, not bytes; Japanese text would otherwise be
// counted three times over.
func CountRunes(text string) int {
	return len([]rune(text))
}

// TruncateForPrompt caps text at the shared prompt size, appending a note in
// Japanese when content was cut. Returns the (possibly truncated) text and
// whether truncation happened.
func TruncateForPrompt(text string) (string, bool) {
	if len(text) <= promptMaxBytes {
		return text, false
	}
	// Cut on a rune boundary so a multi-byte character is never split.
	cut := promptMaxBytes
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "...\n(内容が長いため切り詰めました)", true
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
