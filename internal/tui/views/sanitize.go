package views

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// sanitizeForTerminal prepares arbitrary user text (names, bios, book
// titles, chat messages) for rendering inside tview widgets. Two classes
// of input break the display otherwise:
//   - Unicode codepoints that confuse tcell's width calculation: skin
//     tone modifiers (U+1F3FB..U+1F3FF), Zero Width Joiner (U+200D) and
//     variation selectors, all common in multi-codepoint emoji. These
//     are dropped.
//   - Square-bracket sequences that tview would parse as style tags
//     (a bio containing "[red]" would recolor the rest of the view).
//     These are escaped so they print literally.
//
// Control characters other than newline are dropped as well; newlines
// survive because chat messages may be multi-line.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return tview.Escape(b.String())
}

func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	case r < 0x20 && r != '\n':
		return true
	default:
		return false
	}
}
