package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacements maps typographic characters to their ASCII equivalents.
var replacements = strings.NewReplacer(
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2012", "-", // figure dash
	"\u2212", "-", // minus sign
	"\u2018", "'",
	"\u2019", "'",
	"\u201a", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u201e", `"`,
	"\u2022", "*", // bullet
	"\u2122", "(TM)",
	"\u00ae", "(R)",
	"\u00a9", "(c)",
	"\u00a0", " ", // no-break space
	"\u2026", "...",
)

// Clean normalizes raw extracted text into a single line in which every
// whitespace run is one space.
func Clean(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = asciiOnly(text)
		}
	}()

	s := replacements.Replace(strings.ToValidUTF8(text, ""))

	folded, _, err := transform.String(foldChain(), s)
	if err != nil {
		return asciiOnly(text)
	}

	return collapse(stripControl(folded))
}

// foldChain decomposes characters and drops combining marks, so "é" becomes
// "e". A transform.Chain is stateful and must not be shared.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// stripControl removes runes below 0x20 except newline and tab, along with
// DEL and the replacement character.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		if r == 0x7f || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
}

// collapse replaces every whitespace run with a single space and trims.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// asciiOnly drops every non-ASCII byte and control character.
func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			continue
		}
		if c < 32 && c != '\n' && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return collapse(b.String())
}
