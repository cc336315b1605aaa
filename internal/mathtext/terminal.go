package mathtext

import (
	"strings"
	"unicode"
)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'n': 'ⁿ', 'i': 'ⁱ', 'x': 'ˣ', 'y': 'ʸ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'n': 'ₙ', 'r': 'ᵣ', 'x': 'ₓ',
}

// Terminal renders question text for a character terminal. Delimiters are
// removed, exponents and subscripts use Unicode glyphs where they exist and
// fractions are written a/b. Display math is put on its own line.
func Terminal(text string) string {
	var b strings.Builder
	for _, sp := range split(text) {
		switch {
		case !sp.math:
			b.WriteString(sp.text)
		case sp.display:
			out := b.String()
			if out != "" && !strings.HasSuffix(out, "\n") {
				b.WriteString("\n")
			}
			b.WriteString(ExprText(sp.text))
			b.WriteString("\n")
		default:
			b.WriteString(ExprText(sp.text))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ExprText converts the body of a single math expression to plain text.
func ExprText(latex string) string {
	s := latex

	s = reSquare.ReplaceAllString(s, "²")
	s = reCube.ReplaceAllString(s, "³")
	s = reSupDigit.ReplaceAllStringFunc(s, func(m string) string {
		return mapRunes(m[1:], superscripts, "^")
	})
	s = reSupGroup.ReplaceAllStringFunc(s, func(m string) string {
		return mapRunes(reSupGroup.FindStringSubmatch(m)[1], superscripts, "^")
	})

	s = reSubDigit.ReplaceAllStringFunc(s, func(m string) string {
		return mapRunes(m[1:], subscripts, "_")
	})
	s = reSubGroup.ReplaceAllStringFunc(s, func(m string) string {
		return mapRunes(reSubGroup.FindStringSubmatch(m)[1], subscripts, "_")
	})

	s = reFrac.ReplaceAllStringFunc(s, func(m string) string {
		parts := reFrac.FindStringSubmatch(m)
		return group(parts[1]) + "/" + group(parts[2])
	})

	s = reSqrtGroup.ReplaceAllString(s, "√($1)")

	return replaceSymbols(s)
}

// mapRunes converts every rune of s through table. If any rune has no
// mapping, s is returned unchanged behind marker, parenthesised when
// longer than one rune.
func mapRunes(s string, table map[rune]rune, marker string) string {
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			if len([]rune(s)) > 1 {
				return marker + "(" + s + ")"
			}
			return marker + s
		}
		b.WriteRune(m)
	}
	return b.String()
}

// group wraps s in parentheses unless it is a single number or identifier.
func group(s string) string {
	if len([]rune(s)) <= 1 {
		return s
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			return "(" + s + ")"
		}
	}
	return s
}
