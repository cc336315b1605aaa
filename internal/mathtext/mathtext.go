// Package mathtext renders the small LaTeX subset used in question text.
//
// Math is delimited by $...$ (inline) or $$...$$ (display). Inside a
// delimiter a fixed table of substitutions is applied once, in order:
// exponents, subscripts, one fraction form, square roots, Greek letters and
// operators. Any backslash left over is dropped. There is no nesting beyond
// one level of braces.
package mathtext

import (
	"regexp"
	"strings"
)

// span is a run of question text, either plain or a math expression.
type span struct {
	text    string
	math    bool
	display bool
}

// mathDelims matches display math before inline math at the same position,
// so $$x$$ is never consumed as two empty inline spans.
var mathDelims = regexp.MustCompile(`\$\$([^$]+)\$\$|\$([^$]+)\$`)

// split breaks text into plain and math spans.
func split(text string) []span {
	var spans []span
	last := 0
	for _, m := range mathDelims.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, span{text: text[last:m[0]]})
		}
		if m[2] >= 0 {
			spans = append(spans, span{text: text[m[2]:m[3]], math: true, display: true})
		} else {
			spans = append(spans, span{text: text[m[4]:m[5]], math: true})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, span{text: text[last:]})
	}
	return spans
}

// HasMath reports whether text contains any delimited math.
func HasMath(text string) bool {
	return mathDelims.MatchString(text)
}

// symbols maps LaTeX commands to their Unicode glyphs, applied in order.
var symbols = []struct {
	cmd, glyph string
}{
	// Greek letters
	{`\alpha`, "α"},
	{`\beta`, "β"},
	{`\gamma`, "γ"},
	{`\delta`, "δ"},
	{`\theta`, "θ"},
	{`\pi`, "π"},
	{`\sigma`, "σ"},
	{`\omega`, "ω"},

	// Operators
	{`\times`, "×"},
	{`\div`, "÷"},
	{`\pm`, "±"},
	{`\neq`, "≠"},
	{`\leq`, "≤"},
	{`\geq`, "≥"},
	{`\approx`, "≈"},
	{`\infty`, "∞"},
	{`\int`, "∫"},
	{`\sum`, "∑"},
}

var (
	reSquare    = regexp.MustCompile(`\^2`)
	reCube      = regexp.MustCompile(`\^3`)
	reSupDigit  = regexp.MustCompile(`\^(\d)`)
	reSupGroup  = regexp.MustCompile(`\^\{([^}]+)\}`)
	reSubDigit  = regexp.MustCompile(`_(\d)`)
	reSubGroup  = regexp.MustCompile(`_\{([^}]+)\}`)
	reFrac      = regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`)
	reSqrtGroup = regexp.MustCompile(`\\sqrt\{([^}]+)\}`)
)

// replaceSymbols applies the Greek letter and operator table and then drops
// any remaining backslashes.
func replaceSymbols(s string) string {
	s = strings.ReplaceAll(s, `\sqrt`, "√")
	for _, sym := range symbols {
		s = strings.ReplaceAll(s, sym.cmd, sym.glyph)
	}
	return strings.ReplaceAll(s, `\`, "")
}
