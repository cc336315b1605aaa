package mathtext

import (
	"html"
	"strings"
)

// HTML renders question text as an HTML fragment. Plain text is escaped;
// $...$ becomes <span class="latex-inline"> and $$...$$ becomes
// <div class="latex-display">.
func HTML(text string) string {
	var b strings.Builder
	for _, sp := range split(text) {
		switch {
		case !sp.math:
			b.WriteString(html.EscapeString(sp.text))
		case sp.display:
			b.WriteString(`<div class="latex-display">`)
			b.WriteString(ExprHTML(sp.text))
			b.WriteString(`</div>`)
		default:
			b.WriteString(`<span class="latex-inline">`)
			b.WriteString(ExprHTML(sp.text))
			b.WriteString(`</span>`)
		}
	}
	return b.String()
}

// ExprHTML converts the body of a single math expression to HTML.
func ExprHTML(latex string) string {
	s := html.EscapeString(latex)

	s = reSquare.ReplaceAllString(s, "²")
	s = reCube.ReplaceAllString(s, "³")
	s = reSupDigit.ReplaceAllString(s, "<sup>$1</sup>")
	s = reSupGroup.ReplaceAllString(s, "<sup>$1</sup>")

	s = reSubDigit.ReplaceAllString(s, "<sub>$1</sub>")
	s = reSubGroup.ReplaceAllString(s, "<sub>$1</sub>")

	s = reFrac.ReplaceAllString(s,
		`<span class="fraction"><span class="frac-num">$1</span><span class="frac-line"></span><span class="frac-den">$2</span></span>`)

	s = reSqrtGroup.ReplaceAllString(s, "√($1)")

	return replaceSymbols(s)
}

// Stylesheet is the CSS that lays out the fragments HTML produces.
const Stylesheet = `.math-content { font-size: 1.1em; }
.latex-inline { display: inline-block; margin: 0 2px; }
.latex-display { display: block; text-align: center; margin: 10px 0; font-size: 1.2em; }
.fraction { display: inline-flex; flex-direction: column; align-items: center; vertical-align: middle; margin: 0 3px; }
.frac-num { border-bottom: 1px solid currentColor; padding: 0 3px; }
.frac-den { padding: 0 3px; }
sup { font-size: 0.75em; vertical-align: super; }
sub { font-size: 0.75em; vertical-align: sub; }
`
