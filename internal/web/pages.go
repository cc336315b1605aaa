package web

import (
	"html/template"
	"strings"
	"time"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/topics"
)

type topicLink struct {
	topics.Topic
	Count int
}

type formGroup struct {
	Title  string
	Topics []topicLink
}

type indexPage struct {
	Forms   []formGroup
	Updated time.Time
}

type option struct {
	Letter  string
	Body    template.HTML
	Correct bool
}

type item struct {
	Number      int
	ID          string
	Body        template.HTML
	Diagram     template.URL
	Options     []option
	Answer      string
	Explanation template.HTML
}

type worksheetPage struct {
	Topic   topics.Topic
	Items   []item
	Answers bool
}

// renderItem converts a question to escaped, math-rendered fragments.
func renderItem(n int, q bank.Question) item {
	it := item{
		Number:      n,
		ID:          q.ID,
		Body:        template.HTML(mathtext.HTML(q.Text)),
		Answer:      string(bank.OptionLetter(q.Correct)),
		Explanation: template.HTML(mathtext.HTML(q.Explanation)),
	}
	if safeDiagram(q.Diagram) {
		it.Diagram = template.URL(q.Diagram)
	}
	for i, o := range q.Options {
		it.Options = append(it.Options, option{
			Letter:  string(bank.OptionLetter(i)),
			Body:    template.HTML(mathtext.HTML(o)),
			Correct: i == q.Correct,
		})
	}
	return it
}

// safeDiagram accepts http(s) links and inline image data URIs.
func safeDiagram(src string) bool {
	return strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "data:image/")
}

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
}).Parse(pageTemplates))

const pageTemplates = `
{{define "head"}}<!doctype html>
<html lang="en"><head><meta charset="utf-8">
<title>{{.}} | SPM Add Maths</title>
<link rel="stylesheet" href="/style.css"></head><body>{{end}}

{{define "index"}}{{template "head" "Topics"}}
<h1>SPM Additional Mathematics</h1>
<p class="muted">Updated: {{date .Updated}}</p>
{{range .Forms}}<h2>{{.Title}}</h2>
<ul>{{range .Topics}}<li><a href="/topics/{{.ID}}">{{.Name}}</a> <span class="muted">{{.Description}} &middot; {{.Count}} questions</span></li>{{end}}</ul>
{{end}}
<h2>Downloads</h2>
<ul>
<li><a href="/export/template.csv">CSV template</a></li>
<li><a href="/export/questions.csv">All questions (CSV)</a></li>
<li><a href="/export/backup.json">Backup (JSON)</a></li>
</ul>
</body></html>{{end}}

{{define "worksheet"}}{{template "head" .Topic.Name}}
<p><a href="/">&larr; Topics</a></p>
<h1>{{.Topic.Name}}</h1>
{{if .Answers}}<p><a href="?">Hide answers</a></p>{{else}}<p><a href="?answers=1">Show answers</a></p>{{end}}
{{if not .Items}}<p class="muted">No questions available for this topic yet.</p>{{end}}
<ol class="worksheet">{{range .Items}}
<li id="{{.ID}}"><div class="math-content">{{.Body}}</div>
{{if .Diagram}}<img class="diagram" src="{{.Diagram}}" alt="Diagram for question {{.Number}}">{{end}}
<ol class="options">{{range .Options}}<li{{if and $.Answers .Correct}} class="correct"{{end}}><b>{{.Letter}}.</b> {{.Body}}</li>{{end}}</ol>
{{if $.Answers}}<div class="explanation"><b>Answer: {{.Answer}}</b><div class="math-content">{{.Explanation}}</div></div>{{end}}
</li>{{end}}
</ol>
</body></html>{{end}}
`

const pageCSS = `body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
.muted { color: #666; }
.worksheet > li { margin-bottom: 1.5rem; }
.options { list-style: none; padding-left: 1rem; }
.options .correct { color: #15803d; font-weight: 600; }
.explanation { background: #eff6ff; border-left: 3px solid #3b82f6; padding: .5rem .75rem; margin-top: .5rem; }
.diagram { max-width: 100%; margin: .5rem 0; }
`
