package topics

import (
	"fmt"
	"strings"
)

// Form groups topics by the school year they are taught in.
type Form string

const (
	Form4 Form = "form4"
	Form5 Form = "form5"
)

// AllForms returns all forms in display order.
func AllForms() []Form {
	return []Form{Form4, Form5}
}

// FormDisplayName returns a human-readable name for a form.
func FormDisplayName(f Form) string {
	switch f {
	case Form4:
		return "Form 4 Topics"
	case Form5:
		return "Form 5 Topics"
	default:
		return string(f)
	}
}

// Topic is a syllabus topic that owns a list of questions.
type Topic struct {
	ID          string
	Name        string
	Description string
	Form        Form
}

var catalog = []Topic{
	{ID: "form4-functions", Name: "Functions", Description: "Composite functions, inverse functions", Form: Form4},
	{ID: "form4-quadratic-equations", Name: "Quadratic Equations", Description: "Solving, discriminant, roots", Form: Form4},
	{ID: "form4-quadratic-functions", Name: "Quadratic Functions", Description: "Graphs, max/min points", Form: Form4},
	{ID: "form4-indices-logarithms", Name: "Indices & Logarithms", Description: "Laws of indices", Form: Form4},
	{ID: "form5-progressions", Name: "Progressions", Description: "AP and GP", Form: Form5},
	{ID: "form5-integration", Name: "Integration", Description: "Definite and indefinite", Form: Form5},
	{ID: "form5-vectors", Name: "Vectors", Description: "Vector operations", Form: Form5},
	{ID: "form5-probability", Name: "Probability", Description: "Basic probability", Form: Form5},
}

var byID = func() map[string]Topic {
	m := make(map[string]Topic, len(catalog))
	for _, t := range catalog {
		m[t.ID] = t
	}
	return m
}()

// All returns every topic in display order.
func All() []Topic {
	out := make([]Topic, len(catalog))
	copy(out, catalog)
	return out
}

// ByForm returns the topics taught in form f, in display order.
func ByForm(f Form) []Topic {
	var out []Topic
	for _, t := range catalog {
		if t.Form == f {
			out = append(out, t)
		}
	}
	return out
}

// Get looks up a topic by ID.
func Get(id string) (Topic, error) {
	t, ok := byID[id]
	if !ok {
		return Topic{}, fmt.Errorf("topic %q not found", id)
	}
	return t, nil
}

// Exists reports whether id names a known topic.
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

// Name returns the display name for id, falling back to the raw ID for
// topics outside the catalog.
func Name(id string) string {
	if t, ok := byID[id]; ok {
		return t.Name
	}
	return id
}

// FormOf returns the form a topic belongs to. IDs outside the catalog are
// classified by their prefix.
func FormOf(id string) Form {
	if t, ok := byID[id]; ok {
		return t.Form
	}
	for _, f := range AllForms() {
		if strings.HasPrefix(id, string(f)+"-") {
			return f
		}
	}
	return ""
}
