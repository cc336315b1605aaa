// Package importer converts question spreadsheets (CSV text or XLSX
// workbooks) into bank questions and writes the matching CSV formats back out.
//
// Columns, in order: topicId, question, optionA, optionB, optionC, optionD,
// correct, explanation and an optional diagram.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/topics"
)

// MinFields is the number of columns a row needs to become a question.
const MinFields = 8

// Result is the outcome of parsing a question file.
type Result struct {
	Questions bank.Set

	// Imported counts the questions produced.
	Imported int

	// Skipped counts non-blank rows dropped for having too few fields.
	Skipped int

	// Clamped counts rows whose correct index was outside 0-3 and reset to 0.
	Clamped int

	// UnknownTopics lists topic IDs that are not in the syllabus catalog,
	// in first-seen order. Their questions are kept.
	UnknownTopics []string
}

// ParseCSV parses question rows from CSV text. The first line is a header
// and is skipped. Parsing is best effort and never fails: malformed rows
// are dropped and unbalanced quotes are tolerated.
func ParseCSV(text string, stamp time.Time) *Result {
	res := newResult()
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		res.add(SplitFields(line), stamp, i)
	}
	return res
}

// SplitFields splits one CSV line on commas. A double quote toggles quoted
// mode, in which commas are literal; the quote characters themselves are
// dropped. Every field is trimmed.
func SplitFields(line string) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(parts, strings.TrimSpace(current.String()))
}

func newResult() *Result {
	return &Result{Questions: bank.Set{}}
}

// add converts one row of fields into a question. line is the row's index in
// the source and becomes part of the generated ID.
func (r *Result) add(fields []string, stamp time.Time, line int) {
	if len(fields) < MinFields {
		r.Skipped++
		return
	}

	topicID := trimQuotes(fields[0])
	q := bank.Question{
		ID:          fmt.Sprintf("q_%s_%d_%d", topicID, stamp.UnixMilli(), line),
		Text:        trimQuotes(fields[1]),
		Correct:     parseIndex(fields[6]),
		Explanation: trimQuotes(fields[7]),
	}
	for i := range bank.NumOptions {
		q.Options[i] = trimQuotes(fields[2+i])
	}
	if len(fields) > MinFields {
		q.Diagram = trimQuotes(fields[MinFields])
	}
	if q.Correct < 0 || q.Correct >= bank.NumOptions {
		q.Correct = 0
		r.Clamped++
	}

	if !topics.Exists(topicID) && !containsString(r.UnknownTopics, topicID) {
		r.UnknownTopics = append(r.UnknownTopics, topicID)
	}
	r.Questions[topicID] = append(r.Questions[topicID], q)
	r.Imported++
}

// parseIndex reads the leading integer of s. Anything unparseable is 0.
func parseIndex(s string) int {
	s = strings.TrimSpace(trimQuotes(s))
	neg := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
		digits++
		if digits > 9 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

// trimQuotes strips one leading and one trailing double quote.
func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
