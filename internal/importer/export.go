package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/topics"
)

// Header is the column header row of the question CSV format.
var Header = []string{
	"topicId", "question", "optionA", "optionB", "optionC", "optionD",
	"correct", "explanation", "diagram",
}

var templateRows = [][]string{
	{
		"form4-quadratic-equations",
		"Find the roots of $x^2 - 5x + 6 = 0$",
		"x = 1, x = 6", "x = 2, x = 3", "x = -2, x = -3", "x = -1, x = -6",
		"1",
		"Factorise: $(x - 2)(x - 3) = 0$",
		"",
	},
	{
		"form5-integration",
		"Evaluate $\\int_{0}^{2} 3x^2 dx$",
		"6", "8", "12", "24",
		"1",
		"$[x^3]_{0}^{2} = 8$",
		"",
	},
}

// WriteTemplate writes a CSV template with the header and example rows.
// correct is the 0-based index of the right option.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	if err := cw.WriteAll(templateRows); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// WriteCSV exports every question in set in the import format. Catalog
// topics come first in syllabus order, then any other topics by ID.
//
// The format is lossy: line breaks collapse to spaces and double quotes
// become single quotes, since the importer treats quotes as delimiters.
// Use the JSON backup for an exact copy.
func WriteCSV(w io.Writer, set bank.Set) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, topicID := range TopicOrder(set) {
		for _, q := range set[topicID] {
			row := []string{topicID, flatten(q.Text)}
			for _, o := range q.Options {
				row = append(row, flatten(o))
			}
			row = append(row, strconv.Itoa(q.Correct), flatten(q.Explanation), q.Diagram)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write question %s: %w", q.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// TopicOrder returns the topic IDs present in set, catalog topics first.
func TopicOrder(set bank.Set) []string {
	var order []string
	seen := map[string]bool{}
	for _, t := range topics.All() {
		if _, ok := set[t.ID]; ok {
			order = append(order, t.ID)
			seen[t.ID] = true
		}
	}
	var rest []string
	for id := range set {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

// flatten keeps a field on one line with no double quotes, the two things
// the line-oriented importer cannot carry.
func flatten(s string) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(s), " "), `"`, "'")
}

// TemplateFileName is the suggested name for the CSV template download.
const TemplateFileName = "question_template.csv"

// ExportFileName is the suggested name for a full CSV export made at now.
func ExportFileName(now time.Time) string {
	return "questions_" + now.Format("20060102") + ".csv"
}
