package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/addmath/internal/backup"
	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/importer"
)

// CleanPath trims the quotes terminals add to dropped files and expands
// a leading ~/.
func CleanPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, rest)
		}
	}
	return p
}

// ImportFile loads a CSV or XLSX file into b, appending unless replace is
// set, and returns a status line for the user.
func ImportFile(ctx context.Context, b *bank.Bank, path string, replace bool, now time.Time) (string, error) {
	res, err := importer.ParseFile(path, now)
	if err != nil {
		return "", err
	}
	if res.Imported == 0 {
		return "", fmt.Errorf("no questions found in %s", filepath.Base(path))
	}

	if replace {
		err = b.Replace(ctx, res.Questions, bank.SourceImport)
	} else {
		err = b.Merge(ctx, res.Questions, bank.SourceImport)
	}
	if err != nil {
		return "", err
	}

	status := fmt.Sprintf("Imported %d questions", res.Imported)
	if res.Skipped > 0 {
		status += fmt.Sprintf(", skipped %d rows", res.Skipped)
	}
	if len(res.UnknownTopics) > 0 {
		status += fmt.Sprintf(" (unknown topics: %s)", strings.Join(res.UnknownTopics, ", "))
	}
	return status, nil
}

// RestoreBackup replaces the bank with the questions in a JSON backup.
func RestoreBackup(ctx context.Context, b *bank.Bank, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	doc, err := backup.Read(f)
	if err != nil {
		return "", err
	}
	if err := b.Replace(ctx, doc.Questions, bank.SourceRestore); err != nil {
		return "", err
	}
	return fmt.Sprintf("Restored %d questions", doc.Questions.Total()), nil
}

// writeFile creates dir/name and fills it with write.
func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}

// ExportTemplate writes the sample CSV into dir.
func ExportTemplate(dir string) (string, error) {
	path, err := writeFile(dir, importer.TemplateFileName, importer.WriteTemplate)
	if err != nil {
		return "", err
	}
	return "Template saved to " + path, nil
}

// ExportCSV writes every question in set into a dated CSV in dir.
func ExportCSV(dir string, set bank.Set, now time.Time) (string, error) {
	path, err := writeFile(dir, importer.ExportFileName(now), func(w io.Writer) error {
		return importer.WriteCSV(w, set)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Exported %d questions to %s", set.Total(), path), nil
}

// ExportBackup writes set as a dated JSON backup in dir.
func ExportBackup(dir string, set bank.Set, now time.Time) (string, error) {
	path, err := writeFile(dir, backup.FileName(now), func(w io.Writer) error {
		return backup.Write(w, set, now)
	})
	if err != nil {
		return "", err
	}
	return "Backup saved to " + path, nil
}
