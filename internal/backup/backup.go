// Package backup writes and restores full JSON backups of the question bank.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/addmath/internal/bank"
)

// FormatVersion is the semantic version of the backup format written by
// this build. Backups with the same major version can be restored.
const FormatVersion = "v1.0.0"

// ErrIncompatible is returned for backups written in an unsupported format.
var ErrIncompatible = errors.New("incompatible backup format")

// Document is the on-disk backup layout.
type Document struct {
	Format     string    `json:"format"`
	ExportedAt time.Time `json:"exported_at"`
	Questions  bank.Set  `json:"questions"`
}

// Write encodes set as an indented JSON backup.
func Write(w io.Writer, set bank.Set, now time.Time) error {
	doc := Document{
		Format:     FormatVersion,
		ExportedAt: now.UTC(),
		Questions:  set,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Read decodes a backup. A bare topic-to-questions object, as kept by the
// old browser cache, is accepted as a legacy backup. Every question must
// pass validation.
func Read(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}

	var doc Document
	if _, ok := probe["format"]; ok {
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode backup: %w", err)
		}
		if err := checkFormat(doc.Format); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(raw, &doc.Questions); err != nil {
			return nil, fmt.Errorf("decode legacy backup: %w", err)
		}
		doc.Format = "legacy"
	}

	if doc.Questions == nil {
		doc.Questions = bank.Set{}
	}
	for topic, qs := range doc.Questions {
		for i, q := range qs {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("backup question %s[%d] (%s): %w", topic, i, q.ID, err)
			}
		}
	}
	return &doc, nil
}

func checkFormat(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a version", ErrIncompatible, v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %s (this build reads %s.x)", ErrIncompatible, v, semver.Major(FormatVersion))
	}
	return nil
}

// FileName is the suggested name for a backup made at now.
func FileName(now time.Time) string {
	return "questions_backup_" + now.Format("20060102") + ".json"
}
