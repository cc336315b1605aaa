package importer

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseFile parses a .csv or .xlsx question file chosen by extension.
func ParseFile(path string, stamp time.Time) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return ParseCSV(string(b), stamp), nil
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ParseXLSX(f, stamp)
	default:
		return nil, fmt.Errorf("unsupported question file %q: want .csv or .xlsx", filepath.Base(path))
	}
}

// DataURI reads an image file and encodes it as a data URI suitable for a
// question's diagram field.
func DataURI(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(b)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mediaType)
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// Diagram normalizes a diagram field value: http(s) URLs and data URIs are
// kept, anything else is read as an image file.
func Diagram(v string) (string, error) {
	for _, p := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(v, p) {
			return v, nil
		}
	}
	return DataURI(v)
}
