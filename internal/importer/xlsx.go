package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads questions from the first sheet of an Excel workbook using
// the same columns as the CSV format. The first row is a header.
func ParseXLSX(r io.Reader, stamp time.Time) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	res := newResult()
	for i := 1; i < len(rows); i++ {
		cells := make([]string, len(rows[i]))
		blank := true
		for j, c := range rows[i] {
			cells[j] = strings.TrimSpace(c)
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		// GetRows drops trailing empty cells; a row that reaches the
		// correct column has its blank explanation restored.
		if len(cells) == MinFields-1 {
			cells = append(cells, "")
		}
		res.add(cells, stamp, i)
	}
	return res, nil
}
