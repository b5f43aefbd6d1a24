package intake

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// GridFromXLSX loads the first worksheet of an uploaded workbook into a
// Grid. Only the cell text matters here; formulas are read as their cached
// values.
func GridFromXLSX(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return MemoryGrid(rows), nil
}
