// Package intake turns a loosely structured spreadsheet intake form into a
// best-effort set of asset attributes plus its attached accessories.
//
// Extraction never fails: a non-conforming sheet degrades to a mostly empty
// result. A caller tells a confident extraction from a best-effort one by
// whether the serial came out non-empty.
package intake

// Grid is a rectangular array of textual cell values addressed by
// (row, column), both 1-based so coordinates read like spreadsheet
// addresses (column 1 = A). Reads outside the sheet return "".
type Grid interface {
	Cell(row, col int) string
}

// MemoryGrid is a Grid backed by a row-major slice of rows. Row 1 maps to
// index 0. Rows may be ragged.
type MemoryGrid [][]string

// Cell implements Grid.
func (g MemoryGrid) Cell(row, col int) string {
	if row < 1 || row > len(g) {
		return ""
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}
