package intake

// CellRef addresses a single cell.
type CellRef struct {
	Row int
	Col int
}

// ColumnPair is one label/value column pairing used by the accessory scan.
// Two pairs let two accessories be described side by side per row band.
type ColumnPair struct {
	LabelCol int
	ValueCol int
}

// Template describes the fixed layout of an intake form: where labels and
// values sit and which row bands to scan. The ranges and keyword sets are
// empirically derived from sampled forms, so they are configuration rather
// than constants baked into the scanning code.
type Template struct {
	// Principal equipment block.
	LabelCol int
	ValueCol int
	FirstRow int
	LastRow  int

	// Cells inspected for checkbox-style equipment type markers.
	TypeRow  int
	TypeCols []int

	// Probed in order when the label scan produced no serial.
	SerialFallbacks []CellRef

	// Accessory blocks.
	AccessoryPairs     []ColumnPair
	AccessoryFirstRow  int
	AccessoryLastRow   int
	AccessoryLookahead int

	// Labels containing any keyword open an accessory block; the keyword
	// becomes the accessory type.
	AccessoryKeywords []string

	// A sub-label containing "SERIE" is ignored when it also contains one
	// of these terms (the shipping rows of the form mention the word too).
	SerialExclusions []string
}

// DefaultTemplate returns the layout of the standard intake form: labels in
// column B with values in column C, principal block in rows 5-35, accessory
// blocks in rows 10-45 across the B/C and E/F column pairs.
func DefaultTemplate() Template {
	return Template{
		LabelCol: 2,
		ValueCol: 3,
		FirstRow: 5,
		LastRow:  35,

		TypeRow:  8,
		TypeCols: []int{2, 3, 4},

		SerialFallbacks: []CellRef{{Row: 33, Col: 3}, {Row: 36, Col: 3}},

		AccessoryPairs:     []ColumnPair{{LabelCol: 2, ValueCol: 3}, {LabelCol: 5, ValueCol: 6}},
		AccessoryFirstRow:  10,
		AccessoryLastRow:   45,
		AccessoryLookahead: 6,

		AccessoryKeywords: []string{
			"TECLADO", "MOUSE", "MONITOR", "LECTOR", "UPS", "BASE", "CAMARA", "TARJETA",
		},
		SerialExclusions: []string{"RECIB", "ENVI"},
	}
}
