package intake

import (
	"strings"

	"asset-inventory-api/internal/model"
)

// DefaultType is the placeholder equipment type used when no classification
// rule matches.
const DefaultType = "EQUIPO"

// AccessoryCandidate is one peripheral recovered from an accessory block.
// The JSON shape doubles as the wire format of the opaque accessory payload
// passed from the extraction endpoint to the creation endpoint.
type AccessoryCandidate struct {
	Type      string `json:"type"`
	Brand     string `json:"brand"`
	Serial    string `json:"serial"`
	Reference string `json:"reference,omitempty"`
}

// ExtractionResult holds the best-effort field values recovered from one
// intake form. Empty string means the field was absent or unreadable. The
// result is transient: it is returned to the caller and never persisted.
type ExtractionResult struct {
	Type        string               `json:"type"`
	Brand       string               `json:"brand,omitempty"`
	Model       string               `json:"model,omitempty"`
	Reference   string               `json:"reference,omitempty"`
	Serial      string               `json:"serial,omitempty"`
	Hostname    string               `json:"hostname,omitempty"`
	IP          string               `json:"ip,omitempty"`
	MAC         string               `json:"mac,omitempty"`
	Custodian   string               `json:"custodian,omitempty"`
	State       string               `json:"state"`
	Accessories []AccessoryCandidate `json:"accessories"`
}

// Extractor scans a grid according to a Template.
type Extractor struct {
	tpl Template
}

// NewExtractor builds an Extractor for the given layout.
func NewExtractor(tpl Template) *Extractor {
	return &Extractor{tpl: tpl}
}

// Extract recovers asset attributes and accessory candidates from the grid.
// It never fails; missing or malformed cells leave fields at their defaults.
func (e *Extractor) Extract(g Grid) ExtractionResult {
	res := ExtractionResult{
		Type:        DefaultType,
		State:       model.StateGood,
		Accessories: []AccessoryCandidate{},
	}

	res.Type = e.classifyType(g)
	e.scanFields(g, &res)

	if res.Serial == "" {
		for _, ref := range e.tpl.SerialFallbacks {
			if s := NormalizeSerial(g.Cell(ref.Row, ref.Col)); s != "" {
				res.Serial = s
				break
			}
		}
	}

	res.Accessories = e.scanAccessories(g)
	return res
}

// scanState carries the per-row scan context so that rules needing the grid
// (the wrapped-name quirk) can reach beyond their own value cell.
type scanState struct {
	grid Grid
	tpl  Template
	row  int
	res  *ExtractionResult
}

// fieldRule pairs a label predicate with a field assignment. Rules are
// applied in a single pass over the row band; every matching rule fires and
// later rows overwrite earlier ones for the same field.
type fieldRule struct {
	match func(label string) bool
	apply func(s *scanState, value string)
}

func labelHas(sub string) func(string) bool {
	return func(label string) bool { return strings.Contains(label, sub) }
}

var fieldRules = []fieldRule{
	{labelHas("NOMBRE EQUIPO"), func(s *scanState, v string) { s.res.Hostname = v }},
	{labelHas("MARCA"), func(s *scanState, v string) { s.res.Brand = strings.ToUpper(v) }},
	{labelHas("MODELO"), func(s *scanState, v string) { s.res.Model = v }},
	{labelHas("REFERENCIA"), func(s *scanState, v string) { s.res.Reference = v }},
	{
		func(label string) bool {
			return strings.Contains(label, "SERIAL") || strings.Contains(label, "SERIE")
		},
		func(s *scanState, v string) { s.res.Serial = NormalizeSerial(v) },
	},
	{
		// "TIPO" and "DESCRIPCION" also contain the letters IP.
		func(label string) bool {
			return strings.Contains(label, "IP") &&
				!strings.Contains(label, "TIPO") &&
				!strings.Contains(label, "DESCRIP")
		},
		func(s *scanState, v string) { s.res.IP = v },
	},
	{labelHas("MAC"), func(s *scanState, v string) { s.res.MAC = NormalizeMAC(v) }},
	{labelHas("USUARIO:"), func(s *scanState, v string) { s.res.Custodian = v }},
	{labelHas("RESPONSABLE"), func(s *scanState, v string) {
		// The name sometimes wraps onto the following row's label cell,
		// leaving only a fragment next to the RESPONSABLE label.
		if len([]rune(v)) < 4 {
			v = strings.TrimSpace(s.grid.Cell(s.row+1, s.tpl.LabelCol))
		}
		if v != "" {
			s.res.Custodian = v
		}
	}},
}

func (e *Extractor) scanFields(g Grid, res *ExtractionResult) {
	s := &scanState{grid: g, tpl: e.tpl, res: res}
	for r := e.tpl.FirstRow; r <= e.tpl.LastRow; r++ {
		label := strings.ToUpper(strings.TrimSpace(g.Cell(r, e.tpl.LabelCol)))
		if label == "" {
			continue
		}
		value := strings.TrimSpace(g.Cell(r, e.tpl.ValueCol))
		s.row = r
		for _, rule := range fieldRules {
			if rule.match(label) {
				rule.apply(s, value)
			}
		}
	}
}

// classifyType inspects the type header cells for checkbox-style markers.
// Rules run in fixed priority order and the first match wins: a marked
// laptop beats a marked desktop, which beats everything below; a CPU marker
// beats an explicit category value, which beats a marked all-in-one.
func (e *Extractor) classifyType(g Grid) string {
	cells := make([]string, 0, len(e.tpl.TypeCols))
	for _, c := range e.tpl.TypeCols {
		cells = append(cells, strings.ToUpper(g.Cell(e.tpl.TypeRow, c)))
	}

	switch {
	case markedCategory(cells, "PORTATIL"):
		return "PORTATIL"
	case markedCategory(cells, "ESCRITORIO"):
		return "COMPUTADOR"
	case markedCategory(cells, "CPU"):
		return "COMPUTADOR"
	case explicitCategory(cells, "TABLET"):
		return "TABLET"
	case explicitCategory(cells, "PORTATIL"):
		return "PORTATIL"
	case markedCategory(cells, "TODO EN UNO"):
		return "TODO EN UNO"
	}
	return DefaultType
}

// isMarked reports whether a cell carries a checkbox-style marking: an
// underscored _X_, a bare X, or a spaced X inside longer text.
func isMarked(cell string) bool {
	if strings.Contains(cell, "_X_") {
		return true
	}
	if strings.TrimSpace(cell) == "X" {
		return true
	}
	return strings.Contains(cell, " X ")
}

// markedCategory reports whether the category word appears with a marking,
// either inside the same cell or as a bare X in the adjacent cell.
func markedCategory(cells []string, word string) bool {
	for i, c := range cells {
		if !strings.Contains(c, word) {
			continue
		}
		if isMarked(c) {
			return true
		}
		if i+1 < len(cells) && isMarked(cells[i+1]) {
			return true
		}
	}
	return false
}

// explicitCategory reports whether some cell holds the category word as its
// whole value rather than as a marked checkbox label.
func explicitCategory(cells []string, word string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) == word {
			return true
		}
	}
	return false
}
