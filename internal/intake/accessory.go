package intake

import "strings"

// scanAccessories walks the accessory row bands of each configured column
// pair. A label containing one of the accessory keywords opens a block; the
// rows below it are read within a bounded lookahead window until an empty
// label terminates the block. An accessory without a confirmed serial is
// dropped: an un-serialized peripheral is not a trackable asset.
func (e *Extractor) scanAccessories(g Grid) []AccessoryCandidate {
	out := []AccessoryCandidate{}
	for _, pair := range e.tpl.AccessoryPairs {
		for r := e.tpl.AccessoryFirstRow; r <= e.tpl.AccessoryLastRow; r++ {
			label := strings.ToUpper(strings.TrimSpace(g.Cell(r, pair.LabelCol)))
			kw := e.matchKeyword(label)
			if kw == "" {
				continue
			}
			if acc, ok := e.readBlock(g, pair, r, kw); ok {
				out = append(out, acc)
			}
		}
	}
	return out
}

func (e *Extractor) matchKeyword(label string) string {
	for _, kw := range e.tpl.AccessoryKeywords {
		if strings.Contains(label, kw) {
			return kw
		}
	}
	return ""
}

func (e *Extractor) readBlock(g Grid, pair ColumnPair, head int, kind string) (AccessoryCandidate, bool) {
	acc := AccessoryCandidate{Type: kind, Brand: "GENERICO"}

	for r := head + 1; r <= head+e.tpl.AccessoryLookahead; r++ {
		label := strings.ToUpper(strings.TrimSpace(g.Cell(r, pair.LabelCol)))
		if label == "" {
			break
		}
		value := strings.TrimSpace(g.Cell(r, pair.ValueCol))

		switch {
		case strings.Contains(label, "MARCA"):
			if value != "" {
				acc.Brand = strings.ToUpper(value)
			}
		case strings.Contains(label, "REFERENCIA"):
			acc.Reference = value
		case strings.Contains(label, "SERIE") && !e.excludedSerialLabel(label):
			acc.Serial = NormalizeSerial(value)
		}
	}

	if acc.Serial == "" {
		return AccessoryCandidate{}, false
	}
	return acc, true
}

func (e *Extractor) excludedSerialLabel(label string) bool {
	for _, term := range e.tpl.SerialExclusions {
		if strings.Contains(label, term) {
			return true
		}
	}
	return false
}
