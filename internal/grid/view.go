package grid

import (
	"strconv"

	"peeler.dev/peeler/internal/domain"
)

// ToView serializes g into the wire format spec §6 describes: a
// bounding box, an offset->letter mapping, and the ordered placed-word
// list. Offsets are relative to the bounding box's min corner.
func (g *Grid) ToView() domain.GridView {
	minRow, minCol, maxRow, maxCol := g.Bounds()
	cells := make(map[string]string, len(g.cells))
	for c, l := range g.cells {
		key := strconv.Itoa(c.Row-minRow) + "," + strconv.Itoa(c.Col-minCol)
		cells[key] = l.String()
	}
	words := make([]domain.PlacedWordView, len(g.placedWords))
	for i, pw := range g.placedWords {
		words[i] = domain.PlacedWordView{
			Word:      pw.Word.String(),
			Row:       pw.Start.Row - minRow,
			Col:       pw.Start.Col - minCol,
			Direction: pw.Direction.String(),
		}
	}
	return domain.GridView{
		Bounds: domain.Bounds{
			MinRow: 0,
			MinCol: 0,
			MaxRow: maxRow - minRow,
			MaxCol: maxCol - minCol,
		},
		Cells:       cells,
		PlacedWords: words,
		LetterCount: g.LetterCount(),
	}
}
