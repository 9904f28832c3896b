package grid

import (
	"crypto/sha256"
	"sort"
	"strconv"
	"strings"

	"peeler.dev/peeler/internal/domain"
)

// dihedralTransforms are the 8 symmetries of the square: 4 rotations, and
// their mirror images. Each maps (row, col) to a transformed (row, col);
// direction flips whenever a transform swaps the two axes.
var dihedralTransforms = []func(r, c int) (int, int){
	func(r, c int) (int, int) { return r, c },
	func(r, c int) (int, int) { return c, -r },
	func(r, c int) (int, int) { return -r, -c },
	func(r, c int) (int, int) { return -c, r },
	func(r, c int) (int, int) { return r, -c },
	func(r, c int) (int, int) { return -r, c },
	func(r, c int) (int, int) { return c, r },
	func(r, c int) (int, int) { return -c, -r },
}

// transformSwapsAxes reports whether applying transform i to a
// Horizontal-running word yields a Vertical-running word.
func transformSwapsAxes(i int) bool { return i == 1 || i == 3 || i == 6 || i == 7 }

// SnapshotKey returns a canonical hash of g's placed words (spec §3, §4.2
// snapshot_key). Under TranslationOnly, two grids key equal iff they
// place the same words at the same relative offsets. Under Dihedral8,
// they additionally key equal under any of the square's 8 symmetries.
func (g *Grid) SnapshotKey(canon domain.Canonicalization) []byte {
	transforms := dihedralTransforms[:1]
	if canon == domain.Dihedral8 {
		transforms = dihedralTransforms
	}

	best := ""
	for i, tf := range transforms {
		repr := canonicalRepr(g.placedWords, tf, transformSwapsAxes(i) && canon == domain.Dihedral8)
		if best == "" || repr < best {
			best = repr
		}
	}
	sum := sha256.Sum256([]byte(best))
	return sum[:]
}

func canonicalRepr(words []domain.PlacedWord, tf func(r, c int) (int, int), swapAxes bool) string {
	type entry struct {
		row, col int
		dir      domain.Direction
		word     string
	}
	entries := make([]entry, len(words))
	minRow, minCol := 0, 0
	for i, pw := range words {
		r, c := tf(pw.Start.Row, pw.Start.Col)
		d := pw.Direction
		if swapAxes {
			d = d.Perpendicular()
		}
		entries[i] = entry{row: r, col: c, dir: d, word: pw.Word.String()}
		if i == 0 || r < minRow {
			minRow = r
		}
		if i == 0 || c < minCol {
			minCol = c
		}
	}
	for i := range entries {
		entries[i].row -= minRow
		entries[i].col -= minCol
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].row != entries[j].row {
			return entries[i].row < entries[j].row
		}
		if entries[i].col != entries[j].col {
			return entries[i].col < entries[j].col
		}
		if entries[i].dir != entries[j].dir {
			return entries[i].dir < entries[j].dir
		}
		return entries[i].word < entries[j].word
	})

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strconv.Itoa(e.row))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(e.col))
		b.WriteByte(',')
		b.WriteString(e.dir.String())
		b.WriteByte(',')
		b.WriteString(e.word)
		b.WriteByte(';')
	}
	return b.String()
}
