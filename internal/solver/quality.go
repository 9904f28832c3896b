package solver

// quality is the lexicographic comparison key spec §4.4 defines for
// ranking partial solutions: more letters placed wins; among ties,
// fewer words used wins; among ties, a tighter bounding box wins.
type quality struct {
	placed    int
	wordsUsed int
	area      int
}

// better reports whether q is strictly preferable to other.
func (q quality) better(other quality) bool {
	if q.placed != other.placed {
		return q.placed > other.placed
	}
	if q.wordsUsed != other.wordsUsed {
		return q.wordsUsed < other.wordsUsed
	}
	return q.area < other.area
}
