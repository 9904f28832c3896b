package domain

// TileDistribution is the standard Bananagrams tile-frequency table: 26
// entries summing to 144. Immutable process-wide constant (spec §9).
var TileDistribution = [26]int{
	13, 3, 3, 6, 18, 3, // A B C D E F
	4, 3, 12, 2, 2, 5, // G H I J K L
	3, 8, 11, 3, 2, 9, // M N O P Q R
	6, 9, 6, 3, 3, 2, // S T U V W X
	3, 2, // Y Z
}

// LetterDifficulty is the fixed per-letter priority rank used by the
// ordering heuristics: rarer letters (Q, X, Z, J) rank higher, vowels
// rank lowest. Scored the way the reference tile-tuning table does:
// Scrabble point value tempered by how often a letter strands in play.
var LetterDifficulty = [26]int{
	0, 3, 3, 2, 0, 4, // A B C D E F
	2, 3, 0, 8, 5, 1, // G H I J K L
	3, 1, 0, 3, 10, 1, // M N O P Q R
	1, 1, 0, 5, 4, 9, // S T U V W X
	3, 9, // Y Z
}

// Difficulty returns the fixed priority rank for l.
func (l Letter) Difficulty() int { return LetterDifficulty[l.Index()] }

// WordDifficulty sums the per-letter difficulty of every letter in word.
func WordDifficulty(word Word) int {
	total := 0
	for _, l := range word {
		total += l.Difficulty()
	}
	return total
}

// qWithoutUWords are the dictionary words that let a lone Q (no U in hand)
// still be played. Kept as a closed set rather than a dictionary scan
// because it is the same fixed list a Bananagrams rules sheet gives.
var qWithoutUWords = []string{
	"QI", "QOPH", "QADI", "QAID", "QANAT", "QAT", "QINTAR",
	"QINDAR", "QWERTY", "TRANQ", "SHEQEL", "QOPHS",
	"QADIS", "QAIDS", "QANATS", "QATS", "QINTARS", "QINDARS",
}

// QWithoutUWords returns the closed set of words that can use a bare Q.
func QWithoutUWords() []string {
	out := make([]string, len(qWithoutUWords))
	copy(out, qWithoutUWords)
	return out
}
