package solver

import (
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/ports"
)

// DeadLetters returns the sub-multiset of hand made up of letters that
// appear in no word spellable from hand at all (spec §4.4). They are
// recomputed fresh on every call, never cached, since "spellable from
// hand" depends on the exact hand passed in. Exported so the swap
// analyzer can reuse it without duplicating the scan.
func DeadLetters(hand domain.Multiset, dict ports.Dictionary) domain.Multiset {
	var dead domain.Multiset
	for i, count := range hand {
		if count == 0 {
			continue
		}
		l := domain.LetterFromIndex(i)
		if len(dict.WordsFrom(hand, &l)) == 0 {
			dead[i] = count
		}
	}
	return dead
}
