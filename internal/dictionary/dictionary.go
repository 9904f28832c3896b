package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"peeler.dev/peeler/internal/domain"
)

// Dictionary is a trie over letters, built once and never mutated after
// Build returns (spec §3, §9: "process-wide read-only state").
type Dictionary struct {
	root      *node
	wordCount int
}

// Build constructs a Dictionary from word-list lines: one uppercase word
// per line, blank lines ignored, ASCII A-Z only (spec §6). Malformed
// input fails construction rather than silently skipping bad lines, per
// spec §7 ("Dictionary malformed: surfaced at build time").
func Build(lines io.Reader) (*Dictionary, error) {
	d := &Dictionary{root: newNode()}
	scanner := bufio.NewScanner(lines)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		word, err := validateWord(raw)
		if err != nil {
			return nil, fmt.Errorf("dictionary line %d: %w", lineNo, err)
		}
		if len(word) < 2 || d.Contains(word) {
			continue
		}
		d.root.insert(word)
		d.wordCount++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return d, nil
}

func validateWord(raw string) (domain.Word, error) {
	w := make(domain.Word, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch < 'A' || ch > 'Z' {
			return nil, fmt.Errorf("non-letter character %q in %q", ch, raw)
		}
		w[i] = domain.Letter(ch)
	}
	return w, nil
}

// WordCount returns how many distinct words were loaded.
func (d *Dictionary) WordCount() int { return d.wordCount }

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word domain.Word) bool {
	n := d.root.walk(word)
	return n != nil && n.terminal
}

// IsPrefix reports whether some dictionary word begins with s.
func (d *Dictionary) IsPrefix(s domain.Word) bool {
	if len(s) == 0 {
		return true
	}
	return d.root.walk(s) != nil
}

// Continuations returns the set of letters c such that prefix+c is still
// a prefix of some dictionary word.
func (d *Dictionary) Continuations(prefix domain.Word) []domain.Letter {
	n := d.root.walk(prefix)
	if n == nil {
		return nil
	}
	out := make([]domain.Letter, 0, 26)
	for i, child := range n.children {
		if child != nil {
			out = append(out, domain.LetterFromIndex(i))
		}
	}
	return out
}

// WordsFrom enumerates every dictionary word whose letter multiset is a
// sub-multiset of hand and which, if requireLetter is non-nil, contains
// that letter at least once. Order: descending length, then ascending
// lexicographic (spec §4.1). The DFS decrements the letter budget on
// descent and restores it on return, pruning a branch as soon as the
// required letter can no longer be reached.
//
// The search returns a finalized slice rather than a lazy iter.Seq: every
// caller in this engine (seed ordering, anchor candidate ordering) needs
// the full result sorted before it can make a decision, so laziness would
// only defer work that has to happen before the first value is useful.
func (d *Dictionary) WordsFrom(hand domain.Multiset, requireLetter *domain.Letter) []domain.Word {
	var found []domain.Word
	budget := hand
	path := make(domain.Word, 0, 16)

	var requireIdx int = -1
	if requireLetter != nil {
		requireIdx = requireLetter.Index()
	}

	var dfs func(n *node, pathHasRequired bool)
	dfs = func(n *node, pathHasRequired bool) {
		if n.terminal && len(path) >= 2 {
			if requireIdx < 0 || pathHasRequired {
				w := make(domain.Word, len(path))
				copy(w, path)
				found = append(found, w)
			}
		}
		for i := 0; i < 26; i++ {
			child := n.children[i]
			if child == nil || budget[i] <= 0 {
				continue
			}
			nowHasRequired := pathHasRequired || i == requireIdx
			// Prune: if the required letter is neither already on the
			// path nor still available in the remaining budget, this
			// branch (and everything below it) can never satisfy the
			// constraint.
			if requireIdx >= 0 && !nowHasRequired && budget[requireIdx] <= 0 {
				continue
			}
			budget[i]--
			path = append(path, domain.LetterFromIndex(i))
			dfs(child, nowHasRequired)
			path = path[:len(path)-1]
			budget[i]++
		}
	}
	if requireIdx >= 0 && hand[requireIdx] <= 0 {
		return nil
	}
	dfs(d.root, false)

	sort.SliceStable(found, func(i, j int) bool {
		if len(found[i]) != len(found[j]) {
			return len(found[i]) > len(found[j])
		}
		return found[i].String() < found[j].String()
	})
	return found
}
