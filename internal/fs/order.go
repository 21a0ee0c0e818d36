package fs

import (
	"sort"
	"strings"
	"unicode"

	"github.com/maruel/natural"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/unicode/norm"
)

// pinyinArgs produces plain syllables without tone marks
var pinyinArgs = pinyin.NewArgs()

// SortKey folds a display name into the key siblings are ordered by.
// Han characters become their pinyin syllable, everything else is upper-cased.
func SortKey(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			if py := pinyin.SinglePinyin(r, pinyinArgs); len(py) > 0 {
				b.WriteString(py[0])
				continue
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Compare orders two sibling names. Numeric runs compare by value,
// so "Track 2" sorts before "Track 10". The result is a total order:
// names that fold to the same key fall back to their raw bytes.
func Compare(a, b string) int {
	return compareKeys(SortKey(a), SortKey(b), a, b)
}

func compareKeys(ka, kb, a, b string) int {
	if ka != kb {
		switch {
		case natural.Less(ka, kb):
			return -1
		case natural.Less(kb, ka):
			return 1
		}
		if c := strings.Compare(ka, kb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

// SortNames sorts names in place
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Compare(names[i], names[j]) < 0
	})
}

// SortEntries sorts directory entries by name
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i].Name, entries[j].Name) < 0
	})
}
