package report

import "fmt"

// Rank is a taxonomic level as encoded in a classification report.
type Rank uint8

const (
	RankOther Rank = iota
	RankUnclassified
	RankRoot
	RankDomain
	RankKingdom
	RankPhylum
	RankClass
	RankOrder
	RankFamily
	RankGenus
	RankSpecies
)

var rankLetters = map[byte]Rank{
	'U': RankUnclassified,
	'R': RankRoot,
	'D': RankDomain,
	'K': RankKingdom,
	'P': RankPhylum,
	'C': RankClass,
	'O': RankOrder,
	'F': RankFamily,
	'G': RankGenus,
	'S': RankSpecies,
}

var rankNames = map[Rank]string{
	RankOther:        "other",
	RankUnclassified: "unclassified",
	RankRoot:         "root",
	RankDomain:       "domain",
	RankKingdom:      "kingdom",
	RankPhylum:       "phylum",
	RankClass:        "class",
	RankOrder:        "order",
	RankFamily:       "family",
	RankGenus:        "genus",
	RankSpecies:      "species",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "other"
}

// ParseRank interprets a report rank code. Codes are one letter optionally
// followed by up to two digits marking a sub-level (R1, G2, S1), or the
// literal "-" used by some report flavors for untyped clades. Letters
// outside the standard set map to RankOther; a code of the wrong shape is
// an error.
func ParseRank(code string) (Rank, error) {
	if code == "-" {
		return RankOther, nil
	}
	if len(code) < 1 || len(code) > 3 {
		return RankOther, fmt.Errorf("rank code %q: wrong length", code)
	}
	c := code[0]
	if c < 'A' || c > 'Z' {
		return RankOther, fmt.Errorf("rank code %q: must start with an uppercase letter", code)
	}
	for i := 1; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return RankOther, fmt.Errorf("rank code %q: sub-level must be numeric", code)
		}
	}
	if r, ok := rankLetters[c]; ok {
		return r, nil
	}
	return RankOther, nil
}

// IsSubLevel reports whether the code names a sub-level (e.g. G1) rather
// than a primary rank letter. Sub-levels never participate in rank-letter
// selection.
func IsSubLevel(code string) bool {
	return len(code) > 1
}
