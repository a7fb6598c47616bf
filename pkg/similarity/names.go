package similarity

import "strings"

// FirstNameShape classifies how two first names relate, from strongest to
// weakest: exact normalized equality, equal first word, any shared word of
// length >= 2, or one normalized form being a prefix of the other.
type FirstNameShape struct {
	Exact     bool
	FirstWord bool
	AnyWord   bool
	Prefix    bool
}

// MatchFirstNames classifies first names a and b. Classification operates on
// normalized, whitespace-split tokens; empty names match nothing.
func MatchFirstNames(a, b string) FirstNameShape {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return FirstNameShape{}
	}

	shape := FirstNameShape{
		Exact:  na == nb,
		Prefix: strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na),
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)
	if len(wordsA) > 0 && len(wordsB) > 0 {
		shape.FirstWord = wordsA[0] == wordsB[0]
	}

	for _, wa := range wordsA {
		if len(wa) < 2 {
			continue
		}
		for _, wb := range wordsB {
			if wa == wb {
				shape.AnyWord = true
			}
		}
	}

	return shape
}

// LastNameShape reports whether two last names are exactly equal, loosely
// similar, and their raw similarity score.
type LastNameShape struct {
	Exact      bool
	Similar    bool
	Similarity float64
}

// CompareLastNames compares last names a and b. Similar means the similarity
// ratio is at least 0.7 or one normalized form is a prefix of the other.
func CompareLastNames(a, b string) LastNameShape {
	na, nb := Normalize(a), Normalize(b)
	shape := LastNameShape{Similarity: Ratio(a, b)}
	if na == "" || nb == "" {
		return shape
	}

	shape.Exact = na == nb
	shape.Similar = shape.Similarity >= 0.7 ||
		strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na)
	return shape
}
