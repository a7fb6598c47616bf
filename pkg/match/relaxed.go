package match

import (
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/similarity"
)

// ScoreRelaxed is the fallback scorer for persons the strict ladder could
// not pair. It still requires matching gender, then walks a fixed
// priority-ordered ladder combining name shape with birth-year proximity.
// Scores range from 25 to 55; the first satisfied rule wins. A pair
// satisfying no rule scores 0.
func ScoreRelaxed(existing, incoming *gentree.Person) int {
	if !existing.Gender.Matches(incoming.Gender) {
		return 0
	}

	first := similarity.MatchFirstNames(existing.FirstName, incoming.FirstName)
	last := similarity.CompareLastNames(existing.LastName, incoming.LastName)
	firstSim := similarity.Ratio(existing.FirstName, incoming.FirstName)
	lastSim := last.Similarity

	exactYear := similarity.YearsMatch(existing.BirthDate, incoming.BirthDate)
	within := func(tolerance int) bool {
		return similarity.YearsClose(existing.BirthDate, incoming.BirthDate, tolerance)
	}
	exactDate := similarity.DatesMatch(existing.BirthDate, incoming.BirthDate)

	switch {
	case first.FirstWord && last.Similar && exactYear:
		return 55
	case first.AnyWord && last.Similar && within(5):
		return 52
	case first.Exact && exactYear:
		return 45
	case first.AnyWord && last.Similar && exactYear:
		return 48
	case first.FirstWord && exactYear:
		return 42
	case first.AnyWord && exactYear:
		return 40
	case first.Exact && within(3):
		return 35
	case first.FirstWord && within(3):
		return 33
	case first.AnyWord && within(5):
		return 32
	case firstSim >= 0.8 && exactDate:
		return 40
	case lastSim >= 0.85 && exactYear:
		return 32
	case (firstSim >= 0.5 || lastSim >= 0.5) && exactYear:
		return 30
	case within(5) && first.AnyWord:
		return 28
	case within(1) && (firstSim >= 0.4 || lastSim >= 0.6):
		return 25
	default:
		return 0
	}
}
