package match

import (
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/similarity"
)

// Score thresholds used by the matcher phases.
const (
	directThreshold    = 35 // phase 1: minimum strict score to accept
	propagateThreshold = 30 // phase 2: minimum boosted score to accept
	propagateBaseFloor = 25 // phase 2: base score that accepts regardless of boost
	remainderThreshold = 25 // phase 3: minimum relaxed score to accept
	maxScore           = 100
)

// Relation bonuses applied during propagation.
const (
	partnerBoost = 20
	childBoost   = 15
	parentBoost  = 15
)

// ScoreStrict scores an existing/incoming person pair with the strict
// evidence ladder, returning a score in [0,100] and the reason tags that
// fired. Differing genders score 0 with no reasons, unconditionally.
//
// Name evidence is priority-ordered: the first satisfied rule wins and no
// later name rule is consulted. A pair whose names satisfy no rule scores 0
// regardless of dates or relationships. Date, place, and relationship
// evidence is then additive on top of the surviving name score.
func ScoreStrict(existing, incoming *gentree.Person, existingTree, incomingTree *gentree.Tree) (int, []Reason) {
	if !existing.Gender.Matches(incoming.Gender) {
		return 0, nil
	}

	var reasons []Reason
	addReason := func(r Reason) {
		for _, have := range reasons {
			if have == r {
				return
			}
		}
		reasons = append(reasons, r)
	}

	first := similarity.MatchFirstNames(existing.FirstName, incoming.FirstName)
	last := similarity.CompareLastNames(existing.LastName, incoming.LastName)
	full := similarity.Ratio(existing.FullName(), incoming.FullName())
	firstSim := similarity.Ratio(existing.FirstName, incoming.FirstName)

	score := 0
	switch {
	case full >= 0.95:
		score += 40
		addReason(ReasonExactMatch)
	case full >= 0.85:
		score += 32
	case full >= 0.7:
		score += 22
	case first.FirstWord && last.Similar:
		score += 28
		addReason(ReasonFirstNameMatch)
	case first.AnyWord && last.Similar:
		score += 26
	case first.Exact && last.Similarity >= 0.5:
		score += 18
	case first.FirstWord && last.Similarity >= 0.5:
		score += 16
	case first.AnyWord && last.Similarity >= 0.5:
		score += 14
	case firstSim >= 0.85 && last.Similarity >= 0.6:
		score += 15
	case first.Exact || first.FirstWord:
		score += 10
	case first.AnyWord:
		score += 8
	case first.Prefix && last.Similar:
		score += 12
	default:
		// Names too dissimilar to continue.
		return 0, nil
	}

	switch {
	case similarity.DatesMatch(existing.BirthDate, incoming.BirthDate):
		score += 35
		addReason(ReasonExactMatch)
	case similarity.YearsMatch(existing.BirthDate, incoming.BirthDate):
		score += 22
		addReason(ReasonNameGenderBirthYear)
	case similarity.YearsClose(existing.BirthDate, incoming.BirthDate, 2):
		score += 12
	}

	switch {
	case similarity.DatesMatch(existing.DeathDate, incoming.DeathDate):
		score += 12
	case similarity.YearsMatch(existing.DeathDate, incoming.DeathDate):
		score += 6
	}

	// Note: Ratio treats two empty places as identical, so a pair with no
	// recorded birth place still collects the full place bonus.
	switch placeSim := similarity.Ratio(existing.BirthPlace, incoming.BirthPlace); {
	case placeSim >= 0.9:
		score += 12
	case placeSim >= 0.7:
		score += 6
	}

	if bonus := parentBonus(existing, incoming, existingTree, incomingTree); bonus > 0 {
		score += bonus
		addReason(ReasonParentMatch)
	}

	if bonus := partnerBonus(existing, incoming, existingTree, incomingTree); bonus > 0 {
		score += bonus
		addReason(ReasonPartnerMatch)
	}

	if score >= 30 && len(reasons) == 0 {
		addReason(ReasonRelationshipSimilarity)
	}

	if score > maxScore {
		score = maxScore
	}
	return score, reasons
}

// parentBonus counts existing-parent/incoming-parent pairs of matching
// gender whose first names are near-identical and last names compatible.
// Two or more matching parents are worth 18, exactly one is worth 10.
func parentBonus(existing, incoming *gentree.Person, existingTree, incomingTree *gentree.Tree) int {
	existingParents := existingTree.ParentsOf(existing)
	incomingParents := incomingTree.ParentsOf(incoming)

	matching := 0
	for _, ep := range existingParents {
		for _, ip := range incomingParents {
			if !ep.Gender.Matches(ip.Gender) {
				continue
			}
			if ep.FirstName == "" || ip.FirstName == "" {
				continue
			}
			firstSim := similarity.Ratio(ep.FirstName, ip.FirstName)
			lastSim := similarity.CompareLastNames(ep.LastName, ip.LastName).Similarity
			if firstSim >= 0.85 && (lastSim >= 0.7 || firstSim >= 0.95) {
				matching++
			}
		}
	}

	switch {
	case matching >= 2:
		return 18
	case matching == 1:
		return 10
	default:
		return 0
	}
}

// partnerBonus returns the best bonus over all existing-partner/incoming-
// partner pairs of matching gender with near-identical first names: 8 base,
// 12 when last names also closely agree, plus 5 when the partners' birth
// years match. Pairs are not summed; the maximum wins.
func partnerBonus(existing, incoming *gentree.Person, existingTree, incomingTree *gentree.Tree) int {
	best := 0
	for _, ep := range existingTree.PartnersOf(existing) {
		for _, ip := range incomingTree.PartnersOf(incoming) {
			if !ep.Gender.Matches(ip.Gender) {
				continue
			}
			if ep.FirstName == "" || ip.FirstName == "" {
				continue
			}
			if similarity.Ratio(ep.FirstName, ip.FirstName) < 0.85 {
				continue
			}

			bonus := 8
			if similarity.CompareLastNames(ep.LastName, ip.LastName).Similarity >= 0.85 {
				bonus = 12
			}
			if similarity.YearsMatch(ep.BirthDate, ip.BirthDate) {
				bonus += 5
			}
			if bonus > best {
				best = bonus
			}
		}
	}
	return best
}
