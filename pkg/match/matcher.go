package match

import (
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
)

// usedSet tracks which person ids each side has already committed to a
// match. It is explicit state threaded through the phases so each phase
// stays a pure function of its inputs.
type usedSet struct {
	existing map[string]bool
	incoming map[string]bool
}

func newUsedSet() *usedSet {
	return &usedSet{
		existing: make(map[string]bool),
		incoming: make(map[string]bool),
	}
}

func (u *usedSet) take(existingID, incomingID string) {
	u.existing[existingID] = true
	u.incoming[incomingID] = true
}

// Find runs the full three-phase matcher over two graphs and returns all
// accepted matches sorted by confidence tier then score descending.
//
// Phase 1 pairs persons directly with the strict scorer. Phase 2 propagates
// from confident phase-1 matches to the matched persons' partners, children,
// and parents. Phase 3 sweeps the remainder with the relaxed scorer. Both
// graphs are iterated in insertion order throughout; the greedy acceptance
// makes the result deterministic for a fixed pair of graphs.
func Find(existing, incoming *gentree.Tree) []Match {
	used := newUsedSet()

	matches := phaseDirect(existing, incoming, used)
	matches = append(matches, phasePropagate(existing, incoming, matches, used)...)
	matches = append(matches, phaseRemainder(existing, incoming, used)...)

	sortMatches(matches)

	logging.Debug().
		Int("matches", len(matches)).
		Int("existing_persons", existing.PersonCount()).
		Int("incoming_persons", incoming.PersonCount()).
		Msg("matching complete")

	return matches
}

// phaseDirect scores every unused incoming person against every unused
// existing person and greedily accepts the best candidate at or above the
// direct threshold. Placeholders never participate. On ties the earliest
// existing person in insertion order wins.
func phaseDirect(existing, incoming *gentree.Tree, used *usedSet) []Match {
	var matches []Match
	for _, in := range incoming.Persons() {
		if in.Placeholder || used.incoming[in.ID] {
			continue
		}

		var best *gentree.Person
		bestScore := 0
		var bestReasons []Reason
		for _, ex := range existing.Persons() {
			if ex.Placeholder || used.existing[ex.ID] {
				continue
			}
			score, reasons := ScoreStrict(ex, in, existing, incoming)
			if score < directThreshold {
				continue
			}
			if score > bestScore {
				best, bestScore, bestReasons = ex, score, reasons
			}
		}

		if best == nil {
			continue
		}
		used.take(best.ID, in.ID)
		matches = append(matches, newMatch(best, in, bestScore, bestReasons))
	}
	return matches
}

// relationKind identifies which relation list propagation is walking.
type relationKind int

const (
	relationPartner relationKind = iota
	relationChild
	relationParent
)

func (k relationKind) boost() int {
	switch k {
	case relationPartner:
		return partnerBoost
	case relationChild:
		return childBoost
	default:
		return parentBoost
	}
}

// phasePropagate derives further matches from the relationship context of
// confident anchor matches: for each anchor whose confidence is not low, it
// examines the matched persons' partners, children, and parents. Per
// relation kind it accepts only the first qualifying relative pair in
// relation-list order, then moves on to the next kind.
func phasePropagate(existing, incoming *gentree.Tree, anchors []Match, used *usedSet) []Match {
	var matches []Match
	for _, anchor := range anchors {
		if anchor.Confidence == ConfidenceLow {
			continue
		}

		for _, kind := range []relationKind{relationPartner, relationChild, relationParent} {
			existingRelatives := relativesOf(existing, anchor.Existing, kind)
			incomingRelatives := relativesOf(incoming, anchor.Incoming, kind)

			if m, ok := propagateRelation(existing, incoming, existingRelatives, incomingRelatives, kind, used); ok {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

// propagateRelation scores unused relative pairs of one kind and accepts
// the first whose boosted score clears the propagation threshold or whose
// base score alone clears the base floor.
func propagateRelation(existing, incoming *gentree.Tree, existingRelatives, incomingRelatives []*gentree.Person, kind relationKind, used *usedSet) (Match, bool) {
	for _, in := range incomingRelatives {
		if in.Placeholder || used.incoming[in.ID] {
			continue
		}
		for _, ex := range existingRelatives {
			if ex.Placeholder || used.existing[ex.ID] {
				continue
			}
			if kind == relationParent && !ex.Gender.Matches(in.Gender) {
				continue
			}

			base, reasons := ScoreStrict(ex, in, existing, incoming)
			boosted := base + kind.boost()
			if boosted > maxScore {
				boosted = maxScore
			}
			if boosted < propagateThreshold && base < propagateBaseFloor {
				continue
			}

			used.take(ex.ID, in.ID)
			return newMatch(ex, in, boosted, reasons), true
		}
	}
	return Match{}, false
}

// phaseRemainder sweeps still-unused incoming persons with the relaxed
// scorer, accepting the best candidate at or above the remainder threshold.
func phaseRemainder(existing, incoming *gentree.Tree, used *usedSet) []Match {
	var matches []Match
	for _, in := range incoming.Persons() {
		if in.Placeholder || used.incoming[in.ID] {
			continue
		}

		var best *gentree.Person
		bestScore := 0
		for _, ex := range existing.Persons() {
			if ex.Placeholder || used.existing[ex.ID] {
				continue
			}
			score := ScoreRelaxed(ex, in)
			if score < remainderThreshold {
				continue
			}
			if score > bestScore {
				best, bestScore = ex, score
			}
		}

		if best == nil {
			continue
		}
		used.take(best.ID, in.ID)
		matches = append(matches, newMatch(best, in, bestScore, nil))
	}
	return matches
}

// relativesOf returns one relation list of a person, resolved against its
// tree in relation-list order.
func relativesOf(tree *gentree.Tree, p *gentree.Person, kind relationKind) []*gentree.Person {
	switch kind {
	case relationPartner:
		return tree.PartnersOf(p)
	case relationChild:
		return tree.ChildrenOf(p)
	default:
		return tree.ParentsOf(p)
	}
}

func newMatch(existing, incoming *gentree.Person, score int, reasons []Reason) Match {
	return Match{
		ExistingID: existing.ID,
		IncomingID: incoming.ID,
		Existing:   existing,
		Incoming:   incoming,
		Confidence: ConfidenceForScore(score),
		Score:      score,
		Reasons:    reasons,
		Conflicts:  DetectConflicts(existing, incoming),
	}
}
