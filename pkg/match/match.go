// Package match implements record linkage between two family graphs: a
// strict pairwise scorer, a relaxed fallback scorer, and a three-phase
// greedy matcher (direct, relationship propagation, relaxed remainder).
//
// Scoring is pure and never fails; missing fields are simply absent
// evidence. Matching iterates both graphs in insertion order, and that
// order is load-bearing: the greedy acceptance in all three phases means
// different orders can produce different (equally defensible) match sets.
package match

import (
	"fmt"
	"sort"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

// Confidence buckets a numeric match score into a coarse review tier.
type Confidence string

// Confidence tiers, strongest first.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns the string representation of a Confidence.
func (c Confidence) String() string {
	return string(c)
}

// rank orders tiers for sorting: high before medium before low.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// ConfidenceForScore maps a score in [0,100] to a tier:
// >= 85 high, >= 55 medium, else low.
func ConfidenceForScore(score int) Confidence {
	switch {
	case score >= 85:
		return ConfidenceHigh
	case score >= 55:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Reason is a qualitative tag explaining why a pair scored.
type Reason string

// Reason tags attached by the scorers.
const (
	ReasonExactMatch             Reason = "exact_match"
	ReasonFirstNameMatch         Reason = "first_name_match"
	ReasonNameGenderBirthYear    Reason = "name_gender_birthyear"
	ReasonParentMatch            Reason = "parent_match"
	ReasonPartnerMatch           Reason = "partner_match"
	ReasonRelationshipSimilarity Reason = "relationship_similarity"
)

// Match is a candidate identity correspondence between one existing person
// and one incoming person. The full person records are referenced for
// convenient inspection during review.
type Match struct {
	ExistingID string
	IncomingID string
	Existing   *gentree.Person
	Incoming   *gentree.Person

	Confidence Confidence
	Score      int // 0..100
	Reasons    []Reason
	Conflicts  []FieldConflict
}

// String returns a short human-readable description of the match.
func (m Match) String() string {
	return fmt.Sprintf("%s <-> %s (%s, score %d)",
		m.ExistingID, m.IncomingID, m.Confidence, m.Score)
}

// sortMatches orders matches by confidence tier (high, medium, low) then by
// score descending. The sort is stable so phase acceptance order breaks ties.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].Confidence.rank(), matches[j].Confidence.rank()
		if ri != rj {
			return ri < rj
		}
		return matches[i].Score > matches[j].Score
	})
}
