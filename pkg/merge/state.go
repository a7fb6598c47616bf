// Package merge holds the review state between matching and execution: the
// two graph snapshots, the current match set, reviewer decisions, conflict
// resolutions, incremental re-analysis, the id mapping derivation, and the
// transactional merge executor with its backup store.
package merge

import (
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
	"github.com/ACiDekCZ/strom-sub000/pkg/match"
)

// Phase tags the lifecycle of a merge state.
type Phase string

// Merge state phases, in lifecycle order.
const (
	PhaseAnalyzing Phase = "analyzing"
	PhaseReviewing Phase = "reviewing"
	PhaseExecuting Phase = "executing"
	PhaseComplete  Phase = "complete"
)

// DecisionKind is a reviewer's verdict on one incoming person.
type DecisionKind string

// Reviewer decisions.
const (
	// DecisionConfirm accepts the proposed match.
	DecisionConfirm DecisionKind = "confirm"
	// DecisionReject refuses the proposed match; the incoming person is
	// added as a new record instead.
	DecisionReject DecisionKind = "reject"
	// DecisionManual matches the incoming person to a reviewer-chosen
	// existing person.
	DecisionManual DecisionKind = "manual"
)

// Decision is one reviewer decision. TargetID is set only for manual
// matches.
type Decision struct {
	Kind     DecisionKind `yaml:"kind"`
	TargetID string       `yaml:"targetId,omitempty"`
}

// State aggregates everything the reviewer and executor need: two read-only
// graph snapshots, the current match list, complement sets of unmatched
// ids, decisions, and per-person conflict lists.
//
// A State is created once from two graphs, mutated only through the
// decision/conflict updaters and Reanalyze, and consumed exactly once by
// the executor. It is not safe for concurrent use.
type State struct {
	existing *gentree.Tree
	incoming *gentree.Tree

	matches           []match.Match
	unmatchedExisting []string
	unmatchedIncoming []string

	decisions map[string]Decision              // keyed by incoming person id
	conflicts map[string][]match.FieldConflict // keyed by incoming person id

	phase   Phase
	version int
}

// NewState snapshots both graphs, runs the full matcher, and returns a
// state ready for review. The caller's trees are deep copied; later
// mutations of them do not affect the state.
func NewState(existing, incoming *gentree.Tree) *State {
	s := &State{
		existing:  existing.Copy(),
		incoming:  incoming.Copy(),
		decisions: make(map[string]Decision),
		conflicts: make(map[string][]match.FieldConflict),
		phase:     PhaseAnalyzing,
	}

	s.matches = match.Find(s.existing, s.incoming)
	for _, m := range s.matches {
		s.conflicts[m.IncomingID] = m.Conflicts
	}
	s.recomputeUnmatched(nil)
	s.phase = PhaseReviewing

	logging.Debug().
		Int("matches", len(s.matches)).
		Int("unmatched_incoming", len(s.unmatchedIncoming)).
		Msg("merge state created")

	return s
}

// Existing returns the existing-graph snapshot. Callers must not mutate it.
func (s *State) Existing() *gentree.Tree { return s.existing }

// Incoming returns the incoming-graph snapshot. Callers must not mutate it.
func (s *State) Incoming() *gentree.Tree { return s.incoming }

// Matches returns the current match list.
func (s *State) Matches() []match.Match { return s.matches }

// UnmatchedExisting returns ids of existing persons not covered by any match.
func (s *State) UnmatchedExisting() []string { return s.unmatchedExisting }

// UnmatchedIncoming returns ids of incoming persons not covered by any
// match, excluding placeholders and rejected persons.
func (s *State) UnmatchedIncoming() []string { return s.unmatchedIncoming }

// Phase returns the state's lifecycle phase.
func (s *State) Phase() Phase { return s.phase }

// Version returns the state's mutation counter. Every successful update
// bumps it, so callers can detect concurrent review edits.
func (s *State) Version() int { return s.version }

// Decision returns the reviewer decision for an incoming person id.
func (s *State) Decision(incomingID string) (Decision, bool) {
	d, ok := s.decisions[incomingID]
	return d, ok
}

// Conflicts returns the (possibly edited) conflict list for an incoming
// person id.
func (s *State) Conflicts(incomingID string) []match.FieldConflict {
	return s.conflicts[incomingID]
}

// UpdateDecision records a reviewer decision for an incoming person.
// Unknown ids are a silent no-op.
func (s *State) UpdateDecision(incomingID string, decision Decision) {
	if _, ok := s.incoming.Person(incomingID); !ok {
		return
	}
	s.decisions[incomingID] = decision
	s.version++
}

// UpdateConflictResolution sets the resolution (and, for manual
// resolutions, the resolved value) of one field conflict of an incoming
// person. Unknown ids and fields without a recorded conflict are silent
// no-ops.
func (s *State) UpdateConflictResolution(incomingID string, field match.Field, resolution match.Resolution, resolvedValue string) {
	conflicts, ok := s.conflicts[incomingID]
	if !ok {
		return
	}
	for i := range conflicts {
		if conflicts[i].Field != field {
			continue
		}
		conflicts[i].Resolution = resolution
		conflicts[i].ResolvedValue = resolvedValue
		s.version++
		return
	}
}

// Stats summarizes a state for display.
type Stats struct {
	Total            int // incoming persons
	Matched          int
	HighConfidence   int
	MediumConfidence int
	LowConfidence    int
	Unmatched        int
	WithConflicts    int
}

// Stats computes summary counts over the current state.
func (s *State) Stats() Stats {
	st := Stats{
		Total:     s.incoming.PersonCount(),
		Matched:   len(s.matches),
		Unmatched: len(s.unmatchedIncoming),
	}
	for _, m := range s.matches {
		switch m.Confidence {
		case match.ConfidenceHigh:
			st.HighConfidence++
		case match.ConfidenceMedium:
			st.MediumConfidence++
		case match.ConfidenceLow:
			st.LowConfidence++
		}
		if len(s.conflicts[m.IncomingID]) > 0 {
			st.WithConflicts++
		}
	}
	return st
}

// Reanalyze re-runs the matcher while honoring reviewer decisions made so
// far: rejected incoming persons are excluded from re-matching, manual and
// confirmed matches are kept verbatim, and freshly found matches that
// collide with kept ids are dropped.
func (s *State) Reanalyze() {
	s.phase = PhaseAnalyzing
	s.version++

	rejected := make(map[string]bool)
	kept := make(map[string]bool) // ids already committed, both sides
	var manualMatches, confirmedMatches []match.Match

	for incomingID, decision := range s.decisions {
		switch decision.Kind {
		case DecisionReject:
			rejected[incomingID] = true
		case DecisionManual:
			kept[incomingID] = true
			kept[decision.TargetID] = true
		}
	}

	// Kept matches are collected by walking the match list, not the
	// decision map, so their order stays stable across runs.
	for _, m := range s.matches {
		decision, ok := s.decisions[m.IncomingID]
		if !ok {
			continue
		}
		switch decision.Kind {
		case DecisionManual:
			manualMatches = append(manualMatches, m)
			kept[m.ExistingID] = true
		case DecisionConfirm:
			confirmedMatches = append(confirmedMatches, m)
			kept[m.IncomingID] = true
			kept[m.ExistingID] = true
		}
	}

	// Full re-run over the original snapshots, then drop collisions.
	var filtered []match.Match
	for _, m := range match.Find(s.existing, s.incoming) {
		if kept[m.ExistingID] || kept[m.IncomingID] || rejected[m.IncomingID] {
			continue
		}
		filtered = append(filtered, m)
	}

	// Combine manual > confirmed > auto, deduplicated by incoming id.
	seen := make(map[string]bool)
	combined := make([]match.Match, 0, len(manualMatches)+len(confirmedMatches)+len(filtered))
	for _, group := range [][]match.Match{manualMatches, confirmedMatches, filtered} {
		for _, m := range group {
			if seen[m.IncomingID] {
				continue
			}
			seen[m.IncomingID] = true
			combined = append(combined, m)
		}
	}
	s.matches = combined

	// Keep reviewer-edited conflict lists for surviving matches; detect
	// fresh ones for new matches.
	conflicts := make(map[string][]match.FieldConflict, len(combined))
	for _, m := range combined {
		if edited, ok := s.conflicts[m.IncomingID]; ok {
			conflicts[m.IncomingID] = edited
		} else {
			conflicts[m.IncomingID] = m.Conflicts
		}
	}
	s.conflicts = conflicts

	s.recomputeUnmatched(rejected)
	s.phase = PhaseReviewing
}

// recomputeUnmatched derives the complement sets from the current match
// list. Unmatched incoming additionally excludes placeholders and any
// explicitly rejected ids.
func (s *State) recomputeUnmatched(rejected map[string]bool) {
	matchedExisting := make(map[string]bool, len(s.matches))
	matchedIncoming := make(map[string]bool, len(s.matches))
	for _, m := range s.matches {
		matchedExisting[m.ExistingID] = true
		matchedIncoming[m.IncomingID] = true
	}

	s.unmatchedExisting = s.unmatchedExisting[:0]
	for _, p := range s.existing.Persons() {
		if !matchedExisting[p.ID] {
			s.unmatchedExisting = append(s.unmatchedExisting, p.ID)
		}
	}

	s.unmatchedIncoming = s.unmatchedIncoming[:0]
	for _, p := range s.incoming.Persons() {
		if matchedIncoming[p.ID] || p.Placeholder || rejected[p.ID] {
			continue
		}
		s.unmatchedIncoming = append(s.unmatchedIncoming, p.ID)
	}
}
