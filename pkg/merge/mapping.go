package merge

import "github.com/google/uuid"

// IDMapping translates incoming record identifiers into final identifiers
// in the merged graph. Every incoming person and partnership id is covered.
type IDMapping struct {
	// Persons maps incoming person id -> final person id: an existing id
	// being reused, a manually chosen target, or a freshly generated id.
	Persons map[string]string

	// Partnerships maps incoming partnership id -> freshly generated id.
	// Partnerships are never identity-matched by id; equivalence is
	// detected by endpoint pair during execution.
	Partnerships map[string]string
}

// newID returns a fresh record identifier. Variable so tests can pin it.
var newID = uuid.NewString

// BuildMapping derives the id translation table from the finalized state:
// confirmed and undecided matches reuse the existing id, manual matches use
// the chosen target, rejected matches and unmatched persons get fresh ids,
// and every remaining incoming id (placeholders included) gets a fresh id.
func (s *State) BuildMapping() *IDMapping {
	mapping := &IDMapping{
		Persons:      make(map[string]string, s.incoming.PersonCount()),
		Partnerships: make(map[string]string, s.incoming.PartnershipCount()),
	}

	for _, m := range s.matches {
		decision, decided := s.decisions[m.IncomingID]
		switch {
		case !decided, decision.Kind == DecisionConfirm:
			mapping.Persons[m.IncomingID] = m.ExistingID
		case decision.Kind == DecisionManual:
			mapping.Persons[m.IncomingID] = decision.TargetID
		case decision.Kind == DecisionReject:
			mapping.Persons[m.IncomingID] = newID()
		}
	}

	for _, incomingID := range s.unmatchedIncoming {
		if _, covered := mapping.Persons[incomingID]; covered {
			continue
		}
		if decision, ok := s.decisions[incomingID]; ok && decision.Kind == DecisionManual {
			mapping.Persons[incomingID] = decision.TargetID
			continue
		}
		mapping.Persons[incomingID] = newID()
	}

	// Anything not yet covered, including placeholders.
	for _, p := range s.incoming.Persons() {
		if _, covered := mapping.Persons[p.ID]; !covered {
			mapping.Persons[p.ID] = newID()
		}
	}

	for _, pt := range s.incoming.Partnerships() {
		mapping.Partnerships[pt.ID] = newID()
	}

	return mapping
}
