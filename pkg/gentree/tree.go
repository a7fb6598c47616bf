package gentree

import (
	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
)

// Tree is one family graph: an id-addressable collection of persons and
// partnerships. Iteration order over both collections is insertion order,
// which callers rely on for deterministic matching.
//
// A Tree is not safe for concurrent mutation; the engine operates on one
// tree from one goroutine at a time and merge produces a fresh Tree rather
// than mutating inputs in place.
type Tree struct {
	persons          map[string]*Person
	personOrder      []string
	partnerships     map[string]*Partnership
	partnershipOrder []string

	// FocusPersonID is per-session viewing state carried by some callers.
	// It is not part of the graph proper and merge results never keep it.
	FocusPersonID string
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		persons:      make(map[string]*Person),
		partnerships: make(map[string]*Partnership),
	}
}

// AddPerson adds a person to the tree. The person must be non-nil, have an
// id, and the id must not already be present.
func (t *Tree) AddPerson(p *Person) error {
	if p == nil || p.ID == "" {
		return errors.NewValidationError("person", p, "person must be non-nil with an id")
	}
	if _, exists := t.persons[p.ID]; exists {
		return errors.NewAlreadyExistsError("person", p.ID)
	}
	t.persons[p.ID] = p
	t.personOrder = append(t.personOrder, p.ID)
	return nil
}

// AddPartnership adds a partnership to the tree. Endpoints must differ.
func (t *Tree) AddPartnership(pt *Partnership) error {
	if pt == nil || pt.ID == "" {
		return errors.NewValidationError("partnership", pt, "partnership must be non-nil with an id")
	}
	if pt.Partner1ID == pt.Partner2ID {
		return errors.NewValidationError("partnership", pt.ID, "partners must differ")
	}
	if _, exists := t.partnerships[pt.ID]; exists {
		return errors.NewAlreadyExistsError("partnership", pt.ID)
	}
	t.partnerships[pt.ID] = pt
	t.partnershipOrder = append(t.partnershipOrder, pt.ID)
	return nil
}

// Person returns a person by id and whether it exists.
func (t *Tree) Person(id string) (*Person, bool) {
	p, ok := t.persons[id]
	return p, ok
}

// Partnership returns a partnership by id and whether it exists.
func (t *Tree) Partnership(id string) (*Partnership, bool) {
	pt, ok := t.partnerships[id]
	return pt, ok
}

// Persons returns all persons in insertion order.
func (t *Tree) Persons() []*Person {
	out := make([]*Person, 0, len(t.personOrder))
	for _, id := range t.personOrder {
		out = append(out, t.persons[id])
	}
	return out
}

// Partnerships returns all partnerships in insertion order.
func (t *Tree) Partnerships() []*Partnership {
	out := make([]*Partnership, 0, len(t.partnershipOrder))
	for _, id := range t.partnershipOrder {
		out = append(out, t.partnerships[id])
	}
	return out
}

// PersonCount returns the number of persons.
func (t *Tree) PersonCount() int {
	return len(t.persons)
}

// PartnershipCount returns the number of partnerships.
func (t *Tree) PartnershipCount() int {
	return len(t.partnerships)
}

// PartnersOf returns the resolved partners of p, in the order of p's
// partnership list. Dangling references are skipped.
func (t *Tree) PartnersOf(p *Person) []*Person {
	var out []*Person
	for _, ptID := range p.PartnershipIDs {
		pt, ok := t.partnerships[ptID]
		if !ok {
			continue
		}
		if other, ok := t.persons[pt.OtherPartner(p.ID)]; ok {
			out = append(out, other)
		}
	}
	return out
}

// ChildrenOf returns the resolved children of p, skipping dangling refs.
func (t *Tree) ChildrenOf(p *Person) []*Person {
	return t.resolve(p.ChildIDs)
}

// ParentsOf returns the resolved parents of p, skipping dangling refs.
func (t *Tree) ParentsOf(p *Person) []*Person {
	return t.resolve(p.ParentIDs)
}

// PartnershipBetween returns the partnership joining a and b in either
// order, if one exists. Insertion order decides ties.
func (t *Tree) PartnershipBetween(a, b string) (*Partnership, bool) {
	for _, id := range t.partnershipOrder {
		if pt := t.partnerships[id]; pt.Connects(a, b) {
			return pt, true
		}
	}
	return nil, false
}

// Copy returns a deep copy of the tree. The copy shares nothing with the
// original; mutating one never affects the other.
func (t *Tree) Copy() *Tree {
	cp := New()
	cp.FocusPersonID = t.FocusPersonID
	for _, p := range t.Persons() {
		cp.persons[p.ID] = p.Copy()
		cp.personOrder = append(cp.personOrder, p.ID)
	}
	for _, pt := range t.Partnerships() {
		cp.partnerships[pt.ID] = pt.Copy()
		cp.partnershipOrder = append(cp.partnershipOrder, pt.ID)
	}
	return cp
}

func (t *Tree) resolve(ids []string) []*Person {
	var out []*Person
	for _, id := range ids {
		if p, ok := t.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
