package merge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

func newPerson(id, first, last string, gender gentree.Gender) *gentree.Person {
	return &gentree.Person{ID: id, FirstName: first, LastName: last, Gender: gender}
}

// twinTrees holds the same single individual on both sides.
func twinTrees(t *testing.T) (*gentree.Tree, *gentree.Tree) {
	t.Helper()

	existing := gentree.New()
	a := newPerson("e1", "Jan", "Novák", gentree.GenderMale)
	a.BirthDate = "1950-03-01"
	require.NoError(t, existing.AddPerson(a))

	incoming := gentree.New()
	b := newPerson("i1", "Jan", "Novák", gentree.GenderMale)
	b.BirthDate = "1950-03-01"
	require.NoError(t, incoming.AddPerson(b))

	return existing, incoming
}

// familyTrees holds a married couple with one child on both sides; the
// wife's incoming record diverges in surname and is matched only through
// partner propagation.
func familyTrees(t *testing.T) (*gentree.Tree, *gentree.Tree) {
	t.Helper()

	existing := gentree.New()
	ea := newPerson("ea", "Jan", "Novák", gentree.GenderMale)
	ea.BirthDate = "1950-03-01"
	ea.ChildIDs = []string{"ec"}
	eb := newPerson("eb", "Marie", "Dvořáková", gentree.GenderFemale)
	eb.BirthDate = "1948-05-12"
	eb.BirthPlace = "Praha"
	eb.ChildIDs = []string{"ec"}
	ec := newPerson("ec", "Petr", "Novák", gentree.GenderMale)
	ec.BirthDate = "1975-07-20"
	ec.ParentIDs = []string{"ea", "eb"}
	require.NoError(t, existing.AddPerson(ea))
	require.NoError(t, existing.AddPerson(eb))
	require.NoError(t, existing.AddPerson(ec))
	require.NoError(t, existing.AddPartnership(&gentree.Partnership{
		ID: "ep", Partner1ID: "ea", Partner2ID: "eb",
		Status: gentree.StatusMarried, ChildIDs: []string{"ec"},
	}))
	ea.PartnershipIDs = []string{"ep"}
	eb.PartnershipIDs = []string{"ep"}

	incoming := gentree.New()
	ia := newPerson("ia", "Jan", "Novák", gentree.GenderMale)
	ia.BirthDate = "1950-03-01"
	ia.ChildIDs = []string{"ic"}
	ib := newPerson("ib", "Marie", "Černá", gentree.GenderFemale)
	ib.ChildIDs = []string{"ic"}
	ic := newPerson("ic", "Petr", "Novák", gentree.GenderMale)
	ic.BirthDate = "1975-07-20"
	ic.ParentIDs = []string{"ia", "ib"}
	require.NoError(t, incoming.AddPerson(ia))
	require.NoError(t, incoming.AddPerson(ib))
	require.NoError(t, incoming.AddPerson(ic))
	require.NoError(t, incoming.AddPartnership(&gentree.Partnership{
		ID: "ip", Partner1ID: "ia", Partner2ID: "ib",
		Status: gentree.StatusMarried, ChildIDs: []string{"ic"},
	}))
	ia.PartnershipIDs = []string{"ip"}
	ib.PartnershipIDs = []string{"ip"}

	return existing, incoming
}

// pinnedIDs replaces the id generator with a deterministic sequence for the
// duration of the test.
func pinnedIDs(t *testing.T, prefix string) {
	t.Helper()
	orig := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
	t.Cleanup(func() { newID = orig })
}
