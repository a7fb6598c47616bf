package merge

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/match"
)

// failingStore refuses to create backups, forcing the executor down its
// rollback path before any mutation happens.
type failingStore struct{}

func (failingStore) Create(context.Context, *gentree.Tree) (string, error) {
	return "", fmt.Errorf("disk full")
}

func (failingStore) Restore(context.Context, string) (*gentree.Tree, error) {
	return nil, fmt.Errorf("disk full")
}

func (failingStore) Delete(context.Context, string) error { return nil }

// findByFirstName returns the first person in the tree with the given first
// name, failing the test when absent.
func findByFirstName(t *testing.T, tree *gentree.Tree, first string) *gentree.Person {
	t.Helper()
	for _, p := range tree.Persons() {
		if p.FirstName == first {
			return p
		}
	}
	t.Fatalf("no person named %q", first)
	return nil
}

func TestExecuteNilState(t *testing.T) {
	result := NewExecutor(nil).Execute(context.Background(), nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestExecuteConsumesStateOnce(t *testing.T) {
	existing, incoming := twinTrees(t)
	state := NewState(existing, incoming)

	x := NewExecutor(nil)
	first := x.Execute(context.Background(), state)
	require.True(t, first.Success)

	second := x.Execute(context.Background(), state)
	assert.False(t, second.Success)
	assert.NotEmpty(t, second.Errors)
}

func TestExecuteMergesTwinRecords(t *testing.T) {
	existing, incoming := twinTrees(t)
	state := NewState(existing, incoming)

	store := NewMemoryStore()
	result := NewExecutor(store).Execute(context.Background(), state)

	require.True(t, result.Success)
	assert.Equal(t, PhaseComplete, state.Phase())
	assert.Equal(t, 1, result.MergedData.PersonCount())
	assert.Equal(t, 1, result.Stats.Merged)
	assert.Equal(t, 0, result.Stats.Added)
	assert.NotEmpty(t, result.BackupKey)
	assert.Equal(t, 1, store.Len())
}

func TestExecuteFillsEmptyOptionalFields(t *testing.T) {
	existing, incoming := twinTrees(t)
	in, ok := incoming.Person("i1")
	require.True(t, ok)
	in.BirthPlace = "Brno"
	in.DeathDate = "2020-01-01"

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	merged, ok := result.MergedData.Person("e1")
	require.True(t, ok)
	assert.Equal(t, "Brno", merged.BirthPlace)
	assert.Equal(t, "2020-01-01", merged.DeathDate)
	// The existing birth date was already set and stays.
	assert.Equal(t, "1950-03-01", merged.BirthDate)
}

func TestExecuteAppliesConflictResolutions(t *testing.T) {
	run := func(t *testing.T, configure func(*State)) *gentree.Person {
		t.Helper()
		existing, incoming := twinTrees(t)
		ex, ok := existing.Person("e1")
		require.True(t, ok)
		ex.BirthPlace = "Praha"
		in, ok := incoming.Person("i1")
		require.True(t, ok)
		in.BirthPlace = "Brno"

		state := NewState(existing, incoming)
		require.Len(t, state.Conflicts("i1"), 1)
		if configure != nil {
			configure(state)
		}

		result := NewExecutor(nil).Execute(context.Background(), state)
		require.True(t, result.Success)
		merged, ok := result.MergedData.Person("e1")
		require.True(t, ok)
		return merged
	}

	t.Run("keep existing by default", func(t *testing.T) {
		merged := run(t, nil)
		assert.Equal(t, "Praha", merged.BirthPlace)
	})

	t.Run("use incoming", func(t *testing.T) {
		merged := run(t, func(s *State) {
			s.UpdateConflictResolution("i1", match.FieldBirthPlace, match.ResolutionUseIncoming, "")
		})
		assert.Equal(t, "Brno", merged.BirthPlace)
	})

	t.Run("manual resolved value", func(t *testing.T) {
		merged := run(t, func(s *State) {
			s.UpdateConflictResolution("i1", match.FieldBirthPlace, match.ResolutionManual, "Plzeň")
		})
		assert.Equal(t, "Plzeň", merged.BirthPlace)
	})

	t.Run("manual without value keeps existing", func(t *testing.T) {
		merged := run(t, func(s *State) {
			s.UpdateConflictResolution("i1", match.FieldBirthPlace, match.ResolutionManual, "")
		})
		assert.Equal(t, "Praha", merged.BirthPlace)
	})
}

func TestExecuteRejectedMatchAddsNewPerson(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing, incoming := twinTrees(t)
	state := NewState(existing, incoming)
	state.UpdateDecision("i1", Decision{Kind: DecisionReject})

	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	assert.Equal(t, 2, result.MergedData.PersonCount())
	assert.Equal(t, 0, result.Stats.Merged)
	assert.Equal(t, 1, result.Stats.Added)

	added, ok := result.MergedData.Person("fresh-1")
	require.True(t, ok)
	assert.Equal(t, "Jan", added.FirstName)
}

func TestExecuteAddsUnmatchedUnderFreshID(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing, incoming := twinTrees(t)
	stranger := newPerson("i2", "Žofie", "Qwertová", gentree.GenderFemale)
	stranger.BirthDate = "1990-01-01"
	require.NoError(t, incoming.AddPerson(stranger))

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	assert.Equal(t, 2, result.MergedData.PersonCount())
	_, stillIncomingID := result.MergedData.Person("i2")
	assert.False(t, stillIncomingID)

	added, ok := result.MergedData.Person("fresh-1")
	require.True(t, ok)
	assert.Equal(t, "Žofie", added.FirstName)
	assert.Equal(t, 1, result.Stats.Added)
}

func TestExecuteFoldsEquivalentPartnership(t *testing.T) {
	existing, incoming := familyTrees(t)
	ip, ok := incoming.Partnership("ip")
	require.True(t, ok)
	ip.StartDate = "1974-06-15"

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	// The incoming partnership folds into the equivalent existing one
	// instead of duplicating it, carrying its fill-ins along.
	assert.Equal(t, 1, result.MergedData.PartnershipCount())
	assert.Equal(t, 0, result.Stats.Partnerships)

	merged, ok := result.MergedData.PartnershipBetween("ea", "eb")
	require.True(t, ok)
	assert.Equal(t, "1974-06-15", merged.StartDate)
}

func TestExecuteCreatesNewPartnership(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing := gentree.New()
	ea := newPerson("ea", "Jan", "Novák", gentree.GenderMale)
	ea.BirthDate = "1950-03-01"
	require.NoError(t, existing.AddPerson(ea))

	incoming := gentree.New()
	ia := newPerson("ia", "Jan", "Novák", gentree.GenderMale)
	ia.BirthDate = "1950-03-01"
	ib := newPerson("ib", "Eva", "Malá", gentree.GenderFemale)
	ib.BirthDate = "1955-02-02"
	require.NoError(t, incoming.AddPerson(ia))
	require.NoError(t, incoming.AddPerson(ib))
	require.NoError(t, incoming.AddPartnership(&gentree.Partnership{
		ID: "ip", Partner1ID: "ia", Partner2ID: "ib", Status: gentree.StatusPartners,
	}))

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	assert.Equal(t, 1, result.Stats.Partnerships)
	eva := findByFirstName(t, result.MergedData, "Eva")
	assert.NotEqual(t, "ib", eva.ID)
	pt, ok := result.MergedData.PartnershipBetween("ea", eva.ID)
	require.True(t, ok)
	assert.Equal(t, gentree.StatusPartners, pt.Status)

	// Both endpoints reference the partnership back.
	mergedA, ok := result.MergedData.Person("ea")
	require.True(t, ok)
	assert.True(t, mergedA.HasPartnership(pt.ID))
}

func TestExecuteDropsPartnershipWithUnresolvableEndpoint(t *testing.T) {
	existing, incoming := twinTrees(t)

	ghost := newPerson("ig", "Neznámá", "Žena", gentree.GenderFemale)
	ghost.Placeholder = true
	require.NoError(t, incoming.AddPerson(ghost))
	require.NoError(t, incoming.AddPartnership(&gentree.Partnership{
		ID: "ip", Partner1ID: "i1", Partner2ID: "ig", Status: gentree.StatusMarried,
	}))

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	// The placeholder partner is never materialized, so the partnership
	// cannot resolve both endpoints and is dropped.
	assert.Equal(t, 0, result.MergedData.PartnershipCount())
	assert.Equal(t, 1, result.Stats.DroppedPartnerships)
}

func TestExecuteMaterializesPlaceholderParents(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing := gentree.New()
	someone := newPerson("e1", "Karel", "Svoboda", gentree.GenderMale)
	require.NoError(t, existing.AddPerson(someone))

	incoming := gentree.New()
	ghost := newPerson("ig", "Neznámý", "Otec", gentree.GenderMale)
	ghost.Placeholder = true
	ghost.ChildIDs = []string{"ic"}
	child := newPerson("ic", "Žofie", "Qwertová", gentree.GenderFemale)
	child.BirthDate = "1990-01-01"
	child.ParentIDs = []string{"ig"}
	require.NoError(t, incoming.AddPerson(ghost))
	require.NoError(t, incoming.AddPerson(child))

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	// Child plus materialized placeholder parent plus the untouched
	// existing person.
	assert.Equal(t, 3, result.MergedData.PersonCount())

	parent := findByFirstName(t, result.MergedData, "Neznámý")
	assert.True(t, parent.Placeholder)
	assert.NotEqual(t, "ig", parent.ID)

	mergedChild := findByFirstName(t, result.MergedData, "Žofie")
	assert.Equal(t, []string{parent.ID}, mergedChild.ParentIDs)
	// Repair made the back-reference mutual.
	assert.True(t, parent.HasChild(mergedChild.ID))
}

func TestExecuteRepairEnforcesParentCap(t *testing.T) {
	existing, incoming := familyTrees(t)

	// An extra incoming parent claims the already two-parented child; the
	// cap keeps the merged child at two parents.
	extra := newPerson("ix", "Pavel", "Třetí", gentree.GenderMale)
	extra.BirthDate = "1940-01-01"
	extra.ChildIDs = []string{"ic"}
	require.NoError(t, incoming.AddPerson(extra))
	ic, ok := incoming.Person("ic")
	require.True(t, ok)
	ic.ParentIDs = append(ic.ParentIDs, "ix")

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)

	merged, ok := result.MergedData.Person("ec")
	require.True(t, ok)
	assert.LessOrEqual(t, len(merged.ParentIDs), 2)
}

func TestExecuteRollsBackOnBackupFailure(t *testing.T) {
	existing, incoming := twinTrees(t)
	original := existing.Document()

	state := NewState(existing, incoming)
	result := NewExecutor(failingStore{}).Execute(context.Background(), state)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, ExecStats{}, result.Stats)

	// The caller gets back the state's untouched snapshot of the
	// original graph.
	if diff := cmp.Diff(original, result.MergedData.Document()); diff != "" {
		t.Errorf("merged data diverged from original (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(original, existing.Document()); diff != "" {
		t.Errorf("caller's tree mutated (-want +got):\n%s", diff)
	}
}

func TestExecuteRollsBackOnMidMergeFailure(t *testing.T) {
	existing, incoming := twinTrees(t)
	original := existing.Document()

	state := NewState(existing, incoming)
	// Redirecting the match at a person that does not exist fails the
	// merge step itself, after the backup has already been taken.
	state.UpdateDecision("i1", Decision{Kind: DecisionManual, TargetID: "no-such-person"})

	store := NewMemoryStore()
	result := NewExecutor(store).Execute(context.Background(), state)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, ExecStats{}, result.Stats)

	if diff := cmp.Diff(original, result.MergedData.Document()); diff != "" {
		t.Errorf("merged data diverged from original (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(original, existing.Document()); diff != "" {
		t.Errorf("caller's tree mutated (-want +got):\n%s", diff)
	}

	// The state returns to reviewing so the decision can be corrected and
	// the merge retried.
	assert.Equal(t, PhaseReviewing, state.Phase())
	state.UpdateDecision("i1", Decision{Kind: DecisionConfirm})
	retry := NewExecutor(store).Execute(context.Background(), state)
	require.True(t, retry.Success)
	assert.Equal(t, 1, retry.MergedData.PersonCount())
}

func TestExecuteClearsFocusPerson(t *testing.T) {
	existing, incoming := twinTrees(t)
	existing.FocusPersonID = "e1"

	state := NewState(existing, incoming)
	result := NewExecutor(nil).Execute(context.Background(), state)
	require.True(t, result.Success)
	assert.Empty(t, result.MergedData.FocusPersonID)
}
