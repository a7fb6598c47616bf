package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

func TestBuildMappingConfirmedAndUndecided(t *testing.T) {
	existing, incoming := familyTrees(t)
	state := NewState(existing, incoming)
	state.UpdateDecision("ia", Decision{Kind: DecisionConfirm})

	mapping := state.BuildMapping()

	// Confirmed and undecided matches both reuse the existing id.
	assert.Equal(t, "ea", mapping.Persons["ia"])
	assert.Equal(t, "eb", mapping.Persons["ib"])
	assert.Equal(t, "ec", mapping.Persons["ic"])
}

func TestBuildMappingRejectGetsFreshID(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing, incoming := twinTrees(t)
	state := NewState(existing, incoming)
	state.UpdateDecision("i1", Decision{Kind: DecisionReject})

	mapping := state.BuildMapping()
	assert.Equal(t, "fresh-1", mapping.Persons["i1"])
	assert.NotEqual(t, "i1", mapping.Persons["i1"])
}

func TestBuildMappingManualUsesTarget(t *testing.T) {
	existing, incoming := twinTrees(t)
	other := newPerson("e2", "Josef", "Novák", gentree.GenderMale)
	require.NoError(t, existing.AddPerson(other))

	state := NewState(existing, incoming)
	state.UpdateDecision("i1", Decision{Kind: DecisionManual, TargetID: "e2"})

	mapping := state.BuildMapping()
	assert.Equal(t, "e2", mapping.Persons["i1"])
}

func TestBuildMappingUnmatchedGetsFreshID(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing, incoming := twinTrees(t)
	stranger := newPerson("i2", "Žofie", "Qwertová", gentree.GenderFemale)
	require.NoError(t, incoming.AddPerson(stranger))

	state := NewState(existing, incoming)
	mapping := state.BuildMapping()

	assert.Equal(t, "e1", mapping.Persons["i1"])
	assert.Equal(t, "fresh-1", mapping.Persons["i2"])
}

func TestBuildMappingCoversPlaceholdersAndPartnerships(t *testing.T) {
	pinnedIDs(t, "fresh-")

	existing, incoming := familyTrees(t)
	ghost := newPerson("ig", "Neznámý", "Otec", gentree.GenderMale)
	ghost.Placeholder = true
	require.NoError(t, incoming.AddPerson(ghost))

	state := NewState(existing, incoming)
	mapping := state.BuildMapping()

	// Placeholders never match, but still receive an id.
	assert.NotEmpty(t, mapping.Persons["ig"])
	assert.NotEqual(t, "ig", mapping.Persons["ig"])

	// Partnership ids are always regenerated.
	assert.NotEmpty(t, mapping.Partnerships["ip"])
	assert.NotEqual(t, "ip", mapping.Partnerships["ip"])

	assert.Len(t, mapping.Persons, incoming.PersonCount())
	assert.Len(t, mapping.Partnerships, incoming.PartnershipCount())
}
