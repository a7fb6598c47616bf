package strom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
	"github.com/ACiDekCZ/strom-sub000/pkg/merge"
)

func buildTrees(t *testing.T) (*gentree.Tree, *gentree.Tree) {
	t.Helper()

	existing := gentree.New()
	require.NoError(t, existing.AddPerson(&gentree.Person{
		ID: "e1", FirstName: "Jan", LastName: "Novák",
		Gender: gentree.GenderMale, BirthDate: "1950-03-01",
	}))

	incoming := gentree.New()
	require.NoError(t, incoming.AddPerson(&gentree.Person{
		ID: "i1", FirstName: "Jan", LastName: "Novák",
		Gender: gentree.GenderMale, BirthDate: "1950-03-01",
	}))
	require.NoError(t, incoming.AddPerson(&gentree.Person{
		ID: "i2", FirstName: "Eva", LastName: "Malá",
		Gender: gentree.GenderFemale, BirthDate: "1980-06-01",
	}))

	return existing, incoming
}

func TestNewDefaults(t *testing.T) {
	client, err := New()
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewWithOptions(t *testing.T) {
	store := merge.NewMemoryStore()
	sessions := merge.NewMemorySessionStore()
	logger := logging.Default()

	client, err := New(
		WithBackupStore(store),
		WithSessionStore(sessions),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewRejectsNilCollaborators(t *testing.T) {
	_, err := New(WithBackupStore(nil))
	assert.Error(t, err)
	_, err = New(WithSessionStore(nil))
	assert.Error(t, err)
	_, err = New(WithLogger(nil))
	assert.Error(t, err)
}

func TestClientEndToEndMerge(t *testing.T) {
	ctx := context.Background()
	client, err := New()
	require.NoError(t, err)

	existing, incoming := buildTrees(t)
	state := client.NewState(existing, incoming)

	stats := state.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)

	result := client.ExecuteMerge(ctx, state)
	require.True(t, result.Success)
	// Jan merged, Eva added under a fresh id.
	assert.Equal(t, 2, result.MergedData.PersonCount())
	assert.Equal(t, 1, result.Stats.Merged)
	assert.Equal(t, 1, result.Stats.Added)
	_, keptIncomingID := result.MergedData.Person("i2")
	assert.False(t, keptIncomingID)
}

func TestClientBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := New()
	require.NoError(t, err)

	existing, _ := buildTrees(t)
	key, err := client.CreateBackup(ctx, existing)
	require.NoError(t, err)

	restored, err := client.RestoreBackup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, existing.PersonCount(), restored.PersonCount())

	require.NoError(t, client.DeleteBackup(ctx, key))
	_, err = client.RestoreBackup(ctx, key)
	assert.Error(t, err)
}

func TestClientSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := New()
	require.NoError(t, err)

	existing, incoming := buildTrees(t)
	state := client.NewState(existing, incoming)
	state.UpdateDecision("i1", merge.Decision{Kind: merge.DecisionConfirm})

	require.NoError(t, client.SaveSession(ctx, "s1", state))

	loaded, err := client.LoadSession(ctx, "s1")
	require.NoError(t, err)
	d, ok := loaded.Decision("i1")
	require.True(t, ok)
	assert.Equal(t, merge.DecisionConfirm, d.Kind)
	assert.Len(t, loaded.Matches(), 1)
}
