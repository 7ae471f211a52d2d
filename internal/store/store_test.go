package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/typeid"
)

// stores returns the memory store and, when TEST_DATABASE_URL is set, a
// Postgres store, so the same behavior is checked against both.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{"memory": NewMemoryStore()}
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		pg, err := NewPostgresStore(context.Background(), url)
		require.NoError(t, err)
		t.Cleanup(pg.Close)
		out["postgres"] = pg
	}
	return out
}

func TestPlanLifecycle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := typeid.NewPlanID()

			p, err := s.CreatePlan(ctx, id, "Back garden")
			require.NoError(t, err)
			assert.Equal(t, "Back garden", p.Name)

			got, err := s.GetPlan(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)

			plans, err := s.ListPlans(ctx)
			require.NoError(t, err)
			assert.Contains(t, planIDs(plans), id)

			require.NoError(t, s.DeletePlan(ctx, id))
			_, err = s.GetPlan(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.DeletePlan(ctx, id), ErrNotFound)
			_, err = s.LatestSnapshot(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSnapshotVersions(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := typeid.NewPlanID()
			_, err := s.CreatePlan(ctx, id, "Allotment")
			require.NoError(t, err)

			_, err = s.LatestSnapshot(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound)

			first, err := s.SaveSnapshot(ctx, id, json.RawMessage(`{"v":1}`))
			require.NoError(t, err)
			assert.Equal(t, 1, first.Version)

			second, err := s.SaveSnapshot(ctx, id, json.RawMessage(`{"v":2}`))
			require.NoError(t, err)
			assert.Equal(t, 2, second.Version)

			latest, err := s.LatestSnapshot(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 2, latest.Version)
			assert.JSONEq(t, `{"v":2}`, string(latest.Document))
		})
	}
}

func TestSaveSnapshotUnknownPlan(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.SaveSnapshot(context.Background(), typeid.NewPlanID(), json.RawMessage(`{}`))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryListOrder(t *testing.T) {
	s := NewMemoryStore()
	clock := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := s.CreatePlan(ctx, "plan_a", "A")
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, err = s.CreatePlan(ctx, "plan_b", "B")
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, err = s.SaveSnapshot(ctx, "plan_a", json.RawMessage(`{}`))
	require.NoError(t, err)

	plans, err := s.ListPlans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan_a", "plan_b"}, planIDs(plans))

	_, err = s.CreatePlan(ctx, "plan_a", "again")
	assert.Error(t, err)
}

func TestMemorySnapshotIsCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.CreatePlan(ctx, "plan_a", "A")
	require.NoError(t, err)

	doc := json.RawMessage(`{"a":1}`)
	_, err = s.SaveSnapshot(ctx, "plan_a", doc)
	require.NoError(t, err)
	doc[2] = 'b'

	latest, err := s.LatestSnapshot(ctx, "plan_a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(latest.Document))
}

func planIDs(plans []Plan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}
