package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

const testDate = "2026-03-14"

func attachTo(t *testing.T, dir string, sync string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir, SyncStrategy: sync}))
	return b
}

// newTestBackend attaches a fresh backend and returns it with a client that
// has behaviors A, B and C.
func newTestBackend(t *testing.T) (*Backend, string, []types.Behavior) {
	t.Helper()
	b := attachTo(t, t.TempDir(), "")
	t.Cleanup(func() { _ = b.Detach() })

	ctx := context.Background()
	clientID, err := b.CreateClient(ctx, &types.Client{Name: "Test Client"})
	require.NoError(t, err)
	for _, name := range []string{"A", "B", "C"} {
		_, err := b.CreateBehavior(ctx, &types.Behavior{ClientID: clientID, Name: name})
		require.NoError(t, err)
	}
	behaviors, err := b.ActiveBehaviors(ctx, clientID)
	require.NoError(t, err)
	return b, clientID, behaviors
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Fields(strings.TrimSpace(string(data)))
}

func TestAttach_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()

	assert.ErrorIs(t, b.Attach(types.Config{DataDir: dir}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres", DataDir: dir}), types.ErrBackendUnknown)

	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}
	require.NoError(t, b.Attach(cfg))
	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)

	for _, m := range jsonlTableMapping {
		assert.FileExists(t, filepath.Join(dir, m.file))
	}

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.ListClients(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.ApplyIntervals(context.Background(), "c", testDate, nil)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestClients(t *testing.T) {
	b := attachTo(t, t.TempDir(), "")
	defer b.Detach()
	ctx := context.Background()

	_, err := b.CreateClient(ctx, &types.Client{})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	zed, err := b.CreateClient(ctx, &types.Client{Name: "Zed", Identifier: "Z1"})
	require.NoError(t, err)
	_, err = b.CreateClient(ctx, &types.Client{Name: "Amy"})
	require.NoError(t, err)

	got, err := b.GetClient(ctx, zed)
	require.NoError(t, err)
	assert.Equal(t, "Zed", got.Name)
	assert.Equal(t, "Z1", got.Identifier)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = b.GetClient(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	list, err := b.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amy", list[0].Name)
	assert.Equal(t, "Zed", list[1].Name)
}

func TestBehaviors_OrderAndArchive(t *testing.T) {
	b, clientID, behaviors := newTestBackend(t)
	ctx := context.Background()

	require.Len(t, behaviors, 3)
	assert.Equal(t, "A", behaviors[0].Name)
	assert.Equal(t, "C", behaviors[2].Name)

	require.NoError(t, b.ArchiveBehavior(ctx, behaviors[1].BehaviorID))
	require.NoError(t, b.ArchiveBehavior(ctx, behaviors[1].BehaviorID), "archive is idempotent")
	assert.ErrorIs(t, b.ArchiveBehavior(ctx, "missing"), types.ErrNotFound)

	active, err := b.ActiveBehaviors(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].Name)
	assert.Equal(t, "C", active[1].Name)

	all, err := b.ListBehaviors(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[1].Archived())

	_, err = b.ActiveBehaviors(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.CreateBehavior(ctx, &types.Behavior{ClientID: "missing", Name: "X"})
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.CreateBehavior(ctx, &types.Behavior{ClientID: clientID, Name: "X", Color: "red"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestUpdateBehavior(t *testing.T) {
	b, clientID, behaviors := newTestBackend(t)
	ctx := context.Background()
	str := func(s string) *string { return &s }
	id := behaviors[1].BehaviorID

	got, err := b.UpdateBehavior(ctx, id, types.BehaviorUpdate{
		Name:        str(" Biting "),
		Description: str("teeth on skin"),
		Color:       str("#22c55e"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Biting", got.Name)

	got, err = b.UpdateBehavior(ctx, id, types.BehaviorUpdate{Description: str("")})
	require.NoError(t, err)
	assert.Equal(t, "Biting", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, "#22c55e", got.Color)

	_, err = b.UpdateBehavior(ctx, id, types.BehaviorUpdate{Name: str("  ")})
	assert.ErrorIs(t, err, types.ErrInvalidData)
	_, err = b.UpdateBehavior(ctx, id, types.BehaviorUpdate{Color: str("green")})
	assert.ErrorIs(t, err, types.ErrInvalidData)
	_, err = b.UpdateBehavior(ctx, "missing", types.BehaviorUpdate{Name: str("X")})
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.UpdateBehavior(ctx, "", types.BehaviorUpdate{})
	assert.ErrorIs(t, err, types.ErrInvalidID)

	require.NoError(t, b.ArchiveBehavior(ctx, id))
	got, err = b.UpdateBehavior(ctx, id, types.BehaviorUpdate{Name: str("Biting (old)")})
	require.NoError(t, err)
	assert.True(t, got.Archived(), "editing keeps the end date")

	all, err := b.ListBehaviors(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Biting (old)", all[1].Name, "column position is unchanged")
	assert.Equal(t, "#22c55e", all[1].Color)
	assert.Equal(t, "A", all[0].Name)
}

func TestSetSessionNotes(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	b := attachTo(t, dir, "")

	clientID, err := b.CreateClient(ctx, &types.Client{Name: "Noted"})
	require.NoError(t, err)
	behaviorID, err := b.CreateBehavior(ctx, &types.Behavior{ClientID: clientID, Name: "A"})
	require.NoError(t, err)

	sess, err := b.SetSessionNotes(ctx, clientID, testDate, "  new staff on shift ")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID, "notes create the session")
	assert.Equal(t, "new staff on shift", sess.Notes)
	assert.Empty(t, sess.Intervals)

	payload := []types.IntervalRecord{{BehaviorID: behaviorID, IntervalIndex: 3, Value: types.CellInd}}
	saved, err := b.ApplyIntervals(ctx, clientID, testDate, payload)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, saved.SessionID)
	assert.Equal(t, "new staff on shift", saved.Notes, "saving intervals keeps the notes")

	_, err = b.SetSessionNotes(ctx, clientID, "2026-13-01", "x")
	assert.ErrorIs(t, err, types.ErrInvalidDate)
	_, err = b.SetSessionNotes(ctx, "missing", testDate, "x")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.SetSessionNotes(ctx, clientID, testDate, strings.Repeat("x", types.MaxNotesLength+1))
	assert.ErrorIs(t, err, types.ErrInvalidData)
	require.NoError(t, b.Detach())

	b = attachTo(t, dir, "")
	defer b.Detach()
	found, err := b.FindSession(ctx, clientID, testDate)
	require.NoError(t, err)
	assert.Equal(t, "new staff on shift", found.Notes)
	assert.Equal(t, payload, found.Intervals)

	cleared, err := b.SetSessionNotes(ctx, clientID, testDate, "")
	require.NoError(t, err)
	assert.Empty(t, cleared.Notes)
	assert.Equal(t, payload, cleared.Intervals)
}

func TestApplyIntervals_CreatesAndUpdates(t *testing.T) {
	b, clientID, bs := newTestBackend(t)
	ctx := context.Background()

	_, err := b.FindSession(ctx, clientID, testDate)
	assert.ErrorIs(t, err, types.ErrNotFound)

	payload := []types.IntervalRecord{
		{BehaviorID: bs[0].BehaviorID, IntervalIndex: 4, Value: types.CellInd},
		{BehaviorID: bs[1].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
		{BehaviorID: bs[2].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
		{BehaviorID: bs[0].BehaviorID, IntervalIndex: 90, Value: types.CellSkip},
	}
	sess, err := b.ApplyIntervals(ctx, clientID, testDate, payload)
	require.NoError(t, err)
	assert.Equal(t, testDate, sess.Date)
	assert.ElementsMatch(t, payload, sess.Intervals)

	again, err := b.ApplyIntervals(ctx, clientID, testDate, payload)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, again.SessionID, "one session per client and date")
	assert.ElementsMatch(t, payload, again.Intervals)

	update := []types.IntervalRecord{
		{BehaviorID: bs[0].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
		{BehaviorID: bs[0].BehaviorID, IntervalIndex: 90, Value: types.CellEmpty},
	}
	sess, err = b.ApplyIntervals(ctx, clientID, testDate, update)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.IntervalRecord{
		{BehaviorID: bs[0].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
		{BehaviorID: bs[1].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
		{BehaviorID: bs[2].BehaviorID, IntervalIndex: 4, Value: types.CellErr},
	}, sess.Intervals)

	found, err := b.FindSession(ctx, clientID, testDate)
	require.NoError(t, err)
	assert.Equal(t, sess.Intervals, found.Intervals)
}

func TestApplyIntervals_RejectsWholePayload(t *testing.T) {
	b, clientID, bs := newTestBackend(t)
	ctx := context.Background()
	good := types.IntervalRecord{BehaviorID: bs[0].BehaviorID, IntervalIndex: 0, Value: types.CellInd}

	tests := []struct {
		name    string
		client  string
		date    string
		bad     types.IntervalRecord
		wantErr error
	}{
		{name: "interval out of range", client: clientID, date: testDate,
			bad: types.IntervalRecord{BehaviorID: bs[0].BehaviorID, IntervalIndex: 96, Value: types.CellErr}, wantErr: types.ErrInvalidInterval},
		{name: "bad value", client: clientID, date: testDate,
			bad: types.IntervalRecord{BehaviorID: bs[0].BehaviorID, IntervalIndex: 1, Value: "maybe"}, wantErr: types.ErrInvalidValue},
		{name: "foreign behavior", client: clientID, date: testDate,
			bad: types.IntervalRecord{BehaviorID: "other", IntervalIndex: 1, Value: types.CellErr}, wantErr: types.ErrUnknownBehavior},
		{name: "bad date", client: clientID, date: "2026-02-30",
			bad: good, wantErr: types.ErrInvalidDate},
		{name: "unknown client", client: "missing", date: testDate,
			bad: good, wantErr: types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.ApplyIntervals(ctx, tt.client, tt.date, []types.IntervalRecord{good, tt.bad})
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = b.FindSession(ctx, clientID, testDate)
			assert.ErrorIs(t, err, types.ErrNotFound, "nothing was written")
		})
	}
}

func TestSessions_ListAndDelete(t *testing.T) {
	b, clientID, bs := newTestBackend(t)
	ctx := context.Background()
	rec := []types.IntervalRecord{{BehaviorID: bs[0].BehaviorID, IntervalIndex: 0, Value: types.CellInd}}

	for _, d := range []string{"2026-03-01", "2026-03-03", "2026-03-02"} {
		_, err := b.ApplyIntervals(ctx, clientID, d, rec)
		require.NoError(t, err)
	}

	all, err := b.ListSessions(ctx, types.SessionFilter{ClientID: clientID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-03", all[0].Date)
	assert.Equal(t, "2026-03-01", all[2].Date)
	assert.Empty(t, all[0].Intervals)

	ranged, err := b.ListSessions(ctx, types.SessionFilter{From: "2026-03-02", To: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	_, err = b.ListSessions(ctx, types.SessionFilter{From: "yesterday"})
	assert.ErrorIs(t, err, types.ErrInvalidDate)

	require.NoError(t, b.DeleteSession(ctx, all[0].SessionID))
	assert.ErrorIs(t, b.DeleteSession(ctx, all[0].SessionID), types.ErrNotFound)
	_, err = b.FindSession(ctx, clientID, "2026-03-03")
	assert.ErrorIs(t, err, types.ErrNotFound)

	var n int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM intervals").Scan(&n))
	assert.Equal(t, 2, n, "intervals of the deleted session are gone")
}

func TestReattach_ReloadsFromJSONL(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b := attachTo(t, dir, "")
	clientID, err := b.CreateClient(ctx, &types.Client{Name: "Persisted"})
	require.NoError(t, err)
	behaviorID, err := b.CreateBehavior(ctx, &types.Behavior{ClientID: clientID, Name: "Tantrum", Color: "#ef4444"})
	require.NoError(t, err)
	payload := []types.IntervalRecord{{BehaviorID: behaviorID, IntervalIndex: 12, Value: types.CellInd}}
	_, err = b.ApplyIntervals(ctx, clientID, testDate, payload)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b = attachTo(t, dir, "")
	defer b.Detach()

	behaviors, err := b.ActiveBehaviors(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, behaviors, 1)
	assert.Equal(t, "#ef4444", behaviors[0].Color)

	sess, err := b.FindSession(ctx, clientID, testDate)
	require.NoError(t, err)
	assert.Equal(t, payload, sess.Intervals)
}

func TestLoad_SkipsMalformedAndOrphanLines(t *testing.T) {
	dir := t.TempDir()
	write := func(file, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	}
	write("clients.jsonl", `{"client_id":"c1","name":"One","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z","future_field":true}
not json
`)
	write("behaviors.jsonl", `{"behavior_id":"b1","client_id":"c1","name":"A","ordinal":0,"created_at":"2026-01-01T00:00:00Z"}
{"behavior_id":"b2","client_id":"ghost","name":"B","ordinal":0,"created_at":"2026-01-01T00:00:00Z"}
`)
	write("sessions.jsonl", `{"session_id":"s1","client_id":"c1","session_date":"2026-03-14","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}
`)
	write("intervals.jsonl", `{"session_id":"s1","behavior_id":"b1","interval_index":3,"value":"ind"}
{"session_id":"nope","behavior_id":"b1","interval_index":3,"value":"ind"}
`)

	b := attachTo(t, dir, "")
	defer b.Detach()
	ctx := context.Background()

	clients, err := b.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	all, err := b.ListBehaviors(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, all, 1)

	sess, err := b.FindSession(ctx, "c1", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, []types.IntervalRecord{{BehaviorID: "b1", IntervalIndex: 3, Value: types.CellInd}}, sess.Intervals)
}

func TestSyncOnClose_DefersJSONL(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b := attachTo(t, dir, types.SyncOnClose)
	_, err := b.CreateClient(ctx, &types.Client{Name: "Deferred"})
	require.NoError(t, err)
	assert.Empty(t, readLines(t, filepath.Join(dir, "clients.jsonl")))

	require.NoError(t, b.Detach())
	assert.Len(t, readLines(t, filepath.Join(dir, "clients.jsonl")), 1)
}

func TestSeedSample_Idempotent(t *testing.T) {
	b := attachTo(t, t.TempDir(), "")
	defer b.Detach()
	ctx := context.Background()

	id, err := b.SeedSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, SampleClientID, id)

	_, err = b.SeedSample(ctx)
	require.NoError(t, err)

	behaviors, err := b.ActiveBehaviors(ctx, id)
	require.NoError(t, err)
	require.Len(t, behaviors, 3)
	assert.Equal(t, "sample-client-1-aggression", behaviors[0].BehaviorID)
	assert.Equal(t, "sample-client-1-self-injury", behaviors[1].BehaviorID)
	assert.Equal(t, "Elopement", behaviors[2].Name)
	assert.Equal(t, "#eab308", behaviors[2].Color)
}
