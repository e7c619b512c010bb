package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		s, err := OpenFile(filepath.Join(t.TempDir(), "db.json"))
		require.NoError(t, err)
		return s
	})
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := OpenFile(path)
	require.NoError(t, err)
	id, err := s.InsertOne(ctx, Teams, Record{"name": "Alpha", "roster": []any{"a", "b"}})
	require.NoError(t, err)

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	teams, err := reopened.FetchAll(ctx, Teams)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, id, teams[0].ID())
	assert.Equal(t, []any{"a", "b"}, teams[0]["roster"])
}

func TestFileStore_ReadsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	doc := `{"players":[{"_id":"p1","name":"Neo","kills":12}],"giveaways":[]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)

	players, err := s.Find(context.Background(), Players, Filter{Eq("kills", 12)}, nil)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Neo", players[0]["name"])
}

func TestFileStore_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFileStore_FailedWriteKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing-dir", "db.json")

	s, err := OpenFile(path)
	require.NoError(t, err)

	_, err = s.InsertOne(ctx, Players, Record{"name": "ghost"})
	assert.True(t, errors.Is(err, ErrStorage), "got %v", err)

	n, err := s.Count(ctx, Players)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_, err := s.InsertOne(ctx, Players, Record{"name": "Neo"})
	require.NoError(t, err)

	got, _ := s.FetchAll(ctx, Players)
	got[0]["name"] = "changed"

	again, _ := s.FetchAll(ctx, Players)
	assert.Equal(t, "Neo", again[0]["name"])
}

func TestFileStore_EmptyCollectionIsEmptySlice(t *testing.T) {
	got, err := NewMemory().FetchAll(context.Background(), Players)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileStore_NormalizesUpcomingDatesOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	doc := `{"upcomingMatches":[
		{"_id":"m1","date":"2025-06-01T18:30:00+02:00"},
		{"_id":"m2","date":"2025-06-02"},
		{"_id":"m3","date":"someday"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)

	upcoming, err := s.Find(context.Background(), UpcomingMatches,
		Filter{Gte("date", "2025-06-01T17:00:00.000Z")}, Asc("date"))
	require.NoError(t, err)
	require.Len(t, upcoming, 2, "m1 falls before the cutoff once normalized to UTC")
	assert.Equal(t, "2025-06-02T00:00:00.000Z", upcoming[0]["date"])
	assert.Equal(t, "someday", upcoming[1]["date"])

	all, err := s.FetchAll(context.Background(), UpcomingMatches)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T16:30:00.000Z", all[0]["date"])
}
