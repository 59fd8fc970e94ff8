package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"gigaaura/internal/models"

	"github.com/stretchr/testify/require"
)

func TestWriteThenReadCurrentFormat(t *testing.T) {
	s := New(t.TempDir())
	state := models.PointsState{
		TotalPoints: 155,
		Transactions: []models.Transaction{
			{ID: "t2", Amount: 50, Action: "post_created", Timestamp: "2024-01-02T00:00:00Z"},
			{ID: "t1", Amount: 5, Action: "like_received", Timestamp: "2024-01-01T00:00:00Z"},
		},
	}
	s.WritePoints("W1", state)

	got, ok := s.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(155), got.TotalPoints)
	require.Len(t, got.Transactions, 2)
	require.Equal(t, "t2", got.Transactions[0].ID)
}

func TestReadLegacySimpleTotalOnly(t *testing.T) {
	s := New(t.TempDir())
	s.Set(keyPointsSimple+"W1", []byte("250"))

	got, ok := s.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(250), got.TotalPoints)
	require.Empty(t, got.Transactions)
}

func TestReadLegacyEmergencyBackup(t *testing.T) {
	s := New(t.TempDir())
	s.Set(keyPointsEmergency+"W1", []byte("175"))

	got, ok := s.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(175), got.TotalPoints)
}

func TestReadPriorityOrder(t *testing.T) {
	s := New(t.TempDir())
	// every shape present: the current-format blob must win
	s.Set(keyPointsCurrent+"W1", []byte(`{"totalPoints":300,"transactions":[]}`))
	s.Set(keyPointsBackup+"W1", []byte(`{"totalPoints":200,"transactions":[]}`))
	s.Set(keyPointsSimple+"W1", []byte("100"))
	s.Set(keyPointsEmergency+"W1", []byte("50"))

	got, ok := s.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(300), got.TotalPoints)
}

func TestCorruptEntryFallsThrough(t *testing.T) {
	s := New(t.TempDir())
	s.Set(keyPointsCurrent+"W1", []byte(`{"totalPoints": broken`))
	s.Set(keyPointsSimple+"W1", []byte("250"))

	got, ok := s.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(250), got.TotalPoints)
}

func TestReadMissReturnsNotOK(t *testing.T) {
	s := New(t.TempDir())
	_, ok := s.ReadPoints("unknown")
	require.False(t, ok)
}

func TestWriteRefreshesLegacyKeys(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.WritePoints("W1", models.PointsState{TotalPoints: 155})

	raw, ok := s.Get(keyPointsSimple + "W1")
	require.True(t, ok)
	require.Equal(t, "155", string(raw))
	raw, ok = s.Get(keyPointsEmergency + "W1")
	require.True(t, ok)
	require.Equal(t, "155", string(raw))
	_, ok = s.Get(keyPointsBackup + "W1")
	require.True(t, ok)
}

func TestDisabledStoreIsSilent(t *testing.T) {
	s := New("")
	require.False(t, s.Available())
	s.WritePoints("W1", models.PointsState{TotalPoints: 155}) // must not panic
	_, ok := s.ReadPoints("W1")
	require.False(t, ok)
}

func TestSanitizeKeepsFilesInsideDir(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.Set("../escape", []byte("x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.Equal(t, filepath.Base(e.Name()), e.Name())
	}
	_, ok := s.Get("../escape")
	require.True(t, ok)
}

func TestPostsCacheRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	posts := []models.Post{{ID: "p1", Content: "gm", AuthorWallet: "W1"}}
	s.WritePosts(posts)

	got, ok := s.ReadPosts()
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ID)

	raw, ok := s.Get(keyPostIDs)
	require.True(t, ok)
	require.Contains(t, string(raw), "p1")
}
