package repositoryImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valeria115/VK-chat-bot/database"
	"github.com/Valeria115/VK-chat-bot/entities"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

func newTestRepo(t *testing.T) repository.KBRepository {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	return New(db)
}

func TestReplaceAllExactness(t *testing.T) {
	r := newTestRepo(t)
	now := time.Now().Truncate(time.Second)

	first := []entities.KnowledgeRecord{
		{Title: "old a", Content: "a", SourceURL: "u1", Embedding: []byte{1, 0, 0, 0}, LastUpdated: now},
		{Title: "old b", Content: "b", SourceURL: "u2", Embedding: []byte{2, 0, 0, 0}, LastUpdated: now},
		{Title: "old c", Content: "c", SourceURL: "u3", LastUpdated: now},
	}
	require.NoError(t, r.ReplaceAll(first))

	second := []entities.KnowledgeRecord{
		{Title: "new a", Content: "na", SourceURL: "u1", Embedding: []byte{3, 0, 0, 0}, LastUpdated: now},
	}
	require.NoError(t, r.ReplaceAll(second))

	got, err := r.AllRecords()
	require.NoError(t, err)
	require.Len(t, got, 1, "replace must leave exactly the inserted set")
	assert.Equal(t, "new a", got[0].Title)
	assert.Equal(t, []byte{3, 0, 0, 0}, got[0].Embedding)

	n, err := r.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestReplaceAllWithEmptySet(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.ReplaceAll([]entities.KnowledgeRecord{{Title: "x", Content: "c"}}))
	require.NoError(t, r.ReplaceAll(nil))

	got, err := r.AllRecords()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetaRoundTrip(t *testing.T) {
	r := newTestRepo(t)

	_, ok, err := r.GetMeta("last_updated")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetMeta("last_updated", "2026-01-01T00:00:00Z"))
	v, ok, err := r.GetMeta("last_updated")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2026-01-01T00:00:00Z", v)

	// upsert overwrites
	require.NoError(t, r.SetMeta("last_updated", "2026-02-01T00:00:00Z"))
	v, ok, err = r.GetMeta("last_updated")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2026-02-01T00:00:00Z", v)
}
