package analyses

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	records []Analysis
}

func (m *memStore) Insert(analysis *Analysis) error {
	m.records = append(m.records, *analysis)
	return nil
}

func (m *memStore) FindByUser(userID string, limit int, savedOnly bool) ([]Analysis, error) {
	var list []Analysis
	for _, a := range m.records {
		if a.UserID != userID {
			continue
		}
		if savedOnly && !a.IsSaved {
			continue
		}
		list = append(list, a)
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *memStore) FindOne(id string, userID string) (*Analysis, error) {
	for _, a := range m.records {
		if a.ID == id && a.UserID == userID {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) ToggleSaved(id string, userID string) (*Analysis, error) {
	for i, a := range m.records {
		if a.ID == id && a.UserID == userID {
			m.records[i].IsSaved = !m.records[i].IsSaved
			found := m.records[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) Delete(userID string, id string) error {
	for i, a := range m.records {
		if a.ID == id && a.UserID == userID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type memBlobs struct {
	deleted []string
	err     error
}

func (b *memBlobs) Delete(ctx context.Context, key string) error {
	b.deleted = append(b.deleted, key)
	return b.err
}

func seedAnalyses(store *memStore, userID string, n int) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		store.Insert(&Analysis{
			ID:        fmt.Sprintf("a%02d", i),
			UserID:    userID,
			ImageURL:  fmt.Sprintf("https://storage.example.com/images/blob-%02d.jpg", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestEnforceUnderLimit(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{}
	seedAnalyses(store, "u1", 5)

	err := NewPolicy(store, blobs).Enforce(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, store.records, 5)
	assert.Empty(t, blobs.deleted)
}

func TestEnforceTrimsOldest(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{}
	seedAnalyses(store, "u1", 12)

	err := NewPolicy(store, blobs).Enforce(context.Background(), "u1")
	require.NoError(t, err)

	remaining, err := store.FindByUser("u1", 0, false)
	require.NoError(t, err)
	require.Len(t, remaining, RetentionLimit)

	// a00 and a01 are the oldest two; both records and blobs must be gone.
	for _, a := range remaining {
		assert.NotEqual(t, "a00", a.ID)
		assert.NotEqual(t, "a01", a.ID)
	}
	assert.ElementsMatch(t, []string{"blob-01.jpg", "blob-00.jpg"}, blobs.deleted)
}

func TestEnforceIdempotent(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{}
	seedAnalyses(store, "u1", 11)

	policy := NewPolicy(store, blobs)
	require.NoError(t, policy.Enforce(context.Background(), "u1"))
	require.Len(t, store.records, RetentionLimit)
	require.Len(t, blobs.deleted, 1)

	require.NoError(t, policy.Enforce(context.Background(), "u1"))
	assert.Len(t, store.records, RetentionLimit)
	assert.Len(t, blobs.deleted, 1)
}

func TestEnforceBlobFailureDoesNotBlockRecordDelete(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{err: errors.New("storage unavailable")}
	seedAnalyses(store, "u1", 12)

	err := NewPolicy(store, blobs).Enforce(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, store.records, RetentionLimit)
}

func TestEnforceScopedToUser(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{}
	seedAnalyses(store, "u1", 12)
	seedAnalyses(store, "u2", 3)

	err := NewPolicy(store, blobs).Enforce(context.Background(), "u1")
	require.NoError(t, err)

	other, err := store.FindByUser("u2", 0, false)
	require.NoError(t, err)
	assert.Len(t, other, 3)
}

// Equal timestamps fall back to id ordering, making the trim deterministic.
func TestEnforceTieBreakByID(t *testing.T) {
	store := &memStore{}
	blobs := &memBlobs{}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		store.Insert(&Analysis{
			ID:        fmt.Sprintf("a%02d", i),
			UserID:    "u1",
			ImageURL:  fmt.Sprintf("https://storage.example.com/images/blob-%02d.jpg", i),
			CreatedAt: ts,
		})
	}

	err := NewPolicy(store, blobs).Enforce(context.Background(), "u1")
	require.NoError(t, err)

	// With identical timestamps the lowest id sorts last and is trimmed.
	gone, err := store.FindOne("a00", "u1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, []string{"blob-00.jpg"}, blobs.deleted)
}
