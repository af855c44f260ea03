package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makebuilder/internal/section"
)

func openTestDB(t *testing.T) *SectionRepo {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "builder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSectionRepo(db, 42)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "builder.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSectionRepo_SaveList(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	require.NoError(t, repo.Save(ctx, section.Section{Type: "banner", Number: 2, Fields: map[string]string{"title": "Two"}}, 1))
	require.NoError(t, repo.Save(ctx, section.Section{Type: "text", Number: 1}, 0))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Number)
	assert.Equal(t, "text", got[0].Type)
	assert.Empty(t, got[0].Fields)
	assert.Equal(t, "Two", got[1].Field("title"))
}

func TestSectionRepo_ScopedByPage(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	other := NewSectionRepo(repo.db, 7)

	require.NoError(t, repo.Save(ctx, section.Section{Type: "text", Number: 1}, 0))

	got, err := other.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSectionRepo_DeleteReorderUpdate(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	for i, n := range []int64{10, 20, 30} {
		require.NoError(t, repo.Save(ctx, section.Section{Type: "text", Number: n}, i))
	}

	require.NoError(t, repo.Reorder(ctx, []int64{30, 10, 20}))
	require.NoError(t, repo.Delete(ctx, 10))
	require.NoError(t, repo.UpdateFields(ctx, 20, map[string]string{"content": "body"}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(30), got[0].Number)
	assert.Equal(t, int64(20), got[1].Number)
	assert.Equal(t, "body", got[1].Field("content"))
}

func TestSectionRepo_BacksCollection(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	c := section.NewCollection(repo)

	c.Create(section.Attributes{Type: "text", Number: 1})
	c.Create(section.Attributes{Type: "gallery", Number: 2})
	c.Move(2, -1)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "gallery", got[0].Type)
}

func TestSectionRepo_OrderSurvivesRemoveThenAdd(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	c := section.NewCollection(repo)

	c.Create(section.Attributes{Type: "a", Number: 1})
	c.Create(section.Attributes{Type: "b", Number: 2})
	c.Create(section.Attributes{Type: "c", Number: 3})
	require.True(t, c.Remove(1))
	require.True(t, c.Remove(2))
	c.Create(section.Attributes{Type: "d", Number: 4})

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, types(c.All()))
	assert.Equal(t, types(c.All()), types(got))
}

func TestWithTx_CanceledContext(t *testing.T) {
	repo := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, repo.Reorder(ctx, []int64{1}), context.Canceled)
}

func types(sections []section.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Type
	}
	return out
}

func TestSettingsRepo(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "builder.db"))
	require.NoError(t, err)
	defer db.Close()

	alice := NewSettingsRepo(db, "alice")
	bob := NewSettingsRepo(db, "bob")

	_, ok, err := alice.Get(ctx, "ttfonemt42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, alice.Set(ctx, "ttfonemt42", "c"))
	require.NoError(t, alice.Set(ctx, "ttfonemt42", "c")) // upsert

	v, ok, err := alice.Get(ctx, "ttfonemt42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok, err = bob.Get(ctx, "ttfonemt42")
	require.NoError(t, err)
	assert.False(t, ok, "settings are per user")

	require.NoError(t, alice.Delete(ctx, "ttfonemt42"))
	require.NoError(t, alice.Delete(ctx, "ttfonemt42"))
	_, ok, err = alice.Get(ctx, "ttfonemt42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySettings()

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, map[string]string{"k": "v"}, m.Snapshot())

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}
