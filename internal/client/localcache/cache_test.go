package localcache

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dog-breed-social/internal/client/model"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Backend{"memory": NewMemoryBackend(), "sqlite": sq}
}

func TestHistory_CappedMostRecentFirst(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New(b)
			for i := 1; i <= 51; i++ {
				require.NoError(t, c.AddHistory(model.Record{ID: fmt.Sprintf("r-%d", i)}))
			}

			h := c.History()
			require.Len(t, h, MaxHistory)
			assert.Equal(t, "r-51", h[0].ID)
			assert.Equal(t, "r-2", h[len(h)-1].ID, "the oldest entry is evicted")
			for i := 1; i < len(h); i++ {
				assert.NotEqual(t, "r-1", h[i].ID)
			}
		})
	}
}

func TestHistory_ReinsertMovesToFront(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddHistory(model.Record{ID: "a"}))
	require.NoError(t, c.AddHistory(model.Record{ID: "b"}))
	require.NoError(t, c.AddHistory(model.Record{ID: "a", Description: "updated"}))

	h := c.History()
	require.Len(t, h, 2)
	assert.Equal(t, "a", h[0].ID)
	assert.Equal(t, "updated", h[0].Description)

	require.NoError(t, c.RemoveHistory("a"))
	assert.Len(t, c.History(), 1)
}

func TestSetGet_RoundTripIsDeepEqual(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New(b)
			uid := "u-1"
			pid := "p-1"
			rec := model.Record{
				ID:          "r-1",
				ImageURL:    "memory://dog-images/u-1/1.png",
				Results:     []model.Result{{Breed: "Beagle", Percentage: 70, Confidence: 0.9}, {Breed: "Poodle", Percentage: 30, Confidence: 0.8}},
				Description: "a dog",
				CreatedAt:   time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC),
				UserID:      &uid,
				IsPublic:    true,
				PostID:      &pid,
			}
			require.NoError(t, c.Set("some_key", rec))

			var got model.Record
			require.True(t, c.Get("some_key", &got))
			if diff := cmp.Diff(rec, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet_CorruptValueIsAbsent(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Set(KeyHistory, "{not json"))
	require.NoError(t, b.Set(KeyUser, "[]"))

	c := New(b)
	assert.Empty(t, c.History())
	_, ok := c.User()
	assert.False(t, ok)
	assert.Equal(t, DefaultSettings(), c.Settings())
}

func TestTokenAndSession(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "", c.Token())

	require.NoError(t, c.SetToken("tok"))
	require.NoError(t, c.SetUser(model.User{ID: "u-1", Email: "a@example.com"}))
	assert.Equal(t, "tok", c.Token())

	require.NoError(t, c.ClearSession())
	assert.Equal(t, "", c.Token())
	_, ok := c.User()
	assert.False(t, ok)
	assert.Equal(t, "system", c.Theme())
}

func TestUpdateSettings_MergesPartialFields(t *testing.T) {
	c := New(nil)
	dark := "dark"
	_, err := c.UpdateSettings(SettingsPatch{Theme: &dark})
	require.NoError(t, err)

	off := false
	s, err := c.UpdateSettings(SettingsPatch{Notifications: &off})
	require.NoError(t, err)

	assert.Equal(t, Settings{Theme: "dark", Notifications: false, Language: "en"}, s)
	assert.Equal(t, s, c.Settings())
}

func TestSaveDraft_MergesAndOrders(t *testing.T) {
	c := New(nil)
	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	desc := "first"
	tags := []string{"Beagle"}
	_, err := c.SaveDraft("d-1", DraftPatch{Description: &desc, BreedTags: &tags})
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(time.Minute) }
	_, err = c.SaveDraft("d-2", DraftPatch{Description: &desc})
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	media := []string{"memory://x.png"}
	d, err := c.SaveDraft("d-1", DraftPatch{Media: &media})
	require.NoError(t, err)
	assert.Equal(t, "first", d.Description, "omitted fields are kept")
	assert.Equal(t, []string{"Beagle"}, d.BreedTags)
	assert.Equal(t, media, d.Media)

	drafts := c.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "d-1", drafts[0].ID)

	require.NoError(t, c.RemoveDraft("d-1"))
	_, ok := c.Draft("d-1")
	assert.False(t, ok)
}

func TestFavorites(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.SetFavorite(3, true))
	require.NoError(t, c.SetFavorite(1, true))
	require.NoError(t, c.SetFavorite(3, true))
	assert.Equal(t, []int{1, 3}, c.Favorites())

	require.NoError(t, c.SetFavorite(3, false))
	assert.False(t, c.IsFavorite(3))
	assert.True(t, c.IsFavorite(1))
}

func TestSQLiteBackend_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	b, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, New(b).SetToken("tok"))
	require.NoError(t, b.Close())

	b2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer b2.Close()
	assert.Equal(t, "tok", New(b2).Token())

	require.NoError(t, b2.Clear())
	assert.Equal(t, "", New(b2).Token())
}
