package prayers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func setupRepo(t *testing.T) *Repository {
	return NewRepository(testutil.StartPostgres(t))
}

func newPrayer(userID, title string, public bool, tags ...string) *models.Prayer {
	return &models.Prayer{
		UserID:   userID,
		Title:    title,
		Content:  title + " content",
		Tags:     pq.StringArray(tags),
		IsPublic: public,
	}
}

func TestRepository_Postgres(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	morning := newPrayer("alice", "Morning offering", true, "morning", "daily")
	morning.Category = strp("daily")
	rosary := newPrayer("bob", "Rosary for peace", true, "rosary")
	secret := newPrayer("alice", "Private intention", false)

	for _, p := range []*models.Prayer{morning, rosary, secret} {
		require.NoError(t, repo.Create(ctx, p))
		require.NotEmpty(t, p.ID)
	}

	t.Run("list public newest first", func(t *testing.T) {
		got, err := repo.ListPublic(ctx, Filters{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, rosary.ID, got[0].ID)
		assert.Equal(t, morning.ID, got[1].ID)
	})

	t.Run("list filters", func(t *testing.T) {
		got, err := repo.ListPublic(ctx, Filters{Category: "daily"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, morning.ID, got[0].ID)

		got, err = repo.ListPublic(ctx, Filters{Search: "PEACE"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, rosary.ID, got[0].ID)

		got, err = repo.ListPublic(ctx, Filters{Tags: []string{"daily", "unknown"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, morning.ID, got[0].ID)

		got, err = repo.ListPublic(ctx, Filters{Search: "intention"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("get respects visibility", func(t *testing.T) {
		_, err := repo.Get(ctx, secret.ID, "")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Get(ctx, secret.ID, "bob")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := repo.Get(ctx, secret.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Private intention", got.Title)

		_, err = repo.Get(ctx, uuid.NewString(), "alice")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Get(ctx, "not-a-uuid", "alice")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update is owner only and partial", func(t *testing.T) {
		_, err := repo.Update(ctx, morning.ID, "bob", Update{Title: strp("Hijacked")})
		assert.ErrorIs(t, err, ErrNotFound)

		private := false
		updated, err := repo.Update(ctx, morning.ID, "alice", Update{Title: strp("Morning prayer"), IsPublic: &private})
		require.NoError(t, err)
		assert.Equal(t, "Morning prayer", updated.Title)
		assert.Equal(t, "Morning offering content", updated.Content)
		assert.False(t, updated.IsPublic)
		assert.ElementsMatch(t, []string{"morning", "daily"}, []string(updated.Tags))

		public := true
		_, err = repo.Update(ctx, morning.ID, "alice", Update{IsPublic: &public})
		require.NoError(t, err)
	})

	t.Run("favorites", func(t *testing.T) {
		require.NoError(t, repo.AddFavorite(ctx, "bob", morning.ID))
		require.NoError(t, repo.AddFavorite(ctx, "bob", morning.ID))
		require.NoError(t, repo.AddFavorite(ctx, "bob", rosary.ID))

		assert.ErrorIs(t, repo.AddFavorite(ctx, "bob", secret.ID), ErrNotFound)

		favs, err := repo.Favorites(ctx, "bob")
		require.NoError(t, err)
		assert.Len(t, favs, 2)

		require.NoError(t, repo.RemoveFavorite(ctx, "bob", morning.ID))
		require.NoError(t, repo.RemoveFavorite(ctx, "bob", morning.ID))

		favs, err = repo.Favorites(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, rosary.ID, favs[0].ID)
	})

	t.Run("list by user", func(t *testing.T) {
		mine, err := repo.ListByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("delete is owner only", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, rosary.ID, "alice"), ErrNotFound)
		require.NoError(t, repo.Delete(ctx, rosary.ID, "bob"))
		assert.ErrorIs(t, repo.Delete(ctx, rosary.ID, "bob"), ErrNotFound)

		favs, err := repo.Favorites(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, favs)
	})
}
