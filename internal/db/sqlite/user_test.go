package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/questions/pkg/models"
)

func TestUserStore_SaveAndFind(t *testing.T) {
	store := testStore(t)
	users := NewUserStore(store)
	ctx := context.Background()

	u := models.NewUser("Ned", "Ruggeri")
	require.NoError(t, users.Save(ctx, u))
	assert.Greater(t, u.ID, int64(0))

	found, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u, found)
}

func TestUserStore_Save_Update(t *testing.T) {
	store := testStore(t)
	users := NewUserStore(store)
	ctx := context.Background()

	u := models.NewUser("Ned", "Ruggeri")
	require.NoError(t, users.Save(ctx, u))
	id := u.ID

	u.LName = "Rugger"
	require.NoError(t, users.Save(ctx, u))
	assert.Equal(t, id, u.ID, "update must not change the id")

	// Saving unchanged values leaves the row as it was
	require.NoError(t, users.Save(ctx, u))

	all, err := users.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Rugger", all[0].LName)
}

func TestUserStore_FindByID_NotFound(t *testing.T) {
	store := testStore(t)

	u, err := NewUserStore(store).FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserStore_All(t *testing.T) {
	store := testStore(t)
	seedForum(t, store)

	all, err := NewUserStore(store).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, userIDs(all))
}

func TestUserStore_FindByName(t *testing.T) {
	store := testStore(t)
	seedForum(t, store)
	users := NewUserStore(store)
	ctx := context.Background()

	t.Run("single", func(t *testing.T) {
		m, err := users.FindByName(ctx, "Ned", "Ruggeri")
		require.NoError(t, err)
		assert.Equal(t, models.MatchSingle, m.Kind)
		require.NotNil(t, m.User)
		assert.Equal(t, int64(1), m.User.ID)
	})

	t.Run("many", func(t *testing.T) {
		m, err := users.FindByName(ctx, "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, models.MatchMany, m.Kind)
		assert.Nil(t, m.User)
		assert.Equal(t, []int64{4, 5}, userIDs(m.Users))
	})

	t.Run("none", func(t *testing.T) {
		m, err := users.FindByName(ctx, "Nobody", "Here")
		require.NoError(t, err)
		assert.Equal(t, models.MatchMany, m.Kind)
		assert.Empty(t, m.Users)
	})
}

func TestUserStore_Navigators(t *testing.T) {
	store := testStore(t)
	seedForum(t, store)
	users := NewUserStore(store)
	ctx := context.Background()
	ned := &models.User{ID: 1, FName: "Ned", LName: "Ruggeri"}

	likes, err := users.Likes(ctx, ned)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, int64(10), likes[0].QuestionID)
	assert.Equal(t, int64(1), likes[0].UserID)

	authored, err := users.AuthoredQuestions(ctx, ned)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, questionIDs(authored))

	replies, err := users.AuthoredReplies(ctx, ned)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, replyIDs(replies))

	followed, err := users.FollowedQuestions(ctx, ned)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 12}, questionIDs(followed))
}

func TestUserStore_AverageKarma(t *testing.T) {
	store := testStore(t)
	seedForum(t, store)
	users := NewUserStore(store)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		want   float64
	}{
		// 3 likes over 2 questions
		{name: "author with likes", userID: 1, want: 1.5},
		// Filters by the receiver, not by a fixed author
		{name: "author without likes", userID: 2, want: 0},
		{name: "user without questions", userID: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			karma, err := users.AverageKarma(ctx, &models.User{ID: tt.userID})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, karma, 1e-9)
		})
	}
}

func TestUserStore_AverageKarmaByAuthor(t *testing.T) {
	store := testStore(t)
	seedForum(t, store)

	karma, err := NewUserStore(store).AverageKarmaByAuthor(context.Background())
	require.NoError(t, err)
	require.Len(t, karma, 2)
	assert.Equal(t, int64(1), karma[0].AuthorID)
	assert.InDelta(t, 1.5, karma[0].AverageKarma, 1e-9)
	assert.Equal(t, int64(2), karma[1].AuthorID)
	assert.InDelta(t, 0.0, karma[1].AverageKarma, 1e-9)
}

func TestUserStore_PropagatesStoreErrors(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.DB().Exec(`DROP TABLE question_likes`)
	require.NoError(t, err)

	_, err = NewUserStore(store).AverageKarma(ctx, &models.User{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}
