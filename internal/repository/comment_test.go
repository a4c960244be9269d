package repository

import (
	"context"
	"testing"
	"time"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPostNewestFirst(t *testing.T) {
	db := sqliteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, "Hello", time.Now())

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		c := &models.Comment{PostID: post.ID, UserID: author.ID, Content: body, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, c))
	}

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "author", comments[0].User.Username)

	none, err := repo.ListByPost(ctx, post.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}
