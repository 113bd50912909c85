package repositories

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(title string, categoryID int, createdAt time.Time) *models.Post {
	return &models.Post{
		Title:      title,
		Content:    "Content of " + title,
		AuthorID:   1,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
	}
}

func TestPostRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	t.Run("create assigns id and slug", func(t *testing.T) {
		post := newTestPost("Hello World", 1, time.Now())
		require.NoError(t, repo.Create(post))
		assert.Greater(t, post.ID, 0)
		assert.Equal(t, "hello-world", post.Slug)

		got, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello World", got.Title)
	})

	t.Run("get by slug", func(t *testing.T) {
		got, err := repo.GetBySlug("hello-world")
		require.NoError(t, err)
		assert.Equal(t, "Hello World", got.Title)

		_, err = repo.GetBySlug("no-such-slug")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate title gets suffixed slug", func(t *testing.T) {
		post := newTestPost("Hello World", 1, time.Now())
		require.NoError(t, repo.Create(post))
		assert.Equal(t, fmt.Sprintf("hello-world-%d", post.ID), post.Slug)
	})

	t.Run("update moves slug index", func(t *testing.T) {
		post := newTestPost("Old Title", 1, time.Now())
		require.NoError(t, repo.Create(post))

		post.Slug = "new-title"
		require.NoError(t, repo.Update(post))

		got, err := repo.GetBySlug("new-title")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)

		_, err = repo.GetBySlug("old-title")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes post and slug", func(t *testing.T) {
		post := newTestPost("Doomed", 1, time.Now())
		require.NoError(t, repo.Create(post))
		require.NoError(t, repo.Delete(post.ID))

		_, err := repo.GetByID(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetBySlug("doomed")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete(post.ID), ErrNotFound)
	})
}

func TestPostRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	base := time.Now().Add(-25 * time.Hour)
	for i := 1; i <= 25; i++ {
		categoryID := 1
		if i%5 == 0 {
			categoryID = 2
		}
		post := newTestPost(fmt.Sprintf("Post %02d", i), categoryID, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(post))
	}

	t.Run("pagination window and total", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Len(t, posts, 5)
	})

	t.Run("newest first", func(t *testing.T) {
		posts, _, err := repo.List(PostFilter{Limit: 3})
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "Post 25", posts[0].Title)
		assert.Equal(t, "Post 24", posts[1].Title)
		assert.Equal(t, "Post 23", posts[2].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{CategoryID: 2, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		for _, post := range posts {
			assert.Equal(t, 2, post.CategoryID)
		}
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{Query: "post 07", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, posts, 1)
		assert.Equal(t, "Post 07", posts[0].Title)
	})

	t.Run("search matches content", func(t *testing.T) {
		_, total, err := repo.List(PostFilter{Query: "CONTENT OF POST 03", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("search and category combine", func(t *testing.T) {
		_, total, err := repo.List(PostFilter{Query: "post", CategoryID: 2, Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
	})

	t.Run("offset past the end", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{Limit: 10, Offset: 100})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Empty(t, posts)
	})
}

func TestPostRepositoryMutations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	post := newTestPost("Mutable", 1, time.Now())
	require.NoError(t, repo.Create(post))

	t.Run("increment views", func(t *testing.T) {
		require.NoError(t, repo.IncrementViews(post.ID))
		require.NoError(t, repo.IncrementViews(post.ID))

		got, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ViewCount)
	})

	t.Run("append comments in order", func(t *testing.T) {
		first := &models.Comment{UserID: 1, Content: "first"}
		second := &models.Comment{UserID: 2, Content: "second"}
		require.NoError(t, repo.AppendComment(post.ID, first))
		require.NoError(t, repo.AppendComment(post.ID, second))

		got, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		require.Len(t, got.Comments, 2)
		assert.Equal(t, "first", got.Comments[0].Content)
		assert.Equal(t, "second", got.Comments[1].Content)
		assert.Equal(t, 1, got.Comments[0].ID)
		assert.Equal(t, 2, got.Comments[1].ID)
	})

	t.Run("concurrent appends all survive", func(t *testing.T) {
		target := newTestPost("Busy", 1, time.Now())
		require.NoError(t, repo.Create(target))

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				comment := &models.Comment{UserID: n + 1, Content: fmt.Sprintf("c%d", n)}
				assert.NoError(t, repo.AppendComment(target.ID, comment))
			}(i)
		}
		wg.Wait()

		got, err := repo.GetByID(target.ID)
		require.NoError(t, err)
		assert.Len(t, got.Comments, 4)
	})

	t.Run("append to missing post", func(t *testing.T) {
		err := repo.AppendComment(999, &models.Comment{UserID: 1, Content: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
