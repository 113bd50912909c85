package repositories

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// maxTxnRetries bounds retries of single-document mutations that can lose
// a transaction conflict under concurrent writers.
const maxTxnRetries = 5

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post. Slugs are unique: a taken slug gets the new
// post's ID appended.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		if _, err := lookupIndex(txn, PostSlugKeyPrefix+post.Slug); err == nil {
			post.Slug = fmt.Sprintf("%s-%d", post.Slug, post.ID)
		} else if err != ErrNotFound {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}

		key := []byte(fmt.Sprintf("%s%d", PostKeyPrefix, post.ID))
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return setIndex(txn, PostSlugKeyPrefix+post.Slug, post.ID)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		return getPost(txn, id, &post)
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post through the slug index
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, PostSlugKeyPrefix+slug)
		if err != nil {
			return err
		}
		return getPost(txn, id, &post)
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves the posts matching the filter, newest first, windowed by
// Limit/Offset. The second return value is the total match count before
// windowing.
func (r *BadgerPostRepository) List(filter PostFilter) ([]*models.Post, int, error) {
	var matched []*models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var post models.Post
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %v", err)
			}
			if matchesFilter(&post, filter) {
				matched = append(matched, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*models.Post{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

// Update updates an existing post, moving the slug index if the slug
// changed.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getPost(txn, post.ID, &existing); err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		key := []byte(fmt.Sprintf("%s%d", PostKeyPrefix, post.ID))
		if err := txn.Set(key, data); err != nil {
			return err
		}

		if existing.Slug != post.Slug {
			if err := txn.Delete([]byte(PostSlugKeyPrefix + existing.Slug)); err != nil {
				return err
			}
			return setIndex(txn, PostSlugKeyPrefix+post.Slug, post.ID)
		}
		return nil
	})
}

// Delete deletes a post by ID along with its slug index entry
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var post models.Post
		if err := getPost(txn, id, &post); err != nil {
			return err
		}

		key := []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id))
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete([]byte(PostSlugKeyPrefix + post.Slug))
	})
}

// IncrementViews bumps the view counter by one. Callers treat failures as
// best-effort; a lost increment is acceptable.
func (r *BadgerPostRepository) IncrementViews(id int) error {
	return r.mutatePost(id, func(post *models.Post) error {
		post.ViewCount++
		return nil
	})
}

// AppendComment atomically appends a comment to the post document. The
// conflict-retry loop guarantees concurrent appends both survive.
func (r *BadgerPostRepository) AppendComment(postID int, comment *models.Comment) error {
	return r.mutatePost(postID, func(post *models.Post) error {
		return post.AddComment(comment)
	})
}

// mutatePost applies fn to the stored post inside a transaction, retrying
// on conflict so concurrent single-document mutations serialize instead of
// losing updates.
func (r *BadgerPostRepository) mutatePost(id int, fn func(*models.Post) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = r.db.Update(func(txn *badger.Txn) error {
			var post models.Post
			if err := getPost(txn, id, &post); err != nil {
				return err
			}
			if err := fn(&post); err != nil {
				return err
			}
			data, err := marshalEntity(&post)
			if err != nil {
				return err
			}
			key := []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id))
			return txn.Set(key, data)
		})
		if err != badger.ErrConflict {
			return err
		}
	}
	return err
}

// getPost loads a post record within an open transaction
func getPost(txn *badger.Txn, id int, post *models.Post) error {
	key := []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id))
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, post)
	})
}

// matchesFilter applies the category and substring criteria
func matchesFilter(post *models.Post, filter PostFilter) bool {
	if filter.CategoryID > 0 && post.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(post.Title), q) &&
			!strings.Contains(strings.ToLower(post.Excerpt), q) &&
			!strings.Contains(strings.ToLower(post.Content), q) {
			return false
		}
	}
	return true
}

// ParseID converts a route or query parameter to a record ID. The second
// return value reports whether the input was numeric at all.
func ParseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	return id, err == nil && id > 0
}
