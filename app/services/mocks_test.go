package services

import (
	"sort"
	"strings"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

type mockUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.BeforeCreate()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type mockCategoryRepo struct {
	categories map[int]*models.Category
	nextID     int
	// conflictOnce simulates losing a creation race exactly once.
	conflictOnce bool
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[int]*models.Category), nextID: 1}
}

func (m *mockCategoryRepo) Create(category *models.Category) error {
	category.BeforeCreate()
	if m.conflictOnce {
		m.conflictOnce = false
		m.insert(&models.Category{Name: category.Name})
		return repositories.ErrConflict
	}
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repositories.ErrConflict
		}
	}
	m.insert(category)
	return nil
}

func (m *mockCategoryRepo) insert(category *models.Category) {
	category.ID = m.nextID
	m.nextID++
	m.categories[category.ID] = category
}

func (m *mockCategoryRepo) GetByID(id int) (*models.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return category, nil
}

func (m *mockCategoryRepo) GetByName(name string) (*models.Category, error) {
	for _, category := range m.categories {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockCategoryRepo) List() ([]*models.Category, error) {
	var categories []*models.Category
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

type mockPostRepo struct {
	posts  map[int]*models.Post
	nextID int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int]*models.Post), nextID: 1}
}

func (m *mockPostRepo) Create(post *models.Post) error {
	post.ID = m.nextID
	m.nextID++
	post.BeforeCreate()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(id int) (*models.Post, error) {
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *mockPostRepo) GetBySlug(slug string) (*models.Post, error) {
	for _, post := range m.posts {
		if post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockPostRepo) List(filter repositories.PostFilter) ([]*models.Post, int, error) {
	var matched []*models.Post
	for _, post := range m.posts {
		if filter.CategoryID > 0 && post.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(post.Title), q) &&
				!strings.Contains(strings.ToLower(post.Excerpt), q) &&
				!strings.Contains(strings.ToLower(post.Content), q) {
				continue
			}
		}
		matched = append(matched, post)
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

func (m *mockPostRepo) Update(post *models.Post) error {
	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) Delete(id int) error {
	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) IncrementViews(id int) error {
	post, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	post.ViewCount++
	return nil
}

func (m *mockPostRepo) AppendComment(postID int, comment *models.Comment) error {
	post, exists := m.posts[postID]
	if !exists {
		return repositories.ErrNotFound
	}
	return post.AddComment(comment)
}
