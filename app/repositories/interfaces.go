package repositories

import "inkwell/app/models"

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id int) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	List() ([]*models.Category, error)
}

// PostFilter narrows a post listing. Zero values mean no filtering; Limit
// and Offset control the page window.
type PostFilter struct {
	CategoryID int
	Query      string
	Limit      int
	Offset     int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	List(filter PostFilter) ([]*models.Post, int, error)
	Update(post *models.Post) error
	Delete(id int) error
	IncrementViews(id int) error
	AppendComment(postID int, comment *models.Comment) error
}
