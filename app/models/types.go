package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The password field holds a bcrypt
// hash and is never serialized.
type User struct {
	ID        int       `json:"id" validate:"gte=0"`
	Name      string    `json:"name" validate:"required,min=2,max=50"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"-" validate:"required"`
	Role      string    `json:"role" validate:"required,oneof=user admin"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the redacted view returned by auth endpoints.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Category groups posts. Names are unique after trimming; matching is
// case-sensitive, so "Tech" and "tech" are distinct categories.
type Category struct {
	ID          int       `json:"id" validate:"gte=0"`
	Name        string    `json:"name" validate:"required,max=50"`
	Description string    `json:"description,omitempty" validate:"max=200"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Post represents a blog post with its embedded comments.
type Post struct {
	ID            int       `json:"id" validate:"gte=0"`
	Title         string    `json:"title" validate:"required,max=100"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content" validate:"required"`
	Excerpt       string    `json:"excerpt,omitempty"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	AuthorID      int       `json:"author" validate:"required,gt=0"`
	CategoryID    int       `json:"category" validate:"required,gt=0"`
	Tags          []string  `json:"tags"`
	IsPublished   bool      `json:"isPublished"`
	ViewCount     int       `json:"viewCount"`
	Comments      []Comment `json:"comments" validate:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Comment lives inside its post document. The ID is the comment's position
// in the sequence, starting at 1.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user" validate:"required,gt=0"`
	Content   string    `json:"content" validate:"required,max=1000"`
	CreatedAt time.Time `json:"createdAt"`
}
