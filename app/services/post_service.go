package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostInput carries the fields of a create or update request. Nil fields
// were not provided and are left untouched on update.
type PostInput struct {
	Title       *string
	Content     *string
	Excerpt     *string
	Category    *string
	Tags        []string
	IsPublished *bool
	Image       *string
}

// Pagination describes a page of a filtered listing.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"limit"`
	Total     int `json:"total"`
	PageCount int `json:"pageCount"`
}

// PostService orchestrates post creation, retrieval and mutation,
// enforcing ownership and role authorization
type PostService struct {
	postRepo        repositories.PostRepository
	categoryService *CategoryService
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, categoryService *CategoryService) *PostService {
	return &PostService{
		postRepo:        postRepo,
		categoryService: categoryService,
	}
}

// List retrieves a filtered, paginated page of posts, newest first. The
// category parameter is ignored unless it is a valid category ID; the
// query matches case-insensitively against title, excerpt or content.
func (s *PostService) List(page, pageSize int, category, query string) ([]*models.Post, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	filter := repositories.PostFilter{
		Query:  strings.TrimSpace(query),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if id, ok := repositories.ParseID(category); ok {
		filter.CategoryID = id
	}

	posts, total, err := s.postRepo.List(filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	meta := Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		PageCount: int(math.Ceil(float64(total) / float64(pageSize))),
	}
	return posts, meta, nil
}

// Get retrieves a post by ID or slug and bumps its view counter. The
// increment is best-effort: a failure to persist it never fails the read.
func (s *PostService) Get(idOrSlug string) (*models.Post, error) {
	var post *models.Post
	var err error

	if id, ok := repositories.ParseID(idOrSlug); ok {
		post, err = s.postRepo.GetByID(id)
	} else {
		post, err = s.postRepo.GetBySlug(idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, err
	}

	post.ViewCount++
	_ = s.postRepo.IncrementViews(post.ID)

	return post, nil
}

// Create creates a post owned by the caller, resolving the category input
// to an ID (creating the category when the name is new).
func (s *PostService) Create(identity Identity, input PostInput) (*models.Post, error) {
	title := deref(input.Title)
	content := deref(input.Content)
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if input.Category == nil || strings.TrimSpace(*input.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}

	categoryID, _, err := s.categoryService.Resolve(*input.Category)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid or missing category", ErrValidation)
		}
		return nil, err
	}

	post := &models.Post{
		Title:         strings.TrimSpace(title),
		Content:       content,
		Excerpt:       deref(input.Excerpt),
		FeaturedImage: deref(input.Image),
		AuthorID:      identity.UserID,
		CategoryID:    categoryID,
		Tags:          input.Tags,
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies the provided fields to an existing post. Only the author
// or an admin may update; the author reference never changes.
func (s *PostService) Update(identity Identity, postID int, input PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, err
	}

	if err := s.authorizeOwner(identity, post); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		post.Content = *input.Content
	}
	if input.Excerpt != nil {
		post.Excerpt = *input.Excerpt
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	if input.Image != nil {
		post.FeaturedImage = *input.Image
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		categoryID, _, err := s.categoryService.Resolve(*input.Category)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: invalid category", ErrValidation)
			}
			return nil, err
		}
		post.CategoryID = categoryID
	}
	post.UpdatedAt = time.Now()

	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete permanently removes a post. Same authorization rule as Update.
func (s *PostService) Delete(identity Identity, postID int) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: post", ErrNotFound)
		}
		return err
	}

	if err := s.authorizeOwner(identity, post); err != nil {
		return err
	}
	return s.postRepo.Delete(postID)
}

// AddComment appends a comment by the caller to the post's comment
// sequence and returns the stored comment.
func (s *PostService) AddComment(identity Identity, postID int, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	comment := &models.Comment{
		UserID:  identity.UserID,
		Content: content,
	}
	if err := s.postRepo.AppendComment(postID, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, err
	}
	return comment, nil
}

// authorizeOwner admits the post's author and admins, nobody else.
func (s *PostService) authorizeOwner(identity Identity, post *models.Post) error {
	if post.AuthorID != identity.UserID && !identity.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
