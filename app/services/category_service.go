package services

import (
	"errors"
	"fmt"
	"strings"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CategoryService lists, creates and resolves categories
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List retrieves all categories sorted by name
func (s *CategoryService) List() ([]*models.Category, error) {
	return s.categoryRepo.List()
}

// Create creates a category explicitly, failing on a duplicate name
func (s *CategoryService) Create(name, description string) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Description: description,
	}
	category.BeforeCreate()
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("%w: category already exists", ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

// Resolve maps a category ID or free-text name to a category ID,
// creating the category when the name is new. The second return value
// reports whether a category was created, making the write side effect
// observable.
//
// Numeric input is treated as an ID and must exist. Free text is trimmed
// and matched exactly against stored names; no case folding, so "Tech"
// and "tech" resolve to distinct categories.
func (s *CategoryService) Resolve(input string) (int, bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false, fmt.Errorf("%w: category is required", ErrValidation)
	}

	if id, ok := repositories.ParseID(input); ok {
		if _, err := s.categoryRepo.GetByID(id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, false, fmt.Errorf("%w: category %d", ErrNotFound, id)
			}
			return 0, false, err
		}
		return id, false, nil
	}

	category, err := s.categoryRepo.GetByName(input)
	if err == nil {
		return category.ID, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, false, err
	}

	created := &models.Category{Name: input}
	created.BeforeCreate()
	if err := created.Validate(); err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	err = s.categoryRepo.Create(created)
	if err == nil {
		return created.ID, true, nil
	}
	if !errors.Is(err, repositories.ErrConflict) {
		return 0, false, err
	}

	// Lost the race to a concurrent creator; collapse onto the winner.
	category, err = s.categoryRepo.GetByName(input)
	if err != nil {
		return 0, false, err
	}
	return category.ID, false, nil
}
