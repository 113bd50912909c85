package models

import (
	"errors"
	"strings"
	"time"
)

// Validate checks if the category meets all validation requirements
func (c *Category) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation. Names are
// stored trimmed; no case folding is applied.
func (c *Category) BeforeCreate() {
	c.Name = strings.TrimSpace(c.Name)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}
