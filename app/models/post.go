package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// AddComment appends a comment to the post, assigning it the next position.
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.ID = len(p.Comments) + 1
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	p.Comments = append(p.Comments, *comment)
	return nil
}

// ParseTags splits a comma-separated tag string into a trimmed sequence,
// dropping empty entries.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("tags must be a string or an array of strings")
	}
	*t = ParseTags(s)
	return nil
}

// Published accepts a JSON boolean or the string literals "true"/"false".
// Anything else leaves the flag false.
type Published bool

func (p *Published) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*p = Published(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("isPublished must be a boolean or string")
	}
	*p = Published(s == "true")
	return nil
}
