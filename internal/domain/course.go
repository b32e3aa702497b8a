package domain

import (
	"fmt"
	"strings"
)

// Course is a unit of teaching offered by the school
type Course struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Credits   int    `json:"credits,omitempty" yaml:"credits,omitempty"`
	TeacherID string `json:"teacher_id,omitempty" yaml:"teacher_id,omitempty"`
}

// NewCourse creates a course with the given identity and title
func NewCourse(id, title string) *Course {
	return &Course{
		ID:    id,
		Title: title,
	}
}

// Clone returns a copy of the course
func (c Course) Clone() Course {
	return c
}

// Validate checks that the course can be stored and looked up
func (c Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("course ID is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("course title is required")
	}
	if c.Credits < 0 {
		return fmt.Errorf("course credits must not be negative")
	}
	return nil
}
