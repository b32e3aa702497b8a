package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Student is a person enrolled at the school
type Student struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Major     string   `json:"major,omitempty" yaml:"major,omitempty"`
	Year      int      `json:"year,omitempty" yaml:"year,omitempty"`
	CourseIDs []string `json:"course_ids,omitempty" yaml:"course_ids,omitempty"`
}

// NewStudent creates a student with the given identity and name
func NewStudent(id, name string) *Student {
	return &Student{
		ID:   id,
		Name: name,
	}
}

// Clone returns a deep copy of the student. An empty course list is
// returned as nil, the form every backend reads it back as.
func (s Student) Clone() Student {
	if len(s.CourseIDs) == 0 {
		s.CourseIDs = nil
		return s
	}
	s.CourseIDs = slices.Clone(s.CourseIDs)
	return s
}

// Validate checks that the student can be stored and looked up
func (s Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("student ID is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("student name is required")
	}
	if s.Year < 0 {
		return fmt.Errorf("student year must not be negative")
	}
	return nil
}

// EnrolledIn reports whether the student lists the course
func (s Student) EnrolledIn(courseID string) bool {
	return slices.Contains(s.CourseIDs, courseID)
}
