package domain

import (
	"fmt"
	"strings"
)

// Teacher is a member of the teaching staff
type Teacher struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// NewTeacher creates a teacher with the given identity and name
func NewTeacher(id, name string) *Teacher {
	return &Teacher{
		ID:   id,
		Name: name,
	}
}

// Clone returns a copy of the teacher
func (t Teacher) Clone() Teacher {
	return t
}

// Validate checks that the teacher can be stored and looked up
func (t Teacher) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("teacher ID is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("teacher name is required")
	}
	return nil
}

// Secretary is a member of the administrative staff.
// Secretaries are only ever looked up individually.
type Secretary struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Office string `json:"office,omitempty" yaml:"office,omitempty"`
}

// NewSecretary creates a secretary with the given identity and name
func NewSecretary(id, name string) *Secretary {
	return &Secretary{
		ID:   id,
		Name: name,
	}
}

// Clone returns a copy of the secretary
func (s Secretary) Clone() Secretary {
	return s
}

// Validate checks that the secretary can be stored and looked up
func (s Secretary) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("secretary ID is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("secretary name is required")
	}
	return nil
}
