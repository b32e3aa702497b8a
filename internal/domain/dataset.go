package domain

import "time"

// Kind names one of the four entity collections
type Kind string

const (
	KindStudent   Kind = "student"
	KindCourse    Kind = "course"
	KindTeacher   Kind = "teacher"
	KindSecretary Kind = "secretary"
)

// Kinds lists every entity kind in persistence order
var Kinds = []Kind{KindStudent, KindCourse, KindTeacher, KindSecretary}

// Dataset is the complete set of records a durable backend persists
type Dataset struct {
	SavedAt     time.Time   `json:"saved_at,omitzero" yaml:"saved_at,omitempty"`
	Students    []Student   `json:"students" yaml:"students"`
	Courses     []Course    `json:"courses" yaml:"courses"`
	Teachers    []Teacher   `json:"teachers" yaml:"teachers"`
	Secretaries []Secretary `json:"secretaries" yaml:"secretaries"`
}

// NewDataset creates an empty dataset with non-nil collections
func NewDataset() *Dataset {
	return &Dataset{
		Students:    make([]Student, 0),
		Courses:     make([]Course, 0),
		Teachers:    make([]Teacher, 0),
		Secretaries: make([]Secretary, 0),
	}
}

// Len returns the total number of records across all kinds
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Students) + len(d.Courses) + len(d.Teachers) + len(d.Secretaries)
}

// Normalize replaces nil collections with empty ones
func (d *Dataset) Normalize() {
	if d.Students == nil {
		d.Students = make([]Student, 0)
	}
	if d.Courses == nil {
		d.Courses = make([]Course, 0)
	}
	if d.Teachers == nil {
		d.Teachers = make([]Teacher, 0)
	}
	if d.Secretaries == nil {
		d.Secretaries = make([]Secretary, 0)
	}
}
