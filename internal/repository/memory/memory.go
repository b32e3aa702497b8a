// Package memory provides an in-process registrar backend.
//
// The Store keeps every entity kind in a map keyed by ID and returns deep
// copies from all lookups. It is also the working set of the durable
// backends, which load it on open and snapshot it on save.
package memory

import (
	"strings"

	"go.uber.org/zap"

	"registrar/internal/domain"
	"registrar/internal/repository"
)

// Store implements repository.Backend in memory.
//
// Duplicate IDs follow the configured policy: with RejectDuplicates the
// first entity wins and the add is logged at warn level, with
// OverwriteDuplicates the new entity replaces the old one in place.
// Entities with an empty ID are always rejected.
type Store struct {
	logger *zap.Logger
	policy repository.DuplicatePolicy

	students    *collection[domain.Student]
	courses     *collection[domain.Course]
	teachers    *collection[domain.Teacher]
	secretaries *collection[domain.Secretary]

	revision uint64
}

var _ repository.Backend = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for rejected adds
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDuplicatePolicy sets how adds with an existing ID are handled
func WithDuplicatePolicy(policy repository.DuplicatePolicy) Option {
	return func(s *Store) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// New creates an empty in-memory store
func New(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		policy: repository.RejectDuplicates,
		students: newCollection(
			func(v domain.Student) string { return v.ID },
			domain.Student.Clone,
		),
		courses: newCollection(
			func(v domain.Course) string { return v.ID },
			domain.Course.Clone,
		),
		teachers: newCollection(
			func(v domain.Teacher) string { return v.ID },
			domain.Teacher.Clone,
		),
		secretaries: newCollection(
			func(v domain.Secretary) string { return v.ID },
			domain.Secretary.Clone,
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the duplicate policy in effect
func (s *Store) Policy() repository.DuplicatePolicy {
	return s.policy
}

// Revision increases every time an add changes the stored data.
// Durable backends compare it to decide whether data changed since a save.
func (s *Store) Revision() uint64 {
	return s.revision
}

// AddStudent stores a copy of the student
func (s *Store) AddStudent(student domain.Student) {
	s.track(domain.KindStudent, student.ID, func() addResult {
		return s.students.add(student, s.policy)
	})
}

// GetStudentByID returns a copy of the student, or nil if absent
func (s *Store) GetStudentByID(id string) *domain.Student {
	return s.students.get(id)
}

// GetAllStudents returns copies of all students in insertion order
func (s *Store) GetAllStudents() []domain.Student {
	return s.students.all()
}

// AddCourse stores a copy of the course
func (s *Store) AddCourse(course domain.Course) {
	s.track(domain.KindCourse, course.ID, func() addResult {
		return s.courses.add(course, s.policy)
	})
}

// GetCourseByID returns a copy of the course, or nil if absent
func (s *Store) GetCourseByID(id string) *domain.Course {
	return s.courses.get(id)
}

// GetAllCourses returns copies of all courses in insertion order
func (s *Store) GetAllCourses() []domain.Course {
	return s.courses.all()
}

// AddTeacher stores a copy of the teacher
func (s *Store) AddTeacher(teacher domain.Teacher) {
	s.track(domain.KindTeacher, teacher.ID, func() addResult {
		return s.teachers.add(teacher, s.policy)
	})
}

// GetTeacherByID returns a copy of the teacher, or nil if absent
func (s *Store) GetTeacherByID(id string) *domain.Teacher {
	return s.teachers.get(id)
}

// GetAllTeachers returns copies of all teachers in insertion order
func (s *Store) GetAllTeachers() []domain.Teacher {
	return s.teachers.all()
}

// AddSecretary stores a copy of the secretary
func (s *Store) AddSecretary(secretary domain.Secretary) {
	s.track(domain.KindSecretary, secretary.ID, func() addResult {
		return s.secretaries.add(secretary, s.policy)
	})
}

// GetSecretaryByID returns a copy of the secretary, or nil if absent
func (s *Store) GetSecretaryByID(id string) *domain.Secretary {
	return s.secretaries.get(id)
}

// SaveData has no durable target and always succeeds
func (s *Store) SaveData() bool {
	s.logger.Debug("in-memory save", zap.Int("records", s.len()))
	return true
}

// Close releases nothing; the data is dropped with the store
func (s *Store) Close() error {
	return nil
}

// Snapshot copies the stored data into a Dataset
func (s *Store) Snapshot() *domain.Dataset {
	return &domain.Dataset{
		Students:    s.students.all(),
		Courses:     s.courses.all(),
		Teachers:    s.teachers.all(),
		Secretaries: s.secretaries.all(),
	}
}

// Load replaces the stored data with the dataset's records.
// Records are added through the duplicate policy, so a dataset holding the
// same ID twice loads deterministically. The revision is reset to zero.
func (s *Store) Load(data *domain.Dataset) {
	s.students.reset()
	s.courses.reset()
	s.teachers.reset()
	s.secretaries.reset()

	if data != nil {
		for _, v := range data.Students {
			s.AddStudent(v)
		}
		for _, v := range data.Courses {
			s.AddCourse(v)
		}
		for _, v := range data.Teachers {
			s.AddTeacher(v)
		}
		for _, v := range data.Secretaries {
			s.AddSecretary(v)
		}
	}
	s.revision = 0
}

func (s *Store) len() int {
	return s.students.len() + s.courses.len() + s.teachers.len() + s.secretaries.len()
}

// track applies an add unless the ID is empty, logging rejections
func (s *Store) track(kind domain.Kind, id string, add func() addResult) {
	if strings.TrimSpace(id) == "" {
		s.logger.Warn("rejected entity without ID", zap.String("kind", string(kind)))
		return
	}

	switch add() {
	case addInserted:
		s.revision++
	case addReplaced:
		s.revision++
		s.logger.Info("overwrote entity with duplicate ID",
			zap.String("kind", string(kind)), zap.String("id", id))
	case addRejected:
		s.logger.Warn("rejected entity with duplicate ID",
			zap.String("kind", string(kind)), zap.String("id", id),
			zap.Stringer("policy", s.policy))
	}
}
