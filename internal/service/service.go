package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"registrar/internal/domain"
	"registrar/internal/repository"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
	ErrSaveFailed  = errors.New("save failed")
	ErrInvalid     = errors.New("invalid entity")
)

// Registrar provides validated access to the registry
type Registrar struct {
	repo     repository.DataManager
	eventBus *EventBus
	logger   *zap.Logger
}

// NewRegistrar creates a registrar over repo. A nil eventBus disables events.
func NewRegistrar(repo repository.DataManager, eventBus *EventBus, logger *zap.Logger) *Registrar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registrar{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// AddStudent stores a new student
func (s *Registrar) AddStudent(student domain.Student) error {
	if err := student.Validate(); err != nil {
		return invalid(domain.KindStudent, err)
	}
	if s.repo.GetStudentByID(student.ID) != nil {
		return duplicate(domain.KindStudent, student.ID)
	}
	for _, courseID := range student.CourseIDs {
		if s.repo.GetCourseByID(courseID) == nil {
			s.logger.Warn("student enrolled in unknown course",
				zap.String("id", student.ID),
				zap.String("course_id", courseID))
		}
	}

	s.repo.AddStudent(student)
	s.publish(EventStudentAdded, student.ID)
	return nil
}

// AddCourse stores a new course
func (s *Registrar) AddCourse(course domain.Course) error {
	if err := course.Validate(); err != nil {
		return invalid(domain.KindCourse, err)
	}
	if s.repo.GetCourseByID(course.ID) != nil {
		return duplicate(domain.KindCourse, course.ID)
	}
	if course.TeacherID != "" && s.repo.GetTeacherByID(course.TeacherID) == nil {
		s.logger.Warn("course taught by unknown teacher",
			zap.String("id", course.ID),
			zap.String("teacher_id", course.TeacherID))
	}

	s.repo.AddCourse(course)
	s.publish(EventCourseAdded, course.ID)
	return nil
}

// AddTeacher stores a new teacher
func (s *Registrar) AddTeacher(teacher domain.Teacher) error {
	if err := teacher.Validate(); err != nil {
		return invalid(domain.KindTeacher, err)
	}
	if s.repo.GetTeacherByID(teacher.ID) != nil {
		return duplicate(domain.KindTeacher, teacher.ID)
	}

	s.repo.AddTeacher(teacher)
	s.publish(EventTeacherAdded, teacher.ID)
	return nil
}

// AddSecretary stores a new secretary
func (s *Registrar) AddSecretary(secretary domain.Secretary) error {
	if err := secretary.Validate(); err != nil {
		return invalid(domain.KindSecretary, err)
	}
	if s.repo.GetSecretaryByID(secretary.ID) != nil {
		return duplicate(domain.KindSecretary, secretary.ID)
	}

	s.repo.AddSecretary(secretary)
	s.publish(EventSecretaryAdded, secretary.ID)
	return nil
}

// Student retrieves a student by ID
func (s *Registrar) Student(id string) (*domain.Student, error) {
	return lookup(domain.KindStudent, id, s.repo.GetStudentByID)
}

// Course retrieves a course by ID
func (s *Registrar) Course(id string) (*domain.Course, error) {
	return lookup(domain.KindCourse, id, s.repo.GetCourseByID)
}

// Teacher retrieves a teacher by ID
func (s *Registrar) Teacher(id string) (*domain.Teacher, error) {
	return lookup(domain.KindTeacher, id, s.repo.GetTeacherByID)
}

// Secretary retrieves a secretary by ID
func (s *Registrar) Secretary(id string) (*domain.Secretary, error) {
	return lookup(domain.KindSecretary, id, s.repo.GetSecretaryByID)
}

// Students returns every student ordered by ID
func (s *Registrar) Students() []domain.Student {
	students := s.repo.GetAllStudents()
	slices.SortFunc(students, func(a, b domain.Student) int { return strings.Compare(a.ID, b.ID) })
	return students
}

// Courses returns every course ordered by ID
func (s *Registrar) Courses() []domain.Course {
	courses := s.repo.GetAllCourses()
	slices.SortFunc(courses, func(a, b domain.Course) int { return strings.Compare(a.ID, b.ID) })
	return courses
}

// Teachers returns every teacher ordered by ID
func (s *Registrar) Teachers() []domain.Teacher {
	teachers := s.repo.GetAllTeachers()
	slices.SortFunc(teachers, func(a, b domain.Teacher) int { return strings.Compare(a.ID, b.ID) })
	return teachers
}

// CourseRoster returns the students enrolled in a course, ordered by ID
func (s *Registrar) CourseRoster(courseID string) ([]domain.Student, error) {
	if _, err := s.Course(courseID); err != nil {
		return nil, err
	}

	roster := make([]domain.Student, 0)
	for _, student := range s.Students() {
		if student.EnrolledIn(courseID) {
			roster = append(roster, student)
		}
	}
	return roster, nil
}

// TeacherCourses returns the courses a teacher gives, ordered by ID
func (s *Registrar) TeacherCourses(teacherID string) ([]domain.Course, error) {
	if _, err := s.Teacher(teacherID); err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0)
	for _, course := range s.Courses() {
		if course.TeacherID == teacherID {
			courses = append(courses, course)
		}
	}
	return courses, nil
}

// Save persists the registry through the backend
func (s *Registrar) Save() error {
	if !s.repo.SaveData() {
		s.publish(EventSaveFailed, "")
		return ErrSaveFailed
	}
	s.publish(EventDataSaved, "")
	return nil
}

func (s *Registrar) publish(t EventType, id string) {
	event := Event{Type: t}
	if id != "" {
		event.Payload = map[string]string{"id": id}
	}
	s.eventBus.Publish(event)
}

func lookup[T any](kind domain.Kind, id string, get func(string) *T) (*T, error) {
	if v := get(id); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func invalid(kind domain.Kind, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalid, kind, err)
}

func duplicate(kind domain.Kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrDuplicateID)
}
