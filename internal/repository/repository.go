package repository

import (
	"io"

	"registrar/internal/domain"
)

// DataManager defines the interface every registrar storage backend implements.
//
// Lookups return a copy owned by the caller, or nil when no entity of that
// kind has the ID. Add operations report nothing; rejected input is logged
// by the backend. SaveData is the only operation with a failure signal.
type DataManager interface {
	// Student operations
	AddStudent(student domain.Student)
	GetStudentByID(id string) *domain.Student
	GetAllStudents() []domain.Student

	// Course operations
	AddCourse(course domain.Course)
	GetCourseByID(id string) *domain.Course
	GetAllCourses() []domain.Course

	// Teacher operations
	AddTeacher(teacher domain.Teacher)
	GetTeacherByID(id string) *domain.Teacher
	GetAllTeachers() []domain.Teacher

	// Secretary operations. Secretaries are never enumerated.
	AddSecretary(secretary domain.Secretary)
	GetSecretaryByID(id string) *domain.Secretary

	// SaveData persists all four collections. It returns false when nothing
	// was persisted, in which case previously saved data is left intact.
	SaveData() bool
}

// Backend is a DataManager that holds resources which must be released
type Backend interface {
	DataManager
	io.Closer
}
