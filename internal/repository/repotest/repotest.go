// Package repotest holds the conformance suite for repository backends.
//
// Every backend runs Run to prove it behaves like every other backend, and
// durable backends also run RunDurable to prove saved data can be
// reconstructed.
package repotest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/domain"
	"registrar/internal/repository"
)

// Factory opens a fresh, empty backend using the given duplicate policy
type Factory func(t *testing.T, policy repository.DuplicatePolicy) repository.Backend

// Reopener prepares a fresh storage location and returns a function that
// opens a backend on it. Each call of the returned function opens the same
// location again.
type Reopener func(t *testing.T) func() repository.Backend

// Run exercises the DataManager contract against backends built by open
func Run(t *testing.T, open Factory) {
	t.Helper()

	newRepo := func(t *testing.T, policy repository.DuplicatePolicy) repository.Backend {
		t.Helper()
		repo := open(t, policy)
		t.Cleanup(func() {
			assert.NoError(t, repo.Close())
		})
		return repo
	}

	t.Run("added entities are retrievable", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		student := SampleStudent()
		course := SampleCourse()
		teacher := SampleTeacher()
		secretary := SampleSecretary()

		repo.AddStudent(student)
		repo.AddCourse(course)
		repo.AddTeacher(teacher)
		repo.AddSecretary(secretary)

		gotStudent := repo.GetStudentByID(student.ID)
		require.NotNil(t, gotStudent)
		assert.Equal(t, student, *gotStudent)

		gotCourse := repo.GetCourseByID(course.ID)
		require.NotNil(t, gotCourse)
		assert.Equal(t, course, *gotCourse)

		gotTeacher := repo.GetTeacherByID(teacher.ID)
		require.NotNil(t, gotTeacher)
		assert.Equal(t, teacher, *gotTeacher)

		gotSecretary := repo.GetSecretaryByID(secretary.ID)
		require.NotNil(t, gotSecretary)
		assert.Equal(t, secretary, *gotSecretary)
	})

	t.Run("unknown IDs are not found", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		repo.AddStudent(SampleStudent())

		assert.Nil(t, repo.GetStudentByID("missing"))
		assert.Nil(t, repo.GetCourseByID("S1"))
		assert.Nil(t, repo.GetTeacherByID(""))
		assert.Nil(t, repo.GetSecretaryByID("SEC1"))
	})

	t.Run("empty backend enumerates nothing", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)

		assert.Empty(t, repo.GetAllStudents())
		assert.Empty(t, repo.GetAllCourses())
		assert.Empty(t, repo.GetAllTeachers())
	})

	t.Run("get all returns every ID regardless of order", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		for _, id := range []string{"c", "a", "b"} {
			repo.AddStudent(domain.Student{ID: id, Name: "student " + id})
			repo.AddCourse(domain.Course{ID: id, Title: "course " + id})
			repo.AddTeacher(domain.Teacher{ID: id, Name: "teacher " + id})
		}

		want := []string{"a", "b", "c"}
		assert.ElementsMatch(t, want, StudentIDs(repo.GetAllStudents()))
		assert.ElementsMatch(t, want, CourseIDs(repo.GetAllCourses()))
		assert.ElementsMatch(t, want, TeacherIDs(repo.GetAllTeachers()))
	})

	t.Run("IDs are unique per kind only", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		repo.AddStudent(domain.Student{ID: "X1", Name: "Ada"})
		repo.AddCourse(domain.Course{ID: "X1", Title: "Logic"})
		repo.AddTeacher(domain.Teacher{ID: "X1", Name: "Boole"})
		repo.AddSecretary(domain.Secretary{ID: "X1", Name: "Joan"})

		require.NotNil(t, repo.GetStudentByID("X1"))
		require.NotNil(t, repo.GetCourseByID("X1"))
		require.NotNil(t, repo.GetTeacherByID("X1"))
		require.NotNil(t, repo.GetSecretaryByID("X1"))
		assert.Equal(t, "Ada", repo.GetStudentByID("X1").Name)
		assert.Equal(t, "Logic", repo.GetCourseByID("X1").Title)
	})

	t.Run("snapshot is not a live view", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		repo.AddStudent(domain.Student{ID: "S1", Name: "Ada"})
		repo.AddCourse(domain.Course{ID: "C1", Title: "Logic"})
		repo.AddTeacher(domain.Teacher{ID: "T1", Name: "Boole"})

		students := repo.GetAllStudents()
		courses := repo.GetAllCourses()
		teachers := repo.GetAllTeachers()

		repo.AddStudent(domain.Student{ID: "S2", Name: "Grace"})
		repo.AddCourse(domain.Course{ID: "C2", Title: "Sets"})
		repo.AddTeacher(domain.Teacher{ID: "T2", Name: "Cantor"})

		assert.Equal(t, []string{"S1"}, StudentIDs(students))
		assert.Equal(t, []string{"C1"}, CourseIDs(courses))
		assert.Equal(t, []string{"T1"}, TeacherIDs(teachers))
		assert.Len(t, repo.GetAllStudents(), 2)
	})

	t.Run("returned entities do not alias storage", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		student := SampleStudent()
		repo.AddStudent(student)

		// Mutating the caller's value after the add
		student.CourseIDs[0] = "mutated"
		student.Name = "mutated"

		got := repo.GetStudentByID("S1")
		require.NotNil(t, got)
		assert.Equal(t, SampleStudent(), *got)

		// Mutating a lookup result
		got.Name = "changed"
		got.CourseIDs[0] = "changed"
		assert.Equal(t, SampleStudent(), *repo.GetStudentByID("S1"))

		// Mutating a snapshot
		all := repo.GetAllStudents()
		all[0].CourseIDs[0] = "changed"
		assert.Equal(t, SampleStudent(), *repo.GetStudentByID("S1"))
	})

	t.Run("empty IDs are rejected", func(t *testing.T) {
		repo := newRepo(t, repository.OverwriteDuplicates)
		repo.AddStudent(domain.Student{Name: "No ID"})
		repo.AddCourse(domain.Course{Title: "No ID"})
		repo.AddTeacher(domain.Teacher{Name: "No ID"})
		repo.AddSecretary(domain.Secretary{Name: "No ID"})

		assert.Empty(t, repo.GetAllStudents())
		assert.Empty(t, repo.GetAllCourses())
		assert.Empty(t, repo.GetAllTeachers())
		assert.Nil(t, repo.GetSecretaryByID(""))
	})

	t.Run("reject policy keeps the first entity", func(t *testing.T) {
		for trial := 0; trial < 3; trial++ {
			repo := newRepo(t, repository.RejectDuplicates)
			repo.AddStudent(domain.Student{ID: "S1", Name: "First"})
			repo.AddStudent(domain.Student{ID: "S1", Name: "Second"})
			repo.AddSecretary(domain.Secretary{ID: "SEC1", Name: "First"})
			repo.AddSecretary(domain.Secretary{ID: "SEC1", Name: "Second"})

			require.NotNil(t, repo.GetStudentByID("S1"))
			assert.Equal(t, "First", repo.GetStudentByID("S1").Name)
			assert.Len(t, repo.GetAllStudents(), 1)
			assert.Equal(t, "First", repo.GetSecretaryByID("SEC1").Name)
		}
	})

	t.Run("overwrite policy keeps the last entity", func(t *testing.T) {
		for trial := 0; trial < 3; trial++ {
			repo := newRepo(t, repository.OverwriteDuplicates)
			repo.AddStudent(domain.Student{ID: "S1", Name: "First"})
			repo.AddStudent(domain.Student{ID: "S2", Name: "Other"})
			repo.AddStudent(domain.Student{ID: "S1", Name: "Second"})
			repo.AddCourse(domain.Course{ID: "C1", Title: "First"})
			repo.AddCourse(domain.Course{ID: "C1", Title: "Second"})

			require.NotNil(t, repo.GetStudentByID("S1"))
			assert.Equal(t, "Second", repo.GetStudentByID("S1").Name)
			assert.ElementsMatch(t, []string{"S1", "S2"}, StudentIDs(repo.GetAllStudents()))
			assert.Equal(t, "Second", repo.GetCourseByID("C1").Title)
			assert.Len(t, repo.GetAllCourses(), 1)
		}
	})

	t.Run("save is idempotent", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		AddSampleData(repo)

		first := repo.SaveData()
		second := repo.SaveData()
		assert.True(t, first)
		assert.Equal(t, first, second)
	})

	t.Run("save of an empty backend succeeds", func(t *testing.T) {
		repo := newRepo(t, repository.RejectDuplicates)
		assert.True(t, repo.SaveData())
	})

	t.Run("close is repeatable", func(t *testing.T) {
		repo := open(t, repository.RejectDuplicates)
		require.NoError(t, repo.Close())
		assert.NoError(t, repo.Close())
	})
}

// RunDurable checks that data saved through one backend instance can be
// reconstructed by a fresh instance opened on the same storage
func RunDurable(t *testing.T, prepare Reopener) {
	t.Helper()

	t.Run("saved data is reconstructed", func(t *testing.T) {
		open := prepare(t)

		repo := open()
		AddSampleData(repo)
		require.True(t, repo.SaveData())
		require.NoError(t, repo.Close())

		reopened := open()
		defer reopened.Close()

		AssertSampleData(t, reopened)
	})

	t.Run("unsaved data is not persisted", func(t *testing.T) {
		open := prepare(t)

		repo := open()
		repo.AddStudent(domain.Student{ID: "S1", Name: "Saved"})
		require.True(t, repo.SaveData())
		repo.AddStudent(domain.Student{ID: "S2", Name: "Unsaved"})
		require.NoError(t, repo.Close())

		reopened := open()
		defer reopened.Close()

		assert.NotNil(t, reopened.GetStudentByID("S1"))
		assert.Nil(t, reopened.GetStudentByID("S2"))
	})

	t.Run("repeated saves reconstruct the same data", func(t *testing.T) {
		open := prepare(t)

		repo := open()
		AddSampleData(repo)
		require.True(t, repo.SaveData())
		require.True(t, repo.SaveData())
		require.NoError(t, repo.Close())

		reopened := open()
		defer reopened.Close()
		AssertSampleData(t, reopened)
		assert.Len(t, reopened.GetAllStudents(), 1)
	})

	t.Run("empty course list reconstructs equal", func(t *testing.T) {
		open := prepare(t)

		repo := open()
		repo.AddStudent(domain.Student{ID: "S3", Name: "Grace Hopper", CourseIDs: []string{}})
		before := repo.GetStudentByID("S3")
		require.NotNil(t, before)
		require.True(t, repo.SaveData())
		require.NoError(t, repo.Close())

		reopened := open()
		defer reopened.Close()

		after := reopened.GetStudentByID("S3")
		require.NotNil(t, after)
		assert.Equal(t, *before, *after)
	})

	t.Run("reopened backend accepts more data", func(t *testing.T) {
		open := prepare(t)

		repo := open()
		AddSampleData(repo)
		require.True(t, repo.SaveData())
		require.NoError(t, repo.Close())

		second := open()
		second.AddCourse(domain.Course{ID: "C2", Title: "Geometry", Credits: 3, TeacherID: "T1"})
		require.True(t, second.SaveData())
		require.NoError(t, second.Close())

		third := open()
		defer third.Close()
		AssertSampleData(t, third)
		assert.ElementsMatch(t, []string{"C1", "C2"}, CourseIDs(third.GetAllCourses()))
	})
}

// SampleStudent returns the student used by the scenario tests
func SampleStudent() domain.Student {
	return domain.Student{
		ID:        "S1",
		Name:      "Ada Lovelace",
		Major:     "Mathematics",
		Year:      2,
		CourseIDs: []string{"C1"},
	}
}

// SampleCourse returns the course used by the scenario tests
func SampleCourse() domain.Course {
	return domain.Course{ID: "C1", Title: "Analytical Engines", Credits: 5, TeacherID: "T1"}
}

// SampleTeacher returns the teacher used by the scenario tests
func SampleTeacher() domain.Teacher {
	return domain.Teacher{ID: "T1", Name: "Charles Babbage", Department: "Engineering"}
}

// SampleSecretary returns the secretary used by the scenario tests
func SampleSecretary() domain.Secretary {
	return domain.Secretary{ID: "SEC1", Name: "Mary Somerville", Office: "B-12"}
}

// AddSampleData adds one entity of each kind
func AddSampleData(repo repository.DataManager) {
	repo.AddStudent(SampleStudent())
	repo.AddCourse(SampleCourse())
	repo.AddTeacher(SampleTeacher())
	repo.AddSecretary(SampleSecretary())
}

// AssertSampleData checks that every sample entity is present and unchanged
func AssertSampleData(t *testing.T, repo repository.DataManager) {
	t.Helper()

	student := repo.GetStudentByID("S1")
	require.NotNil(t, student, "student S1")
	assert.Equal(t, SampleStudent(), *student)

	course := repo.GetCourseByID("C1")
	require.NotNil(t, course, "course C1")
	assert.Equal(t, SampleCourse(), *course)

	teacher := repo.GetTeacherByID("T1")
	require.NotNil(t, teacher, "teacher T1")
	assert.Equal(t, SampleTeacher(), *teacher)

	secretary := repo.GetSecretaryByID("SEC1")
	require.NotNil(t, secretary, "secretary SEC1")
	assert.Equal(t, SampleSecretary(), *secretary)
}

// StudentIDs extracts IDs in slice order
func StudentIDs(students []domain.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}

// CourseIDs extracts IDs in slice order
func CourseIDs(courses []domain.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

// TeacherIDs extracts IDs in slice order
func TeacherIDs(teachers []domain.Teacher) []string {
	ids := make([]string, 0, len(teachers))
	for _, tc := range teachers {
		ids = append(ids, tc.ID)
	}
	return ids
}
