package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/domain"
	"registrar/internal/repository"
	"registrar/internal/repository/memory"
	"registrar/internal/repository/repotest"
)

type unsavable struct {
	*memory.Store
}

func (unsavable) SaveData() bool { return false }

func newTestRegistrar(t *testing.T, repo repository.DataManager) (*Registrar, chan Event) {
	t.Helper()
	if repo == nil {
		repo = memory.New()
	}
	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)
	return NewRegistrar(repo, bus, nil), events
}

func drain(ch chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestRegistrarAdd(t *testing.T) {
	t.Run("valid entities are stored and announced", func(t *testing.T) {
		svc, events := newTestRegistrar(t, nil)

		require.NoError(t, svc.AddTeacher(repotest.SampleTeacher()))
		require.NoError(t, svc.AddCourse(repotest.SampleCourse()))
		require.NoError(t, svc.AddStudent(repotest.SampleStudent()))
		require.NoError(t, svc.AddSecretary(repotest.SampleSecretary()))

		got := drain(events)
		require.Len(t, got, 4)
		assert.Equal(t, EventTeacherAdded, got[0].Type)
		assert.Equal(t, EventCourseAdded, got[1].Type)
		assert.Equal(t, EventStudentAdded, got[2].Type)
		assert.Equal(t, EventSecretaryAdded, got[3].Type)
		assert.Equal(t, "S1", got[2].Payload["id"])
	})

	t.Run("duplicates are reported", func(t *testing.T) {
		svc, events := newTestRegistrar(t, nil)
		require.NoError(t, svc.AddStudent(repotest.SampleStudent()))
		drain(events)

		changed := repotest.SampleStudent()
		changed.Name = "Someone Else"
		err := svc.AddStudent(changed)
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.ErrorContains(t, err, "student S1")
		assert.Empty(t, drain(events))

		student, err := svc.Student("S1")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", student.Name)
	})

	t.Run("duplicates are checked per kind", func(t *testing.T) {
		svc, _ := newTestRegistrar(t, nil)
		require.NoError(t, svc.AddTeacher(domain.Teacher{ID: "X1", Name: "Teacher"}))
		require.NoError(t, svc.AddSecretary(domain.Secretary{ID: "X1", Name: "Secretary"}))
		assert.ErrorIs(t, svc.AddTeacher(domain.Teacher{ID: "X1", Name: "Again"}), ErrDuplicateID)
		assert.ErrorIs(t, svc.AddSecretary(domain.Secretary{ID: "X1", Name: "Again"}), ErrDuplicateID)
	})

	t.Run("invalid entities never reach the repository", func(t *testing.T) {
		repo := memory.New()
		svc, events := newTestRegistrar(t, repo)

		assert.ErrorIs(t, svc.AddStudent(domain.Student{Name: "No ID"}), ErrInvalid)
		assert.ErrorIs(t, svc.AddCourse(domain.Course{ID: "C9"}), ErrInvalid)
		assert.ErrorIs(t, svc.AddTeacher(domain.Teacher{ID: "T9"}), ErrInvalid)
		assert.ErrorIs(t, svc.AddSecretary(domain.Secretary{ID: "  "}), ErrInvalid)

		assert.Zero(t, repo.Revision())
		assert.Empty(t, drain(events))
	})

	t.Run("unknown references are accepted", func(t *testing.T) {
		svc, _ := newTestRegistrar(t, nil)
		assert.NoError(t, svc.AddCourse(domain.Course{ID: "C2", Title: "Orphan", Credits: 3, TeacherID: "T404"}))
		assert.NoError(t, svc.AddStudent(domain.Student{ID: "S2", Name: "Grace", CourseIDs: []string{"C404"}}))
	})
}

func TestRegistrarLookups(t *testing.T) {
	svc, _ := newTestRegistrar(t, nil)
	repotest.AddSampleData(svc.repo)

	student, err := svc.Student("S1")
	require.NoError(t, err)
	assert.Equal(t, repotest.SampleStudent(), *student)

	course, err := svc.Course("C1")
	require.NoError(t, err)
	assert.Equal(t, repotest.SampleCourse(), *course)

	teacher, err := svc.Teacher("T1")
	require.NoError(t, err)
	assert.Equal(t, repotest.SampleTeacher(), *teacher)

	secretary, err := svc.Secretary("SEC1")
	require.NoError(t, err)
	assert.Equal(t, repotest.SampleSecretary(), *secretary)

	for name, lookup := range map[string]func() error{
		"student":   func() error { _, err := svc.Student("missing"); return err },
		"course":    func() error { _, err := svc.Course("missing"); return err },
		"teacher":   func() error { _, err := svc.Teacher("missing"); return err },
		"secretary": func() error { _, err := svc.Secretary("missing"); return err },
	} {
		t.Run(name+" not found", func(t *testing.T) {
			err := lookup()
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorContains(t, err, name+" missing")
		})
	}
}

func TestRegistrarListsSortedByID(t *testing.T) {
	svc, _ := newTestRegistrar(t, nil)
	for _, id := range []string{"S3", "S1", "S2"} {
		require.NoError(t, svc.AddStudent(domain.Student{ID: id, Name: "Student " + id}))
	}
	for _, id := range []string{"C2", "C1"} {
		require.NoError(t, svc.AddCourse(domain.Course{ID: id, Title: "Course " + id}))
	}
	for _, id := range []string{"T2", "T1"} {
		require.NoError(t, svc.AddTeacher(domain.Teacher{ID: id, Name: "Teacher " + id}))
	}

	assert.Equal(t, []string{"S1", "S2", "S3"}, repotest.StudentIDs(svc.Students()))
	assert.Equal(t, []string{"C1", "C2"}, repotest.CourseIDs(svc.Courses()))
	assert.Equal(t, []string{"T1", "T2"}, repotest.TeacherIDs(svc.Teachers()))
}

func TestRegistrarRelationships(t *testing.T) {
	svc, _ := newTestRegistrar(t, nil)
	require.NoError(t, svc.AddTeacher(domain.Teacher{ID: "T1", Name: "Babbage", Department: "Engineering"}))
	require.NoError(t, svc.AddTeacher(domain.Teacher{ID: "T2", Name: "Boole", Department: "Logic"}))
	require.NoError(t, svc.AddTeacher(domain.Teacher{ID: "T3", Name: "Cantor", Department: "Sets"}))
	require.NoError(t, svc.AddCourse(domain.Course{ID: "C2", Title: "Logic", Credits: 4, TeacherID: "T2"}))
	require.NoError(t, svc.AddCourse(domain.Course{ID: "C1", Title: "Engines", Credits: 5, TeacherID: "T1"}))
	require.NoError(t, svc.AddCourse(domain.Course{ID: "C3", Title: "Difference", Credits: 3, TeacherID: "T1"}))
	require.NoError(t, svc.AddStudent(domain.Student{ID: "S2", Name: "Grace", Major: "CS", Year: 1, CourseIDs: []string{"C1", "C2"}}))
	require.NoError(t, svc.AddStudent(domain.Student{ID: "S1", Name: "Ada", Major: "Math", Year: 2, CourseIDs: []string{"C1"}}))
	require.NoError(t, svc.AddStudent(domain.Student{ID: "S3", Name: "Alan", Major: "CS", Year: 3, CourseIDs: []string{"C2"}}))

	t.Run("roster", func(t *testing.T) {
		roster, err := svc.CourseRoster("C1")
		require.NoError(t, err)
		assert.Equal(t, []string{"S1", "S2"}, repotest.StudentIDs(roster))

		roster, err = svc.CourseRoster("C3")
		require.NoError(t, err)
		assert.NotNil(t, roster)
		assert.Empty(t, roster)

		_, err = svc.CourseRoster("C404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("teaching", func(t *testing.T) {
		courses, err := svc.TeacherCourses("T1")
		require.NoError(t, err)
		assert.Equal(t, []string{"C1", "C3"}, repotest.CourseIDs(courses))

		courses, err = svc.TeacherCourses("T3")
		require.NoError(t, err)
		assert.NotNil(t, courses)
		assert.Empty(t, courses)

		_, err = svc.TeacherCourses("T404")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRegistrarSave(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, events := newTestRegistrar(t, nil)
		require.NoError(t, svc.Save())

		got := drain(events)
		require.Len(t, got, 1)
		assert.Equal(t, EventDataSaved, got[0].Type)
	})

	t.Run("failure", func(t *testing.T) {
		svc, events := newTestRegistrar(t, unsavable{memory.New()})
		assert.ErrorIs(t, svc.Save(), ErrSaveFailed)

		got := drain(events)
		require.Len(t, got, 1)
		assert.Equal(t, EventSaveFailed, got[0].Type)
	})
}

func TestRegistrarWithoutEventBus(t *testing.T) {
	svc := NewRegistrar(memory.New(), nil, nil)
	assert.NoError(t, svc.AddTeacher(repotest.SampleTeacher()))
	assert.NoError(t, svc.Save())
}
