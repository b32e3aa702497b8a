package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"registrar/internal/domain"
	"registrar/internal/repository"
	"registrar/internal/repository/repotest"
)

func TestStoreConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T, policy repository.DuplicatePolicy) repository.Backend {
		return New(WithDuplicatePolicy(policy))
	})
}

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, repository.RejectDuplicates, s.Policy())
	assert.Zero(t, s.Revision())

	s = New(WithDuplicatePolicy(""), WithLogger(nil))
	assert.Equal(t, repository.RejectDuplicates, s.Policy())
	assert.NotNil(t, s.logger)
}

func TestGetAllKeepsInsertionOrder(t *testing.T) {
	s := New(WithDuplicatePolicy(repository.OverwriteDuplicates))
	for _, id := range []string{"S3", "S1", "S2"} {
		s.AddStudent(domain.Student{ID: id, Name: id})
	}
	s.AddStudent(domain.Student{ID: "S1", Name: "replaced"})

	assert.Equal(t, []string{"S3", "S1", "S2"}, repotest.StudentIDs(s.GetAllStudents()))
	assert.Equal(t, "replaced", s.GetStudentByID("S1").Name)
}

func TestRevision(t *testing.T) {
	t.Run("counts changes only", func(t *testing.T) {
		s := New()
		s.AddStudent(domain.Student{ID: "S1", Name: "Ada"})
		s.AddStudent(domain.Student{ID: "S1", Name: "Rejected"})
		s.AddCourse(domain.Course{Title: "No ID"})
		s.AddTeacher(domain.Teacher{ID: "T1", Name: "Boole"})

		assert.Equal(t, uint64(2), s.Revision())
	})

	t.Run("overwrite counts as change", func(t *testing.T) {
		s := New(WithDuplicatePolicy(repository.OverwriteDuplicates))
		s.AddSecretary(domain.Secretary{ID: "SEC1", Name: "Joan"})
		s.AddSecretary(domain.Secretary{ID: "SEC1", Name: "Mary"})

		assert.Equal(t, uint64(2), s.Revision())
	})

	t.Run("save does not change revision", func(t *testing.T) {
		s := New()
		s.AddStudent(domain.Student{ID: "S1", Name: "Ada"})
		require.True(t, s.SaveData())
		assert.Equal(t, uint64(1), s.Revision())
	})
}

func TestSnapshotAndLoad(t *testing.T) {
	s := New()
	repotest.AddSampleData(s)

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Len())

	t.Run("load reconstructs the snapshot", func(t *testing.T) {
		other := New()
		other.AddStudent(domain.Student{ID: "OLD", Name: "Dropped"})
		other.Load(snap)

		repotest.AssertSampleData(t, other)
		assert.Nil(t, other.GetStudentByID("OLD"))
		assert.Zero(t, other.Revision())
	})

	t.Run("snapshot does not alias storage", func(t *testing.T) {
		snap.Students[0].CourseIDs[0] = "changed"
		repotest.AssertSampleData(t, s)
	})

	t.Run("load of nil empties the store", func(t *testing.T) {
		other := New()
		repotest.AddSampleData(other)
		other.Load(nil)

		assert.Empty(t, other.GetAllStudents())
		assert.Nil(t, other.GetSecretaryByID("SEC1"))
	})

	t.Run("load applies the duplicate policy", func(t *testing.T) {
		data := domain.NewDataset()
		data.Teachers = append(data.Teachers,
			domain.Teacher{ID: "T1", Name: "First"},
			domain.Teacher{ID: "T1", Name: "Second"},
		)

		reject := New()
		reject.Load(data)
		assert.Equal(t, "First", reject.GetTeacherByID("T1").Name)

		overwrite := New(WithDuplicatePolicy(repository.OverwriteDuplicates))
		overwrite.Load(data)
		assert.Equal(t, "Second", overwrite.GetTeacherByID("T1").Name)
	})
}

func TestRejectionsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(WithLogger(zap.New(core)))

	s.AddStudent(domain.Student{ID: "S1", Name: "Ada"})
	s.AddStudent(domain.Student{ID: "S1", Name: "Grace"})
	s.AddCourse(domain.Course{Title: "No ID"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "rejected entity with duplicate ID", entries[0].Message)
	assert.Equal(t, "S1", entries[0].ContextMap()["id"])
	assert.Equal(t, "rejected entity without ID", entries[1].Message)
	assert.Equal(t, "course", entries[1].ContextMap()["kind"])
}
