package instrumented

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/domain"
	"registrar/internal/repository"
	"registrar/internal/repository/memory"
	"registrar/internal/repository/repotest"
)

// backend pairs the instrumented wrapper with the closer of the wrapped store
type backend struct {
	*DataManager
	closer interface{ Close() error }
}

func (b backend) Close() error {
	return b.closer.Close()
}

// failingSaver is a memory store whose saves always fail
type failingSaver struct {
	*memory.Store
}

func (failingSaver) SaveData() bool {
	return false
}

func newMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	return m, reg
}

func TestConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T, policy repository.DuplicatePolicy) repository.Backend {
		m, _ := newMetrics(t)
		store := memory.New(memory.WithDuplicatePolicy(policy))
		return backend{DataManager: Wrap(store, m), closer: store}
	})
}

func TestOperationCounters(t *testing.T) {
	m, _ := newMetrics(t)
	store := memory.New()
	dm := Wrap(store, m)

	repotest.AddSampleData(dm)
	dm.AddStudent(domain.Student{ID: "S2", Name: "Grace"})
	require.NotNil(t, dm.GetStudentByID("S1"))
	assert.Nil(t, dm.GetStudentByID("missing"))
	assert.Nil(t, dm.GetSecretaryByID("missing"))
	dm.GetAllCourses()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add", "student")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("add", "secretary")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("get", "student")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("get_all", "course")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses.WithLabelValues("student")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses.WithLabelValues("secretary")))
	assert.Same(t, store, dm.Unwrap())
}

func TestSaveCounters(t *testing.T) {
	m, reg := newMetrics(t)

	ok := Wrap(memory.New(), m)
	assert.True(t, ok.SaveData())
	assert.True(t, ok.SaveData())

	bad := Wrap(failingSaver{memory.New()}, m)
	assert.False(t, bad.SaveData())

	expected := `
# HELP registrar_repository_saves_total SaveData calls by result.
# TYPE registrar_repository_saves_total counter
registrar_repository_saves_total{result="failure"} 1
registrar_repository_saves_total{result="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "registrar_repository_saves_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.saveDuration))
}

func TestNewMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMissesStartAtZeroForEveryKind(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, len(domain.Kinds), testutil.CollectAndCount(m.misses))
	for _, kind := range domain.Kinds {
		assert.Zero(t, testutil.ToFloat64(m.misses.WithLabelValues(string(kind))), kind)
	}
}
