// Package instrumented wraps a DataManager with Prometheus metrics.
//
// The wrapper forwards every call unchanged, so it can stand in for the
// backend it wraps anywhere a repository.DataManager is expected.
package instrumented

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"registrar/internal/domain"
	"registrar/internal/repository"
)

const namespace = "registrar"

// Metrics holds the collectors shared by every wrapped DataManager
type Metrics struct {
	operations   *prometheus.CounterVec
	misses       *prometheus.CounterVec
	saves        *prometheus.CounterVec
	saveDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "operations_total",
			Help:      "Repository operations by operation and entity kind.",
		}, []string{"operation", "kind"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "lookup_misses_total",
			Help:      "Lookups by ID that found no entity.",
		}, []string{"kind"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "saves_total",
			Help:      "SaveData calls by result.",
		}, []string{"result"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "save_duration_seconds",
			Help:      "Time spent in SaveData.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.misses, m.saves, m.saveDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Export zero misses for every kind before the first lookup
	for _, kind := range domain.Kinds {
		m.misses.WithLabelValues(string(kind))
	}
	return m, nil
}

// DataManager records metrics around another DataManager
type DataManager struct {
	next    repository.DataManager
	metrics *Metrics
}

var _ repository.DataManager = (*DataManager)(nil)

// Wrap returns next instrumented with m
func Wrap(next repository.DataManager, m *Metrics) *DataManager {
	return &DataManager{next: next, metrics: m}
}

// Unwrap returns the wrapped DataManager
func (d *DataManager) Unwrap() repository.DataManager {
	return d.next
}

func (d *DataManager) count(op string, kind domain.Kind) {
	d.metrics.operations.WithLabelValues(op, string(kind)).Inc()
}

func found[T any](d *DataManager, kind domain.Kind, v *T) *T {
	d.count("get", kind)
	if v == nil {
		d.metrics.misses.WithLabelValues(string(kind)).Inc()
	}
	return v
}

func (d *DataManager) AddStudent(student domain.Student) {
	d.count("add", domain.KindStudent)
	d.next.AddStudent(student)
}

func (d *DataManager) GetStudentByID(id string) *domain.Student {
	return found(d, domain.KindStudent, d.next.GetStudentByID(id))
}

func (d *DataManager) GetAllStudents() []domain.Student {
	d.count("get_all", domain.KindStudent)
	return d.next.GetAllStudents()
}

func (d *DataManager) AddCourse(course domain.Course) {
	d.count("add", domain.KindCourse)
	d.next.AddCourse(course)
}

func (d *DataManager) GetCourseByID(id string) *domain.Course {
	return found(d, domain.KindCourse, d.next.GetCourseByID(id))
}

func (d *DataManager) GetAllCourses() []domain.Course {
	d.count("get_all", domain.KindCourse)
	return d.next.GetAllCourses()
}

func (d *DataManager) AddTeacher(teacher domain.Teacher) {
	d.count("add", domain.KindTeacher)
	d.next.AddTeacher(teacher)
}

func (d *DataManager) GetTeacherByID(id string) *domain.Teacher {
	return found(d, domain.KindTeacher, d.next.GetTeacherByID(id))
}

func (d *DataManager) GetAllTeachers() []domain.Teacher {
	d.count("get_all", domain.KindTeacher)
	return d.next.GetAllTeachers()
}

func (d *DataManager) AddSecretary(secretary domain.Secretary) {
	d.count("add", domain.KindSecretary)
	d.next.AddSecretary(secretary)
}

func (d *DataManager) GetSecretaryByID(id string) *domain.Secretary {
	return found(d, domain.KindSecretary, d.next.GetSecretaryByID(id))
}

// SaveData forwards the save and records its result and duration
func (d *DataManager) SaveData() bool {
	start := time.Now()
	ok := d.next.SaveData()
	d.metrics.saveDuration.Observe(time.Since(start).Seconds())

	result := "success"
	if !ok {
		result = "failure"
	}
	d.metrics.saves.WithLabelValues(result).Inc()
	return ok
}
