package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"registrar/internal/domain"
)

// execer is satisfied by *sql.Tx
type execer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func insertStudents(ctx context.Context, tx execer, students []domain.Student) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO students (id, name, major, year, position) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare student statement: %w", err)
	}
	defer stmt.Close()

	courseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO student_courses (student_id, course_id, position) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare enrollment statement: %w", err)
	}
	defer courseStmt.Close()

	for i, st := range students {
		if _, err := stmt.ExecContext(ctx, st.ID, st.Name, stringToNull(st.Major), st.Year, i); err != nil {
			return fmt.Errorf("failed to insert student %s: %w", st.ID, err)
		}
		for j, courseID := range st.CourseIDs {
			if _, err := courseStmt.ExecContext(ctx, st.ID, courseID, j); err != nil {
				return fmt.Errorf("failed to insert enrollment for %s: %w", st.ID, err)
			}
		}
	}
	return nil
}

func insertCourses(ctx context.Context, tx execer, courses []domain.Course) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO courses (id, title, credits, teacher_id, position) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare course statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range courses {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Title, c.Credits, stringToNull(c.TeacherID), i); err != nil {
			return fmt.Errorf("failed to insert course %s: %w", c.ID, err)
		}
	}
	return nil
}

func insertTeachers(ctx context.Context, tx execer, teachers []domain.Teacher) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teachers (id, name, department, position) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare teacher statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range teachers {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name, stringToNull(t.Department), i); err != nil {
			return fmt.Errorf("failed to insert teacher %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertSecretaries(ctx context.Context, tx execer, secretaries []domain.Secretary) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO secretaries (id, name, office, position) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare secretary statement: %w", err)
	}
	defer stmt.Close()

	for i, s := range secretaries {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, stringToNull(s.Office), i); err != nil {
			return fmt.Errorf("failed to insert secretary %s: %w", s.ID, err)
		}
	}
	return nil
}

func loadStudents(ctx context.Context, db querier) ([]domain.Student, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, major, year FROM students ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]domain.Student, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			st    domain.Student
			major sql.NullString
		)
		if err := rows.Scan(&st.ID, &st.Name, &major, &st.Year); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		st.Major = nullToString(major)
		index[st.ID] = len(students)
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	enrollRows, err := db.QueryContext(ctx, `
		SELECT student_id, course_id FROM student_courses ORDER BY student_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer enrollRows.Close()

	for enrollRows.Next() {
		var studentID, courseID string
		if err := enrollRows.Scan(&studentID, &courseID); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		if i, ok := index[studentID]; ok {
			students[i].CourseIDs = append(students[i].CourseIDs, courseID)
		}
	}
	if err := enrollRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return students, nil
}

func loadCourses(ctx context.Context, db querier) ([]domain.Course, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, credits, teacher_id FROM courses ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		var (
			c         domain.Course
			teacherID sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Credits, &teacherID); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		c.TeacherID = nullToString(teacherID)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	return courses, nil
}

func loadTeachers(ctx context.Context, db querier) ([]domain.Teacher, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, department FROM teachers ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]domain.Teacher, 0)
	for rows.Next() {
		var (
			t          domain.Teacher
			department sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &department); err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		t.Department = nullToString(department)
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teachers: %w", err)
	}
	return teachers, nil
}

func loadSecretaries(ctx context.Context, db querier) ([]domain.Secretary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, office FROM secretaries ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query secretaries: %w", err)
	}
	defer rows.Close()

	secretaries := make([]domain.Secretary, 0)
	for rows.Next() {
		var (
			s      domain.Secretary
			office sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &office); err != nil {
			return nil, fmt.Errorf("failed to scan secretary: %w", err)
		}
		s.Office = nullToString(office)
		secretaries = append(secretaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating secretaries: %w", err)
	}
	return secretaries, nil
}
