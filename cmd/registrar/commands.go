package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"registrar/internal/domain"
	"registrar/internal/service"
)

type command struct {
	svc *service.Registrar
	out io.Writer
}

func (c *command) dispatch(name string, args []string) error {
	switch name {
	case "add-student":
		return c.addStudent(args)
	case "add-course":
		return c.addCourse(args)
	case "add-teacher":
		return c.addTeacher(args)
	case "add-secretary":
		return c.addSecretary(args)
	case "student":
		return show(c, args, c.svc.Student)
	case "course":
		return show(c, args, c.svc.Course)
	case "teacher":
		return show(c, args, c.svc.Teacher)
	case "secretary":
		return show(c, args, c.svc.Secretary)
	case "students":
		return c.print(c.svc.Students())
	case "courses":
		return c.print(c.svc.Courses())
	case "teachers":
		return c.print(c.svc.Teachers())
	case "roster":
		if err := want(args, 1, 1); err != nil {
			return err
		}
		roster, err := c.svc.CourseRoster(args[0])
		if err != nil {
			return err
		}
		return c.print(roster)
	case "teaching":
		if err := want(args, 1, 1); err != nil {
			return err
		}
		courses, err := c.svc.TeacherCourses(args[0])
		if err != nil {
			return err
		}
		return c.print(courses)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (c *command) addStudent(args []string) error {
	if err := want(args, 2, -1); err != nil {
		return err
	}
	student := domain.NewStudent(newID(args[0]), args[1])
	if len(args) > 2 {
		student.Major = args[2]
	}
	if len(args) > 3 {
		year, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
		student.Year = year
	}
	if len(args) > 4 {
		student.CourseIDs = args[4:]
	}
	return c.saved(student.ID, c.svc.AddStudent(*student))
}

func (c *command) addCourse(args []string) error {
	if err := want(args, 2, 4); err != nil {
		return err
	}
	course := domain.NewCourse(newID(args[0]), args[1])
	if len(args) > 2 {
		credits, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("credits: %w", err)
		}
		course.Credits = credits
	}
	if len(args) > 3 {
		course.TeacherID = args[3]
	}
	return c.saved(course.ID, c.svc.AddCourse(*course))
}

func (c *command) addTeacher(args []string) error {
	if err := want(args, 2, 3); err != nil {
		return err
	}
	teacher := domain.NewTeacher(newID(args[0]), args[1])
	if len(args) > 2 {
		teacher.Department = args[2]
	}
	return c.saved(teacher.ID, c.svc.AddTeacher(*teacher))
}

func (c *command) addSecretary(args []string) error {
	if err := want(args, 2, 3); err != nil {
		return err
	}
	secretary := domain.NewSecretary(newID(args[0]), args[1])
	if len(args) > 2 {
		secretary.Office = args[2]
	}
	return c.saved(secretary.ID, c.svc.AddSecretary(*secretary))
}

// saved persists after a successful add and echoes the stored ID
func (c *command) saved(id string, err error) error {
	if err != nil {
		return err
	}
	if err := c.svc.Save(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, id)
	return err
}

func (c *command) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func show[T any](c *command, args []string, get func(string) (*T, error)) error {
	if err := want(args, 1, 1); err != nil {
		return err
	}
	v, err := get(args[0])
	if err != nil {
		return err
	}
	return c.print(v)
}

// want checks the argument count; max < 0 means unbounded
func want(args []string, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return fmt.Errorf("wrong number of arguments (%d)", len(args))
	}
	return nil
}

func newID(id string) string {
	if id == "-" {
		return uuid.NewString()
	}
	return id
}
