package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stemsi/campus-portal/internal/model"
)

func (c *Conn) ListCourses(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Conn) CreateCourse(ctx context.Context, in model.CourseInput) (*model.Course, error) {
	var out model.Course
	if err := c.do(ctx, http.MethodPost, "/courses/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Conn) UpdateCourse(ctx context.Context, id int, in model.CourseInput) (*model.Course, error) {
	var out model.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Conn) DeleteCourse(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil)
}

// CourseStudents lists the students enrolled in a course.
func (c *Conn) CourseStudents(ctx context.Context, id int) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/students", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
