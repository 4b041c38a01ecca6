package service

import (
	"context"
	"errors"
	"sort"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/repository"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseCodeTaken = errors.New("course code already exists")
)

// CourseService handles the course catalogue.
type CourseService struct {
	courses *repository.CourseRepository
	users   *repository.UserRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses *repository.CourseRepository, users *repository.UserRepository) *CourseService {
	return &CourseService{courses: courses, users: users}
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) Create(ctx context.Context, in model.CourseInput) (*model.Course, error) {
	c, err := s.courses.Create(ctx, in)
	return c, courseErr(err)
}

func (s *CourseService) Update(ctx context.Context, id int, in model.CourseInput) (*model.Course, error) {
	c, err := s.courses.Update(ctx, id, in)
	return c, courseErr(err)
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	return courseErr(s.courses.Delete(ctx, id))
}

// Exists reports ErrCourseNotFound for unknown IDs.
func (s *CourseService) Exists(ctx context.Context, id int) error {
	_, err := s.courses.GetByID(ctx, id)
	return courseErr(err)
}

// Students returns the roster of a course ordered by name. There is no
// enrolment model, so every student account is on every roster.
func (s *CourseService) Students(ctx context.Context, id int) ([]model.User, error) {
	if err := s.Exists(ctx, id); err != nil {
		return nil, err
	}
	students, err := s.users.List(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func courseErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCourseNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrCourseCodeTaken
	}
	return err
}
