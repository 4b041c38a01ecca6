package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/stemsi/campus-portal/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	s *Store
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(s *Store) *CourseRepository {
	return &CourseRepository{s: s}
}

// Create inserts a course. Returns ErrDuplicate when the code is taken.
func (r *CourseRepository) Create(_ context.Context, in model.CourseInput) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	code := strings.TrimSpace(in.Code)
	if _, taken := r.s.codes[code]; taken {
		return nil, ErrDuplicate
	}

	r.s.lastCourse++
	c := &model.Course{
		ID:          r.s.lastCourse,
		Code:        code,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}
	r.s.courses[c.ID] = c
	r.s.codes[code] = c.ID

	out := *c
	return &out, nil
}

// List returns all courses ordered by ID.
func (r *CourseRepository) List(_ context.Context) ([]model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	courses := make([]model.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(_ context.Context, id int) (*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

// Update replaces a course's fields.
func (r *CourseRepository) Update(_ context.Context, id int, in model.CourseInput) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}

	code := strings.TrimSpace(in.Code)
	if owner, taken := r.s.codes[code]; taken && owner != id {
		return nil, ErrDuplicate
	}

	delete(r.s.codes, c.Code)
	c.Code = code
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	r.s.codes[code] = id

	out := *c
	return &out, nil
}

// Delete removes a course along with its attendance and grades.
func (r *CourseRepository) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.courses[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.s.courses, id)
	delete(r.s.codes, c.Code)

	for k := range r.s.attendance {
		if k.courseID == id {
			delete(r.s.attendance, k)
		}
	}
	for k := range r.s.grades {
		if k.courseID == id {
			delete(r.s.grades, k)
		}
	}
	return nil
}

// Count returns the number of courses.
func (r *CourseRepository) Count(_ context.Context) int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.courses)
}
