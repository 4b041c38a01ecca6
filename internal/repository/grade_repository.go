package repository

import (
	"context"
	"sort"

	"github.com/stemsi/campus-portal/internal/model"
)

// GradeRepository handles grade data access.
type GradeRepository struct {
	s *Store
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(s *Store) *GradeRepository {
	return &GradeRepository{s: s}
}

// Upsert records a score keyed by (student, course, assignment).
func (r *GradeRepository) Upsert(_ context.Context, courseID int, in model.GradeInput) (*model.Grade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := gradeKey{studentID: in.StudentID, courseID: courseID, assignment: in.AssignmentName}
	g, ok := r.s.grades[key]
	if !ok {
		r.s.lastGrade++
		g = &model.Grade{
			ID:             r.s.lastGrade,
			StudentID:      in.StudentID,
			CourseID:       courseID,
			AssignmentName: in.AssignmentName,
		}
		r.s.grades[key] = g
	}
	g.Score = in.Score
	g.Comments = in.Comments

	out := *g
	return &out, nil
}

// ListForStudent returns every grade of one student across courses.
func (r *GradeRepository) ListForStudent(_ context.Context, studentID int) ([]model.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Grade{}
	for k, g := range r.s.grades {
		if k.studentID == studentID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListForCourse returns every grade in a course joined with student names.
func (r *GradeRepository) ListForCourse(_ context.Context, courseID int) ([]model.GradeReportRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.GradeReportRow
	for k, g := range r.s.grades {
		if k.courseID == courseID {
			out = append(out, model.GradeReportRow{
				Grade:       *g,
				StudentName: r.s.studentName(g.StudentID),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
