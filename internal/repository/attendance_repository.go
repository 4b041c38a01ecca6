package repository

import (
	"context"
	"sort"

	"github.com/stemsi/campus-portal/internal/model"
)

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	s *Store
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(s *Store) *AttendanceRepository {
	return &AttendanceRepository{s: s}
}

// Upsert writes one status per student for a course and date. An existing
// record for the same (student, course, date) is overwritten.
func (r *AttendanceRepository) Upsert(_ context.Context, courseID int, date string, entries []model.AttendanceEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range entries {
		key := attendanceKey{studentID: e.StudentID, courseID: courseID, date: date}
		if rec, ok := r.s.attendance[key]; ok {
			rec.Status = e.Status
			continue
		}
		r.s.lastAttendance++
		r.s.attendance[key] = &model.AttendanceRecord{
			ID:        r.s.lastAttendance,
			StudentID: e.StudentID,
			CourseID:  courseID,
			Date:      date,
			Status:    e.Status,
		}
	}
	return nil
}

// ListForStudent returns one student's records in a course, newest date first.
func (r *AttendanceRepository) ListForStudent(_ context.Context, studentID, courseID int) ([]model.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.AttendanceRecord{}
	for k, rec := range r.s.attendance {
		if k.studentID == studentID && k.courseID == courseID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListForCourseDate returns every record of a course on one date joined
// with the student's name.
func (r *AttendanceRepository) ListForCourseDate(_ context.Context, courseID int, date string) ([]model.AttendanceReportRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.AttendanceReportRow
	for k, rec := range r.s.attendance {
		if k.courseID == courseID && k.date == date {
			out = append(out, model.AttendanceReportRow{
				AttendanceRecord: *rec,
				StudentName:      r.s.studentName(rec.StudentID),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
