package service

import (
	"context"
	"errors"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/repository"
)

var (
	ErrNoAttendance = errors.New("no attendance records found")
	ErrNoGrades     = errors.New("no grades found for this course")
)

// RecordService handles attendance and grade records.
type RecordService struct {
	courses    *CourseService
	attendance *repository.AttendanceRepository
	grades     *repository.GradeRepository
}

// NewRecordService creates a new RecordService.
func NewRecordService(
	courses *CourseService,
	attendance *repository.AttendanceRepository,
	grades *repository.GradeRepository,
) *RecordService {
	return &RecordService{courses: courses, attendance: attendance, grades: grades}
}

// SubmitAttendance upserts a batch for one course and date (YYYY-MM-DD).
func (s *RecordService) SubmitAttendance(ctx context.Context, courseID int, date string, entries []model.AttendanceEntry) error {
	if err := s.courses.Exists(ctx, courseID); err != nil {
		return err
	}
	return s.attendance.Upsert(ctx, courseID, date, entries)
}

func (s *RecordService) MyAttendance(ctx context.Context, studentID, courseID int) ([]model.AttendanceRecord, error) {
	return s.attendance.ListForStudent(ctx, studentID, courseID)
}

// AttendanceReport returns ErrNoAttendance when nothing was recorded.
func (s *RecordService) AttendanceReport(ctx context.Context, courseID int, date string) ([]model.AttendanceReportRow, error) {
	rows, err := s.attendance.ListForCourseDate(ctx, courseID, date)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoAttendance
	}
	return rows, nil
}

func (s *RecordService) SubmitGrade(ctx context.Context, courseID int, in model.GradeInput) (*model.Grade, error) {
	if err := s.courses.Exists(ctx, courseID); err != nil {
		return nil, err
	}
	return s.grades.Upsert(ctx, courseID, in)
}

func (s *RecordService) MyGrades(ctx context.Context, studentID int) ([]model.Grade, error) {
	return s.grades.ListForStudent(ctx, studentID)
}

// GradesReport returns ErrNoGrades when the course has no grades.
func (s *RecordService) GradesReport(ctx context.Context, courseID int) ([]model.GradeReportRow, error) {
	rows, err := s.grades.ListForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoGrades
	}
	return rows, nil
}
