package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stemsi/campus-portal/internal/model"
)

// SubmitAttendance posts one batch for a course and date (YYYY-MM-DD).
func (c *Conn) SubmitAttendance(ctx context.Context, courseID int, date string, entries []model.AttendanceEntry) (*model.MessageResponse, error) {
	var out model.MessageResponse
	path := fmt.Sprintf("/attendance/courses/%d/date/%s", courseID, date)
	if err := c.do(ctx, http.MethodPost, path, model.AttendanceSubmission{Records: entries}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAttendance returns the acting student's records for one course.
func (c *Conn) MyAttendance(ctx context.Context, courseID int) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	path := fmt.Sprintf("/attendance/my-attendance/courses/%d", courseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Conn) AttendanceReport(ctx context.Context, courseID int, date string) ([]model.AttendanceReportRow, error) {
	var out []model.AttendanceReportRow
	path := fmt.Sprintf("/reports/attendance/courses/%d/date/%s", courseID, date)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
