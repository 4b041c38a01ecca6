package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stemsi/campus-portal/internal/model"
)

// SubmitGrade records one assignment score. The API upserts on
// (student, course, assignment).
func (c *Conn) SubmitGrade(ctx context.Context, courseID int, in model.GradeInput) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/grades/courses/%d", courseID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyGrades returns every grade of the acting student across courses.
func (c *Conn) MyGrades(ctx context.Context) ([]model.Grade, error) {
	var out []model.Grade
	if err := c.do(ctx, http.MethodGet, "/grades/my-grades", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Conn) GradesReport(ctx context.Context, courseID int) ([]model.GradeReportRow, error) {
	var out []model.GradeReportRow
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reports/grades/courses/%d", courseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
