package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/view"
)

func TestErrorMessage(t *testing.T) {
	const generic = "Failed to create course."
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend detail", &apiclient.RequestError{Status: http.StatusBadRequest, Detail: "Course code already registered"}, "Course code already registered"},
		{"rejected without detail", &apiclient.RequestError{Status: http.StatusBadRequest}, generic},
		{"server failure", &apiclient.RequestError{Status: http.StatusInternalServerError}, "The request failed. Please try again."},
		{"unreachable", &apiclient.RequestError{Err: errors.New("connection refused")}, "The college API is unreachable. Please try again later."},
		{"report", &view.ReportError{Message: "No grades found for this course."}, "No grades found for this course."},
		{"other", errors.New("boom"), generic},
	}
	for _, tt := range tests {
		if got := errorMessage(tt.err, generic); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
