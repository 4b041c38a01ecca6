package model

// Grade is one assignment score. A (student, course) pair has many grades
// keyed by AssignmentName.
type Grade struct {
	ID             int     `json:"id"`
	StudentID      int     `json:"student_id"`
	CourseID       int     `json:"course_id"`
	AssignmentName string  `json:"assignment_name"`
	Score          float64 `json:"score"`
	Comments       *string `json:"comments"`
}

// GradeInput is the submit-grade payload.
type GradeInput struct {
	StudentID      int     `json:"student_id" binding:"required,gt=0"`
	AssignmentName string  `json:"assignment_name" binding:"required,max=255"`
	Score          float64 `json:"score" binding:"gte=0,lte=100"`
	Comments       *string `json:"comments"`
}

// GradeReportRow is a grade joined with the student's name.
type GradeReportRow struct {
	Grade
	StudentName string `json:"student_name"`
}

// CommentText returns the comment or "" when absent.
func (g Grade) CommentText() string {
	if g.Comments == nil {
		return ""
	}
	return *g.Comments
}

const (
	MinScore = 0
	MaxScore = 100
)
