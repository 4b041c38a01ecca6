package model

// AttendanceStatus is the outcome recorded for one student on one date.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// AttendanceStatuses in display order.
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate}

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// DateLayout is the wire format of attendance dates.
const DateLayout = "2006-01-02"

// AttendanceRecord is unique per (student, course, date); the API enforces it.
type AttendanceRecord struct {
	ID        int              `json:"id"`
	StudentID int              `json:"student_id"`
	CourseID  int              `json:"course_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceReportRow is a record joined with the student's name.
type AttendanceReportRow struct {
	AttendanceRecord
	StudentName string `json:"student_name"`
}

// AttendanceEntry is one line of a batch submission.
type AttendanceEntry struct {
	StudentID int              `json:"student_id" binding:"required,gt=0"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=present absent late"`
}

// AttendanceSubmission is the batch body posted for one course and date.
type AttendanceSubmission struct {
	Records []AttendanceEntry `json:"records" binding:"required,dive"`
}
