package model

// AdminDashboardData holds the summary metrics shown on the admin page.
type AdminDashboardData struct {
	Message       string `json:"message"`
	SensitiveData string `json:"sensitive_data"`
	ActiveUsers   int    `json:"active_users"`
	CoursesCount  int    `json:"courses_count"`
}

// MessageResponse is the acknowledgement body of batch submissions.
type MessageResponse struct {
	Message string `json:"message"`
}
