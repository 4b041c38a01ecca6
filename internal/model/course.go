package model

// Course is a catalogue entry. Code is unique.
type Course struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CourseInput is the create/update payload.
type CourseInput struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Code        string  `json:"code" binding:"required,max=32"`
	Description *string `json:"description"`
}

// DescriptionText returns the description or "" when absent.
func (c Course) DescriptionText() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}
