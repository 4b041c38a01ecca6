package view

import (
	"fmt"
	"math"

	"github.com/stemsi/campus-portal/internal/model"
)

// GroupGradesByCourse buckets grades by course, preserving input order
// within each bucket.
func GroupGradesByCourse(grades []model.Grade) map[int][]model.Grade {
	groups := make(map[int][]model.Grade)
	for _, g := range grades {
		groups[g.CourseID] = append(groups[g.CourseID], g)
	}
	return groups
}

// FilterGradesByCourse returns the grades of one course in input order.
func FilterGradesByCourse(grades []model.Grade, courseID int) []model.Grade {
	var out []model.Grade
	for _, g := range grades {
		if g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out
}

// ScoreBand classifies a score for display.
type ScoreBand string

const (
	BandExcellent ScoreBand = "excellent"
	BandGood      ScoreBand = "good"
	BandFair      ScoreBand = "fair"
	BandPoor      ScoreBand = "poor"
)

func BandFor(score float64) ScoreBand {
	switch {
	case score >= 90:
		return BandExcellent
	case score >= 70:
		return BandGood
	case score >= 50:
		return BandFair
	}
	return BandPoor
}

// AttendanceSummary counts one student's records for one course.
type AttendanceSummary struct {
	Course  model.Course
	Records []model.AttendanceRecord
	Present int
	Absent  int
	Late    int
}

func Summarize(course model.Course, records []model.AttendanceRecord) AttendanceSummary {
	s := AttendanceSummary{Course: course, Records: records}
	for _, r := range records {
		switch r.Status {
		case model.AttendancePresent:
			s.Present++
		case model.AttendanceAbsent:
			s.Absent++
		case model.AttendanceLate:
			s.Late++
		}
	}
	return s
}

func (s AttendanceSummary) Total() int { return len(s.Records) }

// Percentage is present over total, rounded to a whole percent, or "N/A"
// when there are no records. Late does not count as present.
func (s AttendanceSummary) Percentage() string {
	if len(s.Records) == 0 {
		return "N/A"
	}
	pct := math.Round(float64(s.Present) * 100 / float64(len(s.Records)))
	return fmt.Sprintf("%d%%", int(pct))
}
