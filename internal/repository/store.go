package repository

import (
	"errors"
	"strings"
	"sync"

	"github.com/stemsi/campus-portal/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type attendanceKey struct {
	studentID int
	courseID  int
	date      string
}

type gradeKey struct {
	studentID  int
	courseID   int
	assignment string
}

// Store is the in-memory dataset behind the development API.
// Every repository shares one Store and its lock.
type Store struct {
	mu sync.RWMutex

	accounts   map[int]*model.Account
	emails     map[string]int
	courses    map[int]*model.Course
	codes      map[string]int
	attendance map[attendanceKey]*model.AttendanceRecord
	grades     map[gradeKey]*model.Grade

	lastAccount    int
	lastCourse     int
	lastAttendance int
	lastGrade      int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[int]*model.Account),
		emails:     make(map[string]int),
		courses:    make(map[int]*model.Course),
		codes:      make(map[string]int),
		attendance: make(map[attendanceKey]*model.AttendanceRecord),
		grades:     make(map[gradeKey]*model.Grade),
	}
}

// emailKey folds case so "A@x.edu" and "a@x.edu" are one account.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) studentName(id int) string {
	if a, ok := s.accounts[id]; ok {
		return a.Name
	}
	return ""
}
