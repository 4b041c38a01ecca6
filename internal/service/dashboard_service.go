package service

import (
	"context"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/repository"
)

// DashboardService builds the admin dashboard metrics.
type DashboardService struct {
	users   *repository.UserRepository
	courses *repository.CourseRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(users *repository.UserRepository, courses *repository.CourseRepository) *DashboardService {
	return &DashboardService{users: users, courses: courses}
}

// GetDashboardData returns live counts from the store.
func (s *DashboardService) GetDashboardData(ctx context.Context) *model.AdminDashboardData {
	return &model.AdminDashboardData{
		Message:       "Welcome, Superuser!",
		SensitiveData: "Full system-wide administrative data.",
		ActiveUsers:   s.users.Count(ctx),
		CoursesCount:  s.courses.Count(ctx),
	}
}
