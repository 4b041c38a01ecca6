package devapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/service"
)

// SeedAccounts is one account per role, all sharing the seed password.
var SeedAccounts = []model.NewUser{
	{Name: "Ada Admin", Email: "admin@college.edu", Role: model.RoleAdmin},
	{Name: "Hari Head", Email: "hod@college.edu", Role: model.RoleHOD},
	{Name: "Tara Teacher", Email: "teacher@college.edu", Role: model.RoleTeacher},
	{Name: "Sam Student", Email: "student@college.edu", Role: model.RoleStudent},
	{Name: "Sita Student", Email: "student2@college.edu", Role: model.RoleStudent},
}

// SeedCourses are created alongside the accounts.
var SeedCourses = []model.CourseInput{
	{Code: "CS101", Name: "Introduction to Programming"},
	{Code: "MA201", Name: "Linear Algebra"},
}

// Seed creates the seed accounts and courses. Records that already exist
// are left alone, so seeding twice is harmless.
func (a *App) Seed(ctx context.Context, password string) error {
	for _, u := range SeedAccounts {
		u.Password = password
		if _, err := a.Users.Create(ctx, u); err != nil && !errors.Is(err, service.ErrEmailTaken) {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	for _, c := range SeedCourses {
		if _, err := a.Courses.Create(ctx, c); err != nil && !errors.Is(err, service.ErrCourseCodeTaken) {
			return fmt.Errorf("seed course %s: %w", c.Code, err)
		}
	}
	return nil
}
