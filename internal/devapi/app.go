// Package devapi is an in-memory rendition of the college REST API. It
// answers with the same paths, status codes and detail texts, so the portal
// can be developed and tested without the real backend.
package devapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/repository"
	"github.com/stemsi/campus-portal/internal/service"
)

// App is a wired development API.
type App struct {
	Engine *gin.Engine

	Auth    *service.AuthService
	Users   *service.UserService
	Courses *service.CourseService
	Records *service.RecordService
}

// New wires repositories, services, handlers and routes over an empty store.
func New(cfg *config.Config, log zerolog.Logger) *App {
	store := repository.NewStore()

	// ─── Repositories ──────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	attendanceRepo := repository.NewAttendanceRepository(store)
	gradeRepo := repository.NewGradeRepository(store)

	// ─── Services ──────────────────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo, authService)
	courseService := service.NewCourseService(courseRepo, userRepo)
	recordService := service.NewRecordService(courseService, attendanceRepo, gradeRepo)
	dashboardService := service.NewDashboardService(userRepo, courseRepo)

	// ─── Handlers ──────────────────────────────────────────────────────
	handlers := &Handlers{
		Auth:   NewAuthHandler(authService, userService, log),
		Admin:  NewAdminHandler(userService, dashboardService, log),
		Course: NewCourseHandler(courseService, log),
		Record: NewRecordHandler(recordService, log),
	}

	return &App{
		Engine:  SetupRouter(cfg, authService, handlers, log),
		Auth:    authService,
		Users:   userService,
		Courses: courseService,
		Records: recordService,
	}
}
