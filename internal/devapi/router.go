package devapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *AuthHandler
	Admin  *AdminHandler
	Course *CourseHandler
	Record *RecordHandler
}

// SetupRouter configures the API routes with CORS, bearer auth and role
// checks. Role sets come from the portal's capability table so both sides
// agree on who may do what.
func SetupRouter(cfg *config.Config, authService *service.AuthService, h *Handlers, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS for the browser build of the portal.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Metrics("devapi"))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the College Management Portal API"})
	})
	router.GET("/metrics", middleware.MetricsHandler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	bearer := middleware.RequireBearer(authService, log)
	allow := func(capability access.Capability) gin.HandlerFunc {
		return middleware.RequireRoles(access.RolesWith(capability)...)
	}

	// ─── 1. Public ─────────────────────────────────────────────────────
	auth := router.Group("/auth")
	{
		auth.POST("/token", h.Auth.Token)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/signup", h.Auth.Register)
	}

	// ─── 2. Any authenticated user ─────────────────────────────────────
	router.GET("/users/me", bearer, h.Auth.Me)

	// ─── 3. Superuser ──────────────────────────────────────────────────
	admin := router.Group("/admin", bearer, allow(access.CapAdministerSystem))
	{
		admin.GET("/dashboard-data", h.Admin.Dashboard)
		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/create-user", h.Admin.CreateUser)
		admin.PUT("/users/:id/role", h.Admin.UpdateRole)
	}

	// ─── 4. Courses ────────────────────────────────────────────────────
	courses := router.Group("/courses", bearer)
	{
		courses.GET("/", h.Course.List)
		courses.POST("/", allow(access.CapManageCourses), h.Course.Create)
		courses.PUT("/:id", allow(access.CapManageCourses), h.Course.Update)
		courses.DELETE("/:id", allow(access.CapDeleteCourses), h.Course.Delete)
		courses.GET("/:id/students", allow(access.CapTakeAttendance), h.Course.Students)
	}

	// ─── 5. Attendance and grades ──────────────────────────────────────
	router.POST("/attendance/courses/:id/date/:date", bearer, allow(access.CapTakeAttendance), h.Record.SubmitAttendance)
	router.GET("/attendance/my-attendance/courses/:id", bearer, h.Record.MyAttendance)
	router.POST("/grades/courses/:id", bearer, allow(access.CapManageGrades), h.Record.SubmitGrade)
	router.GET("/grades/my-grades", bearer, h.Record.MyGrades)

	// ─── 6. Reports ────────────────────────────────────────────────────
	reports := router.Group("/reports", bearer)
	{
		reports.GET("/attendance/courses/:id/date/:date", allow(access.CapViewAttendanceReports), h.Record.AttendanceReport)
		reports.GET("/grades/courses/:id", allow(access.CapViewGradeReports), h.Record.GradesReport)
	}

	return router
}
