package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/handler"
	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Dashboard  *handler.DashboardHandler
	Admin      *handler.AdminHandler
	Course     *handler.CourseHandler
	Attendance *handler.AttendanceHandler
	Grade      *handler.GradeHandler
	System     *handler.SystemHandler
}

// Deps is what the portal routes need besides the handlers.
type Deps struct {
	Gateway       session.Gateway
	IdentityCache session.IdentityCache // nil disables the cache
	LoginLimiter  middleware.Limiter
	Renderer      *handler.Renderer
	Log           zerolog.Logger
}

// SetupRouter configures the portal's pages with session, guard and
// compression middleware.
func SetupRouter(cfg *config.Config, deps Deps, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HTMLRender = deps.Renderer

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics("portal-web"),
		middleware.Brotli(),
	)

	// Static assets with long-lived caching (1 day).
	static := router.Group("/static")
	static.Use(middleware.CacheControl(86400))
	{
		static.StaticFS("/", handler.StaticFS())
	}

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", middleware.MetricsHandler())

	// ─── Session cookie ────────────────────────────────────────────────
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge / time.Second),
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	pages := router.Group("/")
	pages.Use(
		sessions.Sessions(middleware.SessionCookie, store),
		middleware.Session(deps.Gateway, deps.IdentityCache, deps.Log),
		middleware.NoStore(),
	)

	// ─── 1. Public pages ───────────────────────────────────────────────
	loginLimit := middleware.RateLimit(deps.LoginLimiter, handlers.Auth.LoginThrottled, deps.Log)
	{
		pages.GET(access.PathHome, handlers.Auth.Home)
		pages.GET(access.PathLogin, handlers.Auth.LoginPage)
		pages.POST(access.PathLogin, loginLimit, handlers.Auth.Login)
		pages.GET(access.PathSignup, handlers.Auth.SignupPage)
		pages.POST(access.PathSignup, loginLimit, handlers.Auth.Signup)
		pages.POST("/logout", handlers.Auth.Logout)
	}

	// ─── 2. Any authenticated user ─────────────────────────────────────
	pages.GET(access.PathDashboard, middleware.RequireRoute(access.PathDashboard), handlers.Dashboard.Dashboard)

	// ─── 3. Courses ────────────────────────────────────────────────────
	courses := pages.Group(access.PathCourses, middleware.RequireRoute(access.PathCourses))
	{
		courses.GET("", handlers.Course.List)
		courses.POST("", middleware.RequireCapability(access.CapManageCourses), handlers.Course.Create)
		courses.POST("/:id", middleware.RequireCapability(access.CapManageCourses), handlers.Course.Update)
		courses.POST("/:id/delete", middleware.RequireCapability(access.CapDeleteCourses), handlers.Course.Delete)
	}

	// ─── 4. Attendance ─────────────────────────────────────────────────
	pages.GET(access.PathTakeAttendance, middleware.RequireRoute(access.PathTakeAttendance), handlers.Attendance.TakePage)
	pages.POST(access.PathTakeAttendance, middleware.RequireRoute(access.PathTakeAttendance), handlers.Attendance.Take)
	pages.GET(access.PathMyAttendance, middleware.RequireRoute(access.PathMyAttendance), handlers.Attendance.Mine)
	pages.GET(access.PathViewAttendance, middleware.RequireRoute(access.PathViewAttendance), handlers.Attendance.Report)

	// ─── 5. Grades ─────────────────────────────────────────────────────
	pages.GET(access.PathManageGrades, middleware.RequireRoute(access.PathManageGrades), handlers.Grade.ManagePage)
	pages.POST(access.PathManageGrades, middleware.RequireRoute(access.PathManageGrades), handlers.Grade.Manage)
	pages.GET(access.PathMyGrades, middleware.RequireRoute(access.PathMyGrades), handlers.Grade.Mine)
	pages.GET(access.PathViewGrades, middleware.RequireRoute(access.PathViewGrades), handlers.Grade.Report)

	// ─── 6. System administration ──────────────────────────────────────
	admin := pages.Group(access.PathAdmin, middleware.RequireRoute(access.PathAdmin))
	{
		admin.GET("", handlers.Admin.Dashboard)
		admin.POST("/users", handlers.Admin.CreateUser)
		admin.POST("/users/:id/role", handlers.Admin.UpdateRole)
	}

	return router
}
