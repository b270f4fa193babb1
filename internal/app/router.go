package app

import (
	"lms_backend/docs"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		a.registerSharedRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)

		public.POST("/auth/admin/login", c.auth.AdminLogin)
		public.POST("/auth/instructor/login", c.auth.InstructorLogin)
		public.POST("/auth/student/login", c.auth.StudentLogin)

		public.GET("/courses", c.catalog.ListCourses)
		public.GET("/categories", c.catalog.ListCategories)
	}
}

// Shared routes are reachable by every authenticated role; the services
// scope results to the caller.
func (a *App) registerSharedRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/auth/me", c.auth.Me)
	group.PUT("/auth/password", c.auth.ChangePassword)

	group.GET("/courses/:id", c.catalog.GetCourse)
	group.GET("/courses/:id/lessons/:lessonId", c.catalog.GetLesson)
	group.GET("/courses/:id/materials", c.content.ListMaterials)
	group.GET("/courses/:id/videos", c.content.ListVideos)
	group.GET("/courses/:id/assignments", c.assignment.ListForCourse)

	group.GET("/materials", c.content.ListMyMaterials)
	group.GET("/materials/:id/download", c.content.Download)
	group.GET("/videos", c.content.ListMyVideos)
	group.GET("/videos/:id/watch", c.content.Watch)

	group.GET("/attendance", c.attendance.List)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("/student")
	student.Use(middleware.RoleMiddleware(model.RoleStudent))
	{
		student.GET("/dashboard", c.report.StudentOverview)
		student.GET("/enrollments", c.enrollment.ListMine)
		student.POST("/courses/:id/enroll", c.enrollment.Enroll)
		student.PUT("/courses/:id/progress", c.enrollment.UpdateProgress)
		student.PUT("/enrollments/:id", c.enrollment.UpdateStatus)

		student.POST("/assignments/:id/submit", c.assignment.Submit)
		student.GET("/submissions", c.assignment.ListMySubmissions)
	}
}

func (a *App) registerInstructorRoutes(group *gin.RouterGroup, c *controllers) {
	instructor := group.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.RoleInstructor))
	{
		instructor.GET("/dashboard", c.report.InstructorOverview)

		instructor.GET("/courses/:id/modules", c.curriculum.ListModules)
		instructor.POST("/courses/:id/modules", c.curriculum.CreateModule)
		instructor.PUT("/modules/:id", c.curriculum.UpdateModule)
		instructor.DELETE("/modules/:id", c.curriculum.DeleteModule)
		instructor.POST("/modules/:id/lessons", c.curriculum.CreateLesson)
		instructor.PUT("/lessons/:id", c.curriculum.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.curriculum.DeleteLesson)

		instructor.POST("/materials", c.content.UploadMaterial)
		instructor.PUT("/materials/:id", c.content.UpdateMaterial)
		instructor.DELETE("/materials/:id", c.content.DeleteMaterial)
		instructor.POST("/videos", c.content.UploadVideo)
		instructor.POST("/videos/external", c.content.AddExternalVideo)
		instructor.PUT("/videos/:id", c.content.UpdateVideo)
		instructor.DELETE("/videos/:id", c.content.DeleteVideo)

		instructor.POST("/assignments", c.assignment.Create)
		instructor.PUT("/assignments/:id", c.assignment.Update)
		instructor.DELETE("/assignments/:id", c.assignment.Delete)
		instructor.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
		instructor.PUT("/submissions/:id/grade", c.assignment.Grade)
	}

	// Attendance writes are open to both staff roles; the service enforces
	// instructor course scope.
	attendance := group.Group("/attendance")
	attendance.Use(middleware.RoleMiddleware(model.RoleInstructor))
	{
		attendance.POST("", c.attendance.Record)
		attendance.POST("/bulk", c.attendance.RecordBulk)
	}

	group.GET("/courses/:id/roster", middleware.RoleMiddleware(model.RoleInstructor), c.roster.CourseRoster)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/users", c.auth.RegisterAdmin)

		admin.GET("/dashboard", c.report.Dashboard)
		admin.GET("/analytics", c.report.Analytics)
		admin.GET("/reports/attendance/daily", c.report.DailyAttendance)

		admin.POST("/students", c.roster.CreateStudent)
		admin.GET("/students", c.roster.ListStudents)
		admin.GET("/students/:id", c.roster.GetStudent)
		admin.PUT("/students/:id", c.roster.UpdateStudent)
		admin.DELETE("/students/:id", c.roster.DeleteStudent)

		admin.POST("/instructors", c.roster.CreateInstructor)
		admin.GET("/instructors", c.roster.ListInstructors)
		admin.PUT("/instructors/:id", c.roster.UpdateInstructor)
		admin.DELETE("/instructors/:id", c.roster.DeleteInstructor)

		admin.POST("/courses", c.roster.CreateCourse)
		admin.GET("/courses", c.roster.ListCourses)
		admin.PUT("/courses/:id", c.roster.UpdateCourse)
		admin.DELETE("/courses/:id", c.roster.DeleteCourse)

		admin.POST("/categories", c.roster.CreateCategory)
		admin.PUT("/categories/:id", c.roster.UpdateCategory)
		admin.DELETE("/categories/:id", c.roster.DeleteCategory)

		admin.GET("/enrollments", c.enrollment.AdminList)
		admin.POST("/enrollments", c.enrollment.AdminEnroll)
		admin.PUT("/enrollments/:id", c.enrollment.AdminUpdate)
		admin.DELETE("/enrollments/:id", c.enrollment.AdminDelete)

		admin.POST("/attendance/trainer", c.attendance.RecordTrainer)
	}
}
