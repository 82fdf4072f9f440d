package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tutorhub/internal/app/controllers"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/middleware"
	"github.com/yigit/tutorhub/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	homeController *controllers.HomeController,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	institutionController *controllers.InstitutionController,
	realtimeHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	metrics *middleware.Metrics,
	storagePath string,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", metrics.Handler())
	if storagePath != "" {
		router.Static("/uploads", storagePath)
	}

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", homeController.Health)
	v1.GET("/home", homeController.Home)
	v1.GET("/signup/options", homeController.SignupOptions)

	auth := v1.Group("/auth")
	{
		auth.POST("/register/:role", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	// The handshake authenticates itself so browsers can pass ?token=
	if realtimeHandler != nil {
		v1.GET("/realtime/ws", realtimeHandler.HandleConnection)
	}

	// --- Admin dashboard ---
	admin := v1.Group("/admin")
	admin.Use(
		authMiddleware.JWTAuth(),
		authMiddleware.ActiveAccountRequired(),
		authMiddleware.RoleRequired(models.RoleAdmin),
	)
	{
		admin.GET("/dashboard", adminController.Dashboard)

		admin.PATCH("/users/:id/verification", adminController.SetUserVerification)
		admin.PATCH("/profiles/:id/verification", adminController.SetProfileVerification)
		admin.PATCH("/reviews/:id/status", adminController.SetReviewStatus)
		admin.PATCH("/content/:id/status", adminController.SetContentStatus)
		admin.PATCH("/transactions/:id/status", adminController.SetTransactionStatus)
		admin.PATCH("/payouts/:id/status", adminController.SetPayoutStatus)
		admin.PATCH("/refunds/:id/status", adminController.SetRefundStatus)

		admin.GET("/submissions/:id", adminController.Submission)
		admin.POST("/submissions/:id/approve", adminController.ApproveSubmission)
		admin.POST("/submissions/:id/reject", adminController.RejectSubmission)

		admin.POST("/fees", adminController.CreateFee)
		admin.PUT("/fees/:id", adminController.UpdateFee)
		admin.PATCH("/fees/:id/active", adminController.SetFeeActive)
	}

	// --- Institution dashboard ---
	// Pending institutions may use the dashboard to prepare their submission
	institution := v1.Group("/institution")
	institution.Use(
		authMiddleware.JWTAuth(),
		authMiddleware.ActiveAccountRequired(),
		authMiddleware.RoleRequired(models.RoleInstitution),
	)
	{
		institution.GET("/overview", institutionController.Overview)

		institution.GET("/inquiries", institutionController.Inquiries)
		institution.PATCH("/inquiries/:id/status", institutionController.SetInquiryStatus)
		institution.GET("/students", institutionController.Students)
		institution.GET("/admissions", institutionController.Admissions)
		institution.PATCH("/admissions/:id/status", institutionController.SetAdmissionStatus)
		institution.GET("/fees", institutionController.Fees)
		institution.GET("/reports", institutionController.Reports)

		courses := institution.Group("/courses")
		{
			courses.GET("", institutionController.Courses)
			courses.POST("", institutionController.CreateCourse)
			courses.PUT("/:id", institutionController.UpdateCourse)
			courses.DELETE("/:id", institutionController.DeleteCourse)
			courses.POST("/:id/syllabus", institutionController.UploadSyllabus)
		}

		faculty := institution.Group("/faculty")
		{
			faculty.GET("", institutionController.Faculty)
			faculty.POST("", institutionController.AddFaculty)
			faculty.PUT("/:id", institutionController.UpdateFaculty)
			faculty.DELETE("/:id", institutionController.RemoveFaculty)
		}

		institution.GET("/settings", institutionController.Settings)
		institution.PUT("/settings", institutionController.UpdateSettings)
		institution.POST("/settings/logo", institutionController.UploadLogo)
		institution.POST("/submission", institutionController.Submit)
	}
}
