package controller

import (
	"net/http"

	"timeboss-backend/metrics"
	"timeboss-backend/middelware"
	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Job     *JobController
	Crew    *CrewController
	Client  *ClientController
	Report  *ReportController
	User    *UserController
	Contact *ContactController
	Digest  *DigestController

	jwtManager *middelware.JWTManager
	ws         gin.HandlerFunc
	config     *models.Config
}

// NewController builds every handler group. digest may be nil when the worker is disabled,
// ws may be nil when realtime updates are off.
func NewController(svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, ws gin.HandlerFunc, digest DigestRunner, cfg *models.Config, log logger.Logger) *Controller {
	c := &Controller{
		Job:        NewJobController(svc.GetJobService(), svc.GetAssignmentService(), log),
		Crew:       NewCrewController(svc.GetCrewService(), log),
		Client:     NewClientController(svc.GetClientService(), log),
		Report:     NewReportController(svc.GetReportService(), log),
		User:       NewUserController(svc.GetUserService(), jwtManager, cfg.JWTExpiresIn, cfg.AppEnv != "production", log),
		Contact:    NewContactController(svc.GetContactService(), log),
		jwtManager: jwtManager,
		ws:         ws,
		config:     cfg,
	}
	if digest != nil {
		c.Digest = NewDigestController(digest, log)
	}
	return c
}

func (c *Controller) health(ctx *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"version": c.config.AppVersion,
		"service": c.config.AppName,
	}
	if c.Digest != nil {
		body["digest"] = c.Digest.runner.GetHealthStatus()
	}
	ctx.JSON(http.StatusOK, body)
}

func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	r.GET("/health", c.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", c.health)
	v1.POST("/contact", c.Contact.Submit)

	auth := v1.Group("/auth")
	auth.POST("/signup", c.User.Signup)
	auth.POST("/login", c.User.Login)
	auth.POST("/reset-request", c.User.RequestReset)
	auth.POST("/reset-password", c.User.ResetPassword)

	// Everything below requires a valid token
	protected := v1.Group("")
	protected.Use(c.jwtManager.AuthMiddleware())

	if c.ws != nil {
		protected.GET("/ws", c.ws)
	}

	protected.GET("/auth/me", c.User.Me)
	protected.POST("/auth/logout", c.User.Logout)

	admin := c.jwtManager.RequireRoles(models.UserRoleAdmin)
	office := c.jwtManager.RequireRoles(models.UserRoleAdmin, models.UserRoleForeman)
	crew := c.jwtManager.RequireRoles(models.UserRoleCrew)
	anyRole := c.jwtManager.RequireRoles(models.UserRoleAdmin, models.UserRoleForeman, models.UserRoleCrew)

	users := protected.Group("/users", admin)
	users.GET("", c.User.ListUsers)
	users.POST("", c.User.CreateUser)
	users.PATCH("/:id", c.User.UpdateUser)

	crews := protected.Group("/crews")
	crews.GET("", c.Crew.ListCrews)
	crews.GET("/:id", c.Crew.GetCrew)
	crews.POST("", office, c.Crew.CreateCrew)

	clients := protected.Group("/clients")
	clients.GET("", c.Client.ListClients)
	clients.POST("", office, c.Client.CreateClient)

	jobs := protected.Group("/jobs")
	jobs.GET("", c.Job.ListJobs)
	jobs.GET("/suggestions", office, c.Job.Suggestions)
	jobs.POST("/optimize", office, c.Job.Optimize)
	jobs.POST("", office, c.Job.CreateJob)
	jobs.GET("/:id", c.Job.GetJob)
	jobs.POST("/:id/assign", office, c.Job.AssignJob)
	jobs.PATCH("/:id/status", anyRole, c.Job.UpdateStatus)
	jobs.POST("/:id/check-in", crew, c.Job.CheckIn)
	jobs.POST("/:id/check-out", crew, c.Job.CheckOut)
	jobs.GET("/:id/invoice", anyRole, c.Job.Invoice)

	protected.GET("/reports/daily-summary", office, c.Report.DailySummary)

	if c.Digest != nil {
		digest := protected.Group("/admin/digest", admin)
		digest.GET("", c.Digest.Status)
		digest.POST("/run", c.Digest.Run)
	}
}
