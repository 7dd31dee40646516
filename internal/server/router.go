package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/assignments"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/audit"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/billing"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/config"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/dealers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/drivers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/infra"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/lifecycle"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/notify"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/registration"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/repair"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/security"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/handlers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/mw"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/swaggerui"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/staff"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/store"
)

func NewRouter(cfg config.Config, deps *infra.Infra, logger *zap.Logger) http.Handler {
	if cfg.AppEnv == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	r.GET("/health", func(c *gin.Context) {
		resp.OK(c, gin.H{"status": "ok"})
	})

	// Swagger UI (OpenAPI served from local file)
	swaggerui.Register(r)

	jwtm := security.NewJWTManager(cfg.JWTSigningKey, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	refreshStore := store.NewRefreshStore(deps.Redis, cfg.JWTRefreshTTL)

	authRepo := auth.NewRepo(deps.PG)
	profileRepo := profiles.NewRepo(deps.PG)
	dealerRepo := dealers.NewRepo(deps.PG)
	jobRepo := jobs.NewRepo(deps.PG)
	assignmentRepo := assignments.NewRepo(deps.PG)
	staffRepo := staff.NewRepo(deps.PG)
	driverRepo := drivers.NewRepo(deps.PG)

	authSvc := auth.NewService(logger, authRepo, jwtm, refreshStore, cfg.RequireEmailConfirm)
	resolver := session.NewResolver(jwtm, authRepo)
	auditLog := audit.NewLogger(logger, deps.PG)

	var notifier handlers.Notifier
	if deps.AMQP != nil {
		pub, err := notify.NewPublisher(deps.AMQP, cfg.NotifyExchange)
		if err != nil {
			logger.Warn("notify publisher init failed, notifications disabled", zap.Error(err))
		} else {
			notifier = pub
		}
	}

	repairSvc := repair.NewService(logger, authSvc, profileRepo, dealerRepo)
	apiClient := jobs.NewAPIClient(cfg.JobAPIBaseURL)
	creator := jobs.NewCreator(logger, repairSvc, profileRepo, apiClient)
	lifecycleSvc := lifecycle.NewService(logger, jobRepo, assignmentRepo)
	billingClient := billing.NewClient(cfg.BillingBaseURL)
	regWorkflow := registration.NewWorkflow(
		logger, authSvc, profileRepo, dealerRepo, staffRepo, billingClient, auditLog, cfg.BillingEnabled,
	)

	admissionH := handlers.NewAdmissionHandler(
		logger, resolver, profileRepo, jobRepo, driverRepo, staffRepo, authSvc, authRepo, notifier,
	)
	authH := handlers.NewAuthHandler(logger, authSvc)
	regH := handlers.NewRegistrationHandler(logger, regWorkflow)
	jobsH := handlers.NewJobsHandler(logger, creator, jobRepo)
	lifecycleH := handlers.NewLifecycleHandler(logger, lifecycleSvc, assignmentRepo)
	trackH := handlers.NewTrackHandler(logger, lifecycleSvc)

	// Legacy admission endpoints: any method reaches the handler so it can
	// answer 405 itself.
	r.Any("/api/addJob", admissionH.AddJob)
	r.Any("/api/addDriver", admissionH.AddDriver)
	r.Any("/api/addStaff", admissionH.AddStaff)

	v1 := r.Group("/v1")

	v1.POST("/auth/signin", authH.SignIn)
	v1.POST("/auth/refresh", authH.Refresh)
	v1.POST("/dealerships/register", regH.Register)
	v1.GET("/track/:token", trackH.Get)

	authed := v1.Group("")
	authed.Use(mw.RequireAuth(resolver))
	authed.POST("/auth/logout", authH.Logout)
	authed.POST("/jobs", jobsH.Create)
	authed.GET("/jobs/open", jobsH.OpenJobs)
	authed.POST("/jobs/:id/accept", lifecycleH.Accept)
	authed.POST("/jobs/:id/clock-in", lifecycleH.ClockIn)
	authed.POST("/jobs/:id/clock-out", lifecycleH.ClockOut)

	return r
}
