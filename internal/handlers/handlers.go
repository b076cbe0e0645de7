package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/middleware"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/security"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/service"
)

type HandlerSet struct {
	cfg             *config.AppConfig
	db              *sqlx.DB
	authService     *service.AuthService
	checkoutService *service.CheckoutService
	workflows       *repository.WorkflowRepository
}

func NewHandlerSet(log zerolog.Logger, db *sqlx.DB, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	requestRepo := repository.NewCustomRequestRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, security.NewPasswordHasher(security.DefaultArgon2Params), cfg.Stub, log)
	checkout := service.NewCheckoutService(workflowRepo, paymentRepo, requestRepo, cfg, log)

	return HandlerSet{
		cfg:             cfg,
		db:              db,
		authService:     auth,
		checkoutService: checkout,
		workflows:       workflowRepo,
	}
}

func (h HandlerSet) AuthService() *service.AuthService { return h.authService }

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.GET("/workflows", h.ListWorkflows)
	router.GET("/workflows/:id", h.GetWorkflow)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	protected := router.Group("/auth")
	protected.Use(middleware.Auth(h.authService))
	protected.GET("/me", h.Me)
	protected.POST("/logout", h.Logout)

	payment := router.Group("/payment")
	payment.POST("/custom-request", h.SubmitCustomRequest)
	payment.POST("/initialize", middleware.Auth(h.authService), h.InitializePayment)

	admin := router.Group("/admin")
	admin.Use(
		middleware.Auth(h.authService),
		middleware.RequireAdmin(),
	)
	admin.GET("/custom-requests", h.AdminListCustomRequests)
}

// detail writes a FastAPI-style error body.
func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

// reqLog is the request-scoped logger installed by middleware.RequestID.
func reqLog(c *gin.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request.Context())
}

func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	return user, ok
}
