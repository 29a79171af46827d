package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wavelit/creatorhub/internal/auth"
	"github.com/wavelit/creatorhub/internal/config"
	"github.com/wavelit/creatorhub/internal/eligibility"
	apierrors "github.com/wavelit/creatorhub/internal/errors"
	"github.com/wavelit/creatorhub/internal/logging"
	"github.com/wavelit/creatorhub/internal/middleware"
	"github.com/wavelit/creatorhub/internal/monitoring"
	"github.com/wavelit/creatorhub/internal/onboarding"
	"github.com/wavelit/creatorhub/internal/reward"
	"github.com/wavelit/creatorhub/internal/snapshot"
)

// APIServer represents the main API server
type APIServer struct {
	config             *config.Config
	router             *gin.Engine
	db                 *pgxpool.Pool
	authService        *auth.Service
	onboardingService  *onboarding.Service
	eligibilityService *eligibility.Service
	rewardService      *reward.Service
	jwtAuthenticator   *middleware.JWTAuthenticator
}

// NewAPIServer creates a new API server instance
func NewAPIServer(cfg *config.Config, db *pgxpool.Pool, cache *snapshot.Cache) *APIServer {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(monitoring.MetricsMiddleware())
	router.Use(logging.RequestLogger())

	srv := &APIServer{
		config:             cfg,
		router:             router,
		db:                 db,
		authService:        auth.NewService(db, &cfg.JWT),
		onboardingService:  onboarding.NewService(db, &cfg.Campaign),
		eligibilityService: eligibility.NewService(db, cache, &cfg.Campaign),
		rewardService:      reward.NewService(db, reward.NewCalculator()),
		jwtAuthenticator:   middleware.NewJWTAuthenticator(&cfg.JWT),
	}

	srv.setupRoutes()
	return srv
}

// Router returns the gin router
func (s *APIServer) Router() http.Handler {
	return s.router
}

// setupRoutes configures all API routes
func (s *APIServer) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/refresh", s.handleRefresh)
		}

		// Campaign routes (public listing, protected apply)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", s.jwtAuthenticator.OptionalJWTAuth(), s.handleListCampaigns)
			campaigns.GET("/:id", s.jwtAuthenticator.OptionalJWTAuth(), s.handleGetCampaign)
			campaigns.POST("/:id/apply", s.jwtAuthenticator.JWTAuth(), middleware.RequireCreator(), s.handleApply)
		}

		// Creator routes (protected - requires creator role)
		creators := v1.Group("/creators/me")
		creators.Use(s.jwtAuthenticator.JWTAuth())
		creators.Use(middleware.RequireCreator())
		{
			creators.GET("", s.handleGetCreator)
			creators.GET("/social", s.handleSocialStatus)
			creators.GET("/onboarding", s.handleResolveOnboarding)
			creators.POST("/urls", s.handleSubmitURLs)
			creators.POST("/social/:platform/connect", s.handleConnectPlatform)
			creators.POST("/onboarding/skip", s.handleSkipConnect)
			creators.GET("/applications", s.handleListApplications)
			creators.GET("/paid-access", s.handlePaidAccess)
			creators.POST("/paid-access/request", s.handleRequestPaidAccess)
		}

		// Admin routes (protected - requires admin role)
		admin := v1.Group("/admin")
		admin.Use(s.jwtAuthenticator.JWTAuth())
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/rewards", s.handleAdminListRewards)
			admin.GET("/rewards/:id", s.handleAdminGetReward)
			admin.PATCH("/rewards/:id", s.handleAdminUpdateReward)
			admin.POST("/paid-access/:id/grant", s.handleAdminGrantPaidAccess)
			admin.GET("/campaigns", s.handleAdminListCampaigns)
		}
	}
}

// Health check handler
func (s *APIServer) healthCheck(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "api",
	})
}

// handleRegister handles user registration
func (s *APIServer) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case auth.ErrEmailAlreadyExists:
			respondError(c, apierrors.NewInvalidRequestError("Email already registered"))
		case auth.ErrDisplayNameRequired:
			respondError(c, apierrors.NewValidationError("Display name is required for creators"))
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// handleLogin handles user login
func (s *APIServer) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			respondError(c, apierrors.ErrInvalidCredentialsError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleRefresh handles token refresh
func (s *APIServer) handleRefresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	tokens, err := s.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrInvalidToken:
			respondError(c, apierrors.ErrInvalidCredentialsError)
		case auth.ErrTokenExpired:
			respondError(c, apierrors.ErrTokenExpiredError)
		case auth.ErrUserNotFound:
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// respondError sends a standardized error response
func respondError(c *gin.Context, err *apierrors.APIError) {
	requestID := c.GetString("request_id")
	c.JSON(err.HTTPStatus, apierrors.ErrorResponse{
		Error:     *err,
		RequestID: requestID,
	})
}
