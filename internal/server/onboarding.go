package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/wavelit/creatorhub/internal/errors"
	"github.com/wavelit/creatorhub/internal/logging"
	"github.com/wavelit/creatorhub/internal/middleware"
	"github.com/wavelit/creatorhub/internal/models"
	"github.com/wavelit/creatorhub/internal/monitoring"
	"github.com/wavelit/creatorhub/internal/onboarding"
)

// handleGetCreator returns the creator's profile snapshot
func (s *APIServer) handleGetCreator(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	profile, err := s.onboardingService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, onboarding.ErrProfileNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			logging.LogError(err, c.GetString("request_id"), "server", "get_creator")
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   profile,
	})
}

// handleSocialStatus returns the confirmed per-platform connection state
func (s *APIServer) handleSocialStatus(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	status, err := s.onboardingService.SocialStatus(c.Request.Context(), userID)
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "social_status")
		respondError(c, apierrors.ErrBackendUnavailableError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"instagram": gin.H{"connected": status.Instagram},
		"tiktok":    gin.H{"connected": status.TikTok},
	})
}

// handleResolveOnboarding resolves the creator's current onboarding step.
// An explicit ?step= query lets the client resume mid-flow after an
// external OAuth redirect.
func (s *APIServer) handleResolveOnboarding(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	var requested onboarding.Step
	if q := c.Query("step"); q != "" {
		if parsed, ok := onboarding.ParseStep(q); ok {
			requested = parsed
		}
	}

	step, err := s.onboardingService.ResolveStep(c.Request.Context(), userID, requested)
	if err != nil {
		if errors.Is(err, onboarding.ErrProfileNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			logging.LogError(err, c.GetString("request_id"), "server", "resolve_onboarding")
			respondError(c, apierrors.ErrBackendUnavailableError)
		}
		return
	}

	monitoring.RecordOnboardingStep(string(step))

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"step":   step,
	})
}

// submitURLsRequest is the body for the content URL submission
type submitURLsRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// handleSubmitURLs validates and stores the creator's content URLs
func (s *APIServer) handleSubmitURLs(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	var req submitURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	err := s.onboardingService.SubmitURLs(c.Request.Context(), userID, req.URLs)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrWrongURLCount),
			errors.Is(err, onboarding.ErrInvalidURL),
			errors.Is(err, onboarding.ErrDuplicateURL):
			monitoring.RecordURLValidationFailure()
			respondError(c, apierrors.NewValidationError(err.Error()))
		case errors.Is(err, onboarding.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			logging.LogError(err, c.GetString("request_id"), "server", "submit_urls")
			respondError(c, apierrors.ErrBackendUnavailableError)
		}
		return
	}

	logging.LogOnboardingTransition(
		c.GetString("request_id"),
		userID.String(),
		string(onboarding.StepSubmitURLs),
		string(onboarding.StepConnectAccounts),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Content URLs saved",
	})
}

// connectPlatformRequest is the body for a confirmed platform connection
type connectPlatformRequest struct {
	Handle string `json:"handle" binding:"required"`
}

// handleConnectPlatform records a confirmed OAuth connection and returns the
// re-queried connection state
func (s *APIServer) handleConnectPlatform(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)
	platform := models.SocialPlatform(c.Param("platform"))

	var req connectPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	status, err := s.onboardingService.ConfirmConnection(c.Request.Context(), userID, platform, req.Handle)
	if err != nil {
		if errors.Is(err, onboarding.ErrInvalidPlatform) {
			respondError(c, apierrors.NewInvalidRequestError("Unsupported social platform"))
		} else {
			logging.LogError(err, c.GetString("request_id"), "server", "connect_platform")
			respondError(c, apierrors.ErrBackendUnavailableError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"instagram": gin.H{"connected": status.Instagram},
		"tiktok":    gin.H{"connected": status.TikTok},
	})
}

// handleSkipConnect records the creator's explicit skip of the connection
// step
func (s *APIServer) handleSkipConnect(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	if err := s.onboardingService.SkipConnect(c.Request.Context(), userID); err != nil {
		if errors.Is(err, onboarding.ErrProfileNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			logging.LogError(err, c.GetString("request_id"), "server", "skip_connect")
			respondError(c, apierrors.ErrBackendUnavailableError)
		}
		return
	}

	logging.LogOnboardingTransition(
		c.GetString("request_id"),
		userID.String(),
		string(onboarding.StepConnectAccounts),
		string(onboarding.StepDone),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Connection step skipped",
	})
}
