package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavelit/creatorhub/internal/eligibility"
	apierrors "github.com/wavelit/creatorhub/internal/errors"
	"github.com/wavelit/creatorhub/internal/logging"
	"github.com/wavelit/creatorhub/internal/middleware"
)

// creatorContext builds the eligibility context for the current request:
// the loaded snapshot for authenticated creators, the anonymous context
// otherwise. Failing to load the snapshot fails closed.
func (s *APIServer) creatorContext(c *gin.Context) (*eligibility.CreatorContext, *apierrors.APIError) {
	userID := middleware.GetUserUUIDFromContext(c)
	if userID == uuid.Nil {
		return eligibility.AnonymousContext(), nil
	}

	cc, err := s.eligibilityService.LoadContext(c.Request.Context(), userID)
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "load_creator_context")
		return nil, apierrors.ErrBackendUnavailableError
	}
	return cc, nil
}

// handleListCampaigns returns the page of campaigns visible to the caller,
// each annotated with the resolved decision
func (s *APIServer) handleListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	cc, apiErr := s.creatorContext(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	views, hasMore, err := s.eligibilityService.ListCampaigns(c.Request.Context(), cc, page, perPage)
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "list_campaigns")
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"campaigns": views,
		"page":      page,
		"per_page":  perPage,
		"has_more":  hasMore,
	})
}

// handleGetCampaign returns a single campaign with the caller's decision.
// Campaigns the resolver hides are reported as not found.
func (s *APIServer) handleGetCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.NewInvalidRequestError("Invalid campaign id"))
		return
	}

	cc, apiErr := s.creatorContext(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	campaign, err := s.eligibilityService.GetCampaign(c.Request.Context(), campaignID)
	if err != nil {
		if err == eligibility.ErrCampaignNotFound {
			respondError(c, apierrors.ErrCampaignNotFoundError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	result, err := s.eligibilityService.Resolve(c.Request.Context(), campaignID, cc)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}
	if !result.Visible {
		respondError(c, apierrors.ErrCampaignNotFoundError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"campaign": campaign,
		"decision": result.Decision,
	})
}

// handleApply records a campaign application after re-resolving access
// server-side
func (s *APIServer) handleApply(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.NewInvalidRequestError("Invalid campaign id"))
		return
	}

	cc, apiErr := s.creatorContext(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	err = s.eligibilityService.Apply(c.Request.Context(), cc, campaignID)
	if err != nil {
		switch err {
		case eligibility.ErrCampaignNotFound:
			respondError(c, apierrors.ErrCampaignNotFoundError)
		case eligibility.ErrAlreadyApplied:
			respondError(c, apierrors.ErrAlreadyAppliedError)
		case eligibility.ErrCampaignClosed:
			respondError(c, apierrors.NewInvalidRequestError("Campaign is closed"))
		case eligibility.ErrBlockedByBrand:
			respondError(c, apierrors.ErrBlockedByBrandError)
		case eligibility.ErrMonthlyLimitReached:
			respondError(c, apierrors.ErrMonthlyLimitReachedError)
		case eligibility.ErrPaidAccessLocked:
			respondError(c, apierrors.ErrPaidAccessLockedError)
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	logging.LogApplication(
		c.GetString("request_id"),
		cc.UserID.String(),
		campaignID.String(),
		string(eligibility.DecisionCanApply),
	)

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Application submitted",
	})
}

// handleListApplications returns the creator's applied campaigns and the
// rolling monthly counter
func (s *APIServer) handleListApplications(c *gin.Context) {
	userID := middleware.GetUserUUIDFromContext(c)

	applied, appliedThisMonth, err := s.eligibilityService.Applications(c.Request.Context(), userID)
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "list_applications")
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"campaigns":          applied,
		"applied_this_month": appliedThisMonth,
	})
}

// handlePaidAccess reports whether the creator may see paid campaigns
func (s *APIServer) handlePaidAccess(c *gin.Context) {
	cc, apiErr := s.creatorContext(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	status := s.eligibilityService.PaidAccess(cc)
	c.JSON(http.StatusOK, status)
}

// handleRequestPaidAccess records a creator's request for admin review
func (s *APIServer) handleRequestPaidAccess(c *gin.Context) {
	cc, apiErr := s.creatorContext(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	if err := s.eligibilityService.RequestPaidAccess(c.Request.Context(), cc); err != nil {
		if err == eligibility.ErrUnlockNotMet {
			respondError(c, apierrors.NewInvalidRequestError("Review challenge approval is required before requesting paid access"))
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Access request submitted",
	})
}
