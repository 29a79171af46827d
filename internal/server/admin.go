package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/wavelit/creatorhub/internal/errors"
	"github.com/wavelit/creatorhub/internal/logging"
	"github.com/wavelit/creatorhub/internal/middleware"
	"github.com/wavelit/creatorhub/internal/reward"
)

// handleAdminListRewards returns every creator with their computed reward
// record
func (s *APIServer) handleAdminListRewards(c *gin.Context) {
	rewards, err := s.rewardService.ListCreatorRewards(c.Request.Context())
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "admin_list_rewards")
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"users":  rewards,
	})
}

// handleAdminGetReward returns one creator's computed reward record
func (s *APIServer) handleAdminGetReward(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.NewInvalidRequestError("Invalid user id"))
		return
	}

	r, err := s.rewardService.GetCreatorReward(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, reward.ErrCreatorNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   r,
	})
}

// updateRewardRequest is the body for an approved-count adjustment
type updateRewardRequest struct {
	ApprovedContent *int   `json:"approved_content" binding:"required"`
	Note            string `json:"note"`
}

// handleAdminUpdateReward updates a creator's approved content count and
// returns the recomputed record
func (s *APIServer) handleAdminUpdateReward(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.NewInvalidRequestError("Invalid user id"))
		return
	}

	var req updateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	adminID := middleware.GetUserUUIDFromContext(c)

	var oldCount int
	if existing, err := s.rewardService.GetCreatorReward(c.Request.Context(), userID); err == nil {
		oldCount = existing.Record.ApprovedCount
	}

	r, err := s.rewardService.UpdateApprovedCount(c.Request.Context(), adminID, userID, *req.ApprovedContent, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, reward.ErrCreatorNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		case errors.Is(err, reward.ErrInvalidCount):
			respondError(c, apierrors.NewValidationError("Approved count must be non-negative"))
		default:
			logging.LogError(err, c.GetString("request_id"), "server", "admin_update_reward")
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	logging.LogRewardAdjustment(
		c.GetString("request_id"),
		adminID.String(),
		userID.String(),
		oldCount,
		*req.ApprovedContent,
		req.Note,
	)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   r,
	})
}

// handleAdminGrantPaidAccess grants a creator access to paid campaigns
func (s *APIServer) handleAdminGrantPaidAccess(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.NewInvalidRequestError("Invalid user id"))
		return
	}

	adminID := middleware.GetUserUUIDFromContext(c)

	if err := s.eligibilityService.GrantPaidAccess(c.Request.Context(), adminID, userID); err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "admin_grant_paid_access")
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Paid access granted",
	})
}

// handleAdminListCampaigns returns raw campaign rows for the admin table
func (s *APIServer) handleAdminListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	campaigns, hasMore, err := s.eligibilityService.ListCampaignsRaw(c.Request.Context(), page, perPage)
	if err != nil {
		logging.LogError(err, c.GetString("request_id"), "server", "admin_list_campaigns")
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"campaigns": campaigns,
		"page":      page,
		"per_page":  perPage,
		"has_more":  hasMore,
	})
}
