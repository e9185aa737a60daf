package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
)

// FollowUser follows another user
// POST /api/v1/follows
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "following_id", "following_id must be a valid id")
		return
	}

	ctx, span := telemetry.TraceSocial(c.Request.Context(), "follow", "user", req.FollowingID)
	follow, err := h.follows.Follow(ctx, userID, req.FollowingID)
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.RecordInteraction("follow", "error")
		respondRepoError(c, err, "follow", "follow")
		return
	}

	metrics.RecordInteraction("follow", "ok")
	c.JSON(http.StatusCreated, gin.H{"success": true, "follow": follow})
}

// UnfollowUser removes a follow; a missing relationship is a 404
// DELETE /api/v1/follows
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "following_id", "following_id must be a valid id")
		return
	}

	ctx, span := telemetry.TraceSocial(c.Request.Context(), "unfollow", "user", req.FollowingID)
	err := h.follows.Unfollow(ctx, userID, req.FollowingID)
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.RecordInteraction("unfollow", "error")
		respondRepoError(c, err, "follow", "unfollow")
		return
	}

	metrics.RecordInteraction("unfollow", "ok")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
