package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
)

// CreateComment adds a comment to a post
// POST /api/v1/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "post_id must be a valid id and content is required")
		return
	}

	ctx, span := telemetry.TraceSocial(c.Request.Context(), "comment", "post", req.PostID)
	comment, err := h.comments.Create(ctx, req.PostID, userID, util.NormalizeText(req.Content))
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.RecordInteraction("comment", "error")
		respondRepoError(c, err, "post", "comment on")
		return
	}

	metrics.RecordInteraction("comment", "ok")
	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}

// DeleteComment deletes one of the caller's comments
// DELETE /api/v1/comments
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "comment_id", "comment_id must be a valid id")
		return
	}

	ctx, span := telemetry.TraceSocial(c.Request.Context(), "uncomment", "comment", req.CommentID)
	_, err := h.comments.Delete(ctx, req.CommentID, userID)
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.RecordInteraction("uncomment", "error")
		respondRepoError(c, err, "comment", "delete")
		return
	}

	metrics.RecordInteraction("uncomment", "ok")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
