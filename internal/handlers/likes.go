package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
)

// LikePost likes a post; liking twice is a 409
// POST /api/v1/likes
func (h *Handlers) LikePost(c *gin.Context) {
	h.toggleLike(c, true)
}

// UnlikePost removes the caller's like; a missing like is a 404
// DELETE /api/v1/likes
func (h *Handlers) UnlikePost(c *gin.Context) {
	h.toggleLike(c, false)
}

func (h *Handlers) toggleLike(c *gin.Context, like bool) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "post_id", "post_id must be a valid id")
		return
	}

	action := "unlike"
	if like {
		action = "like"
	}
	ctx, span := telemetry.TraceSocial(c.Request.Context(), action, "post", req.PostID)

	var (
		row *models.Like
		err error
	)
	if like {
		row, err = h.likes.Like(ctx, userID, req.PostID)
	} else {
		row, err = h.likes.Unlike(ctx, userID, req.PostID)
	}
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.RecordInteraction(action, "error")
		respondRepoError(c, err, "like", action)
		return
	}

	count, err := h.likes.CountForPost(ctx, req.PostID)
	if err != nil {
		util.RespondServerError(c, err, "failed to count likes")
		return
	}

	metrics.RecordInteraction(action, "ok")
	status := http.StatusOK
	if like {
		status = http.StatusCreated
	}
	c.JSON(status, dto.LikeResponse{
		Success:    true,
		Like:       *row,
		IsLiked:    like,
		LikesCount: count,
	})
}

// GetLikedPosts pages through posts the caller liked
// GET /api/v1/likes/user
func (h *Handlers) GetLikedPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c)
	ctx, span := telemetry.TraceFeed(c.Request.Context(), "liked", limit, offset)
	page, err := h.posts.ListLikedPosts(ctx, userID, repository.Page{Limit: limit, Offset: offset})
	telemetry.EndSpan(span, err)
	if err != nil {
		util.RespondServerError(c, err, "failed to list liked posts")
		return
	}

	metrics.Get().FeedPageSize.WithLabelValues("liked").Observe(float64(len(page.Posts)))
	c.JSON(http.StatusOK, toPostPage(page))
}
