package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/util"
	"go.uber.org/zap"
)

const searchLimit = 20

// GetUser returns a profile header with aggregate counts and the viewer's relationship
// GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	targetID, ok := pathID(c, "user")
	if !ok {
		return
	}
	viewerID, _ := util.GetOptionalUserID(c)

	user, err := h.users.GetByID(ctx, targetID)
	if err != nil {
		respondRepoError(c, err, "user", "load")
		return
	}

	stats, err := h.users.Stats(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		util.RespondServerError(c, err, "failed to load user stats")
		return
	}

	isFollowing, err := h.follows.IsFollowing(ctx, viewerID, user.ID)
	if err != nil {
		util.RespondServerError(c, err, "failed to load follow state")
		return
	}

	c.JSON(http.StatusOK, dto.UserProfileResponse{
		User:         dto.ToUserResponse(user, stats),
		IsFollowing:  isFollowing,
		IsOwnProfile: viewerID != "" && viewerID == user.ID,
	})
}

// SearchUsers matches usernames and display names
// GET /api/v1/users/search?q=
func (h *Handlers) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.findUsers(ctx, c.Query("q"))
	if err != nil {
		util.RespondServerError(c, err, "failed to search users")
		return
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stats, err := h.users.StatsFor(ctx, ids)
	if err != nil {
		util.RespondServerError(c, err, "failed to load user stats")
		return
	}

	resp := dto.UserSearchResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, dto.ToUserResponse(u, stats[u.ID]))
	}
	c.JSON(http.StatusOK, resp)
}

// findUsers asks the search index first and falls back to the database
func (h *Handlers) findUsers(ctx context.Context, query string) ([]*models.User, error) {
	if h.search != nil && strings.TrimSpace(query) != "" {
		ids, err := h.search.SearchUsers(ctx, query, searchLimit)
		if err == nil {
			return h.users.GetByIDs(ctx, ids)
		}
		logger.Log.Warn("Search index failed, falling back to database search", zap.Error(err))
	}
	return h.users.Search(ctx, query, searchLimit)
}

// GetMe returns the caller, provisioning them on first login
// GET /api/v1/me
func (h *Handlers) GetMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	stats, err := h.users.Stats(c.Request.Context(), user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		util.RespondServerError(c, err, "failed to load user stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user, stats))
}
