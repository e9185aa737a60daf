package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/dto"
	apierrors "github.com/zfogg/picfeed/internal/errors"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/service"
	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
)

// multipart overhead allowed on top of the image itself
const maxUploadBody = storage.MaxImageSize + 1<<20

// GetPosts returns a page of the global feed, or one user's posts with ?userId=
// GET /api/v1/posts
func (h *Handlers) GetPosts(c *gin.Context) {
	limit, offset := util.ParsePagination(c)
	viewerID, _ := util.GetOptionalUserID(c)
	authorID := c.Query("userId")

	feed := "global"
	if authorID != "" {
		var ok bool
		if authorID, ok = parseID(authorID); !ok {
			util.RespondValidationError(c, "userId", "userId must be a valid id")
			return
		}
		feed = "profile"
	}
	ctx, span := telemetry.TraceFeed(c.Request.Context(), feed, limit, offset)

	page, err := h.posts.ListPosts(ctx, repository.ListOptions{
		Page:     repository.Page{Limit: limit, Offset: offset},
		UserID:   authorID,
		ViewerID: viewerID,
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		util.RespondServerError(c, err, "failed to list posts")
		return
	}

	metrics.Get().FeedPageSize.WithLabelValues(feed).Observe(float64(len(page.Posts)))
	c.JSON(http.StatusOK, toPostPage(page))
}

// GetPost returns one post with all of its comments, oldest first
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	viewerID, _ := util.GetOptionalUserID(c)
	postID, ok := pathID(c, "post")
	if !ok {
		return
	}

	post, comments, err := h.posts.GetPostDetail(c.Request.Context(), postID, viewerID)
	if err != nil {
		respondRepoError(c, err, "post", "load")
		return
	}

	c.JSON(http.StatusOK, dto.PostDetailResponse{Post: *post, Comments: comments})
}

// CreatePost uploads an image and creates a post owned by the caller
// POST /api/v1/posts (multipart: file, caption, userId)
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	if err := c.Request.ParseMultipartForm(maxUploadBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.RespondWithAPIError(c, apierrors.PayloadTooLarge(fmt.Sprintf("upload exceeds %d bytes", maxUploadBody)))
			return
		}
		util.RespondBadRequest(c, "expected a multipart/form-data body")
		return
	}

	// userId is accepted for compatibility but must name the caller
	if claimed := c.PostForm("userId"); claimed != "" && claimed != userID {
		util.RespondForbidden(c, "cannot create posts for another user")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.RespondValidationError(c, "file", "an image file is required")
		return
	}
	if fileHeader.Size > storage.MaxImageSize {
		util.RespondValidationError(c, "file", storage.ErrImageTooLarge.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.RespondServerError(c, err, "failed to open upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSize+1))
	if err != nil {
		util.RespondServerError(c, err, "failed to read upload")
		return
	}

	post, err := h.postSvc.CreatePost(c.Request.Context(), userID, c.PostForm("caption"), data)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrUnsupportedImage),
		errors.Is(err, storage.ErrEmptyImage):
		util.RespondValidationError(c, "file", err.Error())
		return
	case errors.Is(err, service.ErrInvalidCaption):
		util.RespondValidationError(c, "caption", err.Error())
		return
	default:
		util.RespondServerError(c, err, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// DeletePost deletes a post owned by the caller, with its image, likes and comments
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	postID, ok := pathID(c, "post")
	if !ok {
		return
	}

	if err := h.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondRepoError(c, err, "post", "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "post deleted"})
}
