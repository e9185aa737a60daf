package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/util"
)

// parseID returns the canonical form of a UUID id. Ids are checked here, before
// they reach uuid-typed columns where postgres rejects malformed input as an
// internal error.
func parseID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// pathID reads the :id route param; anything that cannot be an id is a 404
func pathID(c *gin.Context, resource string) (string, bool) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		util.RespondNotFound(c, resource)
	}
	return id, ok
}

// respondRepoError maps repository sentinels onto API errors; anything else is a 500
func respondRepoError(c *gin.Context, err error, resource, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		util.RespondNotFound(c, resource)
	case errors.Is(err, repository.ErrForbidden):
		util.RespondForbidden(c, "you can only "+action+" your own "+resource)
	case errors.Is(err, repository.ErrSelfFollow):
		util.RespondBadRequest(c, err.Error())
	case errors.Is(err, repository.ErrConflict):
		util.RespondConflict(c, resource+" already exists")
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrInvalidInput):
		util.RespondBadRequest(c, err.Error())
	default:
		util.RespondServerError(c, err, "failed to "+action+" "+resource)
	}
}

func toPostPage(page *repository.PostPage) dto.PostPage {
	data := page.Posts
	if data == nil {
		data = []dto.PostResponse{}
	}
	return dto.PostPage{
		Data: data,
		Pagination: dto.Pagination{
			Total:   page.Total,
			Limit:   page.Page.Limit,
			Offset:  page.Page.Offset,
			HasMore: page.HasMore(),
		},
	}
}
