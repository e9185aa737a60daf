package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/service"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	db       *gorm.DB
	posts    repository.PostRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	users    repository.UserRepository
	postSvc  *service.PostService
	search   UserSearcher
}

// UserSearcher ranks user ids for a query; see internal/search
type UserSearcher interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]string, error)
}

// NewHandlers wires repositories over db and the post service
func NewHandlers(db *gorm.DB, postSvc *service.PostService) *Handlers {
	return &Handlers{
		db:       db,
		posts:    repository.NewPostRepository(db),
		likes:    repository.NewLikeRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
		users:    repository.NewUserRepository(db),
		postSvc:  postSvc,
	}
}

// SetUserSearch enables index-backed user search. Without it, or whenever the
// index errors, search falls back to matching in the database.
func (h *Handlers) SetUserSearch(searcher UserSearcher) {
	h.search = searcher
}

// RouteMiddleware groups the middleware RegisterRoutes applies per route class
type RouteMiddleware struct {
	RequireAuth  gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	// MutationLimit guards every state-changing route
	MutationLimit gin.HandlerFunc
	// UploadLimit additionally guards image uploads
	UploadLimit gin.HandlerFunc
}

func passthrough(c *gin.Context) { c.Next() }

// RegisterRoutes mounts the API on r (normally the /api/v1 group)
func (h *Handlers) RegisterRoutes(r gin.IRouter, mw RouteMiddleware) {
	if mw.OptionalAuth == nil {
		mw.OptionalAuth = passthrough
	}
	if mw.MutationLimit == nil {
		mw.MutationLimit = passthrough
	}
	if mw.UploadLimit == nil {
		mw.UploadLimit = passthrough
	}

	public := r.Group("", mw.OptionalAuth)
	public.GET("/posts", h.GetPosts)
	public.GET("/posts/:id", h.GetPost)
	public.GET("/users/search", h.SearchUsers)
	public.GET("/users/:id", h.GetUser)

	authed := r.Group("", mw.RequireAuth)
	authed.GET("/me", h.GetMe)
	authed.GET("/likes/user", h.GetLikedPosts)

	mutating := authed.Group("", mw.MutationLimit)
	mutating.POST("/posts", mw.UploadLimit, h.CreatePost)
	mutating.DELETE("/posts/:id", h.DeletePost)
	mutating.POST("/likes", h.LikePost)
	mutating.DELETE("/likes", h.UnlikePost)
	mutating.POST("/comments", h.CreateComment)
	mutating.DELETE("/comments", h.DeleteComment)
	mutating.POST("/follows", h.FollowUser)
	mutating.DELETE("/follows", h.UnfollowUser)
}
