package repository

import (
	"context"

	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recentCommentsPerPost is how many comments a feed row previews
const recentCommentsPerPost = 2

// ListOptions selects a feed page
type ListOptions struct {
	Page
	// UserID restricts the feed to one author when set
	UserID string
	// ViewerID drives is_liked; empty for anonymous viewers
	ViewerID string
}

// PostPage is one page of enriched feed rows plus the unpaged total
type PostPage struct {
	Posts []dto.PostResponse
	Total int64
	Page  Page
}

// HasMore reports whether another page follows
func (p *PostPage) HasMore() bool {
	return p.Page.HasMore(p.Total)
}

// PostRepository handles all database operations for posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error

	ListPosts(ctx context.Context, opts ListOptions) (*PostPage, error)
	ListLikedPosts(ctx context.Context, userID string, page Page) (*PostPage, error)
	// GetPostDetail returns the enriched post and every comment, oldest first
	GetPostDetail(ctx context.Context, postID, viewerID string) (*dto.PostResponse, []dto.CommentResponse, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// DeletePost removes the row; likes and comments go with it through the FK cascade
func (r *postRepository) DeletePost(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) ListPosts(ctx context.Context, opts ListOptions) (*PostPage, error) {
	page := NewPage(opts.Limit, opts.Offset)

	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{})
		if opts.UserID != "" {
			q = q.Where("user_id = ?", opts.UserID)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := scope().
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	rows, err := r.enrich(ctx, posts, opts.ViewerID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: rows, Total: total, Page: page}, nil
}

// ListLikedPosts pages through posts the user liked, most recently liked first
func (r *postRepository) ListLikedPosts(ctx context.Context, userID string, page Page) (*PostPage, error) {
	page = NewPage(page.Limit, page.Offset)

	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Post{}).
			Joins("JOIN likes ON likes.post_id = posts.id AND likes.user_id = ?", userID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := scope().
		Preload("User").
		Order("likes.created_at DESC").
		Order("posts.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	rows, err := r.enrich(ctx, posts, userID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: rows, Total: total, Page: page}, nil
}

func (r *postRepository) GetPostDetail(ctx context.Context, postID, viewerID string) (*dto.PostResponse, []dto.CommentResponse, error) {
	post, err := r.GetPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.enrich(ctx, []*models.Post{post}, viewerID)
	if err != nil {
		return nil, nil, err
	}

	var comments []*models.Comment
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.ToCommentResponse(c))
	}
	return &rows[0], out, nil
}

// enrich attaches aggregates, viewer like state and comment previews, keeping input order
func (r *postRepository) enrich(ctx context.Context, posts []*models.Post, viewerID string) ([]dto.PostResponse, error) {
	rows := make([]dto.PostResponse, 0, len(posts))
	if len(posts) == 0 {
		return rows, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var stats []models.PostStats
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&stats).Error; err != nil {
		return nil, err
	}
	statsByPost := make(map[string]models.PostStats, len(stats))
	for _, s := range stats {
		statsByPost[s.PostID] = s
	}

	liked := make(map[string]bool)
	if viewerID != "" {
		var likedIDs []string
		err := r.db.WithContext(ctx).
			Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &likedIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for _, p := range posts {
		recent, err := r.recentComments(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		s := statsByPost[p.ID]
		rows = append(rows, dto.PostResponse{
			ID:             p.ID,
			UserID:         p.UserID,
			ImageURL:       p.ImageURL,
			Caption:        p.Caption,
			CreatedAt:      p.CreatedAt,
			Author:         dto.ToAuthor(&p.User),
			LikesCount:     s.LikesCount,
			CommentsCount:  s.CommentsCount,
			IsLiked:        liked[p.ID],
			RecentComments: recent,
		})
	}
	return rows, nil
}

// recentComments returns the newest comments on a post, newest first
func (r *postRepository) recentComments(ctx context.Context, postID string) ([]dto.CommentResponse, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(recentCommentsPerPost).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.ToCommentResponse(c))
	}
	return out, nil
}
