// Package interaction applies likes, comments, deletes and follows to the
// store before the server confirms them, and undoes them when it refuses.
//
// Every control (the like button of a post, the comment form of a post, and
// so on) walks Idle -> Pending -> Committed | RolledBack. While a control is
// Pending a second invocation is dropped with ErrInFlight.
package interaction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zfogg/picfeed/pkg/api"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/store"
)

// MaxCommentLength matches the server's limit
const MaxCommentLength = 500

// PlaceholderPrefix marks comment ids that have not been confirmed yet
const PlaceholderPrefix = "pending-"

var (
	// ErrInFlight is returned when the control already has a request outstanding
	ErrInFlight = errors.New("interaction already in flight")
	// ErrNotLoaded is returned when the target is not in the store
	ErrNotLoaded = errors.New("target is not loaded")
)

// State is a control's position in the optimistic update lifecycle
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Control keys
func LikeKey(postID string) string         { return "like:" + postID }
func CommentKey(postID string) string      { return "comment:" + postID }
func UncommentKey(commentID string) string { return "uncomment:" + commentID }
func DeletePostKey(postID string) string   { return "delete:" + postID }
func FollowKey(userID string) string       { return "follow:" + userID }

// Controller runs optimistic interactions against one store
type Controller struct {
	store *store.Store
	api   API

	mu     sync.Mutex
	states map[string]State
}

// NewController creates a controller; a nil api uses the HTTP client
func NewController(st *store.Store, a API) *Controller {
	if a == nil {
		a = Remote()
	}
	return &Controller{store: st, api: a, states: make(map[string]State)}
}

// State returns the state of a control
func (c *Controller) State(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[key]
}

func (c *Controller) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[key] == Pending {
		return ErrInFlight
	}
	c.states[key] = Pending
	return nil
}

func (c *Controller) finish(key string, s State) {
	c.mu.Lock()
	c.states[key] = s
	c.mu.Unlock()
}

// settle decides the outcome of a call. A cancelled call drops the response
// and undoes its optimistic change, since the request may never have landed.
func (c *Controller) settle(ctx context.Context, key string, err error, rollback func()) (bool, error) {
	if ctx.Err() != nil {
		rollback()
		c.finish(key, Idle)
		logger.Debug("Dropping response after cancellation", "control", key)
		return false, clierrors.Classify(ctx.Err())
	}
	if err != nil {
		rollback()
		c.finish(key, RolledBack)
		desc := clierrors.Classify(err)
		logger.Warn("Interaction rolled back", "control", key, "kind", desc.Kind)
		return false, desc
	}
	c.finish(key, Committed)
	return true, nil
}

func bump(n int64, delta int64) int64 {
	n += delta
	if n < 0 {
		return 0
	}
	return n
}

// ToggleLike likes an unliked post or unlikes a liked one. On success the
// server's like state and count replace the optimistic ones.
func (c *Controller) ToggleLike(ctx context.Context, postID string) (bool, error) {
	key := LikeKey(postID)
	if err := c.begin(key); err != nil {
		return false, err
	}

	snapshot, _, ok := c.store.Post(postID)
	if !ok {
		c.finish(key, Idle)
		return false, ErrNotLoaded
	}

	liking := !snapshot.IsLiked
	optimistic := snapshot
	optimistic.IsLiked = liking
	if liking {
		optimistic.LikesCount = bump(optimistic.LikesCount, 1)
	} else {
		optimistic.LikesCount = bump(optimistic.LikesCount, -1)
	}
	c.store.Dispatch(store.PutPost{Post: optimistic})

	var res *api.LikeResult
	var err error
	if liking {
		res, err = c.api.LikePost(ctx, postID)
	} else {
		res, err = c.api.UnlikePost(ctx, postID)
	}

	committed, err := c.settle(ctx, key, err, func() {
		c.updatePost(postID, func(p *api.Post) {
			p.IsLiked = snapshot.IsLiked
			p.LikesCount = snapshot.LikesCount
		})
	})
	if !committed {
		return snapshot.IsLiked, err
	}

	c.updatePost(postID, func(p *api.Post) {
		p.IsLiked = res.IsLiked
		p.LikesCount = res.LikesCount
	})
	return res.IsLiked, nil
}

// AddComment shows the comment immediately under a placeholder id and swaps
// in the server's copy once it is created.
func (c *Controller) AddComment(ctx context.Context, postID, content string, author api.Author) (*api.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxCommentLength {
		e := clierrors.New(clierrors.KindBadRequest, nil)
		e.Message = "Comments must be between 1 and 500 characters."
		return nil, e
	}

	key := CommentKey(postID)
	if err := c.begin(key); err != nil {
		return nil, err
	}

	snapshot, _, inFeed := c.store.Post(postID)
	placeholder := api.Comment{
		ID:        PlaceholderPrefix + uuid.NewString(),
		PostID:    postID,
		UserID:    author.ID,
		Content:   content,
		CreatedAt: time.Now(),
		Author:    author,
	}
	c.store.Dispatch(store.AppendComment{Comment: placeholder})
	c.updatePost(postID, func(p *api.Post) {
		p.CommentsCount = bump(p.CommentsCount, 1)
	})

	created, err := c.api.CreateComment(ctx, postID, content)

	committed, err := c.settle(ctx, key, err, func() {
		c.store.Dispatch(store.RemoveComment{PostID: postID, CommentID: placeholder.ID})
		if inFeed {
			c.updatePost(postID, func(p *api.Post) {
				p.CommentsCount = snapshot.CommentsCount
				p.RecentComments = snapshot.RecentComments
			})
		}
	})
	if !committed {
		return nil, err
	}

	c.store.Dispatch(store.ReplaceComment{PostID: postID, OldID: placeholder.ID, Comment: *created})
	return created, nil
}

// DeleteComment removes a comment from the post's lists right away
func (c *Controller) DeleteComment(ctx context.Context, postID, commentID string) error {
	if strings.HasPrefix(commentID, PlaceholderPrefix) {
		return ErrInFlight
	}

	key := UncommentKey(commentID)
	if err := c.begin(key); err != nil {
		return err
	}

	snapshot, _, inFeed := c.store.Post(postID)
	comments, loaded := c.store.Comments(postID)

	c.store.Dispatch(store.RemoveComment{PostID: postID, CommentID: commentID})
	c.updatePost(postID, func(p *api.Post) {
		p.CommentsCount = bump(p.CommentsCount, -1)
	})

	err := c.api.DeleteComment(ctx, commentID)

	_, err = c.settle(ctx, key, err, func() {
		if loaded {
			c.store.Dispatch(store.SetComments{PostID: postID, Comments: comments, Loaded: true})
		}
		if inFeed {
			c.updatePost(postID, func(p *api.Post) {
				p.CommentsCount = snapshot.CommentsCount
				p.RecentComments = snapshot.RecentComments
			})
		}
	})
	return err
}

// DeletePost drops the post from the feed; a refusal puts it back where it was
func (c *Controller) DeletePost(ctx context.Context, postID string) error {
	key := DeletePostKey(postID)
	if err := c.begin(key); err != nil {
		return err
	}

	snapshot, index, inFeed := c.store.Post(postID)
	comments, loaded := c.store.Comments(postID)

	c.store.Dispatch(store.RemovePost{ID: postID})

	err := c.api.DeletePost(ctx, postID)

	_, err = c.settle(ctx, key, err, func() {
		var restore []store.Action
		if inFeed {
			restore = append(restore, store.InsertPost{Post: snapshot, Index: index})
		}
		if loaded {
			restore = append(restore, store.SetComments{PostID: postID, Comments: comments, Loaded: true})
		}
		c.store.Dispatch(restore...)
	})
	return err
}

// ToggleFollow follows or unfollows the user whose profile is loaded
func (c *Controller) ToggleFollow(ctx context.Context, userID string) (bool, error) {
	key := FollowKey(userID)
	if err := c.begin(key); err != nil {
		return false, err
	}

	snapshot, ok := c.store.Profile(userID)
	if !ok {
		c.finish(key, Idle)
		return false, ErrNotLoaded
	}

	following := !snapshot.IsFollowing
	optimistic := snapshot
	optimistic.IsFollowing = following
	if following {
		optimistic.User.FollowersCount = bump(optimistic.User.FollowersCount, 1)
	} else {
		optimistic.User.FollowersCount = bump(optimistic.User.FollowersCount, -1)
	}
	c.store.Dispatch(store.PutProfile{Profile: optimistic})

	var err error
	if following {
		_, err = c.api.Follow(ctx, userID)
	} else {
		err = c.api.Unfollow(ctx, userID)
	}

	committed, err := c.settle(ctx, key, err, func() {
		c.store.Dispatch(store.PutProfile{Profile: snapshot})
	})
	if !committed {
		return snapshot.IsFollowing, err
	}
	return following, nil
}

func (c *Controller) updatePost(postID string, fn func(*api.Post)) {
	p, _, ok := c.store.Post(postID)
	if !ok {
		return
	}
	fn(&p)
	c.store.Dispatch(store.PutPost{Post: p})
}
