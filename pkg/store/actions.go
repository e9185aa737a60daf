package store

import "github.com/zfogg/picfeed/pkg/api"

// AppendPosts adds posts to the end of the feed, skipping ids already loaded
type AppendPosts struct {
	Posts []api.Post
}

func (a AppendPosts) apply(s *State) {
	seen := make(map[string]bool, len(s.Posts))
	for _, p := range s.Posts {
		seen[p.ID] = true
	}
	for _, p := range a.Posts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.Posts = append(s.Posts, clonePost(p))
	}
}

// ResetPosts clears the feed
type ResetPosts struct{}

func (ResetPosts) apply(s *State) {
	s.Posts = nil
}

// PutPost replaces a loaded post; unknown ids are ignored
type PutPost struct {
	Post api.Post
}

func (a PutPost) apply(s *State) {
	if i := indexOf(s.Posts, a.Post.ID); i >= 0 {
		s.Posts[i] = clonePost(a.Post)
	}
}

// RemovePost drops a post from the feed along with its loaded comments
type RemovePost struct {
	ID string
}

func (a RemovePost) apply(s *State) {
	if i := indexOf(s.Posts, a.ID); i >= 0 {
		s.Posts = append(s.Posts[:i], s.Posts[i+1:]...)
	}
	delete(s.Comments, a.ID)
}

// InsertPost puts a post back at index (clamped to the feed bounds)
type InsertPost struct {
	Post  api.Post
	Index int
}

func (a InsertPost) apply(s *State) {
	if indexOf(s.Posts, a.Post.ID) >= 0 {
		return
	}
	i := a.Index
	if i < 0 {
		i = 0
	}
	if i > len(s.Posts) {
		i = len(s.Posts)
	}
	s.Posts = append(s.Posts, api.Post{})
	copy(s.Posts[i+1:], s.Posts[i:])
	s.Posts[i] = clonePost(a.Post)
}

// SetComments replaces a post's full comment list; Loaded=false forgets it
type SetComments struct {
	PostID   string
	Comments []api.Comment
	Loaded   bool
}

func (a SetComments) apply(s *State) {
	if !a.Loaded {
		delete(s.Comments, a.PostID)
		return
	}
	s.Comments[a.PostID] = append([]api.Comment{}, a.Comments...)
}

// AppendComment adds a comment to the post's full list (when loaded) and to
// the front of its feed row's recent comments
type AppendComment struct {
	Comment api.Comment
}

func (a AppendComment) apply(s *State) {
	postID := a.Comment.PostID
	if cs, ok := s.Comments[postID]; ok {
		s.Comments[postID] = append(cs, a.Comment)
	}
	if i := indexOf(s.Posts, postID); i >= 0 {
		recent := append([]api.Comment{a.Comment}, s.Posts[i].RecentComments...)
		if len(recent) > RecentCommentsShown {
			recent = recent[:RecentCommentsShown]
		}
		s.Posts[i].RecentComments = recent
	}
}

// ReplaceComment swaps a placeholder comment for the server's copy
type ReplaceComment struct {
	PostID  string
	OldID   string
	Comment api.Comment
}

func (a ReplaceComment) apply(s *State) {
	replace := func(cs []api.Comment) {
		for i := range cs {
			if cs[i].ID == a.OldID {
				cs[i] = a.Comment
			}
		}
	}
	replace(s.Comments[a.PostID])
	if i := indexOf(s.Posts, a.PostID); i >= 0 {
		replace(s.Posts[i].RecentComments)
	}
}

// RemoveComment drops a comment from the post's lists
type RemoveComment struct {
	PostID    string
	CommentID string
}

func (a RemoveComment) apply(s *State) {
	remove := func(cs []api.Comment) []api.Comment {
		out := cs[:0]
		for _, c := range cs {
			if c.ID != a.CommentID {
				out = append(out, c)
			}
		}
		return out
	}
	if cs, ok := s.Comments[a.PostID]; ok {
		s.Comments[a.PostID] = remove(cs)
	}
	if i := indexOf(s.Posts, a.PostID); i >= 0 {
		s.Posts[i].RecentComments = remove(s.Posts[i].RecentComments)
	}
}

// PutProfile stores a profile header
type PutProfile struct {
	Profile api.UserProfile
}

func (a PutProfile) apply(s *State) {
	s.Profiles[a.Profile.User.ID] = a.Profile
}
