// Package store holds client state. Every change goes through Dispatch so
// subscribers observe a consistent sequence of snapshots.
package store

import (
	"sync"

	"github.com/zfogg/picfeed/pkg/api"
)

// RecentCommentsShown is how many comments a feed row carries
const RecentCommentsShown = 2

// State is the client's view of the world
type State struct {
	// Posts are the loaded feed rows, in feed order
	Posts []api.Post
	// Comments holds full comment lists for posts opened in detail
	Comments map[string][]api.Comment
	// Profiles are profile headers by user id
	Profiles map[string]api.UserProfile
}

func (s State) clone() State {
	out := State{
		Posts:    make([]api.Post, len(s.Posts)),
		Comments: make(map[string][]api.Comment, len(s.Comments)),
		Profiles: make(map[string]api.UserProfile, len(s.Profiles)),
	}
	for i, p := range s.Posts {
		out.Posts[i] = clonePost(p)
	}
	for id, cs := range s.Comments {
		out.Comments[id] = append([]api.Comment(nil), cs...)
	}
	for id, p := range s.Profiles {
		out.Profiles[id] = p
	}
	return out
}

func clonePost(p api.Post) api.Post {
	p.RecentComments = append([]api.Comment(nil), p.RecentComments...)
	if p.Caption != nil {
		c := *p.Caption
		p.Caption = &c
	}
	return p
}

// Action is a state transition
type Action interface {
	apply(s *State)
}

// Store is a mutex-guarded reducer
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// New creates an empty store
func New() *Store {
	return &Store{
		state: State{}.clone(),
		subs:  make(map[int]func(State)),
	}
}

// Dispatch applies actions in order, then notifies subscribers once
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	for _, a := range actions {
		a.apply(&s.state)
	}
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers fn to receive a snapshot after every Dispatch
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// State returns a deep copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Post returns a copy of a loaded post and its feed index
func (s *Store) Post(id string) (api.Post, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.state.Posts, id); i >= 0 {
		return clonePost(s.state.Posts[i]), i, true
	}
	return api.Post{}, -1, false
}

// Comments returns a copy of a post's loaded comments and whether any were loaded
func (s *Store) Comments(postID string) ([]api.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.state.Comments[postID]
	return append([]api.Comment(nil), cs...), ok
}

// Profile returns a loaded profile header
func (s *Store) Profile(userID string) (api.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.Profiles[userID]
	return p, ok
}

// PostIDs returns loaded post ids in feed order
func (s *Store) PostIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.state.Posts))
	for i, p := range s.state.Posts {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of loaded posts
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Posts)
}

func indexOf(posts []api.Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
