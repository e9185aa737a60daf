// Package feed pages through post lists into a store.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/zfogg/picfeed/pkg/api"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/store"
)

// DefaultPageSize matches the server's default limit
const DefaultPageSize = 10

// ErrLoading is returned when LoadNext is called while a load is outstanding
var ErrLoading = errors.New("a page is already loading")

// Fetcher loads one page
type Fetcher func(ctx context.Context, limit, offset int) (*api.PostPage, error)

// GlobalFeed pages the global feed, or one user's posts when userID is set
func GlobalFeed(userID string) Fetcher {
	return func(ctx context.Context, limit, offset int) (*api.PostPage, error) {
		return api.GetFeed(ctx, limit, offset, userID)
	}
}

// LikedPosts pages the caller's liked posts
func LikedPosts() Fetcher {
	return api.GetLikedPosts
}

// Pager loads pages into a store. The store's post list is the loaded item
// set; the next offset is its length, so posts removed locally shift the
// window the same way the server's ordering does.
type Pager struct {
	mu       sync.Mutex
	store    *store.Store
	fetch    Fetcher
	pageSize int

	loading bool
	loaded  bool // at least one page answered
	hasMore bool
	empty   bool
	err     *clierrors.Error
}

// NewPager creates a pager; pageSize <= 0 uses DefaultPageSize
func NewPager(st *store.Store, fetch Fetcher, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{store: st, fetch: fetch, pageSize: pageSize, hasMore: true}
}

// LoadNext fetches the page after the loaded items and appends unseen posts.
// It returns the number of posts added. After any failure HasMore is false
// until Reset; a response that arrives after ctx is cancelled is dropped.
func (p *Pager) LoadNext(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return 0, ErrLoading
	}
	if !p.hasMore {
		p.mu.Unlock()
		return 0, nil
	}
	p.loading = true
	p.mu.Unlock()

	offset := p.store.Len()
	page, err := p.fetch(ctx, p.pageSize, offset)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if ctx.Err() != nil {
		logger.Debug("Dropping page after cancellation", "offset", offset)
		return 0, clierrors.Classify(ctx.Err())
	}
	if err != nil {
		p.err = clierrors.Classify(err)
		p.hasMore = false
		logger.Warn("Feed page failed", "offset", offset, "kind", p.err.Kind)
		return 0, p.err
	}

	before := p.store.Len()
	p.store.Dispatch(store.AppendPosts{Posts: page.Data})
	added := p.store.Len() - before

	p.loaded = true
	p.err = nil
	p.hasMore = page.Pagination.HasMore
	if offset == 0 && len(page.Data) == 0 {
		p.empty = true
	}
	// a full page of duplicates would otherwise repeat forever
	if added == 0 && len(page.Data) > 0 {
		p.hasMore = false
	}
	return added, nil
}

// Reset clears the loaded posts and error so the next LoadNext starts at offset 0
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.Dispatch(store.ResetPosts{})
	p.loaded = false
	p.hasMore = true
	p.empty = false
	p.err = nil
}

// HasMore reports whether LoadNext may return more posts
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loaded reports whether any page has been answered since the last Reset
func (p *Pager) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Empty is true only when the first page came back with no posts and no error
func (p *Pager) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.empty && p.err == nil
}

// Err returns the last load failure, if any
func (p *Pager) Err() *clierrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// PageSize returns the configured page size
func (p *Pager) PageSize() int {
	return p.pageSize
}
