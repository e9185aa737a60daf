package service

import (
	"context"
	"time"

	"github.com/zfogg/picfeed/pkg/feed"
	"github.com/zfogg/picfeed/pkg/formatter"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/output"
	"github.com/zfogg/picfeed/pkg/store"
)

// FeedService prints pages of posts
type FeedService struct {
	PageSize int
}

// NewFeedService creates a new feed service
func NewFeedService(pageSize int) *FeedService {
	return &FeedService{PageSize: pageSize}
}

// Show loads up to pages pages from fetch and prints them
func (fs *FeedService) Show(ctx context.Context, title string, fetch feed.Fetcher, pages int) error {
	if pages < 1 {
		pages = 1
	}
	logger.Debug("Viewing feed", "title", title, "pages", pages)

	st := store.New()
	pager := feed.NewPager(st, fetch, fs.PageSize)
	for i := 0; i < pages && pager.HasMore(); i++ {
		if _, err := pager.LoadNext(ctx); err != nil {
			return err
		}
	}

	posts := st.State().Posts
	if output.IsJSON() {
		return output.Print("", posts)
	}
	if pager.Empty() {
		output.PrintInfo("No posts yet.")
		return nil
	}

	output.Printf("%s\n\n", formatter.Bold.Sprint(title))
	now := time.Now()
	for _, p := range posts {
		output.Println(formatter.Post(p, now))
	}
	if pager.HasMore() {
		output.PrintInfo("More posts available: use --pages %d", pages+1)
	}
	return nil
}
