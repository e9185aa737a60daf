package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zfogg/picfeed/pkg/api"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
	"github.com/zfogg/picfeed/pkg/feed"
	"github.com/zfogg/picfeed/pkg/formatter"
	"github.com/zfogg/picfeed/pkg/interaction"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/navigator"
	"github.com/zfogg/picfeed/pkg/output"
	"github.com/zfogg/picfeed/pkg/store"
)

const browseHelp = "j next  k prev  l like  c comment  v comments  d delete  m more  r refresh  q quit"

// BrowseOptions wires the interactive browser to its collaborators
type BrowseOptions struct {
	Fetch    feed.Fetcher
	API      interaction.API
	Detail   func(ctx context.Context, postID string) (*api.PostDetail, error)
	Me       api.Author
	PageSize int
	Keys     func() (rune, error)
	Prompt   func(label string) (string, error)
	Confirm  func(label string) (bool, error)
}

// Browser is the interactive feed: one post at a time, with likes, comments
// and deletes applied optimistically.
type Browser struct {
	opts        BrowseOptions
	store       *store.Store
	pager       *feed.Pager
	ctrl        *interaction.Controller
	nav         *navigator.Navigator
	unsubscribe func()
}

// NewBrowser creates a browser over an empty store
func NewBrowser(opts BrowseOptions) *Browser {
	st := store.New()
	b := &Browser{
		opts:  opts,
		store: st,
		pager: feed.NewPager(st, opts.Fetch, opts.PageSize),
		ctrl:  interaction.NewController(st, opts.API),
		nav:   navigator.New(nil),
	}
	b.unsubscribe = st.Subscribe(func(s store.State) {
		ids := make([]string, len(s.Posts))
		for i, p := range s.Posts {
			ids[i] = p.ID
		}
		b.nav.Sync(ids)
	})
	return b
}

// Close stops following the store
func (b *Browser) Close() {
	b.unsubscribe()
}

func (b *Browser) Store() *store.Store                 { return b.store }
func (b *Browser) Pager() *feed.Pager                  { return b.pager }
func (b *Browser) Navigator() *navigator.Navigator     { return b.nav }
func (b *Browser) Controller() *interaction.Controller { return b.ctrl }

// Current returns the post under the cursor
func (b *Browser) Current() (api.Post, bool) {
	id, _, ok := b.nav.Current()
	if !ok {
		return api.Post{}, false
	}
	p, _, ok := b.store.Post(id)
	return p, ok
}

// Start loads the first page and opens its first post
func (b *Browser) Start(ctx context.Context) error {
	if _, err := b.pager.LoadNext(ctx); err != nil {
		return err
	}
	b.openAt(0)
	return nil
}

func (b *Browser) openAt(index int) {
	ids := b.store.PostIDs()
	if len(ids) == 0 {
		b.nav.Close()
		return
	}
	if index >= len(ids) {
		index = len(ids) - 1
	}
	if index < 0 {
		index = 0
	}
	b.nav.Open(ids[index])
}

// Handle applies one keypress. It reports quit for q; errors are classified
// descriptors or notices meant for the status line.
func (b *Browser) Handle(ctx context.Context, key rune) (bool, error) {
	switch key {
	case 'q':
		return true, nil
	case 'j':
		if _, ok := b.nav.Next(); !ok {
			if b.pager.HasMore() {
				return false, errors.New("last loaded post: press m to load more")
			}
			return false, errors.New("end of feed")
		}
	case 'k':
		b.nav.Prev()
	case 'm':
		return false, b.loadMore(ctx)
	case 'r':
		b.pager.Reset()
		if err := b.Start(ctx); err != nil {
			return false, err
		}
	case 'l':
		p, ok := b.Current()
		if !ok {
			return false, nil
		}
		_, err := b.ctrl.ToggleLike(ctx, p.ID)
		return false, err
	case 'c':
		return false, b.comment(ctx)
	case 'v':
		return false, b.loadComments(ctx)
	case 'd':
		return false, b.deleteCurrent(ctx)
	}
	return false, nil
}

func (b *Browser) loadMore(ctx context.Context) error {
	if !b.pager.HasMore() {
		if err := b.pager.Err(); err != nil {
			return err
		}
		return errors.New("no more posts")
	}
	added, err := b.pager.LoadNext(ctx)
	if err != nil {
		return err
	}
	logger.Debug("Loaded more posts", "added", added, "total", b.store.Len())
	if !b.nav.IsOpen() {
		b.openAt(0)
	}
	return nil
}

func (b *Browser) comment(ctx context.Context) error {
	p, ok := b.Current()
	if !ok || b.opts.Prompt == nil {
		return nil
	}
	text, err := b.opts.Prompt("Comment: ")
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	_, err = b.ctrl.AddComment(ctx, p.ID, text, b.opts.Me)
	return err
}

func (b *Browser) loadComments(ctx context.Context) error {
	p, ok := b.Current()
	if !ok || b.opts.Detail == nil {
		return nil
	}
	detail, err := b.opts.Detail(ctx, p.ID)
	if err != nil {
		return clierrors.Classify(err)
	}
	if ctx.Err() != nil {
		return clierrors.Classify(ctx.Err())
	}
	b.store.Dispatch(store.SetComments{PostID: p.ID, Comments: detail.Comments, Loaded: true})
	return nil
}

func (b *Browser) deleteCurrent(ctx context.Context) error {
	p, ok := b.Current()
	if !ok {
		return nil
	}
	if p.UserID != b.opts.Me.ID {
		return errors.New("you can only delete your own posts")
	}
	if b.opts.Confirm != nil {
		yes, err := b.opts.Confirm("Delete this post?")
		if err != nil || !yes {
			return err
		}
	}

	_, index, _ := b.nav.Current()
	err := b.ctrl.DeletePost(ctx, p.ID)
	// the optimistic removal closed the cursor; reopen where the user was
	if !b.nav.Open(p.ID) {
		b.openAt(index)
	}
	return err
}

// Render writes the current view
func (b *Browser) Render(w io.Writer) {
	p, ok := b.Current()
	if !ok {
		if b.pager.Empty() {
			fmt.Fprintln(w, "No posts yet.")
		}
		fmt.Fprintln(w, formatter.Faint.Sprint(browseHelp))
		return
	}

	now := time.Now()
	fmt.Fprint(w, formatter.Post(p, now))
	if comments, loaded := b.store.Comments(p.ID); loaded {
		fmt.Fprint(w, formatter.Comments(comments, now))
	}
	_, index, _ := b.nav.Current()
	more := ""
	if b.pager.HasMore() {
		more = "+"
	}
	fmt.Fprintf(w, "%s\n", formatter.Faint.Sprintf("[%d/%d%s] %s", index+1, b.nav.Len(), more, browseHelp))
}

// Run drives the browser from keypresses until q or the context ends
func (b *Browser) Run(ctx context.Context) error {
	defer b.Close()

	if err := b.Start(ctx); err != nil {
		output.PrintError("%s", clierrors.Format(err))
	}
	for {
		output.Println()
		b.Render(output.Out)

		key, err := b.opts.Keys()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		quit, err := b.Handle(ctx, key)
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			var desc *clierrors.Error
			if errors.As(err, &desc) {
				output.PrintError("%s", clierrors.Format(desc))
			} else {
				output.PrintWarning("%s", err)
			}
		}
	}
}
