package formatter

import (
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/zfogg/picfeed/pkg/api"
)

func init() {
	color.NoColor = true
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := map[time.Duration]string{
		10 * time.Second: "just now",
		5 * time.Minute:  "5m",
		3 * time.Hour:    "3h",
		50 * time.Hour:   "2d",
	}
	for ago, want := range cases {
		assert.Equal(t, want, RelativeTime(now.Add(-ago), now))
	}
	assert.Equal(t, "Jan 5", RelativeTime(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Dec 24, 2025", RelativeTime(time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), now))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "0 likes", Count(0, "like", "likes"))
	assert.Equal(t, "1 like", Count(1, "like", "likes"))
	assert.Equal(t, "1k likes", Count(1000, "like", "likes"))
	assert.Equal(t, "1.2k likes", Count(1234, "like", "likes"))
	assert.Equal(t, "45k likes", Count(45_678, "like", "likes"))
	assert.Equal(t, "3.4M likes", Count(3_400_000, "like", "likes"))
}

func TestPost(t *testing.T) {
	now := time.Now()
	caption := "golden hour"
	p := api.Post{
		ID:            "p1",
		ImageURL:      "https://cdn.test/p1.jpg",
		Caption:       &caption,
		CreatedAt:     now.Add(-2 * time.Hour),
		Author:        api.Author{Username: "alice", DisplayName: "Alice"},
		LikesCount:    1,
		CommentsCount: 5,
		IsLiked:       true,
		RecentComments: []api.Comment{
			{ID: "c9", Content: "wow", Author: api.Author{Username: "bob"}, CreatedAt: now},
		},
	}

	out := Post(p, now)
	assert.Contains(t, out, "Alice @alice · 2h")
	assert.Contains(t, out, "golden hour")
	assert.Contains(t, out, "♥ 1 like  5 comments")
	assert.Contains(t, out, "@bob wow just now [c9]")
	assert.Contains(t, out, "view all 5 comments")
}

func TestPostWithoutCaption(t *testing.T) {
	p := api.Post{ID: "p1", ImageURL: "x", Author: api.Author{Username: "alice"}}
	out := Post(p, time.Now())
	assert.Contains(t, out, "@alice @alice")
	assert.Contains(t, out, "♡ 0 likes  0 comments")
	assert.NotContains(t, out, "view all")
}

func TestGrid(t *testing.T) {
	posts := make([]api.Post, 7)
	for i := range posts {
		posts[i] = api.Post{ID: "0123456789", LikesCount: int64(i)}
	}
	rows := Grid(posts)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[2], 1)
	assert.Equal(t, "01234567 ♥0 💬0", rows[0][0])
	assert.Empty(t, Grid(nil))
}

func TestProfile(t *testing.T) {
	out := Profile(api.UserProfile{
		User:        api.User{Username: "bob", PostsCount: 1, FollowersCount: 2, FollowingCount: 3},
		IsFollowing: true,
	})
	assert.Contains(t, out, "1 post  2 followers  3 following")
	assert.Contains(t, out, "Following")
}
